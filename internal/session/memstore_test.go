package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_PutGetDelete(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	data := Data{UserID: "u1", Username: "dana", Role: "manager"}
	require.NoError(t, s.Put(ctx, "tok", data, time.Hour))

	got, err := s.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, data, *got)

	require.NoError(t, s.Delete(ctx, "tok"))
	_, err = s.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_Expiry(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "tok", Data{UserID: "u1"}, -time.Second))
	_, err := s.Get(ctx, "tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemStore_UnknownToken(t *testing.T) {
	s := NewMemStore()
	_, err := s.Get(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrNotFound)
}
