// Package session provides the refresh-token session store. Handlers receive
// a Store by reference — there is no process-wide session map.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Data is what a refresh token resolves to.
type Data struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store holds refresh-token sessions with a TTL. Deleting a session revokes
// the refresh token immediately; expired sessions are evicted by the
// implementation.
type Store interface {
	Put(ctx context.Context, token string, data Data, ttl time.Duration) error
	Get(ctx context.Context, token string) (*Data, error)
	Delete(ctx context.Context, token string) error
}
