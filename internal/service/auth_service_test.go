package service_test

import (
	"context"
	"testing"

	"liquorpos/internal/config"
	"liquorpos/internal/dto"
	"liquorpos/internal/model"
	"liquorpos/internal/repository"
	"liquorpos/internal/service"
	"liquorpos/internal/session"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active || includeInactive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func newAuthFixture(t *testing.T) (service.AuthService, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 8,
		SessionTTLHours:    24,
	}
	return service.NewAuthService(repo, session.NewMemStore(), cfg), repo
}

func TestLogin_IssuesTokens(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "dana", Name: "Dana", Password: "hunter2", Role: "manager",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "dana", Password: "hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "manager", resp.User.Role)

	// the access token carries the role claim, signed with our secret
	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "manager", claims["role"])
	assert.Equal(t, "dana", claims["username"])
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "dana", Name: "Dana", Password: "hunter2", Role: "cashier",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "dana", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "hunter2"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "dana", Name: "Dana", Password: "hunter2", Role: "admin",
	})
	require.NoError(t, err)
	login, err := svc.Login(ctx, dto.LoginRequest{Username: "dana", Password: "hunter2"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the old token is dead after rotation
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.Error(t, err)
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "dana", Name: "Dana", Password: "hunter2", Role: "cashier",
	})
	require.NoError(t, err)
	login, err := svc.Login(ctx, dto.LoginRequest{Username: "dana", Password: "hunter2"})
	require.NoError(t, err)

	id := mustParse(t, created.ID)
	require.NoError(t, repo.Deactivate(ctx, id))

	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.Error(t, err)
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "dana", Name: "Dana", Password: "hunter2", Role: "cashier",
	})
	require.NoError(t, err)
	login, err := svc.Login(ctx, dto.LoginRequest{Username: "dana", Password: "hunter2"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.Error(t, err)
}
