package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yagontorron/needitv1/internal/config"
	"github.com/yagontorron/needitv1/internal/dto"
	"github.com/yagontorron/needitv1/internal/models"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T) (*AuthService, *memSession) {
	t.Helper()
	st := seededStore(t)
	sess := &memSession{}
	cfg := &config.Config{JWTSecret: testSecret, JWTAccessExpiry: time.Hour}
	return NewAuthService(st.Users(), sess, cfg, NoLatency()), sess
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	return claims
}

func TestLoginIssuesTokenAndPersistsSession(t *testing.T) {
	svc, sess := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "User@Example.com", Password: "password123"})
	require.NoError(t, err)

	assert.Equal(t, "1", resp.User.ID)
	assert.Equal(t, "John Doe", resp.User.DisplayName)
	claims := parseClaims(t, resp.AccessToken)
	assert.Equal(t, "1", claims["sub"])
	assert.Equal(t, "user@example.com", claims["email"])

	persisted, ok := sess.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "1", persisted.ID)

	current, ok := svc.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "1", current.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, sess := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "user@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "", Password: "password123"})
	assert.ErrorIs(t, err, ErrMissingFields)

	assert.Zero(t, sess.saves)
}

func TestRegister(t *testing.T) {
	svc, sess := newAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		DisplayName:     " Maria Garcia ",
		Email:           "maria@example.com",
		Password:        "hunter2hunter2",
		ConfirmPassword: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "Maria Garcia", resp.User.DisplayName)
	assert.NotZero(t, resp.User.CreatedAt)
	assert.Equal(t, 1, sess.saves)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "maria@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     dto.RegisterRequest
		wantErr error
	}{
		{"missing name", dto.RegisterRequest{Email: "a@b.co", Password: "password1", ConfirmPassword: "password1"}, ErrMissingFields},
		{"missing confirm", dto.RegisterRequest{DisplayName: "A", Email: "a@b.co", Password: "password1"}, ErrMissingFields},
		{"bad email", dto.RegisterRequest{DisplayName: "A", Email: "not-an-email", Password: "password1", ConfirmPassword: "password1"}, ErrInvalidEmail},
		{"mismatch", dto.RegisterRequest{DisplayName: "A", Email: "a@b.co", Password: "password1", ConfirmPassword: "password2"}, ErrPasswordMismatch},
		{"short", dto.RegisterRequest{DisplayName: "A", Email: "a@b.co", Password: "short", ConfirmPassword: "short"}, ErrWeakPassword},
		{"taken", dto.RegisterRequest{DisplayName: "A", Email: "ALICE@example.com", Password: "password1", ConfirmPassword: "password1"}, ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogoutClearsOwnSessionOnly(t *testing.T) {
	svc, sess := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "user@example.com", Password: "password123"})
	require.NoError(t, err)

	svc.Logout(ctx, "2")
	_, ok := sess.Load(ctx)
	assert.True(t, ok, "another user's logout keeps the slot")

	svc.Logout(ctx, "1")
	_, ok = sess.Load(ctx)
	assert.False(t, ok)
	_, ok = svc.CurrentUser()
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	svc, sess := newAuthService(t)
	ctx := context.Background()

	_, ok := svc.Restore(ctx)
	assert.False(t, ok)

	sess.user = &models.User{ID: "3", Email: "bob@example.com", DisplayName: "Bob Johnson"}
	u, ok := svc.Restore(ctx)
	require.True(t, ok)
	assert.Equal(t, "3", u.ID)

	sess.user = &models.User{ID: "404"}
	_, ok = svc.Restore(ctx)
	assert.False(t, ok)
	assert.Nil(t, sess.user, "stale slot is cleared")
}

func TestUpdateProfile(t *testing.T) {
	svc, sess := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "user@example.com", Password: "password123"})
	require.NoError(t, err)

	loc := "Valencia, Spain"
	u, err := svc.UpdateProfile(ctx, "1", &dto.UpdateProfileRequest{Location: &loc, Bio: strPtr("Handy with tools")})
	require.NoError(t, err)
	assert.Equal(t, "Valencia, Spain", u.Location)
	assert.Equal(t, "John Doe", u.DisplayName)

	persisted, ok := sess.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, "Valencia, Spain", persisted.Location)

	p, err := svc.Profile("1")
	require.NoError(t, err)
	assert.Equal(t, "Handy with tools", p.Bio)

	_, err = svc.UpdateProfile(ctx, "1", &dto.UpdateProfileRequest{DisplayName: strPtr("  ")})
	assert.ErrorIs(t, err, ErrEmptyDisplayName)
	_, err = svc.UpdateProfile(ctx, "404", &dto.UpdateProfileRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.Profile("404")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSessionFailuresDoNotFailAuth(t *testing.T) {
	svc, sess := newAuthService(t)
	sess.failing = true
	ctx := context.Background()

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "user@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, 1, sess.saves)

	svc.Logout(ctx, "1")
	assert.Equal(t, 1, sess.clears)
}
