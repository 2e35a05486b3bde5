package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hurricane-api/internal/models"
	appErrors "github.com/noah-isme/hurricane-api/pkg/errors"
)

func newSessionService(t *testing.T) (*SessionService, context.Context) {
	t.Helper()
	svc := NewSessionService(newTestState(t), nil, nil, SessionConfig{Secret: "secret", Issuer: "hurricane", Expiry: time.Hour})
	return svc, context.Background()
}

func TestSessionLoginIssuesValidToken(t *testing.T) {
	svc, ctx := newSessionService(t)

	resp, err := svc.Login(ctx, models.LoginRequest{Name: "  Nguyễn An ", ClassName: "11A1"})
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn An", resp.Profile.Name)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "11A1", claims.ClassName)
	assert.Equal(t, "hurricane", claims.Issuer)

	profile, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn An", profile.Name)
}

func TestSessionLoginValidation(t *testing.T) {
	svc, ctx := newSessionService(t)

	_, err := svc.Login(ctx, models.LoginRequest{Name: "   ", ClassName: "11A1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Login(ctx, models.LoginRequest{Name: "An", ClassName: "this class name is too long"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSessionRejectsForeignAndExpiredTokens(t *testing.T) {
	svc, ctx := newSessionService(t)
	other := NewSessionService(newTestState(t), nil, nil, SessionConfig{Secret: "other", Expiry: time.Hour})

	resp, err := other.Login(ctx, models.LoginRequest{Name: "An", ClassName: "11A1"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(resp.Token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	resp, err = svc.Login(ctx, models.LoginRequest{Name: "An", ClassName: "11A1"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(resp.Token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestSessionLogoutClearsState(t *testing.T) {
	svc, ctx := newSessionService(t)
	_, err := svc.Login(ctx, models.LoginRequest{Name: "An", ClassName: "11A1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	_, err = svc.Profile(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrNoProfile))
}
