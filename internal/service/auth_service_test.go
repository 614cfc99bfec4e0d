package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/store-admin/internal/auth"
	apperrors "github.com/spec-kit/store-admin/pkg/util"
)

func newAuthService() (*AuthService, *memAdmins) {
	admins := newMemAdmins()
	tokens := auth.NewTokenManager("service-secret", time.Hour, 30*24*time.Hour)
	return NewAuthServiceWithTokens(tokens, admins, bcrypt.MinCost, nil), admins
}

func register(t *testing.T, svc *AuthService, email string) (string, auth.TokenPair) {
	t.Helper()
	admin, pair, err := svc.Register(context.Background(), RegisterInput{Email: email, Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	return admin.ID, pair
}

func TestRegisterIssuesVersionZeroTokens(t *testing.T) {
	svc, _ := newAuthService()
	id, pair := register(t, svc, " Owner@Example.com ")

	claims, err := svc.TokenManager().VerifyKind(pair.AccessToken, auth.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID())
	assert.Equal(t, 0, claims.TokenVersion)

	_, _, err = svc.Login(context.Background(), "owner@example.com", "secret1")
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService()
	register(t, svc, "taken@example.com")

	cases := map[string]struct {
		in     RegisterInput
		status int
	}{
		"missing fields":    {RegisterInput{Email: "a@example.com", Password: "secret1"}, 400},
		"short password":    {RegisterInput{Email: "a@example.com", Password: "abc", ConfirmPassword: "abc"}, 400},
		"mismatched":        {RegisterInput{Email: "a@example.com", Password: "secret1", ConfirmPassword: "secret2"}, 400},
		"duplicate account": {RegisterInput{Email: "TAKEN@example.com", Password: "secret1", ConfirmPassword: "secret1"}, 409},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tc.in)
			assert.Equal(t, tc.status, apperrors.StatusOf(err))
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService()
	register(t, svc, "owner@example.com")

	_, _, err := svc.Login(context.Background(), "owner@example.com", "wrong-password")
	assert.Equal(t, 401, apperrors.StatusOf(err))

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "secret1")
	assert.Equal(t, 401, apperrors.StatusOf(err))

	_, _, err = svc.Login(context.Background(), "", "")
	assert.Equal(t, 400, apperrors.StatusOf(err))
}

func TestRefreshNeedsRefreshToken(t *testing.T) {
	svc, _ := newAuthService()
	_, pair := register(t, svc, "owner@example.com")

	_, refreshed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, _, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.Equal(t, 401, apperrors.StatusOf(err))
}

func TestChangePasswordRevokesEarlierTokens(t *testing.T) {
	svc, admins := newAuthService()
	id, old := register(t, svc, "owner@example.com")

	_, err := svc.ChangePassword(context.Background(), id, "wrong", "newsecret")
	assert.Equal(t, 401, apperrors.StatusOf(err))

	fresh, err := svc.ChangePassword(context.Background(), id, "secret1", "newsecret")
	require.NoError(t, err)

	_, _, err = svc.Refresh(context.Background(), old.RefreshToken)
	assert.Equal(t, 401, apperrors.StatusOf(err))
	_, _, err = svc.Refresh(context.Background(), fresh.RefreshToken)
	assert.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "owner@example.com", "newsecret")
	assert.NoError(t, err)

	stored, _ := admins.GetByID(context.Background(), id)
	assert.Equal(t, 1, stored.TokenVersion)
}

func TestRevokeSessions(t *testing.T) {
	svc, _ := newAuthService()
	id, pair := register(t, svc, "owner@example.com")

	require.NoError(t, svc.RevokeSessions(context.Background(), id))
	_, _, err := svc.Refresh(context.Background(), pair.RefreshToken)
	assert.Equal(t, 401, apperrors.StatusOf(err))
}
