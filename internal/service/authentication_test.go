package service

import (
	"context"
	"testing"
	"time"

	"projecttracker/internal/model"

	"github.com/stretchr/testify/require"
)

func TestAuthenticateUser(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	user := model.User{ID: 1, PasswordHash: hash}

	require.NoError(t, AuthenticateUser(context.Background(), user, "secret"))
	require.Error(t, AuthenticateUser(context.Background(), user, "wrong"))
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	user := model.User{ID: 7, Role: model.RoleAdmin}

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := IssueAccessToken(user, time.Minute)
		require.Error(t, err)
		_, err = VerifyAccessToken("token")
		require.Error(t, err)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		token, err := IssueAccessToken(user, time.Minute)
		require.NoError(t, err)

		claims, err := VerifyAccessToken(token)
		require.NoError(t, err)
		require.Equal(t, 7, claims.UserID)
		require.Equal(t, model.RoleAdmin, claims.Role)
	})

	t.Run("expired", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		token, err := IssueAccessToken(user, -time.Minute)
		require.NoError(t, err)
		_, err = VerifyAccessToken(token)
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		token, err := IssueAccessToken(user, time.Minute)
		require.NoError(t, err)
		t.Setenv("JWT_SECRET", "other")
		_, err = VerifyAccessToken(token)
		require.Error(t, err)
	})
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("wachtwoord")
	require.NoError(t, err)
	require.NotEqual(t, "wachtwoord", hash)
	require.NoError(t, ComparePassword(hash, "wachtwoord"))
	require.Error(t, ComparePassword(hash, "anders"))
}
