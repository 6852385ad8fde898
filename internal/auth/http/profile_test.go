package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/pkg/authsdk"
	"github.com/aussiebroadwan/cms/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestAuthentication(t *testing.T) {
	srv := newTestServer(t, generousLimits())
	srv.createUser(t, "editor01", domain.RoleEditor)
	session := srv.session(t, "editor01")

	tests := []struct {
		name          string
		authorization string
		wantMessage   string
	}{
		{"missing header", "", "Authentication credentials were not provided"},
		{"wrong scheme", "Basic abc", "Authentication credentials were not provided"},
		{"bare scheme", "Bearer ", "Authentication credentials were not provided"},
		{"token with spaces", "Bearer abc def", "Invalid authorization header"},
		{"double space", "Bearer  " + session.Tokens().Token, "Invalid authorization header"},
		{"garbage token", "Bearer not-a-token", "Invalid or expired token"},
		{"tampered token", "Bearer " + session.Tokens().Token + "x", "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := srv.do(t, http.MethodGet, "/v1/auth/me", tt.authorization, nil)
			require.Equal(t, http.StatusUnauthorized, resp.Status)
			require.False(t, resp.Success)
			require.Equal(t, tt.wantMessage, resp.Message)
			require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")
		})
	}

	t.Run("failure logs a fingerprint instead of the token", func(t *testing.T) {
		tampered := session.Tokens().Token + "y"
		resp := srv.do(t, http.MethodGet, "/v1/auth/me", "Bearer "+tampered, nil)
		require.Equal(t, http.StatusUnauthorized, resp.Status)

		logs := srv.logs.String()
		require.Contains(t, logs, "token_fp="+cryptox.FingerprintToken(tampered))
		require.NotContains(t, logs, tampered)
	})

	t.Run("valid token", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, "/v1/auth/me", "Bearer "+session.Tokens().Token, nil)
		require.Equal(t, http.StatusOK, resp.Status)
		require.Equal(t, "User profile retrieved successfully", resp.Message)
	})
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, generousLimits())
	srv.createUser(t, "editor01", domain.RoleEditor)
	srv.createUser(t, "editor02", domain.RoleEditor)
	session := srv.session(t, "editor01")

	me, err := session.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "editor01", me.Username)
	require.Equal(t, "editor01@example.com", me.Email)
	require.Equal(t, "editor", me.Role)
	require.Equal(t, "Editor", me.RoleLabel)
	require.True(t, me.IsActive)
	require.NotNil(t, me.LastLogin)

	t.Run("update", func(t *testing.T) {
		updated, err := session.UpdateProfile(ctx, authsdk.UpdateProfileRequest{
			Username: "editor-one",
			Name:     "Jane Editor",
			Email:    "jane@example.com",
		})
		require.NoError(t, err)
		require.Equal(t, "editor-one", updated.Username)
		require.Equal(t, "Jane Editor", updated.Name)

		// Renaming does not revoke the session.
		_, err = session.Profile(ctx)
		require.NoError(t, err)

		_, err = srv.client.Login(ctx, "editor-one", password)
		require.NoError(t, err)
	})

	t.Run("username taken", func(t *testing.T) {
		_, err := session.UpdateProfile(ctx, authsdk.UpdateProfileRequest{
			Username: "editor02",
			Email:    "jane@example.com",
		})
		require.Equal(t, http.StatusConflict, authsdk.StatusCode(err))
	})

	t.Run("email taken", func(t *testing.T) {
		resp := srv.do(t, http.MethodPatch, "/v1/auth/me", "Bearer "+session.Tokens().Token, authsdk.UpdateProfileRequest{
			Username: "editor-one",
			Email:    "EDITOR02@example.com",
		})
		require.Equal(t, http.StatusConflict, resp.Status)
		require.Equal(t, "Email address is already taken", resp.Message)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := session.UpdateProfile(ctx, authsdk.UpdateProfileRequest{
			Username: "editor-one",
			Email:    "not an email",
		})
		require.Equal(t, http.StatusBadRequest, authsdk.StatusCode(err))
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, generousLimits())
	srv.createUser(t, "editor01", domain.RoleEditor)
	session := srv.session(t, "editor01")
	old := session.Tokens()

	t.Run("wrong current password", func(t *testing.T) {
		resp := srv.do(t, http.MethodPut, "/v1/auth/password", "Bearer "+old.Token, authsdk.ChangePasswordRequest{
			CurrentPassword: "not-my-password",
			NewPassword:     "brand-new-secret",
		})
		require.Equal(t, http.StatusBadRequest, resp.Status)
		require.Equal(t, "Current password is incorrect", resp.Message)
	})

	t.Run("revokes earlier tokens", func(t *testing.T) {
		require.NoError(t, session.ChangePassword(ctx, password, "brand-new-secret"))
		require.NotEqual(t, old.Token, session.Tokens().Token)

		_, err := session.Profile(ctx)
		require.NoError(t, err)

		stale := srv.client.NewSessionFromTokens(old)
		_, err = stale.Profile(ctx)
		require.True(t, authsdk.IsUnauthorized(err))

		// The old pair cannot be refreshed either.
		_, err = srv.client.Refresh(ctx, old)
		require.True(t, authsdk.IsUnauthorized(err))

		_, err = srv.client.Login(ctx, "editor01", password)
		require.True(t, authsdk.IsUnauthorized(err))

		_, err = srv.client.Login(ctx, "editor01", "brand-new-secret")
		require.NoError(t, err)
	})
}
