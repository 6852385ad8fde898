package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/pkg/authsdk"
	"github.com/aussiebroadwan/cms/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Port:                    8080,
		Env:                     "test",
		LogLevel:                "error",
		LogFormat:               "text",
		DatabaseDriver:          DriverSQLite,
		DatabaseFile:            filepath.Join(dir, "auth.db"),
		SecretsDir:              filepath.Join(dir, "secrets"),
		JWTExpirySeconds:        3600,
		RefreshThresholdSeconds: 120,
		ShutdownGracePeriod:     time.Second,
		HousekeepingInterval:    time.Hour,
		ActivityRetention:       time.Hour,
		RateLimits:              httpx.DefaultRateLimitProfiles(),
	}
}

func TestApplication(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	application, err := New(cfg)
	require.NoError(t, err)

	_, err = application.Users().CreateUser(ctx, service.CreateUserRequest{
		Username: "admin01",
		Email:    "admin@example.com",
		Password: "correct-horse",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(application.router)
	client := authsdk.NewSDKClient(srv.URL)

	session, err := client.AuthenticateWithPassword(ctx, "admin01", "correct-horse")
	require.NoError(t, err)
	roles, err := session.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 3)

	srv.Close()
	require.NoError(t, application.Close())

	// Secrets and users survive a restart, so the token is still valid.
	restarted, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = restarted.Close() })

	srv = httptest.NewServer(restarted.router)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me, err := authsdk.NewSDKClient(srv.URL).NewSessionFromTokens(session.Tokens()).Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "admin01", me.Username)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), Config{DatabaseDriver: "mysql"})
	require.Error(t, err)
}
