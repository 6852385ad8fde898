package auth_test

import (
	"context"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/cms/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for auth service end-to-end tests.
 * This includes container setup, user provisioning, and assertions.
 */

const (
	testImageName = "cms-auth-test:latest"

	adminUsername  = "admin01"
	adminPassword  = "Admin123!"
	editorUsername = "editor01"
	editorPassword = "Editor123!"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		fmt.Fprintln(os.Stdout, "Skipping end-to-end tests in short mode")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building Auth Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Auth Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // the image might not exist
}

// baseEnv is the container environment shared by every test. Secrets are
// fixed so the CLI and the server agree on the pepper.
func baseEnv() map[string]string {
	return map[string]string{
		"SECRET_KEY":            "e2e-secret-key",
		"JWT_SECRET":            "e2e-jwt-secret",
		"JWT_REFRESH_SIGNATURE": "e2e-refresh-signature",
		"JWT_CIPHER_KEY":        "e2e-cipher-key",
		"AUTH_PEPPER":           "e2e-pepper",
		"ENV":                   "test",
		"LOG_LEVEL":             "info",
		"LOG_FORMAT":            "json",
	}
}

// relaxedRateLimits keeps tests that make many rapid requests from hitting
// the production limits.
func relaxedRateLimits() map[string]string {
	return map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
}

type authEnv struct {
	BaseURL   string
	Client    *authsdk.SDKClient
	container testcontainers.Container
}

// setupAuthContainer starts the auth service with relaxed rate limits plus
// any extra environment.
func setupAuthContainer(t *testing.T, extra map[string]string) *authEnv {
	t.Helper()

	env := baseEnv()
	maps.Copy(env, relaxedRateLimits())
	maps.Copy(env, extra)
	return startContainer(t, env)
}

// setupAuthContainerWithDefaultRateLimits starts the auth service with the
// production rate limits, for tests that check limiting itself.
func setupAuthContainerWithDefaultRateLimits(t *testing.T) *authEnv {
	t.Helper()
	return startContainer(t, baseEnv())
}

func startContainer(t *testing.T, env map[string]string) *authEnv {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	return &authEnv{
		BaseURL:   baseURL,
		Client:    authsdk.NewSDKClient(baseURL),
		container: container,
	}
}

// createUser provisions a user through the CLI inside the container.
func (e *authEnv) createUser(t *testing.T, username, password, role string) {
	t.Helper()

	code, out, err := e.container.Exec(context.Background(), []string{
		"/usr/local/bin/auth", "user", "create",
		"--username", username,
		"--email", username + "@example.com",
		"--password", password,
		"--role", role,
	})
	require.NoError(t, err)

	output, _ := io.ReadAll(out)
	require.Equal(t, 0, code, "user create failed: %s", output)
}

// seedUsers creates the standard admin and editor accounts.
func (e *authEnv) seedUsers(t *testing.T) {
	t.Helper()
	e.createUser(t, adminUsername, adminPassword, "admin")
	e.createUser(t, editorUsername, editorPassword, "editor")
}

// login authenticates and returns a session.
func (e *authEnv) login(t *testing.T, username, password string) *authsdk.Session {
	t.Helper()

	session, err := e.Client.AuthenticateWithPassword(t.Context(), username, password)
	require.NoError(t, err, "Login should succeed")
	require.NotNil(t, session)
	assertTokenPair(t, session.Tokens())
	return session
}

// assertTokenPair verifies a token pair has both halves.
func assertTokenPair(t *testing.T, pair authsdk.TokenPair) {
	t.Helper()
	require.NotEmpty(t, pair.Token, "Token should not be empty")
	require.NotEmpty(t, pair.RefreshToken, "Refresh token should not be empty")
}

// assertUnauthorized checks that an error is a 401 from the service.
func assertUnauthorized(t *testing.T, err error, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.True(t, authsdk.IsUnauthorized(err), "%s - expected 401, got: %v", context, err)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
