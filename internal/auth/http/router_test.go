package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	authhttp "github.com/aussiebroadwan/cms/internal/auth/http"
	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/cms/pkg/authsdk"
	"github.com/aussiebroadwan/cms/pkg/cryptox"
	"github.com/aussiebroadwan/cms/pkg/httpx"
	"github.com/aussiebroadwan/cms/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	ttl      = 86400 * time.Second
	password = "correct-horse"
)

// clock is shared with handler goroutines.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// logBuffer collects server logs written from handler goroutines.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type testServer struct {
	URL      string
	client   *authsdk.SDKClient
	clock    *clock
	users    *service.UserService
	activity *service.ActivityRecorder
	logs     *logBuffer
}

func generousLimits() httpx.RateLimitProfiles {
	open := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	return httpx.RateLimitProfiles{Strict: open, Moderate: open, Lenient: open, Public: open}
}

func newTestServer(t *testing.T, limits httpx.RateLimitProfiles) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	secrets, err := cryptox.NewSigner("secret-key")
	require.NoError(t, err)
	refresh, err := cryptox.NewSigner("refresh-secret")
	require.NoError(t, err)
	cipher, err := cryptox.NewCipher("secret-key")
	require.NoError(t, err)

	clk := &clock{now: time.Now().UTC().Truncate(time.Second)}
	codec, err := jwtx.NewCodec(jwtx.CodecConfig{
		ServiceSecret: "jwt-secret",
		SecretKey:     "secret-key",
		TTL:           ttl,
		Now:           clk.Now,
	}, cipher, refresh)
	require.NoError(t, err)

	passwords := cryptox.NewPasswordHasher("pepper")
	activity := &service.ActivityRecorder{Store: st, Now: clk.Now}
	t.Cleanup(activity.Wait)

	tokens := &service.TokenService{
		Store:     st,
		Codec:     codec,
		Secrets:   secrets,
		Passwords: passwords,
		Activity:  activity,
	}
	users := &service.UserService{Store: st, Passwords: passwords, Tokens: tokens, Activity: activity}

	logs := &logBuffer{}
	router := authhttp.NewRouter("test", st, limits, slog.New(slog.NewTextHandler(logs, nil)))
	router.Authenticator = &service.Authenticator{Users: st.Users(), Codec: codec, Secrets: secrets}
	router.TokenService = tokens
	router.UserService = users
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:      srv.URL,
		client:   authsdk.NewSDKClient(srv.URL),
		clock:    clk,
		users:    users,
		activity: activity,
		logs:     logs,
	}
}

func (s *testServer) createUser(t *testing.T, username string, role domain.Role) domain.User {
	t.Helper()

	u, err := s.users.CreateUser(context.Background(), service.CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func (s *testServer) session(t *testing.T, username string) *authsdk.Session {
	t.Helper()

	session, err := s.client.AuthenticateWithPassword(context.Background(), username, password)
	require.NoError(t, err)
	return session
}

type rawResponse struct {
	Status  int
	Header  http.Header
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a raw request so tests can inspect status, headers and message.
func (s *testServer) do(t *testing.T, method, path, authorization string, body any) rawResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := rawResponse{Status: resp.StatusCode, Header: resp.Header}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
