package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/cms/pkg/cryptox"
	"github.com/aussiebroadwan/cms/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testTTL = 86400 * time.Second

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	store    *sqlite.Store
	clock    *clock
	codec    *jwtx.Codec
	auth     *Authenticator
	tokens   *TokenService
	users    *UserService
	activity *ActivityRecorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	secrets, err := cryptox.NewSigner("secret-key")
	require.NoError(t, err)
	refresh, err := cryptox.NewSigner("refresh-secret")
	require.NoError(t, err)
	cipher, err := cryptox.NewCipher("secret-key")
	require.NoError(t, err)

	clk := &clock{now: time.Unix(1_700_000_000, 0).UTC()}
	codec, err := jwtx.NewCodec(jwtx.CodecConfig{
		ServiceSecret: "jwt-secret",
		SecretKey:     "secret-key",
		TTL:           testTTL,
		Now:           clk.Now,
	}, cipher, refresh)
	require.NoError(t, err)

	passwords := cryptox.NewPasswordHasher("pepper")
	activity := &ActivityRecorder{Store: s, Now: clk.Now}
	t.Cleanup(activity.Wait)

	tokens := &TokenService{
		Store:     s,
		Codec:     codec,
		Secrets:   secrets,
		Passwords: passwords,
		Activity:  activity,
	}

	return &harness{
		store:    s,
		clock:    clk,
		codec:    codec,
		auth:     &Authenticator{Users: s.Users(), Codec: codec, Secrets: secrets},
		tokens:   tokens,
		users:    &UserService{Store: s, Passwords: passwords, Tokens: tokens, Activity: activity},
		activity: activity,
	}
}

func (h *harness) createUser(t *testing.T, username, password string, role domain.Role) domain.User {
	t.Helper()

	u, err := h.users.CreateUser(context.Background(), CreateUserRequest{
		Username: username,
		Name:     "Test " + username,
		Email:    username + "@example.com",
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func (h *harness) login(t *testing.T, username, password string) domain.TokenPair {
	t.Helper()

	pair, err := h.tokens.Login(context.Background(), LoginRequest{Username: username, Password: password}, RequestMeta{})
	require.NoError(t, err)
	return pair
}

func bearer(token string) string { return "Bearer " + token }
