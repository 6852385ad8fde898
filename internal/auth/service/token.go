package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/store"
	"github.com/aussiebroadwan/cms/pkg/cryptox"
	"github.com/aussiebroadwan/cms/pkg/jwtx"
	"github.com/aussiebroadwan/cms/pkg/slogx"
)

// DefaultRefreshThreshold is how close to expiry a token must be before a
// refresh issues a new one.
const DefaultRefreshThreshold = 120 * time.Second

const (
	minUsernameLength = 5
	minPasswordLength = 8
)

type LoginRequest struct {
	Username string `json:"username"` // username or email
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if len(strings.TrimSpace(r.Username)) < minUsernameLength {
		return invalidField("username", "must be at least 5 characters")
	}
	if len(r.Password) < minPasswordLength {
		return invalidField("password", "must be at least 8 characters")
	}
	return nil
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	if r.RefreshToken == "" {
		return invalidField("refresh_token", "is required")
	}
	return nil
}

// RequestMeta is client information recorded with activity entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type TokenService struct {
	Store     store.Store
	Codec     *jwtx.Codec
	Secrets   *cryptox.Signer
	Passwords *cryptox.PasswordHasher
	Activity  *ActivityRecorder

	// Threshold is the remaining lifetime under which Refresh rotates the
	// token. Zero means DefaultRefreshThreshold.
	Threshold time.Duration
}

// IssueFor issues a token pair signed under the user's current principal secret.
func (s *TokenService) IssueFor(u domain.User) (domain.TokenPair, error) {
	pair, err := s.Codec.Issue(PrincipalSecret(s.Secrets, u), u.SubjectID())
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Token: pair.Token, RefreshToken: pair.RefreshSignature}, nil
}

// Login checks the credentials and issues a token pair. Unknown users and
// wrong passwords both return ErrInvalidCredentials.
func (s *TokenService) Login(ctx context.Context, req LoginRequest, meta RequestMeta) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return domain.TokenPair{}, err
	}
	handle := strings.TrimSpace(req.Username)

	user, err := s.Store.Users().GetUserByHandle(ctx, handle)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Burn a hash so unknown users take as long as wrong passwords.
		_, _ = s.Passwords.Hash(req.Password)
		l.Info("login failed", slog.String("reason", "unknown user"))
		return domain.TokenPair{}, ErrInvalidCredentials
	case err != nil:
		return domain.TokenPair{}, err
	}

	if !user.IsActive {
		l.Info("login failed", slog.String("reason", "inactive user"), slog.Int64("user_id", user.ID))
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	if err := s.Passwords.Verify(req.Password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Error("stored password hash unreadable", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
		l.Info("login failed", slog.String("reason", "wrong password"), slog.Int64("user_id", user.ID))
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	user = s.rehashIfNeeded(ctx, user, req.Password)

	pair, err := s.IssueFor(user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID, s.Codec.Now()); err != nil {
		l.Warn("failed to update last login", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}
	s.Activity.Record(ctx, domain.ActionLogin, user, meta, nil)

	l.Info("login succeeded", slog.Int64("user_id", user.ID))
	return pair, nil
}

// Refresh returns a token pair for an authenticated principal. The supplied
// refresh token must exactly match the signature of the principal's current
// token. A new pair is only issued once the current token is within the
// rotation threshold of expiring, otherwise the current pair comes back.
func (s *TokenService) Refresh(ctx context.Context, p Principal, req RefreshRequest, meta RequestMeta) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return domain.TokenPair{}, err
	}

	fp := slog.String("token_fp", cryptox.FingerprintToken(p.Token))

	current := s.Codec.RefreshSignature(p.Token)
	if subtle.ConstantTimeCompare([]byte(current), []byte(req.RefreshToken)) != 1 {
		l.Info("refresh rejected", slog.Int64("user_id", p.User.ID), fp)
		return domain.TokenPair{}, ErrRefreshSignatureMismatch
	}

	claims, err := s.Codec.Decode(p.Token, "", jwtx.Unverified)
	if err != nil {
		return domain.TokenPair{}, ErrInvalidOrExpiredToken
	}

	if s.Codec.Remaining(claims) >= s.threshold() {
		s.Activity.Record(ctx, domain.ActionRefresh, p.User, meta, map[string]any{"rotated": false})
		return domain.TokenPair{Token: p.Token, RefreshToken: current}, nil
	}

	pair, err := s.IssueFor(p.User)
	if err != nil {
		return domain.TokenPair{}, err
	}
	s.Activity.Record(ctx, domain.ActionRefresh, p.User, meta, map[string]any{"rotated": true})

	l.Info("token rotated", slog.Int64("user_id", p.User.ID), fp)
	return pair, nil
}

// rehashIfNeeded upgrades a hash made with outdated parameters. A new hash
// changes the principal secret, so callers must issue tokens from the
// returned user. Failures keep the old hash.
func (s *TokenService) rehashIfNeeded(ctx context.Context, u domain.User, password string) domain.User {
	if !s.Passwords.NeedsRehash(u.PasswordHash) {
		return u
	}

	l := slogx.FromContext(ctx)
	hash, err := s.Passwords.Hash(password)
	if err != nil {
		l.Warn("failed to rehash password", slog.Int64("user_id", u.ID), slog.Any("error", err))
		return u
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		l.Warn("failed to store rehashed password", slog.Int64("user_id", u.ID), slog.Any("error", err))
		return u
	}

	l.Info("password rehashed", slog.Int64("user_id", u.ID))
	u.PasswordHash = hash
	return u
}

func (s *TokenService) threshold() time.Duration {
	if s.Threshold <= 0 {
		return DefaultRefreshThreshold
	}
	return s.Threshold
}
