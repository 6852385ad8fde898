package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/store"
	"github.com/aussiebroadwan/cms/pkg/cryptox"
	"github.com/aussiebroadwan/cms/pkg/jwtx"
)

const bearerPrefix = "Bearer "

// UserLookup is the slice of the user store authentication needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByHandle(ctx context.Context, handle string) (domain.User, error)
}

// Principal is an authenticated user together with the raw token that
// proved it.
type Principal struct {
	User  domain.User
	Token string
}

// PrincipalSecret derives the per-user part of the token signing key from the
// user's id and current password hash. It is never stored, so changing the
// password silently revokes every token issued before.
func PrincipalSecret(signer *cryptox.Signer, u domain.User) string {
	return signer.Sign(u.SubjectID() + ":" + u.PasswordHash)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMissingCredential
	}
	token := strings.TrimRight(header[len(bearerPrefix):], " \t")
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedHeader
	}
	return token, nil
}

// Authenticator resolves bearer tokens into principals.
type Authenticator struct {
	Users   UserLookup
	Codec   *jwtx.Codec
	Secrets *cryptox.Signer
}

// Authenticate runs the normal flow: the token must carry a valid signature
// under its owner's principal secret and must not be expired.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (Principal, error) {
	return a.authenticate(ctx, header, jwtx.Strict)
}

// AuthenticateForRefresh runs the relaxed flow used by token refresh. Expired
// tokens are accepted but the signature is still verified.
func (a *Authenticator) AuthenticateForRefresh(ctx context.Context, header string) (Principal, error) {
	return a.authenticate(ctx, header, jwtx.IgnoreExpiry)
}

func (a *Authenticator) authenticate(ctx context.Context, header string, opts jwtx.DecodeOptions) (Principal, error) {
	token, err := BearerToken(header)
	if err != nil {
		return Principal{}, err
	}

	// The signing key depends on the user, so the subject is read before the
	// signature can be checked. The subject is sealed by the cipher, which
	// keeps it from being forged in the meantime. Expiry is checked here too
	// so an expired token is rejected before its owner is looked up.
	subject, err := a.Codec.Subject(token, "", jwtx.DecodeOptions{VerifyExpiry: opts.VerifyExpiry})
	if err != nil {
		return Principal{}, ErrInvalidOrExpiredToken
	}
	id, err := domain.ParseSubjectID(subject)
	if err != nil {
		return Principal{}, ErrInvalidOrExpiredToken
	}

	user, err := a.lookup(ctx, id)
	if err != nil {
		return Principal{}, err
	}

	if _, err := a.Codec.Decode(token, PrincipalSecret(a.Secrets, user), opts); err != nil {
		return Principal{}, ErrInvalidOrExpiredToken
	}

	return Principal{User: user, Token: token}, nil
}

func (a *Authenticator) lookup(ctx context.Context, id int64) (domain.User, error) {
	user, err := a.Users.GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	if !user.IsActive {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

// Authorize checks the principal's role against allowed.
func Authorize(p Principal, allowed ...domain.Role) error {
	for _, r := range allowed {
		if p.User.Role == r {
			return nil
		}
	}
	return ErrForbidden
}
