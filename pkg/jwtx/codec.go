package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SubjectCipher encrypts the subject claim.
type SubjectCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// RefreshSigner computes the refresh signature over a serialized token.
type RefreshSigner interface {
	Sign(message string) string
}

// CodecConfig holds the immutable secrets and policy of a Codec.
type CodecConfig struct {
	// ServiceSecret is the token signing secret (JWT_SECRET).
	ServiceSecret string

	// SecretKey is the application-wide secret mixed into every signing key.
	SecretKey string

	// TTL is the access token lifetime. Zero means DefaultAccessTokenTTL.
	TTL time.Duration

	// Now is the clock. Nil means time.Now.
	Now func() time.Time
}

// DecodeOptions toggles the two independent checks performed by Decode.
type DecodeOptions struct {
	VerifyExpiry    bool
	VerifySignature bool
}

var (
	// Strict verifies both signature and expiry.
	Strict = DecodeOptions{VerifyExpiry: true, VerifySignature: true}

	// IgnoreExpiry verifies the signature but accepts expired tokens.
	IgnoreExpiry = DecodeOptions{VerifyExpiry: false, VerifySignature: true}

	// Unverified only checks structure. Its output must not be trusted.
	Unverified = DecodeOptions{VerifyExpiry: false, VerifySignature: false}
)

// Pair is an issued access token and its refresh signature.
type Pair struct {
	Token            string
	RefreshSignature string
}

// Codec issues and decodes HS256 access tokens with an encrypted subject.
//
// Every token is signed with a per-principal key composed of the principal
// secret, the service secret and the application secret. When the principal
// secret changes, tokens issued under the old one no longer verify.
type Codec struct {
	cfg     CodecConfig
	cipher  SubjectCipher
	refresh RefreshSigner
}

// NewCodec validates cfg and returns a Codec.
func NewCodec(cfg CodecConfig, cipher SubjectCipher, refresh RefreshSigner) (*Codec, error) {
	if cfg.ServiceSecret == "" || cfg.SecretKey == "" {
		return nil, errors.New("jwtx: service secret and secret key are required")
	}
	if cipher == nil || refresh == nil {
		return nil, errors.New("jwtx: cipher and refresh signer are required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultAccessTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Codec{cfg: cfg, cipher: cipher, refresh: refresh}, nil
}

// TTL returns the configured access token lifetime.
func (c *Codec) TTL() time.Duration { return c.cfg.TTL }

// Now returns the codec clock reading.
func (c *Codec) Now() time.Time { return c.cfg.Now() }

// Issue creates a token for subject signed under principalSecret and
// computes its refresh signature.
func (c *Codec) Issue(principalSecret, subject string) (Pair, error) {
	encrypted, err := c.cipher.Encrypt(subject)
	if err != nil {
		return Pair{}, fmt.Errorf("jwtx: encrypt subject: %w", err)
	}

	claims := NewClaims(encrypted, c.cfg.TTL, c.cfg.Now())
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey(principalSecret))
	if err != nil {
		return Pair{}, fmt.Errorf("jwtx: sign: %w", err)
	}

	return Pair{Token: token, RefreshSignature: c.RefreshSignature(token)}, nil
}

// Decode parses token and applies the checks selected by opts. When
// opts.VerifySignature is false the principal secret is not used.
func (c *Codec) Decode(token, principalSecret string, opts DecodeOptions) (*Claims, error) {
	var (
		claims *Claims
		err    error
	)
	if opts.VerifySignature {
		claims, err = c.parseVerified(token, principalSecret)
	} else {
		claims, err = c.parseUnverified(token)
	}
	if err != nil {
		return nil, err
	}

	if claims.ExpiresAt == nil {
		return nil, invalid(ErrInvalidClaim)
	}
	if opts.VerifyExpiry {
		if err := claims.ValidateExpiry(c.cfg.Now()); err != nil {
			return nil, invalid(err)
		}
	}
	return claims, nil
}

// Subject decodes token and decrypts its subject claim.
func (c *Codec) Subject(token, principalSecret string, opts DecodeOptions) (string, error) {
	claims, err := c.Decode(token, principalSecret, opts)
	if err != nil {
		return "", err
	}

	subject, err := c.cipher.Decrypt(claims.Subject)
	if err != nil {
		return "", invalid(ErrSubject)
	}
	return subject, nil
}

// RefreshSignature recomputes the refresh signature for token.
func (c *Codec) RefreshSignature(token string) string {
	return c.refresh.Sign(token)
}

// Remaining reports how long claims have left on the codec clock.
func (c *Codec) Remaining(claims *Claims) time.Duration {
	return claims.Remaining(c.cfg.Now())
}

func (c *Codec) signingKey(principalSecret string) []byte {
	if principalSecret == "" {
		principalSecret = "-"
	}
	return []byte(strings.Join([]string{principalSecret, c.cfg.ServiceSecret, c.cfg.SecretKey}, "."))
}

func (c *Codec) parseVerified(token, principalSecret string) (*Claims, error) {
	// Expiry is checked by Decode so it can be toggled independently.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithStrictDecoding(),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.signingKey(principalSecret), nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}
	return claims, nil
}

func (c *Codec) parseUnverified(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, _, err := jwt.NewParser(jwt.WithStrictDecoding()).ParseUnverified(token, claims)
	if err != nil {
		return nil, mapParseError(err)
	}
	if parsed.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, invalid(ErrAlgMismatch)
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return invalid(ErrInvalidSig)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return invalid(ErrAlgMismatch)
	default:
		return fmt.Errorf("%w: %w: %w", ErrInvalidToken, ErrMalformed, err)
	}
}

func invalid(cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidToken, cause)
}
