package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for newly hashed passwords.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

var (
	ErrPasswordMismatch = errors.New("password does not match")
	ErrInvalidHash      = errors.New("invalid hash format")
)

// PasswordHasher hashes and verifies passwords as PHC-format Argon2id strings.
// The pepper is appended to every password before hashing and is never stored
// alongside the hash.
type PasswordHasher struct {
	Pepper string
}

// NewPasswordHasher returns a hasher using the given pepper.
func NewPasswordHasher(pepper string) *PasswordHasher {
	return &PasswordHasher{Pepper: pepper}
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	sum := argon2.IDKey(h.peppered(password), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	), nil
}

// Verify compares a plaintext password against a PHC-style Argon2id hash.
// It returns ErrPasswordMismatch when the password is wrong and an error
// wrapping ErrInvalidHash when the stored hash cannot be parsed.
func (h *PasswordHasher) Verify(password, encodedHash string) error {
	p, err := parsePHC(encodedHash)
	if err != nil {
		return err
	}

	computed := argon2.IDKey(
		h.peppered(password),
		p.salt,
		p.iterations,
		p.memory,
		p.parallelism,
		uint32(len(p.hash)), // #nosec G115 - hash length comes from our own encoder
	)

	if subtle.ConstantTimeCompare(computed, p.hash) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

// NeedsRehash reports whether a stored hash was produced with parameters
// other than the current defaults.
func (h *PasswordHasher) NeedsRehash(encodedHash string) bool {
	p, err := parsePHC(encodedHash)
	if err != nil {
		return true
	}
	return p.memory != memory || p.iterations != iterations ||
		p.parallelism != parallelism || len(p.hash) != keyLength
}

func (h *PasswordHasher) peppered(password string) []byte {
	return []byte(password + h.Pepper)
}

type phcParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

// parsePHC parses $argon2id$v=19$m=X,t=Y,p=Z$salt$hash.
func parsePHC(encodedHash string) (phcParams, error) {
	var p phcParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return p, fmt.Errorf("%w: expected 6 parts", ErrInvalidHash)
	}
	if parts[1] != "argon2id" {
		return p, fmt.Errorf("%w: not argon2id", ErrInvalidHash)
	}
	if parts[2] != "v=19" {
		return p, fmt.Errorf("%w: wrong version", ErrInvalidHash)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, fmt.Errorf("%w: failed to parse parameters: %w", ErrInvalidHash, err)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return p, fmt.Errorf("%w: failed to decode salt: %w", ErrInvalidHash, err)
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return p, fmt.Errorf("%w: failed to decode hash: %w", ErrInvalidHash, err)
	}
	if len(p.hash) == 0 {
		return p, fmt.Errorf("%w: empty hash", ErrInvalidHash)
	}

	return p, nil
}
