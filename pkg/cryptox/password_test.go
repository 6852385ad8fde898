package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testHasher() *PasswordHasher {
	return NewPasswordHasher("test-pepper")
}

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	h := testHasher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"), "hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "m=19456,t=2,p=1", parts[3])
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")

			require.NoError(t, h.Verify(tt.password, hash))
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := testHasher()

	hash1, err := h.Hash("samepassword")
	require.NoError(t, err)
	hash2, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.NoError(t, h.Verify("samepassword", hash1))
	require.NoError(t, h.Verify("samepassword", hash2))
}

func TestVerify_WrongPassword(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"",
		strings.Repeat("x", 10000),
	} {
		t.Run(wrong, func(t *testing.T) {
			require.ErrorIs(t, h.Verify(wrong, hash), ErrPasswordMismatch)
		})
	}
}

func TestVerify_PepperMismatch(t *testing.T) {
	hash, err := NewPasswordHasher("pepper-a").Hash("password123")
	require.NoError(t, err)

	err = NewPasswordHasher("pepper-b").Verify("password123", hash)
	require.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestVerify_InvalidHashFormat(t *testing.T) {
	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing version", "$argon2id$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	h := testHasher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.Verify("test-password", tt.invalidHash)
			require.ErrorIs(t, err, ErrInvalidHash)
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("password123")
	require.NoError(t, err)

	require.False(t, h.NeedsRehash(hash))
	require.True(t, h.NeedsRehash("$argon2id$v=19$m=4096,t=1,p=1$c2FsdA$aGFzaA"))
	require.True(t, h.NeedsRehash("not-a-hash"))
}
