package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher("subject-secret")
	require.NoError(t, err)

	for _, plaintext := range []string{"1", "42", "9223372036854775807", "", "non-numeric subject"} {
		ct, err := c.Encrypt(plaintext)
		require.NoError(t, err)

		got, err := c.Decrypt(ct)
		require.NoError(t, err)
		require.Equal(t, plaintext, got)
	}
}

func TestCipher_NonDeterministic(t *testing.T) {
	c, err := NewCipher("subject-secret")
	require.NoError(t, err)

	a, err := c.Encrypt("42")
	require.NoError(t, err)
	b, err := c.Encrypt("42")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "fresh nonce per encryption")
}

func TestCipher_DecryptFailures(t *testing.T) {
	c, err := NewCipher("subject-secret")
	require.NoError(t, err)
	other, err := NewCipher("another-secret")
	require.NoError(t, err)

	valid, err := c.Encrypt("42")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(valid)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	flipped := base64.RawURLEncoding.EncodeToString(raw)

	foreign, err := other.Encrypt("42")
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"not base64", "!!!"},
		{"too short", base64.RawURLEncoding.EncodeToString([]byte("short"))},
		{"flipped byte", flipped},
		{"different key", foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.in)
			require.ErrorIs(t, err, ErrMalformedCiphertext)
		})
	}
}

func TestNewCipher_EmptySecret(t *testing.T) {
	_, err := NewCipher("")
	require.ErrorIs(t, err, ErrEmptyKey)
}
