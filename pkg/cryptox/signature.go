package cryptox

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

var ErrEmptyKey = errors.New("cryptox: empty key")

// Sign returns the unpadded base64url HMAC-SHA256 of message under key.
// The result is deterministic so a signature can be recomputed and compared.
func Sign(key, message []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the HMAC-SHA256 of message under key.
func Verify(key, message []byte, signature string) bool {
	expected := Sign(key, message)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Signer binds a key to Sign and Verify.
type Signer struct {
	key []byte
}

// NewSigner returns a Signer for key. An empty key is a configuration error.
func NewSigner(key string) (*Signer, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return &Signer{key: []byte(key)}, nil
}

func (s *Signer) Sign(message string) string {
	return Sign(s.key, []byte(message))
}

func (s *Signer) Verify(message, signature string) bool {
	return Verify(s.key, []byte(message), signature)
}
