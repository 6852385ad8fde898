package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aussiebroadwan/cms/pkg/cryptox"
	"github.com/aussiebroadwan/cms/pkg/jwtx"
)

// Secret file names inside the secrets directory.
const (
	SecretKeyFile        = "secret_key"
	JWTSecretFile        = "jwt_secret"
	RefreshSignatureFile = "jwt_refresh_signature"
	CipherKeyFile        = "jwt_cipher_key"
	PepperFile           = "pepper"
)

// Secrets holds the process secrets. It is loaded once at startup and never
// changed afterwards.
type Secrets struct {
	SecretKey        string
	JWTSecret        string
	RefreshSignature string
	CipherKey        string
	Pepper           string
}

// LoadSecrets takes each secret from cfg, falling back to a file in
// cfg.SecretsDir that is generated on first start.
func LoadSecrets(cfg Config, logger *slog.Logger) (Secrets, error) {
	s := Secrets{
		SecretKey:        cfg.SecretKey,
		JWTSecret:        cfg.JWTSecret,
		RefreshSignature: cfg.RefreshSignature,
		CipherKey:        cfg.CipherKey,
		Pepper:           cfg.Pepper,
	}

	for _, f := range []struct {
		value *string
		file  string
	}{
		{&s.SecretKey, SecretKeyFile},
		{&s.JWTSecret, JWTSecretFile},
		{&s.RefreshSignature, RefreshSignatureFile},
		{&s.CipherKey, CipherKeyFile},
		{&s.Pepper, PepperFile},
	} {
		if *f.value != "" {
			continue
		}

		path := filepath.Join(cfg.SecretsDir, f.file)
		secret, err := cryptox.LoadOrGenerateSecret(path, cryptox.SecretSize)
		if err != nil {
			return Secrets{}, fmt.Errorf("failed to load secret %s: %w", f.file, err)
		}
		*f.value = secret
		logger.Info("secret loaded from file", "name", f.file, "path", path)
	}

	return s, nil
}

// GenerateSecrets returns a fresh set of random secrets.
func GenerateSecrets() (Secrets, error) {
	var s Secrets
	for _, v := range []*string{&s.SecretKey, &s.JWTSecret, &s.RefreshSignature, &s.CipherKey, &s.Pepper} {
		secret, err := cryptox.GenerateToken(cryptox.SecretSize)
		if err != nil {
			return Secrets{}, err
		}
		*v = secret
	}
	return s, nil
}

// TokenKit is the set of primitives built from Secrets.
type TokenKit struct {
	// Principals derives per-user principal secrets.
	Principals *cryptox.Signer
	Codec      *jwtx.Codec
	Passwords  *cryptox.PasswordHasher
}

// NewTokenKit builds the signers, cipher and codec from s.
func NewTokenKit(s Secrets, ttl time.Duration) (TokenKit, error) {
	principals, err := cryptox.NewSigner(s.SecretKey)
	if err != nil {
		return TokenKit{}, fmt.Errorf("principal signer: %w", err)
	}
	refresh, err := cryptox.NewSigner(s.RefreshSignature)
	if err != nil {
		return TokenKit{}, fmt.Errorf("refresh signer: %w", err)
	}
	cipher, err := cryptox.NewCipher(s.CipherKey)
	if err != nil {
		return TokenKit{}, fmt.Errorf("subject cipher: %w", err)
	}

	codec, err := jwtx.NewCodec(jwtx.CodecConfig{
		ServiceSecret: s.JWTSecret,
		SecretKey:     s.SecretKey,
		TTL:           ttl,
	}, cipher, refresh)
	if err != nil {
		return TokenKit{}, err
	}

	return TokenKit{
		Principals: principals,
		Codec:      codec,
		Passwords:  cryptox.NewPasswordHasher(s.Pepper),
	}, nil
}
