package jwtx

import "errors"

// ErrInvalidToken is wrapped by every error the Codec returns, so callers
// only ever need to check for it. The remaining sentinels describe the cause.
var ErrInvalidToken = errors.New("jwtx: invalid or expired token")

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrAlgMismatch  = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
	ErrSubject      = errors.New("jwtx: undecryptable subject")
)
