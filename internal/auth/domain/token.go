package domain

// TokenPair is what the token endpoints return. RefreshToken carries the
// refresh signature of Token, not a second bearer credential.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}
