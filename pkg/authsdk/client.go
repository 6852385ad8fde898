package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient talks to the CMS authentication service. It performs the
// unauthenticated calls and creates Sessions for the rest.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges credentials for a token pair.
func (c *SDKClient) Login(ctx context.Context, username, password string) (TokenPair, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/token", "", LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return TokenPair{}, err
	}
	return decodeEnvelope[TokenPair](resp, http.StatusOK)
}

// Refresh presents token and its refresh signature. The result is either the
// same pair or a rotated one.
func (c *SDKClient) Refresh(ctx context.Context, pair TokenPair) (TokenPair, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, "/v1/auth/token", pair.Token, RefreshRequest{
		RefreshToken: pair.RefreshToken,
	})
	if err != nil {
		return TokenPair{}, err
	}
	return decodeEnvelope[TokenPair](resp, http.StatusOK)
}

// AuthenticateWithPassword logs in and wraps the pair in a Session.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, username, password string) (*Session, error) {
	pair, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.NewSessionFromTokens(pair), nil
}

// NewSessionFromTokens creates a session from a pair obtained earlier.
func (c *SDKClient) NewSessionFromTokens(pair TokenPair) *Session {
	return &Session{client: c, pair: pair}
}
