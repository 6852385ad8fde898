package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"
)

// Session holds a token pair and performs authenticated calls with it.
type Session struct {
	client *SDKClient

	mu   sync.RWMutex
	pair TokenPair
}

// Tokens returns the current pair.
func (s *Session) Tokens() TokenPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair
}

func (s *Session) token() string {
	return s.Tokens().Token
}

// Refresh asks the service to rotate the pair and stores whatever it returns.
// The boolean reports whether the token changed.
func (s *Session) Refresh(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.client.Refresh(ctx, s.pair)
	if err != nil {
		return false, err
	}
	rotated := next.Token != s.pair.Token
	s.pair = next
	return rotated, nil
}

// Profile returns the authenticated user.
func (s *Session) Profile(ctx context.Context) (*UserResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/auth/me", s.token(), nil)
	if err != nil {
		return nil, err
	}
	user, err := decodeEnvelope[UserResponse](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the authenticated user's username, name and email.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*UserResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPatch, "/v1/auth/me", s.token(), req)
	if err != nil {
		return nil, err
	}
	user, err := decodeEnvelope[UserResponse](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword changes the password and switches the session to the new
// pair, since the service revokes every earlier token.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.client.doRequest(ctx, http.MethodPut, "/v1/auth/password", s.pair.Token, ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		return err
	}
	pair, err := decodeEnvelope[TokenPair](resp, http.StatusOK)
	if err != nil {
		return err
	}
	s.pair = pair
	return nil
}

// ListRoles lists the available roles. Admins only.
func (s *Session) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/auth/roles", s.token(), nil)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[[]RoleResponse](resp, http.StatusOK)
}

// ListActivity returns a user's recent activity. Admins only.
func (s *Session) ListActivity(ctx context.Context, userID int64, limit int) ([]ActivityResponse, error) {
	path := fmt.Sprintf("/v1/auth/users/%d/activity", userID)
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	resp, err := s.client.doRequest(ctx, http.MethodGet, path, s.token(), nil)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[[]ActivityResponse](resp, http.StatusOK)
}
