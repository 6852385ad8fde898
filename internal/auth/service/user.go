package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
	"github.com/aussiebroadwan/cms/internal/auth/store"
	"github.com/aussiebroadwan/cms/pkg/cryptox"
	"github.com/aussiebroadwan/cms/pkg/slogx"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

type UpdateProfileRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

func (r *UpdateProfileRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r UpdateProfileRequest) Validate() error {
	if len(r.Username) < minUsernameLength {
		return invalidField("username", "must be at least 5 characters")
	}
	if len(r.Name) > 150 {
		return invalidField("name", "must be at most 150 characters")
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return invalidField("email", "must be a valid email address")
		}
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r ChangePasswordRequest) Validate() error {
	if len(r.CurrentPassword) < minPasswordLength {
		return invalidField("current_password", "must be at least 8 characters")
	}
	if len(r.NewPassword) < minPasswordLength {
		return invalidField("new_password", "must be at least 8 characters")
	}
	return nil
}

type CreateUserRequest struct {
	Username string
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// RoleInfo is one entry of the role listing.
type RoleInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

type UserService struct {
	Store     store.Store
	Passwords *cryptox.PasswordHasher
	Tokens    *TokenService
	Activity  *ActivityRecorder
}

// Profile reloads the user so the response reflects the stored record.
func (s *UserService) Profile(ctx context.Context, userID int64) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// UpdateProfile changes the username, name and email of u.
func (s *UserService) UpdateProfile(ctx context.Context, u domain.User, req UpdateProfileRequest, meta RequestMeta) (domain.User, error) {
	req.normalize()
	if err := req.Validate(); err != nil {
		return domain.User{}, err
	}

	taken, err := s.Store.Users().UsernameTaken(ctx, req.Username, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	if taken {
		return domain.User{}, ErrUsernameTaken
	}

	if req.Email != "" {
		taken, err := s.Store.Users().EmailTaken(ctx, req.Email, u.ID)
		if err != nil {
			return domain.User{}, err
		}
		if taken {
			return domain.User{}, ErrEmailTaken
		}
	}

	err = s.Store.Users().UpdateProfile(ctx, u.ID, req.Username, req.Name, req.Email)
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		// Lost a race with another update between the check and the write.
		return domain.User{}, ErrUsernameTaken
	case errors.Is(err, store.ErrNotFound):
		return domain.User{}, ErrUserNotFound
	case err != nil:
		return domain.User{}, err
	}

	updated, err := s.Profile(ctx, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	s.Activity.Record(ctx, domain.ActionProfileUpdate, updated, meta, map[string]any{
		"previous_username": u.Username,
	})
	return updated, nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one. The principal secret changes with the hash, so every token issued
// before stops verifying and the caller gets a fresh pair.
func (s *UserService) ChangePassword(ctx context.Context, u domain.User, req ChangePasswordRequest, meta RequestMeta) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	if err := req.Validate(); err != nil {
		return domain.TokenPair{}, err
	}

	if err := s.Passwords.Verify(req.CurrentPassword, u.PasswordHash); err != nil {
		l.Info("password change rejected", slog.Int64("user_id", u.ID))
		return domain.TokenPair{}, ErrPasswordMismatch
	}

	hash, err := s.Passwords.Hash(req.NewPassword)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrUserNotFound
		}
		return domain.TokenPair{}, err
	}
	u.PasswordHash = hash

	pair, err := s.Tokens.IssueFor(u)
	if err != nil {
		return domain.TokenPair{}, err
	}
	s.Activity.Record(ctx, domain.ActionPasswordChange, u, meta, nil)

	l.Info("password changed", slog.Int64("user_id", u.ID))
	return pair, nil
}

// CreateUser hashes the password and inserts an active user.
func (s *UserService) CreateUser(ctx context.Context, req CreateUserRequest) (domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if len(username) < minUsernameLength {
		return domain.User{}, invalidField("username", "must be at least 5 characters")
	}
	if len(req.Password) < minPasswordLength {
		return domain.User{}, invalidField("password", "must be at least 8 characters")
	}

	role := req.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !role.Valid() {
		return domain.User{}, invalidField("role", "must be one of superadmin, admin, editor")
	}

	taken, err := s.Store.Users().UsernameTaken(ctx, username, 0)
	if err != nil {
		return domain.User{}, err
	}
	if taken {
		return domain.User{}, ErrUsernameTaken
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		taken, err := s.Store.Users().EmailTaken(ctx, email, 0)
		if err != nil {
			return domain.User{}, err
		}
		if taken {
			return domain.User{}, ErrEmailTaken
		}
	}

	hash, err := s.Passwords.Hash(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.Store.Users().CreateUser(ctx, domain.User{
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, ErrUsernameTaken
	}
	return u, err
}

// ListRoles returns every role with its display label.
func (s *UserService) ListRoles() []RoleInfo {
	roles := make([]RoleInfo, 0, len(domain.Roles))
	for _, r := range domain.Roles {
		roles = append(roles, RoleInfo{Name: string(r), Label: r.Label()})
	}
	return roles
}

// ListActivity returns the most recent activity of userID on behalf of an
// admin actor.
func (s *UserService) ListActivity(ctx context.Context, actor Principal, userID int64, limit int) ([]domain.ActivityEntry, error) {
	if err := Authorize(actor, domain.AdminRoles...); err != nil {
		return nil, err
	}
	if _, err := s.Profile(ctx, userID); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = defaultActivityLimit
	case limit > maxActivityLimit:
		limit = maxActivityLimit
	}
	return s.Store.Activity().ListByUser(ctx, userID, limit)
}
