package authsdk

import (
	"encoding/json"
	"time"
)

// Response is the envelope every endpoint answers with.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// ErrorResponse is the envelope of a failed request.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Invalid or expired token"`
}

// ============================================================================
// Token Types
// ============================================================================

// LoginRequest is the body of POST /v1/auth/token.
type LoginRequest struct {
	// Username is the username or email address.
	Username string `json:"username" example:"editor01"`
	Password string `json:"password" example:"correct-horse"`
}

// RefreshRequest is the body of PUT /v1/auth/token.
type RefreshRequest struct {
	// RefreshToken is the refresh signature returned with the current token.
	RefreshToken string `json:"refresh_token"`
}

// TokenPair is returned by login, refresh and password change. RefreshToken
// is the signature of Token, not an independent credential.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// ============================================================================
// User Types
// ============================================================================

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID        int64      `json:"id" example:"1"`
	Username  string     `json:"username" example:"editor01"`
	Name      string     `json:"name" example:"Jane Editor"`
	Email     string     `json:"email" example:"jane@example.com"`
	Role      string     `json:"role" example:"editor"`
	RoleLabel string     `json:"role_label" example:"Editor"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// UpdateProfileRequest is the body of PATCH /v1/auth/me.
type UpdateProfileRequest struct {
	Username string `json:"username" example:"editor01"`
	Name     string `json:"name" example:"Jane Editor"`
	Email    string `json:"email" example:"jane@example.com"`
}

// ChangePasswordRequest is the body of PUT /v1/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ============================================================================
// Admin Types
// ============================================================================

// RoleResponse is one entry of GET /v1/auth/roles.
type RoleResponse struct {
	Name  string `json:"name" example:"admin"`
	Label string `json:"label" example:"Admin"`
}

// ActivityResponse is one entry of a user's activity log.
type ActivityResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action" example:"login"`
	Entity    string          `json:"entity" example:"user"`
	EntityID  *int64          `json:"entity_id"`
	ActorName string          `json:"actor_name"`
	IPAddress string          `json:"ip_address"`
	UserAgent string          `json:"user_agent"`
	Metadata  json.RawMessage `json:"metadata,omitempty" swaggertype:"object"`
	CreatedAt time.Time       `json:"created_at"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Readiness adds Checks.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Secrets  string `json:"secrets"`
}
