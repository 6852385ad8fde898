package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/pkg/httpx"
	"github.com/aussiebroadwan/cms/pkg/slogx"
)

const (
	MessageLoginSucceeded   = "Authentication successful"
	MessageTokenRefreshed   = "Token refreshed successfully"
	MessagePasswordChanged  = "Password changed successfully"
	MessageProfileUpdated   = "User profile updated successfully"
	MessageProfileRetrieved = "User profile retrieved successfully"
	MessageRolesRetrieved   = "Roles retrieved successfully"
	MessageActivityListed   = "Activity retrieved successfully"

	MessageInvalidCredentials = "Invalid username or password"
	MessageInvalidRefresh     = "Invalid refresh token"
	MessageMalformedHeader    = "Invalid authorization header"
	MessageInvalidToken       = "Invalid or expired token"
	MessageUserNotFound       = "User not found"
	MessageUsernameTaken      = "Username is already taken"
	MessageEmailTaken         = "Email address is already taken"
	MessageWrongPassword      = "Current password is incorrect"
	MessageInvalidBody        = "Invalid request body"
	MessageInternal           = "Internal server error"
)

// writeAuthError answers a failed authentication. Every outcome is a 401
// with a bearer challenge, only the message differs.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCredential):
		httpx.WriteBearerError(w, httpx.MessageNotAuthenticated)
	case errors.Is(err, service.ErrMalformedHeader):
		httpx.WriteBearerError(w, MessageMalformedHeader)
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteBearerError(w, MessageUserNotFound)
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		httpx.WriteBearerError(w, MessageInvalidToken)
	default:
		slogx.FromContext(r.Context()).Error("authentication errored", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, MessageInternal)
	}
}

// writeServiceError maps service errors raised inside handlers.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteBearerError(w, MessageInvalidCredentials)
	case errors.Is(err, service.ErrRefreshSignatureMismatch):
		httpx.WriteBearerError(w, MessageInvalidRefresh)
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		httpx.WriteBearerError(w, MessageInvalidToken)
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, httpx.MessageForbidden)
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, MessageUserNotFound)
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, MessageUsernameTaken)
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, MessageEmailTaken)
	case errors.Is(err, service.ErrPasswordMismatch):
		httpx.WriteError(w, http.StatusBadRequest, MessageWrongPassword)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, MessageInternal)
	}
}

func writeInvalidBody(w http.ResponseWriter) {
	httpx.WriteError(w, http.StatusBadRequest, MessageInvalidBody)
}
