package http

import (
	"net/http"

	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/pkg/authsdk"
	"github.com/aussiebroadwan/cms/pkg/httpx"
)

// ProfileHandler serves the authenticated user's own account.
type ProfileHandler struct {
	UserService *service.UserService
}

// HandleGet godoc
//
//	@Summary		Current user
//	@Description	Returns the profile of the authenticated user.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Response[authsdk.UserResponse]	"User profile"
//	@Failure		401	{object}	authsdk.ErrorResponse						"Not authenticated"
//	@Router			/v1/auth/me [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteBearerError(w, httpx.MessageNotAuthenticated)
		return
	}

	user, err := h.UserService.Profile(r.Context(), p.User.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, MessageProfileRetrieved, toUserResponse(user))
}

// HandleUpdate godoc
//
//	@Summary		Update current user
//	@Description	Changes the username, name and email of the authenticated user. Existing tokens stay valid.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.UpdateProfileRequest				true	"New profile"
//	@Success		200		{object}	authsdk.Response[authsdk.UserResponse]	"Updated profile"
//	@Failure		400		{object}	authsdk.ErrorResponse						"Validation error"
//	@Failure		401		{object}	authsdk.ErrorResponse						"Not authenticated"
//	@Failure		409		{object}	authsdk.ErrorResponse						"Username or email taken"
//	@Router			/v1/auth/me [patch].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteBearerError(w, httpx.MessageNotAuthenticated)
		return
	}

	var req authsdk.UpdateProfileRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), p.User, service.UpdateProfileRequest{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
	}, requestMeta(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, MessageProfileUpdated, toUserResponse(user))
}

// HandleChangePassword godoc
//
//	@Summary		Change password
//	@Description	Verifies the current password and stores the new one. Every token issued before is revoked and a fresh pair is returned.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.ChangePasswordRequest			true	"Current and new password"
//	@Success		200		{object}	authsdk.Response[authsdk.TokenPair]	"New token pair"
//	@Failure		400		{object}	authsdk.ErrorResponse					"Validation error or wrong current password"
//	@Failure		401		{object}	authsdk.ErrorResponse					"Not authenticated"
//	@Router			/v1/auth/password [put].
func (h *ProfileHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteBearerError(w, httpx.MessageNotAuthenticated)
		return
	}

	var req authsdk.ChangePasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	pair, err := h.UserService.ChangePassword(r.Context(), p.User, service.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}, requestMeta(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, MessagePasswordChanged, toTokenPair(pair))
}
