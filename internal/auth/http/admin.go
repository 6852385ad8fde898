package http

import (
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/pkg/httpx"
)

// AdminHandler serves the admin-only endpoints.
type AdminHandler struct {
	UserService *service.UserService
}

// HandleRoles godoc
//
//	@Summary		List roles
//	@Description	Returns every role a user can hold. Requires the superadmin or admin role.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.Response[[]authsdk.RoleResponse]	"Roles"
//	@Failure		401	{object}	authsdk.ErrorResponse						"Not authenticated"
//	@Failure		403	{object}	authsdk.ErrorResponse						"Role not permitted"
//	@Router			/v1/auth/roles [get].
func (h *AdminHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	httpx.WriteSuccess(w, http.StatusOK, MessageRolesRetrieved, toRoleResponses(h.UserService.ListRoles()))
}

// HandleActivity godoc
//
//	@Summary		User activity
//	@Description	Returns the most recent activity of a user, newest first. Requires the superadmin or admin role.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id		path		int											true	"User id"
//	@Param			limit	query		int											false	"Maximum entries (default 50, max 200)"
//	@Success		200		{object}	authsdk.Response[[]authsdk.ActivityResponse]	"Activity entries"
//	@Failure		400		{object}	authsdk.ErrorResponse							"Bad id or limit"
//	@Failure		401		{object}	authsdk.ErrorResponse							"Not authenticated"
//	@Failure		403		{object}	authsdk.ErrorResponse							"Role not permitted"
//	@Failure		404		{object}	authsdk.ErrorResponse							"User not found"
//	@Router			/v1/auth/users/{id}/activity [get].
func (h *AdminHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteBearerError(w, httpx.MessageNotAuthenticated)
		return
	}

	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	entries, err := h.UserService.ListActivity(r.Context(), p, userID, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, MessageActivityListed, toActivityResponses(entries))
}
