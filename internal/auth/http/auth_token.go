package http

import (
	"net/http"

	"github.com/aussiebroadwan/cms/internal/auth/service"
	"github.com/aussiebroadwan/cms/pkg/authsdk"
	"github.com/aussiebroadwan/cms/pkg/httpx"
)

// TokenHandler serves /v1/auth/token.
type TokenHandler struct {
	TokenService *service.TokenService
}

// HandleLogin godoc
//
//	@Summary		Obtain a token pair
//	@Description	Checks a username (or email) and password and returns an access token with its refresh signature.
//	@Description	Unknown users and wrong passwords get the same response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest						true	"Credentials"
//	@Success		200		{object}	authsdk.Response[authsdk.TokenPair]	"token, refresh_token"
//	@Failure		400		{object}	authsdk.ErrorResponse					"Validation error"
//	@Failure		401		{object}	authsdk.ErrorResponse					"Invalid username or password"
//	@Failure		429		{object}	authsdk.ErrorResponse					"Too many requests"
//	@Header			200		{string}	Cache-Control							"no-store"
//	@Router			/v1/auth/token [post].
func (h *TokenHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	pair, err := h.TokenService.Login(r.Context(), service.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	}, requestMeta(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, MessageLoginSucceeded, toTokenPair(pair))
}

// HandleRefresh godoc
//
//	@Summary		Refresh a token pair
//	@Description	Presents the current access token (which may be expired) and its refresh signature.
//	@Description	A new pair is only issued once the token is within the rotation threshold of expiring, otherwise the same pair is returned.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RefreshRequest					true	"Refresh signature"
//	@Success		200		{object}	authsdk.Response[authsdk.TokenPair]	"token, refresh_token"
//	@Failure		400		{object}	authsdk.ErrorResponse					"Validation error"
//	@Failure		401		{object}	authsdk.ErrorResponse					"Invalid refresh token"
//	@Router			/v1/auth/token [put].
func (h *TokenHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteBearerError(w, httpx.MessageNotAuthenticated)
		return
	}

	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeInvalidBody(w)
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), p, service.RefreshRequest{
		RefreshToken: req.RefreshToken,
	}, requestMeta(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteSuccess(w, http.StatusOK, MessageTokenRefreshed, toTokenPair(pair))
}
