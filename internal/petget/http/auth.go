package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/petget/internal/petget/service"
	"github.com/aussiebroadwan/petget/pkg/authsdk"
	"github.com/aussiebroadwan/petget/pkg/httpx"
)

// SessionHandler serves the /auth endpoints.
type SessionHandler struct {
	Sessions *service.SessionManager
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Authenticates an identity and secret and returns an access and refresh token pair.
//	@Description	Unknown identities and wrong secrets get the same answer.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Identity and secret"
//	@Success		200		{object}	authsdk.LoginResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_credentials"
//	@Failure		403		{object}	authsdk.ErrorResponse	"account_disabled"
//	@Failure		429		{object}	authsdk.ErrorResponse	"Rate limited"
//	@Router			/auth/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, "request body must be a JSON object with identity and secret")
		return
	}
	if strings.TrimSpace(req.Identity) == "" || req.Secret == "" {
		badRequest(w, "identity and secret are required")
		return
	}

	bundle, err := h.Sessions.Login(r.Context(), req.Identity, req.Secret)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    seconds(bundle.ExpiresIn),
		User:         userSummary(bundle.Principal),
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh an access token
//	@Description	Exchanges a refresh token for a new access token in the same tenant. The refresh token is not rotated.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.RefreshResponse
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed body"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_token"
//	@Failure		403		{object}	authsdk.ErrorResponse	"account_disabled"
//	@Router			/auth/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, "request body must be a JSON object with refreshToken")
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	grant, err := h.Sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{
		AccessToken: grant.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   seconds(grant.ExpiresIn),
	})
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Revokes the bearer token until it would have expired. Always succeeds.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.MessageResponse
//	@Router			/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(r.Context(), r.Header.Get("Authorization"))
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: "logged out"})
}

// HandleValidate godoc
//
//	@Summary		Validate a token
//	@Description	Reports whether the bearer token is well formed, unexpired and not revoked.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.ValidateResponse	"valid: true"
//	@Failure		400	{object}	authsdk.ValidateResponse	"valid: false"
//	@Router			/auth/validate [get].
func (h *SessionHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if h.Sessions.IsValid(r.Context(), r.Header.Get("Authorization")) {
		httpx.WriteJSON(w, http.StatusOK, authsdk.ValidateResponse{Valid: true})
		return
	}
	httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ValidateResponse{Valid: false})
}
