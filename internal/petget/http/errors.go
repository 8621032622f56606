package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/petget/internal/petget/service"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/pkg/authsdk"
	"github.com/aussiebroadwan/petget/pkg/slogx"
)

// writeError maps service and store errors onto API errors. Anything it does
// not recognise is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErrorFor(r, err).WriteError(w)
}

func apiErrorFor(r *http.Request, err error) *authsdk.APIError {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return authsdk.ErrInvalidCredentials
	case errors.Is(err, service.ErrAccountDisabled):
		return authsdk.ErrAccountDisabled
	case errors.Is(err, service.ErrInvalidToken):
		return authsdk.ErrInvalidToken

	case errors.Is(err, store.ErrSecurityViolation):
		slogx.FromContext(r.Context()).Warn("request rejected by tenant guard", slog.Any("error", err))
		return authsdk.ErrSecurityViolation
	case errors.Is(err, store.ErrMissingTenantContext):
		return authsdk.ErrMissingTenant

	case errors.Is(err, store.ErrNotFound):
		return authsdk.ErrNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, store.ErrAlreadyExists):
		return authsdk.NewAPIError(http.StatusConflict, authsdk.ErrorCodeConflict, detail(err, service.ErrConflict))
	case errors.Is(err, service.ErrTenantExists):
		return authsdk.NewAPIError(http.StatusConflict, authsdk.ErrorCodeConflict, "tenant already exists")
	case errors.Is(err, service.ErrIdentityTaken):
		return authsdk.NewAPIError(http.StatusConflict, authsdk.ErrorCodeConflict, "identity already registered")
	case errors.Is(err, service.ErrInvalidInput):
		return authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, detail(err, service.ErrInvalidInput))

	case errors.Is(err, service.ErrProvisioningDisabled):
		return authsdk.NewAPIError(http.StatusNotFound, authsdk.ErrorCodeNotFound, "tenant provisioning is not enabled")
	case errors.Is(err, service.ErrProvisioningUnauthorized):
		return authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized, "invalid bootstrap token")

	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		return authsdk.ErrServerError
	}
}

// detail strips the sentinel prefix from a wrapped error message, leaving
// the part meant for the caller.
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == sentinel.Error() {
		return strings.ReplaceAll(msg, "_", " ")
	}
	return msg
}

func badRequest(w http.ResponseWriter, desc string) {
	authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, desc).WriteError(w)
}
