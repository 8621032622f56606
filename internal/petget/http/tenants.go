package http

import (
	"net/http"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/service"
	"github.com/aussiebroadwan/petget/pkg/authsdk"
	"github.com/aussiebroadwan/petget/pkg/httpx"
	"github.com/aussiebroadwan/petget/pkg/slogx"
)

type TenantsHandler struct {
	Provisioning *service.ProvisioningService
}

// ServeHTTP provisions a new clinic.
//
//	@Summary		Provision a tenant
//	@Description	Creates a company and its first COMPANY_ADMIN in one transaction. Only available when a bootstrap token is configured.
//	@Description	When adminPassword is omitted a password is generated and returned once.
//	@Tags			Tenants
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							true	"Bootstrap token"
//	@Param			request				body		authsdk.ProvisionTenantRequest	true	"Tenant and administrator"
//	@Success		201					{object}	authsdk.ProvisionTenantResponse
//	@Failure		400					{object}	authsdk.ValidationErrorResponse	"Validation failed"
//	@Failure		401					{object}	authsdk.ErrorResponse			"Missing or invalid bootstrap token"
//	@Failure		404					{object}	authsdk.ErrorResponse			"Provisioning not enabled"
//	@Failure		409					{object}	authsdk.ErrorResponse			"Tenant or identity already exists"
//	@Router			/v1/tenants [post].
func (h *TenantsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	// 1. Check if enabled
	if !h.Provisioning.Enabled() {
		writeError(w, r, service.ErrProvisioningDisabled)
		return
	}

	// 2. Require the bootstrap token header
	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized,
			"bootstrap token is required in X-Bootstrap-Token header").WriteError(w)
		return
	}

	// 3. Parse and validate the body
	var req authsdk.ProvisionTenantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		badRequest(w, "request body must be valid JSON")
		return
	}
	if errs := req.Validate(); errs != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, authsdk.ValidationErrorResponse{
			Code:    authsdk.ErrorCodeValidation,
			Message: "validation failed for some fields",
			Details: errs,
		})
		return
	}

	// 4. Provision
	l.Info("provisioning tenant", "tenant_id", req.TenantID)
	out, err := h.Provisioning.Provision(r.Context(), token, domain.TenantProvisioning{
		TenantID:      req.TenantID,
		CompanyName:   req.CompanyName,
		CompanyTaxID:  req.CompanyTaxID,
		AdminName:     req.AdminName,
		AdminIdentity: req.AdminIdentity,
		AdminPassword: req.AdminPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	// 5. The generated password is only shown here
	httpx.WriteJSON(w, http.StatusCreated, authsdk.ProvisionTenantResponse{
		CompanyID:         out.CompanyID,
		TenantID:          out.TenantID,
		AdminUserID:       out.AdminUserID,
		GeneratedPassword: out.GeneratedPassword,
	})
}
