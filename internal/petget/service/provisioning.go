package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/petget/internal/petget/domain"
	"github.com/aussiebroadwan/petget/internal/petget/store"
	"github.com/aussiebroadwan/petget/pkg/cryptox"
	"github.com/aussiebroadwan/petget/pkg/idx"
	"github.com/aussiebroadwan/petget/pkg/slogx"
)

var (
	ErrProvisioningDisabled     = errors.New("provisioning_disabled")
	ErrProvisioningUnauthorized = errors.New("unauthorized provisioning attempt")
	ErrTenantExists             = errors.New("tenant_exists")
	ErrIdentityTaken            = errors.New("identity_taken")
)

// ProvisioningService creates new clinics. It is guarded by a pre-shared
// token and runs outside any tenant.
type ProvisioningService struct {
	Store store.Store
	Token string // empty disables provisioning
}

// Enabled reports whether a provisioning token is configured.
func (s *ProvisioningService) Enabled() bool { return s.Token != "" }

// Provision creates the company for req.TenantID and its first
// COMPANY_ADMIN in a single transaction.
func (s *ProvisioningService) Provision(
	ctx context.Context,
	token string,
	req domain.TenantProvisioning,
) (domain.ProvisionedTenant, error) {
	l := slogx.FromContext(ctx)

	// 1. Check the token
	if !s.Enabled() {
		return domain.ProvisionedTenant{}, ErrProvisioningDisabled
	}
	if !cryptox.TokensEqual(token, s.Token) {
		l.Warn("unauthorized provisioning attempt")
		return domain.ProvisionedTenant{}, ErrProvisioningUnauthorized
	}

	// 2. Validate the request
	req.TenantID = strings.TrimSpace(req.TenantID)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.AdminName = strings.TrimSpace(req.AdminName)
	req.AdminIdentity = NormalizeIdentity(req.AdminIdentity)
	switch {
	case req.TenantID == "":
		return domain.ProvisionedTenant{}, invalid("tenantId is required")
	case req.CompanyName == "":
		return domain.ProvisionedTenant{}, invalid("companyName is required")
	case req.AdminName == "":
		return domain.ProvisionedTenant{}, invalid("adminName is required")
	case req.AdminIdentity == "":
		return domain.ProvisionedTenant{}, invalid("adminIdentity is required")
	}

	// 3. Hash the admin password, generating one when absent
	out := domain.ProvisionedTenant{
		CompanyID:   idx.NewString(),
		TenantID:    req.TenantID,
		AdminUserID: idx.NewString(),
	}
	password := req.AdminPassword
	if password == "" {
		generated, err := cryptox.GeneratePassword()
		if err != nil {
			return domain.ProvisionedTenant{}, err
		}
		password = generated
		out.GeneratedPassword = generated
	}
	passHash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return domain.ProvisionedTenant{}, err
	}

	// 4. Company and admin together or not at all
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Companies().GetCompanyByTenant(ctx, req.TenantID); err == nil {
			return ErrTenantExists
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		err := tx.Companies().CreateCompany(ctx, domain.Company{
			ID:       out.CompanyID,
			Name:     req.CompanyName,
			TaxID:    strings.TrimSpace(req.CompanyTaxID),
			TenantID: req.TenantID,
			Active:   true,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrTenantExists
		}
		if err != nil {
			return err
		}

		err = tx.Users().CreateUser(ctx, domain.User{
			ID:           out.AdminUserID,
			Name:         req.AdminName,
			Identity:     req.AdminIdentity,
			PasswordHash: passHash,
			TenantID:     req.TenantID,
			Role:         domain.RoleCompanyAdmin,
			Active:       true,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrIdentityTaken
		}
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrTenantExists) && !errors.Is(err, ErrIdentityTaken) {
			l.Error("tenant provisioning failed", slog.String("tenant_id", req.TenantID), slog.Any("error", err))
		}
		return domain.ProvisionedTenant{}, err
	}

	l.Info("tenant provisioned",
		slog.String("tenant_id", out.TenantID),
		slog.String("company_id", out.CompanyID),
		slog.String("admin_user_id", out.AdminUserID),
	)
	return out, nil
}
