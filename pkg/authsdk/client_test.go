package authsdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/petget/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLoginBuildsTenantSession(t *testing.T) {
	var seenTenant, seenAuth atomic.Value

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Secret != "s3cret" {
			authsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		writeJSON(w, http.StatusOK, authsdk.LoginResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			TokenType:    "Bearer",
			ExpiresIn:    86400,
			User:         authsdk.UserSummary{ID: "u1", Identity: req.Identity, TenantID: "clinic-a", Role: "COMPANY_ADMIN"},
		})
	})
	mux.HandleFunc("GET /v1/customers", func(w http.ResponseWriter, r *http.Request) {
		seenTenant.Store(r.Header.Get("X-Tenant-ID"))
		seenAuth.Store(r.Header.Get("Authorization"))
		require.Equal(t, "silva", r.URL.Query().Get("name"))
		writeJSON(w, http.StatusOK, authsdk.CustomerListResponse{
			Customers: []authsdk.CustomerResponse{{ID: "c1", Name: "Maria Silva", TenantID: "clinic-a"}},
			Limit:     50,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := authsdk.NewSDKClient(srv.URL)
	ctx := context.Background()

	_, err := client.AuthenticateWithPassword(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	session, err := client.AuthenticateWithPassword(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "clinic-a", session.TenantID())
	require.Equal(t, "u1", session.User().ID)

	list, err := session.ListCustomers(ctx, authsdk.CustomerListOptions{Name: "silva"})
	require.NoError(t, err)
	require.Len(t, list.Customers, 1)
	require.Equal(t, "clinic-a", seenTenant.Load())
	require.Equal(t, "Bearer access-1", seenAuth.Load())
}

func TestSessionRefreshesExpiredAccessToken(t *testing.T) {
	var refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req authsdk.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "refresh-1", req.RefreshToken)
		refreshes.Add(1)
		writeJSON(w, http.StatusOK, authsdk.RefreshResponse{AccessToken: "access-2", TokenType: "Bearer", ExpiresIn: 3600})
	})
	mux.HandleFunc("GET /v1/customers/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer access-2", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, authsdk.CustomerResponse{ID: r.PathValue("id")})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := authsdk.NewSDKClient(srv.URL)

	// expiresIn of zero is already inside the refresh buffer
	session := client.NewSessionFromTokens("clinic-a", "access-1", "refresh-1", 0)

	got, err := session.GetCustomer(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, "c1", got.ID)
	require.Equal(t, "access-2", session.AccessToken())
	require.Equal(t, "refresh-1", session.RefreshToken())
	require.EqualValues(t, 1, refreshes.Load())
}

func TestValidateReadsBothAnswers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/validate", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer good" {
			writeJSON(w, http.StatusOK, authsdk.ValidateResponse{Valid: true})
			return
		}
		writeJSON(w, http.StatusBadRequest, authsdk.ValidateResponse{Valid: false})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := authsdk.NewSDKClient(srv.URL)

	ok, err := client.Validate(context.Background(), "good")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.Validate(context.Background(), "bad")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestProvisionTenantSendsBootstrapToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/tenants", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Bootstrap-Token") != "boot" {
			authsdk.NewAPIError(http.StatusUnauthorized, authsdk.ErrorCodeUnauthorized, "bad token").WriteError(w)
			return
		}
		writeJSON(w, http.StatusCreated, authsdk.ProvisionTenantResponse{TenantID: "clinic-a", GeneratedPassword: "pw"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := authsdk.NewSDKClient(srv.URL)
	req := authsdk.ProvisionTenantRequest{
		TenantID:      "clinic-a",
		CompanyName:   "Clinic A",
		AdminName:     "Alice",
		AdminIdentity: "alice@example.com",
	}

	_, err := client.ProvisionTenant(context.Background(), "nope", req)
	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, authsdk.ErrorCodeUnauthorized, apiErr.Code)

	out, err := client.ProvisionTenant(context.Background(), "boot", req)
	require.NoError(t, err)
	require.Equal(t, "clinic-a", out.TenantID)
	require.Equal(t, "pw", out.GeneratedPassword)
}

func TestProvisionTenantRequestValidate(t *testing.T) {
	valid := authsdk.ProvisionTenantRequest{
		TenantID:      "clinic-a",
		CompanyName:   "Clinic A",
		AdminName:     "Alice",
		AdminIdentity: "alice@example.com",
	}
	require.Nil(t, valid.Validate())

	bad := valid
	bad.TenantID = "Clinic A"
	bad.AdminPassword = "short"
	bad.AdminIdentity = ""

	errs := bad.Validate()
	require.Contains(t, errs, "tenantId")
	require.Contains(t, errs, "adminPassword")
	require.Equal(t, "required", errs["adminIdentity"])
}

func TestUnstructuredErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := authsdk.NewSDKClient(srv.URL).GetLiveness(context.Background())

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeServerError, apiErr.Code)
}

func TestReadinessDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, authsdk.HealthResponse{
			Status: "degraded",
			Checks: &authsdk.HealthChecks{Database: "unreachable", Signer: "ok"},
		})
	}))
	t.Cleanup(srv.Close)

	health, err := authsdk.NewSDKClient(srv.URL).GetReadiness(context.Background())

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	require.Equal(t, authsdk.ErrorCodeUnavailable, apiErr.Code)
	require.NotNil(t, health)
	require.Equal(t, "unreachable", health.Checks.Database)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
