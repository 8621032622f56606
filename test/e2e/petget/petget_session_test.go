package petget_test

import (
	"testing"

	"github.com/aussiebroadwan/petget/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestProvisionLoginRefreshLogout covers the full session lifecycle:
// 1. Provision a clinic
// 2. Log in as its administrator
// 3. Refresh the access token
// 4. Log out and confirm both tokens stop working
func TestProvisionLoginRefreshLogout(t *testing.T) {
	baseURL := setupContainer(t, relaxedLimits)
	client := authsdk.NewSDKClient(baseURL)

	session := provisionClinic(t, client, "clinic-a")
	user := session.User()
	require.Equal(t, "COMPANY_ADMIN", user.Role)
	require.Equal(t, "Clinic clinic-a", user.CompanyName)

	refreshed, err := client.Refresh(t.Context(), session.RefreshToken())
	require.NoError(t, err)
	require.Equal(t, "Bearer", refreshed.TokenType)
	require.NotEmpty(t, refreshed.AccessToken)

	ok, err := client.Validate(t.Context(), refreshed.AccessToken)
	require.NoError(t, err)
	require.True(t, ok)

	access, refresh := session.AccessToken(), session.RefreshToken()
	require.NoError(t, session.Logout(t.Context()))

	ok, err = client.Validate(t.Context(), access)
	require.NoError(t, err)
	require.False(t, ok, "logged out access token must be rejected")

	_, err = client.Refresh(t.Context(), refresh)
	require.ErrorIs(t, err, authsdk.ErrInvalidToken)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	baseURL := setupContainer(t, relaxedLimits)
	client := authsdk.NewSDKClient(baseURL)
	provisionClinic(t, client, "clinic-a")

	_, err := client.Login(t.Context(), "admin@clinic-a.example", "wrong-password")
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	_, err = client.Login(t.Context(), "ghost@clinic-a.example", "wrong-password")
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)
}

func TestLoginRateLimit(t *testing.T) {
	baseURL := setupContainer(t, nil)
	client := authsdk.NewSDKClient(baseURL)

	var limited bool
	for range 10 {
		_, err := client.Login(t.Context(), "ghost@clinic-a.example", "wrong-password")
		var apiErr *authsdk.APIError
		require.ErrorAs(t, err, &apiErr)
		if apiErr.StatusCode == 429 {
			limited = true
			break
		}
	}
	require.True(t, limited, "repeated logins for one identity should be rate limited")
}
