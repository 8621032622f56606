/*
Package authsdk provides a client SDK for the petget API.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: public operations (login, refresh, logout, validate, health,
    tenant provisioning) and creation of authenticated sessions
  - Session: tenant-bound operations with automatic access token refresh

Create an SDKClient to interact with public endpoints:

	client := authsdk.NewSDKClient("https://petget.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Create a clinic and its first administrator
	out, err := client.ProvisionTenant(ctx, bootstrapToken, authsdk.ProvisionTenantRequest{
		TenantID:      "clinic-a",
		CompanyName:   "Clinic A",
		AdminName:     "Alice",
		AdminIdentity: "alice@clinic-a.example",
	})

	// Log in
	session, err := client.AuthenticateWithPassword(ctx, "alice@clinic-a.example", secret)

Use a Session for the customer and pet endpoints. Every request carries the
access token and the session's tenant in the X-Tenant-ID header:

	customers, err := session.ListCustomers(ctx, authsdk.CustomerListOptions{Name: "silva"})

	created, err := session.CreateCustomer(ctx, authsdk.CustomerRequest{Name: "Maria Silva"})

# Automatic Token Refresh

Access tokens are refreshed through POST /auth/refresh once they are within
30 seconds of expiring. Refresh tokens are not rotated by the server, so the
session keeps using the one it got at login until Logout.

# Error Handling

Every non-2xx response is returned as an *APIError carrying the status code
and a stable error code. APIErrors compare by code:

	_, err := client.Login(ctx, identity, "wrong")
	if errors.Is(err, authsdk.ErrInvalidCredentials) {
		// unknown identity or wrong secret, the server does not say which
	}

# Thread Safety

Sessions are safe for concurrent use.
*/
package authsdk
