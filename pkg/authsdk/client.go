package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTenantHeader is the header protected endpoints read the tenant from.
const DefaultTenantHeader = "X-Tenant-ID"

// SDKClient is a client for the petget API. It provides the public
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// TenantHeader is sent by Sessions on every authenticated request.
	// Defaults to DefaultTenantHeader.
	TenantHeader string
}

// NewSDKClient creates a new petget API client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		TenantHeader: DefaultTenantHeader,
	}
}

// NewSessionFromTokens wraps tokens obtained elsewhere in a Session. The
// access token is assumed valid for expiresIn seconds.
func (c *SDKClient) NewSessionFromTokens(tenantID, accessToken, refreshToken string, expiresIn int64) *Session {
	return newSession(c, tenantID, accessToken, refreshToken, expiresIn)
}

func (c *SDKClient) tenantHeader() string {
	if c.TenantHeader == "" {
		return DefaultTenantHeader
	}
	return c.TenantHeader
}
