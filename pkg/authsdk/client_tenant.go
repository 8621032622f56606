package authsdk

import (
	"context"
	"net/http"
)

// ProvisionTenant creates a clinic and its first administrator. token is the
// server's bootstrap token.
func (c *SDKClient) ProvisionTenant(
	ctx context.Context,
	token string,
	req ProvisionTenantRequest,
) (*ProvisionTenantResponse, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/tenants", body, map[string]string{
		"Content-Type":      "application/json",
		"X-Bootstrap-Token": token,
	})
	if err != nil {
		return nil, err
	}

	var out ProvisionTenantResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
