package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetLiveness reports whether the process is up.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness reports whether the database and token signer are usable.
// A degraded service returns both the health body and an *APIError with
// status 503.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var health HealthResponse
	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.Unmarshal(body, &health); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &health, nil
	case http.StatusServiceUnavailable:
		if json.Unmarshal(body, &health) == nil && health.Status != "" {
			return &health, NewAPIError(resp.StatusCode, ErrorCodeUnavailable, "service is "+health.Status)
		}
	}
	if err := parseErrorResponse(resp, body); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
}
