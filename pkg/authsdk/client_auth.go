package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Login exchanges an identity and secret for a token pair.
func (c *SDKClient) Login(ctx context.Context, identity, secret string) (*LoginResponse, error) {
	body, err := jsonBody(LoginRequest{Identity: identity, Secret: secret})
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", body, map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthenticateWithPassword logs in and wraps the result in a Session bound
// to the user's tenant.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, identity, secret string) (*Session, error) {
	out, err := c.Login(ctx, identity, secret)
	if err != nil {
		return nil, err
	}

	s := newSession(c, out.User.TenantID, out.AccessToken, out.RefreshToken, out.ExpiresIn)
	s.user = out.User
	return s, nil
}

// Refresh exchanges a refresh token for a new access token.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	body, err := jsonBody(RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", body, map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	var out RefreshResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes token. It can be an access or a refresh token.
func (c *SDKClient) Logout(ctx context.Context, token string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// Validate reports whether the server still accepts token.
func (c *SDKClient) Validate(ctx context.Context, token string) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/auth/validate", nil, map[string]string{
		"Authorization": "Bearer " + token,
	})
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusBadRequest:
		var out ValidateResponse
		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			return false, fmt.Errorf("failed to decode response: %w", err)
		}
		return out.Valid, nil
	default:
		return false, parseErrorResponse(resp, bodyBytes)
	}
}
