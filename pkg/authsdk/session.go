package authsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Session is an authenticated, tenant-bound connection to the API. The
// access token is refreshed automatically once it expires.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	tenantID     string
	expiresAt    time.Time
	user         UserSummary
}

// newSession creates a Session. The expiry keeps a 30 second buffer so
// tokens are refreshed before the server starts rejecting them.
func newSession(client *SDKClient, tenantID, accessToken, refreshToken string, expiresIn int64) *Session {
	return &Session{
		client:       client,
		tenantID:     tenantID,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    expiryFrom(expiresIn),
	}
}

func expiryFrom(expiresIn int64) time.Time {
	return time.Now().Add(time.Duration(expiresIn)*time.Second - 30*time.Second)
}

// Logout revokes both tokens of the session.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.RLock()
	access, refresh := s.accessToken, s.refreshToken
	s.mu.RUnlock()

	errAccess := s.client.Logout(ctx, access)
	var errRefresh error
	if refresh != "" {
		errRefresh = s.client.Logout(ctx, refresh)
	}
	return errors.Join(errAccess, errRefresh)
}

// getValidToken returns a valid access token, refreshing it if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	out, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = out.AccessToken
	s.expiresAt = expiryFrom(out.ExpiresIn)
	return s.accessToken, nil
}

// AccessToken returns the current access token without checking expiration.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// TenantID returns the tenant every request of the session is sent for.
func (s *Session) TenantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenantID
}

// User returns the profile returned at login. It is empty for sessions
// built with NewSessionFromTokens.
func (s *Session) User() UserSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
