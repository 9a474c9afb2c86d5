package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/devnullvoid/proxmox-mcp/pkg/api/interfaces"
)

// AuthToken represents a Proxmox ticket-based authentication token
type AuthToken struct {
	Ticket    string    `json:"ticket"`
	CSRFToken string    `json:"csrf_token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsValid checks if the token is still valid (not expired)
func (t *AuthToken) IsValid() bool {
	return t != nil && t.Ticket != "" && time.Now().Before(t.ExpiresAt)
}

// AuthManager handles Proxmox API authentication. It supports two modes:
// API token authentication (stateless, preferred) and ticket-based
// authentication (password login with cached ticket refresh).
type AuthManager struct {
	baseURL    string
	username   string
	password   string
	apiToken   string
	httpClient *http.Client
	logger     interfaces.Logger
	token      *AuthToken
	mu         sync.RWMutex
}

// NewAuthManagerWithPassword creates an authentication manager that logs in
// with a username and password and caches the resulting ticket.
func NewAuthManagerWithPassword(baseURL, username, password string, httpClient *http.Client, logger interfaces.Logger) *AuthManager {
	return &AuthManager{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: httpClient,
		logger:     logger,
	}
}

// NewAuthManagerWithToken creates an authentication manager that sends a
// pre-generated API token with every request. No login round trip is made.
func NewAuthManagerWithToken(apiToken string, logger interfaces.Logger) *AuthManager {
	return &AuthManager{
		apiToken: apiToken,
		logger:   logger,
	}
}

// IsTokenAuth returns true if the manager uses API token authentication.
func (am *AuthManager) IsTokenAuth() bool {
	return am.apiToken != ""
}

// APIToken returns the configured API token, or empty string for ticket auth.
func (am *AuthManager) APIToken() string {
	return am.apiToken
}

// EnsureAuthenticated verifies that credentials are usable. For token auth
// this is a no-op; the token is validated implicitly by the first API call.
func (am *AuthManager) EnsureAuthenticated(ctx context.Context) error {
	if am.IsTokenAuth() {
		return nil
	}

	_, err := am.GetValidToken(ctx)
	return err
}

// GetValidToken returns a valid authentication ticket, refreshing if necessary
func (am *AuthManager) GetValidToken(ctx context.Context) (*AuthToken, error) {
	am.mu.RLock()
	if am.token.IsValid() {
		token := am.token
		am.mu.RUnlock()
		return token, nil
	}
	am.mu.RUnlock()

	return am.authenticate(ctx)
}

// authenticate performs the ticket login flow with the Proxmox API
func (am *AuthManager) authenticate(ctx context.Context) (*AuthToken, error) {
	am.mu.Lock()
	defer am.mu.Unlock()

	// Double-check after acquiring write lock
	if am.token.IsValid() {
		return am.token, nil
	}

	am.logger.Debug("Authenticating with Proxmox API as %s", am.username)

	authURL := am.baseURL + "/access/ticket"

	formData := url.Values{}
	formData.Set("username", am.username)
	formData.Set("password", am.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create authentication request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := am.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("authentication request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		am.logger.Debug("Authentication failed response body: %s", string(body))
		return nil, fmt.Errorf("authentication failed with status %d: %s", resp.StatusCode, resp.Status)
	}

	var authResponse struct {
		Data struct {
			Ticket              string `json:"ticket"`
			CSRFPreventionToken string `json:"CSRFPreventionToken"`
			Username            string `json:"username"`
		} `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&authResponse); err != nil {
		return nil, fmt.Errorf("failed to parse authentication response: %w", err)
	}

	if authResponse.Data.Ticket == "" {
		return nil, fmt.Errorf("authentication failed: no ticket received")
	}

	// Proxmox tickets are valid for 2 hours
	token := &AuthToken{
		Ticket:    authResponse.Data.Ticket,
		CSRFToken: authResponse.Data.CSRFPreventionToken,
		Username:  authResponse.Data.Username,
		ExpiresAt: time.Now().Add(2 * time.Hour),
	}

	am.token = token
	am.logger.Debug("Authentication successful for user: %s", token.Username)

	return token, nil
}

// ClearToken clears the cached authentication ticket
func (am *AuthManager) ClearToken() {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.token = nil
	am.logger.Debug("Authentication ticket cleared")
}
