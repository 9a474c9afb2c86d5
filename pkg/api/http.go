package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devnullvoid/proxmox-mcp/pkg/api/interfaces"
)

const userAgent = "proxmox-mcp"

// HTTPClient wraps http.Client with Proxmox-specific functionality
type HTTPClient struct {
	client      *http.Client
	authManager *AuthManager
	baseURL     string
	logger      interfaces.Logger
}

// NewHTTPClient creates a new Proxmox HTTP client
func NewHTTPClient(httpClient *http.Client, baseURL string, logger interfaces.Logger) *HTTPClient {
	return &HTTPClient{
		client:  httpClient,
		baseURL: baseURL,
		logger:  logger,
	}
}

// SetAuthManager sets the authentication manager used for requests
func (hc *HTTPClient) SetAuthManager(authManager *AuthManager) {
	hc.authManager = authManager
}

// Get performs a GET request to the Proxmox API
func (hc *HTTPClient) Get(ctx context.Context, path string, result *map[string]interface{}) error {
	return hc.doRequest(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request to the Proxmox API
func (hc *HTTPClient) Post(ctx context.Context, path string, data interface{}, result *map[string]interface{}) error {
	return hc.doRequest(ctx, http.MethodPost, path, data, result)
}

// Put performs a PUT request to the Proxmox API
func (hc *HTTPClient) Put(ctx context.Context, path string, data interface{}, result *map[string]interface{}) error {
	return hc.doRequest(ctx, http.MethodPut, path, data, result)
}

// Delete performs a DELETE request to the Proxmox API
func (hc *HTTPClient) Delete(ctx context.Context, path string, result *map[string]interface{}) error {
	return hc.doRequest(ctx, http.MethodDelete, path, nil, result)
}

// GetWithRetry performs a GET request with retry logic
func (hc *HTTPClient) GetWithRetry(ctx context.Context, path string, result *map[string]interface{}, maxRetries int) error {
	return hc.doRequestWithRetry(ctx, http.MethodGet, path, nil, result, maxRetries)
}

// doRequest performs an HTTP request with proper authentication
func (hc *HTTPClient) doRequest(ctx context.Context, method, path string, data interface{}, result *map[string]interface{}) error {
	return hc.doRequestWithRetry(ctx, method, path, data, result, 1)
}

// doRequestWithRetry performs an HTTP request with retry logic
func (hc *HTTPClient) doRequestWithRetry(ctx context.Context, method, path string, data interface{}, result *map[string]interface{}, maxRetries int) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			// Exponential backoff
			backoff := time.Duration(attempt-1) * 500 * time.Millisecond
			hc.logger.Debug("Retrying request after %v (attempt %d/%d)", backoff, attempt, maxRetries)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := hc.executeRequest(ctx, method, path, data, result)
		if err == nil {
			return nil
		}

		lastErr = err

		if !hc.shouldRetry(err, attempt, maxRetries) {
			break
		}

		hc.logger.Debug("Request failed, will retry: %v", err)
	}

	if maxRetries > 1 {
		return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
	}
	return lastErr
}

// executeRequest performs a single HTTP request
func (hc *HTTPClient) executeRequest(ctx context.Context, method, path string, data interface{}, result *map[string]interface{}) error {
	fullURL := hc.baseURL + path
	if !strings.HasPrefix(path, "/") {
		fullURL = hc.baseURL + "/" + path
	}

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	if err := hc.applyAuth(ctx, req, method); err != nil {
		return err
	}

	if (method == http.MethodPost || method == http.MethodPut || method == http.MethodDelete) && data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc.logger.Debug("API %s: %s", method, path)

	resp, err := hc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if hc.authManager != nil && !hc.authManager.IsTokenAuth() {
			hc.logger.Debug("Authentication ticket expired, clearing cache")
			hc.authManager.ClearToken()
		}
		return &APIError{StatusCode: resp.StatusCode, Message: "authentication failed"}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: apiErrorMessage(resp.Status, respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response JSON: %w", err)
		}
	}

	return nil
}

// apiErrorMessage extracts a human-readable message from a Proxmox error
// response. Proxmox reports failures either in the HTTP status line or as a
// JSON body with "errors"/"message" fields; fall back to the raw body.
func apiErrorMessage(status string, body []byte) string {
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := getString(parsed, "message"); msg != "" {
			return strings.TrimSpace(msg)
		}
		if errs, ok := parsed["errors"].(map[string]interface{}); ok {
			parts := make([]string, 0, len(errs))
			for field, detail := range errs {
				parts = append(parts, fmt.Sprintf("%s: %v", field, detail))
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; ")
			}
		}
	}

	if len(bytes.TrimSpace(body)) > 0 {
		return fmt.Sprintf("%s: %s", status, strings.TrimSpace(string(body)))
	}
	return status
}

// applyAuth sets the authentication headers for a request
func (hc *HTTPClient) applyAuth(ctx context.Context, req *http.Request, method string) error {
	if hc.authManager == nil {
		return nil
	}

	if hc.authManager.IsTokenAuth() {
		req.Header.Set("Authorization", hc.authManager.APIToken())
		return nil
	}

	token, err := hc.authManager.GetValidToken(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	req.Header.Set("Cookie", fmt.Sprintf("PVEAuthCookie=%s", token.Ticket))

	// CSRF token is required for write operations
	if method == http.MethodPost || method == http.MethodPut || method == http.MethodDelete {
		if token.CSRFToken != "" {
			req.Header.Set("CSRFPreventionToken", token.CSRFToken)
		}
	}

	return nil
}

// shouldRetry determines if a request should be retried
func (hc *HTTPClient) shouldRetry(err error, attempt, maxRetries int) bool {
	if attempt >= maxRetries {
		return false
	}

	// Retry on expired tickets, network errors, and 5xx server errors
	if strings.Contains(err.Error(), "authentication failed") {
		return true
	}

	return IsTransient(err)
}
