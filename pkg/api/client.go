package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/devnullvoid/proxmox-mcp/pkg/api/interfaces"
)

// Cache TTLs for the listing endpoints. Guest command execution never reads
// cached state; these only apply to the read-only inventory tools.
const (
	NodeDataTTL    = 30 * time.Second
	VMDataTTL      = 30 * time.Second
	StorageDataTTL = 1 * time.Minute
	ClusterDataTTL = 30 * time.Second
)

const apiPathSuffix = "/api2/json"

// Client is a Proxmox API client with dependency injection for logging and
// caching. It is safe for concurrent use; all state it holds (auth ticket,
// cache handle) is internally synchronized.
type Client struct {
	httpClient  *HTTPClient
	authManager *AuthManager

	// Dependencies
	logger interfaces.Logger
	cache  interfaces.Cache

	// API settings
	baseURL string
	user    string
}

// NewClient creates a new Proxmox API client with dependency injection
func NewClient(ctx context.Context, config interfaces.Config, options ...ClientOption) (*Client, error) {
	opts := defaultOptions()
	for _, option := range options {
		option(opts)
	}

	if config.GetAddr() == "" {
		return nil, fmt.Errorf("proxmox address cannot be empty")
	}

	// Construct base URL - remove any API path suffix
	baseURL := strings.TrimRight(config.GetAddr(), "/")
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}
	serverBaseURL := strings.TrimSuffix(baseURL, apiPathSuffix)

	opts.Logger.Debug("Proxmox API base URL: %s", serverBaseURL+apiPathSuffix)

	tlsConfig := &tls.Config{InsecureSkipVerify: config.GetInsecure()}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}

	httpClientWrapper := NewHTTPClient(httpClient, serverBaseURL+apiPathSuffix, opts.Logger)

	var authManager *AuthManager
	if config.IsUsingTokenAuth() {
		authManager = NewAuthManagerWithToken(config.GetAPIToken(), opts.Logger)
	} else {
		userWithRealm := fmt.Sprintf("%s@%s", config.GetUser(), config.GetRealm())
		authManager = NewAuthManagerWithPassword(serverBaseURL+apiPathSuffix, userWithRealm, config.GetPassword(), httpClient, opts.Logger)
	}

	client := &Client{
		httpClient:  httpClientWrapper,
		authManager: authManager,
		logger:      opts.Logger,
		cache:       opts.Cache,
		baseURL:     serverBaseURL,
		user:        config.GetUser(),
	}

	httpClientWrapper.SetAuthManager(authManager)

	if err := authManager.EnsureAuthenticated(ctx); err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	opts.Logger.Debug("Proxmox API client initialized successfully")
	return client, nil
}

// Get makes a GET request to the Proxmox API with retry logic
func (c *Client) Get(ctx context.Context, path string, result *map[string]interface{}) error {
	c.logger.Debug("API GET: %s", path)
	return c.httpClient.GetWithRetry(ctx, path, result, 3)
}

// GetNoRetry makes a GET request to the Proxmox API without retry logic.
// The guest agent poll loop uses this: a failed poll must surface as a
// single consumed attempt, not be silently retried by the transport.
func (c *Client) GetNoRetry(ctx context.Context, path string, result *map[string]interface{}) error {
	c.logger.Debug("API GET (no retry): %s", path)
	return c.httpClient.Get(ctx, path, result)
}

// Post makes a POST request to the Proxmox API
func (c *Client) Post(ctx context.Context, path string, data interface{}) error {
	c.logger.Debug("API POST: %s", path)
	return c.httpClient.Post(ctx, path, data, nil)
}

// PostWithResponse makes a POST request to the Proxmox API and returns the response
func (c *Client) PostWithResponse(ctx context.Context, path string, data interface{}, result *map[string]interface{}) error {
	c.logger.Debug("API POST with response: %s", path)
	return c.httpClient.Post(ctx, path, data, result)
}

// IsUsingTokenAuth returns true if the client is using API token authentication
func (c *Client) IsUsingTokenAuth() bool {
	return c.authManager != nil && c.authManager.IsTokenAuth()
}

// GetWithCache makes a GET request to the Proxmox API with caching
func (c *Client) GetWithCache(ctx context.Context, path string, result *map[string]interface{}, ttl time.Duration) error {
	cacheKey := fmt.Sprintf("proxmox_api_%s_%s", c.baseURL, path)
	cacheKey = strings.ReplaceAll(cacheKey, "/", "_")

	var cachedData map[string]interface{}
	found, err := c.cache.Get(cacheKey, &cachedData)
	if err != nil {
		c.logger.Debug("Cache error for %s: %v", path, err)
	} else if found {
		c.logger.Debug("Cache hit for: %s", path)
		if result != nil {
			*result = make(map[string]interface{}, len(cachedData))
			for k, v := range cachedData {
				(*result)[k] = v
			}
			return nil
		}
	}

	c.logger.Debug("Cache miss for: %s", path)
	err = c.Get(ctx, path, result)
	if err != nil {
		return err
	}

	if result != nil && *result != nil {
		if err := c.cache.Set(cacheKey, *result, ttl); err != nil {
			c.logger.Debug("Failed to cache API result for %s: %v", path, err)
		}
	}

	return nil
}

// ClearAPICache removes all API-related cached responses
func (c *Client) ClearAPICache() {
	if err := c.cache.Clear(); err != nil {
		c.logger.Debug("Failed to clear API cache: %v", err)
	} else {
		c.logger.Debug("API cache cleared successfully")
	}
}

// Version gets the Proxmox API version
func (c *Client) Version(ctx context.Context) (string, error) {
	var result map[string]interface{}
	if err := c.GetNoRetry(ctx, "/version", &result); err != nil {
		return "", fmt.Errorf("failed to get version: %w", err)
	}

	data, ok := result["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid version response format")
	}

	version := getString(data, "version")
	if version == "" {
		return "", fmt.Errorf("version not found in response")
	}

	return version, nil
}
