// Package interfaces defines the core interfaces used throughout proxmox-mcp.
//
// This package provides clean abstractions for logging, caching, and
// configuration that enable dependency injection and testability. The API
// client never constructs its own logger or cache; the outer layer supplies
// implementations (or the NoOp variants) when building the client.
package interfaces

import "time"

// Logger defines the interface for leveled logging functionality.
//
// Implementations should be safe for concurrent use. The format parameter
// follows fmt.Printf conventions.
//
// Example usage:
//
//	logger.Debug("API GET: %s", path)
//	logger.Error("failed to reach node %s: %v", node, err)
type Logger interface {
	// Debug logs debug-level messages. These are typically only shown
	// when debug logging is explicitly enabled.
	Debug(format string, args ...interface{})

	// Info logs informational messages about normal application flow.
	Info(format string, args ...interface{})

	// Error logs error messages for exceptional conditions that should
	// be investigated.
	Error(format string, args ...interface{})
}

// Cache defines the interface for key-value caching functionality.
//
// Implementations should be safe for concurrent use and handle TTL
// expiration automatically. The dest parameter in Get must be a pointer
// to the type you want to unmarshal into.
type Cache interface {
	// Get retrieves a value from the cache and unmarshals it into dest.
	// Returns true if the key was found and not expired, false otherwise.
	Get(key string, dest interface{}) (bool, error)

	// Set stores a value in the cache with the specified TTL.
	// If ttl is 0, the item will not expire automatically.
	Set(key string, value interface{}, ttl time.Duration) error

	// Delete removes a specific key from the cache.
	Delete(key string) error

	// Clear removes all items from the cache.
	Clear() error
}

// Config defines the interface for accessing Proxmox connection settings.
//
// This interface abstracts configuration sources (environment variables,
// files, command-line flags) so the API client stays independent of how
// credentials and endpoints were supplied.
type Config interface {
	// GetAddr returns the Proxmox server URL (e.g., "https://pve.example.com:8006").
	GetAddr() string

	// GetUser returns the Proxmox username (without realm suffix).
	GetUser() string

	// GetPassword returns the password for password-based authentication.
	// Returns empty string if using token authentication.
	GetPassword() string

	// GetRealm returns the authentication realm (e.g., "pam", "pve").
	GetRealm() string

	// GetTokenID returns the API token ID for token-based authentication.
	GetTokenID() string

	// GetTokenSecret returns the API token secret for token-based authentication.
	GetTokenSecret() string

	// GetInsecure returns true if TLS certificate verification should be skipped.
	GetInsecure() bool

	// IsUsingTokenAuth returns true if configured for API token authentication,
	// false if using password authentication.
	IsUsingTokenAuth() bool

	// GetAPIToken returns the complete API token string in Proxmox format:
	// "PVEAPIToken=USER@REALM!TOKENID=SECRET"
	// Returns empty string if using password authentication.
	GetAPIToken() string
}

// NoOpLogger is a logger implementation that discards all log messages.
type NoOpLogger struct{}

// Debug discards the debug message.
func (n *NoOpLogger) Debug(format string, args ...interface{}) {}

// Info discards the info message.
func (n *NoOpLogger) Info(format string, args ...interface{}) {}

// Error discards the error message.
func (n *NoOpLogger) Error(format string, args ...interface{}) {}

// NoOpCache is a cache implementation that doesn't store anything.
//
// All Get operations return false (not found), and all Set/Delete/Clear
// operations succeed immediately without doing anything.
type NoOpCache struct{}

// Get always returns false (not found) and no error.
func (n *NoOpCache) Get(key string, dest interface{}) (bool, error) { return false, nil }

// Set always succeeds immediately without storing anything.
func (n *NoOpCache) Set(key string, value interface{}, ttl time.Duration) error { return nil }

// Delete always succeeds immediately without doing anything.
func (n *NoOpCache) Delete(key string) error { return nil }

// Clear always succeeds immediately without doing anything.
func (n *NoOpCache) Clear() error { return nil }
