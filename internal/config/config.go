// Package config provides configuration management for proxmox-mcp.
//
// Configuration is loaded from multiple sources with proper precedence:
//  1. Command-line flags (highest priority)
//  2. Environment variables
//  3. Configuration file (YAML, optionally sops-encrypted)
//  4. Default values (lowest priority)
//
// Environment Variables:
//   - PROXMOX_ADDR: Proxmox server URL
//   - PROXMOX_USER: Username for authentication
//   - PROXMOX_PASSWORD: Password for password-based auth
//   - PROXMOX_TOKEN_ID: API token ID for token-based auth
//   - PROXMOX_TOKEN_SECRET: API token secret
//   - PROXMOX_REALM: Authentication realm (default: "pam")
//   - PROXMOX_INSECURE: Skip TLS verification ("true"/"false")
//   - PROXMOX_DEBUG: Enable debug logging ("true"/"false")
//   - PROXMOX_CACHE_DIR: Custom cache directory
//
// Configuration File Format (YAML):
//
//	addr: "https://pve.example.com:8006"
//	user: "root"
//	token_id: "mcp"
//	token_secret: "..."
//	realm: "pam"
//	insecure: false
//	debug: false
//	cache_dir: "/var/cache/proxmox-mcp"
//	exec:
//	  max_attempts: 10
//	  poll_interval: 1s
//
// Files encrypted with sops are decrypted transparently on load.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsops/sops/v3/decrypt"
	"gopkg.in/yaml.v3"
)

const (
	defaultRealm = "pam"
	trueString   = "true"
)

// ExecConfig holds the polling parameters for guest command execution.
// Both are externally overridable so callers and tests can bound the
// execution window deterministically.
type ExecConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// UnmarshalYAML accepts poll_interval as a duration string ("2s", "500ms").
func (e *ExecConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		MaxAttempts  int    `yaml:"max_attempts"`
		PollInterval string `yaml:"poll_interval"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	e.MaxAttempts = raw.MaxAttempts
	if raw.PollInterval != "" {
		d, err := time.ParseDuration(raw.PollInterval)
		if err != nil {
			return fmt.Errorf("invalid poll_interval: %w", err)
		}
		e.PollInterval = d
	}

	return nil
}

// Config represents the complete application configuration.
type Config struct {
	Addr        string     `yaml:"addr"`
	User        string     `yaml:"user"`
	Password    string     `yaml:"password"`
	TokenID     string     `yaml:"token_id"`
	TokenSecret string     `yaml:"token_secret"`
	Realm       string     `yaml:"realm"`
	Insecure    bool       `yaml:"insecure"`
	Debug       bool       `yaml:"debug"`
	CacheDir    string     `yaml:"cache_dir"`
	LogFile     string     `yaml:"log_file"`
	Exec        ExecConfig `yaml:"exec"`
}

// NewConfig creates a configuration populated from environment variables.
func NewConfig() *Config {
	return &Config{
		Addr:        os.Getenv("PROXMOX_ADDR"),
		User:        os.Getenv("PROXMOX_USER"),
		Password:    os.Getenv("PROXMOX_PASSWORD"),
		TokenID:     os.Getenv("PROXMOX_TOKEN_ID"),
		TokenSecret: os.Getenv("PROXMOX_TOKEN_SECRET"),
		Realm:       os.Getenv("PROXMOX_REALM"),
		Insecure:    strings.EqualFold(os.Getenv("PROXMOX_INSECURE"), trueString),
		Debug:       strings.EqualFold(os.Getenv("PROXMOX_DEBUG"), trueString),
		CacheDir:    os.Getenv("PROXMOX_CACHE_DIR"),
	}
}

// MergeWithFile merges settings from a YAML config file into the config.
// Values already set (e.g. from the environment) take precedence over file
// values. Files encrypted with sops are decrypted before parsing.
func (c *Config) MergeWithFile(path string) error {
	// #nosec G304 -- path comes from the operator's own flag
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if isSopsEncrypted(data) {
		decrypted, derr := decrypt.File(path, "yaml")
		if derr != nil {
			return fmt.Errorf("failed to decrypt config file: %w", derr)
		}
		data = decrypted
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if c.Addr == "" {
		c.Addr = fileConfig.Addr
	}
	if c.User == "" {
		c.User = fileConfig.User
	}
	if c.Password == "" {
		c.Password = fileConfig.Password
	}
	if c.TokenID == "" {
		c.TokenID = fileConfig.TokenID
	}
	if c.TokenSecret == "" {
		c.TokenSecret = fileConfig.TokenSecret
	}
	if c.Realm == "" {
		c.Realm = fileConfig.Realm
	}
	if c.CacheDir == "" {
		c.CacheDir = fileConfig.CacheDir
	}
	if c.LogFile == "" {
		c.LogFile = fileConfig.LogFile
	}
	if !c.Insecure {
		c.Insecure = fileConfig.Insecure
	}
	if !c.Debug {
		c.Debug = fileConfig.Debug
	}
	if c.Exec.MaxAttempts == 0 {
		c.Exec.MaxAttempts = fileConfig.Exec.MaxAttempts
	}
	if c.Exec.PollInterval == 0 {
		c.Exec.PollInterval = fileConfig.Exec.PollInterval
	}

	return nil
}

// isSopsEncrypted reports whether a YAML document carries sops metadata.
func isSopsEncrypted(data []byte) bool {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false
	}
	_, ok := raw["sops"]
	return ok
}

// SetDefaults fills in default values for unset fields.
func (c *Config) SetDefaults() {
	if c.Realm == "" {
		c.Realm = defaultRealm
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir()
	}
}

// defaultCacheDir returns the platform cache directory for proxmox-mcp.
func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "proxmox-mcp")
	}
	return ".proxmox-mcp-cache"
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("proxmox address is required (set addr in config or PROXMOX_ADDR)")
	}
	if c.User == "" {
		return errors.New("proxmox user is required (set user in config or PROXMOX_USER)")
	}

	hasToken := c.TokenID != "" && c.TokenSecret != ""
	if !hasToken && c.Password == "" {
		return errors.New("either password or token_id+token_secret authentication is required")
	}
	if c.TokenID != "" && c.TokenSecret == "" {
		return errors.New("token_secret is required when token_id is set")
	}

	return nil
}

// GetAddr returns the Proxmox server URL.
func (c *Config) GetAddr() string { return c.Addr }

// GetUser returns the Proxmox username.
func (c *Config) GetUser() string { return c.User }

// GetPassword returns the password for password-based authentication.
func (c *Config) GetPassword() string { return c.Password }

// GetRealm returns the authentication realm.
func (c *Config) GetRealm() string { return c.Realm }

// GetTokenID returns the API token ID.
func (c *Config) GetTokenID() string { return c.TokenID }

// GetTokenSecret returns the API token secret.
func (c *Config) GetTokenSecret() string { return c.TokenSecret }

// GetInsecure returns true if TLS certificate verification should be skipped.
func (c *Config) GetInsecure() bool { return c.Insecure }

// IsUsingTokenAuth returns true if configured for API token authentication.
func (c *Config) IsUsingTokenAuth() bool {
	return c.TokenID != "" && c.TokenSecret != ""
}

// GetAPIToken returns the complete API token string in Proxmox format.
func (c *Config) GetAPIToken() string {
	if !c.IsUsingTokenAuth() {
		return ""
	}
	return fmt.Sprintf("PVEAPIToken=%s@%s!%s=%s", c.User, c.Realm, c.TokenID, c.TokenSecret)
}
