package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/devnullvoid/proxmox-mcp/internal/cache"
	"github.com/devnullvoid/proxmox-mcp/internal/config"
	"github.com/devnullvoid/proxmox-mcp/internal/logger"
	"github.com/devnullvoid/proxmox-mcp/internal/tools"
	"github.com/devnullvoid/proxmox-mcp/pkg/api"
	"github.com/devnullvoid/proxmox-mcp/pkg/api/interfaces"
)

// bootstrapOptions carries everything the CLI layer resolved from flags and
// environment variables.
type bootstrapOptions struct {
	ConfigPath string
	NoCache    bool

	FlagAddr        string
	FlagUser        string
	FlagPassword    string
	FlagTokenID     string
	FlagTokenSecret string
	FlagRealm       string
	FlagInsecure    bool
	FlagDebug       bool
	FlagCacheDir    string
	FlagLogFile     string
}

// bootstrap builds the configured server and its dependencies. The returned
// cleanup function closes the cache and must be called on shutdown.
func bootstrap(opts bootstrapOptions) (*tools.Server, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	log := newLogger(cfg)

	apiCache, cleanup := newCache(opts.NoCache, cfg, log)

	client, err := api.NewClient(context.Background(), cfg,
		api.WithLogger(log),
		api.WithCache(apiCache),
	)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create Proxmox client: %w", err)
	}

	srv := tools.New(client, log, tools.Options{
		ExecMaxAttempts:  cfg.Exec.MaxAttempts,
		ExecPollInterval: cfg.Exec.PollInterval,
	})

	log.Info("proxmox-mcp starting: addr=%s user=%s token_auth=%t", cfg.Addr, cfg.User, cfg.IsUsingTokenAuth())

	return srv, cleanup, nil
}

// loadConfig layers flag and environment values over an optional config file.
func loadConfig(opts bootstrapOptions) (*config.Config, error) {
	cfg := config.NewConfig()
	applyFlagOverrides(cfg, opts)

	if opts.ConfigPath != "" {
		if err := cfg.MergeWithFile(opts.ConfigPath); err != nil {
			return nil, err
		}
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlagOverrides copies non-empty flag values into the config. Viper has
// already resolved flag vs environment precedence, so any non-zero value here
// wins over the config file.
func applyFlagOverrides(cfg *config.Config, opts bootstrapOptions) {
	if opts.FlagAddr != "" {
		cfg.Addr = opts.FlagAddr
	}
	if opts.FlagUser != "" {
		cfg.User = opts.FlagUser
	}
	if opts.FlagPassword != "" {
		cfg.Password = opts.FlagPassword
	}
	if opts.FlagTokenID != "" {
		cfg.TokenID = opts.FlagTokenID
	}
	if opts.FlagTokenSecret != "" {
		cfg.TokenSecret = opts.FlagTokenSecret
	}
	if opts.FlagRealm != "" {
		cfg.Realm = opts.FlagRealm
	}
	if opts.FlagInsecure {
		cfg.Insecure = true
	}
	if opts.FlagDebug {
		cfg.Debug = true
	}
	if opts.FlagCacheDir != "" {
		cfg.CacheDir = opts.FlagCacheDir
	}
	if opts.FlagLogFile != "" {
		cfg.LogFile = opts.FlagLogFile
	}
}

// newLogger builds the application logger. Stdout belongs to the MCP stdio
// transport, so logs go to a file, falling back to stderr if the file cannot
// be opened.
func newLogger(cfg *config.Config) *logger.Logger {
	level := logger.LevelInfo
	if cfg.Debug {
		level = logger.LevelDebug
	}

	var log *logger.Logger
	var err error
	if cfg.LogFile != "" {
		log, err = logger.NewFileLogger(level, cfg.LogFile)
	} else {
		log, err = logger.NewInternalLogger(level, cfg.CacheDir)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: falling back to stderr logging: %v\n", err)
		return logger.NewSimpleLogger(level)
	}

	return log
}

// newCache picks the cache implementation. BadgerDB persists API responses
// across restarts; failures degrade to an in-memory cache rather than
// aborting startup.
func newCache(noCache bool, cfg *config.Config, log *logger.Logger) (interfaces.Cache, func()) {
	if noCache {
		return &interfaces.NoOpCache{}, func() {}
	}

	badgerCache, err := cache.NewBadgerCache(cfg.CacheDir, log)
	if err != nil {
		log.Error("Failed to open badger cache in %s, using in-memory cache: %v", cfg.CacheDir, err)
		memCache := cache.NewMemoryCache()
		return memCache, func() { _ = memCache.Close() }
	}

	return badgerCache, func() { _ = badgerCache.Close() }
}
