package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devnullvoid/proxmox-mcp/internal/version"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "proxmox-mcp",
	Short: "An MCP server for Proxmox VE",
	Long: `Proxmox MCP is a Model Context Protocol server for Proxmox VE clusters.

It exposes cluster inspection, VM lifecycle, and guest command execution as
MCP tools over stdio, so AI assistants can manage Proxmox resources.`,
	Version: version.GetVersionString(),
	RunE:    runServer,
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.CompletionOptions.DisableDefaultCmd = true
	addPersistentFlags(RootCmd)
}

// runServer bootstraps the configured dependencies and serves MCP over stdio.
func runServer(cmd *cobra.Command, args []string) error {
	opts := getBootstrapOptions(cmd)

	srv, cleanup, err := bootstrap(opts)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	defer cleanup()

	// Stdout carries the MCP protocol from here on; anything human-readable
	// goes through the logger.
	cmd.SilenceUsage = true

	return srv.ServeStdio()
}

// getBootstrapOptions converts cobra flags and viper-bound environment
// variables into bootstrapOptions.
func getBootstrapOptions(cmd *cobra.Command) bootstrapOptions {
	configPath, _ := cmd.Flags().GetString("config")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	return bootstrapOptions{
		ConfigPath:      configPath,
		NoCache:         noCache,
		FlagAddr:        viper.GetString("addr"),
		FlagUser:        viper.GetString("user"),
		FlagPassword:    viper.GetString("password"),
		FlagTokenID:     viper.GetString("token_id"),
		FlagTokenSecret: viper.GetString("token_secret"),
		FlagRealm:       viper.GetString("realm"),
		FlagInsecure:    viper.GetBool("insecure"),
		FlagDebug:       viper.GetBool("debug"),
		FlagCacheDir:    viper.GetString("cache_dir"),
		FlagLogFile:     viper.GetString("log_file"),
	}
}

// addPersistentFlags adds all the persistent flags to the root command
func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "", "Path to YAML config file")
	cmd.PersistentFlags().BoolP("no-cache", "n", false, "Disable caching")

	cmd.PersistentFlags().String("addr", "", "Proxmox API URL")
	cmd.PersistentFlags().String("user", "", "Proxmox username")
	cmd.PersistentFlags().String("password", "", "Proxmox password")
	cmd.PersistentFlags().String("token-id", "", "Proxmox API token ID")
	cmd.PersistentFlags().String("token-secret", "", "Proxmox API token secret")
	cmd.PersistentFlags().String("realm", "", "Proxmox realm")
	cmd.PersistentFlags().Bool("insecure", false, "Skip TLS verification")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().String("cache-dir", "", "Cache directory path")
	cmd.PersistentFlags().String("log-file", "", "Log file path (defaults to the cache directory)")

	// Bind flags to environment variables
	viper.SetEnvPrefix("PROXMOX")
	viper.AutomaticEnv()

	bindings := map[string]string{
		"addr":         "addr",
		"user":         "user",
		"password":     "password",
		"token_id":     "token-id",
		"token_secret": "token-secret",
		"realm":        "realm",
		"insecure":     "insecure",
		"debug":        "debug",
		"cache_dir":    "cache-dir",
		"log_file":     "log-file",
	}
	for key, flag := range bindings {
		if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind %s flag: %v", key, err))
		}
	}
}
