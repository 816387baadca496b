package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/forensint/celltrace/internal/config"
	"github.com/forensint/celltrace/internal/log"
)

// NewRootCmd creates the root command for celltrace.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "celltrace",
		Short: "Forensic ingestion of mobile-device extraction archives",
		Long: `celltrace ingests vendor extraction archives (XML reports in ZIP files),
normalizes the contacts, credentials, and accounts they contain, and
stores them per case for querying, deduplication, and export.

Data stays in a local SQLite database; extracted photos live in a
per-case blob store next to it.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: celltrace.yml in current or XDG config directory)")

	// Add subcommands
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig builds the effective configuration from the config file,
// environment, and global flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose := getVerboseFlag(cmd); verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the sanitizing structured logger every command uses.
func setupLogger(cfg *config.Config) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, cfg.Verbose)
}
