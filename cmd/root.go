// Package cmd implements the CLI commands for warden.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/audit"
	"github.com/warden-dev/warden/internal/config"
	"github.com/warden-dev/warden/internal/logger"
)

var (
	// Global flags
	verbose    bool
	dryRun     bool
	configFile string
	noAuditLog bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Security policy hook for Claude Code tool invocations",
	Long: `Warden is a PreToolUse hook for Claude Code that inspects every tool
invocation against a security policy before it runs: secrets in content,
dangerous shell commands, protected file paths, and network access to
exfiltration domains.

When called without arguments, it reads a JSON hook event from stdin and
writes a permission decision to stdout.

Run 'warden install' to register the hook in ~/.claude/settings.json.`,
	// Run the hook by default when no subcommand is given
	Run: runHook,
	// Silence usage on errors
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize before running any command
	cobra.OnInitialize(initApp)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Evaluate the event and print a human-readable result instead of hook JSON")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default ~/.config/warden/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&noAuditLog, "no-audit-log", false, "Disable audit logging")
}

// initApp initializes the application (logger, config, audit)
func initApp() {
	logger.Init(logger.Options{Verbose: verbose})

	if configFile != "" {
		config.SetPath(configFile)
	}
	config.Init()

	audit.Init("", noAuditLog)
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// IsDryRun returns whether dry-run mode is enabled
func IsDryRun() bool {
	return dryRun
}
