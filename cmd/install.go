package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/install"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register warden as a Claude Code PreToolUse hook",
	Long: `Install adds warden to ~/.claude/settings.json as a PreToolUse hook so
Claude Code consults it before every tool invocation.

The hook entry points at the currently running binary. Installing again
is a no-op if an entry already exists.`,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove warden from Claude Code settings",
	RunE:  runUninstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	binPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate warden binary: %w", err)
	}

	installed, err := install.IsInstalled()
	if err != nil {
		return err
	}
	if installed {
		fmt.Println("warden hook already installed.")
		return nil
	}

	if err := install.Install(binPath); err != nil {
		return err
	}

	settingsPath, _ := install.SettingsPath()
	fmt.Printf("Installed PreToolUse hook in %s\n", settingsPath)
	fmt.Println("Restart Claude Code for the hook to take effect.")
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	installed, err := install.IsInstalled()
	if err != nil {
		return err
	}
	if !installed {
		fmt.Println("warden hook is not installed.")
		return nil
	}

	if err := install.Uninstall(); err != nil {
		return err
	}

	fmt.Println("Removed warden PreToolUse hook.")
	return nil
}
