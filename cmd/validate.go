package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/config"
	"github.com/warden-dev/warden/internal/lint"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and report problems",
	Long: `Validate lints the warden configuration file: TOML syntax, unknown keys,
out-of-range values, and rule patterns that fail to compile.

This is useful for:
- Checking that your config.toml syntax is correct
- Finding typos that would silently disable a rule
- Seeing which patterns will actually be enforced`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output results as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := config.GetConfigPath()
	if path == "" {
		return fmt.Errorf("no configuration file found (run 'warden init' first)")
	}

	result, err := lint.Run(path)
	if err != nil {
		return err
	}

	if validateJSON {
		out, err := result.RenderJSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
	} else {
		fmt.Print(result.Render())
	}

	if result.Errors() > 0 {
		os.Exit(1)
	}
	return nil
}
