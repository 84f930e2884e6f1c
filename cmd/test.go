package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/policy"
)

var testCmd = &cobra.Command{
	Use:   "test <tool> <params-json>",
	Short: "Evaluate a single tool invocation against the active policy",
	Long: `Test runs one invocation through the policy engine and prints the verdict.

Examples:
  warden test Bash '{"command": "rm -rf /"}'
  warden test Write '{"file_path": ".env", "content": "..."}'
  warden test WebFetch '{"url": "https://pastebin.com/raw/abc"}'

Exits with status 2 when the invocation would be denied.`,
	Args: cobra.ExactArgs(2),
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	tool, params := args[0], args[1]
	if !json.Valid([]byte(params)) {
		return fmt.Errorf("params must be valid JSON, got: %s", params)
	}

	p := compilePolicy()
	verdict, latencyUS := p.Inspect(policy.Invocation{
		Tool:   tool,
		Params: json.RawMessage(params),
	})

	fmt.Printf("Tool:     %s\n", tool)
	fmt.Printf("Decision: %s\n", verdict.Decision)
	if verdict.Reason != "" {
		fmt.Printf("Reason:   %s\n", verdict.Reason)
	}
	if verdict.Context != "" {
		fmt.Printf("Context:  %s\n", verdict.Context)
	}
	fmt.Printf("Latency:  %dµs\n", latencyUS)

	if verdict.IsDeny() {
		os.Exit(2)
	}
	return nil
}
