package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/warden-dev/warden/internal/config"
	"github.com/warden-dev/warden/internal/hook"
	"github.com/warden-dev/warden/internal/logger"
	"github.com/warden-dev/warden/internal/policy"
)

// runHook is the default command that processes a hook event from stdin.
func runHook(cmd *cobra.Command, args []string) {
	p := compilePolicy()
	result := hook.Process(os.Stdin, p)

	if dryRun {
		fmt.Fprintf(os.Stderr, "Tool:     %s\n", result.Tool)
		fmt.Fprintf(os.Stderr, "Decision: %s\n", result.Verdict.Decision)
		if result.Verdict.Reason != "" {
			fmt.Fprintf(os.Stderr, "Reason:   %s\n", result.Verdict.Reason)
		}
		fmt.Fprintf(os.Stderr, "Latency:  %dµs\n", result.LatencyUS)
		return
	}

	fmt.Println(result.Output)
	// Exit 2 tells Claude Code the invocation was blocked.
	if result.Verdict.IsDeny() {
		os.Exit(2)
	}
}

// compilePolicy builds the engine from the active config. Invalid patterns
// are logged and skipped; the valid remainder still enforces.
func compilePolicy() *policy.Policy {
	p, patternErrs := policy.Compile(config.Get())
	for _, pe := range patternErrs {
		logger.Warn("skipping invalid pattern",
			"section", pe.Section,
			"index", pe.Index,
			"pattern", pe.Pattern,
			"error", pe.Err.Error())
	}
	return p
}
