// warden - Claude Code PreToolUse policy gate.
//
// Warden inspects every tool invocation (shell commands, file writes,
// URL fetches, MCP tools) against a compiled security policy and answers
// with allow, ask, or deny before the tool runs. Detectors cover leaked
// secrets, destructive shell commands, protected paths, and network
// exfiltration domains. Any internal fault resolves to deny (fail closed).
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "hooks": [{"type": "command", "command": "warden"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"tool_name": "Bash", "tool_input": {"command": "rm -rf /"}}' | warden
package main

import (
	"os"

	"github.com/warden-dev/warden/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
