// Package hook implements the Claude Code PreToolUse protocol: it reads
// one hook event from stdin, runs it through the policy engine, and
// produces the JSON decision Claude Code expects on stdout.
package hook

import (
	"encoding/json"
	"io"

	"github.com/warden-dev/warden/internal/audit"
	"github.com/warden-dev/warden/internal/config"
	"github.com/warden-dev/warden/internal/logger"
	"github.com/warden-dev/warden/internal/policy"
)

// Audit log version
const AuditVersion = 1

// Input is the JSON event Claude Code writes to the hook's stdin.
type Input struct {
	SessionID      string          `json:"session_id"`
	TranscriptPath string          `json:"transcript_path"`
	Cwd            string          `json:"cwd"`
	PermissionMode string          `json:"permission_mode"`
	HookEventName  string          `json:"hook_event_name"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input"`
	ToolUseID      string          `json:"tool_use_id"`
}

// Result is the outcome of processing one hook event.
type Result struct {
	Tool      string         // tool name from the event, if any
	Verdict   policy.Verdict // the engine's decision
	LatencyUS int64          // evaluation latency in microseconds
	Output    string         // JSON written to stdout for Claude Code
}

// Process reads a single hook event from r and evaluates it against p.
// Malformed input never crashes the hook: it resolves through the same
// fail-closed switch as engine faults.
func Process(r io.Reader, p *policy.Policy) Result {
	rawBytes, err := io.ReadAll(r)
	if err != nil {
		logger.Debug("failed to read input", "error", err)
		return faultResult(p, "failed to read input", "")
	}
	rawInput := string(rawBytes)

	var input Input
	if err := json.Unmarshal(rawBytes, &input); err != nil {
		logger.Debug("failed to decode input", "error", err)
		return faultResult(p, "invalid hook input", rawInput)
	}

	inv := policy.Invocation{Tool: input.ToolName, Params: input.ToolInput}
	verdict, latencyUS := p.Inspect(inv)
	logger.Debug("inspected invocation",
		"tool", input.ToolName,
		"decision", verdict.Decision,
		"latency_us", latencyUS)

	output := Render(verdict)
	logAudit(input, verdict, latencyUS, rawInput, output)
	return Result{Tool: input.ToolName, Verdict: verdict, LatencyUS: latencyUS, Output: output}
}

// faultResult resolves an input-level fault per the fail_closed switch.
func faultResult(p *policy.Policy, detail, rawInput string) Result {
	var verdict policy.Verdict
	if p.FailClosed() {
		verdict = policy.DenyFor(policy.InternalError(detail))
	} else {
		verdict = policy.Allow()
	}
	output := Render(verdict)
	logAudit(Input{}, verdict, 0, rawInput, output)
	return Result{Verdict: verdict, Output: output}
}

// logAudit records the decision in the audit log.
func logAudit(input Input, verdict policy.Verdict, latencyUS int64, rawInput, rawOutput string) {
	var configError string
	if err := config.InitError(); err != nil {
		configError = err.Error()
	}
	audit.Log(audit.Entry{
		Version:     AuditVersion,
		SessionID:   input.SessionID,
		ToolUseID:   input.ToolUseID,
		Tool:        input.ToolName,
		Decision:    string(verdict.Decision),
		Reason:      verdict.Reason,
		LatencyUS:   latencyUS,
		Cwd:         input.Cwd,
		Input:       rawInput,
		Output:      rawOutput,
		ConfigPath:  config.GetConfigPath(),
		ConfigError: configError,
	})
}
