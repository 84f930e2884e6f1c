package hook

import (
	"encoding/json"

	"github.com/warden-dev/warden/internal/constants"
	"github.com/warden-dev/warden/internal/logger"
	"github.com/warden-dev/warden/internal/policy"
)

// Output is the top-level JSON object written to stdout for Claude Code.
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput carries the permission decision for a PreToolUse event.
type SpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
	AdditionalContext        string `json:"additionalContext,omitempty"`
}

// Render converts a verdict into the hook output JSON.
func Render(v policy.Verdict) string {
	output := Output{
		HookSpecificOutput: SpecificOutput{
			HookEventName:            constants.HookEventPreToolUse,
			PermissionDecision:       string(v.Decision),
			PermissionDecisionReason: v.Reason,
			AdditionalContext:        v.Context,
		},
	}
	data, err := json.Marshal(output)
	if err != nil {
		logger.Debug("failed to marshal hook output", "error", err)
		return `{"hookSpecificOutput":{"hookEventName":"PreToolUse","permissionDecision":"deny","permissionDecisionReason":"internal error"}}`
	}
	return string(data)
}
