package hook

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/warden-dev/warden/internal/config"
	"github.com/warden-dev/warden/internal/policy"
)

func testPolicy(t *testing.T, mutate func(*config.Config)) *policy.Policy {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	p, errs := policy.Compile(cfg)
	if len(errs) != 0 {
		t.Fatalf("pattern errors: %v", errs)
	}
	return p
}

func decodeOutput(t *testing.T, out string) SpecificOutput {
	t.Helper()
	var o Output
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	return o.HookSpecificOutput
}

func TestProcessDeny(t *testing.T) {
	p := testPolicy(t, nil)
	input := `{
		"session_id": "s1",
		"tool_use_id": "t1",
		"cwd": "/tmp",
		"hook_event_name": "PreToolUse",
		"tool_name": "Bash",
		"tool_input": {"command": "rm -rf /"}
	}`

	result := Process(strings.NewReader(input), p)
	if result.Tool != "Bash" {
		t.Errorf("tool = %q", result.Tool)
	}
	if !result.Verdict.IsDeny() {
		t.Fatalf("verdict = %+v, want deny", result.Verdict)
	}

	out := decodeOutput(t, result.Output)
	if out.HookEventName != "PreToolUse" {
		t.Errorf("hookEventName = %q", out.HookEventName)
	}
	if out.PermissionDecision != "deny" {
		t.Errorf("permissionDecision = %q", out.PermissionDecision)
	}
	if !strings.Contains(out.PermissionDecisionReason, "Dangerous command") {
		t.Errorf("reason = %q", out.PermissionDecisionReason)
	}
	if out.AdditionalContext == "" {
		t.Error("deny output missing additionalContext hint")
	}
}

func TestProcessAllow(t *testing.T) {
	p := testPolicy(t, nil)
	input := `{"tool_name": "Bash", "tool_input": {"command": "git status"}}`

	result := Process(strings.NewReader(input), p)
	if !result.Verdict.IsAllow() {
		t.Fatalf("verdict = %+v, want allow", result.Verdict)
	}

	out := decodeOutput(t, result.Output)
	if out.PermissionDecision != "allow" {
		t.Errorf("permissionDecision = %q", out.PermissionDecision)
	}
	if out.PermissionDecisionReason != "" {
		t.Errorf("allow output has reason %q", out.PermissionDecisionReason)
	}
}

func TestProcessAsk(t *testing.T) {
	p := testPolicy(t, func(cfg *config.Config) {
		cfg.Tools.Ask = []string{"WebFetch"}
	})
	input := `{"tool_name": "WebFetch", "tool_input": {"url": "https://example.com"}}`

	result := Process(strings.NewReader(input), p)
	if !result.Verdict.IsAsk() {
		t.Fatalf("verdict = %+v, want ask", result.Verdict)
	}
	out := decodeOutput(t, result.Output)
	if out.PermissionDecision != "ask" {
		t.Errorf("permissionDecision = %q", out.PermissionDecision)
	}
}

func TestProcessMalformedInput(t *testing.T) {
	t.Run("fail closed denies", func(t *testing.T) {
		p := testPolicy(t, nil)
		result := Process(strings.NewReader("not json"), p)
		if !result.Verdict.IsDeny() {
			t.Fatalf("verdict = %+v, want deny", result.Verdict)
		}
		out := decodeOutput(t, result.Output)
		if !strings.Contains(out.PermissionDecisionReason, "Internal error") {
			t.Errorf("reason = %q", out.PermissionDecisionReason)
		}
	})

	t.Run("fail open allows", func(t *testing.T) {
		p := testPolicy(t, func(cfg *config.Config) {
			cfg.Policy.FailClosed = false
		})
		result := Process(strings.NewReader("not json"), p)
		if !result.Verdict.IsAllow() {
			t.Fatalf("verdict = %+v, want allow", result.Verdict)
		}
	})
}

func TestProcessEmptyInput(t *testing.T) {
	// Empty stdin decodes as malformed JSON and resolves fail-closed.
	p := testPolicy(t, nil)
	result := Process(strings.NewReader(""), p)
	if !result.Verdict.IsDeny() {
		t.Errorf("verdict = %+v, want deny", result.Verdict)
	}
}

func TestProcessUnknownTool(t *testing.T) {
	p := testPolicy(t, nil)
	input := `{"tool_name": "BrandNewTool", "tool_input": {"whatever": [1, 2, 3]}}`

	result := Process(strings.NewReader(input), p)
	if !result.Verdict.IsAllow() {
		t.Errorf("verdict = %+v, want allow for unknown tool", result.Verdict)
	}
}

func TestRenderOmitsEmptyFields(t *testing.T) {
	out := Render(policy.Allow())
	if strings.Contains(out, "permissionDecisionReason") {
		t.Errorf("allow output carries empty reason: %s", out)
	}
	if strings.Contains(out, "additionalContext") {
		t.Errorf("allow output carries empty context: %s", out)
	}

	out = Render(policy.DenyFor(policy.NetworkExfiltration("pastebin.com")))
	if !strings.Contains(out, "pastebin.com") {
		t.Errorf("deny output missing domain: %s", out)
	}
}
