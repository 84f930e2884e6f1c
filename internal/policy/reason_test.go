package policy

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBlockReasonRoundTrip(t *testing.T) {
	reasons := []BlockReason{
		SecretDetected("aws_access_key", "AKIA...MPLE"),
		DangerousCommand(`rm\s+-rf\s+[/~]`, "rm -rf /"),
		ProtectedPath(".env", "**/.env"),
		NetworkExfiltration("pastebin.com"),
		InternalError("index out of range"),
	}

	for _, r := range reasons {
		t.Run(r.Code, func(t *testing.T) {
			data, err := json.Marshal(r)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			var back BlockReason
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != r {
				t.Errorf("round trip changed value: %+v != %+v", back, r)
			}
		})
	}
}

func TestBlockReasonRenderingContainsFields(t *testing.T) {
	tests := []struct {
		reason   BlockReason
		contains []string
	}{
		{SecretDetected("aws_access_key", "AKIA...MPLE"), []string{"Secret detected", "aws_access_key", "AKIA...MPLE"}},
		{DangerousCommand(`mkfs\.`, "mkfs."), []string{"Dangerous command", "mkfs."}},
		{ProtectedPath("proj/.env", "**/.env"), []string{"Protected path", "proj/.env", "**/.env"}},
		{NetworkExfiltration("pastebin.com"), []string{"Network exfiltration", "pastebin.com"}},
		{InternalError("boom"), []string{"Internal error", "boom"}},
	}

	for _, tt := range tests {
		rendered := tt.reason.String()
		for _, want := range tt.contains {
			if !strings.Contains(rendered, want) {
				t.Errorf("%s rendering %q missing %q", tt.reason.Code, rendered, want)
			}
		}
	}
}

func TestContextHintNonEmpty(t *testing.T) {
	for _, code := range []string{
		CodeSecretDetected,
		CodeDangerousCommand,
		CodeProtectedPath,
		CodeNetworkExfiltration,
		CodeInternalError,
	} {
		if hint := (BlockReason{Code: code}).ContextHint(); hint == "" {
			t.Errorf("no context hint for %s", code)
		}
	}
}

func TestDenyForCarriesReasonAndContext(t *testing.T) {
	r := NetworkExfiltration("pastebin.com")
	v := DenyFor(r)
	if !v.IsDeny() {
		t.Fatalf("decision = %s, want deny", v.Decision)
	}
	if v.Reason != r.String() {
		t.Errorf("reason = %q, want %q", v.Reason, r.String())
	}
	if v.Context != r.ContextHint() {
		t.Errorf("context = %q, want %q", v.Context, r.ContextHint())
	}
}
