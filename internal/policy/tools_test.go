package policy

import (
	"testing"

	"github.com/warden-dev/warden/internal/config"
)

func TestToolGatePrecedence(t *testing.T) {
	// A name matching deny, ask, and allow simultaneously is denied.
	g, errs := NewToolGate(&config.Tools{
		Deny:  []string{"Danger*"},
		Ask:   []string{"Danger*"},
		Allow: []string{"Danger*"},
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected pattern errors: %v", errs)
	}

	v := g.Check("DangerousTool")
	if v == nil || !v.IsDeny() {
		t.Fatalf("Check = %+v, want deny", v)
	}
}

func TestToolGateLists(t *testing.T) {
	g, _ := NewToolGate(&config.Tools{
		Deny:  []string{"Forbidden"},
		Ask:   []string{"Web*"},
		Allow: []string{"Read"},
	})

	tests := []struct {
		tool string
		want Decision
		none bool
	}{
		{tool: "Forbidden", want: DecisionDeny},
		{tool: "WebFetch", want: DecisionAsk},
		{tool: "WebSearch", want: DecisionAsk},
		{tool: "Read", want: DecisionAllow},
		{tool: "Bash", none: true},
		{tool: "", none: true},
	}

	for _, tt := range tests {
		v := g.Check(tt.tool)
		if tt.none {
			if v != nil {
				t.Errorf("Check(%q) = %+v, want no opinion", tt.tool, v)
			}
			continue
		}
		if v == nil {
			t.Errorf("Check(%q) = nil, want %s", tt.tool, tt.want)
			continue
		}
		if v.Decision != tt.want {
			t.Errorf("Check(%q) = %s, want %s", tt.tool, v.Decision, tt.want)
		}
	}
}

func TestToolGateMCPServers(t *testing.T) {
	g, _ := NewToolGate(&config.Tools{
		Deny: []string{"mcp__fallback__*"},
		MCP: config.MCP{
			DenyServers:  []string{"evil*"},
			AskServers:   []string{"staging"},
			AllowServers: []string{"context7"},
		},
	})

	tests := []struct {
		name string
		tool string
		want Decision
		none bool
	}{
		{name: "server deny", tool: "mcp__evilserver__tool", want: DecisionDeny},
		{name: "server ask", tool: "mcp__staging__deploy", want: DecisionAsk},
		{name: "server allow", tool: "mcp__context7__query", want: DecisionAllow},
		{name: "generic fallback", tool: "mcp__fallback__op", want: DecisionDeny},
		{name: "unlisted server", tool: "mcp__other__op", none: true},
		{name: "non-mcp name", tool: "evilserver", none: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Check(tt.tool)
			if tt.none {
				if v != nil {
					t.Errorf("Check(%q) = %+v, want no opinion", tt.tool, v)
				}
				return
			}
			if v == nil {
				t.Fatalf("Check(%q) = nil, want %s", tt.tool, tt.want)
			}
			if v.Decision != tt.want {
				t.Errorf("Check(%q) = %s, want %s", tt.tool, v.Decision, tt.want)
			}
		})
	}
}

func TestToolGateInvalidGlob(t *testing.T) {
	g, errs := NewToolGate(&config.Tools{
		Deny: []string{"[bad", "Forbidden"},
	})
	if len(errs) != 1 {
		t.Fatalf("got %d pattern errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Section != "tools.deny" {
		t.Errorf("error section = %q, want tools.deny", errs[0].Section)
	}
	if v := g.Check("Forbidden"); v == nil || !v.IsDeny() {
		t.Error("valid pattern dropped along with the invalid one")
	}
}

func TestMCPServer(t *testing.T) {
	tests := []struct {
		tool   string
		server string
		ok     bool
	}{
		{"mcp__context7__query", "context7", true},
		{"mcp__server__multi__part", "server", true},
		{"mcp__bare", "bare", true},
		{"Bash", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		server, ok := mcpServer(tt.tool)
		if server != tt.server || ok != tt.ok {
			t.Errorf("mcpServer(%q) = (%q, %v), want (%q, %v)", tt.tool, server, ok, tt.server, tt.ok)
		}
	}
}
