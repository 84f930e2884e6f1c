package policy

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/warden-dev/warden/internal/config"
)

// mcpPrefix marks plugin-qualified tool names: mcp__<server>__<operation>.
const mcpPrefix = "mcp__"

// ToolGate decides from the tool name alone whether to short-circuit the
// pipeline. Precedence is deny > ask > allow; no match means no opinion and
// inspection continues to the parameter detectors. The gate never denies by
// omission.
type ToolGate struct {
	deny  []string
	ask   []string
	allow []string

	serverDeny  []string
	serverAsk   []string
	serverAllow []string
}

// NewToolGate compiles the tool permission patterns. Invalid globs are
// reported and dropped; the gate activates with the valid remainder.
func NewToolGate(cfg *config.Tools) (*ToolGate, []PatternError) {
	var errs []PatternError
	g := &ToolGate{
		deny:        validGlobs(cfg.Deny, "tools.deny", &errs),
		ask:         validGlobs(cfg.Ask, "tools.ask", &errs),
		allow:       validGlobs(cfg.Allow, "tools.allow", &errs),
		serverDeny:  validGlobs(cfg.MCP.DenyServers, "tools.mcp.deny_servers", &errs),
		serverAsk:   validGlobs(cfg.MCP.AskServers, "tools.mcp.ask_servers", &errs),
		serverAllow: validGlobs(cfg.MCP.AllowServers, "tools.mcp.allow_servers", &errs),
	}
	return g, errs
}

// Check evaluates a tool name against the permission patterns.
// A nil result means no opinion.
func (g *ToolGate) Check(tool string) *Verdict {
	if server, ok := mcpServer(tool); ok {
		if v := g.checkServer(server); v != nil {
			return v
		}
	}
	return g.checkGeneric(tool)
}

func (g *ToolGate) checkServer(server string) *Verdict {
	if globMatch(g.serverDeny, server) {
		v := Deny(fmt.Sprintf("MCP server '%s' is blocked by policy", server))
		return &v
	}
	if globMatch(g.serverAsk, server) {
		v := Ask(fmt.Sprintf("MCP server '%s' requires confirmation", server))
		return &v
	}
	if globMatch(g.serverAllow, server) {
		v := Allow()
		return &v
	}
	return nil
}

func (g *ToolGate) checkGeneric(tool string) *Verdict {
	if globMatch(g.deny, tool) {
		v := Deny(fmt.Sprintf("Tool '%s' is blocked by policy", tool))
		return &v
	}
	if globMatch(g.ask, tool) {
		v := Ask(fmt.Sprintf("Tool '%s' requires confirmation", tool))
		return &v
	}
	if globMatch(g.allow, tool) {
		v := Allow()
		return &v
	}
	return nil
}

// mcpServer extracts the server identifier from a plugin-qualified name.
// "mcp__context7__query" -> ("context7", true)
func mcpServer(tool string) (string, bool) {
	rest, ok := strings.CutPrefix(tool, mcpPrefix)
	if !ok {
		return "", false
	}
	server, _, _ := strings.Cut(rest, "__")
	return server, true
}

// validGlobs keeps the patterns that compile, recording the rest.
func validGlobs(patterns []string, section string, errs *[]PatternError) []string {
	var valid []string
	for i, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			*errs = append(*errs, PatternError{
				Section: section,
				Index:   i,
				Pattern: p,
				Err:     doublestar.ErrBadPattern,
			})
			continue
		}
		valid = append(valid, p)
	}
	return valid
}

func globMatch(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
