// Package policy implements the inline policy engine that inspects a single
// tool invocation and produces an allow, ask, or deny verdict.
//
// A Policy is compiled once from configuration and is safe for concurrent
// use; Inspect is a pure, synchronous function over it. Evaluation order is
// tool gate, then secrets, commands, paths, and network detectors, stopping
// at the first opinion. The whole pipeline runs inside a recover boundary so
// a verdict is always produced.
package policy

// Decision is the tri-state outcome of inspecting one invocation.
// The values match Claude Code's permission decisions.
type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
	DecisionAsk   Decision = "ask"
)

// Verdict is the sole externally observable result of the engine,
// paired with a latency measurement by Inspect.
type Verdict struct {
	Decision Decision `json:"decision"`
	// Reason is the human-readable justification (deny and ask only).
	Reason string `json:"reason,omitempty"`
	// Context is an optional remediation hint (deny only).
	Context string `json:"context,omitempty"`
}

// Allow returns an allow verdict.
func Allow() Verdict {
	return Verdict{Decision: DecisionAllow}
}

// Deny returns a deny verdict with a reason.
func Deny(reason string) Verdict {
	return Verdict{Decision: DecisionDeny, Reason: reason}
}

// DenyWithContext returns a deny verdict with a reason and a hint.
func DenyWithContext(reason, context string) Verdict {
	return Verdict{Decision: DecisionDeny, Reason: reason, Context: context}
}

// DenyFor returns a deny verdict derived from a structured block reason.
func DenyFor(r BlockReason) Verdict {
	return Verdict{Decision: DecisionDeny, Reason: r.String(), Context: r.ContextHint()}
}

// Ask returns a verdict that requests user confirmation.
func Ask(reason string) Verdict {
	return Verdict{Decision: DecisionAsk, Reason: reason}
}

// IsAllow reports whether the verdict allows the action.
func (v Verdict) IsAllow() bool { return v.Decision == DecisionAllow }

// IsDeny reports whether the verdict blocks the action.
func (v Verdict) IsDeny() bool { return v.Decision == DecisionDeny }

// IsAsk reports whether the verdict requests confirmation.
func (v Verdict) IsAsk() bool { return v.Decision == DecisionAsk }
