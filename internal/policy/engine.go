package policy

import (
	"fmt"
	"time"

	"github.com/warden-dev/warden/internal/config"
	"github.com/warden-dev/warden/internal/logger"
)

// PatternError describes a single pattern that failed to compile, located
// by the config section it came from and its index within that list.
type PatternError struct {
	Section string
	Index   int
	Pattern string
	Err     error
}

func (e PatternError) Error() string {
	return fmt.Sprintf("%s[%d]: invalid pattern %q: %v", e.Section, e.Index, e.Pattern, e.Err)
}

// Policy is a compiled, ready-to-evaluate rule set. Compile it once at
// startup and reuse it for every invocation; evaluation allocates little
// and holds no locks.
type Policy struct {
	mode       string
	failClosed bool

	Gate     *ToolGate
	Secrets  *SecretScanner
	Commands *CommandScanner
	Paths    *PathGuard
	Network  *NetworkGuard
}

// Compile turns configuration into an evaluable Policy. Invalid patterns
// are reported rather than silently dropped; the returned Policy is still
// usable and enforces every pattern that did compile.
func Compile(cfg *config.Config) (*Policy, []PatternError) {
	var errs []PatternError

	gate, gateErrs := NewToolGate(&cfg.Tools)
	errs = append(errs, gateErrs...)

	commands, cmdErrs := NewCommandScanner(&cfg.Policy.Commands)
	errs = append(errs, cmdErrs...)

	paths, pathErrs := NewPathGuard(&cfg.Policy.ProtectedPaths)
	errs = append(errs, pathErrs...)

	p := &Policy{
		mode:       cfg.Policy.Mode,
		failClosed: cfg.Policy.FailClosed,
		Gate:       gate,
		Secrets:    NewSecretScanner(&cfg.Policy.Secrets),
		Commands:   commands,
		Paths:      paths,
		Network:    NewNetworkGuard(&cfg.Policy.Network),
	}
	return p, errs
}

// Mode reports the configured enforcement mode.
func (p *Policy) Mode() string { return p.mode }

// FailClosed reports whether internal faults deny rather than allow.
func (p *Policy) FailClosed() bool { return p.failClosed }

// Inspect evaluates one tool invocation and returns a verdict plus the
// evaluation latency in microseconds. It never panics: faults inside the
// rule pipeline are caught at this boundary and resolved according to
// fail_closed.
func (p *Policy) Inspect(inv Invocation) (Verdict, int64) {
	start := time.Now()
	v, fault := p.guarded(inv)

	// Monitor mode reports policy denies instead of enforcing them.
	// Internal-fault denies are not policy outcomes and stay as-is.
	if p.mode == config.ModeMonitor && v.IsDeny() && !fault {
		logger.Warn("monitor mode: would deny", "tool", inv.Tool, "reason", v.Reason)
		v = Allow()
	}

	return v, time.Since(start).Microseconds()
}

func (p *Policy) guarded(inv Invocation) (v Verdict, fault bool) {
	defer func() {
		if r := recover(); r != nil {
			fault = true
			logger.Error("policy evaluation panic", "tool", inv.Tool, "panic", fmt.Sprintf("%v", r), "fail_closed", p.failClosed)
			if p.failClosed {
				v = DenyFor(InternalError(fmt.Sprintf("%v", r)))
				return
			}
			v = Allow()
		}
	}()
	return p.run(inv), false
}

func (p *Policy) run(inv Invocation) Verdict {
	if v := p.Gate.Check(inv.Tool); v != nil {
		return *v
	}

	call := inv.Parse()

	for _, check := range []func(*Call) *Verdict{
		p.checkSecrets,
		p.checkCommands,
		p.checkPaths,
		p.checkNetwork,
	} {
		if v := check(&call); v != nil {
			return *v
		}
	}
	return Allow()
}

func (p *Policy) checkSecrets(c *Call) *Verdict {
	for _, text := range c.ScannableTexts() {
		if matches := p.Secrets.Scan(text); len(matches) > 0 {
			m := matches[0]
			v := DenyFor(SecretDetected(m.SecretType, m.Redacted))
			return &v
		}
	}
	return nil
}

func (p *Policy) checkCommands(c *Call) *Verdict {
	if c.Kind != KindBash || c.Command == "" {
		return nil
	}
	if m := p.Commands.Check(c.Command); m != nil {
		v := DenyFor(DangerousCommand(m.Pattern, m.Matched))
		return &v
	}
	return nil
}

func (p *Policy) checkPaths(c *Call) *Verdict {
	for _, path := range c.FilePaths() {
		if m := p.Paths.Check(path); m != nil {
			v := DenyFor(ProtectedPath(m.Path, m.Pattern))
			return &v
		}
	}
	return nil
}

func (p *Policy) checkNetwork(c *Call) *Verdict {
	switch c.Kind {
	case KindWebFetch:
		if c.URL != "" {
			if m := p.Network.CheckURL(c.URL); m != nil {
				v := DenyFor(NetworkExfiltration(m.Domain))
				return &v
			}
		}
	case KindBash:
		if matches := p.Network.CheckText(c.Command); len(matches) > 0 {
			v := DenyFor(NetworkExfiltration(matches[0].Domain))
			return &v
		}
	}
	return nil
}
