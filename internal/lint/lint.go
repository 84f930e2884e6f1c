// Package lint checks a warden configuration file for problems without
// enforcing anything: TOML syntax errors, unknown keys, out-of-range
// values, and rule patterns that fail to compile.
package lint

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/warden-dev/warden/internal/config"
	"github.com/warden-dev/warden/internal/policy"
)

// Severity classifies an issue. Errors make the config unusable or drop
// rules; warnings are suspicious but harmless.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding, located by config key where possible.
type Issue struct {
	Severity Severity `json:"severity"`
	Location string   `json:"location,omitempty"`
	Message  string   `json:"message"`
}

// Result is the outcome of linting one config file.
type Result struct {
	Path   string  `json:"path"`
	Issues []Issue `json:"issues"`
}

// Errors reports how many issues are errors.
func (r *Result) Errors() int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings reports how many issues are warnings.
func (r *Result) Warnings() int {
	return len(r.Issues) - r.Errors()
}

// Run lints the config file at path. A non-nil error means the file could
// not be read at all; lint findings are reported through the Result.
func Run(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	result := &Result{Path: path}

	cfg := config.Default()
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Message:  fmt.Sprintf("invalid TOML: %v", err),
		})
		return result, nil
	}

	for _, key := range meta.Undecoded() {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityWarning,
			Location: key.String(),
			Message:  "unknown key",
		})
	}

	if cfg.Policy.Mode != config.ModeStrict && cfg.Policy.Mode != config.ModeMonitor {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Location: "policy.mode",
			Message: fmt.Sprintf("invalid mode %q (want %q or %q)",
				cfg.Policy.Mode, config.ModeStrict, config.ModeMonitor),
		})
	}

	if cfg.Policy.Secrets.EntropyThreshold < 0 {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Location: "policy.secrets.entropy_threshold",
			Message:  fmt.Sprintf("must be non-negative, got %v", cfg.Policy.Secrets.EntropyThreshold),
		})
	}

	_, patternErrs := policy.Compile(cfg)
	for _, pe := range patternErrs {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Location: fmt.Sprintf("%s[%d]", pe.Section, pe.Index),
			Message:  fmt.Sprintf("invalid pattern %q: %v", pe.Pattern, pe.Err),
		})
	}

	return result, nil
}

// Render formats the result for humans.
func (r *Result) Render() string {
	var b strings.Builder
	if len(r.Issues) == 0 {
		fmt.Fprintf(&b, "%s: no issues found\n", r.Path)
		return b.String()
	}
	for _, i := range r.Issues {
		if i.Location != "" {
			fmt.Fprintf(&b, "%s: %s: %s: %s\n", r.Path, i.Severity, i.Location, i.Message)
		} else {
			fmt.Fprintf(&b, "%s: %s: %s\n", r.Path, i.Severity, i.Message)
		}
	}
	fmt.Fprintf(&b, "%d error(s), %d warning(s)\n", r.Errors(), r.Warnings())
	return b.String()
}

// RenderJSON formats the result as JSON.
func (r *Result) RenderJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
