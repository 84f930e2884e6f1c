package policy

import (
	"regexp"
	"strings"

	"github.com/warden-dev/warden/internal/config"
	"mvdan.cc/sh/v3/syntax"
)

// CommandMatch records which block pattern fired and the exact substring of
// the command it matched.
type CommandMatch struct {
	Pattern string
	Matched string
}

// CommandScanner detects destructive shell commands with configured regex
// patterns. Allow patterns are a global override: if any allow pattern
// matches anywhere in the command, the command passes regardless of blocks.
type CommandScanner struct {
	enabled       bool
	blockPatterns []compiledPattern
	allowPatterns []*regexp.Regexp
}

type compiledPattern struct {
	source string
	re     *regexp.Regexp
}

// NewCommandScanner compiles the configured patterns. Invalid regexes are
// reported and dropped; the scanner activates with the valid remainder.
func NewCommandScanner(cfg *config.Commands) (*CommandScanner, []PatternError) {
	var errs []PatternError
	s := &CommandScanner{enabled: cfg.Enabled}

	for i, p := range cfg.BlockPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			errs = append(errs, PatternError{Section: "policy.commands.block_patterns", Index: i, Pattern: p, Err: err})
			continue
		}
		s.blockPatterns = append(s.blockPatterns, compiledPattern{source: p, re: re})
	}

	for i, p := range cfg.AllowPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			errs = append(errs, PatternError{Section: "policy.commands.allow_patterns", Index: i, Pattern: p, Err: err})
			continue
		}
		s.allowPatterns = append(s.allowPatterns, re)
	}

	return s, errs
}

// Check returns the first block-pattern match for the command, or nil when
// the command is permitted. Matching is lexical over the raw command text;
// no shell semantics are evaluated. As a second pass, the command is parsed
// as a shell chain and each printer-normalized segment is re-checked, so
// spacing or chaining tricks do not slip past patterns written against a
// canonical form.
func (s *CommandScanner) Check(command string) *CommandMatch {
	if !s.enabled {
		return nil
	}

	for _, allow := range s.allowPatterns {
		if allow.MatchString(command) {
			return nil
		}
	}

	if m := s.firstBlockMatch(command); m != nil {
		return m
	}

	for _, segment := range commandSegments(command) {
		if m := s.firstBlockMatch(segment); m != nil {
			return m
		}
	}

	return nil
}

func (s *CommandScanner) firstBlockMatch(text string) *CommandMatch {
	for _, p := range s.blockPatterns {
		if loc := p.re.FindStringIndex(text); loc != nil {
			return &CommandMatch{Pattern: p.source, Matched: text[loc[0]:loc[1]]}
		}
	}
	return nil
}

// commandSegments splits a command chain into its simple commands, printed
// in canonical form. A parse failure yields no segments; the raw-text pass
// has already run by then.
func commandSegments(command string) []string {
	if strings.TrimSpace(command) == "" {
		return nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return nil
	}

	printer := syntax.NewPrinter()
	var segments []string
	syntax.Walk(prog, func(node syntax.Node) bool {
		call, ok := node.(*syntax.CallExpr)
		if !ok {
			return true
		}
		var buf strings.Builder
		if err := printer.Print(&buf, call); err != nil {
			return true
		}
		if seg := strings.TrimSpace(buf.String()); seg != "" {
			segments = append(segments, seg)
		}
		return true
	})
	return segments
}
