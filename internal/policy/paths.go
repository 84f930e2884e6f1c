package policy

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/warden-dev/warden/internal/config"
)

// PathMatch records which blocked glob a file path matched.
type PathMatch struct {
	Path    string
	Pattern string
}

// PathGuard blocks access to sensitive file paths using glob patterns.
//
// Each pattern is tried two ways: a direct glob match against the
// normalized path (and, independently, the original path), and a fallback
// match of the path's filename against the pattern's trailing segment. The
// fallback lets "**/.env" catch ".env" and "a/b/c/.env" alike; it is
// skipped when the trailing segment is a bare wildcard, which would match
// every file.
type PathGuard struct {
	enabled  bool
	patterns []string
}

// NewPathGuard compiles the blocked-path globs. Invalid globs are reported
// and dropped; the guard activates with the valid remainder.
func NewPathGuard(cfg *config.ProtectedPaths) (*PathGuard, []PatternError) {
	var errs []PatternError
	return &PathGuard{
		enabled:  cfg.Enabled,
		patterns: validGlobs(cfg.Blocked, "policy.protected_paths.blocked", &errs),
	}, errs
}

// Check returns the first pattern the path matches, or nil.
func (g *PathGuard) Check(filePath string) *PathMatch {
	if !g.enabled || filePath == "" {
		return nil
	}

	normalized := normalizePath(filePath)

	for _, pattern := range g.patterns {
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return &PathMatch{Path: filePath, Pattern: pattern}
		}
		if matched, err := doublestar.Match(pattern, filePath); err == nil && matched {
			return &PathMatch{Path: filePath, Pattern: pattern}
		}

		// Filename fallback against the pattern's trailing segment.
		trailing := pattern
		if i := strings.LastIndexByte(pattern, '/'); i >= 0 {
			trailing = pattern[i+1:]
		}
		if trailing == "**" || trailing == "*" {
			continue
		}
		filename := path.Base(normalized)
		if matched, err := doublestar.Match(trailing, filename); err == nil && matched {
			return &PathMatch{Path: filePath, Pattern: pattern}
		}
	}

	return nil
}

// normalizePath strips a leading "./", collapses repeated separators, and
// maps backslashes to forward slashes.
func normalizePath(p string) string {
	p = strings.TrimPrefix(p, "./")

	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for _, c := range p {
		if c == '/' || c == '\\' {
			if !prevSlash {
				b.WriteByte('/')
			}
			prevSlash = true
			continue
		}
		b.WriteRune(c)
		prevSlash = false
	}
	return b.String()
}
