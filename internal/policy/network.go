package policy

import (
	"regexp"
	"strings"

	"github.com/warden-dev/warden/internal/config"
)

// NetworkMatch records a URL whose domain is on the blocklist.
type NetworkMatch struct {
	Domain string
	URL    string
}

// urlPattern extracts URL-shaped candidates from arbitrary text. It is
// intentionally permissive; each candidate still goes through the domain
// blocklist before it counts as a match.
var urlPattern = regexp.MustCompile(`(?i)https?://([a-z0-9][-a-z0-9]*\.)+[a-z]{2,}(?:[:/][^\s"'<>]*)?`)

// NetworkGuard detects network access to domains associated with data
// exfiltration (paste sites, tunnel services, webhook catchers).
type NetworkGuard struct {
	enabled bool
	blocked map[string]struct{}
}

// NewNetworkGuard builds a guard from configuration. Domains are plain
// strings, so there is nothing to fail compiling.
func NewNetworkGuard(cfg *config.Network) *NetworkGuard {
	blocked := make(map[string]struct{}, len(cfg.BlockDomains))
	for _, d := range cfg.BlockDomains {
		blocked[strings.ToLower(d)] = struct{}{}
	}
	return &NetworkGuard{enabled: cfg.Enabled, blocked: blocked}
}

// CheckURL reports whether the URL's domain, or a registrable parent of it,
// is blocked.
func (g *NetworkGuard) CheckURL(url string) *NetworkMatch {
	if !g.enabled {
		return nil
	}

	domain := extractDomain(url)
	if domain == "" {
		return nil
	}

	if g.domainBlocked(domain) {
		return &NetworkMatch{Domain: domain, URL: url}
	}
	return nil
}

// CheckText scans arbitrary text (typically shell commands) for URLs to
// blocked domains. All matches are returned in order of appearance.
func (g *NetworkGuard) CheckText(text string) []NetworkMatch {
	if !g.enabled {
		return nil
	}

	var matches []NetworkMatch
	for _, url := range urlPattern.FindAllString(text, -1) {
		if m := g.CheckURL(url); m != nil {
			matches = append(matches, *m)
		}
	}
	return matches
}

// domainBlocked checks the exact domain and every parent suffix that still
// has at least two labels ("a.b.pastebin.com" checks "b.pastebin.com" and
// "pastebin.com", never the bare TLD).
func (g *NetworkGuard) domainBlocked(domain string) bool {
	domain = strings.ToLower(domain)
	if _, ok := g.blocked[domain]; ok {
		return true
	}

	labels := strings.Split(domain, ".")
	for i := 1; i+1 < len(labels); i++ {
		if _, ok := g.blocked[strings.Join(labels[i:], ".")]; ok {
			return true
		}
	}
	return false
}

// extractDomain pulls the host out of a URL-shaped string: scheme stripped,
// authority up to the first "/", credentials before the last "@" dropped,
// trailing ":port" removed. Returns "" when no host remains.
func extractDomain(url string) string {
	rest := strings.ToLower(url)
	if s, ok := strings.CutPrefix(rest, "https://"); ok {
		rest = s
	} else if s, ok := strings.CutPrefix(rest, "http://"); ok {
		rest = s
	}

	authority, _, _ := strings.Cut(rest, "/")

	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		authority = authority[i+1:]
	}

	domain, _, _ := strings.Cut(authority, ":")
	return strings.ToLower(domain)
}
