// Package config handles configuration loading and parsing for warden.
//
// Configuration is TOML. Values are decoded over the compiled-in defaults,
// so a config file only needs the keys it wants to change. Loading never
// hard-fails: any problem falls back to the embedded defaults and the error
// is kept for the audit trail (see InitError).
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/warden-dev/warden/internal/constants"
	"github.com/warden-dev/warden/internal/logger"
)

//go:embed config.toml
var defaultConfig []byte

// Operating modes for the policy engine.
const (
	ModeStrict  = "strict"  // deny verdicts block the tool
	ModeMonitor = "monitor" // deny verdicts are logged and downgraded to allow
)

// Config is the root configuration structure.
type Config struct {
	Policy Policy `toml:"policy"`
	Tools  Tools  `toml:"tools"`
}

// Policy holds the detector configuration blocks.
type Policy struct {
	// Mode is "strict" or "monitor".
	Mode string `toml:"mode"`
	// FailClosed converts internal faults into deny verdicts (default true).
	FailClosed     bool           `toml:"fail_closed"`
	Secrets        Secrets        `toml:"secrets"`
	Commands       Commands       `toml:"commands"`
	ProtectedPaths ProtectedPaths `toml:"protected_paths"`
	Network        Network        `toml:"network"`
}

// Secrets configures the secret scanner.
type Secrets struct {
	Enabled bool `toml:"enabled"`
	// EntropyThreshold is reserved for a future generic high-entropy
	// detector; it is accepted and validated but not consumed yet.
	EntropyThreshold   float64 `toml:"entropy_threshold"`
	DetectAWSKeys      bool    `toml:"detect_aws_keys"`
	DetectGitHubTokens bool    `toml:"detect_github_tokens"`
	DetectOpenAIKeys   bool    `toml:"detect_openai_keys"`
	DetectPrivateKeys  bool    `toml:"detect_private_keys"`
}

// Commands configures the dangerous-command scanner.
type Commands struct {
	Enabled bool `toml:"enabled"`
	// BlockPatterns are regexes over the raw command text.
	BlockPatterns []string `toml:"block_patterns"`
	// AllowPatterns override blocks: any match permits the whole command.
	AllowPatterns []string `toml:"allow_patterns"`
}

// ProtectedPaths configures the sensitive-path guard.
type ProtectedPaths struct {
	Enabled bool `toml:"enabled"`
	// Blocked are glob patterns; ** matches any number of directories.
	Blocked []string `toml:"blocked"`
}

// Network configures the exfiltration-domain guard.
type Network struct {
	Enabled bool `toml:"enabled"`
	// BlockDomains match the exact domain and all of its subdomains.
	BlockDomains []string `toml:"block_domains"`
}

// Tools holds tool-name permission patterns, checked before any parameter
// inspection. Patterns are globs over the tool name (e.g. "mcp__*", "Bash").
type Tools struct {
	Allow []string `toml:"allow"`
	Deny  []string `toml:"deny"`
	Ask   []string `toml:"ask"`
	MCP   MCP      `toml:"mcp"`
}

// MCP holds server-level permission patterns for MCP tools
// (tool names of the form mcp__<server>__<operation>).
type MCP struct {
	AllowServers []string `toml:"allow_servers"`
	DenyServers  []string `toml:"deny_servers"`
	AskServers   []string `toml:"ask_servers"`
}

// Default returns the compiled-in default configuration.
func Default() *Config {
	return &Config{
		Policy: Policy{
			Mode:       ModeStrict,
			FailClosed: true,
			Secrets: Secrets{
				Enabled:            true,
				EntropyThreshold:   4.5,
				DetectAWSKeys:      true,
				DetectGitHubTokens: true,
				DetectOpenAIKeys:   true,
				DetectPrivateKeys:  true,
			},
			Commands: Commands{
				Enabled: true,
				BlockPatterns: []string{
					`rm\s+-rf\s+[/~]`,
					`>\s*/dev/sd[a-z]`,
					`mkfs\.`,
					`dd\s+if=.+of=/dev/`,
					`chmod\s+-R\s+777\s+/`,
					`:\(\)\s*\{\s*:\|:&\s*\}\s*;`, // fork bomb
				},
			},
			ProtectedPaths: ProtectedPaths{
				Enabled: true,
				Blocked: []string{
					"**/.env",
					"**/.env.*",
					"**/*.pem",
					"**/*.key",
					"**/id_rsa",
					"**/id_ed25519",
					"**/.ssh/**",
					"**/.aws/credentials",
					"**/.git/config",
				},
			},
			Network: Network{
				Enabled: true,
				BlockDomains: []string{
					"pastebin.com",
					"hastebin.com",
					"paste.ee",
					"ghostbin.com",
					"ngrok.io",
					"ngrok.app",
					"requestbin.com",
					"hookbin.com",
					"webhook.site",
				},
			},
		},
	}
}

var (
	globalConfig      *Config
	configInitialized bool
	configPath        string // explicit path from --config, if any
	loadedPath        string // path the active config actually came from
	initErr           error
)

// GetConfigDir returns the config directory path.
// Uses WARDEN_CONFIG env var if set, otherwise ~/.config/warden
func GetConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.XDGConfigSubdir, constants.AppName), nil
}

// SetPath overrides config file discovery with an explicit path.
// Must be called before Init.
func SetPath(path string) {
	configPath = path
}

// EnsureConfigFiles creates the config directory and writes the default
// config file if it doesn't exist.
func EnsureConfigFiles(configDir string) error {
	if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(configDir, constants.ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, defaultConfig, constants.FileMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", constants.ConfigFileName, err)
		}
	}

	return nil
}

// Load parses TOML data over the default configuration.
// Unknown keys are tolerated here; `warden validate` reports them.
func Load(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if cfg.Policy.Mode != ModeStrict && cfg.Policy.Mode != ModeMonitor {
		return nil, fmt.Errorf("invalid policy mode %q (want %q or %q)",
			cfg.Policy.Mode, ModeStrict, ModeMonitor)
	}
	return cfg, nil
}

// loadEmbeddedDefaults parses the embedded default config file.
func loadEmbeddedDefaults() *Config {
	cfg, err := Load(defaultConfig)
	if err != nil {
		// The embedded file ships with the binary; a parse failure here
		// is a build defect, but we still have the in-code defaults.
		logger.Error("embedded default config is invalid", "error", err)
		return Default()
	}
	return cfg
}

// Init loads configuration, creating the default file if necessary.
// If loading fails, it falls back to embedded defaults and remembers the
// error (see InitError).
func Init() error {
	if configInitialized {
		return initErr
	}
	configInitialized = true

	fail := func(err error) error {
		logger.Debug("config load failed, using embedded defaults", "error", err)
		globalConfig = loadEmbeddedDefaults()
		loadedPath = ""
		initErr = err
		return err
	}

	path := configPath
	if path == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return fail(err)
		}
		if err := EnsureConfigFiles(configDir); err != nil {
			return fail(err)
		}
		path = filepath.Join(configDir, constants.ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(fmt.Errorf("failed to read %s: %w", path, err))
	}

	cfg, err := Load(data)
	if err != nil {
		return fail(fmt.Errorf("failed to load %s: %w", path, err))
	}

	globalConfig = cfg
	loadedPath = path
	initErr = nil
	logger.Debug("config loaded",
		"path", path,
		"mode", cfg.Policy.Mode,
		"block_patterns", len(cfg.Policy.Commands.BlockPatterns),
		"blocked_paths", len(cfg.Policy.ProtectedPaths.Blocked),
		"blocked_domains", len(cfg.Policy.Network.BlockDomains))
	return nil
}

// Get returns the current configuration.
// If Init has not been called, it initializes first.
func Get() *Config {
	if !configInitialized {
		Init()
	}
	return globalConfig
}

// GetConfigPath returns the path the active config was loaded from,
// or "" when running on embedded defaults.
func GetConfigPath() string {
	return loadedPath
}

// InitError returns the error from the last Init, if any.
func InitError() error {
	return initErr
}

// Reset resets the configuration state. Used for testing.
func Reset() {
	configInitialized = false
	globalConfig = nil
	configPath = ""
	loadedPath = ""
	initErr = nil
}

// GetDefaultConfig returns the embedded default configuration file.
func GetDefaultConfig() []byte {
	return defaultConfig
}
