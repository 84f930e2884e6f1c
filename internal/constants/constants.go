// Package constants defines shared constants used across the warden codebase.
package constants

import "os"

// File permissions
const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Environment variables
const EnvConfigDir = "WARDEN_CONFIG"

// Application paths
const (
	AppName            = "warden"
	XDGConfigSubdir    = ".config"
	XDGDataSubdir      = ".local/share"
	ClaudeConfigDir    = ".claude"
	ClaudeSettingsFile = "settings.json"
	ConfigFileName     = "config.toml"
	AuditLogFileName   = "audit.log"
)

// Hook protocol
const (
	HookEventPreToolUse = "PreToolUse"
)
