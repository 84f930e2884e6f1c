// Package install registers warden as a PreToolUse hook in the user's
// Claude Code settings, and removes it again.
package install

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warden-dev/warden/internal/constants"
)

// SettingsPath returns the Claude Code user settings file path
// (~/.claude/settings.json).
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, constants.ClaudeConfigDir, constants.ClaudeSettingsFile), nil
}

// Install adds a PreToolUse hook entry invoking binPath to the settings
// file, creating the file if needed. Installing twice is a no-op.
func Install(binPath string) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}

	settings, err := readSettings(path)
	if err != nil {
		return err
	}

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}

	entries, _ := hooks[constants.HookEventPreToolUse].([]any)
	if findHookEntry(entries) >= 0 {
		return nil
	}

	entries = append(entries, map[string]any{
		"matcher": "*",
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": binPath,
			},
		},
	})
	hooks[constants.HookEventPreToolUse] = entries

	return writeSettings(path, settings)
}

// Uninstall removes warden's PreToolUse hook entries from the settings
// file. A missing file or entry is not an error.
func Uninstall() error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}

	settings, err := readSettings(path)
	if err != nil {
		return err
	}

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		return nil
	}

	entries, _ := hooks[constants.HookEventPreToolUse].([]any)
	var kept []any
	for _, e := range entries {
		if !entryInvokesWarden(e) {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}

	if len(kept) == 0 {
		delete(hooks, constants.HookEventPreToolUse)
	} else {
		hooks[constants.HookEventPreToolUse] = kept
	}
	if len(hooks) == 0 {
		delete(settings, "hooks")
	}

	return writeSettings(path, settings)
}

// IsInstalled reports whether a warden hook entry exists in the settings.
func IsInstalled() (bool, error) {
	path, err := SettingsPath()
	if err != nil {
		return false, err
	}
	settings, err := readSettings(path)
	if err != nil {
		return false, err
	}
	hooks, _ := settings["hooks"].(map[string]any)
	entries, _ := hooks[constants.HookEventPreToolUse].([]any)
	return findHookEntry(entries) >= 0, nil
}

func findHookEntry(entries []any) int {
	for i, e := range entries {
		if entryInvokesWarden(e) {
			return i
		}
	}
	return -1
}

// entryInvokesWarden matches any hook command whose path mentions the
// warden binary, regardless of where it is installed.
func entryInvokesWarden(entry any) bool {
	m, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	inner, _ := m["hooks"].([]any)
	for _, h := range inner {
		hm, ok := h.(map[string]any)
		if !ok {
			continue
		}
		cmd, _ := hm["command"].(string)
		if strings.Contains(cmd, constants.AppName) {
			return true
		}
	}
	return false
}

func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	settings := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirMode); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), constants.FileMode)
}
