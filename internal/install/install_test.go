package install

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func readSettingsFile(t *testing.T, home string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(home, ".claude", "settings.json"))
	if err != nil {
		t.Fatal(err)
	}
	settings := map[string]any{}
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("settings not valid JSON: %v", err)
	}
	return settings
}

func TestInstallCreatesSettings(t *testing.T) {
	home := setupHome(t)

	if err := Install("/usr/local/bin/warden"); err != nil {
		t.Fatal(err)
	}

	settings := readSettingsFile(t, home)
	hooks, _ := settings["hooks"].(map[string]any)
	entries, _ := hooks["PreToolUse"].([]any)
	if len(entries) != 1 {
		t.Fatalf("got %d PreToolUse entries, want 1", len(entries))
	}
	if !entryInvokesWarden(entries[0]) {
		t.Errorf("entry does not invoke warden: %+v", entries[0])
	}

	installed, err := IsInstalled()
	if err != nil {
		t.Fatal(err)
	}
	if !installed {
		t.Error("IsInstalled = false after install")
	}
}

func TestInstallIsIdempotent(t *testing.T) {
	home := setupHome(t)

	if err := Install("/usr/local/bin/warden"); err != nil {
		t.Fatal(err)
	}
	if err := Install("/usr/local/bin/warden"); err != nil {
		t.Fatal(err)
	}

	settings := readSettingsFile(t, home)
	hooks, _ := settings["hooks"].(map[string]any)
	entries, _ := hooks["PreToolUse"].([]any)
	if len(entries) != 1 {
		t.Errorf("got %d entries after double install, want 1", len(entries))
	}
}

func TestInstallPreservesExistingSettings(t *testing.T) {
	home := setupHome(t)
	settingsDir := filepath.Join(home, ".claude")
	if err := os.MkdirAll(settingsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	existing := `{
		"model": "opus",
		"hooks": {
			"PreToolUse": [
				{"matcher": "Bash", "hooks": [{"type": "command", "command": "other-hook"}]}
			]
		}
	}`
	if err := os.WriteFile(filepath.Join(settingsDir, "settings.json"), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Install("/usr/local/bin/warden"); err != nil {
		t.Fatal(err)
	}

	settings := readSettingsFile(t, home)
	if settings["model"] != "opus" {
		t.Error("unrelated settings key lost")
	}
	hooks, _ := settings["hooks"].(map[string]any)
	entries, _ := hooks["PreToolUse"].([]any)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (existing + warden)", len(entries))
	}
}

func TestUninstall(t *testing.T) {
	home := setupHome(t)

	if err := Install("/usr/local/bin/warden"); err != nil {
		t.Fatal(err)
	}
	if err := Uninstall(); err != nil {
		t.Fatal(err)
	}

	installed, err := IsInstalled()
	if err != nil {
		t.Fatal(err)
	}
	if installed {
		t.Error("IsInstalled = true after uninstall")
	}

	// Empty hook containers are pruned entirely.
	settings := readSettingsFile(t, home)
	if _, ok := settings["hooks"]; ok {
		t.Errorf("empty hooks block left behind: %+v", settings["hooks"])
	}
}

func TestUninstallKeepsOtherHooks(t *testing.T) {
	home := setupHome(t)
	settingsDir := filepath.Join(home, ".claude")
	if err := os.MkdirAll(settingsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	existing := `{
		"hooks": {
			"PreToolUse": [
				{"matcher": "Bash", "hooks": [{"type": "command", "command": "other-hook"}]},
				{"matcher": "*", "hooks": [{"type": "command", "command": "/usr/local/bin/warden"}]}
			]
		}
	}`
	if err := os.WriteFile(filepath.Join(settingsDir, "settings.json"), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Uninstall(); err != nil {
		t.Fatal(err)
	}

	settings := readSettingsFile(t, home)
	hooks, _ := settings["hooks"].(map[string]any)
	entries, _ := hooks["PreToolUse"].([]any)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want the non-warden hook to survive", len(entries))
	}
	if entryInvokesWarden(entries[0]) {
		t.Error("wrong entry removed")
	}
}

func TestUninstallWithoutInstallIsNoOp(t *testing.T) {
	setupHome(t)
	if err := Uninstall(); err != nil {
		t.Errorf("Uninstall on clean home: %v", err)
	}
}
