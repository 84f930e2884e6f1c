// Package testutil provides shared test utilities for warden tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/warden-dev/warden/internal/config"
	"github.com/warden-dev/warden/internal/constants"
)

// SetupTestConfig creates a temporary config directory with test configuration.
// Returns a cleanup function that should be deferred.
func SetupTestConfig(t *testing.T, configContent string) func() {
	t.Helper()

	tmpDir := t.TempDir()
	os.Setenv(constants.EnvConfigDir, tmpDir)

	if configContent != "" {
		configPath := filepath.Join(tmpDir, constants.ConfigFileName)
		if err := os.WriteFile(configPath, []byte(configContent), constants.FileMode); err != nil {
			t.Fatal(err)
		}
	}

	config.Reset()
	config.Init()

	return func() {
		os.Unsetenv(constants.EnvConfigDir)
		config.Reset()
	}
}

// MinimalTestConfig locks the policy to a small, predictable rule set.
const MinimalTestConfig = `
[policy]
mode = "strict"
fail_closed = true

[policy.commands]
enabled = true
block_patterns = ['rm\s+-rf\s+[/~]']

[policy.protected_paths]
enabled = true
blocked = ["**/.env"]

[policy.network]
enabled = true
block_domains = ["pastebin.com"]
`
