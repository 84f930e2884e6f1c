// Package audit provides audit logging for warden policy decisions.
package audit

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/warden-dev/warden/internal/constants"
	"github.com/warden-dev/warden/internal/logger"
)

// TimestampFormat is the format used for audit log timestamps.
const TimestampFormat = "2006-01-02T15:04:05.0Z07:00"

// maxLogSize is the size at which the audit log rotates, in bytes.
const maxLogSize = 8 << 20

// Entry represents a single audit log entry (v1 format).
type Entry struct {
	Version     int    `json:"version"`
	ToolUseID   string `json:"tool_use_id"`
	SessionID   string `json:"session_id"`
	Timestamp   string `json:"timestamp"`
	LatencyUS   int64  `json:"latency_us"`
	Tool        string `json:"tool"`
	Decision    string `json:"decision"`
	Reason      string `json:"reason,omitempty"`
	Cwd         string `json:"cwd"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	ConfigPath  string `json:"config_path"`
	ConfigError string `json:"config_error,omitempty"`
}

var (
	auditFile *os.File
	auditPath string
	mu        sync.Mutex
	enabled   bool
)

// DefaultLogPath returns the default audit log path (~/.local/share/warden/audit.log)
func DefaultLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, constants.XDGDataSubdir, constants.AppName, constants.AuditLogFileName), nil
}

// Init initializes the audit log. If path is empty, uses the default path.
// Pass disable=true to turn audit logging off.
func Init(path string, disable bool) error {
	mu.Lock()
	defer mu.Unlock()

	if disable {
		enabled = false
		return nil
	}

	if path == "" {
		var err error
		path, err = DefaultLogPath()
		if err != nil {
			logger.Debug("failed to get default audit log path", "error", err)
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirMode); err != nil {
		logger.Debug("failed to create audit log directory", "error", err)
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		logger.Debug("failed to open audit log file", "error", err)
		return err
	}

	auditFile = f
	auditPath = path
	enabled = true
	logger.Debug("audit logging initialized", "path", path)
	return nil
}

// Close closes the audit log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if auditFile != nil {
		err := auditFile.Close()
		auditFile = nil
		enabled = false
		return err
	}
	return nil
}

// Log writes an entry to the audit log.
// If audit logging is not initialized or disabled, this is a no-op.
func Log(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || auditFile == nil {
		return nil
	}

	// Timestamp with tenths-of-second precision.
	entry.Timestamp = time.Now().UTC().Format(TimestampFormat)

	data, err := json.Marshal(entry)
	if err != nil {
		logger.Debug("failed to marshal audit entry", "error", err)
		return err
	}

	if err := rotateIfNeeded(); err != nil {
		logger.Debug("audit log rotation failed", "error", err)
	}

	if _, err := auditFile.Write(append(data, '\n')); err != nil {
		logger.Debug("failed to write audit entry", "error", err)
		return err
	}

	return nil
}

// rotateIfNeeded compresses the current log into audit.log.1.gz and starts
// a fresh file once the current one exceeds maxLogSize. The previous
// rotated archive, if any, is replaced. Callers hold mu.
func rotateIfNeeded() error {
	info, err := auditFile.Stat()
	if err != nil {
		return err
	}
	if info.Size() < maxLogSize {
		return nil
	}

	if err := auditFile.Close(); err != nil {
		return err
	}
	auditFile = nil

	if err := compressLog(auditPath, auditPath+".1.gz"); err != nil {
		// Fall back to reopening the oversized log so entries keep flowing.
		f, openErr := os.OpenFile(auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
		if openErr != nil {
			enabled = false
			return openErr
		}
		auditFile = f
		return err
	}

	if err := os.Remove(auditPath); err != nil {
		return err
	}

	f, err := os.OpenFile(auditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, constants.FileMode)
	if err != nil {
		enabled = false
		return err
	}
	auditFile = f
	return nil
}

func compressLog(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// IsEnabled returns whether audit logging is enabled.
func IsEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Reset resets the audit state. Used for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if auditFile != nil {
		auditFile.Close()
	}
	auditFile = nil
	auditPath = ""
	enabled = false
}
