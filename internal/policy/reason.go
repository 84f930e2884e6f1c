package policy

import "fmt"

// Reason codes. Every deny produced by the detectors carries exactly one.
const (
	CodeSecretDetected      = "secret_detected"
	CodeDangerousCommand    = "dangerous_command"
	CodeProtectedPath       = "protected_path"
	CodeNetworkExfiltration = "network_exfiltration"
	CodeInternalError       = "internal_error"
)

// BlockReason is the structured justification for a deny verdict.
// The Code field tags which of the closed set of reasons this is; only the
// fields belonging to that code are populated. The type round-trips through
// JSON unchanged.
type BlockReason struct {
	Code string `json:"code"`

	// secret_detected
	SecretType string `json:"secret_type,omitempty"`
	Redacted   string `json:"redacted,omitempty"`

	// dangerous_command (Pattern, Matched) and protected_path (Pattern, Path)
	Pattern string `json:"pattern,omitempty"`
	Matched string `json:"matched,omitempty"`
	Path    string `json:"path,omitempty"`

	// network_exfiltration
	Domain string `json:"domain,omitempty"`

	// internal_error
	Message string `json:"message,omitempty"`
}

// SecretDetected reports a credential-shaped value in the input.
// The redacted preview never contains the full secret.
func SecretDetected(secretType, redacted string) BlockReason {
	return BlockReason{Code: CodeSecretDetected, SecretType: secretType, Redacted: redacted}
}

// DangerousCommand reports a destructive shell-command pattern match.
func DangerousCommand(pattern, matched string) BlockReason {
	return BlockReason{Code: CodeDangerousCommand, Pattern: pattern, Matched: matched}
}

// ProtectedPath reports access to a path covered by a blocked glob.
func ProtectedPath(path, pattern string) BlockReason {
	return BlockReason{Code: CodeProtectedPath, Path: path, Pattern: pattern}
}

// NetworkExfiltration reports network access to a blocked domain.
func NetworkExfiltration(domain string) BlockReason {
	return BlockReason{Code: CodeNetworkExfiltration, Domain: domain}
}

// InternalError reports a recovered fault; the engine fails closed.
func InternalError(message string) BlockReason {
	return BlockReason{Code: CodeInternalError, Message: message}
}

// String renders the reason for display. Each rendering contains the
// reason's defining fields.
func (r BlockReason) String() string {
	switch r.Code {
	case CodeSecretDetected:
		return fmt.Sprintf("Secret detected (%s): %s", r.SecretType, r.Redacted)
	case CodeDangerousCommand:
		return fmt.Sprintf("Dangerous command blocked: '%s' matches pattern '%s'", r.Matched, r.Pattern)
	case CodeProtectedPath:
		return fmt.Sprintf("Protected path blocked: '%s' matches pattern '%s'", r.Path, r.Pattern)
	case CodeNetworkExfiltration:
		return fmt.Sprintf("Network exfiltration blocked: domain '%s' is not allowed", r.Domain)
	case CodeInternalError:
		return fmt.Sprintf("Internal error: %s", r.Message)
	default:
		return fmt.Sprintf("Blocked (%s)", r.Code)
	}
}

// ContextHint returns remediation guidance for the agent, by reason code.
func (r BlockReason) ContextHint() string {
	switch r.Code {
	case CodeSecretDetected:
		return "This content contains secrets. Use environment variables or a secrets manager instead."
	case CodeDangerousCommand:
		return "This command matches a dangerous pattern. Use more targeted commands or adjust your policy."
	case CodeProtectedPath:
		return "This file is protected by policy. Check your warden config for allowed paths."
	case CodeNetworkExfiltration:
		return "This domain is blocked to prevent data exfiltration. Add it to the allow list if needed."
	case CodeInternalError:
		return "An internal error occurred. Warden is operating in fail-closed mode."
	default:
		return ""
	}
}
