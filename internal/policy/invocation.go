package policy

import "encoding/json"

// Invocation is one attempted tool use: the tool name plus its raw JSON
// parameters, exactly as received from the hook transport.
type Invocation struct {
	Tool   string          `json:"tool_name"`
	Params json.RawMessage `json:"tool_input"`
}

// Kind identifies the parsed shape of an invocation.
type Kind int

const (
	KindUnknown Kind = iota
	KindBash
	KindWrite
	KindEdit
	KindRead
	KindGlob
	KindGrep
	KindWebFetch
	KindWebSearch
	KindTask
)

// Call is the typed projection of an Invocation into a closed set of known
// shapes. Parsing is total: missing or ill-typed fields come back as empty
// strings, and unrecognized tools land in KindUnknown with the original
// name and raw parameters preserved.
type Call struct {
	Kind Kind

	// KindBash
	Command string
	// KindWrite, KindEdit, KindRead
	FilePath string
	// KindWrite
	Content string
	// KindEdit
	OldString string
	NewString string
	// KindGlob, KindGrep
	Pattern string
	// KindGrep
	SearchPath string
	// KindWebFetch
	URL string
	// KindWebSearch
	Query string
	// KindTask
	Prompt string

	// KindUnknown
	Tool string
	Raw  json.RawMessage
}

// field extracts a string parameter, treating any absence or type mismatch
// as empty. This keeps the gate total for malformed inputs.
func field(params json.RawMessage, key string) string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(params, &m); err != nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(m[key], &s); err != nil {
		return ""
	}
	return s
}

// Parse projects the invocation into its typed shape.
func (in Invocation) Parse() Call {
	switch in.Tool {
	case "Bash":
		return Call{Kind: KindBash, Command: field(in.Params, "command")}
	case "Write":
		return Call{
			Kind:     KindWrite,
			FilePath: field(in.Params, "file_path"),
			Content:  field(in.Params, "content"),
		}
	case "Edit":
		return Call{
			Kind:      KindEdit,
			FilePath:  field(in.Params, "file_path"),
			OldString: field(in.Params, "old_string"),
			NewString: field(in.Params, "new_string"),
		}
	case "Read":
		return Call{Kind: KindRead, FilePath: field(in.Params, "file_path")}
	case "Glob":
		return Call{Kind: KindGlob, Pattern: field(in.Params, "pattern")}
	case "Grep":
		return Call{
			Kind:       KindGrep,
			Pattern:    field(in.Params, "pattern"),
			SearchPath: field(in.Params, "path"),
		}
	case "WebFetch":
		return Call{Kind: KindWebFetch, URL: field(in.Params, "url")}
	case "WebSearch":
		return Call{Kind: KindWebSearch, Query: field(in.Params, "query")}
	case "Task":
		return Call{Kind: KindTask, Prompt: field(in.Params, "prompt")}
	default:
		return Call{Kind: KindUnknown, Tool: in.Tool, Raw: in.Params}
	}
}

// ScannableTexts returns the text fields worth scanning for secrets,
// in a fixed order.
func (c *Call) ScannableTexts() []string {
	switch c.Kind {
	case KindBash:
		return []string{c.Command}
	case KindWrite:
		return []string{c.Content}
	case KindEdit:
		return []string{c.OldString, c.NewString}
	case KindTask:
		return []string{c.Prompt}
	default:
		return nil
	}
}

// FilePaths returns the file-path arguments of file operations.
func (c *Call) FilePaths() []string {
	switch c.Kind {
	case KindWrite, KindEdit, KindRead:
		return []string{c.FilePath}
	default:
		return nil
	}
}
