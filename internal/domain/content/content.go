package content

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind is the fragment type. Only text is produced.
type Kind string

// KindText is a plain text fragment.
const KindText Kind = "text"

// Fragment is one unit of tool output.
type Fragment struct {
	Kind Kind
	Text string
}

// Text creates a text fragment.
func Text(s string) Fragment {
	return Fragment{Kind: KindText, Text: s}
}

// Result is the uniform outcome of a tool invocation.
type Result struct {
	Fragments []Fragment
	IsError   bool
}

// Success creates a successful result from fragments.
func Success(fragments ...Fragment) Result {
	return Result{Fragments: fragments}
}

// Failure creates an error result with a single fragment.
func Failure(message string) Result {
	return Result{Fragments: []Fragment{Text(message)}, IsError: true}
}

// Indent renders a JSON document with two-space indentation.
// Input that is not valid JSON is returned unchanged.
func Indent(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// IndentValue marshals v and renders it with two-space indentation.
func IndentValue(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err //nolint:wrapcheck // caller adds context
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
