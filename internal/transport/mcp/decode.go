package mcp

import (
	"bytes"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain"
)

// decodeArgs checks raw against the tool schema, then decodes it into dst
// keeping numbers as json.Number so they are forwarded without rounding.
// Missing or null arguments are treated as an empty object.
func decodeArgs(tool string, schema *jsonschema.Resolved, raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = json.RawMessage("{}")
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return domain.NewValidationError(tool, "", "arguments are not valid JSON")
	}
	if err := schema.Validate(instance); err != nil {
		return domain.NewValidationError(tool, "", err.Error())
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError(tool, "", err.Error())
	}
	return nil
}
