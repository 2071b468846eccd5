package request

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Synthesizer defaults.
const (
	DefaultTimeout = "30s"
	PreTag         = "<em>"
	PostTag        = "</em>"
)

// Request is a store-bound search request.
type Request struct {
	index string
	body  map[string]any
	from  int
}

// Synthesize builds the search request sent to the store. The caller's body
// keys win over defaults, except highlight: any caller highlight is dropped and,
// when fields is non-empty, replaced by one empty descriptor per field.
// A string "index" key in the body retargets the request and is removed from it.
// The caller's map is not modified.
func Synthesize(index string, body map[string]any, fields []string) (Request, error) {
	if strings.TrimSpace(index) == "" {
		return Request{}, fmt.Errorf("index is required")
	}

	out := make(map[string]any, len(body)+2)
	for k, v := range body {
		out[k] = v
	}

	if v, ok := out["index"]; ok {
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) != "" {
			index = s
		}
		delete(out, "index")
	}

	if _, ok := out["timeout"]; !ok {
		out["timeout"] = DefaultTimeout
	}

	delete(out, "highlight")
	if len(fields) > 0 {
		descriptors := make(map[string]any, len(fields))
		for _, f := range fields {
			descriptors[f] = map[string]any{}
		}
		out["highlight"] = map[string]any{
			"fields":    descriptors,
			"pre_tags":  []string{PreTag},
			"post_tags": []string{PostTag},
		}
	}

	return Request{index: index, body: out, from: offset(body["from"])}, nil
}

// Index returns the target index expression.
func (r *Request) Index() string { return r.index }

// Body returns the synthesized request body.
func (r *Request) Body() map[string]any { return r.body }

// From returns the pagination offset requested by the caller, 0 when absent.
func (r *Request) From() int { return r.from }

// JSON encodes the body for the wire.
func (r *Request) JSON() ([]byte, error) {
	b, err := json.Marshal(r.body)
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}
	return b, nil
}

// offset reads a non-fractional numeric "from" value. Anything else counts as 0.
func offset(v any) int {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		f, err := n.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0
		}
		return int(f)
	case float64:
		if n != math.Trunc(n) {
			return 0
		}
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
