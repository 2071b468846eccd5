package result

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Value is a source field with its JSON-encoded value.
type Value struct {
	Name string
	Raw  json.RawMessage
}

// Highlight holds the highlighted fragments of one field.
type Highlight struct {
	Field     string
	Fragments []string
}

// Hit is a single search hit. Source and highlights keep the order the store returned them in.
type Hit struct {
	source     []Value
	highlights []Highlight
}

// NewHit creates a hit.
func NewHit(source []Value, highlights []Highlight) Hit {
	return Hit{source: source, highlights: highlights}
}

// Source returns the _source fields in document order.
func (h *Hit) Source() []Value { return h.source }

// Highlights returns highlighted fields in response order.
func (h *Hit) Highlights() []Highlight { return h.highlights }

// Highlighted reports whether field appears in the hit's highlight map.
func (h *Hit) Highlighted(field string) bool {
	for _, hl := range h.highlights {
		if hl.Field == field {
			return true
		}
	}
	return false
}

// Result is a parsed search response.
type Result struct {
	total        int64
	hits         []Hit
	aggregations json.RawMessage
}

// New creates a result.
func New(total int64, hits []Hit, aggregations json.RawMessage) Result {
	return Result{total: total, hits: hits, aggregations: aggregations}
}

// Total returns the total hit count, exact or lower bound.
func (r *Result) Total() int64 { return r.total }

// Hits returns hits in store order.
func (r *Result) Hits() []Hit { return r.hits }

// Aggregations returns the raw aggregations object, nil when absent.
func (r *Result) Aggregations() json.RawMessage { return r.aggregations }

// Parse reads a _search response body.
// hits.total may be a bare number or a {"value": n} object.
func Parse(body []byte) (Result, error) {
	if !gjson.ValidBytes(body) {
		return Result{}, fmt.Errorf("search response is not valid JSON")
	}
	root := gjson.ParseBytes(body)

	var r Result
	total := root.Get("hits.total")
	if total.IsObject() {
		r.total = total.Get("value").Int()
	} else {
		r.total = total.Int()
	}

	root.Get("hits.hits").ForEach(func(_, hit gjson.Result) bool {
		var h Hit
		hit.Get("_source").ForEach(func(key, value gjson.Result) bool {
			h.source = append(h.source, Value{Name: key.String(), Raw: compact(value.Raw)})
			return true
		})
		hit.Get("highlight").ForEach(func(key, value gjson.Result) bool {
			hl := Highlight{Field: key.String()}
			value.ForEach(func(_, fragment gjson.Result) bool {
				hl.Fragments = append(hl.Fragments, fragment.String())
				return true
			})
			h.highlights = append(h.highlights, hl)
			return true
		})
		r.hits = append(r.hits, h)
		return true
	})

	if aggs := root.Get("aggregations"); aggs.Exists() && aggs.Type != gjson.Null {
		r.aggregations = json.RawMessage(aggs.Raw)
	}
	return r, nil
}

func compact(raw string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return json.RawMessage(raw)
	}
	return buf.Bytes()
}
