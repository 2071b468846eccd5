// Package mapping reads Elasticsearch index mappings and classifies their fields.
package mapping

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Field types that accept highlighting.
var textTypes = map[string]struct{}{
	"text":            {},
	"match_only_text": {},
}

const vectorType = "dense_vector"

// Field is a top-level property declared in an index mapping.
type Field struct {
	name   string
	typ    string
	vector bool
}

// Name returns the property name.
func (f Field) Name() string { return f.name }

// Type returns the declared type, empty for object properties without one.
func (f Field) Type() string { return f.typ }

// IsVector reports whether the property is a dense vector.
func (f Field) IsVector() bool { return f.vector }

// IsText reports whether the property has a textual type.
func (f Field) IsText() bool {
	_, ok := textTypes[f.typ]
	return ok
}

// Highlightable reports whether the field qualifies for highlighting.
func (f Field) Highlightable() bool { return f.IsText() || f.vector }

// Mapping is the mapping of a single index.
type Mapping struct {
	index  string
	raw    []byte
	fields []Field
}

// Index returns the concrete index name the mapping belongs to.
func (m Mapping) Index() string { return m.index }

// Raw returns the index's "mappings" object, or {} when the index has none.
func (m Mapping) Raw() []byte { return m.raw }

// Fields returns top-level properties in declaration order.
func (m Mapping) Fields() []Field { return m.fields }

// Highlightable returns the names of top-level fields eligible for highlighting,
// in declaration order. Nested object properties are not inspected.
func (m Mapping) Highlightable() []string {
	var names []string
	for _, f := range m.fields {
		if f.Highlightable() {
			names = append(names, f.name)
		}
	}
	return names
}

// Parse extracts the mapping for index from a GET <index>/_mapping response.
// When the response has no entry named index (an alias or a pattern was used)
// and holds exactly one index, that entry is used.
func Parse(index string, response []byte) (Mapping, error) {
	if !gjson.ValidBytes(response) {
		return Mapping{}, fmt.Errorf("mapping response for %q is not valid JSON", index)
	}
	root := gjson.ParseBytes(response)
	if !root.IsObject() {
		return Mapping{}, fmt.Errorf("mapping response for %q is not an object", index)
	}

	name := index
	entry := root.Get(gjson.Escape(index))
	if !entry.Exists() {
		var only []string
		root.ForEach(func(key, _ gjson.Result) bool {
			only = append(only, key.String())
			return len(only) < 2
		})
		if len(only) == 1 {
			name = only[0]
			entry = root.Get(gjson.Escape(name))
		}
	}

	m := Mapping{index: name, raw: []byte("{}")}
	mappings := entry.Get("mappings")
	if !mappings.IsObject() {
		return m, nil
	}
	m.raw = []byte(mappings.Raw)

	mappings.Get("properties").ForEach(func(key, value gjson.Result) bool {
		typ := value.Get("type").String()
		m.fields = append(m.fields, Field{
			name:   key.String(),
			typ:    typ,
			vector: typ == vectorType || value.Get(vectorType).Exists(),
		})
		return true
	})
	return m, nil
}

// New builds a mapping from already classified fields.
func New(index string, fields ...Field) Mapping {
	return Mapping{index: index, raw: []byte("{}"), fields: fields}
}

// NewField creates a field descriptor.
func NewField(name, typ string) Field {
	return Field{name: name, typ: typ, vector: typ == vectorType}
}
