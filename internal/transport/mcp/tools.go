package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/content"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/passthrough"
)

// Tool names.
const (
	ToolListIndices  = "list_indices"
	ToolGetMappings  = "get_mappings"
	ToolSearch       = "search"
	ToolExecuteESAPI = "execute_es_api"
	ToolGetShards    = "get_shards"
)

// Names lists every tool in registration order.
func Names() []string {
	return []string{ToolListIndices, ToolGetMappings, ToolSearch, ToolExecuteESAPI, ToolGetShards}
}

type listIndicesArgs struct{}

type getMappingsArgs struct {
	Index string `json:"index" jsonschema:"Name of the Elasticsearch index to get mappings for"`
}

func (a *getMappingsArgs) check(tool string) error {
	return requireText(tool, "index", &a.Index)
}

type searchArgs struct {
	Index     string         `json:"index" jsonschema:"Name of the Elasticsearch index to search"`
	QueryBody map[string]any `json:"queryBody" jsonschema:"Complete Elasticsearch query DSL object that can include query, size, from, sort, etc."`
}

func (a *searchArgs) check(tool string) error {
	return requireText(tool, "index", &a.Index)
}

type executeArgs struct {
	Method  string            `json:"method" jsonschema:"HTTP method to use for the request"`
	Path    string            `json:"path" jsonschema:"The API endpoint path (e.g., '_search', 'my_index/_search', '_cluster/health')"`
	Params  map[string]any    `json:"params,omitempty" jsonschema:"Optional URL parameters for the request"`
	Body    map[string]any    `json:"body,omitempty" jsonschema:"Optional request body as a JSON object"`
	Headers map[string]string `json:"headers,omitempty" jsonschema:"Optional HTTP headers for the request"`
}

func (a *executeArgs) check(tool string) error {
	return requireText(tool, "path", &a.Path)
}

type getShardsArgs struct {
	Index string `json:"index,omitempty" jsonschema:"Optional index name to filter results. If not provided, shows shards for all indices"`
}

// checker is implemented by argument types with constraints beyond their schema.
type checker interface {
	check(tool string) error
}

// requireText trims *v in place and rejects blank values.
func requireText(tool, field string, v *string) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return domain.NewValidationError(tool, field, "must be a non-empty string")
	}
	return nil
}

type exec func(ctx context.Context) ([]content.Fragment, error)

// definition binds a tool's advertised shape to its argument decoder.
type definition struct {
	tool    *sdk.Tool
	prepare func(raw json.RawMessage) (exec, error)
}

// define infers the input schema from A, lets tune tighten it and returns a
// definition whose prepare step validates raw arguments before anything runs.
func define[A any](
	name, description string,
	annotations *sdk.ToolAnnotations,
	tune func(*jsonschema.Schema),
	run func(context.Context, A) ([]content.Fragment, error),
) (*definition, error) {
	schema, err := jsonschema.For[A](nil)
	if err != nil {
		return nil, fmt.Errorf("infer schema for %s: %w", name, err)
	}
	if tune != nil {
		tune(schema)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve schema for %s: %w", name, err)
	}

	return &definition{
		tool: &sdk.Tool{
			Name:        name,
			Description: description,
			InputSchema: schema,
			Annotations: annotations,
		},
		prepare: func(raw json.RawMessage) (exec, error) {
			var args A
			if err := decodeArgs(name, resolved, raw, &args); err != nil {
				return nil, err
			}
			if c, ok := any(&args).(checker); ok {
				if err := c.check(name); err != nil {
					return nil, err
				}
			}
			return func(ctx context.Context) ([]content.Fragment, error) {
				return run(ctx, args)
			}, nil
		},
	}, nil
}

// property forces a single JSON type on a top-level property.
func property(schema *jsonschema.Schema, name, typ string) *jsonschema.Schema {
	prop := schema.Properties[name]
	if prop == nil {
		prop = &jsonschema.Schema{}
		if schema.Properties == nil {
			schema.Properties = map[string]*jsonschema.Schema{}
		}
		schema.Properties[name] = prop
	}
	prop.Type = typ
	prop.Types = nil
	return prop
}

func nonEmpty(schema *jsonschema.Schema, name string) {
	minLen := 1
	property(schema, name, "string").MinLength = &minLen
}

func methodEnum(schema *jsonschema.Schema) {
	prop := property(schema, "method", "string")
	for _, m := range passthrough.Methods() {
		prop.Enum = append(prop.Enum, string(m))
	}
}

func ptr[T any](v T) *T { return &v }

var (
	readOnly = &sdk.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  ptr(false),
	}
	passthroughHints = &sdk.ToolAnnotations{
		Title:           "Execute Elasticsearch API",
		DestructiveHint: ptr(true),
		OpenWorldHint:   ptr(true),
	}
)

func (d *Dispatcher) definitions() ([]*definition, error) {
	var defs []*definition
	add := func(def *definition, err error) error {
		if err != nil {
			return err
		}
		defs = append(defs, def)
		return nil
	}

	if err := add(define(ToolListIndices,
		"List all available Elasticsearch indices",
		readOnly, nil, d.listIndices)); err != nil {
		return nil, err
	}
	if err := add(define(ToolGetMappings,
		"Get field mappings for a specific Elasticsearch index",
		readOnly, func(s *jsonschema.Schema) { nonEmpty(s, "index") }, d.getMappings)); err != nil {
		return nil, err
	}
	if err := add(define(ToolSearch,
		"Perform an Elasticsearch search with the provided query DSL. Highlights are always enabled.",
		readOnly, func(s *jsonschema.Schema) {
			nonEmpty(s, "index")
			property(s, "queryBody", "object")
		}, d.search)); err != nil {
		return nil, err
	}
	if err := add(define(ToolExecuteESAPI,
		"Execute any Elasticsearch API endpoint directly",
		passthroughHints, func(s *jsonschema.Schema) {
			methodEnum(s)
			nonEmpty(s, "path")
			property(s, "params", "object")
			property(s, "body", "object")
			property(s, "headers", "object")
		}, d.executeAPI)); err != nil {
		return nil, err
	}
	if err := add(define(ToolGetShards,
		"Get detailed shard information for indices",
		readOnly, func(s *jsonschema.Schema) { property(s, "index", "string") }, d.getShards)); err != nil {
		return nil, err
	}
	return defs, nil
}
