// Package mcp exposes the Elasticsearch tools over the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/catalog"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/content"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/mapping"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/logger"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/metrics"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/rawapi"
)

// IndexService serves index metadata.
type IndexService interface {
	List(ctx context.Context) ([]catalog.Index, error)
	Mapping(ctx context.Context, index string) (mapping.Mapping, error)
	Shards(ctx context.Context, index string) (json.RawMessage, error)
}

// SearchService runs highlighted searches.
type SearchService interface {
	Search(ctx context.Context, index string, body map[string]any) ([]content.Fragment, error)
}

// RawAPIService forwards raw REST calls.
type RawAPIService interface {
	Execute(ctx context.Context, cmd rawapi.Command) (rawapi.Outcome, error)
}

// Deps are the services the tools delegate to.
type Deps struct {
	Indices IndexService
	Search  SearchService
	RawAPI  RawAPIService
	Logger  *zap.Logger
}

const (
	outcomeSuccess = "success"
	outcomeError   = "error"

	unknownToolLabel = "unknown"
)

// Dispatcher validates tool invocations and routes them to services.
// Every invocation ends in a content.Result; errors never escape Call.
type Dispatcher struct {
	indices  IndexService
	searcher SearchService
	rawapi   RawAPIService
	logger   *zap.Logger

	tools         map[string]*definition
	order         []string
	errorHandlers []errorHandler
}

// NewDispatcher builds the enabled tool set. Filter names that match no tool
// fail with a configuration error.
func NewDispatcher(deps Deps, filter Filter) (*Dispatcher, error) {
	d := &Dispatcher{
		indices:       deps.Indices,
		searcher:      deps.Search,
		rawapi:        deps.RawAPI,
		logger:        deps.Logger,
		tools:         make(map[string]*definition),
		errorHandlers: defaultErrorHandlers(),
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}

	enabled, err := filter.apply(Names())
	if err != nil {
		return nil, err
	}

	defs, err := d.definitions()
	if err != nil {
		return nil, err
	}
	for _, def := range defs {
		if _, ok := enabled[def.tool.Name]; !ok {
			continue
		}
		d.tools[def.tool.Name] = def
		d.order = append(d.order, def.tool.Name)
	}
	return d, nil
}

// Tools returns the enabled tool descriptors in registration order.
func (d *Dispatcher) Tools() []*sdk.Tool {
	out := make([]*sdk.Tool, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tools[name].tool)
	}
	return out
}

// Call validates raw against the tool's input shape and, only when it is
// valid, executes the tool. Execution is detached from ctx cancellation and
// ends on completion, failure or the store timeout.
func (d *Dispatcher) Call(ctx context.Context, name string, raw json.RawMessage) content.Result {
	start := time.Now()
	label := name

	var (
		fragments []content.Fragment
		err       error
	)
	def, ok := d.tools[name]
	if !ok {
		label = unknownToolLabel
		err = fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	} else {
		var run exec
		run, err = def.prepare(raw)
		if err == nil {
			fragments, err = run(context.WithoutCancel(ctx))
		}
	}

	res := content.Success(fragments...)
	outcome, kind := outcomeSuccess, ""
	if err != nil {
		res = failure(err)
		outcome, kind = outcomeError, d.classify(err)
	}

	latency := time.Since(start)
	metrics.ToolCallsTotal.WithLabelValues(label, outcome, kind).Inc()
	metrics.ToolCallDuration.WithLabelValues(label).Observe(latency.Seconds())

	fields := []zap.Field{
		zap.String("tool", name),
		zap.String("outcome", outcome),
		zap.Duration("latency", latency),
	}
	log := logger.FromContextOr(ctx, d.logger)
	if err != nil {
		log.Warn("tool_call", append(fields, zap.String("error_kind", kind), zap.Error(err))...)
	} else {
		log.Info("tool_call", fields...)
	}
	return res
}
