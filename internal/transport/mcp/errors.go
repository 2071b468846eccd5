package mcp

import (
	"errors"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/content"
)

// Error kinds reported in logs and the error_kind metric label.
const (
	kindValidation  = "validation"
	kindUnknownTool = "unknown_tool"
	kindNotFound    = "not_found"
	kindQuery       = "query"
	kindTimeout     = "timeout"
	kindStore       = "store"
	kindInternal    = "internal"
)

// errorHandler classifies an error. Returns false if it does not apply.
type errorHandler func(err error) (kind string, ok bool)

func sentinelHandler(sentinel error, kind string) errorHandler {
	return func(err error) (string, bool) {
		if !errors.Is(err, sentinel) {
			return "", false
		}
		return kind, true
	}
}

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrValidation, kindValidation),
		sentinelHandler(domain.ErrUnknownTool, kindUnknownTool),
		sentinelHandler(db.ErrNotFound, kindNotFound),
		sentinelHandler(db.ErrQuery, kindQuery),
		sentinelHandler(db.ErrTimeout, kindTimeout),
		sentinelHandler(db.ErrStore, kindStore),
	}
}

func (d *Dispatcher) classify(err error) string {
	for _, h := range d.errorHandlers {
		if kind, ok := h(err); ok {
			return kind
		}
	}
	return kindInternal
}

// failure renders err as the single fragment of an error result. A structured
// body returned by Elasticsearch is appended as indented JSON.
func failure(err error) content.Result {
	msg := "Error: " + err.Error()
	if details := db.Details(err); details != nil {
		msg += "\nError details: " + content.Indent(details)
	}
	return content.Failure(msg)
}
