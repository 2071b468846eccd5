package search

import (
	"context"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/mapping"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/search/request"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Search(ctx context.Context, req *request.Request) (result.Result, error)
}

// MappingReader fetches the live mapping of an index.
type MappingReader interface {
	Mapping(ctx context.Context, index string) (mapping.Mapping, error)
}
