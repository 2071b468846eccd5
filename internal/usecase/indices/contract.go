package indices

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/catalog"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/mapping"
)

// Repository defines the storage contract for index metadata.
type Repository interface {
	List(ctx context.Context) ([]catalog.Index, error)
	Mapping(ctx context.Context, index string) (mapping.Mapping, error)
	Shards(ctx context.Context, index string) (json.RawMessage, error)
}
