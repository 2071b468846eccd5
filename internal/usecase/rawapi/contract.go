package rawapi

import (
	"context"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/passthrough"
)

// Repository forwards raw requests to the cluster.
type Repository interface {
	Execute(ctx context.Context, req *passthrough.Request) (passthrough.Response, error)
}
