package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/catalog"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/mapping"
)

// store is the consumer interface for index metadata (ISP).
type store interface {
	ListIndices(ctx context.Context) ([]db.IndexRow, error)
	GetMapping(ctx context.Context, index string) ([]byte, error)
	GetShards(ctx context.Context, index string) ([]byte, error)
}

// Repo implements index metadata reads for the usecase layer.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// List returns index summaries in store order.
func (r *Repo) List(ctx context.Context) ([]catalog.Index, error) {
	rows, err := r.store.ListIndices(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // *db.Error carries the operation
	}
	out := make([]catalog.Index, 0, len(rows))
	for _, row := range rows {
		out = append(out, catalog.Index{
			Index:     row.Index,
			Health:    row.Health,
			Status:    row.Status,
			DocsCount: row.DocsCount,
		})
	}
	return out, nil
}

// Mapping fetches and parses the mapping of index. Nothing is cached.
func (r *Repo) Mapping(ctx context.Context, index string) (mapping.Mapping, error) {
	raw, err := r.store.GetMapping(ctx, index)
	if err != nil {
		return mapping.Mapping{}, err //nolint:wrapcheck // *db.Error carries the operation
	}
	m, err := mapping.Parse(index, raw)
	if err != nil {
		return mapping.Mapping{}, &db.Error{Op: db.OpGetMapping, Kind: db.ErrStore, Err: err}
	}
	return m, nil
}

// Shards returns the cat shards listing, all indices when index is empty.
func (r *Repo) Shards(ctx context.Context, index string) (json.RawMessage, error) {
	raw, err := r.store.GetShards(ctx, index)
	if err != nil {
		return nil, err //nolint:wrapcheck // *db.Error carries the operation
	}
	if !json.Valid(raw) {
		return nil, &db.Error{Op: db.OpCatShards, Kind: db.ErrStore, Err: fmt.Errorf("response is not valid JSON")}
	}
	return raw, nil
}
