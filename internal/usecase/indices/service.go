// Package indices serves index metadata: listings, mappings and shard placement.
package indices

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/catalog"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/mapping"
)

// Service reads index metadata.
type Service struct {
	repo Repository
}

// New creates an indices service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every index the cluster reports, sorted by name.
func (s *Service) List(ctx context.Context) ([]catalog.Index, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indices: %w", err)
	}
	if out == nil {
		out = []catalog.Index{}
	}
	return out, nil
}

// Mapping returns the mapping of index.
func (s *Service) Mapping(ctx context.Context, index string) (mapping.Mapping, error) {
	m, err := s.repo.Mapping(ctx, index)
	if err != nil {
		return mapping.Mapping{}, fmt.Errorf("get mapping: %w", err)
	}
	return m, nil
}

// Shards returns shard placement for index, or for all indices when index is blank.
func (s *Service) Shards(ctx context.Context, index string) (json.RawMessage, error) {
	raw, err := s.repo.Shards(ctx, strings.TrimSpace(index))
	if err != nil {
		return nil, fmt.Errorf("get shards: %w", err)
	}
	return raw, nil
}
