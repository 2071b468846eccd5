package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/content"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/search/projection"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/search/request"
)

// Service runs highlighted searches.
type Service struct {
	repo     Repository
	mappings MappingReader
}

// New creates a search service.
func New(repo Repository, mappings MappingReader) *Service {
	return &Service{repo: repo, mappings: mappings}
}

// Search introspects the index mapping, synthesizes a highlighted request,
// executes it and projects the response into fragments. The mapping is
// fetched on every call.
func (s *Service) Search(ctx context.Context, index string, body map[string]any) ([]content.Fragment, error) {
	m, err := s.mappings.Mapping(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("get mapping: %w", err)
	}

	req, err := request.Synthesize(index, body, m.Highlightable())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	res, err := s.repo.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return projection.Project(res, req.From()), nil
}
