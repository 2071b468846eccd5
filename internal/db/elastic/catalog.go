package elastic

import (
	"context"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
)

// ListIndices returns all indices sorted by name.
func (s *Store) ListIndices(ctx context.Context) ([]db.IndexRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.metadataTimeout)
	defer cancel()

	cat := s.client.Cat
	res, err := cat.Indices(
		cat.Indices.WithContext(ctx),
		cat.Indices.WithFormat("json"),
		cat.Indices.WithS("index"),
	)
	body, err := read(db.OpCatIndices, res, err)
	if err != nil {
		return nil, err
	}

	var rows []db.IndexRow
	if err := decode(db.OpCatIndices, body, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetMapping returns the raw GET <index>/_mapping response.
func (s *Store) GetMapping(ctx context.Context, index string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.metadataTimeout)
	defer cancel()

	indices := s.client.Indices
	res, err := indices.GetMapping(
		indices.GetMapping.WithContext(ctx),
		indices.GetMapping.WithIndex(index),
	)
	return read(db.OpGetMapping, res, err)
}

// GetShards returns the raw cat shards JSON array, for one index expression or all.
func (s *Store) GetShards(ctx context.Context, index string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.metadataTimeout)
	defer cancel()

	cat := s.client.Cat
	opts := []func(*esapi.CatShardsRequest){
		cat.Shards.WithContext(ctx),
		cat.Shards.WithFormat("json"),
	}
	if strings.TrimSpace(index) != "" {
		opts = append(opts, cat.Shards.WithIndex(index))
	}
	res, err := cat.Shards(opts...)
	return read(db.OpCatShards, res, err)
}
