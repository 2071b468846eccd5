package elastic

import (
	"context"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
)

// Search runs a _search request against index and returns the raw response body.
func (s *Store) Search(ctx context.Context, index string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	search := s.client.Search
	res, err := search(
		search.WithContext(ctx),
		search.WithIndex(index),
		search.WithBody(bodyReader(body)),
	)
	return read(db.OpSearch, res, err)
}
