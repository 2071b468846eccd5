package search

import (
	"context"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/search/request"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, index string, body []byte) ([]byte, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search sends a synthesized request and parses the response.
func (r *Repo) Search(ctx context.Context, req *request.Request) (result.Result, error) {
	body, err := req.JSON()
	if err != nil {
		return result.Result{}, &db.Error{Op: db.OpSearch, Kind: db.ErrQuery, Err: err}
	}

	raw, err := r.store.Search(ctx, req.Index(), body)
	if err != nil {
		return result.Result{}, err //nolint:wrapcheck // *db.Error carries the operation
	}

	res, err := result.Parse(raw)
	if err != nil {
		return result.Result{}, &db.Error{Op: db.OpSearch, Kind: db.ErrStore, Err: err}
	}
	return res, nil
}
