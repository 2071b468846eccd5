package passthrough

import (
	"context"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/passthrough"
)

// store is the consumer interface for raw requests (ISP).
type store interface {
	Perform(ctx context.Context, req *db.RawRequest) (*db.RawResponse, error)
}

// Repo implements usecase/rawapi.Repository.
type Repo struct {
	store store
}

// New creates a passthrough repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Execute forwards req unchanged.
func (r *Repo) Execute(ctx context.Context, req *passthrough.Request) (passthrough.Response, error) {
	res, err := r.store.Perform(ctx, &db.RawRequest{
		Method:  string(req.Method()),
		Path:    req.Path(),
		Query:   req.Query(),
		Body:    req.Body(),
		Headers: req.Headers(),
	})
	if err != nil {
		return passthrough.Response{}, err //nolint:wrapcheck // *db.Error carries the operation
	}
	return passthrough.NewResponse(req.Method(), res.StatusCode, res.Body), nil
}
