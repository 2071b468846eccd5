package elastic

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
)

// Perform forwards req through the client's transport, so it gets the same
// authentication, retries and compression as the typed calls.
// A HEAD request answered with 404 is a result, not an error.
func (s *Store) Perform(ctx context.Context, req *db.RawRequest) (*db.RawResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	target, err := url.Parse("/" + req.Path)
	if err != nil {
		return nil, &db.Error{Op: db.OpPerform, Kind: db.ErrQuery, Err: fmt.Errorf("invalid path: %w", err)}
	}
	if len(req.Query) > 0 {
		q := target.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), bodyReader(req.Body))
	if err != nil {
		return nil, &db.Error{Op: db.OpPerform, Kind: db.ErrQuery, Err: err}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	res, err := s.client.Perform(httpReq)
	if err != nil {
		return nil, transportError(db.OpPerform, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, transportError(db.OpPerform, err)
	}

	headNotFound := req.Method == http.MethodHead && res.StatusCode == http.StatusNotFound
	if res.StatusCode >= http.StatusBadRequest && !headNotFound {
		return nil, responseError(db.OpPerform, res.StatusCode, body)
	}
	return &db.RawResponse{StatusCode: res.StatusCode, Header: res.Header, Body: body}, nil
}
