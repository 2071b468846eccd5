// Package rawapi forwards arbitrary REST calls to Elasticsearch.
package rawapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/passthrough"
)

// Command is a raw call as supplied by the caller.
type Command struct {
	Method  string
	Path    string
	Params  map[string]any
	Body    json.RawMessage
	Headers map[string]string
}

// Outcome pairs the normalized request with the cluster's answer.
type Outcome struct {
	Request  passthrough.Request
	Response passthrough.Response
}

// Service executes raw calls.
type Service struct {
	repo Repository
}

// New creates a rawapi service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Execute normalizes cmd and forwards it. Nothing reaches the cluster when
// normalization fails.
func (s *Service) Execute(ctx context.Context, cmd Command) (Outcome, error) {
	req, err := passthrough.New(cmd.Method, cmd.Path, cmd.Params, cmd.Body, cmd.Headers)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	res, err := s.repo.Execute(ctx, &req)
	if err != nil {
		return Outcome{Request: req}, fmt.Errorf("%s %s: %w", req.Method(), req.Path(), err)
	}
	return Outcome{Request: req, Response: res}, nil
}
