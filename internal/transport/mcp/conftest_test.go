package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/content"
	indexrepo "github.com/kailas-cloud/elasticsearch-mcp/internal/repository/index"
	passthroughrepo "github.com/kailas-cloud/elasticsearch-mcp/internal/repository/passthrough"
	searchrepo "github.com/kailas-cloud/elasticsearch-mcp/internal/repository/search"
	indicesuc "github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/indices"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/rawapi"
	searchuc "github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/search"
)

// --- Mocks ---

// spyStore stands in for the Elasticsearch session and counts every call.
type spyStore struct {
	mu    sync.Mutex
	calls int

	listFn    func() ([]db.IndexRow, error)
	mappingFn func(index string) ([]byte, error)
	shardsFn  func(index string) ([]byte, error)
	searchFn  func(index string, body []byte) ([]byte, error)
	performFn func(req *db.RawRequest) (*db.RawResponse, error)

	lastSearchIndex string
	lastSearchBody  []byte
	lastRaw         *db.RawRequest
}

func (s *spyStore) hit() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *spyStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *spyStore) ListIndices(_ context.Context) ([]db.IndexRow, error) {
	s.hit()
	if s.listFn != nil {
		return s.listFn()
	}
	return nil, nil
}

func (s *spyStore) GetMapping(_ context.Context, index string) ([]byte, error) {
	s.hit()
	if s.mappingFn != nil {
		return s.mappingFn(index)
	}
	return []byte(`{"` + index + `":{"mappings":{}}}`), nil
}

func (s *spyStore) GetShards(_ context.Context, index string) ([]byte, error) {
	s.hit()
	if s.shardsFn != nil {
		return s.shardsFn(index)
	}
	return []byte(`[]`), nil
}

func (s *spyStore) Search(_ context.Context, index string, body []byte) ([]byte, error) {
	s.hit()
	s.lastSearchIndex = index
	s.lastSearchBody = body
	if s.searchFn != nil {
		return s.searchFn(index, body)
	}
	return []byte(`{"hits":{"total":{"value":0},"hits":[]}}`), nil
}

func (s *spyStore) Perform(_ context.Context, req *db.RawRequest) (*db.RawResponse, error) {
	s.hit()
	s.lastRaw = req
	if s.performFn != nil {
		return s.performFn(req)
	}
	return &db.RawResponse{StatusCode: 200, Body: []byte(`{}`)}, nil
}

func newTestDispatcher(t *testing.T, filter Filter) (*Dispatcher, *spyStore) {
	t.Helper()
	spy := &spyStore{}
	idx := indexrepo.New(spy)
	d, err := NewDispatcher(Deps{
		Indices: indicesuc.New(idx),
		Search:  searchuc.New(searchrepo.New(spy), idx),
		RawAPI:  rawapi.New(passthroughrepo.New(spy)),
	}, filter)
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	return d, spy
}

func args(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	return raw
}

func fragmentTexts(res content.Result) []string {
	out := make([]string, 0, len(res.Fragments))
	for _, f := range res.Fragments {
		out = append(out, f.Text)
	}
	return out
}
