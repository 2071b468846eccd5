package index

import (
	"context"
	"testing"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	listIndicesFn func(ctx context.Context) ([]db.IndexRow, error)
	getMappingFn  func(ctx context.Context, index string) ([]byte, error)
	getShardsFn   func(ctx context.Context, index string) ([]byte, error)
}

func (m *mockStore) ListIndices(ctx context.Context) ([]db.IndexRow, error) {
	if m.listIndicesFn != nil {
		return m.listIndicesFn(ctx)
	}
	return nil, nil
}

func (m *mockStore) GetMapping(ctx context.Context, index string) ([]byte, error) {
	if m.getMappingFn != nil {
		return m.getMappingFn(ctx, index)
	}
	return []byte(`{}`), nil
}

func (m *mockStore) GetShards(ctx context.Context, index string) ([]byte, error) {
	if m.getShardsFn != nil {
		return m.getShardsFn(ctx, index)
	}
	return []byte(`[]`), nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
