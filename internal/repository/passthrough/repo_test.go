package passthrough

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/passthrough"
)

// --- Mocks ---

type mockStore struct {
	got *db.RawRequest
	res *db.RawResponse
	err error
}

func (m *mockStore) Perform(_ context.Context, req *db.RawRequest) (*db.RawResponse, error) {
	m.got = req
	return m.res, m.err
}

// --- Tests ---

func TestExecute_ForwardsRequest(t *testing.T) {
	ms := &mockStore{res: &db.RawResponse{StatusCode: 200, Body: []byte(`{"ok":true}`)}}
	repo := New(ms)

	req, err := passthrough.New("POST", "/idx/_refresh",
		map[string]any{"ignore_unavailable": true}, json.RawMessage(`{}`), nil)
	if err != nil {
		t.Fatalf("passthrough.New: %v", err)
	}

	res, err := repo.Execute(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ms.got.Method != "POST" || ms.got.Path != "idx/_refresh" {
		t.Errorf("unexpected request: %s %s", ms.got.Method, ms.got.Path)
	}
	if ms.got.Query.Get("ignore_unavailable") != "true" {
		t.Errorf("unexpected query: %v", ms.got.Query)
	}
	if ms.got.Headers["Content-Type"] != "application/json" {
		t.Errorf("expected JSON content type, got %v", ms.got.Headers)
	}
	if res.Status() != 200 || string(res.Body()) != `{"ok":true}` {
		t.Errorf("unexpected response: %d %s", res.Status(), res.Body())
	}
}

func TestExecute_Error(t *testing.T) {
	ms := &mockStore{err: &db.Error{Op: db.OpPerform, Status: 404, Kind: db.ErrNotFound}}
	repo := New(ms)

	req, _ := passthrough.New("GET", "missing/_doc/1", nil, nil, nil)
	if _, err := repo.Execute(context.Background(), &req); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
