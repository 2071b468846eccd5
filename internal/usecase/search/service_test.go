package search

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/mapping"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/search/request"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/search/result"
)

// --- Mocks ---

type mockRepo struct {
	called bool
	got    request.Request
	res    result.Result
	err    error
}

func (m *mockRepo) Search(_ context.Context, req *request.Request) (result.Result, error) {
	m.called = true
	m.got = *req
	return m.res, m.err
}

type mockMappings struct {
	calls int
	m     mapping.Mapping
	err   error
}

func (m *mockMappings) Mapping(_ context.Context, _ string) (mapping.Mapping, error) {
	m.calls++
	return m.m, m.err
}

func mustParse(t *testing.T, body string) result.Result {
	t.Helper()
	r, err := result.Parse([]byte(body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return r
}

// --- Tests ---

func TestSearch_HighlightsTextAndVectorFields(t *testing.T) {
	repo := &mockRepo{res: mustParse(t, `{"hits":{"total":{"value":0},"hits":[]}}`)}
	maps := &mockMappings{m: mapping.New("articles",
		mapping.NewField("title", "text"),
		mapping.NewField("views", "integer"),
		mapping.NewField("embedding", "dense_vector"),
	)}
	svc := New(repo, maps)

	if _, err := svc.Search(context.Background(), "articles", map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, ok := repo.got.Body()["highlight"].(map[string]any)
	if !ok {
		t.Fatal("expected highlight clause")
	}
	var fields []string
	for k := range h["fields"].(map[string]any) {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	if !reflect.DeepEqual(fields, []string{"embedding", "title"}) {
		t.Errorf("expected [embedding title], got %v", fields)
	}
}

func TestSearch_ProjectsResult(t *testing.T) {
	repo := &mockRepo{res: mustParse(t, `{"hits":{"total":{"value":2},"hits":[
		{"_source":{"title":"A","views":5},"highlight":{"title":["<em>A</em>"]}},
		{"_source":{"title":"B"}}
	]}}`)}
	svc := New(repo, &mockMappings{m: mapping.New("articles", mapping.NewField("title", "text"))})

	out, err := svc.Search(context.Background(), "articles", map[string]any{"from": 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(out))
	}
	if out[1].Text != "title (highlighted): <em>A</em>\nviews: 5" {
		t.Errorf("unexpected first hit: %q", out[1].Text)
	}
	if out[2].Text != `title: "B"` {
		t.Errorf("unexpected second hit: %q", out[2].Text)
	}
}

func TestSearch_MappingFetchedPerCall(t *testing.T) {
	maps := &mockMappings{m: mapping.New("idx")}
	svc := New(&mockRepo{}, maps)

	for i := 0; i < 2; i++ {
		if _, err := svc.Search(context.Background(), "idx", map[string]any{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if maps.calls != 2 {
		t.Errorf("expected 2 mapping fetches, got %d", maps.calls)
	}
}

func TestSearch_MappingError(t *testing.T) {
	repo := &mockRepo{}
	maps := &mockMappings{err: &db.Error{Op: db.OpGetMapping, Status: 404, Kind: db.ErrNotFound}}
	svc := New(repo, maps)

	_, err := svc.Search(context.Background(), "nope", map[string]any{})
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.called {
		t.Error("search must not run when the mapping lookup fails")
	}
}

func TestSearch_QueryError(t *testing.T) {
	repo := &mockRepo{err: &db.Error{Op: db.OpSearch, Status: 400, Kind: db.ErrQuery}}
	svc := New(repo, &mockMappings{m: mapping.New("idx")})

	if _, err := svc.Search(context.Background(), "idx", map[string]any{}); !errors.Is(err, db.ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
}
