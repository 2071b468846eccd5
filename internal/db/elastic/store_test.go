package elastic

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
)

// --- Fake Elasticsearch ---

type recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
}

type fakeES struct {
	mu       sync.Mutex
	requests []recorded
	handler  http.HandlerFunc
}

func newFakeES(t *testing.T, handler http.HandlerFunc) (*fakeES, *httptest.Server) {
	t.Helper()
	f := &fakeES{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recorded{
			Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery,
			Header: r.Header.Clone(), Body: string(body),
		})
		f.mu.Unlock()
		f.handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeES) last(t *testing.T) recorded {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no request reached the server")
	}
	return f.requests[len(f.requests)-1]
}

func newTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	cfg.DisableCompression = true
	s, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

// --- Tests ---

func TestListIndices(t *testing.T) {
	f, srv := newFakeES(t, reply(200, `[
		{"health":"green","status":"open","index":"a","docs.count":"5"},
		{"health":"yellow","status":"open","index":"b","docs.count":"0"}
	]`))
	s := newTestStore(t, Config{URL: srv.URL})

	rows, err := s.ListIndices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[0].Index != "a" || rows[0].DocsCount != "5" || rows[1].Health != "yellow" {
		t.Errorf("unexpected rows: %+v", rows)
	}

	req := f.last(t)
	if req.Path != "/_cat/indices" {
		t.Errorf("expected /_cat/indices, got %q", req.Path)
	}
	if !strings.Contains(req.Query, "format=json") || !strings.Contains(req.Query, "s=index") {
		t.Errorf("expected format and sort params, got %q", req.Query)
	}
}

func TestGetMapping_NotFound(t *testing.T) {
	_, srv := newFakeES(t, reply(404, `{"error":{"type":"index_not_found_exception","reason":"no such index [nope]"},"status":404}`))
	s := newTestStore(t, Config{URL: srv.URL})

	_, err := s.GetMapping(context.Background(), "nope")
	if !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "index_not_found_exception: no such index [nope]") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if db.Details(err) == nil {
		t.Error("expected structured error details")
	}
}

func TestGetMapping_Path(t *testing.T) {
	f, srv := newFakeES(t, reply(200, `{"idx":{"mappings":{}}}`))
	s := newTestStore(t, Config{URL: srv.URL})

	body, err := s.GetMapping(context.Background(), "idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"idx":{"mappings":{}}}` {
		t.Errorf("unexpected body: %s", body)
	}
	if p := f.last(t).Path; p != "/idx/_mapping" {
		t.Errorf("expected /idx/_mapping, got %q", p)
	}
}

func TestSearch(t *testing.T) {
	f, srv := newFakeES(t, reply(200, `{"hits":{"total":{"value":0},"hits":[]}}`))
	s := newTestStore(t, Config{URL: srv.URL})

	if _, err := s.Search(context.Background(), "idx", []byte(`{"query":{"match_all":{}}}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := f.last(t)
	if req.Path != "/idx/_search" {
		t.Errorf("expected /idx/_search, got %q", req.Path)
	}
	if req.Body != `{"query":{"match_all":{}}}` {
		t.Errorf("unexpected body: %q", req.Body)
	}
}

func TestSearch_BadRequestIsQueryError(t *testing.T) {
	_, srv := newFakeES(t, reply(400, `{"error":{"type":"parsing_exception","reason":"unknown query [nope]"},"status":400}`))
	s := newTestStore(t, Config{URL: srv.URL})

	_, err := s.Search(context.Background(), "idx", []byte(`{"query":{"nope":{}}}`))
	if !errors.Is(err, db.ErrQuery) {
		t.Fatalf("expected ErrQuery, got %v", err)
	}
}

func TestSearch_Timeout(t *testing.T) {
	_, srv := newFakeES(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	s := newTestStore(t, Config{URL: srv.URL, RequestTimeout: 50 * time.Millisecond})

	_, err := s.Search(context.Background(), "idx", []byte(`{}`))
	if !errors.Is(err, db.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestGetShards(t *testing.T) {
	f, srv := newFakeES(t, reply(200, `[{"index":"idx","shard":"0","prirep":"p","state":"STARTED"}]`))
	s := newTestStore(t, Config{URL: srv.URL})

	if _, err := s.GetShards(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := f.last(t).Path; p != "/_cat/shards" {
		t.Errorf("expected /_cat/shards, got %q", p)
	}

	if _, err := s.GetShards(context.Background(), "idx"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p := f.last(t).Path; p != "/_cat/shards/idx" {
		t.Errorf("expected /_cat/shards/idx, got %q", p)
	}
}

func TestPerform(t *testing.T) {
	f, srv := newFakeES(t, reply(200, `{"acknowledged":true}`))
	s := newTestStore(t, Config{URL: srv.URL})

	res, err := s.Perform(context.Background(), &db.RawRequest{
		Method:  "PUT",
		Path:    "idx/_settings",
		Query:   map[string][]string{"timeout": {"5s"}},
		Body:    []byte(`{"index":{"number_of_replicas":0}}`),
		Headers: map[string]string{"Content-Type": "application/json", "X-Opaque-Id": "abc"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 200 || string(res.Body) != `{"acknowledged":true}` {
		t.Errorf("unexpected response: %d %s", res.StatusCode, res.Body)
	}

	req := f.last(t)
	if req.Method != "PUT" || req.Path != "/idx/_settings" || req.Query != "timeout=5s" {
		t.Errorf("unexpected request: %s %s?%s", req.Method, req.Path, req.Query)
	}
	if req.Header.Get("X-Opaque-Id") != "abc" {
		t.Errorf("expected caller header, got %q", req.Header.Get("X-Opaque-Id"))
	}
	if req.Body != `{"index":{"number_of_replicas":0}}` {
		t.Errorf("unexpected body: %q", req.Body)
	}
}

func TestPerform_HeadNotFound(t *testing.T) {
	_, srv := newFakeES(t, reply(404, ""))
	s := newTestStore(t, Config{URL: srv.URL})

	res, err := s.Perform(context.Background(), &db.RawRequest{Method: "HEAD", Path: "missing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StatusCode != 404 {
		t.Errorf("expected 404, got %d", res.StatusCode)
	}
}

func TestPerform_ServerError(t *testing.T) {
	_, srv := newFakeES(t, reply(500, `{"error":{"type":"illegal_state_exception","reason":"boom"},"status":500}`))
	s := newTestStore(t, Config{URL: srv.URL})

	_, err := s.Perform(context.Background(), &db.RawRequest{Method: "GET", Path: "_nodes"})
	if !errors.Is(err, db.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Status != 500 || dbErr.Type != "illegal_state_exception" {
		t.Errorf("unexpected error: %#v", err)
	}
}

func TestPerform_PlainTextError(t *testing.T) {
	_, srv := newFakeES(t, reply(405, "Incorrect HTTP method"))
	s := newTestStore(t, Config{URL: srv.URL})

	_, err := s.Perform(context.Background(), &db.RawRequest{Method: "DELETE", Path: "_cluster/health"})
	if err == nil {
		t.Fatal("expected error")
	}
	if db.Details(err) != nil {
		t.Error("plain text body must not be reported as structured details")
	}
	if !strings.Contains(err.Error(), "Incorrect HTTP method") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestAuth_APIKeyWins(t *testing.T) {
	f, srv := newFakeES(t, reply(200, `[]`))
	s := newTestStore(t, Config{URL: srv.URL, APIKey: "k3y", Username: "u", Password: "p"})

	if _, err := s.ListIndices(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scheme, key, _ := strings.Cut(f.last(t).Header.Get("Authorization"), " ")
	if !strings.EqualFold(scheme, "ApiKey") || key != "k3y" {
		t.Errorf("expected ApiKey auth, got %q %q", scheme, key)
	}
}

func TestAuth_Basic(t *testing.T) {
	f, srv := newFakeES(t, reply(200, `[]`))
	s := newTestStore(t, Config{URL: srv.URL, Username: "elastic", Password: "changeme"})

	if _, err := s.ListIndices(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := &http.Request{Header: f.last(t).Header}
	user, pass, ok := r.BasicAuth()
	if !ok || user != "elastic" || pass != "changeme" {
		t.Errorf("expected basic auth elastic/changeme, got %q/%q", user, pass)
	}
}

func TestUserAgent(t *testing.T) {
	f, srv := newFakeES(t, reply(200, `[]`))
	s := newTestStore(t, Config{URL: srv.URL, UserAgent: "elasticsearch-mcp/test"})

	if _, err := s.ListIndices(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.last(t).Header.Get("User-Agent"); got != "elasticsearch-mcp/test" {
		t.Errorf("unexpected user agent %q", got)
	}
}

func TestNewStore_UnreadableCACertIsIgnored(t *testing.T) {
	s, err := NewStore(Config{URL: "https://localhost:9200", CACertPath: "/nonexistent/ca.pem"})
	if err != nil {
		t.Fatalf("expected startup to continue, got %v", err)
	}
	s.Close()
	s.Close()
}

func TestNewStore_RequiresURL(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestWaitForReady(t *testing.T) {
	_, srv := newFakeES(t, reply(200, `{}`))
	s := newTestStore(t, Config{URL: srv.URL})

	if err := s.WaitForReady(context.Background(), time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRewriteLocalhost(t *testing.T) {
	podmanOnly := func(host string) ([]string, error) {
		if host == "host.containers.internal" {
			return []string{"10.0.2.2"}, nil
		}
		return nil, errors.New("no such host")
	}
	none := func(string) ([]string, error) { return nil, errors.New("no such host") }

	tests := []struct {
		name   string
		in     string
		lookup func(string) ([]string, error)
		want   string
	}{
		{"rewrites localhost", "http://localhost:9200", podmanOnly, "http://host.containers.internal:9200"},
		{"rewrites loopback", "https://127.0.0.1:9200/prefix", podmanOnly, "https://host.containers.internal:9200/prefix"},
		{"keeps remote host", "https://es.example.com:9200", podmanOnly, "https://es.example.com:9200"},
		{"keeps when nothing resolves", "http://localhost:9200", none, "http://localhost:9200"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := rewriteLocalhost(tc.in, tc.lookup); got != tc.want {
				t.Errorf("rewriteLocalhost(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
