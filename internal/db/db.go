package db

import (
	"context"
	"time"
)

// Store is the Elasticsearch session facade combining all sub-interfaces.
// Implementations must be safe for concurrent use.
type Store interface {
	Pinger
	Catalog
	Searcher
	Performer
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Catalog reads cluster metadata through the cat and mapping APIs.
type Catalog interface {
	ListIndices(ctx context.Context) ([]IndexRow, error)
	GetMapping(ctx context.Context, index string) ([]byte, error)
	GetShards(ctx context.Context, index string) ([]byte, error)
}

// Searcher runs _search requests.
type Searcher interface {
	GetMapping(ctx context.Context, index string) ([]byte, error)
	Search(ctx context.Context, index string, body []byte) ([]byte, error)
}

// Performer forwards arbitrary requests to the store API.
type Performer interface {
	Perform(ctx context.Context, req *RawRequest) (*RawResponse, error)
}
