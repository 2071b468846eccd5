package health

import "context"

// Pinger checks Elasticsearch availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
