package db

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel error kinds for store operations.
var (
	ErrNotFound = errors.New("db: not found")
	ErrQuery    = errors.New("db: malformed query")
	ErrTimeout  = errors.New("db: timeout")
	ErrStore    = errors.New("db: store error")
)

// Op constants name the store API behind each call for error context.
const (
	OpPing       = "ping"
	OpCatIndices = "cat.indices"
	OpCatShards  = "cat.shards"
	OpGetMapping = "indices.get_mapping"
	OpSearch     = "search"
	OpPerform    = "perform"
)

// Error wraps a failed store call with its operation, status and the
// structured error body Elasticsearch returned, when there was one.
type Error struct {
	Op     string
	Status int
	Type   string
	Reason string
	Body   json.RawMessage
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Reason != "" && e.Type != "":
		return fmt.Sprintf("%s: [%d] %s: %s", e.Op, e.Status, e.Type, e.Reason)
	case e.Reason != "":
		return fmt.Sprintf("%s: [%d] %s", e.Op, e.Status, e.Reason)
	case e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Status != 0:
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	case e.Kind != nil:
		return e.Op + ": " + e.Kind.Error()
	default:
		return e.Op + ": failed"
	}
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Details returns the structured error body, nil when the store sent none.
func Details(err error) json.RawMessage {
	var dbErr *Error
	if errors.As(err, &dbErr) && len(dbErr.Body) > 0 {
		return dbErr.Body
	}
	return nil
}
