package db

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// IndexRow is one row of GET _cat/indices?format=json.
type IndexRow struct {
	Index     string `json:"index"`
	Health    string `json:"health"`
	Status    string `json:"status"`
	DocsCount string `json:"docs.count"`
}

// RawRequest is a request forwarded verbatim. Path has no leading "/".
type RawRequest struct {
	Method  string
	Path    string
	Query   url.Values
	Body    json.RawMessage
	Headers map[string]string
}

// RawResponse is the store's reply to a RawRequest.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
