package elastic

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/db"
)

const maxReasonLen = 512

func transportError(op string, err error) error {
	kind := db.ErrStore
	if isTimeout(err) {
		kind = db.ErrTimeout
	}
	return &db.Error{Op: op, Kind: kind, Err: err}
}

// responseError classifies an error status and keeps the store's error body.
// Elasticsearch reports {"error":{"type":...,"reason":...},"status":...};
// some endpoints send {"error":"..."} or plain text instead.
func responseError(op string, status int, body []byte) error {
	e := &db.Error{Op: op, Status: status, Kind: kindFor(op, status)}

	if gjson.ValidBytes(body) {
		root := gjson.ParseBytes(body)
		if root.IsObject() {
			e.Body = json.RawMessage(body)
			errField := root.Get("error")
			if errField.IsObject() {
				e.Type = errField.Get("type").String()
				e.Reason = errField.Get("reason").String()
			} else if errField.Type == gjson.String {
				e.Reason = errField.String()
			}
		}
		return e
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		if len(text) > maxReasonLen {
			cut := maxReasonLen
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut] + "..."
		}
		e.Reason = text
	}
	return e
}

func kindFor(op string, status int) error {
	switch status {
	case http.StatusNotFound:
		return db.ErrNotFound
	case http.StatusBadRequest:
		return db.ErrQuery
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return db.ErrTimeout
	}
	if op == db.OpSearch && status == http.StatusUnprocessableEntity {
		return db.ErrQuery
	}
	return db.ErrStore
}
