package passthrough

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/content"
)

// Response is the store's reply to a passthrough request.
type Response struct {
	method Method
	status int
	body   []byte
}

// NewResponse creates a response for a request sent with method.
func NewResponse(method Method, status int, body []byte) Response {
	return Response{method: method, status: status, body: body}
}

// Status returns the HTTP status code.
func (r *Response) Status() int { return r.status }

// Body returns the raw response body.
func (r *Response) Body() []byte { return r.body }

// Render formats the body for display: HEAD yields "true" or "false",
// JSON is indented, anything else is returned verbatim.
func (r *Response) Render() string {
	if r.method == Head {
		return strconv.FormatBool(r.status >= http.StatusOK && r.status < http.StatusMultipleChoices)
	}
	trimmed := bytes.TrimSpace(r.body)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return content.Indent(trimmed)
	}
	return string(r.body)
}
