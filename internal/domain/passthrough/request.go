// Package passthrough models arbitrary requests forwarded to the store API.
package passthrough

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	headerContentType = "Content-Type"
	jsonContentType   = "application/json"
)

// Request is a validated passthrough request.
type Request struct {
	method  Method
	path    string
	query   url.Values
	body    json.RawMessage
	headers map[string]string
}

// New validates and normalizes a passthrough request: one leading "/" is
// stripped from path, params are rendered as query values, and Content-Type
// defaults to JSON when a body is present and no content type header was given.
// A nil body means no body is sent.
func New(
	method string, path string,
	params map[string]any, body json.RawMessage, headers map[string]string,
) (Request, error) {
	m, ok := ParseMethod(method)
	if !ok {
		return Request{}, fmt.Errorf("unsupported method %q", method)
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return Request{}, fmt.Errorf("path is required")
	}
	path = NormalizePath(path)

	query, err := queryValues(params)
	if err != nil {
		return Request{}, err
	}

	h := make(map[string]string, len(headers)+1)
	for k, v := range headers {
		h[k] = v
	}
	if len(body) > 0 && !hasHeader(h, headerContentType) {
		h[headerContentType] = jsonContentType
	}

	return Request{method: m, path: path, query: query, body: body, headers: h}, nil
}

// NormalizePath strips a single leading separator.
func NormalizePath(path string) string {
	return strings.TrimPrefix(path, "/")
}

// Method returns the HTTP method.
func (r *Request) Method() Method { return r.method }

// Path returns the normalized path, without a leading "/".
func (r *Request) Path() string { return r.path }

// Query returns the rendered query parameters.
func (r *Request) Query() url.Values { return r.query }

// Body returns the request body, nil when absent.
func (r *Request) Body() json.RawMessage { return r.body }

// Headers returns request headers including defaults.
func (r *Request) Headers() map[string]string { return r.headers }

func hasHeader(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// queryValues renders params: strings verbatim, numbers and booleans as JSON
// literals, arrays comma-joined. Nested objects are rejected.
func queryValues(params map[string]any) (url.Values, error) {
	q := make(url.Values, len(params))
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := params[k]
		if list, ok := v.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				s, err := scalar(k, item)
				if err != nil {
					return nil, err
				}
				parts = append(parts, s)
			}
			q.Set(k, strings.Join(parts, ","))
			continue
		}
		s, err := scalar(k, v)
		if err != nil {
			return nil, err
		}
		q.Set(k, s)
	}
	return q, nil
}

func scalar(key string, v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(x), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("param %q must be a string, number, boolean or list of them", key)
	}
}
