package passthrough

import "strings"

// Method is an HTTP method accepted by the passthrough.
type Method string

// Supported methods.
const (
	Get    Method = "GET"
	Post   Method = "POST"
	Put    Method = "PUT"
	Delete Method = "DELETE"
	Head   Method = "HEAD"
)

// Methods lists supported methods in schema order.
func Methods() []Method {
	return []Method{Get, Post, Put, Delete, Head}
}

// IsValid checks if the method is one of the supported values.
func (m Method) IsValid() bool {
	return m == Get || m == Post || m == Put || m == Delete || m == Head
}

// ParseMethod upper-cases and validates s.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.IsValid()
}
