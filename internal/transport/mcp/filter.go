package mcp

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain"
)

// Filter narrows the registered tool set. An empty Include enables every tool;
// Exclude is applied after Include.
type Filter struct {
	Include []string
	Exclude []string
}

func (f Filter) apply(all []string) (map[string]struct{}, error) {
	known := make(map[string]struct{}, len(all))
	for _, n := range all {
		known[n] = struct{}{}
	}

	include, err := normalize("tools.include", f.Include, known)
	if err != nil {
		return nil, err
	}
	exclude, err := normalize("tools.exclude", f.Exclude, known)
	if err != nil {
		return nil, err
	}

	enabled := make(map[string]struct{}, len(all))
	for _, n := range all {
		if len(include) > 0 {
			if _, ok := include[n]; !ok {
				continue
			}
		}
		if _, ok := exclude[n]; ok {
			continue
		}
		enabled[n] = struct{}{}
	}
	if len(enabled) == 0 {
		return nil, domain.NewConfigurationError("tools", "leaves no tool enabled")
	}
	return enabled, nil
}

func normalize(field string, names []string, known map[string]struct{}) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := known[n]; !ok {
			return nil, domain.NewConfigurationError(field, fmt.Sprintf("names unknown tool %q", n))
		}
		out[n] = struct{}{}
	}
	return out, nil
}
