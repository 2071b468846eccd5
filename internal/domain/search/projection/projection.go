// Package projection flattens search results into content fragments.
package projection

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/content"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/search/result"
)

const fragmentSeparator = " ... "

// Project renders a search result as a metadata fragment, an optional
// aggregations fragment and exactly one fragment per hit, in that order.
func Project(r result.Result, from int) []content.Fragment {
	hits := r.Hits()
	out := make([]content.Fragment, 0, len(hits)+2)

	out = append(out, content.Text(fmt.Sprintf(
		"Total results: %d, showing %d from position %d", r.Total(), len(hits), from,
	)))

	if aggs := r.Aggregations(); aggs != nil {
		out = append(out, content.Text("Aggregation results:\n"+content.Indent(aggs)))
	}

	for i := range hits {
		out = append(out, content.Text(Hit(&hits[i])))
	}
	return out
}

// Hit renders highlighted fields first, then source fields not covered by a highlight.
func Hit(h *result.Hit) string {
	var lines []string
	for _, hl := range h.Highlights() {
		if len(hl.Fragments) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s (highlighted): %s",
			hl.Field, strings.Join(hl.Fragments, fragmentSeparator)))
	}
	for _, v := range h.Source() {
		if h.Highlighted(v.Name) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", v.Name, v.Raw))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
