package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/content"
	"github.com/kailas-cloud/elasticsearch-mcp/internal/usecase/rawapi"
)

func (d *Dispatcher) listIndices(ctx context.Context, _ listIndicesArgs) ([]content.Fragment, error) {
	list, err := d.indices.List(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck // usecase adds context
	}
	text, err := content.IndentValue(list)
	if err != nil {
		return nil, fmt.Errorf("render indices: %w", err)
	}
	return []content.Fragment{
		content.Text(fmt.Sprintf("Found %d indices", len(list))),
		content.Text(text),
	}, nil
}

func (d *Dispatcher) getMappings(ctx context.Context, args getMappingsArgs) ([]content.Fragment, error) {
	m, err := d.indices.Mapping(ctx, args.Index)
	if err != nil {
		return nil, err //nolint:wrapcheck // usecase adds context
	}
	return []content.Fragment{
		content.Text("Mappings for index: " + args.Index),
		content.Text(fmt.Sprintf("Mappings for index %s: %s", args.Index, content.Indent(m.Raw()))),
	}, nil
}

func (d *Dispatcher) search(ctx context.Context, args searchArgs) ([]content.Fragment, error) {
	return d.searcher.Search(ctx, args.Index, args.QueryBody) //nolint:wrapcheck // usecase adds context
}

func (d *Dispatcher) executeAPI(ctx context.Context, args executeArgs) ([]content.Fragment, error) {
	var body json.RawMessage
	if args.Body != nil {
		raw, err := json.Marshal(args.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = raw
	}

	out, err := d.rawapi.Execute(ctx, rawapi.Command{
		Method:  args.Method,
		Path:    args.Path,
		Params:  args.Params,
		Body:    body,
		Headers: args.Headers,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // usecase adds context
	}
	return []content.Fragment{
		content.Text(fmt.Sprintf("Successfully executed %s request to %s", out.Request.Method(), out.Request.Path())),
		content.Text(out.Response.Render()),
	}, nil
}

func (d *Dispatcher) getShards(ctx context.Context, args getShardsArgs) ([]content.Fragment, error) {
	raw, err := d.indices.Shards(ctx, args.Index)
	if err != nil {
		return nil, err //nolint:wrapcheck // usecase adds context
	}
	title := "Shard information"
	if args.Index != "" {
		title += " for index: " + args.Index
	}
	return []content.Fragment{content.Text(title), content.Text(content.Indent(raw))}, nil
}
