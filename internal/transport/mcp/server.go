package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kailas-cloud/elasticsearch-mcp/internal/domain/content"
)

// ServerName is advertised to MCP clients during initialization.
const ServerName = "elasticsearch-mcp"

// NewServer registers every enabled tool of d on a new MCP server.
func NewServer(d *Dispatcher, version string) *sdk.Server {
	s := sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: version}, nil)
	for _, t := range d.Tools() {
		s.AddTool(t, d.handle)
	}
	return s
}

func (d *Dispatcher) handle(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
	return toCallToolResult(d.Call(ctx, req.Params.Name, req.Params.Arguments)), nil
}

func toCallToolResult(res content.Result) *sdk.CallToolResult {
	out := &sdk.CallToolResult{
		Content: make([]sdk.Content, 0, len(res.Fragments)),
		IsError: res.IsError,
	}
	for _, f := range res.Fragments {
		out.Content = append(out.Content, &sdk.TextContent{Text: f.Text})
	}
	return out
}
