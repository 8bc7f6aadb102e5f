package mcpadapt

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// rawTool is the identity adaptation: descriptor plus forwarding callable,
// unchanged. It keeps bridge tests independent of any framework package.
type rawTool struct {
	tool *mcp.Tool
	call CallTool
}

type rawAdapter struct{}

func (rawAdapter) Adapt(call CallTool, tool *mcp.Tool) (*rawTool, error) {
	return &rawTool{tool: tool, call: call}, nil
}

type echoInput struct {
	Text string `json:"text"`
}

// newEchoServer builds an in-process server exposing a single echo_tool.
func newEchoServer(name string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: name, Version: "0.0.1"}, nil)
	mcp.AddTool(srv, &mcp.Tool{Name: "echo_tool", Description: "Echo the input text"},
		func(_ context.Context, _ *mcp.CallToolRequest, in echoInput) (*mcp.CallToolResult, any, error) {
			return textResult("Echo: " + in.Text), nil, nil
		})
	return srv
}

// serveSpec wires an in-process server to one half of an in-memory
// transport pair and returns a spec for the other half.
func serveSpec(t *testing.T, name string, srv *mcp.Server) ServerSpec {
	t.Helper()
	clientTr, serverTr := mcp.NewInMemoryTransports()
	ss, err := srv.Connect(context.Background(), serverTr, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })
	return TransportSpec(name, clientTr)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

// resultText extracts the concatenated text items from a call result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	var out string
	for _, item := range res.Content {
		c, ok := item.(*mcp.TextContent)
		require.True(t, ok, "expected text content")
		out += c.Text
	}
	return out
}

// hangTransport blocks in Connect until the context is done. It drives the
// setup-timeout path without a real server.
type hangTransport struct{}

func (hangTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
