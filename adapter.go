package mcpadapt

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CallTool forwards one invocation to the server tool it was bound to. It
// blocks until the server responds or ctx is done. A nil args map is sent
// as an empty argument object.
//
// The callable holds a non-owning reference to its session: invoking it
// after the bridge has closed returns an error wrapping [ErrClosed]. A
// failure inside one call surfaces only to that caller and never affects
// other tools or the session.
type CallTool func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error)

// ToolAdapter converts MCP tool metadata plus a forwarding callable into a
// framework-native tool of type T. One adapter instance serves all tools of
// an acquisition; behavior toggles (such as structured-output handling) are
// explicit configuration on the adapter, never ambient state.
//
// Adapt receives the tool descriptor exactly as listed by the server. The
// adapter is responsible for sanitizing the tool name for its framework,
// deriving the parameter surface from the input schema, and unwrapping call
// results into the framework's representation. A malformed sub-schema is
// adapted best-effort rather than rejected, so one bad tool does not block
// the rest; constructs the framework structurally cannot express are
// reported by wrapping [ErrUnsupported].
type ToolAdapter[T any] interface {
	Adapt(call CallTool, tool *mcp.Tool) (T, error)
}
