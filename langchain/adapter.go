// Package langchain adapts MCP tools for langchaingo agents. The adapted
// tool satisfies the langchaingo tools.Tool interface, whose Call surface
// is plain text in and plain text out.
package langchain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tmc/langchaingo/tools"

	mcpadapt "github.com/armatrix/mcpadapt-go"
	"github.com/armatrix/mcpadapt-go/internal/schema"
)

// Adapter converts MCP tools into langchaingo tools.
type Adapter struct{}

// NewAdapter creates an Adapter.
func NewAdapter() *Adapter { return &Adapter{} }

var _ mcpadapt.ToolAdapter[*Tool] = (*Adapter)(nil)

// Adapt builds a Tool from the listed descriptor.
func (a *Adapter) Adapt(call mcpadapt.CallTool, tool *mcp.Tool) (*Tool, error) {
	return &Tool{
		name:        schema.SanitizeName(tool.Name),
		description: tool.Description,
		schema:      schema.Resolve(schema.ToMap(tool.InputSchema)),
		call:        call,
	}, nil
}

// Tool is an MCP tool adapted to the langchaingo tools.Tool interface.
type Tool struct {
	name        string
	description string
	schema      map[string]any
	call        mcpadapt.CallTool
}

var _ tools.Tool = (*Tool)(nil)

// Name returns the sanitized tool name.
func (t *Tool) Name() string { return t.name }

// Description returns the tool's description from the server.
func (t *Tool) Description() string { return t.description }

// Call executes the tool. The input is either a JSON object matching the
// tool's schema or, for single-parameter tools, the bare value of that
// parameter. langchaingo tools are text-only, so any non-text content in
// the result is reported via ErrUnsupported rather than silently dropped.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	args, err := t.parseInput(input)
	if err != nil {
		return "", err
	}

	res, err := t.call(ctx, schema.FilterNull(args, t.schema))
	if err != nil {
		return "", err
	}

	var parts []string
	for _, item := range res.Content {
		switch c := item.(type) {
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		default:
			return "", fmt.Errorf("%w: non-text content in tool %q result", mcpadapt.ErrUnsupported, t.name)
		}
	}
	text := strings.Join(parts, "\n")

	if res.IsError {
		if text == "" {
			text = "tool execution failed"
		}
		return "", fmt.Errorf("tool %q: %s", t.name, text)
	}
	return text, nil
}

func (t *Tool) parseInput(input string) (map[string]any, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(trimmed), &args); err == nil {
		return args, nil
	}

	// Bare value shorthand for single-parameter tools.
	props := schema.Properties(t.schema)
	if len(props) == 1 {
		for name := range props {
			return map[string]any{name: input}, nil
		}
	}
	return nil, fmt.Errorf("tool %q: input is neither a JSON object nor a single bare value", t.name)
}
