// Package anthropic adapts MCP tools for the Anthropic Messages API. The
// adapted tool exposes metadata as an anthropic.ToolUnionParam for the
// request tools list and executes tool_use blocks against the MCP server,
// returning content blocks for the tool_result message.
package anthropic

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	mcpadapt "github.com/armatrix/mcpadapt-go"
	"github.com/armatrix/mcpadapt-go/internal/schema"
)

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithStructuredContent makes Execute prefer a result's structured content,
// serialized as JSON, over its content items.
func WithStructuredContent() AdapterOption {
	return func(a *Adapter) { a.structured = true }
}

// Adapter converts MCP tools into Anthropic-native tools.
type Adapter struct {
	structured bool
}

// NewAdapter creates an Adapter.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{}
	for _, fn := range opts {
		fn(a)
	}
	return a
}

var _ mcpadapt.ToolAdapter[*Tool] = (*Adapter)(nil)

// Adapt builds a Tool from the listed descriptor. The input schema is
// reference-resolved up front; unresolvable fragments pass through as-is so
// a malformed sub-schema never rejects the tool.
func (a *Adapter) Adapt(call mcpadapt.CallTool, tool *mcp.Tool) (*Tool, error) {
	return &Tool{
		name:        schema.SanitizeName(tool.Name),
		description: tool.Description,
		schema:      schema.Resolve(schema.ToMap(tool.InputSchema)),
		call:        call,
		structured:  a.structured,
	}, nil
}

// Tool is an MCP tool adapted for the Anthropic Messages API.
type Tool struct {
	name        string
	description string
	schema      map[string]any
	call        mcpadapt.CallTool
	structured  bool
}

// Name returns the sanitized tool name.
func (t *Tool) Name() string { return t.name }

// Description returns the tool's description from the server.
func (t *Tool) Description() string { return t.description }

// Param returns the tool metadata for the Messages API tools parameter.
func (t *Tool) Param() sdk.ToolUnionParam {
	return sdk.ToolUnionParam{
		OfTool: &sdk.ToolParam{
			Name:        t.name,
			Description: param.NewOpt(t.description),
			InputSchema: sdk.ToolInputSchemaParam{
				Properties: t.schema["properties"],
				Required:   schema.Required(t.schema),
			},
		},
	}
}

// Result is the outcome of one tool execution, shaped for a tool_result
// block.
type Result struct {
	Content []sdk.ContentBlockParamUnion
	IsError bool
}

// Execute forwards one invocation to the server. Explicit-null arguments
// are dropped unless the schema declares the key null-unioned. An
// error-flagged server result is returned with IsError set rather than as
// an error, matching the tool_result convention.
func (t *Tool) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	res, err := t.call(ctx, schema.FilterNull(args, t.schema))
	if err != nil {
		return nil, err
	}
	return t.unwrap(res)
}

// ExecuteRaw is Execute over raw JSON arguments, as delivered in a
// tool_use block.
func (t *Tool) ExecuteRaw(ctx context.Context, raw json.RawMessage) (*Result, error) {
	var args map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("tool %q: invalid arguments: %w", t.name, err)
		}
	}
	return t.Execute(ctx, args)
}

func (t *Tool) unwrap(res *mcp.CallToolResult) (*Result, error) {
	if t.structured && res.StructuredContent != nil {
		data, err := json.Marshal(res.StructuredContent)
		if err != nil {
			return nil, fmt.Errorf("tool %q: structured content: %w", t.name, err)
		}
		return &Result{
			Content: []sdk.ContentBlockParamUnion{sdk.NewTextBlock(string(data))},
			IsError: res.IsError,
		}, nil
	}

	var blocks []sdk.ContentBlockParamUnion
	for _, item := range res.Content {
		switch c := item.(type) {
		case *mcp.TextContent:
			blocks = append(blocks, sdk.NewTextBlock(c.Text))
		case *mcp.ImageContent:
			blocks = append(blocks, sdk.NewImageBlockBase64(c.MIMEType, base64.StdEncoding.EncodeToString(c.Data)))
		case *mcp.AudioContent:
			return nil, fmt.Errorf("%w: audio content in tool %q result", mcpadapt.ErrUnsupported, t.name)
		}
	}
	return &Result{Content: blocks, IsError: res.IsError}, nil
}
