// Package openai adapts MCP tools for OpenAI chat completions. The adapted
// tool exposes a function definition for the request tools list and
// executes tool calls against the MCP server, returning the string content
// for the tool role message.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	sdk "github.com/openai/openai-go/v3"

	mcpadapt "github.com/armatrix/mcpadapt-go"
	"github.com/armatrix/mcpadapt-go/internal/schema"
)

// Adapter converts MCP tools into OpenAI function tools.
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

// Tool is an MCP tool adapted for OpenAI chat completions.
type Tool struct {
	name        string
	description string
	schema      map[string]any
	call        mcpadapt.CallTool
}

// Name returns the sanitized tool name.
func (t *Tool) Name() string { return t.name }

// Description returns the tool's description from the server.
func (t *Tool) Description() string { return t.description }

// Definition returns the function definition for the chat completions
// tools parameter.
func (t *Tool) Definition() sdk.ChatCompletionToolUnionParam {
	return sdk.ChatCompletionToolUnionParam{
		OfFunction: &sdk.ChatCompletionFunctionToolParam{
			Function: sdk.FunctionDefinitionParam{
				Name:        t.name,
				Description: sdk.String(t.description),
				Parameters:  t.schema,
			},
		},
	}
}

// Invoke executes the tool with the raw JSON arguments of a tool call.
// Explicit-null arguments are dropped unless the schema declares the key
// null-unioned. Binary content items are rendered as data URLs since the
// tool message is plain text; an error-flagged server result becomes an
// error carrying the result text.
func (t *Tool) Invoke(ctx context.Context, arguments string) (string, error) {
	var args map[string]any
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("tool %q: invalid arguments: %w", t.name, err)
		}
	}

	res, err := t.call(ctx, schema.FilterNull(args, t.schema))
	if err != nil {
		return "", err
	}

	text := t.unwrap(res)
	if res.IsError {
		if text == "" {
			text = "tool execution failed"
		}
		return "", fmt.Errorf("tool %q: %s", t.name, text)
	}
	return text, nil
}

func (t *Tool) unwrap(res *mcp.CallToolResult) string {
	var parts []string
	for _, item := range res.Content {
		switch c := item.(type) {
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		case *mcp.ImageContent:
			parts = append(parts, dataURL(c.MIMEType, c.Data))
		case *mcp.AudioContent:
			parts = append(parts, dataURL(c.MIMEType, c.Data))
		}
	}
	if len(parts) == 0 && res.StructuredContent != nil {
		if data, err := json.Marshal(res.StructuredContent); err == nil {
			parts = append(parts, string(data))
		}
	}
	return strings.Join(parts, "\n")
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
