// Package googlegenai adapts MCP tools for Google Gemini function calling.
// The adapted tool exposes a genai.Tool declaration for the model
// configuration and executes function calls against the MCP server,
// returning a genai.FunctionResponse.
package googlegenai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	mcpadapt "github.com/armatrix/mcpadapt-go"
	"github.com/armatrix/mcpadapt-go/internal/schema"
)

// Adapter converts MCP tools into Gemini function declarations.
type Adapter struct{}

// NewAdapter creates an Adapter.
func NewAdapter() *Adapter { return &Adapter{} }

var _ mcpadapt.ToolAdapter[*Tool] = (*Adapter)(nil)

// Adapt builds a Tool from the listed descriptor, converting its resolved
// input schema into the genai schema model.
func (a *Adapter) Adapt(call mcpadapt.CallTool, tool *mcp.Tool) (*Tool, error) {
	resolved := schema.Resolve(schema.ToMap(tool.InputSchema))
	return &Tool{
		name:   schema.SanitizeName(tool.Name),
		schema: resolved,
		call:   call,
		decl: &genai.FunctionDeclaration{
			Name:        schema.SanitizeName(tool.Name),
			Description: tool.Description,
			Parameters:  toGenaiSchema(resolved),
		},
	}, nil
}

// Tool is an MCP tool adapted for Gemini function calling.
type Tool struct {
	name   string
	schema map[string]any
	call   mcpadapt.CallTool
	decl   *genai.FunctionDeclaration
}

// Name returns the sanitized tool name.
func (t *Tool) Name() string { return t.name }

// Declaration returns the tool for the model's Tools configuration.
func (t *Tool) Declaration() *genai.Tool {
	return &genai.Tool{FunctionDeclarations: []*genai.FunctionDeclaration{t.decl}}
}

// Call executes a function call against the server and shapes the result
// as a FunctionResponse. A structured result becomes the response object
// directly; otherwise the concatenated text lands under "output". An
// error-flagged server result becomes an error carrying the result text.
func (t *Tool) Call(ctx context.Context, args map[string]any) (genai.FunctionResponse, error) {
	res, err := t.call(ctx, schema.FilterNull(args, t.schema))
	if err != nil {
		return genai.FunctionResponse{}, err
	}

	text := joinText(res)
	if res.IsError {
		if text == "" {
			text = "tool execution failed"
		}
		return genai.FunctionResponse{}, fmt.Errorf("tool %q: %s", t.name, text)
	}

	response := map[string]any{"output": text}
	if structured, ok := res.StructuredContent.(map[string]any); ok {
		response = structured
	}
	return genai.FunctionResponse{Name: t.name, Response: response}, nil
}

func joinText(res *mcp.CallToolResult) string {
	var out string
	for _, item := range res.Content {
		if c, ok := item.(*mcp.TextContent); ok {
			if out != "" {
				out += "\n"
			}
			out += c.Text
		}
	}
	return out
}

// toGenaiSchema converts a resolved JSON Schema object into the genai
// schema model. Unknown or unresolved constructs degrade to a plain string
// schema rather than failing the conversion.
func toGenaiSchema(s map[string]any) *genai.Schema {
	if s == nil {
		return &genai.Schema{Type: genai.TypeObject}
	}

	out := &genai.Schema{Type: genai.TypeString}
	if desc, ok := s["description"].(string); ok {
		out.Description = desc
	}

	out.Type, out.Nullable = genaiType(s)

	if enum, ok := s["enum"].([]any); ok {
		for _, entry := range enum {
			if str, ok := entry.(string); ok {
				out.Enum = append(out.Enum, str)
			}
		}
	}
	if items, ok := s["items"].(map[string]any); ok {
		out.Items = toGenaiSchema(items)
	}
	if props := schema.Properties(s); len(props) > 0 {
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			out.Properties[name] = toGenaiSchema(prop)
		}
		out.Required = schema.Required(s)
	}
	return out
}

// genaiType maps the JSON Schema type keyword (string, list, or anyOf
// union) onto a genai type plus nullability.
func genaiType(s map[string]any) (genai.Type, bool) {
	nullable := schema.AllowsNull(s)

	switch t := s["type"].(type) {
	case string:
		return scalarType(t), nullable
	case []any:
		for _, entry := range t {
			if name, ok := entry.(string); ok && name != "null" {
				return scalarType(name), nullable
			}
		}
	}
	if branches, ok := s["anyOf"].([]any); ok {
		for _, raw := range branches {
			branch, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if name, ok := branch["type"].(string); ok && name != "null" {
				return scalarType(name), nullable
			}
		}
	}
	return genai.TypeString, nullable
}

func scalarType(name string) genai.Type {
	switch name {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
