package openai

import (
	"context"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpadapt "github.com/armatrix/mcpadapt-go"
)

func echoDescriptor() *mcp.Tool {
	return &mcp.Tool{
		Name:        "echo_tool",
		Description: "Echo the input text",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text":     {Type: "string"},
				"optional": {Types: []string{"string", "null"}},
			},
			Required: []string{"text"},
		},
	}
}

func recordingCall(got *map[string]any, res *mcp.CallToolResult) mcpadapt.CallTool {
	return func(_ context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		*got = args
		return res, nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func TestDefinition(t *testing.T) {
	tool, err := NewAdapter().Adapt(recordingCall(new(map[string]any), textResult("ok")), echoDescriptor())
	require.NoError(t, err)

	def := tool.Definition()
	require.NotNil(t, def.OfFunction)
	assert.Equal(t, "echo_tool", def.OfFunction.Function.Name)
	assert.Equal(t, "Echo the input text", def.OfFunction.Function.Description.Value)

	params := map[string]any(def.OfFunction.Function.Parameters)
	assert.Contains(t, params, "properties")
}

func TestInvoke_RoundTrip(t *testing.T) {
	var got map[string]any
	tool, err := NewAdapter().Adapt(recordingCall(&got, textResult("Echo: hello")), echoDescriptor())
	require.NoError(t, err)

	out, err := tool.Invoke(context.Background(), `{"text": "hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "Echo: hello", out)
	assert.Equal(t, "hello", got["text"])
}

func TestInvoke_EmptyArguments(t *testing.T) {
	var got map[string]any
	tool, err := NewAdapter().Adapt(recordingCall(&got, textResult("ok")), echoDescriptor())
	require.NoError(t, err)

	_, err = tool.Invoke(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInvoke_FiltersExplicitNull(t *testing.T) {
	var got map[string]any
	tool, err := NewAdapter().Adapt(recordingCall(&got, textResult("ok")), echoDescriptor())
	require.NoError(t, err)

	_, err = tool.Invoke(context.Background(), `{"text": null, "optional": null}`)
	require.NoError(t, err)
	assert.NotContains(t, got, "text")
	assert.Contains(t, got, "optional")
}

func TestInvoke_BadArguments(t *testing.T) {
	tool, err := NewAdapter().Adapt(recordingCall(new(map[string]any), textResult("ok")), echoDescriptor())
	require.NoError(t, err)

	_, err = tool.Invoke(context.Background(), `{broken`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid arguments")
}

func TestInvoke_BinaryAsDataURL(t *testing.T) {
	result := &mcp.CallToolResult{Content: []mcp.Content{
		&mcp.TextContent{Text: "caption"},
		&mcp.ImageContent{Data: []byte{0x89, 0x50}, MIMEType: "image/png"},
	}}
	tool, err := NewAdapter().Adapt(recordingCall(new(map[string]any), result), echoDescriptor())
	require.NoError(t, err)

	out, err := tool.Invoke(context.Background(), "{}")
	require.NoError(t, err)
	assert.Contains(t, out, "caption")
	assert.Contains(t, out, "data:image/png;base64,")
}

func TestInvoke_StructuredFallback(t *testing.T) {
	result := &mcp.CallToolResult{StructuredContent: map[string]any{"answer": 42}}
	tool, err := NewAdapter().Adapt(recordingCall(new(map[string]any), result), echoDescriptor())
	require.NoError(t, err)

	out, err := tool.Invoke(context.Background(), "{}")
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer": 42}`, out)
}

func TestInvoke_ErrorFlag(t *testing.T) {
	result := textResult("boom")
	result.IsError = true
	tool, err := NewAdapter().Adapt(recordingCall(new(map[string]any), result), echoDescriptor())
	require.NoError(t, err)

	_, err = tool.Invoke(context.Background(), "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
