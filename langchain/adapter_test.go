package langchain

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
				"text": {Type: "string"},
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

func TestAdapt_Metadata(t *testing.T) {
	tool, err := NewAdapter().Adapt(recordingCall(new(map[string]any), textResult("ok")), echoDescriptor())
	require.NoError(t, err)
	assert.Equal(t, "echo_tool", tool.Name())
	assert.Equal(t, "Echo the input text", tool.Description())
}

func TestCall_JSONInput(t *testing.T) {
	var got map[string]any
	tool, err := NewAdapter().Adapt(recordingCall(&got, textResult("Echo: hello")), echoDescriptor())
	require.NoError(t, err)

	out, err := tool.Call(context.Background(), `{"text": "hello"}`)
	require.NoError(t, err)
	assert.Equal(t, "Echo: hello", out)
	assert.Equal(t, "hello", got["text"])
}

func TestCall_BareValueShorthand(t *testing.T) {
	var got map[string]any
	tool, err := NewAdapter().Adapt(recordingCall(&got, textResult("ok")), echoDescriptor())
	require.NoError(t, err)

	_, err = tool.Call(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got["text"])
}

func TestCall_BareValueNeedsSingleParameter(t *testing.T) {
	desc := echoDescriptor()
	desc.InputSchema.(*jsonschema.Schema).Properties["level"] = &jsonschema.Schema{Type: "integer"}

	tool, err := NewAdapter().Adapt(recordingCall(new(map[string]any), textResult("ok")), desc)
	require.NoError(t, err)

	_, err = tool.Call(context.Background(), "hello world")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither a JSON object")
}

func TestCall_EmptyInput(t *testing.T) {
	var got map[string]any
	tool, err := NewAdapter().Adapt(recordingCall(&got, textResult("ok")), echoDescriptor())
	require.NoError(t, err)

	_, err = tool.Call(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCall_NonTextUnsupported(t *testing.T) {
	result := &mcp.CallToolResult{Content: []mcp.Content{
		&mcp.ImageContent{Data: []byte{0x89}, MIMEType: "image/png"},
	}}
	tool, err := NewAdapter().Adapt(recordingCall(new(map[string]any), result), echoDescriptor())
	require.NoError(t, err)

	_, err = tool.Call(context.Background(), `{"text": "x"}`)
	assert.ErrorIs(t, err, mcpadapt.ErrUnsupported)
}

func TestCall_ErrorFlag(t *testing.T) {
	result := textResult("boom")
	result.IsError = true
	tool, err := NewAdapter().Adapt(recordingCall(new(map[string]any), result), echoDescriptor())
	require.NoError(t, err)

	_, err = tool.Call(context.Background(), `{"text": "x"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
