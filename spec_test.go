package mcpadapt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    ServerSpec
		wantErr bool
	}{
		{"stdio", StdioSpec("echo", "uv", "run", "src/echo.py"), false},
		{"sse", SSESpec("docs", "http://localhost:8000/sse"), false},
		{"streamable", StreamableSpec("docs", "http://localhost:8000/mcp"), false},
		{"transport override", TransportSpec("mem", hangTransport{}), false},
		{"inferred stdio", ServerSpec{Name: "x", Command: "echo"}, false},
		{"inferred http", ServerSpec{Name: "x", URL: "http://localhost:1234"}, false},
		{"stdio without command", ServerSpec{Name: "x", Transport: TransportStdio}, true},
		{"sse without url", ServerSpec{Name: "x", Transport: TransportSSE}, true},
		{"empty", ServerSpec{Name: "x"}, true},
		{"unknown transport", ServerSpec{Name: "x", Command: "echo", Transport: "carrier-pigeon"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSpec)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestServerSpec_Transport(t *testing.T) {
	tr, err := StdioSpec("echo", "uv", "run", "src/echo.py").transport()
	require.NoError(t, err)
	require.NotNil(t, tr)

	tr, err = SSESpec("docs", "http://localhost:8000/sse").transport()
	require.NoError(t, err)
	require.NotNil(t, tr)

	override := hangTransport{}
	tr, err = TransportSpec("mem", override).transport()
	require.NoError(t, err)
	assert.Equal(t, override, tr)
}
