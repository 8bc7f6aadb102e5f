package mcpadapt

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TransportKind identifies the MCP transport protocol.
type TransportKind string

const (
	// TransportStdio communicates via a subprocess's stdin/stdout.
	TransportStdio TransportKind = "stdio"

	// TransportSSE communicates via HTTP Server-Sent Events.
	TransportSSE TransportKind = "sse"

	// TransportStreamableHTTP communicates via HTTP streaming.
	TransportStreamableHTTP TransportKind = "streamable-http"
)

// ServerSpec describes how to connect to a single MCP server. It is
// immutable once constructed; passing several specs to [New] composes the
// servers' tool lists in spec order.
type ServerSpec struct {
	// Name identifies the server in errors and logs. Optional; an empty
	// name is filled in positionally by the bridge.
	Name string

	// Command is the executable to spawn (stdio transport only).
	Command string

	// Args are command-line arguments for the subprocess.
	Args []string

	// Env are extra environment variables for the subprocess, appended
	// to the current process environment.
	Env map[string]string

	// URL is the server address (SSE and streamable-http transports).
	URL string

	// Transport selects the communication protocol. If empty, stdio is
	// inferred when Command is set and streamable-http when URL is set.
	Transport TransportKind

	// Conn is a pre-built transport that overrides all other connection
	// fields. It serves in-process servers and tests, where no subprocess
	// or network endpoint exists.
	Conn mcp.Transport
}

// StdioSpec returns a ServerSpec that spawns command as a subprocess and
// speaks MCP over its stdin/stdout.
func StdioSpec(name, command string, args ...string) ServerSpec {
	return ServerSpec{Name: name, Command: command, Args: args, Transport: TransportStdio}
}

// SSESpec returns a ServerSpec for an HTTP Server-Sent Events endpoint.
func SSESpec(name, url string) ServerSpec {
	return ServerSpec{Name: name, URL: url, Transport: TransportSSE}
}

// StreamableSpec returns a ServerSpec for a streamable HTTP endpoint.
func StreamableSpec(name, url string) ServerSpec {
	return ServerSpec{Name: name, URL: url, Transport: TransportStreamableHTTP}
}

// TransportSpec returns a ServerSpec wrapping a pre-built transport, such as
// one half of mcp.NewInMemoryTransports for an in-process server.
func TransportSpec(name string, t mcp.Transport) ServerSpec {
	return ServerSpec{Name: name, Conn: t}
}

// validate checks that the spec carries enough information to build a
// transport.
func (s ServerSpec) validate() error {
	if s.Conn != nil {
		return nil
	}
	switch s.Transport {
	case TransportStdio:
		if s.Command == "" {
			return fmt.Errorf("%w: stdio transport requires command", ErrInvalidSpec)
		}
	case TransportSSE, TransportStreamableHTTP:
		if s.URL == "" {
			return fmt.Errorf("%w: %s transport requires url", ErrInvalidSpec, s.Transport)
		}
	case "":
		if s.Command == "" && s.URL == "" {
			return fmt.Errorf("%w: either command or url must be set", ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidSpec, s.Transport)
	}
	return nil
}

// transport builds the SDK transport for this spec.
func (s ServerSpec) transport() (mcp.Transport, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Conn != nil {
		return s.Conn, nil
	}

	kind := s.Transport
	if kind == "" {
		if s.Command != "" {
			kind = TransportStdio
		} else {
			kind = TransportStreamableHTTP
		}
	}

	switch kind {
	case TransportStdio:
		cmd := exec.Command(s.Command, s.Args...)
		if len(s.Env) > 0 {
			cmd.Env = os.Environ()
			for k, v := range s.Env {
				cmd.Env = append(cmd.Env, k+"="+v)
			}
		}
		return &mcp.CommandTransport{Command: cmd}, nil
	case TransportSSE:
		return &mcp.SSEClientTransport{Endpoint: s.URL}, nil
	default:
		return &mcp.StreamableClientTransport{Endpoint: s.URL}, nil
	}
}
