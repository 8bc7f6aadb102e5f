package mcpadapt

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for the mcpadapt package.
var (
	// ErrNoServers is returned when no ServerSpec is provided.
	ErrNoServers = errors.New("mcpadapt: at least one server spec is required")

	// ErrInvalidSpec is returned when a ServerSpec is missing required
	// fields for its transport kind.
	ErrInvalidSpec = errors.New("mcpadapt: invalid server spec")

	// ErrNotStarted is returned when tools are requested before Start
	// has completed.
	ErrNotStarted = errors.New("mcpadapt: not started")

	// ErrClosed is returned when a forwarding call or lifecycle operation
	// is attempted after the bridge has been closed.
	ErrClosed = errors.New("mcpadapt: closed")

	// ErrConnect wraps transport-level failures during handshake or the
	// first tool listing. Such failures are fatal to the acquisition.
	ErrConnect = errors.New("mcpadapt: server connection failed")

	// ErrSetupTimeout matches (via errors.Is) a *SetupTimeoutError.
	ErrSetupTimeout = errors.New("mcpadapt: setup timed out")

	// ErrUnsupported is returned by adapters for representations their
	// target framework structurally cannot express, for example audio
	// content in a text-only framework. Never a silent downgrade.
	ErrUnsupported = errors.New("mcpadapt: not supported by this adapter")
)

// SetupTimeoutError reports that connecting, performing the protocol
// handshake, and listing tools did not complete within the connect timeout.
// All partially established sessions are torn down before it is returned.
type SetupTimeoutError struct {
	// Server is the name of the spec that was still pending when the
	// bound elapsed, if known.
	Server string

	// Timeout is the bound that was exceeded.
	Timeout time.Duration
}

func (e *SetupTimeoutError) Error() string {
	if e.Server != "" {
		return fmt.Sprintf("mcpadapt: server %q setup exceeded %s", e.Server, e.Timeout)
	}
	return fmt.Sprintf("mcpadapt: server setup exceeded %s", e.Timeout)
}

// Is reports ErrSetupTimeout so callers can use errors.Is without holding
// the concrete type.
func (e *SetupTimeoutError) Is(target error) bool {
	return target == ErrSetupTimeout
}
