package mcpadapt

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Defaults for bridge options.
const (
	// DefaultConnectTimeout bounds transport connect, protocol handshake,
	// and the first tool listing for every server during Start.
	DefaultConnectTimeout = 5 * time.Second

	clientName    = "mcpadapt-go"
	clientVersion = "0.3.0"
)

// Option configures a bridge via the functional options pattern.
type Option func(*options)

// options holds all configurable fields set via Option functions.
type options struct {
	connectTimeout time.Duration
	callTimeout    time.Duration
	logger         *zap.Logger
	impl           *mcp.Implementation
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (o *options) applyDefaults() {
	if o.connectTimeout == 0 {
		o.connectTimeout = DefaultConnectTimeout
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.impl == nil {
		o.impl = &mcp.Implementation{Name: clientName, Version: clientVersion}
	}
}

// resolveOptions applies all option functions and fills defaults.
func resolveOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	o.applyDefaults()
	return o
}

// WithConnectTimeout bounds per-server setup (connect, handshake, first
// tool listing). Exceeding it fails Start with a *SetupTimeoutError and
// tears down everything established so far. Default: DefaultConnectTimeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) { o.connectTimeout = d }
}

// WithCallTimeout bounds each forwarded tool call. Zero (the default)
// disables the per-call bound; calls are then limited only by the caller's
// context.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) { o.callTimeout = d }
}

// WithLogger sets the logger used for connection lifecycle events.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClientInfo overrides the client identity announced to servers during
// the protocol handshake.
func WithClientInfo(impl *mcp.Implementation) Option {
	return func(o *options) { o.impl = impl }
}
