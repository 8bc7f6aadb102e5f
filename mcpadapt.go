package mcpadapt

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MCPAdapt combines one or more server specs with a ToolAdapter and yields
// the adapted tool list. It is the entry point of the package.
//
// Tool lists from multiple servers are concatenated in spec order. A name
// collision across servers is preserved as-is — there is no implicit
// namespacing, so two servers exposing the same tool name yield two tools
// with that name.
type MCPAdapt[T any] struct {
	adapter ToolAdapter[T]
	bridge  *bridge

	mu    sync.Mutex
	tools []T
}

// New validates the specs and constructs an MCPAdapt. At least one spec is
// required. No connection is made until Start or WithTools.
func New[T any](adapter ToolAdapter[T], specs []ServerSpec, opts ...Option) (*MCPAdapt[T], error) {
	if adapter == nil {
		return nil, errors.New("mcpadapt: adapter is required")
	}
	if len(specs) == 0 {
		return nil, ErrNoServers
	}
	for _, spec := range specs {
		if err := spec.validate(); err != nil {
			return nil, err
		}
	}
	return &MCPAdapt[T]{
		adapter: adapter,
		bridge:  newBridge(specs, resolveOptions(opts)),
	}, nil
}

// NewSingle is a convenience for the common single-server case.
func NewSingle[T any](adapter ToolAdapter[T], spec ServerSpec, opts ...Option) (*MCPAdapt[T], error) {
	return New(adapter, []ServerSpec{spec}, opts...)
}

// Start connects to every server, waits until all of them are initialized
// (or the connect timeout elapses), and returns the adapted tool list. The
// caller observes readiness through Start returning: no tool is ever
// handed out bound to a partially initialized session.
//
// After a successful Start the sessions run on background goroutines owned
// by this MCPAdapt until Close is called; the returned tools may be invoked
// from any goroutine.
func (a *MCPAdapt[T]) Start(ctx context.Context) ([]T, error) {
	listings, err := a.bridge.start(ctx, true)
	if err != nil {
		return nil, err
	}
	return a.materialize(listings)
}

// Tools returns the tool list from the most recent Start or Refresh.
func (a *MCPAdapt[T]) Tools() ([]T, error) {
	if _, err := a.bridge.snapshot(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]T, len(a.tools))
	copy(out, a.tools)
	return out, nil
}

// Refresh re-queries every server's tool list and rebuilds the adapted
// tools from scratch, surfacing tools the servers added since the last
// listing. Tools returned earlier stay bound to their original forwarding
// callables and keep working, but will not reflect server-side removal —
// discard old references and use the returned list for fresh state.
func (a *MCPAdapt[T]) Refresh(ctx context.Context) ([]T, error) {
	listings, err := a.bridge.refresh(ctx)
	if err != nil {
		return nil, err
	}
	return a.materialize(listings)
}

// Close tears down all sessions and background goroutines. Idempotent;
// tolerates Start never having completed.
func (a *MCPAdapt[T]) Close() error {
	return a.bridge.close()
}

// materialize runs the adapter once per (session, descriptor) pair, in
// spec order, binding a fresh forwarding callable to each tool.
func (a *MCPAdapt[T]) materialize(listings []listing) ([]T, error) {
	var tools []T
	for _, l := range listings {
		for _, tool := range l.tools {
			adapted, err := a.adapter.Adapt(l.session.forward(tool.Name), tool)
			if err != nil {
				return nil, fmt.Errorf("mcpadapt: adapting tool %q from server %q: %w", tool.Name, l.session.name, err)
			}
			tools = append(tools, adapted)
		}
	}
	a.mu.Lock()
	a.tools = tools
	a.mu.Unlock()
	return tools, nil
}

// WithTools scopes a whole acquisition to fn: it connects to every server,
// yields the adapted tools, and tears everything down when fn returns. The
// sessions live on the caller's context — no background goroutines are
// created. If setup fails, fn never runs. A teardown error is joined after
// fn's own error, never masking it.
func WithTools[T any](ctx context.Context, adapter ToolAdapter[T], specs []ServerSpec, fn func(tools []T) error, opts ...Option) (err error) {
	a, err := New(adapter, specs, opts...)
	if err != nil {
		return err
	}

	listings, err := a.bridge.start(ctx, false)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.bridge.close())
	}()

	tools, err := a.materialize(listings)
	if err != nil {
		return err
	}
	return fn(tools)
}
