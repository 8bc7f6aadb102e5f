package mcpadapt

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/looplab/fsm"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Bridge lifecycle states.
const (
	stateUnstarted  = "unstarted"
	stateStarting   = "starting"
	stateReady      = "ready"
	stateRefreshing = "refreshing"
	stateClosing    = "closing"
	stateClosed     = "closed"
)

// listing is one session's tool snapshot at a point in time. Tool identity
// is never cached beyond a single snapshot; a refresh produces new listings
// from scratch.
type listing struct {
	session *session
	tools   []*mcp.Tool
}

// bridge owns one session per server spec and manages their shared
// lifecycle: start (connect, handshake, first listing — bounded by the
// connect timeout), refresh, and teardown. Sessions are never shared
// between bridges.
type bridge struct {
	specs []ServerSpec
	opts  options
	log   *zap.Logger

	mu       sync.Mutex
	machine  *fsm.FSM
	sessions []*session
	listings []listing
	wg       sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

func newBridge(specs []ServerSpec, o options) *bridge {
	// Unnamed specs get positional names for errors and logs.
	named := make([]ServerSpec, len(specs))
	for i, spec := range specs {
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("server%d", i)
		}
		named[i] = spec
	}

	b := &bridge{specs: named, opts: o, log: o.logger}
	b.machine = fsm.NewFSM(
		stateUnstarted,
		fsm.Events{
			{Name: "start", Src: []string{stateUnstarted}, Dst: stateStarting},
			{Name: "ready", Src: []string{stateStarting, stateRefreshing}, Dst: stateReady},
			{Name: "refresh", Src: []string{stateReady}, Dst: stateRefreshing},
			{Name: "close", Src: []string{stateUnstarted, stateStarting, stateReady, stateRefreshing}, Dst: stateClosing},
			{Name: "closed", Src: []string{stateClosing}, Dst: stateClosed},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				b.log.Debug("bridge state", zap.String("from", e.Src), zap.String("to", e.Dst))
			},
		},
	)
	return b
}

// start establishes one session per spec concurrently, so total startup
// latency is bounded by the slowest server rather than the sum. Each
// session must finish transport connect, protocol handshake, and its first
// tool listing within the connect timeout. On any failure everything
// already established is torn down and no session worker survives.
//
// With owned set, each session gets a dedicated worker goroutine that
// serializes forwarded calls; without it (scoped mode) calls execute
// directly on the caller's goroutine.
func (b *bridge) start(ctx context.Context, owned bool) ([]listing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.machine.Event(ctx, "start"); err != nil {
		if b.machine.Is(stateClosed) || b.machine.Is(stateClosing) {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("mcpadapt: already started (state %s)", b.machine.Current())
	}

	setupCtx, cancel := context.WithTimeout(ctx, b.opts.connectTimeout)
	defer cancel()

	results := make([]listing, len(b.specs))
	g, gctx := errgroup.WithContext(setupCtx)
	for i, spec := range b.specs {
		g.Go(func() error {
			s, tools, err := connectSession(gctx, spec, b.opts)
			if err != nil {
				return err
			}
			results[i] = listing{session: s, tools: tools}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, r := range results {
			if r.session != nil {
				r.session.close()
			}
		}
		b.machine.SetState(stateClosed)

		if errors.Is(setupCtx.Err(), context.DeadlineExceeded) {
			return nil, &SetupTimeoutError{Server: pendingSpec(b.specs, results), Timeout: b.opts.connectTimeout}
		}
		return nil, err
	}

	for _, r := range results {
		b.sessions = append(b.sessions, r.session)
		if owned {
			r.session.calls = make(chan *callRequest)
			b.wg.Add(1)
			go func(s *session) {
				defer b.wg.Done()
				s.serve()
			}(r.session)
		}
	}
	b.listings = results

	if err := b.machine.Event(ctx, "ready"); err != nil {
		return nil, err
	}
	return results, nil
}

// pendingSpec names the first spec whose session did not come up, for the
// timeout message.
func pendingSpec(specs []ServerSpec, results []listing) string {
	for i, r := range results {
		if r.session == nil {
			return specs[i].Name
		}
	}
	return ""
}

// refresh re-queries every live session's tool list and replaces the
// stored snapshots. Previously handed-out forwarding callables stay bound
// to their sessions and keep working; they simply no longer appear in the
// new listings if the server dropped them.
func (b *bridge) refresh(ctx context.Context) ([]listing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.machine.Event(ctx, "refresh"); err != nil {
		switch {
		case b.machine.Is(stateClosed) || b.machine.Is(stateClosing):
			return nil, ErrClosed
		case b.machine.Is(stateUnstarted) || b.machine.Is(stateStarting):
			return nil, ErrNotStarted
		}
		return nil, err
	}
	// Whatever happens below the bridge stays usable.
	defer b.machine.Event(context.Background(), "ready") //nolint:errcheck

	results := make([]listing, len(b.sessions))
	for i, s := range b.sessions {
		tools, err := s.listTools(ctx)
		if err != nil {
			return nil, err
		}
		results[i] = listing{session: s, tools: tools}
	}
	b.listings = results
	return results, nil
}

// snapshot returns the most recent listings.
func (b *bridge) snapshot() ([]listing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.machine.Is(stateClosed) || b.machine.Is(stateClosing):
		return nil, ErrClosed
	case b.listings == nil:
		return nil, ErrNotStarted
	}
	return b.listings, nil
}

// close tears down every session and joins the session workers. The join
// is unbounded: workers only block inside context-aware calls that abort
// when their connection drops, so it terminates promptly. Close is
// idempotent and tolerates setup never having completed.
func (b *bridge) close() error {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		if err := b.machine.Event(context.Background(), "close"); err != nil {
			// Already terminal (e.g. start timed out); nothing to tear down.
			b.mu.Unlock()
			return
		}
		sessions := b.sessions
		b.sessions = nil
		b.listings = nil
		b.mu.Unlock()

		var errs []error
		for _, s := range sessions {
			if err := s.close(); err != nil {
				errs = append(errs, fmt.Errorf("closing server %q: %w", s.name, err))
			}
		}
		b.wg.Wait()

		b.mu.Lock()
		b.machine.Event(context.Background(), "closed") //nolint:errcheck
		b.mu.Unlock()
		b.closeErr = errors.Join(errs...)
	})
	return b.closeErr
}
