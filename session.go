package mcpadapt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// callRequest is one unit of work handed to a session worker.
type callRequest struct {
	ctx   context.Context
	name  string
	args  map[string]any
	reply chan callReply
}

type callReply struct {
	result *mcp.CallToolResult
	err    error
}

// session is a live handle to one initialized server connection. It is
// created during bridge start, after the protocol handshake and the first
// tool listing have completed, and is owned exclusively by its bridge.
//
// In owned mode every forwarded call is submitted to the session's worker
// goroutine over the calls channel and the submitter blocks on the reply.
// Calls against the same session are therefore serialized; different
// sessions proceed concurrently. In scoped mode calls is nil and forwarding
// executes directly on the caller's goroutine.
type session struct {
	name        string
	cs          *mcp.ClientSession
	calls       chan *callRequest
	done        chan struct{}
	closeOnce   sync.Once
	closeErr    error
	callTimeout time.Duration
	log         *zap.Logger
}

// connectSession establishes the transport, performs the handshake, and
// runs the first tool listing. The returned session is fully initialized;
// no session is ever exposed in an earlier state.
func connectSession(ctx context.Context, spec ServerSpec, o options) (*session, []*mcp.Tool, error) {
	tr, err := spec.transport()
	if err != nil {
		return nil, nil, err
	}

	client := mcp.NewClient(o.impl, nil)
	cs, err := client.Connect(ctx, tr, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: server %q: %v", ErrConnect, spec.Name, err)
	}

	res, err := cs.ListTools(ctx, nil)
	if err != nil {
		cs.Close()
		return nil, nil, fmt.Errorf("%w: server %q: listing tools: %v", ErrConnect, spec.Name, err)
	}

	s := &session{
		name:        spec.Name,
		cs:          cs,
		done:        make(chan struct{}),
		callTimeout: o.callTimeout,
		log:         o.logger.With(zap.String("server", spec.Name)),
	}
	s.log.Debug("session initialized", zap.Int("tools", len(res.Tools)))
	return s, res.Tools, nil
}

// serve runs the session's worker loop. It exits when the session is
// closed. Each request is executed to completion before the next one is
// picked up, so calls through this session never reorder.
func (s *session) serve() {
	for {
		select {
		case <-s.done:
			return
		case req := <-s.calls:
			result, err := s.execute(req.ctx, req.name, req.args)
			req.reply <- callReply{result: result, err: err}
		}
	}
}

// execute performs one tool call, applying the per-call timeout if set.
func (s *session) execute(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	result, err := s.cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("mcpadapt: calling tool %q on server %q: %w", name, s.name, err)
	}
	return result, nil
}

// call forwards one invocation. In owned mode the request is handed to the
// worker; in scoped mode it executes directly.
func (s *session) call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	if s.calls == nil {
		select {
		case <-s.done:
			return nil, fmt.Errorf("%w: server %q", ErrClosed, s.name)
		default:
		}
		return s.execute(ctx, name, args)
	}

	req := &callRequest{ctx: ctx, name: name, args: args, reply: make(chan callReply, 1)}
	select {
	case s.calls <- req:
	case <-s.done:
		return nil, fmt.Errorf("%w: server %q", ErrClosed, s.name)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case rep := <-req.reply:
		return rep.result, rep.err
	case <-s.done:
		return nil, fmt.Errorf("%w: server %q", ErrClosed, s.name)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// forward binds a tool name to this session. The callable is rebuilt fresh
// on every (re)materialization of the tool list.
func (s *session) forward(name string) CallTool {
	return func(ctx context.Context, args map[string]any) (*mcp.CallToolResult, error) {
		if args == nil {
			args = map[string]any{}
		}
		return s.call(ctx, name, args)
	}
}

// listTools re-queries the server's current tool set.
func (s *session) listTools(ctx context.Context) ([]*mcp.Tool, error) {
	select {
	case <-s.done:
		return nil, fmt.Errorf("%w: server %q", ErrClosed, s.name)
	default:
	}
	res, err := s.cs.ListTools(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: server %q: listing tools: %v", ErrConnect, s.name, err)
	}
	return res.Tools, nil
}

// close tears the session down. Idempotent; safe to call whether or not a
// worker was ever started. Closing done first unblocks any caller waiting
// in call before the underlying connection is dropped.
func (s *session) close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = s.cs.Close()
		s.log.Debug("session closed")
	})
	return s.closeErr
}
