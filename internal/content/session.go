package content

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/renderinc/practice-blog/internal/catalog"
)

// Session tracks the content load for one detail view. Each Load captures a
// generation token; its outcome is applied only if no later Load or Close
// happened in the meantime.
type Session struct {
	id      string
	catalog *catalog.Catalog
	loader  *Loader

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current Result
	closed  bool
	subs    []chan Result
}

// NewSession opens an idle session. Log lines from its loads carry the
// session id.
func NewSession(c *catalog.Catalog, l *Loader) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		catalog: c,
		loader:  l.forSession(id),
		current: idle(),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Load resolves id, fetches its content and returns the session's state
// once the fetch settles. Starting a new Load cancels the fetch of the
// previous one; the superseded call gets the newer state back, never its own
// outcome. On a closed session Load does nothing and returns an idle result.
func (s *Session) Load(ctx context.Context, id int) Result {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return idle()
	}
	s.gen++
	token := s.gen
	if s.cancel != nil {
		s.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.apply(pending(id))
	s.mu.Unlock()
	defer cancel()

	var res Result
	if post, ok := s.catalog.FindByID(id); ok {
		res = s.loader.Load(loadCtx, &post)
	} else {
		res = s.loader.NotFound(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.gen || s.closed {
		s.loader.logger.Debug("discarding superseded load", "post_id", id)
		return s.current
	}
	s.apply(res)
	s.cancel = nil
	return res
}

// State returns the session's current result
func (s *Session) State() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe returns a channel that receives every applied state. The
// channel holds only the latest state and is closed by Close.
func (s *Session) Subscribe() <-chan Result {
	ch := make(chan Result, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch
	}
	ch <- s.current
	s.subs = append(s.subs, ch)
	return ch
}

// Close ends the session. Any in-flight fetch is cancelled and its result
// discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

// apply must be called with mu held.
func (s *Session) apply(r Result) {
	s.current = r
	for _, ch := range s.subs {
		select {
		case ch <- r:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- r
		}
	}
}
