package service

import (
	"context"
	"sync"

	"github.com/smartclinic/clinic-portal/internal/pkg/metrics"
)

// Ticket identifies one query issued against a mounted view.
type Ticket struct {
	SessionID string
	Seq       uint64
	mount     uint64
}

type mountedView[T any] struct {
	mount    uint64
	issued   uint64
	applied  uint64
	value    T
	inflight map[uint64]context.CancelFunc
}

// Sequencer guards one kind of view per session against stale responses.
// Only a result whose ticket is newer than the last committed one, and whose
// mount is still live, is applied.
type Sequencer[T any] struct {
	name string

	mu     sync.Mutex
	mounts uint64
	views  map[string]*mountedView[T]
}

func NewSequencer[T any](name string) *Sequencer[T] {
	return &Sequencer[T]{name: name, views: make(map[string]*mountedView[T])}
}

// Begin issues the next ticket for sessionID's view, mounting it if needed.
// The returned context is cancelled when parent is done or the view is
// unmounted; release must be called once the query finishes.
func (s *Sequencer[T]) Begin(parent context.Context, sessionID string) (Ticket, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	v := s.mountLocked(sessionID)
	v.issued++
	t := Ticket{SessionID: sessionID, Seq: v.issued, mount: v.mount}
	v.inflight[t.Seq] = cancel
	s.mu.Unlock()

	return t, ctx, func() {
		s.mu.Lock()
		delete(v.inflight, t.Seq)
		s.mu.Unlock()
		cancel()
	}
}

func (s *Sequencer[T]) mountLocked(sessionID string) *mountedView[T] {
	if v, ok := s.views[sessionID]; ok {
		return v
	}
	s.mounts++
	v := &mountedView[T]{mount: s.mounts, inflight: make(map[uint64]context.CancelFunc)}
	s.views[sessionID] = v
	return v
}

// Commit applies value for t if t is still the newest result of a live
// mount. It returns the value the view holds afterwards and whether value
// was the one applied.
func (s *Sequencer[T]) Commit(t Ticket, value T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[t.SessionID]
	if !ok || v.mount != t.mount {
		metrics.ResponsesDiscardedTotal.WithLabelValues(s.name, "unmounted").Inc()
		var zero T
		return zero, false
	}
	if t.Seq <= v.applied {
		metrics.ResponsesDiscardedTotal.WithLabelValues(s.name, "stale").Inc()
		return v.value, false
	}
	v.applied = t.Seq
	v.value = value
	return v.value, true
}

// Current returns the committed value of sessionID's view.
func (s *Sequencer[T]) Current(sessionID string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[sessionID]
	if !ok || v.applied == 0 {
		var zero T
		return zero, false
	}
	return v.value, true
}

// Update rewrites the committed value in place. Queries issued before the
// update become stale so they cannot overwrite it. It does nothing when the
// view has no committed value.
func (s *Sequencer[T]) Update(sessionID string, fn func(T) T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[sessionID]
	if !ok || v.applied == 0 {
		var zero T
		return zero, false
	}
	v.applied = v.issued
	v.value = fn(v.value)
	return v.value, true
}

// Unmount cancels in-flight queries of sessionID's view and forgets it.
// Their contexts are done by the time Unmount returns, and results that
// arrive afterwards are discarded.
func (s *Sequencer[T]) Unmount(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.views[sessionID]
	if !ok {
		return
	}
	delete(s.views, sessionID)
	for seq, cancel := range v.inflight {
		cancel()
		delete(v.inflight, seq)
	}
}
