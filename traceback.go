// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// Traceback is a failure snapshot recorded in debug mode, referenced
// from error payloads through an opaque /debug/<id> token and consumed
// by an external debugger.
type Traceback struct {
	// ID is the opaque token the snapshot is stored under.
	ID int64

	// Method is the method that failed, empty when the failure happened
	// outside a method call.
	Method string

	// Message is the failure's message.
	Message string

	// Stack is the formatted stack of the dispatching goroutine at
	// capture time.
	Stack string

	// Time is the capture time.
	Time time.Time
}

// tracebackStore holds debug snapshots keyed by a fresh integer id.
//
// Unlike the method table, the store is written during normal request
// processing from arbitrary dispatch goroutines, so every access takes
// the lock.
type tracebackStore struct {
	seq atomic.Int64

	mu        sync.Mutex // protects the snapshots map
	snapshots map[int64]*Traceback
}

func (s *tracebackStore) store(method string, err error) *Traceback {
	tb := &Traceback{
		ID:      s.seq.Inc(),
		Method:  method,
		Message: err.Error(),
		Stack:   string(debug.Stack()),
		Time:    time.Now(),
	}

	s.mu.Lock()
	if s.snapshots == nil {
		s.snapshots = make(map[int64]*Traceback)
	}
	s.snapshots[tb.ID] = tb
	s.mu.Unlock()

	return tb
}

func (s *tracebackStore) lookup(id int64) (*Traceback, bool) {
	s.mu.Lock()
	tb, ok := s.snapshots[id]
	s.mu.Unlock()
	return tb, ok
}

// storeTraceback captures a snapshot for err and returns the debug_url
// token referencing it.
func (r *Registry) storeTraceback(method string, err error) string {
	tb := r.tracebacks.store(method, err)
	return fmt.Sprintf("/debug/%d", tb.ID)
}

// Traceback returns the snapshot stored under id. It is the read side
// used by the debugger collaborator.
func (r *Registry) Traceback(id int64) (*Traceback, bool) {
	return r.tracebacks.lookup(id)
}
