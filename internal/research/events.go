// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"fmt"

	"github.com/pdiddy/webresearch/pkg/types"
)

// EventType discriminates session events.
type EventType string

const (
	// EventProgress is emitted on every phase transition and after every
	// executed search.
	EventProgress EventType = "progress"

	// EventDone is emitted once when a session resolves to completed or
	// insufficient_results. It carries the synthesized context.
	EventDone EventType = "done"

	// EventError is emitted once when a session fails.
	EventError EventType = "error"
)

// Event is one entry in a session's event stream.
type Event struct {
	Type      EventType
	SessionID string

	// Progress is set on progress events.
	Progress *ProgressSnapshot

	// Context is set on done events; it may describe partial results when
	// the session resolved to insufficient_results.
	Context *types.ResearchContext

	// Success is true on done events for fully completed sessions and false
	// when the session resolved with limited results.
	Success bool

	// Message carries the failure description on error events.
	Message string
}

// subscriberBuffer is the channel depth per subscriber. A subscriber that
// falls this far behind loses intermediate progress events rather than
// blocking the session.
const subscriberBuffer = 16

// Subscribe attaches a new subscriber to the session's event stream and
// returns the receive channel plus an unsubscribe function. Any number of
// subscribers may attach to one session. The channel is closed when the
// session reaches a terminal state or the subscriber unsubscribes; for an
// already-terminal session it is closed immediately.
func (e *Engine) Subscribe(sessionID string) (<-chan Event, func(), error) {
	s, ok := e.sessions.Get(sessionID)
	if !ok {
		return nil, nil, fmt.Errorf("unknown session %q", sessionID)
	}

	ch := make(chan Event, subscriberBuffer)

	s.mu.Lock()
	if s.subsClosed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}, nil
	}
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.subsClosed {
			return
		}
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, unsubscribe, nil
}

// publish fans the event out to every subscriber without blocking. Slow
// subscribers drop events. The lock is held across the sends so that
// unsubscribe and closeSubs cannot close a channel mid-fan-out; the sends
// themselves never block, so holding it is safe.
func (s *session) publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// closeSubs closes every subscriber channel after the terminal event has
// been delivered. Idempotent.
func (s *session) closeSubs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subsClosed {
		return
	}
	s.subsClosed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}
