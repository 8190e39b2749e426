// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import "sync"

// callbackState is the single piece of shared mutable state every
// platform watcher guards with one mutex: the previously delivered
// List and the user's callback. Centralizing it here means the
// coalescing, diffing and ordering guarantees from spec.md §4.2/§5
// (exactly one callback in flight, strictly increasing snapshots, no
// callback when nothing changed) are implemented and tested once,
// instead of once per platform file as the original Rust crate does.
type callbackState struct {
	mu   sync.Mutex
	prev List
	cb   func(Update)
	m    *Metrics
}

func newCallbackState(cb func(Update), m *Metrics) *callbackState {
	return &callbackState{cb: cb, m: m}
}

// initial produces and records the synchronous first Update (diff
// from an empty List), per spec.md §4.2 pre-start step 2. It must be
// called exactly once, before the platform's OS subscription is
// registered, and the caller invokes the callback itself (not under
// any platform lock) with the returned Update.
func (s *callbackState) initial(snapshot List) Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	diff := diffFrom(snapshot, nil)
	s.prev = snapshot
	if s.m != nil {
		s.m.Emitted.Inc()
	}
	return Update{Interfaces: snapshot.Clone(), Diff: diff}
}

// handle implements spec.md §4.2's per-event behavior: if snapshot is
// structurally equal to the retained previous List, the event is
// dropped (coalesced) and the callback does not fire. Otherwise it
// computes the diff, replaces the retained List, and invokes the
// callback while holding the lock — guaranteeing at most one callback
// invocation is ever in flight and that invocations are strictly
// ordered, matching spec.md §5.
func (s *callbackState) handle(snapshot List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snapshot.Equal(s.prev) {
		if s.m != nil {
			s.m.Coalesced.Inc()
		}
		return
	}
	diff := diffFrom(snapshot, s.prev)
	s.prev = snapshot
	if s.m != nil {
		s.m.Emitted.Inc()
	}
	s.cb(Update{Interfaces: snapshot.Clone(), Diff: diff})
}
