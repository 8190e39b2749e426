// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

type fakeOSWatcher struct {
	closes int
	err    error
}

func (f *fakeOSWatcher) close() error {
	f.closes++
	return f.err
}

// TestHandleCloseOnce is spec.md §8 property 6's sync.Once half: Close
// must only ever tear down the underlying watcher once, however many
// times it's called.
func TestHandleCloseOnce(t *testing.T) {
	c := qt.New(t)
	f := &fakeOSWatcher{}
	h := &Handle{w: f}

	c.Assert(h.Close(), qt.IsNil)
	c.Assert(h.Close(), qt.IsNil)
	c.Assert(h.Close(), qt.IsNil)
	c.Assert(f.closes, qt.Equals, 1)
}

func TestHandleCloseReturnsErrorOnce(t *testing.T) {
	c := qt.New(t)
	sentinel := errors.New("cancellation failed")
	f := &fakeOSWatcher{err: sentinel}
	h := &Handle{w: f}

	c.Assert(h.Close(), qt.ErrorIs, sentinel)
	// Subsequent calls replay the same recorded error without calling
	// close() again.
	c.Assert(h.Close(), qt.ErrorIs, sentinel)
	c.Assert(f.closes, qt.Equals, 1)
}
