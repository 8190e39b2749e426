// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import "sync"

// osWatcher is the interface each operating system-specific watcher
// implementation satisfies. It plays the role of the teacher's osMon
// interface in net/netmon.go, simplified to this package's needs: a
// platform watcher has already registered for OS notifications and
// delivered the initial callback by the time it's returned, so the
// only operation left to model is teardown.
type osWatcher interface {
	// close cancels the OS subscription and blocks until any
	// in-flight callback has completed and no further callback will
	// ever fire, per spec.md §4.7. darwinWatcher's close does not
	// wait; see its comment.
	close() error
}

// Handle is an opaque token for an active watch started by
// WatchInterfaces. Call Close when you no longer want callbacks; it
// blocks until teardown is complete and guarantees no callback fires
// after it returns. On macOS and iOS, Network.framework cancels
// asynchronously, so a notification already being handled when Close
// runs can still deliver one callback after Close returns.
//
// Do not call Close from within the watch callback itself — on Linux
// and Windows this blocks forever, because Close waits for the very
// callback invocation that's calling it to finish.
type Handle struct {
	closeOnce sync.Once
	closeErr  error
	w         osWatcher
}

// Close cancels the underlying OS subscription and waits for any
// in-flight callback to finish. It is safe to call more than once;
// only the first call does any work.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		h.closeErr = h.w.close()
	})
	return h.closeErr
}

// ListInterfaces returns a one-off snapshot of all up interfaces and
// their IP addresses. For change notification over time, use
// WatchInterfaces instead.
func ListInterfaces() (List, error) {
	return enumerate()
}

// WatchInterfaces starts watching the local network interfaces for
// change. cb fires synchronously, once, before WatchInterfaces
// returns, with the initial snapshot and a diff as if there were
// previously no interfaces. After that it fires from a background
// goroutine (or OS-provided dispatch queue/thread pool) whenever the
// interface list actually changes; redundant OS notifications that
// don't change anything are silently coalesced.
//
// cb must not block indefinitely and must not call Close on the
// returned Handle.
//
// If the initial enumeration fails, the error is returned and cb is
// never called. If registering the platform subscription fails after
// that, the error is returned and cb, which has already received the
// initial Update, is not called again.
func WatchInterfaces(cb func(Update), opts ...Option) (*Handle, error) {
	cfg := newConfig(opts...)
	w, err := startWatcher(cb, cfg)
	if err != nil {
		return nil, err
	}
	return &Handle{w: w}, nil
}
