// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build darwin || ios

package netwatcher

/*
#cgo LDFLAGS: -framework Network
#include <stdint.h>
#include <stdlib.h>
#include "watch_apple.h"
*/
import "C"

import (
	"sync"
	"unsafe"
)

// darwinEntry is what the process-wide registry keys on a token:
// enough to resnapshot, diff and log without smuggling a Go pointer
// across the cgo boundary (cgo's pointer-passing rules forbid that;
// an integer token plus a Go-side map is the standard workaround).
type darwinEntry struct {
	state *callbackState
	logf  Logf
	m     *Metrics
}

var (
	darwinRegistryMu sync.Mutex
	darwinRegistry   = map[uintptr]*darwinEntry{}
	darwinNextToken  uintptr
)

// darwinWatcher owns the nw_path_monitor_t handed back by nwm_start.
// Network.framework documents nw_path_monitor_cancel as asynchronous,
// so — unlike Linux's pipe-join or Windows's CancelMibChangeNotify2 —
// Close here cannot strictly guarantee no callback fires after it
// returns. This is spec.md §9's open question: "whether 'no callback
// after Drop' is strictly observable on macOS is unclear."
type darwinWatcher struct {
	token   uintptr
	monitor unsafe.Pointer
}

func (w *darwinWatcher) close() error {
	C.nwm_cancel(w.monitor)
	darwinRegistryMu.Lock()
	delete(darwinRegistry, w.token)
	darwinRegistryMu.Unlock()
	return nil
}

func startWatcher(cb func(Update), cfg *config) (osWatcher, error) {
	logf := withPrefix(cfg.logf, "netwatcher(apple): ")

	snapshot, err := enumerate()
	if err != nil {
		return nil, err
	}
	state := newCallbackState(cb, cfg.metrics)
	cb(state.initial(snapshot))

	darwinRegistryMu.Lock()
	darwinNextToken++
	token := darwinNextToken
	darwinRegistry[token] = &darwinEntry{state: state, logf: logf, m: cfg.metrics}
	darwinRegistryMu.Unlock()

	monitor := C.nwm_start(C.uintptr_t(token))
	if monitor == nil {
		darwinRegistryMu.Lock()
		delete(darwinRegistry, token)
		darwinRegistryMu.Unlock()
		return nil, errCreateSocket("nw_path_monitor_create failed")
	}

	return &darwinWatcher{token: token, monitor: unsafe.Pointer(monitor)}, nil
}

//export goPathChanged
func goPathChanged(token C.uintptr_t) {
	darwinRegistryMu.Lock()
	entry, ok := darwinRegistry[uintptr(token)]
	darwinRegistryMu.Unlock()
	if !ok {
		// Already torn down; drop the stray notification.
		return
	}
	snap, err := enumerate()
	if err != nil {
		entry.logf("resnapshot failed, retaining previous state: %v", err)
		entry.m.recordError(KindGetifaddrs)
		return
	}
	entry.state.handle(snap)
}
