// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package netwatcher

import (
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// iphlpapi.dll exposes no high-level wrapper in golang.org/x/sys/windows
// for unicast address change notifications, so we bind the two procs we
// need directly — the same lazy-DLL pattern tailscale's own Windows
// backends use for APIs x/sys/windows hasn't caught up with yet.
var (
	modiphlpapi                      = windows.NewLazySystemDLL("iphlpapi.dll")
	procNotifyUnicastIpAddressChange = modiphlpapi.NewProc("NotifyUnicastIpAddressChange")
	procCancelMibChangeNotify2       = modiphlpapi.NewProc("CancelMibChangeNotify2")
)

const afUnspec = 0

// windowsWatcher wraps the HANDLE returned by NotifyUnicastIpAddressChange.
// CancelMibChangeNotify2 blocks until any in-flight callback returns, so
// Close provides the same synchronous "no callback after return"
// guarantee as the Linux watcher.
type windowsWatcher struct {
	handle windows.Handle
	ctx    uintptr
}

func (w *windowsWatcher) close() error {
	r, _, _ := procCancelMibChangeNotify2.Call(uintptr(w.handle))
	windowsRegistryMu.Lock()
	delete(windowsRegistry, w.ctx)
	windowsRegistryMu.Unlock()
	if r != 0 {
		return errUnexpectedWindowsResult(uint32(r))
	}
	return nil
}

// windowsEntry is looked up from the registry by the callback's context
// pointer, mirroring darwinEntry's token-indirection: the context we
// hand the OS is a stable *windowsEntry address, not a Go value passed
// directly across the callback boundary.
type windowsEntry struct {
	state *callbackState
	logf  Logf
	m     *Metrics
}

var (
	windowsRegistryMu sync.Mutex
	windowsRegistry   = map[uintptr]*windowsEntry{}
)

func startWatcher(cb func(Update), cfg *config) (osWatcher, error) {
	logf := withPrefix(cfg.logf, "netwatcher(windows): ")

	snapshot, err := enumerate()
	if err != nil {
		return nil, err
	}
	state := newCallbackState(cb, cfg.metrics)
	cb(state.initial(snapshot))

	entry := &windowsEntry{state: state, logf: logf, m: cfg.metrics}
	ctx := uintptr(unsafe.Pointer(entry))

	windowsRegistryMu.Lock()
	windowsRegistry[ctx] = entry
	windowsRegistryMu.Unlock()

	var handle windows.Handle
	r, _, _ := procNotifyUnicastIpAddressChange.Call(
		uintptr(afUnspec),
		windowsNotifyCallback,
		ctx,
		0, // initialNotification = FALSE
		uintptr(unsafe.Pointer(&handle)),
	)

	switch syscall.Errno(r) {
	case 0:
		return &windowsWatcher{handle: handle, ctx: ctx}, nil
	case windows.ERROR_INVALID_HANDLE:
		windowsRegistryMu.Lock()
		delete(windowsRegistry, ctx)
		windowsRegistryMu.Unlock()
		return nil, errInvalidHandle()
	case windows.ERROR_INVALID_PARAMETER:
		windowsRegistryMu.Lock()
		delete(windowsRegistry, ctx)
		windowsRegistryMu.Unlock()
		return nil, errInvalidParameter()
	case windows.ERROR_NOT_ENOUGH_MEMORY:
		windowsRegistryMu.Lock()
		delete(windowsRegistry, ctx)
		windowsRegistryMu.Unlock()
		return nil, errNotEnoughMemory()
	default:
		windowsRegistryMu.Lock()
		delete(windowsRegistry, ctx)
		windowsRegistryMu.Unlock()
		return nil, errUnexpectedWindowsResult(uint32(r))
	}
}

// windowsNotifyCallback is a PUNICAST_IPADDRESS_CHANGE_CALLBACK, bound
// once at package init via syscall.NewCallback. The row and notification
// type arguments are deliberately unread: per spec.md §4.5/§9, we
// resnapshot and diff rather than parse the notification payload.
var windowsNotifyCallback = syscall.NewCallback(func(callerContext uintptr, _ uintptr, _ uint32) uintptr {
	windowsRegistryMu.Lock()
	entry, ok := windowsRegistry[callerContext]
	windowsRegistryMu.Unlock()
	if !ok {
		return 0
	}

	snap, err := enumerate()
	if err != nil {
		// ERROR_ADDRESS_NOT_ASSOCIATED can surface transiently while an
		// adapter is being reconfigured (spec.md §9 open question);
		// treat it like any other transient enumeration failure.
		entry.logf("resnapshot failed, retaining previous state: %v", err)
		entry.m.recordError(KindGetifaddrs)
		return 0
	}
	entry.state.handle(snap)
	return 0
})
