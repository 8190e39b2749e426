// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build android

package netwatcher

/*
#include <stdlib.h>
#include "watch_android.h"
*/
import "C"

import (
	_ "embed"
	"sync"
	"unsafe"
)

//go:embed android/support/netwatcher.dex
var supportDex []byte

// androidState is process-wide because a JavaVM and the
// ConnectivityManager registration it drives belong to the process,
// not to any one WatchInterfaces caller (original_source/src/watch_android.rs
// keeps the same multiplexing: one Java watcher serves N Rust callbacks).
type androidState struct {
	mu         sync.Mutex
	vm         *C.JavaVM
	ctx        C.jobject // global ref, set by SetAndroidContext
	supportObj C.jobject // global ref, non-nil while >=1 watcher is active
	watchers   map[uint64]*callbackState
	nextID     uint64
}

var android = &androidState{watchers: map[uint64]*callbackState{}}

// SetAndroidContext supplies the JNI environment and Android Context
// that WatchInterfaces needs to register a ConnectivityManager callback
// on Android. It must be called (typically from a JNI_OnLoad or an
// explicit native method invoked by the host app) before the first
// WatchInterfaces call on this platform.
//
// env and ctx are the raw JNIEnv* and jobject Context handed to a JNI
// call from Java; both must be valid for the duration of this call.
func SetAndroidContext(env unsafe.Pointer, ctx unsafe.Pointer) error {
	android.mu.Lock()
	defer android.mu.Unlock()

	var vm *C.JavaVM
	globalCtx := C.netwatcher_android_store_context((*C.JNIEnv)(env), C.jobject(ctx), &vm)
	if vm == nil || globalCtx == 0 {
		return errNoAndroidContext()
	}
	android.vm = vm
	android.ctx = globalCtx
	return nil
}

type androidWatcher struct {
	id uint64
}

func (w *androidWatcher) close() error {
	android.mu.Lock()
	delete(android.watchers, w.id)
	last := len(android.watchers) == 0
	support := android.supportObj
	if last {
		android.supportObj = 0
	}
	vm := android.vm
	android.mu.Unlock()

	if last && support != 0 {
		C.netwatcher_stop_java_watching(vm, support)
	}
	return nil
}

func startWatcher(cb func(Update), cfg *config) (osWatcher, error) {
	logf := withPrefix(cfg.logf, "netwatcher(android): ")

	snapshot, err := enumerate()
	if err != nil {
		return nil, err
	}
	state := newCallbackState(cb, cfg.metrics)
	cb(state.initial(snapshot))

	android.mu.Lock()
	if android.vm == nil {
		android.mu.Unlock()
		return nil, errNoAndroidContext()
	}
	android.nextID++
	id := android.nextID
	android.watchers[id] = state
	isFirst := len(android.watchers) == 1
	vm, ctx := android.vm, android.ctx
	android.mu.Unlock()

	if isFirst {
		support := C.netwatcher_start_java_watching(vm, ctx,
			unsafe.Pointer(&supportDex[0]), C.jsize(len(supportDex)))
		if support == 0 {
			android.mu.Lock()
			delete(android.watchers, id)
			android.mu.Unlock()
			logf("failed to start ConnectivityManager watch via JNI")
			return nil, errJNI("failed to start ConnectivityManager watch")
		}
		android.mu.Lock()
		android.supportObj = support
		android.mu.Unlock()
	}

	return &androidWatcher{id: id}, nil
}

//export goAndroidInterfacesChanged
func goAndroidInterfacesChanged() {
	snap, err := enumerate()
	if err != nil {
		return
	}
	android.mu.Lock()
	states := make([]*callbackState, 0, len(android.watchers))
	for _, s := range android.watchers {
		states = append(states, s)
	}
	android.mu.Unlock()

	for _, s := range states {
		s.handle(snap)
	}
}
