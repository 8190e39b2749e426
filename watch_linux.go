// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux && !android

package netwatcher

import (
	"sync"
	"time"

	"github.com/tailscale/netlink"
)

// linuxWatcher subscribes to rtnetlink link and address multicast
// groups (RTMGRP_LINK | RTMGRP_IPV4_IFADDR | RTMGRP_IPV6_IFADDR in raw
// socket terms; github.com/tailscale/netlink's LinkSubscribe/
// AddrSubscribe do the socket setup and group join for us). Per
// spec.md §4.3/§9 ("No parsing of netlink messages"), the content of
// each update is never inspected beyond "something happened" — we
// resnapshot and diff, the same deliberate simplification
// original_source/src/watch_linux.rs makes and Metaswitch-calico's
// ifacemonitor.resync rationale ("not clear what the ordering
// guarantees are") independently arrives at.
type linuxWatcher struct {
	done chan struct{}
	wg   sync.WaitGroup
}

func (w *linuxWatcher) close() error {
	close(w.done)
	w.wg.Wait()
	return nil
}

func startWatcher(cb func(Update), cfg *config) (osWatcher, error) {
	logf := withPrefix(cfg.logf, "netwatcher(linux): ")

	snapshot, err := enumerate()
	if err != nil {
		return nil, err
	}
	state := newCallbackState(cb, cfg.metrics)
	cb(state.initial(snapshot))

	linkUpdates := make(chan netlink.LinkUpdate, 16)
	addrUpdates := make(chan netlink.AddrUpdate, 16)
	done := make(chan struct{})

	if err := netlink.LinkSubscribe(linkUpdates, done); err != nil {
		return nil, errCreateSocket(err.Error())
	}
	if err := netlink.AddrSubscribe(addrUpdates, done); err != nil {
		close(done)
		return nil, errBind(err.Error())
	}

	w := &linuxWatcher{done: done}
	w.wg.Add(1)
	go w.run(linkUpdates, addrUpdates, state, cfg, logf)
	return w, nil
}

func (w *linuxWatcher) run(
	linkUpdates <-chan netlink.LinkUpdate,
	addrUpdates <-chan netlink.AddrUpdate,
	state *callbackState,
	cfg *config,
	logf Logf,
) {
	defer w.wg.Done()

	var resyncC <-chan time.Time
	if cfg.resyncInterval > 0 {
		ticker := time.NewTicker(cfg.resyncInterval)
		defer ticker.Stop()
		resyncC = ticker.C
	}

	resnapshot := func() {
		snap, err := enumerate()
		if err != nil {
			// Transient failure: per spec.md §4.1, swallow and keep
			// the retained previous state; the next successful
			// notification will catch up.
			logf("resnapshot failed, retaining previous state: %v", err)
			cfg.metrics.recordError(KindGetifaddrs)
			return
		}
		state.handle(snap)
	}

	for {
		select {
		case _, ok := <-linkUpdates:
			if !ok {
				return
			}
			resnapshot()
		case _, ok := <-addrUpdates:
			if !ok {
				return
			}
			resnapshot()
		case <-resyncC:
			resnapshot()
		case <-w.done:
			return
		}
	}
}
