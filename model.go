// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package netwatcher enumerates local network interfaces and watches
// them for change, delivering structured diffs via a callback. It
// hooks into each operating system's native change-notification
// mechanism, so a quiet network costs nothing: no polling, no wakeups.
package netwatcher

import "net/netip"

// IPRecord is a single IP address and the prefix length of the subnet
// it was assigned from. Two records with the same address but
// different prefix lengths are distinct.
type IPRecord struct {
	IP        netip.Addr
	PrefixLen uint8
}

// Interface describes one network interface at a point in time.
//
// HWAddr is a colon-separated uppercase hex MAC address
// ("XX:XX:XX:XX:XX:XX"), or the sentinel NoHWAddr when the platform
// hides it (Android, for privacy, or when there is no link-layer
// address at all).
type Interface struct {
	Index  uint32
	Name   string
	HWAddr string
	IPs    map[IPRecord]struct{}
}

// Equal reports whether two Interfaces are structurally equal. The
// order IPs were observed in is irrelevant; the set of addresses is
// what's compared.
func (a Interface) Equal(b Interface) bool {
	if a.Index != b.Index || a.Name != b.Name || a.HWAddr != b.HWAddr {
		return false
	}
	if len(a.IPs) != len(b.IPs) {
		return false
	}
	for ip := range a.IPs {
		if _, ok := b.IPs[ip]; !ok {
			return false
		}
	}
	return true
}

// cloneIPs returns an independent copy of an IP set, so that List
// values handed to a callback never alias mutable state held by a
// watcher.
func cloneIPs(ips map[IPRecord]struct{}) map[IPRecord]struct{} {
	out := make(map[IPRecord]struct{}, len(ips))
	for ip := range ips {
		out[ip] = struct{}{}
	}
	return out
}

// Clone returns a deep copy of the Interface, safe to retain
// independently of the one it was copied from.
func (a Interface) Clone() Interface {
	a.IPs = cloneIPs(a.IPs)
	return a
}

// List is a point-in-time snapshot of all known interfaces, keyed by
// OS interface index. A List is immutable once produced by an
// Enumerator: every function here that transforms a List returns a
// new one.
type List map[uint32]Interface

// Clone returns a deep copy of l.
func (l List) Clone() List {
	out := make(List, len(l))
	for idx, iface := range l {
		out[idx] = iface.Clone()
	}
	return out
}

// Equal reports whether two Lists describe the same interfaces.
func (l List) Equal(o List) bool {
	if len(l) != len(o) {
		return false
	}
	for idx, iface := range l {
		oiface, ok := o[idx]
		if !ok || !iface.Equal(oiface) {
			return false
		}
	}
	return true
}

// Update is delivered to the user's callback: the full current
// interface list, plus a diff describing what changed since the
// previous Update (or, for the very first Update, what changed since
// an empty List).
type Update struct {
	Interfaces List
	Diff       UpdateDiff
}

// UpdateDiff is the structural delta between two Lists.
//
// Added, Removed and the keys of Modified are always pairwise
// disjoint. Modified holds an entry for index i iff i is present in
// both Lists and the two Interfaces differ in some field; note that a
// pure rename (only Name differs) still produces a Modified entry,
// with HWAddrChanged false and both address sets empty, since
// InterfaceDiff has no field that reports a name change.
type UpdateDiff struct {
	Added    map[uint32]struct{}
	Removed  map[uint32]struct{}
	Modified map[uint32]InterfaceDiff
}

// InterfaceDiff describes what changed about one interface that is
// present in both the previous and current List.
type InterfaceDiff struct {
	HWAddrChanged bool
	AddrsAdded    map[IPRecord]struct{}
	AddrsRemoved  map[IPRecord]struct{}
}

// diffFrom computes the UpdateDiff describing how curr differs from
// prev. This is the one piece of arithmetic every platform watcher
// agrees on; see callbackstate.go for where it's invoked under lock.
func diffFrom(curr, prev List) UpdateDiff {
	diff := UpdateDiff{
		Added:    make(map[uint32]struct{}),
		Removed:  make(map[uint32]struct{}),
		Modified: make(map[uint32]InterfaceDiff),
	}
	for idx := range curr {
		if _, ok := prev[idx]; !ok {
			diff.Added[idx] = struct{}{}
		}
	}
	for idx := range prev {
		if _, ok := curr[idx]; !ok {
			diff.Removed[idx] = struct{}{}
		}
	}
	for idx, ci := range curr {
		pi, ok := prev[idx]
		if !ok || ci.Equal(pi) {
			continue
		}
		added := make(map[IPRecord]struct{})
		removed := make(map[IPRecord]struct{})
		for ip := range ci.IPs {
			if _, ok := pi.IPs[ip]; !ok {
				added[ip] = struct{}{}
			}
		}
		for ip := range pi.IPs {
			if _, ok := ci.IPs[ip]; !ok {
				removed[ip] = struct{}{}
			}
		}
		diff.Modified[idx] = InterfaceDiff{
			HWAddrChanged: ci.HWAddr != pi.HWAddr,
			AddrsAdded:    added,
			AddrsRemoved:  removed,
		}
	}
	return diff
}
