// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import (
	"net/netip"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func mustAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	a, err := netip.ParseAddr(s)
	if err != nil {
		t.Fatalf("netip.ParseAddr(%q): %v", s, err)
	}
	return a
}

func ip(t *testing.T, s string, prefix uint8) IPRecord {
	return IPRecord{IP: mustAddr(t, s), PrefixLen: prefix}
}

func iface(t *testing.T, index uint32, name, hw string, ips ...IPRecord) Interface {
	set := make(map[IPRecord]struct{}, len(ips))
	for _, r := range ips {
		set[r] = struct{}{}
	}
	return Interface{Index: index, Name: name, HWAddr: hw, IPs: set}
}

func TestInterfaceEqualIgnoresIPOrder(t *testing.T) {
	c := qt.New(t)
	a := iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24), ip(t, "10.0.0.2", 24))
	b := iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.2", 24), ip(t, "10.0.0.1", 24))
	c.Assert(a.Equal(b), qt.IsTrue)
}

func TestInterfaceEqualDistinguishesPrefixLen(t *testing.T) {
	c := qt.New(t)
	a := iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24))
	b := iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 32))
	c.Assert(a.Equal(b), qt.IsFalse)
}

func TestListEqual(t *testing.T) {
	c := qt.New(t)
	l1 := List{1: iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24))}
	l2 := List{1: iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24))}
	c.Assert(l1.Equal(l2), qt.IsTrue)

	l3 := List{1: iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.2", 24))}
	c.Assert(l1.Equal(l3), qt.IsFalse)
}

// TestDiffFromDisjoint is testable property 1 from spec.md §8.
func TestDiffFromDisjoint(t *testing.T) {
	c := qt.New(t)
	prev := List{
		1: iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24)),
		2: iface(t, 2, "eth1", NoHWAddr),
	}
	curr := List{
		1: iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24), ip(t, "10.0.0.2", 24)),
		3: iface(t, 3, "eth2", NoHWAddr),
	}
	diff := diffFrom(curr, prev)
	for idx := range diff.Added {
		_, ok := diff.Removed[idx]
		c.Assert(ok, qt.IsFalse, qt.Commentf("index %d in both Added and Removed", idx))
		_, ok = diff.Modified[idx]
		c.Assert(ok, qt.IsFalse, qt.Commentf("index %d in both Added and Modified", idx))
	}
	for idx := range diff.Removed {
		_, ok := diff.Modified[idx]
		c.Assert(ok, qt.IsFalse, qt.Commentf("index %d in both Removed and Modified", idx))
	}
}

// TestDiffFromIdempotence is testable property 2 from spec.md §8.
func TestDiffFromIdempotence(t *testing.T) {
	c := qt.New(t)
	l := List{
		1: iface(t, 1, "eth0", "AA:BB:CC:DD:EE:FF", ip(t, "10.0.0.1", 24)),
		2: iface(t, 2, "eth1", NoHWAddr),
	}
	diff := diffFrom(l, l)
	c.Assert(diff.Added, qt.HasLen, 0)
	c.Assert(diff.Removed, qt.HasLen, 0)
	c.Assert(diff.Modified, qt.HasLen, 0)
}

// TestDiffFromRoundTrip is testable property 3 from spec.md §8: applying
// the computed addrs_added/addrs_removed to a common index's address set
// reproduces the other side's address set exactly.
func TestDiffFromRoundTrip(t *testing.T) {
	c := qt.New(t)
	a := List{1: iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24), ip(t, "10.0.0.2", 24))}
	b := List{1: iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.2", 24), ip(t, "10.0.0.3", 24))}

	diff := diffFrom(b, a)
	modified, ok := diff.Modified[1]
	c.Assert(ok, qt.IsTrue)

	got := make(map[IPRecord]struct{})
	for r := range a[1].IPs {
		got[r] = struct{}{}
	}
	for r := range modified.AddrsAdded {
		got[r] = struct{}{}
	}
	for r := range modified.AddrsRemoved {
		delete(got, r)
	}

	if diff := cmp.Diff(b[1].IPs, got); diff != "" {
		t.Fatalf("round-tripped address set mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffFromAddedRemoved(t *testing.T) {
	c := qt.New(t)
	prev := List{1: iface(t, 1, "eth0", NoHWAddr)}
	curr := List{2: iface(t, 2, "eth1", NoHWAddr)}

	diff := diffFrom(curr, prev)
	_, ok := diff.Added[2]
	c.Assert(ok, qt.IsTrue)
	_, ok = diff.Removed[1]
	c.Assert(ok, qt.IsTrue)
	c.Assert(diff.Modified, qt.HasLen, 0)
}

func TestDiffFromHWAddrChanged(t *testing.T) {
	c := qt.New(t)
	prev := List{1: iface(t, 1, "eth0", "AA:AA:AA:AA:AA:AA", ip(t, "10.0.0.1", 24))}
	curr := List{1: iface(t, 1, "eth0", "BB:BB:BB:BB:BB:BB", ip(t, "10.0.0.1", 24))}

	diff := diffFrom(curr, prev)
	modified, ok := diff.Modified[1]
	c.Assert(ok, qt.IsTrue)
	c.Assert(modified.HWAddrChanged, qt.IsTrue)
	c.Assert(modified.AddrsAdded, qt.HasLen, 0)
	c.Assert(modified.AddrsRemoved, qt.HasLen, 0)
}

// TestDiffFromRenameOnly exercises spec.md §9's open question: a
// pure rename produces a Modified entry with no address or HWAddr
// signal, since InterfaceDiff has no field to report it.
func TestDiffFromRenameOnly(t *testing.T) {
	c := qt.New(t)
	prev := List{1: iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24))}
	curr := List{1: iface(t, 1, "eth0-renamed", NoHWAddr, ip(t, "10.0.0.1", 24))}

	diff := diffFrom(curr, prev)
	modified, ok := diff.Modified[1]
	c.Assert(ok, qt.IsTrue)
	c.Assert(modified.HWAddrChanged, qt.IsFalse)
	c.Assert(modified.AddrsAdded, qt.HasLen, 0)
	c.Assert(modified.AddrsRemoved, qt.HasLen, 0)
}

// TestDiffFromInitial mirrors spec.md §8 property 5: diffing against a
// nil/empty List puts every index in Added and nothing in Removed or
// Modified.
func TestDiffFromInitial(t *testing.T) {
	c := qt.New(t)
	curr := List{
		1: iface(t, 1, "eth0", NoHWAddr, ip(t, "127.0.0.1", 8)),
		2: iface(t, 2, "eth1", NoHWAddr),
	}
	diff := diffFrom(curr, nil)
	c.Assert(diff.Added, qt.HasLen, len(curr))
	for idx := range curr {
		_, ok := diff.Added[idx]
		c.Assert(ok, qt.IsTrue, qt.Commentf("expected index %d in Added", idx))
	}
	c.Assert(diff.Removed, qt.HasLen, 0)
	c.Assert(diff.Modified, qt.HasLen, 0)
}

func TestInterfaceClone(t *testing.T) {
	c := qt.New(t)
	orig := iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24))
	clone := orig.Clone()
	for r := range clone.IPs {
		delete(clone.IPs, r)
	}
	c.Assert(orig.IPs, qt.HasLen, 1)
}

func TestListClone(t *testing.T) {
	c := qt.New(t)
	orig := List{1: iface(t, 1, "eth0", NoHWAddr, ip(t, "10.0.0.1", 24))}
	clone := orig.Clone()
	delete(clone, 1)
	_, ok := orig[1]
	c.Assert(ok, qt.IsTrue)
}
