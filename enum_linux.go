// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build linux && !android

package netwatcher

import (
	"net"
	"net/netip"

	"github.com/tailscale/netlink"
)

// enumerate implements the Enumerator contract (spec.md §4.1) for
// Linux by asking the kernel for the link and address tables over
// rtnetlink, the same request pair Metaswitch-calico's
// ifacemonitor.resync does (LinkList + AddrList per family). Using
// netlink here instead of cgo getifaddrs(3) avoids cgo entirely on
// Linux and reuses the exact dependency watch_linux.go already needs
// for notifications.
func enumerate() (List, error) {
	return enumerateWithHandle(nil)
}

// enumerateWithHandle queries the link and address tables through h
// when h is non-nil, and through the package-level netlink functions
// when h is nil, which is how enumerate calls it.
func enumerateWithHandle(h *netlink.Handle) (List, error) {
	var links []netlink.Link
	var err error
	if h != nil {
		links, err = h.LinkList()
	} else {
		links, err = netlink.LinkList()
	}
	if err != nil {
		return nil, errGetifaddrs(err.Error())
	}

	out := make(List, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		if attrs == nil {
			continue
		}
		if attrs.Flags&net.FlagUp == 0 {
			// Administratively down: filtered out per spec.md §3.
			continue
		}
		hwAddr := NoHWAddr
		if len(attrs.HardwareAddr) > 0 {
			if s, err := formatMAC(attrs.HardwareAddr); err == nil {
				hwAddr = s
			}
		}
		ips := map[IPRecord]struct{}{}
		for _, family := range [2]int{netlink.FAMILY_V4, netlink.FAMILY_V6} {
			var addrs []netlink.Addr
			if h != nil {
				addrs, err = h.AddrList(link, family)
			} else {
				addrs, err = netlink.AddrList(link, family)
			}
			if err != nil {
				continue
			}
			for _, a := range addrs {
				ip, ok := netip.AddrFromSlice(a.IPNet.IP)
				if !ok {
					continue
				}
				ip = ip.Unmap()
				ones, _ := a.IPNet.Mask.Size()
				ips[IPRecord{IP: ip, PrefixLen: uint8(ones)}] = struct{}{}
			}
		}
		out[uint32(attrs.Index)] = Interface{
			Index:  uint32(attrs.Index),
			Name:   attrs.Name,
			HWAddr: hwAddr,
			IPs:    ips,
		}
	}
	return out, nil
}
