// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build darwin || ios

package netwatcher

/*
#include <sys/types.h>
#include <sys/socket.h>
#include <net/if.h>
#include <net/if_dl.h>
#include <netinet/in.h>
#include <ifaddrs.h>
*/
import "C"

import (
	"net/netip"
	"unsafe"
)

// rawV4 tracks an IPv4 address before alias-netmask inference; BSD
// getifaddrs(3) commonly reports a zero netmask for alias addresses
// on an interface (spec.md §4.1), so maskKnown is false whenever the
// netmask is missing or all zero, and such an address takes the prefix
// length of the first address on the same interface whose mask is
// known (or /32 if none is). A genuine /0 mask is handled the same way.
type rawV4 struct {
	ip        netip.Addr
	prefixLen uint8
	maskKnown bool
}

type candidateIface struct {
	name   string
	index  uint32
	hwAddr string
	ips    map[IPRecord]struct{}
	v4s    []rawV4
}

// enumerate implements the Enumerator contract (spec.md §4.1) for
// macOS/iOS via cgo getifaddrs(3), translating
// original_source/src/list_mac.rs's approach (the nix crate's
// getifaddrs wrapper) into direct libc calls.
func enumerate() (List, error) {
	var ifap *C.struct_ifaddrs
	if C.getifaddrs(&ifap) != 0 {
		return nil, errGetifaddrs("getifaddrs failed")
	}
	defer C.freeifaddrs(ifap)

	candidates := map[string]*candidateIface{}
	getCandidate := func(name string) *candidateIface {
		c, ok := candidates[name]
		if !ok {
			cname := C.CString(name)
			defer C.free(unsafe.Pointer(cname))
			c = &candidateIface{
				name:   name,
				index:  uint32(C.if_nametoindex(cname)),
				hwAddr: NoHWAddr,
				ips:    map[IPRecord]struct{}{},
			}
			candidates[name] = c
		}
		return c
	}

	for cur := ifap; cur != nil; cur = cur.ifa_next {
		if cur.ifa_flags&C.IFF_UP == 0 {
			// Down interfaces are filtered out per spec.md §3.
			continue
		}
		name := C.GoString(cur.ifa_name)
		c := getCandidate(name)
		if cur.ifa_addr == nil {
			continue
		}
		switch cur.ifa_addr.sa_family {
		case C.AF_LINK:
			sdl := (*C.struct_sockaddr_dl)(unsafe.Pointer(cur.ifa_addr))
			alen := int(sdl.sdl_alen)
			if alen > 0 {
				base := uintptr(unsafe.Pointer(&sdl.sdl_data[0])) + uintptr(sdl.sdl_nlen)
				raw := C.GoBytes(unsafe.Pointer(base), C.int(alen))
				if s, err := formatMAC(raw); err == nil {
					c.hwAddr = s
				}
			}
		case C.AF_INET:
			sin := (*C.struct_sockaddr_in)(unsafe.Pointer(cur.ifa_addr))
			addrBytes := (*[4]byte)(unsafe.Pointer(&sin.sin_addr))
			ip := netip.AddrFrom4(*addrBytes)
			prefix, known := uint8(32), false
			if cur.ifa_netmask != nil {
				maskSin := (*C.struct_sockaddr_in)(unsafe.Pointer(cur.ifa_netmask))
				maskBytes := (*[4]byte)(unsafe.Pointer(&maskSin.sin_addr))
				n := maskPrefixLen(maskBytes[:])
				if n > 0 {
					prefix, known = uint8(n), true
				}
			}
			c.v4s = append(c.v4s, rawV4{ip: ip, prefixLen: prefix, maskKnown: known})
		case C.AF_INET6:
			sin6 := (*C.struct_sockaddr_in6)(unsafe.Pointer(cur.ifa_addr))
			addrBytes := (*[16]byte)(unsafe.Pointer(&sin6.sin6_addr))
			ip := netip.AddrFrom16(*addrBytes)
			prefix := uint8(128)
			if cur.ifa_netmask != nil {
				maskSin6 := (*C.struct_sockaddr_in6)(unsafe.Pointer(cur.ifa_netmask))
				maskBytes := (*[16]byte)(unsafe.Pointer(&maskSin6.sin6_addr))
				if n := maskPrefixLen(maskBytes[:]); n > 0 {
					prefix = uint8(n)
				}
			}
			c.ips[IPRecord{IP: ip, PrefixLen: prefix}] = struct{}{}
		}
	}

	out := make(List, len(candidates))
	for _, c := range candidates {
		// Alias-netmask inference: any v4 address whose mask wasn't
		// reported borrows the prefix length of one that was.
		var inferredPrefix uint8 = 32
		for _, v4 := range c.v4s {
			if v4.maskKnown {
				inferredPrefix = v4.prefixLen
				break
			}
		}
		for _, v4 := range c.v4s {
			p := v4.prefixLen
			if !v4.maskKnown {
				p = inferredPrefix
			}
			c.ips[IPRecord{IP: v4.ip, PrefixLen: p}] = struct{}{}
		}
		out[c.index] = Interface{Index: c.index, Name: c.name, HWAddr: c.hwAddr, IPs: c.ips}
	}
	return out, nil
}
