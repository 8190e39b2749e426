// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build android

package netwatcher

/*
#include <sys/types.h>
#include <sys/socket.h>
#include <net/if.h>
#include <netinet/in.h>
#include <ifaddrs.h>
*/
import "C"

import (
	"net/netip"
	"unsafe"
)

// enumerate implements the Enumerator contract (spec.md §4.1) for
// Android via cgo getifaddrs(3) (bionic implements the same glibc-style
// ifaddrs list Linux does), translating
// original_source/src/list_unix.rs. Hardware addresses are not exposed
// to apps on modern Android (original_source/src/list_unix.rs: "//
// suppressed on Android"), so hwAddr is always the NoHWAddr sentinel.
func enumerate() (List, error) {
	var ifap *C.struct_ifaddrs
	if C.getifaddrs(&ifap) != 0 {
		return nil, errGetifaddrs("getifaddrs failed")
	}
	defer C.freeifaddrs(ifap)

	out := List{}
	for cur := ifap; cur != nil; cur = cur.ifa_next {
		if cur.ifa_flags&C.IFF_UP == 0 {
			continue
		}
		name := C.GoString(cur.ifa_name)
		index := uint32(C.if_nametoindex(cur.ifa_name))
		if index == 0 {
			continue
		}
		iface, ok := out[index]
		if !ok {
			iface = Interface{Index: index, Name: name, HWAddr: NoHWAddr, IPs: map[IPRecord]struct{}{}}
		}
		if cur.ifa_addr == nil {
			out[index] = iface
			continue
		}
		switch cur.ifa_addr.sa_family {
		case C.AF_INET:
			sin := (*C.struct_sockaddr_in)(unsafe.Pointer(cur.ifa_addr))
			addrBytes := (*[4]byte)(unsafe.Pointer(&sin.sin_addr))
			ip := netip.AddrFrom4(*addrBytes)
			prefix := 32
			if cur.ifa_netmask != nil {
				maskSin := (*C.struct_sockaddr_in)(unsafe.Pointer(cur.ifa_netmask))
				maskBytes := (*[4]byte)(unsafe.Pointer(&maskSin.sin_addr))
				if n := maskPrefixLen(maskBytes[:]); n > 0 {
					prefix = n
				}
			}
			iface.IPs[IPRecord{IP: ip, PrefixLen: uint8(prefix)}] = struct{}{}
		case C.AF_INET6:
			sin6 := (*C.struct_sockaddr_in6)(unsafe.Pointer(cur.ifa_addr))
			addrBytes := (*[16]byte)(unsafe.Pointer(&sin6.sin6_addr))
			ip := netip.AddrFrom16(*addrBytes)
			prefix := 128
			if cur.ifa_netmask != nil {
				maskSin6 := (*C.struct_sockaddr_in6)(unsafe.Pointer(cur.ifa_netmask))
				maskBytes := (*[16]byte)(unsafe.Pointer(&maskSin6.sin6_addr))
				if n := maskPrefixLen(maskBytes[:]); n > 0 {
					prefix = n
				}
			}
			iface.IPs[IPRecord{IP: ip, PrefixLen: uint8(prefix)}] = struct{}{}
		}
		out[index] = iface
	}
	return out, nil
}
