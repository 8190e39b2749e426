// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package netwatcher

import (
	"net/netip"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// enumerate implements the Enumerator contract (spec.md §4.1) for
// Windows via GetAdaptersAddresses, translating
// original_source/src/list_win.rs. golang.org/x/sys/windows already
// exposes GetAdaptersAddresses and its IpAdapterAddresses struct, so
// unlike the darwin/android enumerators this needs no cgo.
func enumerate() (List, error) {
	const flags = windows.GAA_FLAG_SKIP_ANYCAST | windows.GAA_FLAG_SKIP_MULTICAST

	// Microsoft recommends starting with a 15 KiB buffer.
	size := uint32(15 * 1024)
	var buf []byte
	for {
		buf = make([]byte, size)
		err := windows.GetAdaptersAddresses(windows.AF_UNSPEC, flags, 0,
			(*windows.IpAdapterAddresses)(unsafe.Pointer(&buf[0])), &size)
		switch err {
		case nil:
			goto parse
		case windows.ERROR_BUFFER_OVERFLOW:
			continue
		case windows.ERROR_ADDRESS_NOT_ASSOCIATED:
			return nil, errAddressNotAssociated()
		case windows.ERROR_INVALID_PARAMETER:
			return nil, errInvalidParameter()
		case windows.ERROR_NOT_ENOUGH_MEMORY:
			return nil, errNotEnoughMemory()
		case windows.ERROR_NO_DATA:
			return List{}, nil
		default:
			return nil, errUnexpectedWindowsResult(uint32(err.(windows.Errno)))
		}
	}

parse:
	out := List{}
	for adapter := (*windows.IpAdapterAddresses)(unsafe.Pointer(&buf[0])); adapter != nil; adapter = adapter.Next {
		if adapter.OperStatus == windows.IfOperStatusDown {
			continue
		}

		index := adapter.IfIndex
		if index == 0 {
			index = adapter.Ipv6IfIndex
		}
		if index == 0 {
			continue
		}

		hwAddr := NoHWAddr
		if n := int(adapter.PhysicalAddressLength); n > 0 {
			if s, err := formatMAC(adapter.PhysicalAddress[:n]); err == nil {
				hwAddr = s
			}
		}

		ips := map[IPRecord]struct{}{}
		for u := adapter.FirstUnicastAddress; u != nil; u = u.Next {
			raw := u.Address.Sockaddr
			if raw == nil {
				continue
			}
			var ip netip.Addr
			switch raw.Addr.Family {
			case syscall.AF_INET:
				sin := (*windows.RawSockaddrInet4)(unsafe.Pointer(raw))
				ip = netip.AddrFrom4(sin.Addr)
			case syscall.AF_INET6:
				sin6 := (*windows.RawSockaddrInet6)(unsafe.Pointer(raw))
				ip = netip.AddrFrom16(sin6.Addr)
			default:
				continue
			}
			ips[IPRecord{IP: ip, PrefixLen: u.OnLinkPrefixLength}] = struct{}{}
		}

		name := windows.UTF16PtrToString(adapter.FriendlyName)
		out[index] = Interface{Index: index, Name: name, HWAddr: hwAddr, IPs: ips}
	}
	return out, nil
}
