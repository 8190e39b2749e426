// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import "strings"

// NoHWAddr is the sentinel hardware address reported for an interface
// whose platform hides its MAC (Android, for privacy) or that has no
// link-layer address.
const NoHWAddr = "00:00:00:00:00:00"

const hexDigits = "0123456789ABCDEF"

// formatMAC renders raw link-layer address bytes as the canonical
// colon-separated uppercase hex form ("XX:XX:XX:XX:XX:XX"). It never
// fails on well-formed input; it's kept returning an error to mirror
// the platform Enumerators' fallible call sites and spec.md's
// FormatMacAddress error kind, which can still surface from a
// zero-length address.
func formatMAC(b []byte) (string, error) {
	if len(b) == 0 {
		return "", errFormatMacAddress()
	}
	var sb strings.Builder
	sb.Grow(len(b)*3 - 1)
	for i, c := range b {
		if i != 0 {
			sb.WriteByte(':')
		}
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0xf])
	}
	return sb.String(), nil
}
