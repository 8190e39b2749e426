// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestMaskPrefixLen(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		mask []byte
		want int
	}{
		{[]byte{0xff, 0xff, 0xff, 0x00}, 24},
		{[]byte{0xff, 0xff, 0xff, 0xff}, 32},
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0},
		{[]byte{0xff, 0x00, 0x00, 0x00}, 8},
		{[]byte{0xff, 0xff, 0xfe, 0x00}, 23},
	}
	for _, tc := range cases {
		c.Assert(maskPrefixLen(tc.mask), qt.Equals, tc.want, qt.Commentf("mask %08b", tc.mask))
	}
}
