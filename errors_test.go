// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestErrorUnwrap(t *testing.T) {
	c := qt.New(t)
	sentinel := fmt.Errorf("boom")
	err := errIO(sentinel)
	c.Assert(err, qt.ErrorIs, sentinel)
}

func TestErrorStringByKind(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		err  *Error
		want string
	}{
		{errUnexpectedWindowsResult(87), "netwatcher: UnexpectedWindowsResult: code 87"},
		{errCreateSocket("netlink"), "netwatcher: CreateSocket: netlink"},
		{errInvalidHandle(), "netwatcher: InvalidHandle"},
	}
	for _, tc := range cases {
		c.Assert(tc.err.Error(), qt.Equals, tc.want)
	}
}

func TestKindStringUnknown(t *testing.T) {
	c := qt.New(t)
	var k Kind = 999
	c.Assert(k.String(), qt.Equals, "Unknown")
}
