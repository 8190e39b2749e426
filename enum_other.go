// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux && !darwin && !ios && !windows && !android

package netwatcher

import "runtime"

func enumerate() (List, error) {
	return nil, errUnsupportedPlatform(runtime.GOOS)
}
