// Copyright (c) Tailscale Inc & AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package netwatcher

import (
	"time"

	"go.uber.org/zap"
)

// Logf is the logging convention used throughout netwatcher, matching
// tailscale.com/types/logger.Logf: a printf-style sink a caller can
// wire to whatever logging system they already have.
type Logf func(format string, args ...any)

// NewZapLogf adapts a *zap.Logger to the Logf convention, for callers
// who'd rather not write their own adapter.
func NewZapLogf(l *zap.Logger) Logf {
	sugar := l.Sugar()
	return func(format string, args ...any) {
		sugar.Infof(format, args...)
	}
}

func discardLogf(string, ...any) {}

// withPrefix returns a Logf that prepends prefix to every message,
// matching tailscale.com/types/logger.WithPrefix's behavior.
func withPrefix(logf Logf, prefix string) Logf {
	return func(format string, args ...any) {
		logf(prefix+format, args...)
	}
}

// defaultResyncInterval is how often watch_linux.go re-snapshots as a
// defensive backstop against a dropped or squashed netlink multicast
// message, per SPEC_FULL.md §6. Zero disables it.
const defaultResyncInterval = 2 * time.Minute

type config struct {
	logf            Logf
	metrics         *Metrics
	resyncInterval  time.Duration
}

func newConfig(opts ...Option) *config {
	c := &config{
		logf:           discardLogf,
		metrics:        nil,
		resyncInterval: defaultResyncInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = newMetrics()
	}
	return c
}

// Option configures WatchInterfaces. The zero value of every Option
// field is a sensible default, mirroring spec.md §6's "no config
// file, no env vars" stance: all tuning is explicit, per call, in Go.
type Option func(*config)

// WithLogf directs netwatcher's internal diagnostic logging to logf:
// failed resnapshots while watching (Linux, macOS/iOS, Windows) and a
// failed JNI watch registration (Android). The default discards
// everything.
func WithLogf(logf Logf) Option {
	return func(c *config) { c.logf = logf }
}

// WithMetrics makes netwatcher count into m (see metric.go). Without
// it, each WatchInterfaces call counts into a fresh Metrics of its
// own. netwatcher never registers counters with a Prometheus registry
// itself; Metrics.MustRegister does that.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithResyncInterval overrides how often the Linux watcher performs a
// defensive full resync between netlink notifications. Zero disables
// the periodic resync entirely, relying solely on netlink delivery.
// Ignored on platforms whose notification source doesn't need one.
func WithResyncInterval(d time.Duration) Option {
	return func(c *config) { c.resyncInterval = d }
}
