package relaycontrol

import (
	"context"
	"net"
	"time"
)

// DefaultDrainWindow is how long a status query waits for stale bytes
// before sending the request.
const DefaultDrainWindow = 10 * time.Millisecond

type boardOptions struct {
	relayDelay   time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
	drainWindow  time.Duration
	metrics      *Metrics
	dial         func(ctx context.Context, network, addr string) (net.Conn, error)
}

func defaultOptions() *boardOptions {
	return &boardOptions{
		drainWindow: DefaultDrainWindow,
		dial:        (&net.Dialer{}).DialContext,
	}
}

type Option func(*boardOptions)

// WithRelayDelay keeps consecutive frames at least d apart, giving relay
// coils time to settle before the next command or status read. Zero
// disables pacing.
func WithRelayDelay(d time.Duration) Option {
	return func(o *boardOptions) {
		o.relayDelay = d
	}
}

// WithReadTimeout bounds the wait for a status response. Zero blocks.
func WithReadTimeout(d time.Duration) Option {
	return func(o *boardOptions) {
		o.readTimeout = d
	}
}

// WithWriteTimeout bounds each frame write. Zero blocks.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *boardOptions) {
		o.writeTimeout = d
	}
}

// WithDrainWindow sets how long a status query listens for stale bytes.
// Non-positive values are ignored and DefaultDrainWindow stays in effect.
func WithDrainWindow(d time.Duration) Option {
	return func(o *boardOptions) {
		if d > 0 {
			o.drainWindow = d
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *boardOptions) {
		o.metrics = m
	}
}

// withDialer replaces the TCP dialer, for tests that need a connection
// which never completes or misbehaves.
func withDialer(dial func(ctx context.Context, network, addr string) (net.Conn, error)) Option {
	return func(o *boardOptions) {
		o.dial = dial
	}
}
