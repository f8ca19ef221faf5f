package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// DefaultTCPPort is used when an address has no port.
const DefaultTCPPort = "23"

// TCPDialer connects to a controller exposing its panel port over TCP, for
// example through a serial-to-network bridge.
type TCPDialer struct {
	// Address is host:port. A missing port defaults to DefaultTCPPort.
	Address string

	// ConnectTimeout defaults to 10s.
	ConnectTimeout time.Duration
}

// Endpoint returns the normalized address.
func (d TCPDialer) Endpoint() string {
	return withDefaultPort(d.Address)
}

// Dial connects to the controller.
func (d TCPDialer) Dial(ctx context.Context) (Stream, error) {
	timeout := d.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", d.Endpoint())
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}
	return conn, nil
}

func withDefaultPort(address string) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	return net.JoinHostPort(address, DefaultTCPPort)
}
