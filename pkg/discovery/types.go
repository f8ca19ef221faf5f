package discovery

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"
)

// Service types.
const (
	// ServiceTypeTelnet is the service advertised by controllers with the
	// telnet server enabled.
	ServiceTypeTelnet = "_telnet._tcp"

	// ServiceTypeHTTP is the service advertised by controllers with the
	// web server enabled.
	ServiceTypeHTTP = "_http._tcp"

	// Domain is the mDNS domain.
	Domain = "local."
)

// Timing constants.
const (
	// BrowseTimeout is the default timeout for FindFirst.
	BrowseTimeout = 5 * time.Second
)

// TXT record keys.
const (
	TXTKeyBoard    = "board"
	TXTKeyFirmware = "fw"
	TXTKeyName     = "name"
)

// Errors.
var (
	ErrNotFound       = errors.New("no controller found")
	ErrBrowserStopped = errors.New("browser stopped")
	ErrNoAddress      = errors.New("controller has no address")
)

// Controller is one discovered controller.
type Controller struct {
	// Instance is the DNS-SD instance name.
	Instance string

	// Host is the advertised host name.
	Host string

	// Port is the service port.
	Port uint16

	// Addresses holds IPv4 addresses first, then IPv6.
	Addresses []string

	// Board and Firmware are taken from TXT records when present.
	Board    string
	Firmware string

	// TXT holds all TXT records with lower-case keys.
	TXT TXTRecordMap
}

// Name returns the display name: the TXT name if set, else the instance.
func (c *Controller) Name() string {
	if n := c.TXT[TXTKeyName]; n != "" {
		return n
	}
	return c.Instance
}

// Address returns host:port for the first address, suitable for a
// transport.TCPDialer.
func (c *Controller) Address() (string, error) {
	if len(c.Addresses) == 0 {
		if c.Host == "" {
			return "", ErrNoAddress
		}
		return net.JoinHostPort(strings.TrimSuffix(c.Host, "."), strconv.Itoa(int(c.Port))), nil
	}
	return net.JoinHostPort(c.Addresses[0], strconv.Itoa(int(c.Port))), nil
}
