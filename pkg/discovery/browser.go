package discovery

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Browser finds controllers on the local network.
type Browser interface {
	// Browse reports controllers as they appear. The channel is closed when
	// ctx is done or Stop is called.
	Browse(ctx context.Context) (<-chan *Controller, error)

	// FindFirst returns the first controller seen within the browse timeout.
	FindFirst(ctx context.Context) (*Controller, error)

	// Stop stops all active browsing.
	Stop()
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// ServiceType is the DNS-SD service to browse (default: _telnet._tcp).
	ServiceType string `yaml:"service"`

	// BrowseTimeout bounds FindFirst (default: 5s).
	BrowseTimeout time.Duration `yaml:"timeout"`

	// Interface restricts browsing to one network interface.
	// Empty string means all interfaces.
	Interface string `yaml:"interface"`
}

// DefaultBrowserConfig returns the default browser configuration.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		ServiceType:   ServiceTypeTelnet,
		BrowseTimeout: BrowseTimeout,
	}
}

// browseFunc runs one DNS-SD browse until ctx is done.
type browseFunc func(ctx context.Context, service string, entries, removed chan *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error

func zeroconfBrowse(ctx context.Context, service string, entries, removed chan *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error {
	return zeroconf.Browse(ctx, service, Domain, entries, removed, opts...)
}

// MDNSBrowser implements Browser using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
	browse browseFunc

	mu      sync.Mutex
	stopped bool
	cancels []context.CancelFunc
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) *MDNSBrowser {
	def := DefaultBrowserConfig()
	if config.ServiceType == "" {
		config.ServiceType = def.ServiceType
	}
	if config.BrowseTimeout <= 0 {
		config.BrowseTimeout = def.BrowseTimeout
	}
	return &MDNSBrowser{config: config, browse: zeroconfBrowse}
}

// Browse searches for controllers. Entries are aggregated by instance name:
// addresses from multiple interfaces are combined into the first reported
// Controller, which is emitted once. A controller whose addresses have all
// been removed is forgotten and emitted again when it reappears.
func (b *MDNSBrowser) Browse(ctx context.Context) (<-chan *Controller, error) {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return nil, ErrBrowserStopped
	}
	ctx, cancel := context.WithCancel(ctx)
	b.cancels = append(b.cancels, cancel)
	b.mu.Unlock()

	out := make(chan *Controller)
	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go aggregate(ctx, entries, removed, out)

	opts := b.browserOptions()
	go func() {
		_ = b.browse(ctx, b.config.ServiceType, entries, removed, opts...)
	}()

	return out, nil
}

// FindFirst returns the first controller found, or ErrNotFound after the
// browse timeout.
func (b *MDNSBrowser) FindFirst(ctx context.Context) (*Controller, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.BrowseTimeout)
	defer cancel()

	found, err := b.Browse(ctx)
	if err != nil {
		return nil, err
	}
	select {
	case c, ok := <-found:
		if ok {
			return c, nil
		}
		return nil, ErrNotFound
	case <-ctx.Done():
		return nil, ErrNotFound
	}
}

// Stop cancels all active browse operations.
func (b *MDNSBrowser) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopped = true
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

func aggregate(ctx context.Context, entries, removed <-chan *zeroconf.ServiceEntry, out chan<- *Controller) {
	defer close(out)

	known := make(map[string]*Controller)
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return
			}
			c := entryToController(entry)
			if c == nil {
				continue
			}
			if existing, found := known[c.Instance]; found {
				existing.Addresses = mergeAddresses(existing.Addresses, c.Addresses)
				continue
			}
			known[c.Instance] = c
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}

		case entry, ok := <-removed:
			if !ok {
				removed = nil
				continue
			}
			if existing, found := known[entry.Instance]; found {
				existing.Addresses = removeAddresses(existing.Addresses, entry)
				if len(existing.Addresses) == 0 {
					delete(known, entry.Instance)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

// entryToController converts a zeroconf entry. Entries without an instance
// name or port are ignored.
func entryToController(entry *zeroconf.ServiceEntry) *Controller {
	if entry == nil || entry.Instance == "" || entry.Port <= 0 || entry.Port > 0xFFFF {
		return nil
	}
	txt := StringsToTXTRecords(entry.Text)

	return &Controller{
		Instance:  entry.Instance,
		Host:      entry.HostName,
		Port:      uint16(entry.Port),
		Addresses: entryAddresses(entry),
		Board:     txt[TXTKeyBoard],
		Firmware:  txt[TXTKeyFirmware],
		TXT:       txt,
	}
}

func entryAddresses(entry *zeroconf.ServiceEntry) []string {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}
	return addrs
}

// mergeAddresses adds new addresses to the existing list, avoiding duplicates.
func mergeAddresses(existing, added []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, addr := range existing {
		seen[addr] = true
	}
	for _, addr := range added {
		if !seen[addr] {
			existing = append(existing, addr)
			seen[addr] = true
		}
	}
	return existing
}

// removeAddresses removes the addresses of entry from the list.
func removeAddresses(addresses []string, entry *zeroconf.ServiceEntry) []string {
	gone := make(map[string]bool)
	for _, addr := range entryAddresses(entry) {
		gone[addr] = true
	}
	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if !gone[addr] {
			result = append(result, addr)
		}
	}
	return result
}

var _ Browser = (*MDNSBrowser)(nil)
