package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(instance string, port int, ips ...string) *zeroconf.ServiceEntry {
	e := &zeroconf.ServiceEntry{}
	e.Instance = instance
	e.HostName = "duet.local."
	e.Port = port
	for _, s := range ips {
		ip := net.ParseIP(s)
		if ip.To4() != nil {
			e.AddrIPv4 = append(e.AddrIPv4, ip)
		} else {
			e.AddrIPv6 = append(e.AddrIPv6, ip)
		}
	}
	return e
}

// scriptedBrowse replays added entries, then removed entries, then waits.
func scriptedBrowse(added, gone []*zeroconf.ServiceEntry) browseFunc {
	return func(ctx context.Context, service string, entries, removed chan *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error {
		for _, e := range added {
			select {
			case entries <- e:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		for _, e := range gone {
			select {
			case removed <- e:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		<-ctx.Done()
		return ctx.Err()
	}
}

func TestStringsToTXTRecords(t *testing.T) {
	txt := StringsToTXTRecords([]string{"Board=MB6HC", "fw=3.5.1", "flag", "", "=x"})

	assert.Equal(t, TXTRecordMap{"board": "MB6HC", "fw": "3.5.1", "flag": ""}, txt)
}

func TestEntryToController(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		e := newEntry("Duet 3", 23, "192.168.1.20", "fe80::1")
		e.Text = []string{"board=MB6HC", "fw=3.5.1", "name=Workshop"}

		c := entryToController(e)
		require.NotNil(t, c)
		assert.Equal(t, "Duet 3", c.Instance)
		assert.Equal(t, uint16(23), c.Port)
		assert.Equal(t, []string{"192.168.1.20", "fe80::1"}, c.Addresses)
		assert.Equal(t, "MB6HC", c.Board)
		assert.Equal(t, "3.5.1", c.Firmware)
		assert.Equal(t, "Workshop", c.Name())
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.Nil(t, entryToController(nil))
		assert.Nil(t, entryToController(newEntry("", 23)))
		assert.Nil(t, entryToController(newEntry("x", 0)))
		assert.Nil(t, entryToController(newEntry("x", 70000)))
	})
}

func TestControllerAddress(t *testing.T) {
	c := &Controller{Instance: "a", Port: 23, Addresses: []string{"fe80::1"}}
	addr, err := c.Address()
	require.NoError(t, err)
	assert.Equal(t, "[fe80::1]:23", addr)

	c = &Controller{Instance: "a", Host: "duet.local.", Port: 23}
	addr, err = c.Address()
	require.NoError(t, err)
	assert.Equal(t, "duet.local:23", addr)
	assert.Equal(t, "a", c.Name())

	_, err = (&Controller{Port: 23}).Address()
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestAddressLists(t *testing.T) {
	merged := mergeAddresses([]string{"10.0.0.1"}, []string{"10.0.0.1", "fe80::1"})
	assert.Equal(t, []string{"10.0.0.1", "fe80::1"}, merged)

	left := removeAddresses(merged, newEntry("x", 23, "10.0.0.1"))
	assert.Equal(t, []string{"fe80::1"}, left)
}

func TestMDNSBrowser(t *testing.T) {
	t.Run("AggregatesByInstance", func(t *testing.T) {
		b := NewMDNSBrowser(BrowserConfig{})
		b.browse = scriptedBrowse([]*zeroconf.ServiceEntry{
			newEntry("Duet 3", 23, "192.168.1.20"),
			newEntry("Duet 3", 23, "fe80::1"),
			newEntry("Duet 2", 23, "192.168.1.21"),
		}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		found, err := b.Browse(ctx)
		require.NoError(t, err)

		first := <-found
		second := <-found
		assert.Equal(t, "Duet 3", first.Instance)
		assert.Equal(t, "Duet 2", second.Instance)
		assert.Equal(t, []string{"192.168.1.20", "fe80::1"}, first.Addresses)

		cancel()
		_, ok := <-found
		assert.False(t, ok)
	})

	t.Run("ReemitsAfterRemoval", func(t *testing.T) {
		entry := newEntry("Duet 3", 23, "192.168.1.20")
		b := NewMDNSBrowser(BrowserConfig{})
		b.browse = func(ctx context.Context, service string, entries, removed chan *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error {
			entries <- entry
			removed <- entry
			entries <- entry
			<-ctx.Done()
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		found, err := b.Browse(ctx)
		require.NoError(t, err)

		assert.Equal(t, "Duet 3", (<-found).Instance)
		assert.Equal(t, "Duet 3", (<-found).Instance)
	})

	t.Run("FindFirst", func(t *testing.T) {
		b := NewMDNSBrowser(BrowserConfig{})
		b.browse = scriptedBrowse([]*zeroconf.ServiceEntry{newEntry("Duet 3", 23, "192.168.1.20")}, nil)

		c, err := b.FindFirst(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Duet 3", c.Instance)
	})

	t.Run("FindFirstTimeout", func(t *testing.T) {
		b := NewMDNSBrowser(BrowserConfig{BrowseTimeout: 20 * time.Millisecond})
		b.browse = scriptedBrowse(nil, nil)

		_, err := b.FindFirst(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Stop", func(t *testing.T) {
		b := NewMDNSBrowser(BrowserConfig{})
		b.browse = scriptedBrowse(nil, nil)

		found, err := b.Browse(context.Background())
		require.NoError(t, err)
		b.Stop()

		select {
		case _, ok := <-found:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("browse not stopped")
		}

		_, err = b.Browse(context.Background())
		assert.ErrorIs(t, err, ErrBrowserStopped)
	})

	t.Run("Defaults", func(t *testing.T) {
		b := NewMDNSBrowser(BrowserConfig{})
		assert.Equal(t, DefaultBrowserConfig(), b.config)
		assert.Empty(t, b.browserOptions())
	})
}
