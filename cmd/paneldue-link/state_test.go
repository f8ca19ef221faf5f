package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paneldue/paneldue-go/pkg/discovery"
	"github.com/paneldue/paneldue-go/pkg/persistence"
	"github.com/paneldue/paneldue-go/pkg/transport"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKnownControllerState(t *testing.T) {
	store := persistence.NewDirStore(t.TempDir())
	assert.Nil(t, lastController(store))
	assert.Nil(t, lastController(nil))

	c := &discovery.Controller{Instance: "Duet 3", Board: "MB6HC", Firmware: "3.5.1"}
	saveDiscovered(store, c, "192.168.1.20:23", quietLogger())

	known := lastController(store)
	require.NotNil(t, known)
	assert.Equal(t, "192.168.1.20:23", known.Endpoint)
	assert.Equal(t, "MB6HC", known.Board)
	assert.True(t, known.LastSeenAt.IsZero())

	rememberEndpoint(store, "192.168.1.20:23", quietLogger())
	known = lastController(store)
	require.NotNil(t, known)
	assert.Equal(t, "Duet 3", known.Instance)
	assert.False(t, known.LastSeenAt.IsZero())

	rememberEndpoint(store, "10.0.0.5:23", quietLogger())
	known = lastController(store)
	assert.Equal(t, "10.0.0.5:23", known.Endpoint)
	assert.Empty(t, known.Instance)
}

func TestResolveDialerStatic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = "duet.local"

	d, err := resolveDialer(context.Background(), &cfg, nil, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, transport.TCPDialer{Address: "duet.local"}, d)

	cfg.Address = ""
	_, err = resolveDialer(context.Background(), &cfg, nil, quietLogger())
	assert.ErrorIs(t, err, ErrNoEndpoint)
}
