package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paneldue/paneldue-go/pkg/transport"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "link.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = cfg.StaticDialer()
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
address: duet.local
poll_interval: 500ms
fetch: [move, heat]
log_level: debug
redial:
  max: 10s
`)

	cfg, err := loadConfig([]string{"-config", path})
	require.NoError(t, err)
	assert.Equal(t, "duet.local", cfg.Address)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.Redial.Max)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	p, err := cfg.PollConfig()
	require.NoError(t, err)
	assert.Equal(t, wire.NewSubsystemSet(wire.SubsystemMove, wire.SubsystemHeat), p.Fetch)
	assert.Equal(t, 500*time.Millisecond, p.PollInterval)

	d, err := cfg.StaticDialer()
	require.NoError(t, err)
	assert.Equal(t, "duet.local:23", d.Endpoint())
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "address: duet.local\npoll_interval: 500ms\n")

	cfg, err := loadConfig([]string{"-poll", "2s", "-config", path, "-port", "/dev/ttyACM0", "-baud", "115200"})
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)

	d, err := cfg.StaticDialer()
	require.NoError(t, err)
	sd, ok := d.(transport.SerialDialer)
	require.True(t, ok)
	assert.Equal(t, "/dev/ttyACM0", sd.Config.Port)
	assert.Equal(t, 115200, sd.Config.BaudRate)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	_, err = loadConfig([]string{"-config", writeConfig(t, "poll_interval: [1")})
	assert.Error(t, err)

	_, err = loadConfig([]string{"extra"})
	assert.Error(t, err)

	cfg, err := loadConfig([]string{"-fetch", "move,bogus"})
	require.NoError(t, err)
	_, err = cfg.PollConfig()
	assert.ErrorIs(t, err, wire.ErrUnknownSubsystem)

	cfg.LogLevel = "loud"
	_, err = cfg.Level()
	assert.Error(t, err)
}
