package interactive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/paneldue/paneldue-go/pkg/link"
	"github.com/paneldue/paneldue-go/pkg/model"
	"github.com/paneldue/paneldue-go/pkg/seq"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

type mockLink struct {
	mock.Mock
	store *model.Store
}

func (m *mockLink) View(fn func(store *model.Store)) { fn(m.store) }
func (m *mockLink) ID() string                       { return "session-1" }

func (m *mockLink) Command(line string) error {
	args := m.Called(line)
	return args.Error(0)
}

func (m *mockLink) SetSlow(slow bool) { m.Called(slow) }

func (m *mockLink) Sequences() map[wire.Subsystem]seq.Entry {
	return map[wire.Subsystem]seq.Entry{
		wire.SubsystemMove: {LastSeen: 4, Seen: true},
		wire.SubsystemHeat: {LastSeen: 9, Seen: true, Dirty: true},
		wire.SubsystemJob:  {LastSeen: seq.Unseen},
	}
}

func (m *mockLink) Stats() link.Stats {
	return link.Stats{Initialized: true, UpTime: 3661, Restarts: 2}
}

func newTestConsole() (*Console, *mockLink, *bytes.Buffer) {
	store := model.NewStore()
	store.SetHeaterCurrent(1, 205.5)
	l := &mockLink{store: store}
	out := &bytes.Buffer{}
	return newConsole(l, func() string { return "CONNECTED" }, out), l, out
}

func TestConsoleShow(t *testing.T) {
	c, _, out := newTestConsole()

	assert.True(t, c.Execute("show heat/1"))
	assert.Contains(t, out.String(), "heaters/1:")
	assert.Contains(t, out.String(), "H1")

	out.Reset()
	c.Execute("show heat/7")
	assert.Contains(t, out.String(), "Error:")

	out.Reset()
	c.Execute("show nozzles")
	assert.Contains(t, out.String(), "Error:")
}

func TestConsoleGCode(t *testing.T) {
	c, l, out := newTestConsole()
	l.On("Command", "G28 X").Return(nil).Once()
	l.On("Command", "").Return(link.ErrEmptyCommand).Once()

	c.Execute("gcode G28 X")
	assert.Contains(t, out.String(), "Queued: G28 X")

	out.Reset()
	c.Execute("gcode")
	assert.Contains(t, out.String(), "Error:")
	l.AssertExpectations(t)
}

func TestConsoleSeqs(t *testing.T) {
	c, _, out := newTestConsole()

	c.Execute("seqs")
	text := out.String()
	assert.Contains(t, text, "9 (dirty)")
	assert.Contains(t, text, "4")
	assert.Contains(t, text, "-")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("heat")), bytes.Index(out.Bytes(), []byte("move")))
}

func TestConsoleStatus(t *testing.T) {
	c, _, out := newTestConsole()

	c.Execute("status")
	assert.Contains(t, out.String(), "session-1")
	assert.Contains(t, out.String(), "CONNECTED")
	assert.Contains(t, out.String(), "never")
}

func TestConsoleSlow(t *testing.T) {
	c, l, out := newTestConsole()
	l.On("SetSlow", true).Once()

	c.Execute("slow on")
	c.Execute("slow maybe")
	assert.Contains(t, out.String(), "Usage: slow on|off")
	l.AssertExpectations(t)
}

func TestConsoleQuit(t *testing.T) {
	c, _, out := newTestConsole()

	assert.True(t, c.Execute("  "))
	assert.True(t, c.Execute("frobnicate"))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")
	assert.False(t, c.Execute("quit"))
}
