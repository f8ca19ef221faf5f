package link

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/paneldue/paneldue-go/internal/linktest"
	"github.com/paneldue/paneldue-go/pkg/log"
	"github.com/paneldue/paneldue-go/pkg/model"
	"github.com/paneldue/paneldue-go/pkg/poll"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

type mockSubscriber struct {
	mock.Mock
}

func (m *mockSubscriber) OnModelChange(c model.Change) {
	m.Called(c)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendLine(line string) error {
	return m.Called(line).Error(0)
}

type captureLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureLogger) requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, e := range c.events {
		if e.Request != nil {
			out = append(out, e.Request.Kind)
		}
	}
	return out
}

func newLinked(t *testing.T, config Config) (*Session, *linktest.Controller) {
	t.Helper()
	ctrl := linktest.NewController()
	ctrl.SetUpTime(100)
	s := NewSession(config, ctrl)
	ctrl.Attach(s.Queue())
	return s, ctrl
}

// advance ticks every 100ms in [from, to] and returns every change seen.
func advance(s *Session, from, to uint32) []model.Change {
	var changes []model.Change
	for now := from; now <= to; now += 100 {
		changes = append(changes, s.Tick(now).Changes...)
	}
	return changes
}

func kindsOf(changes []model.Change) map[model.ChangeKind]int {
	out := make(map[model.ChangeKind]int)
	for _, c := range changes {
		out[c.Kind]++
	}
	return out
}

func TestSessionSynchronizes(t *testing.T) {
	s, ctrl := newLinked(t, DefaultConfig())
	ctrl.SetScoped("tools", `[{"number":0,"heaters":[1],"extruders":[0]}]`)
	ctrl.SetScoped("heat", `{"bedHeaters":[0],"chamberHeaters":[-1],"heaters":[{"active":60},{"active":200}]}`)

	advance(s, 0, 6000)

	sent := ctrl.Sent()
	require.GreaterOrEqual(t, len(sent), 3)
	assert.Equal(t, `M409 F"d99f"`, sent[0])
	assert.Equal(t, `M409 K"heat" F"v"`, sent[1])
	assert.Equal(t, `M409 K"tools" F"v"`, sent[2])

	s.View(func(store *model.Store) {
		tool := store.Tools().Get(0)
		require.NotNil(t, tool)
		assert.Equal(t, 1, tool.Heater)
		assert.Equal(t, 0, tool.Extruder)

		heater := store.Heaters().Get(1)
		require.NotNil(t, heater)
		assert.EqualValues(t, 200, heater.Active)
		assert.Equal(t, tool, store.ToolForHeater(1))
		assert.Nil(t, store.ToolForHeater(0))

		bed := store.Beds().Get(0)
		require.NotNil(t, bed)
		assert.Equal(t, 0, bed.Heater)

		assert.Equal(t, wire.PrinterStatusIdle, store.Machine().Status)
	})

	stats := s.Stats()
	assert.True(t, stats.Initialized)
	assert.EqualValues(t, 2, stats.Poll.Scoped)
	assert.EqualValues(t, 100, stats.UpTime)
	assert.False(t, stats.LastResponse.IsZero())
	for sub, e := range s.Sequences() {
		assert.False(t, e.Dirty, "%s still dirty", sub)
	}
}

func TestSessionRestartResync(t *testing.T) {
	s, ctrl := newLinked(t, DefaultConfig())
	ctrl.SetScoped("heat", `{"bedHeaters":[0],"chamberHeaters":[-1],"heaters":[{"active":60}]}`)
	advance(s, 0, 5000)
	sentBefore := len(ctrl.Sent())

	ctrl.Restart(5)
	changes := advance(s, 5100, 12000)

	assert.Equal(t, 1, kindsOf(changes)[model.ChangeResync])
	assert.Equal(t, 1, s.Stats().Restarts)

	resent := ctrl.Sent()[sentBefore:]
	assert.Contains(t, resent, `M409 K"heat" F"v"`)
	s.View(func(store *model.Store) {
		bed := store.Beds().Get(0)
		require.NotNil(t, bed, "bed restored by the scoped heat response")
		assert.Equal(t, 0, bed.Heater)
	})
}

func TestSessionResendsAfterTimeout(t *testing.T) {
	sender := &mockSender{}
	sender.On("SendLine", mock.Anything).Return(nil)
	s := NewSession(DefaultConfig(), sender)

	res := s.Tick(0)
	require.True(t, res.Sent)
	assert.Equal(t, poll.ActionHeartbeat, res.Action.Kind)

	for now := uint32(100); now < 4000; now += 100 {
		assert.False(t, s.Tick(now).Sent, "sent at %d", now)
	}
	res = s.Tick(4000)
	require.True(t, res.Sent)
	assert.Equal(t, poll.ActionResend, res.Action.Kind)
	sender.AssertNumberOfCalls(t, "SendLine", 2)
}

func TestSessionSubscribers(t *testing.T) {
	s, ctrl := newLinked(t, DefaultConfig())
	ctrl.SetStatus("processing")

	sub := &mockSubscriber{}
	sub.On("OnModelChange", mock.Anything).Return()
	s.Subscribe(sub)

	var viewed bool
	s.Subscribe(model.SubscriberFunc(func(c model.Change) {
		if c.Kind == model.ChangeStatus {
			s.View(func(store *model.Store) { viewed = true })
		}
	}))

	advance(s, 0, 3000)

	sub.AssertCalled(t, "OnModelChange", model.Change{Kind: model.ChangeStatus})
	assert.True(t, viewed)
}

func TestSessionCommand(t *testing.T) {
	s, ctrl := newLinked(t, DefaultConfig())
	assert.ErrorIs(t, s.Command("  "), ErrEmptyCommand)
	require.NoError(t, s.Command("G28"))

	advance(s, 0, 2000)

	assert.Contains(t, ctrl.Sent(), "G28")
	assert.EqualValues(t, 1, s.Stats().Poll.Commands)
}

func TestSessionSendError(t *testing.T) {
	s, ctrl := newLinked(t, DefaultConfig())
	failure := errors.New("port gone")
	ctrl.FailWith(failure)

	res := s.Tick(0)
	assert.ErrorIs(t, res.SendErr, failure)
	assert.EqualValues(t, 1, s.Stats().SendErrors)
}

func TestSessionConnectionLost(t *testing.T) {
	s, ctrl := newLinked(t, DefaultConfig())
	ctrl.SetScoped("move", `{"axes":[{"letter":"X","visible":true}]}`)
	advance(s, 0, 6000)
	require.True(t, s.Stats().Initialized)

	s.ConnectionLost()

	assert.False(t, s.Stats().Initialized)
	s.View(func(store *model.Store) {
		assert.Equal(t, wire.PrinterStatusConnecting, store.Machine().Status)
	})
	sentBefore := len(ctrl.Sent())
	advance(s, 6100, 9000)
	assert.Contains(t, ctrl.Sent()[sentBefore:], `M409 K"move" F"v"`)
}

func TestSessionProtocolLog(t *testing.T) {
	logger := &captureLogger{}
	cfg := DefaultConfig()
	cfg.ProtocolLogger = logger
	cfg.SessionID = "fixed"
	s, ctrl := newLinked(t, cfg)
	ctrl.SetScoped("heat", `{"heaters":[{"active":0}]}`)

	advance(s, 0, 2900)

	assert.Equal(t, "fixed", s.ID())
	assert.Equal(t, []string{"HEARTBEAT", "SCOPED", "HEARTBEAT"}, logger.requests())

	logger.mu.Lock()
	defer logger.mu.Unlock()
	var responses, states int
	for _, e := range logger.events {
		assert.Equal(t, "fixed", e.SessionID)
		if e.Response != nil {
			responses++
			assert.NotNil(t, e.Response.Latency)
		}
		if e.StateChange != nil && e.StateChange.Entity == log.StateEntityPrinter {
			states++
		}
	}
	assert.GreaterOrEqual(t, responses, 2)
	assert.GreaterOrEqual(t, states, 1)
}

func TestSessionRun(t *testing.T) {
	t.Run("NoSender", func(t *testing.T) {
		s := NewSession(DefaultConfig(), nil)
		assert.ErrorIs(t, s.Run(context.Background(), NewSystemClock(), 0), ErrNoSender)
	})

	t.Run("TicksUntilCancelled", func(t *testing.T) {
		s, ctrl := newLinked(t, DefaultConfig())
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx, NewSystemClock(), time.Millisecond) }()

		require.Eventually(t, func() bool { return len(ctrl.Sent()) > 0 }, 2*time.Second, time.Millisecond)
		cancel()
		assert.NoError(t, <-done)
		assert.NotZero(t, s.Stats().Ticks)
	})
}

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(Config{}, nil)
	assert.Len(t, s.ID(), 36)
	assert.Equal(t, DefaultQueueSize, cap(s.queue))
	assert.Equal(t, poll.DefaultPollInterval, s.sched.Config().PollInterval)
}
