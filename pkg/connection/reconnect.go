package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/paneldue/paneldue-go/pkg/log"
	"github.com/paneldue/paneldue-go/pkg/transport"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

// Connection errors.
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyRunning   = errors.New("manager already running")
	ErrNoDialer         = errors.New("no dialer configured")
)

// State represents the link state.
type State uint8

const (
	// StateDisconnected indicates no active stream.
	StateDisconnected State = iota

	// StateConnecting indicates a dial is in progress.
	StateConnecting

	// StateConnected indicates an open stream.
	StateConnected

	// StateReconnecting indicates the manager is waiting to redial.
	StateReconnecting

	// StateClosed indicates the manager has stopped.
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Config configures a Manager.
type Config struct {
	// Dialer opens the controller stream.
	Dialer transport.Dialer

	// Conn configures each opened connection. Endpoint defaults to the
	// dialer endpoint.
	Conn transport.ConnConfig

	// Redial configures the delays between dial attempts.
	Redial RedialConfig

	// AutoReconnect redials after a failed dial or a lost stream.
	AutoReconnect bool

	// Logger receives operational messages. Nil disables them.
	Logger *slog.Logger
}

// DefaultConfig returns a reconnecting configuration for d.
func DefaultConfig(d transport.Dialer) Config {
	return Config{
		Dialer:        d,
		Redial:        DefaultRedialConfig(),
		AutoReconnect: true,
	}
}

// Stats counts connection attempts.
type Stats struct {
	Dials    uint64
	Failures uint64
	Lost     uint64
}

// Manager keeps one controller stream open and forwards its telegrams.
type Manager struct {
	mu sync.RWMutex

	config  Config
	state   State
	conn    *transport.Conn
	redial  *redialer
	running bool
	stats   Stats

	// attempts counts dials since the last stream that carried a reply.
	attempts int

	onStateChange  func(oldState, newState State)
	onReconnecting func(attempt int, delay time.Duration)
}

// NewManager creates a connection manager.
func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		state:  StateDisconnected,
		redial: newRedialer(config.Redial),
	}
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsConnected returns true while a stream is open.
func (m *Manager) IsConnected() bool {
	return m.State() == StateConnected
}

// Stats returns attempt counters.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats
}

// SendLine writes a line to the open stream.
func (m *Manager) SendLine(line string) error {
	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.SendLine(line)
}

// Run dials the controller and forwards telegrams to out until ctx is done.
// Without AutoReconnect it returns the first dial or read error.
func (m *Manager) Run(ctx context.Context, out chan<- wire.Telegram) error {
	if m.config.Dialer == nil {
		return ErrNoDialer
	}
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	if m.state == StateClosed {
		m.mu.Unlock()
		return ErrConnectionClosed
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		m.setState(StateClosed, "stopped")
	}()

	for {
		err := m.runOnce(ctx, out)
		if ctx.Err() != nil {
			return nil
		}
		if !m.config.AutoReconnect {
			m.setState(StateDisconnected, errString(err))
			return err
		}

		m.mu.Lock()
		m.attempts++
		attempt := m.attempts
		m.mu.Unlock()
		delay := m.redial.delay(attempt)
		m.setState(StateReconnecting, errString(err))
		m.debugLog("redialing", "attempt", attempt, "delay", delay, "error", err)
		m.mu.RLock()
		onReconnecting := m.onReconnecting
		m.mu.RUnlock()
		if onReconnecting != nil {
			onReconnecting(attempt, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// runOnce dials and reads until the stream ends.
func (m *Manager) runOnce(ctx context.Context, out chan<- wire.Telegram) error {
	m.setState(StateConnecting, "dial")

	cfg := m.config.Conn
	if cfg.Logger == nil {
		cfg.Logger = m.config.Logger
	}
	// A port that opens is not yet a controller; only a reply proves the
	// link and restarts the delays from Initial.
	onReply := cfg.OnReply
	cfg.OnReply = func() {
		m.replied()
		if onReply != nil {
			onReply()
		}
	}
	conn, err := transport.Dial(ctx, m.config.Dialer, cfg)

	m.mu.Lock()
	m.stats.Dials++
	if err != nil {
		m.stats.Failures++
		m.mu.Unlock()
		if m.config.Logger != nil {
			m.config.Logger.Warn("dial failed", "endpoint", m.config.Dialer.Endpoint(), "error", err)
		}
		return err
	}
	m.conn = conn
	m.mu.Unlock()

	m.setState(StateConnected, m.config.Dialer.Endpoint())

	err = conn.Run(ctx, out)
	conn.Close()

	m.mu.Lock()
	m.conn = nil
	if ctx.Err() == nil {
		m.stats.Lost++
	}
	m.mu.Unlock()

	if err == nil && ctx.Err() == nil {
		err = ErrConnectionClosed
	}
	return err
}

// Close stops a running manager by closing its stream. Run returns once
// the context passed to it is done.
func (m *Manager) Close() {
	m.mu.RLock()
	conn := m.conn
	m.mu.RUnlock()
	if conn != nil {
		conn.Close()
	}
}

// OnStateChange sets a callback for state changes.
func (m *Manager) OnStateChange(fn func(oldState, newState State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChange = fn
}

// OnReconnecting sets a callback for scheduled redials.
func (m *Manager) OnReconnecting(fn func(attempt int, delay time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReconnecting = fn
}

// RedialAttempts returns the number of redials since a stream last carried
// a reply.
func (m *Manager) RedialAttempts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attempts
}

func (m *Manager) replied() {
	m.mu.Lock()
	attempts := m.attempts
	m.attempts = 0
	m.mu.Unlock()
	if attempts > 0 {
		m.debugLog("controller answered", "after_attempts", attempts)
	}
}

func (m *Manager) setState(state State, reason string) {
	m.mu.Lock()
	old := m.state
	if old == state {
		m.mu.Unlock()
		return
	}
	m.state = state
	fn := m.onStateChange
	m.mu.Unlock()

	if m.config.Logger != nil {
		m.config.Logger.Info("link state changed", "from", old, "to", state, "reason", reason)
	}
	if pl := m.config.Conn.ProtocolLogger; pl != nil {
		pl.Log(log.Event{
			Timestamp: time.Now(),
			SessionID: m.config.Conn.SessionID,
			Direction: log.DirectionIn,
			Layer:     log.LayerTransport,
			Category:  log.CategoryState,
			Endpoint:  m.config.Dialer.Endpoint(),
			StateChange: &log.StateChangeEvent{
				Entity:   log.StateEntityConnection,
				OldState: old.String(),
				NewState: state.String(),
				Reason:   reason,
			},
		})
	}
	if fn != nil {
		fn(old, state)
	}
}

func (m *Manager) debugLog(msg string, args ...any) {
	if m.config.Logger != nil {
		m.config.Logger.Debug(msg, args...)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
