package poll

import (
	"time"

	"github.com/paneldue/paneldue-go/pkg/seq"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

// Timing defaults.
const (
	// DefaultPollInterval is the spacing between polls.
	DefaultPollInterval = 1000 * time.Millisecond

	// DefaultSlowPollInterval is used while the panel is idle (screensaver).
	DefaultSlowPollInterval = 4 * DefaultPollInterval

	// DefaultResponseInterval is the minimum quiet time after a response.
	DefaultResponseInterval = 700 * time.Millisecond

	// DefaultPollTimeout is how long to wait for a response before resending.
	DefaultPollTimeout = 4000 * time.Millisecond
)

// Config configures the scheduler.
type Config struct {
	// PollInterval is the spacing between polls.
	PollInterval time.Duration

	// SlowPollInterval replaces PollInterval while slow polling is enabled.
	SlowPollInterval time.Duration

	// ResponseInterval is the minimum time after a response before the next poll.
	ResponseInterval time.Duration

	// PollTimeout is how long an unanswered request is waited for.
	PollTimeout time.Duration

	// Fetch is the set of subsystems refreshed with scoped requests.
	Fetch wire.SubsystemSet
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval:     DefaultPollInterval,
		SlowPollInterval: DefaultSlowPollInterval,
		ResponseInterval: DefaultResponseInterval,
		PollTimeout:      DefaultPollTimeout,
		Fetch:            wire.DefaultFetchSet,
	}
}

// ActionKind classifies what the scheduler decided to send.
type ActionKind uint8

const (
	// ActionHeartbeat is a regular live-values poll.
	ActionHeartbeat ActionKind = iota

	// ActionScoped fetches one dirty subsystem in full.
	ActionScoped

	// ActionCommand is a queued one-off command line.
	ActionCommand

	// ActionResend is a heartbeat sent after the previous request timed out.
	ActionResend
)

// String returns the action name.
func (k ActionKind) String() string {
	switch k {
	case ActionHeartbeat:
		return "HEARTBEAT"
	case ActionScoped:
		return "SCOPED"
	case ActionCommand:
		return "COMMAND"
	case ActionResend:
		return "RESEND"
	default:
		return "UNKNOWN"
	}
}

// Action is a line the caller should send now.
type Action struct {
	Kind ActionKind

	// Request is set for heartbeat, scoped and resend actions.
	Request wire.Request

	// Line is the complete text to transmit, newline included.
	Line string
}

// Stats counts scheduler decisions.
type Stats struct {
	Heartbeats uint64
	Scoped     uint64
	Commands   uint64
	Resends    uint64
}

// Scheduler implements the poll timing rules.
type Scheduler struct {
	config  Config
	tracker *seq.Tracker

	lastPoll     uint32
	lastResponse uint32
	started      bool
	slow         bool
	initialized  bool
	commands     []string
	stats        Stats
}

// NewScheduler creates a scheduler that consults tracker for dirty subsystems.
func NewScheduler(config Config, tracker *seq.Tracker) *Scheduler {
	def := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.SlowPollInterval <= 0 {
		config.SlowPollInterval = def.SlowPollInterval
	}
	if config.ResponseInterval <= 0 {
		config.ResponseInterval = def.ResponseInterval
	}
	if config.PollTimeout <= 0 {
		config.PollTimeout = def.PollTimeout
	}
	return &Scheduler{config: config, tracker: tracker}
}

// Config returns the effective configuration.
func (s *Scheduler) Config() Config {
	return s.config
}

// Tick returns the action to take at time now, if any.
func (s *Scheduler) Tick(now uint32) (Action, bool) {
	if !s.started {
		s.started = true
		s.lastPoll = now
		s.stats.Heartbeats++
		return heartbeat(ActionHeartbeat), true
	}

	interval := s.config.PollInterval
	if s.slow {
		interval = s.config.SlowPollInterval
	}
	sincePoll := now - s.lastPoll
	if sincePoll < millis(interval) || now-s.lastResponse < millis(s.config.ResponseInterval) {
		return Action{}, false
	}

	if s.responded(now) {
		s.lastPoll = now
		if sub, ok := s.tracker.Next(s.config.Fetch); ok {
			s.initialized = true
			s.stats.Scoped++
			req := wire.Scoped(sub)
			return Action{Kind: ActionScoped, Request: req, Line: req.String()}, true
		}
		if len(s.commands) > 0 {
			line := s.commands[0]
			s.commands = s.commands[1:]
			s.stats.Commands++
			return Action{Kind: ActionCommand, Line: line}, true
		}
		s.stats.Heartbeats++
		return heartbeat(ActionHeartbeat), true
	}

	if sincePoll >= millis(s.config.PollTimeout) {
		s.lastPoll = now
		s.stats.Resends++
		return heartbeat(ActionResend), true
	}
	return Action{}, false
}

// ResponseReceived records the completion time of a response.
func (s *Scheduler) ResponseReceived(now uint32) {
	s.lastResponse = now
}

// Pending reports whether the last request is still unanswered.
func (s *Scheduler) Pending(now uint32) bool {
	return s.started && !s.responded(now)
}

// Queue adds a command line that is sent instead of the next heartbeat.
func (s *Scheduler) Queue(line string) {
	if line == "" {
		return
	}
	if line[len(line)-1] != '\n' {
		line += "\n"
	}
	s.commands = append(s.commands, line)
}

// SetSlow switches between the normal and the slow poll interval.
func (s *Scheduler) SetSlow(slow bool) {
	s.slow = slow
}

// Initialized reports whether a scoped request was sent since the last
// reconnect.
func (s *Scheduler) Initialized() bool {
	return s.initialized
}

// Reconnect forgets initialization so the panel resynchronizes.
func (s *Scheduler) Reconnect() {
	s.initialized = false
}

// Stats returns decision counters.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// responded reports whether a response arrived since the last poll.
func (s *Scheduler) responded(now uint32) bool {
	return now-s.lastPoll > now-s.lastResponse
}

func heartbeat(kind ActionKind) Action {
	req := wire.Heartbeat()
	return Action{Kind: kind, Request: req, Line: req.String()}
}

func millis(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}
