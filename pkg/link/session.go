package link

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paneldue/paneldue-go/pkg/log"
	"github.com/paneldue/paneldue-go/pkg/metrics"
	"github.com/paneldue/paneldue-go/pkg/model"
	"github.com/paneldue/paneldue-go/pkg/poll"
	"github.com/paneldue/paneldue-go/pkg/seq"
	"github.com/paneldue/paneldue-go/pkg/telegram"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

// Defaults.
const (
	// DefaultQueueSize is the telegram queue capacity.
	DefaultQueueSize = 512

	// DefaultTickInterval is the spacing of Run ticks.
	DefaultTickInterval = 20 * time.Millisecond
)

// Session errors.
var (
	ErrNoSender     = errors.New("no sender configured")
	ErrEmptyCommand = errors.New("empty command")
)

// Sender transmits request lines to the controller.
type Sender interface {
	SendLine(line string) error
}

// Config configures a Session.
type Config struct {
	// Poll configures the scheduler.
	Poll poll.Config

	// QueueSize is the telegram queue capacity (default: 512).
	QueueSize int

	// SessionID tags protocol log events. Generated when empty.
	SessionID string

	// Logger receives operational messages. Nil disables them.
	Logger *slog.Logger

	// ProtocolLogger receives request and response events. Nil disables them.
	ProtocolLogger log.Logger

	// Metrics records link activity. Nil disables it.
	Metrics *metrics.Metrics
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Poll:      poll.DefaultConfig(),
		QueueSize: DefaultQueueSize,
	}
}

// TickResult describes what one tick did.
type TickResult struct {
	// Telegrams is the number of telegrams applied.
	Telegrams int

	// Responses holds the messages completed during the tick.
	Responses []telegram.Result

	// Action is the request sent, valid when Sent is true.
	Action poll.Action
	Sent   bool

	// SendErr is set when sending Action failed.
	SendErr error

	// Changes are the store changes delivered to subscribers.
	Changes []model.Change
}

// Session is the top-level link object.
type Session struct {
	mu sync.Mutex

	config  Config
	sender  Sender
	queue   chan wire.Telegram
	store   *model.Store
	tracker *seq.Tracker
	sched   *poll.Scheduler
	parser  *telegram.Parser

	subscribers []model.Subscriber

	lastRequest  wire.Request
	lastSentAt   time.Time
	lastStatus   wire.PrinterStatus
	lastResponse time.Time
	ticks        uint64
	sendErrors   uint64
}

// NewSession creates a session that transmits through sender.
func NewSession(config Config, sender Sender) *Session {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultQueueSize
	}
	if config.SessionID == "" {
		config.SessionID = uuid.New().String()
	}

	s := &Session{
		config:  config,
		sender:  sender,
		queue:   make(chan wire.Telegram, config.QueueSize),
		store:   model.NewStore(),
		tracker: seq.NewTracker(),
	}
	s.sched = poll.NewScheduler(config.Poll, s.tracker)
	s.parser = telegram.NewParser(telegram.Config{Logger: config.Logger}, s.store, s.tracker, s.sched)
	s.lastStatus = s.store.Machine().Status
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.config.SessionID
}

// Queue returns the producer side of the telegram queue.
func (s *Session) Queue() chan<- wire.Telegram {
	return s.queue
}

// Subscribe registers a change subscriber.
func (s *Session) Subscribe(sub model.Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// View calls fn with the store locked. fn must not retain entity pointers.
func (s *Session) View(fn func(store *model.Store)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.store)
}

// Sequences returns the tracker state of every keyed subsystem.
func (s *Session) Sequences() map[wire.Subsystem]seq.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[wire.Subsystem]seq.Entry, wire.NumSubsystems)
	for i := 0; i < wire.NumSubsystems; i++ {
		sub := wire.Subsystem(i)
		if sub.Valid() {
			out[sub] = s.tracker.Entry(sub)
		}
	}
	return out
}

// Stats summarizes the session.
type Stats struct {
	Ticks        uint64
	SendErrors   uint64
	Restarts     int
	UpTime       uint32
	Initialized  bool
	Poll         poll.Stats
	LastResponse time.Time
}

// Stats returns session counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Ticks:        s.ticks,
		SendErrors:   s.sendErrors,
		Restarts:     s.tracker.Restarts(),
		UpTime:       s.tracker.UpTime(),
		Initialized:  s.sched.Initialized(),
		Poll:         s.sched.Stats(),
		LastResponse: s.lastResponse,
	}
}

// Command queues a G-code line sent in place of the next heartbeat.
func (s *Session) Command(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return ErrEmptyCommand
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.Queue(line)
	return nil
}

// SetSlow switches to the slow poll interval while the panel is idle.
func (s *Session) SetSlow(slow bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.SetSlow(slow)
}

// ConnectionLost resets the link after the stream was reopened. The next
// scoped requests resynchronize the store.
func (s *Session) ConnectionLost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.Reconnect()
	s.tracker.Reset()
	m := s.store.Machine()
	if m.Status != wire.PrinterStatusConnecting {
		m.Status = wire.PrinterStatusConnecting
		s.store.Notify(model.ChangeStatus, 0)
	}
}

// Tick drains the telegram queue, runs the scheduler and delivers the
// recorded changes. now is the Clock value.
func (s *Session) Tick(now uint32) TickResult {
	var res TickResult

	s.mu.Lock()
	s.ticks++
	s.drain(now, &res)
	action, send := s.sched.Tick(now)
	if send {
		s.lastRequest = action.Request
		s.lastSentAt = time.Now()
	}
	s.traceStatus()
	res.Changes = s.store.TakeChanges()
	subs := append([]model.Subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	if send {
		res.Action = action
		res.Sent = true
		res.SendErr = s.send(action)
	}
	for _, c := range res.Changes {
		for _, sub := range subs {
			sub.OnModelChange(c)
		}
	}
	return res
}

// Run ticks with clock every interval until ctx is done.
func (s *Session) Run(ctx context.Context, clock Clock, interval time.Duration) error {
	if s.sender == nil {
		return ErrNoSender
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if r := s.Tick(clock.Now()); r.SendErr != nil {
				s.debugLog("send failed", "line", strings.TrimSpace(r.Action.Line), "error", r.SendErr)
			}
		}
	}
}

// drain applies every queued telegram without blocking.
func (s *Session) drain(now uint32, res *TickResult) {
	for {
		select {
		case t := <-s.queue:
			res.Telegrams++
			if r, ended := s.parser.Apply(t); ended {
				s.responseDone(now, r)
				res.Responses = append(res.Responses, r)
			}
		default:
			return
		}
	}
}

func (s *Session) responseDone(now uint32, r telegram.Result) {
	s.sched.ResponseReceived(now)
	s.lastResponse = time.Now()

	var latency *time.Duration
	if !s.lastSentAt.IsZero() {
		d := s.lastResponse.Sub(s.lastSentAt)
		latency = &d
		s.config.Metrics.ObserveLatency(d.Seconds())
		s.lastSentAt = time.Time{}
	}
	s.config.Metrics.Response(r.Subsystem.String(), r.Values, r.Unknown)
	for _, sub := range wire.PollOrder {
		s.config.Metrics.SetDirty(sub.Key(), s.tracker.IsDirty(sub))
	}

	if pl := s.config.ProtocolLogger; pl != nil {
		pl.Log(log.Event{
			Timestamp: s.lastResponse,
			SessionID: s.config.SessionID,
			Direction: log.DirectionIn,
			Layer:     log.LayerWire,
			Category:  log.CategoryMessage,
			Response: &log.ResponseEvent{
				Subsystem: r.Subsystem.String(),
				Values:    r.Values,
				Unknown:   r.Unknown,
				Restarted: r.Restarted,
				Latency:   latency,
			},
		})
	}

	if r.Restarted {
		s.config.Metrics.Resync()
		s.traceState(log.StateEntitySync, "SYNCED", "RESYNC", "uptime rollback")
	}
}

func (s *Session) send(a poll.Action) error {
	if s.sender == nil {
		return ErrNoSender
	}
	s.config.Metrics.Request(a.Kind.String())

	if pl := s.config.ProtocolLogger; pl != nil {
		category := log.CategoryMessage
		if a.Kind == poll.ActionResend {
			category = log.CategoryPoll
		}
		req := &log.RequestEvent{Kind: a.Kind.String(), Line: strings.TrimSpace(a.Line)}
		if a.Kind != poll.ActionCommand {
			req.Key = a.Request.Key.Key()
			req.Flags = a.Request.Flags
		}
		pl.Log(log.Event{
			Timestamp: time.Now(),
			SessionID: s.config.SessionID,
			Direction: log.DirectionOut,
			Layer:     log.LayerWire,
			Category:  category,
			Request:   req,
		})
	}
	if a.Kind == poll.ActionResend && s.config.Logger != nil {
		s.config.Logger.Warn("response timeout, resending heartbeat")
	}

	err := s.sender.SendLine(a.Line)
	if err != nil {
		s.mu.Lock()
		s.sendErrors++
		s.mu.Unlock()
	}
	return err
}

// traceStatus logs a printer status transition.
func (s *Session) traceStatus() {
	status := s.store.Machine().Status
	if status == s.lastStatus {
		return
	}
	s.traceState(log.StateEntityPrinter, s.lastStatus.String(), status.String(), "")
	s.lastStatus = status
}

func (s *Session) traceState(entity log.StateEntity, from, to, reason string) {
	if s.config.ProtocolLogger == nil {
		return
	}
	s.config.ProtocolLogger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.config.SessionID,
		Direction: log.DirectionIn,
		Layer:     log.LayerModel,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	})
}

func (s *Session) debugLog(msg string, args ...any) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, args...)
	}
}
