package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/paneldue/paneldue-go/pkg/log"
	"github.com/paneldue/paneldue-go/pkg/wire"
)

// Stream is a bidirectional byte stream to the controller.
type Stream = io.ReadWriteCloser

// Dialer opens streams to one controller endpoint.
// Implemented by SerialDialer and TCPDialer.
type Dialer interface {
	// Dial opens a new stream.
	Dial(ctx context.Context) (Stream, error)

	// Endpoint describes the controller address for logs.
	Endpoint() string
}

// Connection states.
type ConnectionState int32

const (
	// StateDisconnected indicates no connection.
	StateDisconnected ConnectionState = iota

	// StateConnecting indicates a dial in progress.
	StateConnecting

	// StateConnected indicates an open stream.
	StateConnected

	// StateClosing indicates close in progress.
	StateClosing
)

// String returns the connection state name.
func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// Connection errors.
var (
	ErrNotConnected     = errors.New("not connected")
	ErrConnectionClosed = errors.New("connection closed")
)

// ConnConfig configures a Conn.
type ConnConfig struct {
	// MaxLineSize is the maximum reply line length (default: 16KB).
	MaxLineSize int

	// Logger receives operational messages. Nil disables them.
	Logger *slog.Logger

	// ProtocolLogger receives trace events. Nil disables tracing.
	ProtocolLogger log.Logger

	// SessionID tags trace events.
	SessionID string

	// Endpoint tags trace events.
	Endpoint string

	// OnReply is called from the reader goroutine after each complete
	// reply has been queued.
	OnReply func()
}

// Stats counts reader activity.
type Stats struct {
	Lines     uint64
	Skipped   uint64
	Malformed uint64
	TooLong   uint64
	Telegrams uint64
}

// Conn is an open controller stream. SendLine may be called from any
// goroutine; Run must be called once.
type Conn struct {
	config ConnConfig
	stream Stream
	reader *LineReader
	writer *LineWriter

	state     atomic.Int32
	closeOnce sync.Once
	closeCh   chan struct{}

	lines     atomic.Uint64
	skipped   atomic.Uint64
	malformed atomic.Uint64
	tooLong   atomic.Uint64
	telegrams atomic.Uint64
}

// NewConn wraps an open stream.
func NewConn(config ConnConfig, stream Stream) *Conn {
	c := &Conn{
		config:  config,
		stream:  stream,
		reader:  NewLineReaderWithMaxSize(stream, config.MaxLineSize),
		writer:  NewLineWriter(stream),
		closeCh: make(chan struct{}),
	}
	if config.ProtocolLogger != nil {
		c.reader.SetLogger(config.ProtocolLogger, config.SessionID, config.Endpoint)
		c.writer.SetLogger(config.ProtocolLogger, config.SessionID, config.Endpoint)
	}
	c.state.Store(int32(StateConnected))
	return c
}

// Dial opens a stream with d and wraps it.
func Dial(ctx context.Context, d Dialer, config ConnConfig) (*Conn, error) {
	if config.Endpoint == "" {
		config.Endpoint = d.Endpoint()
	}
	stream, err := d.Dial(ctx)
	if err != nil {
		return nil, err
	}
	return NewConn(config, stream), nil
}

// State returns the connection state.
func (c *Conn) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// SendLine writes one request line.
func (c *Conn) SendLine(line string) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}
	return c.writer.WriteLine(line)
}

// Run reads reply lines until the stream fails, ctx is done or Close is
// called. Each JSON line is flattened and its telegrams are sent to out in
// order; sends block while out is full. Run returns nil after Close or
// context cancellation and the read error otherwise.
func (c *Conn) Run(ctx context.Context, out chan<- wire.Telegram) error {
	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	for {
		line, err := c.reader.ReadLine()
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				c.tooLong.Add(1)
				c.traceError(err, "read line")
				continue
			}
			if c.closing() {
				return nil
			}
			c.traceError(err, "read line")
			c.Close()
			return err
		}
		c.lines.Add(1)

		if !isJSONObject(line) {
			c.skipped.Add(1)
			c.debugLog("skipping non-JSON line", "line", string(line))
			continue
		}

		telegrams, err := wire.Flatten(line)
		if err != nil {
			c.malformed.Add(1)
			c.traceError(err, "flatten")
			c.debugLog("dropping malformed reply", "error", err)
			continue
		}
		for _, t := range telegrams {
			c.telegrams.Add(1)
			select {
			case out <- t:
			case <-c.closeCh:
				return nil
			}
		}
		if c.config.OnReply != nil {
			c.config.OnReply()
		}
	}
}

// Close closes the stream. It is safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosing))
		close(c.closeCh)
		err = c.stream.Close()
		c.state.Store(int32(StateDisconnected))
	})
	return err
}

// Done is closed when the connection is closed.
func (c *Conn) Done() <-chan struct{} {
	return c.closeCh
}

// Stats returns reader counters.
func (c *Conn) Stats() Stats {
	return Stats{
		Lines:     c.lines.Load(),
		Skipped:   c.skipped.Load(),
		Malformed: c.malformed.Load(),
		TooLong:   c.tooLong.Load(),
		Telegrams: c.telegrams.Load(),
	}
}

func (c *Conn) closing() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

func (c *Conn) traceError(err error, context string) {
	if c.config.ProtocolLogger == nil {
		return
	}
	c.config.ProtocolLogger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: c.config.SessionID,
		Direction: log.DirectionIn,
		Layer:     log.LayerTransport,
		Category:  log.CategoryError,
		Endpoint:  c.config.Endpoint,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Context: context,
		},
	})
}

func (c *Conn) debugLog(msg string, args ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, args...)
	}
}

func isJSONObject(line []byte) bool {
	line = bytes.TrimSpace(line)
	return len(line) > 0 && line[0] == '{'
}
