package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/paneldue/paneldue-go/pkg/log"
)

// Framing constants.
const (
	// DefaultMaxLineSize is the default maximum line length (16 KB).
	DefaultMaxLineSize = 16384

	// MaxLogFrameDataSize is the maximum line length included in trace
	// events. Longer lines are truncated in the event.
	MaxLogFrameDataSize = 4096
)

// Framing errors.
var (
	// ErrLineTooLong indicates a line exceeded the maximum size. The rest of
	// the line was discarded and the reader is positioned at the next line.
	ErrLineTooLong = errors.New("line too long")

	// ErrLineEmpty indicates an attempt to write an empty line.
	ErrLineEmpty = errors.New("line is empty")
)

// LineWriter writes newline terminated lines.
type LineWriter struct {
	w  io.Writer
	mu sync.Mutex

	// Logging support (optional)
	logger    log.Logger
	sessionID string
	endpoint  string
}

// NewLineWriter creates a line writer.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// SetLogger configures trace logging. Pass nil to disable it.
func (lw *LineWriter) SetLogger(logger log.Logger, sessionID, endpoint string) {
	lw.logger = logger
	lw.sessionID = sessionID
	lw.endpoint = endpoint
}

// WriteLine writes line, appending a newline if it has none. It is safe
// for concurrent use.
func (lw *LineWriter) WriteLine(line string) error {
	if line == "" || line == "\n" {
		return ErrLineEmpty
	}
	if line[len(line)-1] != '\n' {
		line += "\n"
	}

	lw.mu.Lock()
	defer lw.mu.Unlock()

	if _, err := io.WriteString(lw.w, line); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	if lw.logger != nil {
		lw.logger.Log(frameEvent([]byte(line), log.DirectionOut, lw.sessionID, lw.endpoint))
	}
	return nil
}

// LineReader reads newline terminated lines. "\r\n" is accepted.
type LineReader struct {
	r           *bufio.Reader
	maxLineSize int

	// Logging support (optional)
	logger    log.Logger
	sessionID string
	endpoint  string
}

// NewLineReader creates a line reader with the default maximum size.
func NewLineReader(r io.Reader) *LineReader {
	return NewLineReaderWithMaxSize(r, DefaultMaxLineSize)
}

// NewLineReaderWithMaxSize creates a line reader with a custom maximum size.
func NewLineReaderWithMaxSize(r io.Reader, maxSize int) *LineReader {
	if maxSize <= 0 {
		maxSize = DefaultMaxLineSize
	}
	return &LineReader{r: bufio.NewReaderSize(r, min(maxSize, 4096)), maxLineSize: maxSize}
}

// SetLogger configures trace logging. Pass nil to disable it.
func (lr *LineReader) SetLogger(logger log.Logger, sessionID, endpoint string) {
	lr.logger = logger
	lr.sessionID = sessionID
	lr.endpoint = endpoint
}

// ReadLine returns the next line without its terminator. Empty lines are
// skipped. At the end of the stream a final unterminated line is returned
// before io.EOF.
func (lr *LineReader) ReadLine() ([]byte, error) {
	for {
		line, err := lr.readRaw()
		if err != nil && (len(line) == 0 || !errors.Is(err, io.EOF)) {
			return nil, err
		}
		size := len(line)
		line = trimEOL(line)
		if len(line) == 0 {
			if err != nil {
				return nil, err
			}
			continue
		}
		if lr.logger != nil {
			e := frameEvent(line, log.DirectionIn, lr.sessionID, lr.endpoint)
			e.Frame.Size = size
			lr.logger.Log(e)
		}
		return line, nil
	}
}

func (lr *LineReader) readRaw() ([]byte, error) {
	var buf []byte
	for {
		chunk, err := lr.r.ReadSlice('\n')
		if len(buf)+len(chunk) > lr.maxLineSize {
			if errors.Is(err, bufio.ErrBufferFull) {
				lr.discardLine()
			}
			return nil, fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, lr.maxLineSize)
		}
		buf = append(buf, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return buf, err
	}
}

func (lr *LineReader) discardLine() {
	for {
		_, err := lr.r.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return
		}
	}
}

func trimEOL(line []byte) []byte {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

// frameEvent creates a trace event for a line.
func frameEvent(data []byte, direction log.Direction, sessionID, endpoint string) log.Event {
	frameData := data
	truncated := false
	if len(data) > MaxLogFrameDataSize {
		frameData = data[:MaxLogFrameDataSize]
		truncated = true
	}
	return log.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: direction,
		Layer:     log.LayerTransport,
		Category:  log.CategoryMessage,
		Endpoint:  endpoint,
		Frame: &log.FrameEvent{
			Size:      len(data),
			Data:      append([]byte(nil), frameData...),
			Truncated: truncated,
		},
	}
}

// Framer combines line reading and writing on one stream.
type Framer struct {
	*LineReader
	*LineWriter
}

// NewFramer creates a framer for bidirectional communication.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		LineReader: NewLineReader(rw),
		LineWriter: NewLineWriter(rw),
	}
}

// SetLogger configures trace logging for both directions.
func (f *Framer) SetLogger(logger log.Logger, sessionID, endpoint string) {
	f.LineReader.SetLogger(logger, sessionID, endpoint)
	f.LineWriter.SetLogger(logger, sessionID, endpoint)
}
