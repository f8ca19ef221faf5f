package log

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// A trace is a sequence of Event items written back to back, one CBOR item
// per event, so a reader can start at any rotated file. Keys are sorted so
// identical events encode identically. Decoding skips unknown keys, letting
// older readers open newer traces, and caps nesting well above the depth of
// any event so a file that is not a trace fails on its first item.
var (
	traceEnc = mustEncMode(cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	})
	traceDec = mustDecMode(cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthForbidden,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		MaxNestedLevels:   maxEventNesting,
	})
)

// maxEventNesting bounds map and array depth in a trace item.
const maxEventNesting = 8

func mustEncMode(opts cbor.EncOptions) cbor.EncMode {
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace encoder options: %v", err))
	}
	return mode
}

func mustDecMode(opts cbor.DecOptions) cbor.DecMode {
	mode, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("trace decoder options: %v", err))
	}
	return mode
}

// Event is one protocol trace record. CBOR encoding uses integer keys.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one link session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Endpoint is the serial device or network address of the controller.
	Endpoint string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Request     *RequestEvent     `cbor:"11,keyasint,omitempty"`
	Response    *ResponseEvent    `cbor:"12,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn is controller to panel.
	DirectionIn Direction = 0
	// DirectionOut is panel to controller.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where the event was captured.
type Layer uint8

const (
	// LayerTransport is the byte stream (raw lines).
	LayerTransport Layer = 0
	// LayerWire is requests and decoded responses.
	LayerWire Layer = 1
	// LayerModel is the object model and link state.
	LayerModel Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerModel:
		return "MODEL"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage is a line, request or response.
	CategoryMessage Category = 0
	// CategoryPoll is a poll timing event such as a resend.
	CategoryPoll Category = 1
	// CategoryState is a state change.
	CategoryState Category = 2
	// CategoryError is an error.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryPoll:
		return "POLL"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures one raw line.
type FrameEvent struct {
	// Size is the line length in bytes including the terminator.
	Size int `cbor:"1,keyasint"`

	// Data is the line (may be truncated for long lines).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// RequestEvent captures an outbound request.
type RequestEvent struct {
	// Kind is the poll decision, e.g. "HEARTBEAT", "SCOPED" or "RESEND".
	Kind string `cbor:"1,keyasint"`

	// Key is the object model key, empty for heartbeats and commands.
	Key string `cbor:"2,keyasint,omitempty"`

	// Flags are the M409 flags.
	Flags string `cbor:"3,keyasint,omitempty"`

	// Line is the exact text sent.
	Line string `cbor:"4,keyasint"`
}

// ResponseEvent summarizes one parsed response.
type ResponseEvent struct {
	// Subsystem is the response key, "NONE" for a heartbeat reply.
	Subsystem string `cbor:"1,keyasint"`

	// Values is the number of values received.
	Values int `cbor:"2,keyasint"`

	// Unknown is the number of values with unknown paths.
	Unknown int `cbor:"3,keyasint,omitempty"`

	// Restarted is set when the response revealed a controller restart.
	Restarted bool `cbor:"4,keyasint,omitempty"`

	// Latency is the time since the request went out, if known.
	// Stored as nanoseconds.
	Latency *time.Duration `cbor:"5,keyasint,omitempty"`
}

// StateChangeEvent captures link and machine state transitions.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection is the transport connection.
	StateEntityConnection StateEntity = 0
	// StateEntityPrinter is the machine status reported by the controller.
	StateEntityPrinter StateEntity = 1
	// StateEntitySync is the sequence synchronization (resyncs).
	StateEntitySync StateEntity = 2
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityPrinter:
		return "PRINTER"
	case StateEntitySync:
		return "SYNC"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
