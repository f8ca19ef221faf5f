package wire

import (
	"fmt"
	"strings"
)

// Request flags understood by the controller.
const (
	// HeartbeatFlags requests live values (d99) in frequently-changing
	// form (f), including the sequence numbers.
	HeartbeatFlags = "d99f"

	// VerboseFlags requests all values of a subsystem.
	VerboseFlags = "v"

	// VerboseNullFlags additionally includes null values. Used for state so
	// that a cleared message box is reported.
	VerboseNullFlags = "vn"
)

// Request is an outbound object model query.
type Request struct {
	// Key is the subsystem to fetch, or SubsystemNone for a heartbeat.
	Key Subsystem

	// Flags is the M409 flag string.
	Flags string
}

// Heartbeat returns the live-values request.
func Heartbeat() Request {
	return Request{Key: SubsystemNone, Flags: HeartbeatFlags}
}

// Scoped returns the full request for a single subsystem.
func Scoped(s Subsystem) Request {
	flags := VerboseFlags
	if s == SubsystemState {
		flags = VerboseNullFlags
	}
	return Request{Key: s, Flags: flags}
}

// IsHeartbeat reports whether r is a keyless request.
func (r Request) IsHeartbeat() bool {
	return !r.Key.Valid()
}

// String returns the G-code line including the trailing newline.
func (r Request) String() string {
	if r.IsHeartbeat() {
		return fmt.Sprintf("M409 F\"%s\"\n", r.Flags)
	}
	return fmt.Sprintf("M409 K\"%s\" F\"%s\"\n", r.Key.Key(), r.Flags)
}

// ParseRequest parses a request line as produced by Request.String. It is
// used when replaying protocol logs.
func ParseRequest(line string) (Request, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "M409") {
		return Request{}, fmt.Errorf("%w: %q", ErrNotRequest, line)
	}
	var req Request
	req.Key = SubsystemNone
	for _, field := range strings.Fields(line[len("M409"):]) {
		if len(field) < 3 || field[1] != '"' || field[len(field)-1] != '"' {
			return Request{}, fmt.Errorf("%w: bad parameter %q", ErrNotRequest, field)
		}
		val := field[2 : len(field)-1]
		switch field[0] {
		case 'K':
			req.Key = SubsystemUnknown
			for s := SubsystemBoards; s < numSubsystems; s++ {
				if strings.EqualFold(s.Key(), val) {
					req.Key = s
					break
				}
			}
		case 'F':
			req.Flags = val
		}
	}
	return req, nil
}
