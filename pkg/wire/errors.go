package wire

import "errors"

// Wire errors.
var (
	// ErrNotRequest is returned when a line is not an M409 request.
	ErrNotRequest = errors.New("not an object model request")

	// ErrMalformed is returned when an inbound line is not a JSON object.
	ErrMalformed = errors.New("malformed response")

	// ErrUnknownSubsystem is returned for an object model key that is not
	// a known subsystem.
	ErrUnknownSubsystem = errors.New("unknown subsystem")
)
