// Package connection keeps the controller link open.
//
// A Manager dials the configured transport, runs the line reader until the
// stream fails and then redials. The delay before attempt n is
//
//	min(Initial * 2^(n-1), Max) + random(0, delay * Jitter)
//
// Initial defaults to the poll timeout, so a controller that stops
// answering is given the same grace period before the first redial as an
// unanswered request. The attempt count only resets once a stream carries a
// complete reply: a serial adapter that enumerates while the firmware is
// still booting, or a telnet port that accepts and then closes, keeps
// backing off.
//
// USB serial adapters disappear while the controller resets, so a failed
// open is treated like a lost stream.
package connection
