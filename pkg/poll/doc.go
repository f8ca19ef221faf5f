// Package poll decides when and what to request from the controller.
//
// The scheduler is driven by a monotonic millisecond tick supplied by the
// caller. It never sends while a previous request is still within its
// response window and spaces requests so the controller can keep up:
//
//   - a poll is considered only if PollInterval elapsed since the last one
//     and ResponseInterval elapsed since the last response
//   - if a response arrived since the last poll, the highest-priority dirty
//     subsystem is requested in full, else a queued command, else a heartbeat
//   - if no response arrived and PollTimeout elapsed, the heartbeat is resent
//
// Tick arithmetic is wrap-safe for uint32 millisecond counters.
package poll
