// Package seq tracks the controller's per-subsystem sequence numbers.
//
// Every heartbeat response carries a sequence number for each object model
// subsystem. A subsystem whose number differs from the last one seen is
// marked dirty until a scoped response for it completes. A drop in the
// controller's uptime means it restarted; the tracker is then reset so every
// subsystem is fetched again.
//
// Tracker is not safe for concurrent use; it is owned by a single session.
package seq
