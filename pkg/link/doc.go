// Package link runs the panel side of the controller link.
//
// A Session owns the object model store, the sequence tracker, the poll
// scheduler and the telegram parser. Telegrams arrive on a bounded queue
// filled by the transport reader goroutine. Everything else happens inside
// Tick, which the owner calls periodically:
//
//	transport reader ──► queue ──► Tick: parse ─► schedule ─► send
//	                                         │
//	                                         └──► changes ─► subscribers
//
// Other goroutines read the store through View. Subscribers are called
// after the tick with the session unlocked, so they may call View.
package link
