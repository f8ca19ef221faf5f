// Package wire defines the line-oriented wire vocabulary spoken between the
// panel and a RepRapFirmware-style machine controller.
//
// Outbound traffic consists of object-model requests (M409). Every request is
// a single G-code line terminated by a newline:
//
//	M409 F"d99f"               heartbeat (live values plus sequence numbers)
//	M409 K"move" F"v"          scoped request for one subsystem
//
// Inbound traffic is one JSON object per line. The transport flattens each
// object into a stream of telegrams:
//   - Begin: a new response starts
//   - Value: one scalar, addressed by a path such as "heat:heaters^:active"
//   - ArrayEnd: an array closed; the closing level's index holds its length
//   - End: the response is complete
//
// # Paths
//
// Path segments are separated by ':' and every array level appends '^' to
// the segment name. At most two array levels are tracked, so a telegram
// carries at most two indices.
package wire
