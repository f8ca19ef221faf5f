// Package transport carries the controller link over a byte stream.
//
// The transport layer handles:
//   - Serial ports (USB CDC or UART) and TCP streams
//   - Newline framing of requests and replies
//   - A reader goroutine that flattens each JSON reply into telegrams
//   - Connection state reporting
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│  Telegrams (Begin/Value/End)   │
//	├────────────────────────────────┤
//	│   One JSON object per line     │
//	├────────────────────────────────┤
//	│     Newline framing ("\n")     │
//	├────────────────────────────────┤
//	│      Serial port or TCP        │
//	└────────────────────────────────┘
//
// Lines that are not JSON objects, such as "ok" acknowledgements, are
// skipped. A malformed JSON line is reported and dropped as a whole, so the
// parser never sees a partial message.
package transport
