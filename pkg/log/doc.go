// Package log provides the protocol trace of a controller link.
//
// It is separate from operational logging (slog). The trace records every
// line exchanged with the controller, each poll decision and the outcome of
// each parsed response, as a machine-readable CBOR event stream.
//
// # Basic Usage
//
//	// Console output during development
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// Binary trace file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/paneldue/link.plog")
//
//	// Rotating trace for long running daemons
//	cfg.ProtocolLogger = log.NewRotatingLogger(log.RotationConfig{Path: "/var/log/paneldue/link.plog"})
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
//   - Transport: raw lines in and out (FrameEvent)
//   - Wire: outbound requests (RequestEvent) and parsed responses (ResponseEvent)
//   - Model: connection, printer and synchronization state (StateChangeEvent)
//
// Errors from any layer use ErrorEventData.
//
// # File Format
//
// Trace files are a plain concatenation of CBOR encoded events with the
// .plog extension. The paneldue-log tool views, summarizes and exports them.
package log
