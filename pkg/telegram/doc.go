// Package telegram applies decoded controller telegrams to the object model.
//
// A Parser consumes the Begin, Value, ArrayEnd and End telegrams produced by
// wire.Flatten. Each value path is resolved through the fields table and
// dispatched to a handler that updates the model.Store, the sequence
// tracker or the per-message scratch state. Handlers never fail: values that
// do not parse are dropped and unknown paths are ignored.
//
// Shrinking collections are only detected at the end of an array. Tools and
// spindles that disappeared from the middle of an array are removed when the
// index jumps; entities past the last element are removed at ArrayEnd.
package telegram
