// Package persistence keeps panel link state across restarts.
//
// The state file is JSON and holds the last controller the link reached,
// so that a daemon started with mDNS discovery can fall back to the known
// address when no controller answers the browse. The object model itself
// is never persisted: it is rebuilt from the controller on every connect.
package persistence
