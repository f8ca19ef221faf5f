// Package discovery finds network-attached controllers with mDNS/DNS-SD.
//
// Controllers with networking enabled advertise their telnet service
// (_telnet._tcp) on the local domain. The browser aggregates the entries
// reported per interface into one Controller per instance name, so a board
// reachable over both IPv4 and IPv6 is reported once with all addresses.
//
// # TXT Records
//
// Boards may publish board type and firmware version in TXT records. The
// keys are read case-insensitively; unknown keys are kept in Controller.TXT.
//
// A discovered Controller converts to a transport endpoint with Address.
package discovery
