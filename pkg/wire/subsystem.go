package wire

import (
	"fmt"
	"strings"
)

// Subsystem identifies a top-level section of the controller object model.
type Subsystem uint8

const (
	// SubsystemUnknown is used for keys the panel does not understand.
	SubsystemUnknown Subsystem = iota

	// SubsystemNone marks the heartbeat response, which carries no key.
	SubsystemNone

	SubsystemBoards
	SubsystemDirectories
	SubsystemFans
	SubsystemHeat
	SubsystemInputs
	SubsystemJob
	SubsystemLimits
	SubsystemMove
	SubsystemNetwork
	SubsystemReply
	SubsystemScanner
	SubsystemSensors
	SubsystemSeqs
	SubsystemSpindles
	SubsystemState
	SubsystemTools
	SubsystemVolumes

	numSubsystems
)

// NumSubsystems is the number of defined subsystem identifiers.
const NumSubsystems = int(numSubsystems)

var subsystemKeys = [numSubsystems]string{
	SubsystemUnknown:     "",
	SubsystemNone:        "",
	SubsystemBoards:      "boards",
	SubsystemDirectories: "directories",
	SubsystemFans:        "fans",
	SubsystemHeat:        "heat",
	SubsystemInputs:      "inputs",
	SubsystemJob:         "job",
	SubsystemLimits:      "limits",
	SubsystemMove:        "move",
	SubsystemNetwork:     "network",
	SubsystemReply:       "reply",
	SubsystemScanner:     "scanner",
	SubsystemSensors:     "sensors",
	SubsystemSeqs:        "seqs",
	SubsystemSpindles:    "spindles",
	SubsystemState:       "state",
	SubsystemTools:       "tools",
	SubsystemVolumes:     "volumes",
}

// Key returns the object model key used on the wire, or "" for the
// heartbeat and unknown subsystems.
func (s Subsystem) Key() string {
	if s >= numSubsystems {
		return ""
	}
	return subsystemKeys[s]
}

// String returns the subsystem name.
func (s Subsystem) String() string {
	switch s {
	case SubsystemUnknown:
		return "UNKNOWN"
	case SubsystemNone:
		return "NONE"
	}
	if s >= numSubsystems {
		return "UNKNOWN"
	}
	return subsystemKeys[s]
}

// Valid reports whether s names a keyed subsystem.
func (s Subsystem) Valid() bool {
	return s > SubsystemNone && s < numSubsystems
}

// ParseSubsystem returns the subsystem for an object model key. Matching
// ignores case.
func ParseSubsystem(key string) (Subsystem, bool) {
	for s := SubsystemBoards; s < numSubsystems; s++ {
		if strings.EqualFold(subsystemKeys[s], key) {
			return s, true
		}
	}
	return SubsystemUnknown, false
}

// ParseSubsystemSet builds a set from object model keys.
func ParseSubsystemSet(keys []string) (SubsystemSet, error) {
	var set SubsystemSet
	for _, k := range keys {
		s, ok := ParseSubsystem(strings.TrimSpace(k))
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownSubsystem, k)
		}
		set = set.With(s)
	}
	return set, nil
}

// PollOrder is the fixed priority in which dirty subsystems are fetched.
// Limits, reply and seqs are never fetched with a scoped request.
var PollOrder = []Subsystem{
	SubsystemNetwork,
	SubsystemBoards,
	SubsystemMove,
	SubsystemHeat,
	SubsystemTools,
	SubsystemSpindles,
	SubsystemDirectories,
	SubsystemFans,
	SubsystemInputs,
	SubsystemJob,
	SubsystemScanner,
	SubsystemSensors,
	SubsystemState,
	SubsystemVolumes,
}

// SubsystemSet is a bit set of subsystems.
type SubsystemSet uint32

// NewSubsystemSet returns a set containing subs.
func NewSubsystemSet(subs ...Subsystem) SubsystemSet {
	var set SubsystemSet
	for _, s := range subs {
		set = set.With(s)
	}
	return set
}

// With returns a copy of the set including s.
func (set SubsystemSet) With(s Subsystem) SubsystemSet {
	return set | 1<<s
}

// Without returns a copy of the set excluding s.
func (set SubsystemSet) Without(s Subsystem) SubsystemSet {
	return set &^ (1 << s)
}

// Has reports whether s is in the set.
func (set SubsystemSet) Has(s Subsystem) bool {
	return set&(1<<s) != 0
}

// Members returns the subsystems in the set in identifier order.
func (set SubsystemSet) Members() []Subsystem {
	var out []Subsystem
	for s := Subsystem(0); s < numSubsystems; s++ {
		if set.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

// DefaultFetchSet is the set of subsystems refreshed with scoped requests
// when their sequence number changes.
var DefaultFetchSet = NewSubsystemSet(
	SubsystemBoards,
	SubsystemHeat,
	SubsystemJob,
	SubsystemMove,
	SubsystemNetwork,
	SubsystemSpindles,
	SubsystemState,
	SubsystemTools,
	SubsystemVolumes,
)
