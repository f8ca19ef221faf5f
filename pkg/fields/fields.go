// Package fields resolves flattened object model paths to field
// identifiers.
//
// The field table is generated from fields.yaml and is sorted by lower-cased
// path at build time, so Lookup is a case-insensitive binary search with no
// runtime initialization.
package fields

//go:generate go run ../../cmd/paneldue-fieldgen -input fields.yaml -output table_gen.go

import (
	"sort"

	"github.com/paneldue/paneldue-go/pkg/wire"
)

// FieldID identifies a known field path. Unknown is the zero value.
type FieldID uint8

// NumFields is the number of field identifiers including Unknown.
const NumFields = int(numFields)

type entry struct {
	key string
	id  FieldID
}

type keyEntry struct {
	key string
	sub wire.Subsystem
}

// Lookup returns the identifier for path, ignoring case, or Unknown.
func Lookup(path string) FieldID {
	i := sort.Search(len(table), func(i int) bool {
		return compareFold(table[i].key, path) >= 0
	})
	if i < len(table) && compareFold(table[i].key, path) == 0 {
		return table[i].id
	}
	return Unknown
}

// LookupKey returns the subsystem for an M409 response key, ignoring case.
// The empty key identifies the heartbeat response (wire.SubsystemNone).
func LookupKey(key string) wire.Subsystem {
	i := sort.Search(len(keyTable), func(i int) bool {
		return compareFold(keyTable[i].key, key) >= 0
	})
	if i < len(keyTable) && compareFold(keyTable[i].key, key) == 0 {
		return keyTable[i].sub
	}
	return wire.SubsystemUnknown
}

// Path returns the path registered for f.
func (f FieldID) Path() string {
	if int(f) >= len(fieldPaths) {
		return ""
	}
	return fieldPaths[f]
}

// String returns the field path, or "UNKNOWN".
func (f FieldID) String() string {
	if f == Unknown || int(f) >= len(fieldPaths) {
		return "UNKNOWN"
	}
	return fieldPaths[f]
}

// compareFold compares the lower-case key with s, folding ASCII upper case
// in s.
func compareFold(key, s string) int {
	n := min(len(key), len(s))
	for i := 0; i < n; i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		switch {
		case key[i] < c:
			return -1
		case key[i] > c:
			return 1
		}
	}
	switch {
	case len(key) < len(s):
		return -1
	case len(key) > len(s):
		return 1
	}
	return 0
}
