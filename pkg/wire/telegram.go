package wire

import (
	"fmt"
	"strings"
)

// MaxIndices is the number of array levels carried by a telegram.
const MaxIndices = 2

// Kind is the type of an inbound telegram.
type Kind uint8

const (
	// KindBegin starts a response.
	KindBegin Kind = iota

	// KindValue carries one scalar value.
	KindValue

	// KindArrayEnd closes an array.
	KindArrayEnd

	// KindEnd completes a response.
	KindEnd
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "BEGIN"
	case KindValue:
		return "VALUE"
	case KindArrayEnd:
		return "ARRAY_END"
	case KindEnd:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// Telegram is one decoded unit of an inbound response.
type Telegram struct {
	Kind Kind

	// Path is the flattened field path, e.g. "result:axes^:letter".
	Path string

	// Value is the raw textual value. Strings are unescaped, null is "".
	Value string

	// Indices holds the position at each array level of Path. For
	// ArrayEnd the deepest level holds the element count instead.
	Indices [MaxIndices]int
}

// String returns a compact human-readable form.
func (t Telegram) String() string {
	switch t.Kind {
	case KindValue:
		return fmt.Sprintf("%s%s = %q", t.Path, t.indexSuffix(), t.Value)
	case KindArrayEnd:
		return fmt.Sprintf("%s%s END", t.Path, t.indexSuffix())
	default:
		return t.Kind.String()
	}
}

func (t Telegram) indexSuffix() string {
	levels := strings.Count(t.Path, "^")
	if levels == 0 {
		return ""
	}
	if levels > MaxIndices {
		levels = MaxIndices
	}
	var b strings.Builder
	for i := 0; i < levels; i++ {
		fmt.Fprintf(&b, "[%d]", t.Indices[i])
	}
	return b.String()
}
