// Package inspect renders the object model for people.
//
// The inspect package offers:
//   - Parsing selector paths (e.g., "tools/0", "heaters", "machine")
//   - Snapshots of the store that are safe to keep after the lock is released
//   - Formatting snapshots and single entities for display
package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath      = errors.New("empty path")
	ErrInvalidPath    = errors.New("invalid path format")
	ErrInvalidNumber  = errors.New("invalid numeric value in path")
	ErrUnknownSection = errors.New("unknown section")
	ErrNotIndexed     = errors.New("section has no index")
)

// Path is a parsed selector.
// Format: section[/index]
type Path struct {
	// Section is the selected part of the model.
	Section Section

	// Index is the entity index when HasIndex is set.
	Index int

	// HasIndex indicates a single entity is selected.
	HasIndex bool

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a selector.
//
// Supported formats:
//   - "section" - the whole section
//   - "section/index" - one entity of an indexed section
//
// Index values can be decimal or hex (0x prefix).
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}
	if strings.HasPrefix(input, "/") || strings.HasSuffix(input, "/") || strings.Contains(input, "//") {
		return nil, ErrInvalidPath
	}

	parts := strings.Split(input, "/")
	if len(parts) > 2 {
		return nil, ErrInvalidPath
	}

	sec, ok := ResolveSectionName(parts[0])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, parts[0])
	}
	p := &Path{Section: sec, Raw: input}
	if len(parts) == 1 {
		return p, nil
	}

	if !sec.Indexed() {
		return nil, fmt.Errorf("%w: %s", ErrNotIndexed, sec)
	}
	idx, err := parseIndex(parts[1])
	if err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	p.Index = idx
	p.HasIndex = true
	return p, nil
}

// String returns the path in canonical form.
func (p *Path) String() string {
	if p.HasIndex {
		return fmt.Sprintf("%s/%d", p.Section, p.Index)
	}
	return p.Section.String()
}

func parseIndex(s string) (int, error) {
	var (
		v   uint64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 8)
	} else {
		v, err = strconv.ParseUint(s, 10, 8)
	}
	if err != nil {
		return 0, ErrInvalidNumber
	}
	return int(v), nil
}
