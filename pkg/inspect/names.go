package inspect

import "strings"

// Section is a top-level part of the object model that can be inspected.
type Section uint8

const (
	SectionMachine Section = iota
	SectionAxes
	SectionTools
	SectionSpindles
	SectionHeaters
	SectionBeds
	SectionChambers
	SectionJob
	SectionFiles
	numSections
)

var sectionNames = [numSections]string{
	SectionMachine:  "machine",
	SectionAxes:     "axes",
	SectionTools:    "tools",
	SectionSpindles: "spindles",
	SectionHeaters:  "heaters",
	SectionBeds:     "beds",
	SectionChambers: "chambers",
	SectionJob:      "job",
	SectionFiles:    "files",
}

// sectionAliases are accepted in addition to the section names.
var sectionAliases = map[string]Section{
	"axis":    SectionAxes,
	"move":    SectionAxes,
	"tool":    SectionTools,
	"spindle": SectionSpindles,
	"heater":  SectionHeaters,
	"heat":    SectionHeaters,
	"bed":     SectionBeds,
	"chamber": SectionChambers,
	"state":   SectionMachine,
	"m":       SectionMachine,
}

// String returns the section name.
func (s Section) String() string {
	if s >= numSections {
		return "unknown"
	}
	return sectionNames[s]
}

// Indexed reports whether the section is a list addressed by index.
func (s Section) Indexed() bool {
	switch s {
	case SectionAxes, SectionTools, SectionSpindles, SectionHeaters, SectionBeds, SectionChambers:
		return true
	}
	return false
}

// ResolveSectionName resolves a section name or alias (case-insensitive).
func ResolveSectionName(name string) (Section, bool) {
	lname := strings.ToLower(name)
	for i, n := range sectionNames {
		if n == lname {
			return Section(i), true
		}
	}
	s, ok := sectionAliases[lname]
	return s, ok
}

// SectionNames returns the section names in display order.
func SectionNames() []string {
	return append([]string(nil), sectionNames[:]...)
}
