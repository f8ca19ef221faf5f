package inspect

import (
	"errors"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input    string
		section  Section
		index    int
		hasIndex bool
		err      error
	}{
		{"machine", SectionMachine, 0, false, nil},
		{"tools", SectionTools, 0, false, nil},
		{"Tools/2", SectionTools, 2, true, nil},
		{"heat/0x0a", SectionHeaters, 10, true, nil},
		{" bed/1 ", SectionBeds, 1, true, nil},
		{"", 0, 0, false, ErrEmptyPath},
		{"/tools", 0, 0, false, ErrInvalidPath},
		{"tools/", 0, 0, false, ErrInvalidPath},
		{"tools//1", 0, 0, false, ErrInvalidPath},
		{"tools/1/2", 0, 0, false, ErrInvalidPath},
		{"widgets", 0, 0, false, ErrUnknownSection},
		{"machine/1", 0, 0, false, ErrNotIndexed},
		{"tools/x", 0, 0, false, ErrInvalidNumber},
		{"tools/300", 0, 0, false, ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := ParsePath(tt.input)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("ParsePath(%q) error = %v, want %v", tt.input, err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q) error = %v", tt.input, err)
			}
			if p.Section != tt.section || p.Index != tt.index || p.HasIndex != tt.hasIndex {
				t.Errorf("ParsePath(%q) = %+v", tt.input, p)
			}
		})
	}
}

func TestPathString(t *testing.T) {
	p, err := ParsePath("heat/3")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.String(); got != "heaters/3" {
		t.Errorf("String() = %q, want heaters/3", got)
	}
}

func TestResolveSectionName(t *testing.T) {
	for _, name := range SectionNames() {
		s, ok := ResolveSectionName(name)
		if !ok || s.String() != name {
			t.Errorf("ResolveSectionName(%q) = %v, %v", name, s, ok)
		}
	}
	if _, ok := ResolveSectionName("nope"); ok {
		t.Error("ResolveSectionName(nope) should fail")
	}
	if Section(200).String() != "unknown" {
		t.Error("out of range section should be unknown")
	}
}
