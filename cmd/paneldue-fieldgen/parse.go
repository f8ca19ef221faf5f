package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxArrayLevels is the deepest array nesting a path may declare.
const maxArrayLevels = 2

// RawFieldDefs is the root of fields.yaml.
type RawFieldDefs struct {
	Keys   []string        `yaml:"keys"`
	Groups []RawFieldGroup `yaml:"groups"`
}

// RawFieldGroup is a documentation group of fields.
type RawFieldGroup struct {
	Name   string        `yaml:"name"`
	Fields []RawFieldDef `yaml:"fields"`
}

// RawFieldDef maps one path to a Go identifier.
type RawFieldDef struct {
	ID   string `yaml:"id"`
	Path string `yaml:"path"`
}

// LoadFieldDefs reads a field definition file.
func LoadFieldDefs(path string) (*RawFieldDefs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFieldDefs(data)
}

// ParseFieldDefs parses field definitions from YAML.
func ParseFieldDefs(data []byte) (*RawFieldDefs, error) {
	var def RawFieldDefs
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &def, nil
}

// NumFields returns the number of fields across all groups.
func (d *RawFieldDefs) NumFields() int {
	n := 0
	for _, g := range d.Groups {
		n += len(g.Fields)
	}
	return n
}

// Validate checks identifiers and paths for duplicates and depth.
func (d *RawFieldDefs) Validate() error {
	ids := make(map[string]bool)
	paths := make(map[string]string)
	for _, g := range d.Groups {
		for _, f := range g.Fields {
			if f.ID == "" || f.Path == "" {
				return fmt.Errorf("group %q: field needs id and path", g.Name)
			}
			if f.ID == "Unknown" {
				return fmt.Errorf("field id %q is reserved", f.ID)
			}
			if ids[f.ID] {
				return fmt.Errorf("duplicate field id %q", f.ID)
			}
			ids[f.ID] = true

			key := strings.ToLower(f.Path)
			if other, ok := paths[key]; ok {
				return fmt.Errorf("path %q of %s collides with %s", f.Path, f.ID, other)
			}
			paths[key] = f.ID

			if strings.Count(f.Path, "^") > maxArrayLevels {
				return fmt.Errorf("path %q nests more than %d arrays", f.Path, maxArrayLevels)
			}
		}
	}

	keys := make(map[string]bool)
	for _, k := range d.Keys {
		lk := strings.ToLower(k)
		if k == "" || keys[lk] {
			return fmt.Errorf("empty or duplicate key %q", k)
		}
		keys[lk] = true
	}
	return nil
}
