// Command paneldue-fieldgen writes the sorted field lookup table from a
// YAML field list.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

func main() {
	input := flag.String("input", "", "Path to fields.yaml")
	output := flag.String("output", "", "Output path for the generated Go file")
	pkg := flag.String("package", "fields", "Package name of the generated file")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: paneldue-fieldgen -input <fields.yaml> -output <table_gen.go> [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*input, *output, *pkg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output, pkg string) error {
	def, err := LoadFieldDefs(input)
	if err != nil {
		return fmt.Errorf("loading %s: %w", input, err)
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("validating %s: %w", input, err)
	}

	code, err := Generate(def, pkg)
	if err != nil {
		return fmt.Errorf("generating table: %w", err)
	}
	if err := writeFormatted(output, code); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(output), err)
	}
	fmt.Printf("  generated %s (%d fields, %d keys)\n", output, def.NumFields(), len(def.Keys))
	return nil
}

func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
