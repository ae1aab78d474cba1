// Command bs-tablegen generates the wire message type tables from YAML.
//
// Usage:
//
//	bs-tablegen -input tables.yaml -output tables_gen.go [-package wire]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

func main() {
	input := flag.String("input", "", "Path to the tables YAML")
	output := flag.String("output", "", "Output path for the generated Go file")
	pkg := flag.String("package", "wire", "Package name of the generated file")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: bs-tablegen -input <tables.yaml> -output <file.go> [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*input, *output, *pkg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output, pkg string) error {
	file, err := LoadTables(input)
	if err != nil {
		return fmt.Errorf("loading tables: %w", err)
	}
	resolved, err := Resolve(file)
	if err != nil {
		return err
	}
	code, err := Generate(resolved, pkg, filepath.Base(input))
	if err != nil {
		return fmt.Errorf("generating: %w", err)
	}
	if err := writeFormatted(output, code); err != nil {
		return err
	}
	fmt.Printf("  generated %s (%d tables)\n", output, len(resolved.Tables))
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
