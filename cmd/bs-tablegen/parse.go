package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxTableSize matches wire.MaxTableSize: a type is one byte.
const maxTableSize = 256

var (
	errDuplicateTable = errors.New("duplicate table")
	errUnknownSplice  = errors.New("splice of undeclared table")
	errNoPrefix       = errors.New("literal name in a table without prefix")
	errDuplicateValue = errors.New("duplicate value")
	errTooLarge       = errors.New("table exceeds 256 entries")
)

// RawFile is the YAML document.
type RawFile struct {
	Tables []RawTable `yaml:"tables"`
}

// RawTable is one table as written in YAML.
type RawTable struct {
	Name   string   `yaml:"name"`
	Doc    string   `yaml:"doc"`
	Prefix string   `yaml:"prefix"`
	Values []string `yaml:"values"`

	// Wire is false for grouping tables whose indices are never sent.
	Wire *bool `yaml:"wire"`
}

// IsWire reports whether the table's indices are wire values. Tables are
// wire tables unless marked otherwise.
func (t RawTable) IsWire() bool {
	return t.Wire == nil || *t.Wire
}

// LoadTables reads and parses a tables YAML file.
func LoadTables(path string) (*RawFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTables(data)
}

// ParseTables parses a tables YAML document.
func ParseTables(data []byte) (*RawFile, error) {
	var f RawFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return &f, nil
}

// Constant is one generated name constant.
type Constant struct {
	Ident string
	Value string
}

// Table is a table with splices expanded and values bound to constants.
type Table struct {
	Name string
	Doc  string
	Wire bool

	// Constants declared by this table, in order of first appearance.
	Constants []Constant

	// Entries are the constant identifiers in wire order.
	Entries []string
}

// Resolved is the generator input.
type Resolved struct {
	Tables []Table
}

// Resolve expands splices and assigns constant identifiers. A name keeps
// the identifier of the first table that declared it.
func Resolve(f *RawFile) (*Resolved, error) {
	entries := make(map[string][]string) // table -> identifiers
	idents := make(map[string]string) // value -> identifier
	out := &Resolved{}

	for _, raw := range f.Tables {
		if _, dup := entries[raw.Name]; dup {
			return nil, fmt.Errorf("%w: %s", errDuplicateTable, raw.Name)
		}
		t := Table{Name: raw.Name, Doc: raw.Doc, Wire: raw.IsWire()}
		seen := make(map[string]bool)

		add := func(ident string) error {
			if seen[ident] {
				return fmt.Errorf("%w in %s: %s", errDuplicateValue, raw.Name, ident)
			}
			seen[ident] = true
			t.Entries = append(t.Entries, ident)
			return nil
		}

		for _, v := range raw.Values {
			if ref, ok := strings.CutPrefix(v, "$"); ok {
				src, found := entries[ref]
				if !found {
					return nil, fmt.Errorf("%w: %s in %s", errUnknownSplice, ref, raw.Name)
				}
				for _, ident := range src {
					if err := add(ident); err != nil {
						return nil, err
					}
				}
				continue
			}

			ident, declared := idents[v]
			if !declared {
				if raw.Prefix == "" {
					return nil, fmt.Errorf("%w: %s in %s", errNoPrefix, v, raw.Name)
				}
				ident = Ident(raw.Prefix, v)
				idents[v] = ident
				t.Constants = append(t.Constants, Constant{Ident: ident, Value: v})
			}
			if err := add(ident); err != nil {
				return nil, err
			}
		}

		if len(t.Entries) > maxTableSize {
			return nil, fmt.Errorf("%w: %s has %d", errTooLarge, raw.Name, len(t.Entries))
		}
		out.Tables = append(out.Tables, t)
		entries[raw.Name] = t.Entries
	}
	return out, nil
}

// Ident builds a constant identifier: Ident("Msg", "getName") is MsgGetName.
func Ident(prefix, value string) string {
	if value == "" {
		return prefix
	}
	return prefix + strings.ToUpper(value[:1]) + value[1:]
}
