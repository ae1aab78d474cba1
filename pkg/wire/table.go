package wire

import "fmt"

// MaxTableSize is the number of names a table can hold with a one-byte type.
const MaxTableSize = 256

// Table is an ordered list of message names. A name's index is its wire value.
// Tables are immutable after construction and safe for concurrent use.
type Table struct {
	name  string
	names []string
	index map[string]int
}

// NewTable builds a table. It panics on duplicate names or when the table
// does not fit a one-byte type, since tables are static program data.
func NewTable(name string, names ...string) *Table {
	if len(names) > MaxTableSize {
		panic(fmt.Sprintf("wire: table %s has %d names, max %d", name, len(names), MaxTableSize))
	}
	t := &Table{
		name:  name,
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		if _, dup := t.index[n]; dup {
			panic(fmt.Sprintf("wire: table %s has duplicate name %q", name, n))
		}
		t.index[n] = i
	}
	return t
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// Len returns the number of names.
func (t *Table) Len() int { return len(t.names) }

// Index returns the wire value for a name.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// TypeName returns the name at a wire value.
func (t *Table) TypeName(i int) (string, bool) {
	if i < 0 || i >= len(t.names) {
		return "", false
	}
	return t.names[i], true
}

// Contains reports whether name is in the table.
func (t *Table) Contains(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Names returns a copy of the names in wire order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// String returns the table name.
func (t *Table) String() string { return t.name }
