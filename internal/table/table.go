package table

import (
	"sync"
)

// Row is a single table row materialized as column name -> cell value.
// A nil value is the missing marker.
type Row map[string]interface{}

// Table is an ordered mapping from column name to a typed column. Every
// column has the same length (the row count). Mutating operations apply in
// place to the owning table and never create an implicit copy.
//
// A table is not safe for concurrent mutation; callers serialize access via
// the table's lock or a single-owner discipline.
type Table struct {
	mu    sync.RWMutex
	Name  string
	names []string
	cols  map[string]*Column

	rowCount int

	// key holds the designated key columns after SetKey; the sorted
	// order is the canonical row order, not a side index.
	key []string

	// version counts mutations to rows or key columns; keyVersion is the
	// version the key was built at. A mismatch means the key is stale.
	version    uint64
	keyVersion uint64
}

// New creates an empty table with the given name.
func New(name string) *Table {
	return &Table{
		Name: name,
		cols: make(map[string]*Column),
	}
}

// Lock acquires an exclusive lock for write operations.
func (t *Table) Lock() { t.mu.Lock() }

// Unlock releases the exclusive lock.
func (t *Table) Unlock() { t.mu.Unlock() }

// RLock acquires a read lock.
func (t *Table) RLock() { t.mu.RLock() }

// RUnlock releases the read lock.
func (t *Table) RUnlock() { t.mu.RUnlock() }

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return t.rowCount
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, &ColumnNotFoundError{Table: t.Name, Column: name}
	}
	return col, nil
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// AddColumn adds a new column in place. The first column added determines
// the table's row count; later columns must match it.
func (t *Table) AddColumn(name string, typ ColumnType, values []interface{}) error {
	if _, exists := t.cols[name]; exists {
		return &DuplicateColumnError{Table: t.Name, Column: name}
	}
	if len(t.names) > 0 && len(values) != t.rowCount {
		return &LengthMismatchError{Table: t.Name, Column: name, Want: t.rowCount, Got: len(values)}
	}

	col, err := NewColumn(typ, values)
	if err != nil {
		if tm, ok := err.(*TypeMismatchError); ok {
			tm.Table = t.Name
			tm.Column = name
		}
		return err
	}

	if len(t.names) == 0 {
		t.rowCount = len(values)
	}
	t.names = append(t.names, name)
	t.cols[name] = col
	return nil
}

// RemoveColumn removes a column in place. Removing a key column drops the key.
func (t *Table) RemoveColumn(name string) error {
	if _, exists := t.cols[name]; !exists {
		return &ColumnNotFoundError{Table: t.Name, Column: name}
	}
	delete(t.cols, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
	if t.isKeyColumn(name) {
		t.key = nil
	}
	if len(t.names) == 0 {
		t.rowCount = 0
	}
	return nil
}

// RenameColumn renames a column in place, preserving its position and any
// key membership.
func (t *Table) RenameColumn(oldName, newName string) error {
	col, exists := t.cols[oldName]
	if !exists {
		return &ColumnNotFoundError{Table: t.Name, Column: oldName}
	}
	if _, exists := t.cols[newName]; exists {
		return &DuplicateColumnError{Table: t.Name, Column: newName}
	}
	delete(t.cols, oldName)
	t.cols[newName] = col
	for i, n := range t.names {
		if n == oldName {
			t.names[i] = newName
		}
	}
	for i, n := range t.key {
		if n == oldName {
			t.key[i] = newName
		}
	}
	return nil
}

// SetValue overwrites a single cell in place. Writing into a key column
// marks the key stale; lookups fail until SetKey is called again.
func (t *Table) SetValue(name string, pos int, value interface{}) error {
	col, exists := t.cols[name]
	if !exists {
		return &ColumnNotFoundError{Table: t.Name, Column: name}
	}
	nv, err := normalizeValue(col.Type, value)
	if err != nil {
		if tm, ok := err.(*TypeMismatchError); ok {
			tm.Table = t.Name
			tm.Column = name
		}
		return err
	}
	col.values[pos] = nv
	if t.isKeyColumn(name) {
		t.version++
	}
	return nil
}

// Row materializes the row at the given position.
func (t *Table) Row(pos int) Row {
	row := make(Row, len(t.names))
	for _, name := range t.names {
		row[name] = t.cols[name].values[pos]
	}
	return row
}

// Subset builds a new table containing the rows at the given positions, in
// that order. The result shares no storage with the receiver and carries no
// key.
func (t *Table) Subset(positions []int) *Table {
	out := New(t.Name)
	out.rowCount = len(positions)
	for _, name := range t.names {
		out.names = append(out.names, name)
		out.cols[name] = t.cols[name].subset(positions)
	}
	return out
}

// AppendRow adds one row in place, validating each value against its
// column's type. Columns absent from the row get a missing value. Appending
// marks any key stale.
func (t *Table) AppendRow(row Row) error {
	// Validate the whole row before touching any column, so a bad value
	// cannot leave columns at different lengths.
	normalized := make([]interface{}, len(t.names))
	for i, name := range t.names {
		nv, err := normalizeValue(t.cols[name].Type, row[name])
		if err != nil {
			if tm, ok := err.(*TypeMismatchError); ok {
				tm.Table = t.Name
				tm.Column = name
			}
			return err
		}
		normalized[i] = nv
	}
	for i, name := range t.names {
		col := t.cols[name]
		col.values = append(col.values, normalized[i])
	}
	t.rowCount++
	t.version++
	return nil
}

// reorder applies a row permutation to every column in place.
func (t *Table) reorder(perm []int) {
	for _, name := range t.names {
		t.cols[name].reorder(perm)
	}
}

func (t *Table) isKeyColumn(name string) bool {
	for _, k := range t.key {
		if k == name {
			return true
		}
	}
	return false
}
