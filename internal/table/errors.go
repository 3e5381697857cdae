package table

import "fmt"

// ColumnNotFoundError indicates a reference to a column that does not exist
// in the table, or a key lookup on a table without a key.
type ColumnNotFoundError struct {
	Table  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column '%s' not found in table '%s'", e.Column, e.Table)
}

// DuplicateColumnError indicates an add or rename that would collide with an
// existing column name.
type DuplicateColumnError struct {
	Table  string
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("column '%s' already exists in table '%s'", e.Column, e.Table)
}

// LengthMismatchError indicates a column whose length differs from the
// table's row count.
type LengthMismatchError struct {
	Table  string
	Column string
	Want   int // table row count
	Got    int // offending column length
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("column '%s' has %d values, table '%s' has %d rows",
		e.Column, e.Got, e.Table, e.Want)
}

// TypeMismatchError indicates a value incompatible with a column's declared
// type, or a comparison between incompatible column types.
type TypeMismatchError struct {
	Table  string
	Column string
	Want   ColumnType
	Value  interface{} // offending value (may be nil for column/column mismatches)
}

func (e *TypeMismatchError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("column '%s' in table '%s': incompatible with type %s",
			e.Column, e.Table, e.Want)
	}
	return fmt.Sprintf("column '%s' in table '%s': expected %s, got %T (%v)",
		e.Column, e.Table, e.Want, e.Value, e.Value)
}

// StaleIndexError indicates a key lookup against a table whose rows or key
// columns were mutated after SetKey. The key must be rebuilt before querying.
type StaleIndexError struct {
	Table string
	Key   []string
}

func (e *StaleIndexError) Error() string {
	return fmt.Sprintf("key %v on table '%s' is stale, call SetKey again", e.Key, e.Table)
}

// NoKeyError indicates a key lookup against a table that has no key set.
type NoKeyError struct {
	Table string
}

func (e *NoKeyError) Error() string {
	return fmt.Sprintf("table '%s' has no key set", e.Table)
}
