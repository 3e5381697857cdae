package table

import "fmt"

// ColumnType identifies the element type of a column. The type is fixed when
// the column is built and every non-missing cell must match it.
type ColumnType string

const (
	ColumnTypeInt   ColumnType = "INT"
	ColumnTypeFloat ColumnType = "FLOAT"
	ColumnTypeText  ColumnType = "TEXT"
	ColumnTypeBool  ColumnType = "BOOL"
)

// Column is a homogeneously typed ordered sequence of cell values.
// A nil cell is the missing marker and is valid in any column.
type Column struct {
	Type   ColumnType
	values []interface{}
}

// NewColumn builds a column of the given type from values, validating every
// non-missing value against the type. Integer values are normalized to int64.
func NewColumn(typ ColumnType, values []interface{}) (*Column, error) {
	c := &Column{Type: typ, values: make([]interface{}, len(values))}
	for i, v := range values {
		nv, err := normalizeValue(typ, v)
		if err != nil {
			return nil, err
		}
		c.values[i] = nv
	}
	return c, nil
}

// Len returns the number of cells in the column.
func (c *Column) Len() int {
	return len(c.values)
}

// Value returns the cell at position i. A nil result is a missing value.
func (c *Column) Value(i int) interface{} {
	return c.values[i]
}

// Values returns a copy of all cells in order.
func (c *Column) Values() []interface{} {
	out := make([]interface{}, len(c.values))
	copy(out, c.values)
	return out
}

// IsMissing reports whether the cell at position i is the missing marker.
func (c *Column) IsMissing(i int) bool {
	return c.values[i] == nil
}

// subset returns a new column containing the cells at the given positions.
func (c *Column) subset(positions []int) *Column {
	out := &Column{Type: c.Type, values: make([]interface{}, len(positions))}
	for i, pos := range positions {
		out.values[i] = c.values[pos]
	}
	return out
}

// reorder rearranges the column in place so cell i becomes the cell that was
// at perm[i]. perm must be a permutation of the column's positions.
func (c *Column) reorder(perm []int) {
	reordered := make([]interface{}, len(c.values))
	for i, pos := range perm {
		reordered[i] = c.values[pos]
	}
	c.values = reordered
}

// normalizeValue validates v against typ and normalizes int to int64.
// The missing marker passes for every type.
func normalizeValue(typ ColumnType, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch typ {
	case ColumnTypeInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		}
	case ColumnTypeFloat:
		if _, ok := v.(float64); ok {
			return v, nil
		}
	case ColumnTypeText:
		if _, ok := v.(string); ok {
			return v, nil
		}
	case ColumnTypeBool:
		if _, ok := v.(bool); ok {
			return v, nil
		}
	}
	return nil, &TypeMismatchError{Want: typ, Value: v}
}

// CompareValues orders two non-missing cell values of the same type.
// Returns -1, 0 or 1. Callers decide where missing values sort; passing nil
// here is a programming error.
func CompareValues(a, b interface{}) int {
	switch av := a.(type) {
	case int64:
		bv := b.(int64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		bv := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv := b.(bool)
		switch {
		case !av && bv:
			return -1
		case av && !bv:
			return 1
		}
		return 0
	}
	panic(fmt.Sprintf("uncomparable cell value %T", a))
}
