package table

import (
	"fmt"
	"sort"
)

// NoMatchPolicy controls what a Lookup emits when no rows match.
type NoMatchPolicy int

const (
	// OmitNoMatch emits zero rows for a key with no matches.
	OmitNoMatch NoMatchPolicy = iota
	// NullRowNoMatch emits a single row with the looked-up key values and
	// every other column set to missing.
	NullRowNoMatch
)

// LookupOptions configures Lookup behavior.
type LookupOptions struct {
	NoMatch NoMatchPolicy
}

// SetKey reorders the table's rows in place, ascending by the given columns
// with ties broken by prior row order. Missing values sort last. The sorted
// order becomes the canonical row order and the columns become the table's
// key.
func (t *Table) SetKey(columns ...string) error {
	if len(columns) == 0 {
		return &NoKeyError{Table: t.Name}
	}
	keyCols := make([]*Column, len(columns))
	for i, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		keyCols[i] = col
	}

	perm := make([]int, t.rowCount)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		for _, col := range keyCols {
			c := CompareCells(col.values[perm[i]], col.values[perm[j]], true)
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	t.reorder(perm)

	t.key = append([]string(nil), columns...)
	t.version++
	t.keyVersion = t.version
	return nil
}

// Key returns the key column names, or nil if no key is set.
func (t *Table) Key() []string {
	if t.key == nil {
		return nil
	}
	return append([]string(nil), t.key...)
}

// LookupRange binary-searches the key for the contiguous run of rows whose
// leading key columns equal the given values. The values may be a prefix of
// the key. Returns the half-open position range [start, end).
func (t *Table) LookupRange(values []interface{}) (int, int, error) {
	if t.key == nil {
		return 0, 0, &NoKeyError{Table: t.Name}
	}
	if t.keyVersion != t.version {
		return 0, 0, &StaleIndexError{Table: t.Name, Key: t.Key()}
	}
	if len(values) > len(t.key) {
		return 0, 0, fmt.Errorf("lookup on table '%s': %d values for a %d-column key", t.Name, len(values), len(t.key))
	}

	keyCols := make([]*Column, len(values))
	normalized := make([]interface{}, len(values))
	for i := range values {
		col := t.cols[t.key[i]]
		nv, err := normalizeValue(col.Type, values[i])
		if err != nil {
			if tm, ok := err.(*TypeMismatchError); ok {
				tm.Table = t.Name
				tm.Column = t.key[i]
			}
			return 0, 0, err
		}
		keyCols[i] = col
		normalized[i] = nv
	}

	// comparePrefix orders row pos against the looked-up tuple.
	comparePrefix := func(pos int) int {
		for i, col := range keyCols {
			c := CompareCells(col.values[pos], normalized[i], true)
			if c != 0 {
				return c
			}
		}
		return 0
	}

	start := sort.Search(t.rowCount, func(i int) bool { return comparePrefix(i) >= 0 })
	end := sort.Search(t.rowCount, func(i int) bool { return comparePrefix(i) > 0 })
	return start, end, nil
}

// Lookup materializes the rows matching a key tuple prefix as a new table.
// With NullRowNoMatch a miss yields one row carrying the looked-up key
// values and missing everywhere else; with OmitNoMatch a miss yields an
// empty table.
func (t *Table) Lookup(values []interface{}, opts LookupOptions) (*Table, error) {
	start, end, err := t.LookupRange(values)
	if err != nil {
		return nil, err
	}

	if start == end && opts.NoMatch == NullRowNoMatch {
		out := New(t.Name)
		out.rowCount = 1
		for _, name := range t.names {
			cell := interface{}(nil)
			for i, keyName := range t.key {
				if i < len(values) && keyName == name {
					cell, _ = normalizeValue(t.cols[name].Type, values[i])
				}
			}
			out.names = append(out.names, name)
			out.cols[name] = &Column{Type: t.cols[name].Type, values: []interface{}{cell}}
		}
		return out, nil
	}

	positions := make([]int, 0, end-start)
	for pos := start; pos < end; pos++ {
		positions = append(positions, pos)
	}
	return t.Subset(positions), nil
}

// CompareCells orders two cells of the same column, placing missing values
// last when missingLast is true and first otherwise.
func CompareCells(a, b interface{}, missingLast bool) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			if missingLast {
				return 1
			}
			return -1
		default:
			if missingLast {
				return -1
			}
			return 1
		}
	}
	return CompareValues(a, b)
}
