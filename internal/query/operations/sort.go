package operations

import (
	"sort"

	"github.com/leengari/keytable/internal/table"
)

// OrderSpec orders one column, ascending unless Descending is set.
type OrderSpec struct {
	Column     string
	Descending bool
}

// OrderOptions configures Order. By default missing values sort first,
// which differs from the mutating SetKey where they sort last; set
// MissingLast to get SetKey's placement. The asymmetry between the two
// entry points is intentional.
type OrderOptions struct {
	MissingLast bool
}

// Order computes a new row ordering by one or more columns without mutating
// the table. Ties keep their original relative order (stable sort).
func Order(t *table.Table, specs []OrderSpec, opts OrderOptions) (RowSelection, error) {
	t.RLock()
	defer t.RUnlock()

	cols := make([]*table.Column, len(specs))
	for i, spec := range specs {
		col, err := t.Column(spec.Column)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	perm := make(RowSelection, t.RowCount())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		for k, col := range cols {
			c := table.CompareCells(col.Value(perm[i]), col.Value(perm[j]), opts.MissingLast)
			if c == 0 {
				continue
			}
			if specs[k].Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return perm, nil
}
