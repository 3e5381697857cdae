package operations

import (
	"github.com/leengari/keytable/internal/table"
)

// PredicateFunc is a function that tests whether a row matches certain criteria
type PredicateFunc func(table.Row) bool

// RowSelection is an ordered set of row positions, the intermediate between
// filtering and materialization. It is scoped to a single query execution.
type RowSelection []int

// Where evaluates the predicate over every row (vector scan) and returns the
// matching positions in original row order. Use Table.LookupRange instead
// when the filter is an equality on the table's key columns.
func Where(t *table.Table, pred PredicateFunc) RowSelection {
	t.RLock()
	defer t.RUnlock()

	queryID := notifyStart(EventFilterStart, t.Name)
	defer notifyEnd(EventFilterEnd, queryID, t.Name)

	var result RowSelection
	for pos := 0; pos < t.RowCount(); pos++ {
		if pred(t.Row(pos)) {
			result = append(result, pos)
		}
	}
	return result
}

// SelectWhere materializes the rows matching the predicate as a new table.
func SelectWhere(t *table.Table, pred PredicateFunc) *table.Table {
	return t.Subset(Where(t, pred))
}
