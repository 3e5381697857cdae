package testutil

import (
	"testing"

	"github.com/leengari/keytable/internal/table"
)

// AssertRowCount checks if the table has the expected number of rows
func AssertRowCount(t *testing.T, tbl *table.Table, expected int, context string) {
	t.Helper()
	if tbl.RowCount() != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, tbl.RowCount())
	}
}

// AssertCell checks one cell of a table against an expected value
func AssertCell(t *testing.T, tbl *table.Table, column string, pos int, expected interface{}, context string) {
	t.Helper()
	col, err := tbl.Column(column)
	if err != nil {
		t.Errorf("%s: %v", context, err)
		return
	}
	if n, ok := expected.(int); ok {
		expected = int64(n) // cells store int64
	}
	if got := col.Value(pos); got != expected {
		t.Errorf("%s: %s[%d] expected %v, got %v", context, column, pos, expected, got)
	}
}

// AssertMissing checks that one cell is the missing marker
func AssertMissing(t *testing.T, tbl *table.Table, column string, pos int, context string) {
	t.Helper()
	col, err := tbl.Column(column)
	if err != nil {
		t.Errorf("%s: %v", context, err)
		return
	}
	if got := col.Value(pos); got != nil {
		t.Errorf("%s: %s[%d] expected missing, got %v", context, column, pos, got)
	}
}

// AssertColumnNames checks the table's column names and order
func AssertColumnNames(t *testing.T, tbl *table.Table, expected []string, context string) {
	t.Helper()
	got := tbl.ColumnNames()
	if len(got) != len(expected) {
		t.Errorf("%s: expected columns %v, got %v", context, expected, got)
		return
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("%s: expected columns %v, got %v", context, expected, got)
			return
		}
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}
