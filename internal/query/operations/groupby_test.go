package operations_test

import (
	"errors"
	"testing"

	"github.com/leengari/keytable/internal/query/operations"
	"github.com/leengari/keytable/internal/query/operations/testutil"
	"github.com/leengari/keytable/internal/table"
)

// TestGroupBy_CountBySex runs the manifest scenario: 4 rows, 3 male and 1
// female, unordered grouping preserves first-occurrence order
func TestGroupBy_CountBySex(t *testing.T) {
	passengers := testutil.CreatePassengersTable()

	result, err := operations.GroupBy(passengers, operations.GroupByOptions{
		Keys:         []operations.GroupKey{{Column: "sex"}},
		Aggregations: []operations.Aggregation{{Name: "n", Fn: operations.Count}},
	})
	testutil.AssertNoError(t, err, "group by sex")
	testutil.AssertRowCount(t, result, 2, "group by sex")

	// male occurs first in the table, so it leads the unordered result
	testutil.AssertCell(t, result, "sex", 0, "male", "first group")
	testutil.AssertCell(t, result, "n", 0, 3, "male count")
	testutil.AssertCell(t, result, "sex", 1, "female", "second group")
	testutil.AssertCell(t, result, "n", 1, 1, "female count")
}

// TestGroupBy_Ordered tests ascending group key order under Ordered
func TestGroupBy_Ordered(t *testing.T) {
	passengers := testutil.CreatePassengersTable()

	result, err := operations.GroupBy(passengers, operations.GroupByOptions{
		Keys:         []operations.GroupKey{{Column: "sex"}},
		Aggregations: []operations.Aggregation{{Name: "n", Fn: operations.Count}},
		Ordered:      true,
	})
	testutil.AssertNoError(t, err, "ordered group by sex")

	testutil.AssertCell(t, result, "sex", 0, "female", "ordered first group")
	testutil.AssertCell(t, result, "sex", 1, "male", "ordered second group")
}

// TestGroupBy_OrderedAndUnorderedAgree tests that ordering changes only the
// group order, never the partition contents
func TestGroupBy_OrderedAndUnorderedAgree(t *testing.T) {
	passengers := testutil.CreatePassengersTable()
	opts := operations.GroupByOptions{
		Keys: []operations.GroupKey{{Column: "sex"}, {Column: "pclass"}},
		Aggregations: []operations.Aggregation{
			{Name: "n", Fn: operations.Count},
			{Name: "total_age", Column: "age", Fn: operations.Sum},
		},
	}

	unordered, err := operations.GroupBy(passengers, opts)
	testutil.AssertNoError(t, err, "unordered")
	opts.Ordered = true
	ordered, err := operations.GroupBy(passengers, opts)
	testutil.AssertNoError(t, err, "ordered")

	if unordered.RowCount() != ordered.RowCount() {
		t.Fatalf("Group counts differ: %d vs %d", unordered.RowCount(), ordered.RowCount())
	}

	collect := func(tbl *table.Table) map[string]interface{} {
		groups := make(map[string]interface{})
		for pos := 0; pos < tbl.RowCount(); pos++ {
			row := tbl.Row(pos)
			key := row["sex"].(string) + "/" + string(rune('0'+row["pclass"].(int64)))
			groups[key] = row["n"]
		}
		return groups
	}
	u, o := collect(unordered), collect(ordered)
	for key, n := range u {
		if o[key] != n {
			t.Errorf("Partition %s differs: %v vs %v", key, n, o[key])
		}
	}
}

// TestGroupBy_MissingIsAGroup tests that a missing group key forms its own
// partition instead of being dropped
func TestGroupBy_MissingIsAGroup(t *testing.T) {
	tbl := table.New("t")
	tbl.AddColumn("k", table.ColumnTypeText, []interface{}{"a", nil, "a", nil})
	tbl.AddColumn("v", table.ColumnTypeInt, []interface{}{1, 2, 3, 4})

	result, err := operations.GroupBy(tbl, operations.GroupByOptions{
		Keys:         []operations.GroupKey{{Column: "k"}},
		Aggregations: []operations.Aggregation{{Name: "n", Fn: operations.Count}},
	})
	testutil.AssertNoError(t, err, "group by with missing key")
	testutil.AssertRowCount(t, result, 2, "missing forms a distinct group")

	testutil.AssertCell(t, result, "n", 0, 2, "a group")
	testutil.AssertMissing(t, result, "k", 1, "missing group key")
	testutil.AssertCell(t, result, "n", 1, 2, "missing group")
}

// TestGroupBy_FilterBeforeGrouping tests that the filter restricts rows
// before partitioning
func TestGroupBy_FilterBeforeGrouping(t *testing.T) {
	passengers := testutil.CreatePassengersTable()

	result, err := operations.GroupBy(passengers, operations.GroupByOptions{
		Filter: func(row table.Row) bool {
			return row["pclass"] == int64(3)
		},
		Keys:         []operations.GroupKey{{Column: "sex"}},
		Aggregations: []operations.Aggregation{{Name: "n", Fn: operations.Count}},
	})
	testutil.AssertNoError(t, err, "filtered group by")
	testutil.AssertRowCount(t, result, 1, "only third-class rows grouped")
	testutil.AssertCell(t, result, "n", 0, 2, "third-class male count")
}

// TestGroupBy_KeyFunc tests grouping by an arbitrary expression
func TestGroupBy_KeyFunc(t *testing.T) {
	passengers := testutil.CreatePassengersTable()

	result, err := operations.GroupBy(passengers, operations.GroupByOptions{
		Keys: []operations.GroupKey{{
			Name: "adult",
			Fn: func(row table.Row) interface{} {
				age, ok := row["age"].(float64)
				if !ok {
					return nil // missing age groups separately
				}
				return age >= 18.0
			},
		}},
		Aggregations: []operations.Aggregation{{Name: "n", Fn: operations.Count}},
		Ordered:      true,
	})
	testutil.AssertNoError(t, err, "group by key func")
	testutil.AssertRowCount(t, result, 2, "adult=true plus missing")

	testutil.AssertCell(t, result, "adult", 0, true, "all aged passengers are adults")
	testutil.AssertCell(t, result, "n", 0, 3, "adult count")
	testutil.AssertMissing(t, result, "adult", 1, "missing key group sorts last")
}

// TestGroupBy_MultipleAggregations tests several aggregations over one pass
func TestGroupBy_MultipleAggregations(t *testing.T) {
	passengers := testutil.CreatePassengersTable()

	result, err := operations.GroupBy(passengers, operations.GroupByOptions{
		Keys: []operations.GroupKey{{Column: "sex"}},
		Aggregations: []operations.Aggregation{
			{Name: "n", Fn: operations.Count},
			{Name: "oldest", Column: "age", Fn: operations.Max},
			{Name: "first_name", Column: "name", Fn: operations.First},
		},
	})
	testutil.AssertNoError(t, err, "multiple aggregations")

	testutil.AssertCell(t, result, "oldest", 0, 41.5, "oldest male")
	testutil.AssertCell(t, result, "first_name", 0, "allen", "first male name")
	// the only female row has a missing age, so Max yields missing
	testutil.AssertMissing(t, result, "oldest", 1, "all-missing partition")
}

// TestGroupBy_NoKeys tests the no-keys failure mode
func TestGroupBy_NoKeys(t *testing.T) {
	passengers := testutil.CreatePassengersTable()
	_, err := operations.GroupBy(passengers, operations.GroupByOptions{
		Aggregations: []operations.Aggregation{{Name: "n", Fn: operations.Count}},
	})
	testutil.AssertError(t, err, "group by without keys")
}

// TestGroupBy_KeyFuncTypeDrift tests that a key function returning different
// types for different rows yields a type error instead of incomparable groups
func TestGroupBy_KeyFuncTypeDrift(t *testing.T) {
	passengers := testutil.CreatePassengersTable()
	_, err := operations.GroupBy(passengers, operations.GroupByOptions{
		Keys: []operations.GroupKey{{Name: "bucket", Fn: func(row table.Row) interface{} {
			if row["sex"] == "male" {
				return "m"
			}
			return int64(0)
		}}},
		Aggregations: []operations.Aggregation{{Name: "n", Fn: operations.Count}},
		Ordered:      true,
	})
	var typeErr *table.TypeMismatchError
	if !errors.As(err, &typeErr) {
		t.Fatalf("Expected TypeMismatchError, got %v", err)
	}
	if typeErr.Column != "bucket" {
		t.Errorf("Expected error on key 'bucket', got %q", typeErr.Column)
	}
}

// TestAggregates_EmptyInput tests that every builtin returns a defined value
// for an empty partition instead of erroring
func TestAggregates_EmptyInput(t *testing.T) {
	if got := operations.Count(nil); got != int64(0) {
		t.Errorf("Count(empty) = %v, want 0", got)
	}
	if got := operations.Sum(nil); got != nil {
		t.Errorf("Sum(empty) = %v, want missing", got)
	}
	if got := operations.Min(nil); got != nil {
		t.Errorf("Min(empty) = %v, want missing", got)
	}
	if got := operations.Max(nil); got != nil {
		t.Errorf("Max(empty) = %v, want missing", got)
	}
	if got := operations.First(nil); got != nil {
		t.Errorf("First(empty) = %v, want missing", got)
	}
}

// TestSum_Promotion tests Sum's numeric promotion and missing handling
func TestSum_Promotion(t *testing.T) {
	if got := operations.Sum([]interface{}{int64(1), int64(2), nil}); got != int64(3) {
		t.Errorf("integer Sum = %v, want 3", got)
	}
	if got := operations.Sum([]interface{}{1.5, nil, 2.5}); got != 4.0 {
		t.Errorf("float Sum = %v, want 4.0", got)
	}
	if got := operations.Sum([]interface{}{int64(1), 0.5}); got != 1.5 {
		t.Errorf("mixed Sum = %v, want 1.5", got)
	}
	if got := operations.Sum([]interface{}{nil, nil}); got != nil {
		t.Errorf("all-missing Sum = %v, want missing", got)
	}
}
