package operations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leengari/keytable/internal/table"
)

// GroupKey is one grouping expression. With Fn nil the group key is the
// value of Column; otherwise Fn is evaluated once per row. Name labels the
// key column in the result and defaults to Column.
type GroupKey struct {
	Name   string
	Column string
	Fn     func(table.Row) interface{}
}

// GroupByOptions configures one group-by execution.
type GroupByOptions struct {
	// Filter, when set, restricts grouping to matching rows. It runs
	// before partitioning.
	Filter       PredicateFunc
	Keys         []GroupKey
	Aggregations []Aggregation
	// Ordered sorts result groups ascending by group key tuple. When
	// false, groups appear in order of first occurrence.
	Ordered bool
}

// partition is one group: its evaluated key tuple and the positions of its
// rows. Partitions live only for the duration of a GroupBy call.
type partition struct {
	keys []interface{}
	rows RowSelection
}

// GroupBy partitions the table's rows by the evaluated group key tuple and
// applies each aggregation per partition, producing a result table with one
// row per group. A missing value is a valid, distinct group key.
func GroupBy(t *table.Table, opts GroupByOptions) (*table.Table, error) {
	if len(opts.Keys) == 0 {
		return nil, fmt.Errorf("group by on table '%s': no group keys", t.Name)
	}
	for _, key := range opts.Keys {
		if key.Fn == nil && !t.HasColumn(key.Column) {
			return nil, &table.ColumnNotFoundError{Table: t.Name, Column: key.Column}
		}
	}
	for _, agg := range opts.Aggregations {
		if agg.Column != "" && !t.HasColumn(agg.Column) {
			return nil, &table.ColumnNotFoundError{Table: t.Name, Column: agg.Column}
		}
	}

	t.RLock()
	defer t.RUnlock()

	queryID := notifyStart(EventGroupStart, t.Name)
	defer notifyEnd(EventGroupEnd, queryID, t.Name)

	var partitions []*partition
	seen := make(map[string]int)
	keyTypes := make([]table.ColumnType, len(opts.Keys))

	for pos := 0; pos < t.RowCount(); pos++ {
		row := t.Row(pos)
		if opts.Filter != nil && !opts.Filter(row) {
			continue
		}

		keys := make([]interface{}, len(opts.Keys))
		for i, key := range opts.Keys {
			if key.Fn != nil {
				keys[i] = normalizeGroupKey(key.Fn(row))
			} else {
				keys[i] = row[key.Column]
			}
		}

		// Key functions must yield one type per key position (missing
		// aside); a drift would make group keys incomparable.
		for i, v := range keys {
			if v == nil {
				continue
			}
			typ, ok := groupKeyType(v)
			if !ok {
				return nil, fmt.Errorf("group by on table '%s': unsupported group key type %T", t.Name, v)
			}
			if keyTypes[i] == "" {
				keyTypes[i] = typ
			} else if keyTypes[i] != typ {
				return nil, &table.TypeMismatchError{
					Table:  t.Name,
					Column: groupKeyName(opts.Keys[i]),
					Want:   keyTypes[i],
					Value:  v,
				}
			}
		}

		fp := fingerprint(keys)
		idx, found := seen[fp]
		if !found {
			idx = len(partitions)
			seen[fp] = idx
			partitions = append(partitions, &partition{keys: keys})
		}
		partitions[idx].rows = append(partitions[idx].rows, pos)
	}

	if opts.Ordered {
		sort.SliceStable(partitions, func(i, j int) bool {
			for k := range partitions[i].keys {
				c := table.CompareCells(partitions[i].keys[k], partitions[j].keys[k], true)
				if c != 0 {
					return c < 0
				}
			}
			return false
		})
	}

	return buildGroupResult(t, opts, partitions)
}

// buildGroupResult materializes partitions into the result table: one
// column per group key, then one column per aggregation.
func buildGroupResult(t *table.Table, opts GroupByOptions, partitions []*partition) (*table.Table, error) {
	out := table.New(t.Name)

	for i, key := range opts.Keys {
		name := groupKeyName(key)
		values := make([]interface{}, len(partitions))
		for p, part := range partitions {
			values[p] = part.keys[i]
		}
		if err := out.AddColumn(name, inferCellType(values), values); err != nil {
			return nil, err
		}
	}

	for _, agg := range opts.Aggregations {
		values := make([]interface{}, len(partitions))
		for p, part := range partitions {
			values[p] = agg.Fn(partitionValues(t, agg.Column, part.rows))
		}
		if err := out.AddColumn(agg.Name, inferCellType(values), values); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// partitionValues gathers the aggregation input for one partition. With an
// empty column name each row contributes a placeholder cell, so row-counting
// aggregations still see the partition size.
func partitionValues(t *table.Table, column string, rows RowSelection) []interface{} {
	values := make([]interface{}, len(rows))
	if column == "" {
		return values
	}
	col, err := t.Column(column)
	if err != nil {
		return values
	}
	for i, pos := range rows {
		values[i] = col.Value(pos)
	}
	return values
}

// groupKeyName labels a group key column in the result.
func groupKeyName(key GroupKey) string {
	if key.Name != "" {
		return key.Name
	}
	return key.Column
}

// groupKeyType maps a non-missing group key value to its column type.
func groupKeyType(v interface{}) (table.ColumnType, bool) {
	switch v.(type) {
	case int64:
		return table.ColumnTypeInt, true
	case float64:
		return table.ColumnTypeFloat, true
	case bool:
		return table.ColumnTypeBool, true
	case string:
		return table.ColumnTypeText, true
	default:
		return "", false
	}
}

// normalizeGroupKey aligns key-function results with column cell values.
func normalizeGroupKey(v interface{}) interface{} {
	if n, ok := v.(int); ok {
		return int64(n)
	}
	return v
}

// inferCellType picks a column type from the first non-missing value,
// falling back to TEXT for all-missing columns.
func inferCellType(values []interface{}) table.ColumnType {
	for _, v := range values {
		switch v.(type) {
		case int64, int:
			return table.ColumnTypeInt
		case float64:
			return table.ColumnTypeFloat
		case bool:
			return table.ColumnTypeBool
		case string:
			return table.ColumnTypeText
		}
	}
	return table.ColumnTypeText
}

// fingerprint builds a type-tagged identity string for a group key tuple.
// Tags keep values of different types distinct (int64 1 vs "1") and string
// lengths guard against delimiter collisions.
func fingerprint(values []interface{}) string {
	var b strings.Builder
	for _, v := range values {
		switch x := v.(type) {
		case nil:
			b.WriteString("n;")
		case int64:
			fmt.Fprintf(&b, "i%d;", x)
		case float64:
			fmt.Fprintf(&b, "f%g;", x)
		case bool:
			fmt.Fprintf(&b, "b%t;", x)
		case string:
			fmt.Fprintf(&b, "s%d:%s;", len(x), x)
		default:
			fmt.Fprintf(&b, "v%v;", x)
		}
	}
	return b.String()
}
