package operations

import (
	"github.com/leengari/keytable/internal/table"
)

// AggregateFunc reduces the values of one column within a partition to a
// scalar. The engine treats it as opaque. Over an empty partition it must
// return a defined value, conventionally the missing marker, not an error.
type AggregateFunc func(values []interface{}) interface{}

// Aggregation applies Fn to Column within each partition, labeling the
// result column Name. An empty Column feeds Fn one placeholder cell per row,
// which suits row-counting aggregations.
type Aggregation struct {
	Name   string
	Column string
	Fn     AggregateFunc
}

// Count returns the number of rows in the partition, missing cells included.
func Count(values []interface{}) interface{} {
	return int64(len(values))
}

// Sum adds the non-missing values of a numeric column. Integer input yields
// int64, float input yields float64, mixed input promotes to float64. With
// no non-missing values the result is missing.
func Sum(values []interface{}) interface{} {
	var intSum int64
	var floatSum float64
	sawInt, sawFloat := false, false
	for _, v := range values {
		switch x := v.(type) {
		case int64:
			intSum += x
			sawInt = true
		case float64:
			floatSum += x
			sawFloat = true
		}
	}
	switch {
	case sawInt && sawFloat:
		return float64(intSum) + floatSum
	case sawInt:
		return intSum
	case sawFloat:
		return floatSum
	}
	return nil
}

// Min returns the smallest non-missing value, or missing for an empty or
// all-missing partition.
func Min(values []interface{}) interface{} {
	return extreme(values, -1)
}

// Max returns the largest non-missing value, or missing for an empty or
// all-missing partition.
func Max(values []interface{}) interface{} {
	return extreme(values, 1)
}

// First returns the first value in partition row order, missing included,
// or missing for an empty partition.
func First(values []interface{}) interface{} {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

func extreme(values []interface{}, direction int) interface{} {
	var best interface{}
	for _, v := range values {
		if v == nil {
			continue
		}
		if best == nil || table.CompareValues(v, best) == direction {
			best = v
		}
	}
	return best
}
