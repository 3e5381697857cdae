package operations

import (
	"fmt"
	"log/slog"

	"github.com/leengari/keytable/internal/table"
)

// LookupJoin indexes into the left table with the right table's key values:
// the output holds exactly one row per right row, in right row order. A
// right row with no match, or with a missing key cell, appears with the left
// table's columns set to missing. When several left rows share a key the
// first in key order wins.
//
// This is deliberately different from Join, which emits the full
// cross-product of matching rows; the two entry points must not be conflated.
//
// The key columns must be a prefix of the left table's key, so each probe is
// a binary search rather than a scan.
func LookupJoin(left, right *table.Table, on []string) (*table.Table, error) {
	if err := validateJoin(left, right, on); err != nil {
		return nil, err
	}
	leftKey := left.Key()
	if len(leftKey) < len(on) {
		return nil, &table.NoKeyError{Table: left.Name}
	}
	for i, name := range on {
		if leftKey[i] != name {
			return nil, fmt.Errorf("lookup join: columns %v are not a prefix of table '%s' key %v",
				on, left.Name, leftKey)
		}
	}

	left.RLock()
	defer left.RUnlock()
	right.RLock()
	defer right.RUnlock()

	queryID := notifyStart(EventJoinStart, left.Name)
	defer notifyEnd(EventJoinEnd, queryID, left.Name)

	onCols := make([]*table.Column, len(on))
	for i, name := range on {
		onCols[i], _ = right.Column(name)
	}

	pairs := make([]joinPair, right.RowCount())
	misses := 0
	for rightPos := 0; rightPos < right.RowCount(); rightPos++ {
		pairs[rightPos] = joinPair{left: -1, right: rightPos}

		keys := make([]interface{}, len(on))
		complete := true
		for i, col := range onCols {
			keys[i] = col.Value(rightPos)
			if keys[i] == nil {
				complete = false
			}
		}
		if !complete {
			misses++
			continue
		}

		start, end, err := left.LookupRange(keys)
		if err != nil {
			return nil, err
		}
		if start == end {
			misses++
			continue
		}
		pairs[rightPos].left = start
	}

	result, err := materializeJoin(left, right, on, pairs)
	if err != nil {
		return nil, err
	}

	slog.Info("Lookup join completed",
		slog.String("left_table", left.Name),
		slog.String("right_table", right.Name),
		slog.Int("result_rows", result.RowCount()),
		slog.Int("unmatched", misses),
	)

	return result, nil
}
