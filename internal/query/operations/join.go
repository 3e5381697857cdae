package operations

import (
	"fmt"
	"log/slog"

	"github.com/leengari/keytable/internal/table"
)

// JoinType represents the type of JOIN operation
type JoinType int

const (
	JoinTypeInner JoinType = iota // Returns only matching row pairs from both tables
	JoinTypeLeft                  // Returns all rows from left table, missing for unmatched right rows
	JoinTypeRight                 // Returns all rows from right table, missing for unmatched left rows
	JoinTypeFull                  // Returns all rows from both tables, missing where no match
)

// String returns the string representation of the JOIN type
func (jt JoinType) String() string {
	switch jt {
	case JoinTypeInner:
		return "INNER JOIN"
	case JoinTypeLeft:
		return "LEFT JOIN"
	case JoinTypeRight:
		return "RIGHT JOIN"
	case JoinTypeFull:
		return "FULL OUTER JOIN"
	default:
		return "UNKNOWN JOIN"
	}
}

// joinPair references one output row: a left position, a right position, or
// both. -1 marks the unmatched side.
type joinPair struct {
	left  int
	right int
}

// Join combines two tables on a shared key column set. When several rows on
// one side share a key the output is the full cross-product of the matching
// rows, never a first-match pick. Unmatched rows appear once, missing-filled,
// according to the join type.
//
// Output columns: the key columns once, then the left table's remaining
// columns, then the right table's remaining columns. A right column whose
// name collides is qualified as "table.column".
func Join(left, right *table.Table, on []string, joinType JoinType) (*table.Table, error) {
	if err := validateJoin(left, right, on); err != nil {
		return nil, err
	}

	left.RLock()
	defer left.RUnlock()
	right.RLock()
	defer right.RUnlock()

	queryID := notifyStart(EventJoinStart, left.Name)
	defer notifyEnd(EventJoinEnd, queryID, left.Name)

	slog.Debug("Starting join",
		slog.String("type", joinType.String()),
		slog.String("left_table", left.Name),
		slog.String("right_table", right.Name),
		slog.Any("on", on),
	)

	hashIndex := buildJoinIndex(right, on)

	var pairs []joinPair
	matchedLeft := make(map[int]bool)
	matchedRight := make(map[int]bool)

	// Phase 1: matching pairs (cross-product within each key group)
	for leftPos := 0; leftPos < left.RowCount(); leftPos++ {
		fp, complete := rowKeyFingerprint(left, on, leftPos)
		if !complete {
			continue // rows with a missing key cell never match
		}
		for _, rightPos := range hashIndex[fp] {
			matchedLeft[leftPos] = true
			matchedRight[rightPos] = true
			pairs = append(pairs, joinPair{left: leftPos, right: rightPos})
		}
	}

	// Phase 2: unmatched left rows
	if joinType == JoinTypeLeft || joinType == JoinTypeFull {
		for leftPos := 0; leftPos < left.RowCount(); leftPos++ {
			if !matchedLeft[leftPos] {
				pairs = append(pairs, joinPair{left: leftPos, right: -1})
			}
		}
	}

	// Phase 3: unmatched right rows
	if joinType == JoinTypeRight || joinType == JoinTypeFull {
		for rightPos := 0; rightPos < right.RowCount(); rightPos++ {
			if !matchedRight[rightPos] {
				pairs = append(pairs, joinPair{left: -1, right: rightPos})
			}
		}
	}

	result, err := materializeJoin(left, right, on, pairs)
	if err != nil {
		return nil, err
	}

	slog.Info("Join completed",
		slog.String("type", joinType.String()),
		slog.String("left_table", left.Name),
		slog.String("right_table", right.Name),
		slog.Int("result_rows", result.RowCount()),
		slog.Int("unmatched_left", left.RowCount()-len(matchedLeft)),
		slog.Int("unmatched_right", right.RowCount()-len(matchedRight)),
	)

	return result, nil
}

// validateJoin checks that the key columns exist on both sides with
// compatible types.
func validateJoin(left, right *table.Table, on []string) error {
	if left == nil || right == nil {
		return fmt.Errorf("join requires two tables")
	}
	if len(on) == 0 {
		return fmt.Errorf("join between '%s' and '%s': no key columns", left.Name, right.Name)
	}
	for _, name := range on {
		leftCol, err := left.Column(name)
		if err != nil {
			return err
		}
		rightCol, err := right.Column(name)
		if err != nil {
			return err
		}
		if leftCol.Type != rightCol.Type {
			return &table.TypeMismatchError{
				Table:  right.Name,
				Column: name,
				Want:   leftCol.Type,
			}
		}
	}
	return nil
}

// buildJoinIndex hashes a table's rows by key tuple fingerprint. Rows with a
// missing key cell are left out; they cannot match.
func buildJoinIndex(t *table.Table, on []string) map[string]RowSelection {
	hashIndex := make(map[string]RowSelection)
	for pos := 0; pos < t.RowCount(); pos++ {
		fp, complete := rowKeyFingerprint(t, on, pos)
		if !complete {
			continue
		}
		hashIndex[fp] = append(hashIndex[fp], pos)
	}
	return hashIndex
}

// rowKeyFingerprint fingerprints the key tuple of one row. The second result
// is false when any key cell is missing.
func rowKeyFingerprint(t *table.Table, on []string, pos int) (string, bool) {
	keys := make([]interface{}, len(on))
	for i, name := range on {
		col, err := t.Column(name)
		if err != nil {
			return "", false
		}
		v := col.Value(pos)
		if v == nil {
			return "", false
		}
		keys[i] = v
	}
	return fingerprint(keys), true
}

// materializeJoin builds the output table from resolved position pairs.
func materializeJoin(left, right *table.Table, on []string, pairs []joinPair) (*table.Table, error) {
	out := table.New(left.Name)
	onSet := make(map[string]bool, len(on))
	for _, name := range on {
		onSet[name] = true
	}

	// Key columns once, sourcing from whichever side is present.
	for _, name := range on {
		leftCol, _ := left.Column(name)
		rightCol, _ := right.Column(name)
		values := make([]interface{}, len(pairs))
		for i, pair := range pairs {
			if pair.left >= 0 {
				values[i] = leftCol.Value(pair.left)
			} else {
				values[i] = rightCol.Value(pair.right)
			}
		}
		if err := out.AddColumn(name, leftCol.Type, values); err != nil {
			return nil, err
		}
	}

	// Left non-key columns.
	for _, name := range left.ColumnNames() {
		if onSet[name] {
			continue
		}
		col, _ := left.Column(name)
		values := make([]interface{}, len(pairs))
		for i, pair := range pairs {
			if pair.left >= 0 {
				values[i] = col.Value(pair.left)
			}
		}
		if err := out.AddColumn(name, col.Type, values); err != nil {
			return nil, err
		}
	}

	// Right non-key columns, qualified on name collision.
	for _, name := range right.ColumnNames() {
		if onSet[name] {
			continue
		}
		col, _ := right.Column(name)
		outName := name
		if out.HasColumn(outName) {
			outName = fmt.Sprintf("%s.%s", right.Name, name)
		}
		values := make([]interface{}, len(pairs))
		for i, pair := range pairs {
			if pair.right >= 0 {
				values[i] = col.Value(pair.right)
			}
		}
		if err := out.AddColumn(outName, col.Type, values); err != nil {
			return nil, err
		}
	}

	return out, nil
}
