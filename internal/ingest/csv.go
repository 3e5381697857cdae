package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/leengari/keytable/internal/table"
)

// ReadTable builds a table from delimited text. The first record is the
// header. Each column's type is inferred from its non-empty cells, trying
// INT, then FLOAT, then BOOL, and falling back to TEXT. An empty cell
// becomes the missing marker.
func ReadTable(r io.Reader, name string) (*table.Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading '%s': %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading '%s': no header record", name)
	}

	header := records[0]
	rows := records[1:]

	t := table.New(name)
	for colIdx, colName := range header {
		cells := make([]string, len(rows))
		for i, rec := range rows {
			cells[i] = rec[colIdx]
		}
		typ := inferColumnType(cells)
		values := make([]interface{}, len(cells))
		for i, cell := range cells {
			values[i] = parseCell(typ, cell)
		}
		if err := t.AddColumn(colName, typ, values); err != nil {
			return nil, err
		}
	}

	slog.Debug("table loaded",
		slog.String("table", name),
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", len(header)),
	)
	return t, nil
}

// WriteTable serializes a table as delimited text, header first, columns in
// table order. Missing cells are written empty.
func WriteTable(w io.Writer, t *table.Table) error {
	writer := csv.NewWriter(w)
	names := t.ColumnNames()

	if err := writer.Write(names); err != nil {
		return err
	}
	record := make([]string, len(names))
	for pos := 0; pos < t.RowCount(); pos++ {
		row := t.Row(pos)
		for i, name := range names {
			record[i] = formatCell(row[name])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// inferColumnType picks the narrowest type every non-empty cell parses as.
func inferColumnType(cells []string) table.ColumnType {
	isInt, isFloat, isBool := true, true, true
	sawValue := false
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		sawValue = true
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			isFloat = false
		}
		if cell != "true" && cell != "false" {
			isBool = false
		}
	}
	switch {
	case !sawValue:
		return table.ColumnTypeText
	case isInt:
		return table.ColumnTypeInt
	case isFloat:
		return table.ColumnTypeFloat
	case isBool:
		return table.ColumnTypeBool
	}
	return table.ColumnTypeText
}

func parseCell(typ table.ColumnType, cell string) interface{} {
	if cell == "" {
		return nil
	}
	switch typ {
	case table.ColumnTypeInt:
		n, _ := strconv.ParseInt(cell, 10, 64)
		return n
	case table.ColumnTypeFloat:
		f, _ := strconv.ParseFloat(cell, 64)
		return f
	case table.ColumnTypeBool:
		return cell == "true"
	}
	return cell
}

func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	}
	return fmt.Sprintf("%v", v)
}
