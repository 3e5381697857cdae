package main

import (
	"os"

	"github.com/leengari/keytable/internal/config"
	"github.com/leengari/keytable/internal/ingest"
	"github.com/leengari/keytable/internal/logging"
	"github.com/leengari/keytable/internal/query/operations"
	"github.com/leengari/keytable/internal/table"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, closeFn := logging.SetupLogger(cfg.Log)
	defer closeFn()

	logger.Info("Starting application...")
	operations.RegisterObserver(operations.NewLoggingObserver(logger))

	// 1. Load the demo dataset
	passengers, err := loadPassengers(cfg)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		closeFn()
		os.Exit(1)
	}
	logger.Info("dataset loaded", "rows", passengers.RowCount(), "columns", passengers.ColumnNames())

	// 2. Key the table and run a binary-search lookup
	if err := passengers.SetKey("sex", "pclass"); err != nil {
		logger.Error("setkey failed", "error", err)
		closeFn()
		os.Exit(1)
	}

	firstClassMales, err := passengers.Lookup(
		[]interface{}{"male", 1},
		table.LookupOptions{NoMatch: table.OmitNoMatch},
	)
	if err != nil {
		logger.Error("lookup failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	logger.Info("lookup sex=male pclass=1", "rows", firstClassMales.RowCount())

	// 3. Group by sex, counting rows and summing ages
	bySex, err := operations.GroupBy(passengers, operations.GroupByOptions{
		Keys: []operations.GroupKey{{Column: "sex"}},
		Aggregations: []operations.Aggregation{
			{Name: "n", Fn: operations.Count},
			{Name: "total_age", Column: "age", Fn: operations.Sum},
		},
	})
	if err != nil {
		logger.Error("group by failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	for pos := 0; pos < bySex.RowCount(); pos++ {
		logger.Info("group", "values", bySex.Row(pos))
	}

	// 4. Join demo tables
	users := buildUsersTable()
	orders := buildOrdersTable()
	joined, err := operations.Join(users, orders, []string{"id"}, operations.JoinTypeLeft)
	if err != nil {
		logger.Error("join failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	logger.Info("left join users/orders", "rows", joined.RowCount())

	logger.Info("Application ready")
}

// loadPassengers reads the configured CSV, falling back to a built-in sample
// when no path is configured.
func loadPassengers(cfg *config.Config) (*table.Table, error) {
	if cfg.Data.Path == "" {
		return buildSamplePassengers()
	}
	f, err := os.Open(cfg.Data.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.ReadTable(f, "passengers")
}

func buildSamplePassengers() (*table.Table, error) {
	t := table.New("passengers")
	columns := []struct {
		name   string
		typ    table.ColumnType
		values []interface{}
	}{
		{"name", table.ColumnTypeText, []interface{}{"allen", "bowen", "carter", "dawson"}},
		{"sex", table.ColumnTypeText, []interface{}{"male", "female", "male", "male"}},
		{"pclass", table.ColumnTypeInt, []interface{}{1, 2, 3, 3}},
		{"age", table.ColumnTypeFloat, []interface{}{29.0, nil, 41.5, 18.0}},
	}
	for _, col := range columns {
		if err := t.AddColumn(col.name, col.typ, col.values); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func buildUsersTable() *table.Table {
	t := table.New("users")
	t.AddColumn("id", table.ColumnTypeInt, []interface{}{1, 2, 3})
	t.AddColumn("username", table.ColumnTypeText, []interface{}{"alice", "bob", "charlie"})
	return t
}

func buildOrdersTable() *table.Table {
	t := table.New("orders")
	t.AddColumn("id", table.ColumnTypeInt, []interface{}{1, 1, 2})
	t.AddColumn("product", table.ColumnTypeText, []interface{}{"Laptop", "Mouse", "Keyboard"})
	return t
}
