package testutil

import (
	"github.com/leengari/keytable/internal/table"
)

// CreatePassengersTable creates a small passenger manifest for key index and
// group-by tests. The Age column carries a missing value.
func CreatePassengersTable() *table.Table {
	t := table.New("passengers")
	mustAdd(t, "name", table.ColumnTypeText, []interface{}{"allen", "bowen", "carter", "dawson"})
	mustAdd(t, "sex", table.ColumnTypeText, []interface{}{"male", "female", "male", "male"})
	mustAdd(t, "pclass", table.ColumnTypeInt, []interface{}{1, 2, 3, 3})
	mustAdd(t, "age", table.ColumnTypeFloat, []interface{}{29.0, nil, 41.5, 18.0})
	mustAdd(t, "survived", table.ColumnTypeBool, []interface{}{false, true, false, true})
	return t
}

// CreateUsersTable creates a users table with sample data for testing
func CreateUsersTable() *table.Table {
	t := table.New("users")
	mustAdd(t, "id", table.ColumnTypeInt, []interface{}{1, 2, 3})
	mustAdd(t, "username", table.ColumnTypeText, []interface{}{"alice", "bob", "charlie"})
	mustAdd(t, "email", table.ColumnTypeText, []interface{}{"alice@example.com", "bob@example.com", "charlie@example.com"})
	return t
}

// CreateOrdersTable creates an orders table with sample data for testing.
// User 3 (charlie) has no orders.
func CreateOrdersTable() *table.Table {
	t := table.New("orders")
	mustAdd(t, "order_id", table.ColumnTypeInt, []interface{}{1, 2, 3})
	mustAdd(t, "id", table.ColumnTypeInt, []interface{}{1, 1, 2})
	mustAdd(t, "product", table.ColumnTypeText, []interface{}{"Laptop", "Mouse", "Keyboard"})
	mustAdd(t, "amount", table.ColumnTypeFloat, []interface{}{999.99, 25.50, 75.00})
	return t
}

func mustAdd(t *table.Table, name string, typ table.ColumnType, values []interface{}) {
	if err := t.AddColumn(name, typ, values); err != nil {
		panic(err)
	}
}
