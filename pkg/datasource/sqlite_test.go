package datasource

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

func newTestDB(t *testing.T) *SQLiteSource {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE customers (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			city TEXT
		)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER NOT NULL,
			total_amount REAL,
			status TEXT DEFAULT 'pending',
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		)`,
		`INSERT INTO customers (id, name, city) VALUES (1, 'Alice', 'New York')`,
		`INSERT INTO customers (id, name, city) VALUES (2, 'Bob', NULL)`,
		`INSERT INTO orders (id, customer_id, total_amount) VALUES (1, 1, 99.5)`,
	}
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	src, err := OpenSQLite(path, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(src.Close)
	return src
}

func TestSQLiteSource_Introspect(t *testing.T) {
	src := newTestDB(t)

	schema, err := src.Introspect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"customers", "orders"}, schema.TableNames())

	customers, ok := schema.Table("customers")
	require.True(t, ok)
	require.Len(t, customers.Columns, 3)
	assert.Equal(t, "id", customers.Columns[0].Name)
	assert.True(t, customers.Columns[0].PrimaryKey)
	assert.Equal(t, "name", customers.Columns[1].Name)
	assert.False(t, customers.Columns[1].Nullable)
	assert.True(t, customers.Columns[2].Nullable)
	assert.Equal(t, int64(2), customers.RowCount)
	assert.Len(t, customers.SampleRows, 2)

	orders, ok := schema.Table("orders")
	require.True(t, ok)
	status := orders.Column("status")
	require.NotNil(t, status)
	require.NotNil(t, status.Default)
	assert.Equal(t, "'pending'", *status.Default)

	require.Len(t, orders.ForeignKeys, 1)
	assert.Equal(t, models.ForeignKeyInfo{
		ConstrainedColumns: []string{"customer_id"},
		ReferredTable:      "customers",
		ReferredColumns:    []string{"id"},
	}, orders.ForeignKeys[0])
}

func TestSQLiteSource_SampleRowsStringifyNulls(t *testing.T) {
	src := newTestDB(t)

	schema, err := src.Introspect(context.Background())
	require.NoError(t, err)

	customers, _ := schema.Table("customers")
	var bob map[string]*string
	for _, row := range customers.SampleRows {
		if row["name"] != nil && *row["name"] == "Bob" {
			bob = row
		}
	}
	require.NotNil(t, bob)
	assert.Nil(t, bob["city"], "NULL must stay nil, not become a string")
}

func TestSQLiteSource_Query(t *testing.T) {
	src := newTestDB(t)

	result, err := src.Query(context.Background(), "SELECT id, name, city FROM customers ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "city"}, result.Columns)
	assert.Equal(t, 2, result.RowCount)
	require.Len(t, result.Rows, 2)

	require.NotNil(t, result.Rows[0][0])
	assert.Equal(t, "1", *result.Rows[0][0])
	assert.Equal(t, "Alice", *result.Rows[0][1])
	assert.Nil(t, result.Rows[1][2])
}

func TestSQLiteSource_QueryEmptyResult(t *testing.T) {
	src := newTestDB(t)

	result, err := src.Query(context.Background(), "SELECT * FROM orders WHERE id = -1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.RowCount)
	assert.NotNil(t, result.Rows)
	assert.Empty(t, result.Rows)
}

func TestSQLiteSource_QueryError(t *testing.T) {
	src := newTestDB(t)

	_, err := src.Query(context.Background(), "SELECT * FROM no_such_table")
	assert.Error(t, err)
}

func TestStringifyValue(t *testing.T) {
	assert.Nil(t, stringifyValue(nil))

	s := stringifyValue([]byte("bytes"))
	require.NotNil(t, s)
	assert.Equal(t, "bytes", *s)

	s = stringifyValue(int64(42))
	require.NotNil(t, s)
	assert.Equal(t, "42", *s)

	s = stringifyValue("text")
	require.NotNil(t, s)
	assert.Equal(t, "text", *s)
}
