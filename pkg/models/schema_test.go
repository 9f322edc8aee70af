package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_PreservesInsertionOrder(t *testing.T) {
	schema := NewSchema()
	// Deliberately not alphabetical: order must come from insertion, not
	// sorting.
	names := []string{"zebras", "orders", "apples", "middle"}
	for _, name := range names {
		schema.AddTable(name, &TableInfo{})
	}

	assert.Equal(t, names, schema.TableNames())
	assert.Equal(t, 4, schema.Len())
	assert.False(t, schema.IsEmpty())
}

func TestSchema_AddTable_ReplaceKeepsPosition(t *testing.T) {
	schema := NewSchema()
	schema.AddTable("first", &TableInfo{RowCount: 1})
	schema.AddTable("second", &TableInfo{})
	schema.AddTable("first", &TableInfo{RowCount: 99})

	assert.Equal(t, []string{"first", "second"}, schema.TableNames())
	info, ok := schema.Table("first")
	require.True(t, ok)
	assert.Equal(t, int64(99), info.RowCount)
}

func TestSchema_NilReceiver(t *testing.T) {
	var schema *Schema
	assert.True(t, schema.IsEmpty())
	assert.Equal(t, 0, schema.Len())
	assert.Nil(t, schema.TableNames())
	_, ok := schema.Table("anything")
	assert.False(t, ok)
}

func TestSchema_MarshalJSON_OrderStable(t *testing.T) {
	schema := NewSchema()
	schema.AddTable("users", &TableInfo{
		Columns: []ColumnInfo{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "name", Type: "TEXT", Nullable: true},
		},
	})
	schema.AddTable("accounts", &TableInfo{})

	data, err := json.Marshal(schema)
	require.NoError(t, err)

	// "users" was inserted first, so it must serialize first even though
	// "accounts" sorts before it.
	usersIdx := strings.Index(string(data), `"users"`)
	accountsIdx := strings.Index(string(data), `"accounts"`)
	require.NotEqual(t, -1, usersIdx)
	require.NotEqual(t, -1, accountsIdx)
	assert.Less(t, usersIdx, accountsIdx)
}

func TestSchema_JSONRoundTrip(t *testing.T) {
	dflt := "CURRENT_TIMESTAMP"
	original := NewSchema()
	original.AddTable("orders", &TableInfo{
		Columns: []ColumnInfo{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "created_at", Type: "TEXT", Nullable: true, Default: &dflt},
		},
		ForeignKeys: []ForeignKeyInfo{
			{ConstrainedColumns: []string{"customer_id"}, ReferredTable: "customers", ReferredColumns: []string{"id"}},
		},
		RowCount: 8,
	})
	original.AddTable("customers", &TableInfo{})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Schema
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.TableNames(), decoded.TableNames())
	orig, _ := original.Table("orders")
	got, ok := decoded.Table("orders")
	require.True(t, ok)
	assert.Equal(t, orig.Columns, got.Columns)
	assert.Equal(t, orig.ForeignKeys, got.ForeignKeys)
	assert.Equal(t, orig.RowCount, got.RowCount)
}

func TestSchema_UnmarshalJSON_RejectsNonObject(t *testing.T) {
	var schema Schema
	err := json.Unmarshal([]byte(`["users"]`), &schema)
	assert.Error(t, err)
}

func TestTableInfo_Column(t *testing.T) {
	info := &TableInfo{Columns: []ColumnInfo{
		{Name: "id", Type: "INTEGER"},
		{Name: "price", Type: "REAL"},
	}}

	col := info.Column("price")
	require.NotNil(t, col)
	assert.Equal(t, "REAL", col.Type)

	assert.Nil(t, info.Column("missing"))
}
