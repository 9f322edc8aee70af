package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

func sampleSchema() *models.Schema {
	schema := models.NewSchema()
	schema.AddTable("customers", &models.TableInfo{
		Columns: []models.ColumnInfo{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "name", Type: "TEXT"},
		},
	})
	schema.AddTable("orders", &models.TableInfo{
		Columns: []models.ColumnInfo{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "customer_id", Type: "INTEGER"},
			{Name: "total_amount", Type: "REAL"},
		},
		ForeignKeys: []models.ForeignKeyInfo{
			{ConstrainedColumns: []string{"customer_id"}, ReferredTable: "customers", ReferredColumns: []string{"id"}},
		},
	})
	return schema
}

func TestRenderSchemaContext_Format(t *testing.T) {
	docs := models.Documentation{
		"orders": {
			Description: "Customer orders",
			Columns:     map[string]string{"total_amount": "Order total in USD"},
		},
	}

	got := RenderSchemaContext(sampleSchema(), docs)

	want := strings.Join([]string{
		"TABLE: customers",
		"  COLUMNS:",
		"    - id: INTEGER (PRIMARY KEY)",
		"    - name: TEXT",
		"",
		"TABLE: orders",
		"  Description: Customer orders",
		"  COLUMNS:",
		"    - id: INTEGER (PRIMARY KEY)",
		"    - customer_id: INTEGER",
		"    - total_amount: REAL -- Order total in USD",
		"  FOREIGN KEYS:",
		"    - customer_id -> customers(id)",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderSchemaContext_TableOrderFollowsSchema(t *testing.T) {
	schema := models.NewSchema()
	schema.AddTable("zzz", &models.TableInfo{Columns: []models.ColumnInfo{{Name: "a", Type: "TEXT"}}})
	schema.AddTable("aaa", &models.TableInfo{Columns: []models.ColumnInfo{{Name: "b", Type: "TEXT"}}})

	got := RenderSchemaContext(schema, nil)
	assert.Less(t, strings.Index(got, "TABLE: zzz"), strings.Index(got, "TABLE: aaa"))
}

func TestRenderSchemaContext_CompositeForeignKey(t *testing.T) {
	schema := models.NewSchema()
	schema.AddTable("line_items", &models.TableInfo{
		Columns: []models.ColumnInfo{{Name: "order_id", Type: "INTEGER"}, {Name: "line_no", Type: "INTEGER"}},
		ForeignKeys: []models.ForeignKeyInfo{{
			ConstrainedColumns: []string{"order_id", "line_no"},
			ReferredTable:      "order_lines",
			ReferredColumns:    []string{"order_id", "line_no"},
		}},
	})

	got := RenderSchemaContext(schema, nil)
	assert.Contains(t, got, "    - order_id, line_no -> order_lines(order_id, line_no)")
}

func TestRenderSchemaContext_EmptySchema(t *testing.T) {
	assert.Equal(t, "", RenderSchemaContext(models.NewSchema(), nil))
	var nilSchema *models.Schema
	assert.Equal(t, "", RenderSchemaContext(nilSchema, nil))
}

func TestSQLGeneration_EmbedsContextAndQuestion(t *testing.T) {
	prompt := SQLGeneration("TABLE: users", "How many users are there?")

	assert.Contains(t, prompt, "DATABASE SCHEMA:\nTABLE: users")
	assert.Contains(t, prompt, "USER QUESTION: How many users are there?")
	assert.Contains(t, prompt, "1. Only generate SELECT queries")
	assert.True(t, strings.HasSuffix(prompt, "SQL QUERY:"))
}
