// Package prompts builds the textual artifacts fed to the LLM.
package prompts

import (
	"fmt"
	"strings"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// RenderSchemaContext converts a schema plus the documentation overlay into
// the text block used as generation context. Output is deterministic: tables
// appear in schema order and columns in their stored order, so prompt
// fixtures stay reproducible. Either argument may be nil/empty.
func RenderSchemaContext(schema *models.Schema, docs models.Documentation) string {
	var lines []string

	for _, tableName := range schema.TableNames() {
		info, _ := schema.Table(tableName)

		lines = append(lines, "TABLE: "+tableName)
		if desc := docs.TableDescription(tableName); desc != "" {
			lines = append(lines, "  Description: "+desc)
		}
		lines = append(lines, "  COLUMNS:")

		for _, col := range info.Columns {
			line := fmt.Sprintf("    - %s: %s", col.Name, col.Type)
			if col.PrimaryKey {
				line += " (PRIMARY KEY)"
			}
			if colDesc := docs.ColumnDescription(tableName, col.Name); colDesc != "" {
				line += " -- " + colDesc
			}
			lines = append(lines, line)
		}

		if len(info.ForeignKeys) > 0 {
			lines = append(lines, "  FOREIGN KEYS:")
			for _, fk := range info.ForeignKeys {
				lines = append(lines, fmt.Sprintf("    - %s -> %s(%s)",
					strings.Join(fk.ConstrainedColumns, ", "),
					fk.ReferredTable,
					strings.Join(fk.ReferredColumns, ", ")))
			}
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// sqlGenerationTemplate is the instructional prompt for the remote strategy.
// The rules are explicit so a compliant model returns bare SQL with no prose.
const sqlGenerationTemplate = `You are a SQL query generator. Given the following database schema and a natural language question, generate a valid SQL SELECT query.

DATABASE SCHEMA:
%s

USER QUESTION: %s

IMPORTANT RULES:
1. Only generate SELECT queries
2. Use proper SQL syntax
3. Return ONLY the SQL query, no explanations
4. If the question cannot be answered with the schema, return a query that gets the closest relevant data

SQL QUERY:`

// SQLGeneration embeds the rendered schema context and the user question
// into the generation prompt.
func SQLGeneration(schemaContext, question string) string {
	return fmt.Sprintf(sqlGenerationTemplate, schemaContext, question)
}
