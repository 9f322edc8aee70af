package services

import (
	"fmt"
	"strings"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// numericTypeMarkers identify columns eligible for AVG in the pattern
// strategy. Matched case-insensitively against the declared type string.
// REAL is included so SQLite float columns qualify.
var numericTypeMarkers = []string{"INT", "FLOAT", "DECIMAL", "NUMERIC", "REAL"}

// GeneratePatternQuery is the deterministic fallback translator. It is a
// total function: any question and any schema (including an empty one)
// produce a statement. With an empty schema the emitted statement references
// an empty table identifier, an accepted degenerate case.
func GeneratePatternQuery(question string, schema *models.Schema) string {
	q := strings.ToLower(question)

	// First table whose name appears in the question wins; otherwise the
	// first table in schema order.
	var target string
	for _, name := range schema.TableNames() {
		if strings.Contains(q, strings.ToLower(name)) {
			target = name
			break
		}
	}
	if target == "" && !schema.IsEmpty() {
		target = schema.TableNames()[0]
	}

	switch {
	case containsAny(q, "count", "how many", "total"):
		return fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(target))

	case containsAny(q, "all", "show", "list", "get"):
		return fmt.Sprintf("SELECT * FROM %s LIMIT 100", quoteIdent(target))

	case containsAny(q, "average", "avg"):
		if info, ok := schema.Table(target); ok {
			for _, col := range info.Columns {
				if isNumericType(col.Type) {
					return fmt.Sprintf("SELECT AVG(%s) FROM %s", quoteIdent(col.Name), quoteIdent(target))
				}
			}
		}
	}

	return fmt.Sprintf("SELECT * FROM %s LIMIT 10", quoteIdent(target))
}

func isNumericType(declaredType string) bool {
	upper := strings.ToUpper(declaredType)
	for _, marker := range numericTypeMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
