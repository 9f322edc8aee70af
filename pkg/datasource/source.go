// Package datasource connects to user databases, introspects their schemas,
// and executes read queries against them.
package datasource

import (
	"context"
	"fmt"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// QueryResult is the stringified result of one SELECT execution. Every cell
// is rendered as text; NULLs stay nil.
type QueryResult struct {
	Columns  []string    `json:"columns"`
	Rows     [][]*string `json:"data"`
	RowCount int         `json:"row_count"`
}

// Source is one connected user database.
type Source interface {
	// Kind returns the driver family, e.g. "postgres" or "sqlite".
	Kind() string

	// Ping probes the connection with a trivial query.
	Ping(ctx context.Context) error

	// Introspect rebuilds the full schema from scratch: tables in discovery
	// order, columns in ordinal order, foreign keys, up to
	// models.SampleRowLimit sample rows, and a best-effort row count.
	// Per-table sample/count failures degrade those fields instead of
	// failing the call.
	Introspect(ctx context.Context) (*models.Schema, error)

	// Query executes a single statement and stringifies the result. Callers
	// are expected to have passed the statement through the sql guard first.
	Query(ctx context.Context, statement string) (*QueryResult, error)

	// Close releases the underlying pool or handle.
	Close()
}

// stringifyValue renders one result cell as text the way the API exposes it.
// NULL stays nil so clients can tell it apart from empty strings.
func stringifyValue(v any) *string {
	if v == nil {
		return nil
	}
	var s string
	switch val := v.(type) {
	case []byte:
		s = string(val)
	case string:
		s = val
	default:
		s = fmt.Sprintf("%v", val)
	}
	return &s
}
