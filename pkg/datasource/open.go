package datasource

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Open routes a connection string to the right driver.
//
// Supported forms:
//   - postgres://... or postgresql://...  (pgx)
//   - sqlite:///relative.db or sqlite:////abs/path.db (SQLAlchemy-style)
//   - sqlite:path.db
//   - file:path.db (passed to the sqlite driver as-is)
func Open(ctx context.Context, connString string, logger *zap.Logger) (Source, error) {
	switch {
	case strings.HasPrefix(connString, "postgres://"), strings.HasPrefix(connString, "postgresql://"):
		return OpenPostgres(ctx, connString, logger)

	case strings.HasPrefix(connString, "sqlite:"):
		path := sqlitePath(connString)
		if path == "" {
			return nil, fmt.Errorf("sqlite connection string has no path: %q", connString)
		}
		return OpenSQLite(path, logger)

	case strings.HasPrefix(connString, "file:"):
		// The sqlite driver understands file: URIs natively.
		return OpenSQLite(connString, logger)

	default:
		return nil, fmt.Errorf("unsupported connection string (expected postgres:// or sqlite:): %q", connString)
	}
}

// sqlitePath extracts the file path from a sqlite connection string.
// "sqlite:///foo.db" is relative, "sqlite:////tmp/foo.db" is absolute,
// matching the convention the original seeding tools used.
func sqlitePath(connString string) string {
	rest := strings.TrimPrefix(connString, "sqlite:")
	if strings.HasPrefix(rest, "///") {
		return strings.TrimPrefix(rest, "///")
	}
	rest = strings.TrimPrefix(rest, "//")
	return rest
}
