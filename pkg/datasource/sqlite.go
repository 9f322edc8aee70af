package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// SQLiteSource is a file-backed SQLite datasource using the CGO-free driver.
type SQLiteSource struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// OpenSQLite opens (or creates) a SQLite database file.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &SQLiteSource{db: db, path: path, logger: logger.Named("sqlite")}, nil
}

// Kind implements Source.
func (s *SQLiteSource) Kind() string { return "sqlite" }

// Ping implements Source.
func (s *SQLiteSource) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close implements Source.
func (s *SQLiteSource) Close() {
	_ = s.db.Close()
}

// quoteIdent double-quotes an identifier for use in PRAGMA and sampling
// statements.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Introspect implements Source. Discovery order is sqlite_master name order.
func (s *SQLiteSource) Introspect(ctx context.Context) (*models.Schema, error) {
	const tablesQuery = `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	rows, err := s.db.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	var tableNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tableNames = append(tableNames, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	schema := models.NewSchema()
	for _, name := range tableNames {
		info, err := s.introspectTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("introspect table %s: %w", name, err)
		}
		schema.AddTable(name, info)
	}
	return schema, nil
}

func (s *SQLiteSource) introspectTable(ctx context.Context, table string) (*models.TableInfo, error) {
	columns, err := s.tableColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	fks, err := s.foreignKeys(ctx, table)
	if err != nil {
		return nil, err
	}

	info := &models.TableInfo{
		Columns:     columns,
		ForeignKeys: fks,
	}

	if samples, err := s.sampleRows(ctx, table); err != nil {
		s.logger.Debug("sample rows unavailable", zap.String("table", table), zap.Error(err))
	} else {
		info.SampleRows = samples
	}
	if count, err := s.rowCount(ctx, table); err != nil {
		s.logger.Debug("row count unavailable", zap.String("table", table), zap.Error(err))
	} else {
		info.RowCount = count
	}

	return info, nil
}

func (s *SQLiteSource) tableColumns(ctx context.Context, table string) ([]models.ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("pragma table_info: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnInfo
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    *string
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, models.ColumnInfo{
			Name:       name,
			Type:       typ,
			Nullable:   notNull == 0,
			Default:    dflt,
			PrimaryKey: pk > 0,
		})
	}
	return columns, rows.Err()
}

func (s *SQLiteSource) foreignKeys(ctx context.Context, table string) ([]models.ForeignKeyInfo, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("pragma foreign_key_list: %w", err)
	}
	defer rows.Close()

	// Rows arrive ordered by (id, seq); rows sharing an id form one
	// composite foreign key.
	var fks []models.ForeignKeyInfo
	lastID := -1
	for rows.Next() {
		var (
			id, seq            int
			refTable, from     string
			to                 *string
			onUpdate, onDelete string
			match              string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		if id != lastID {
			fks = append(fks, models.ForeignKeyInfo{ReferredTable: refTable})
			lastID = id
		}
		fk := &fks[len(fks)-1]
		fk.ConstrainedColumns = append(fk.ConstrainedColumns, from)
		if to != nil {
			fk.ReferredColumns = append(fk.ReferredColumns, *to)
		}
	}
	return fks, rows.Err()
}

func (s *SQLiteSource) sampleRows(ctx context.Context, table string) ([]map[string]*string, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), models.SampleRowLimit)

	result, err := s.scanAll(ctx, query)
	if err != nil {
		return nil, err
	}

	var samples []map[string]*string
	for _, row := range result.Rows {
		sample := make(map[string]*string, len(result.Columns))
		for i, col := range result.Columns {
			sample[col] = row[i]
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

func (s *SQLiteSource) rowCount(ctx context.Context, table string) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Query implements Source.
func (s *SQLiteSource) Query(ctx context.Context, statement string) (*QueryResult, error) {
	return s.scanAll(ctx, statement)
}

// scanAll executes a statement and stringifies every cell.
func (s *SQLiteSource) scanAll(ctx context.Context, statement string) (*QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &QueryResult{Columns: columns, Rows: [][]*string{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := make([]*string, len(values))
		for i, v := range values {
			row[i] = stringifyValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

// Ensure SQLiteSource implements Source at compile time.
var _ Source = (*SQLiteSource)(nil)
