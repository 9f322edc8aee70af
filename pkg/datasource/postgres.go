package datasource

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dataquill-io/dataquill-engine/pkg/models"
)

// PostgresSource is a PostgreSQL datasource backed by a pgx pool.
type PostgresSource struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// OpenPostgres creates a pooled PostgreSQL source.
func OpenPostgres(ctx context.Context, connString string, logger *zap.Logger) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &PostgresSource{pool: pool, logger: logger.Named("postgres")}, nil
}

// Kind implements Source.
func (s *PostgresSource) Kind() string { return "postgres" }

// Ping implements Source.
func (s *PostgresSource) Ping(ctx context.Context) error {
	var one int
	if err := s.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close implements Source.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

// Introspect implements Source. Tables come from information_schema in name
// order; primary keys are looked up separately and merged into the column
// list by name.
func (s *PostgresSource) Introspect(ctx context.Context) (*models.Schema, error) {
	const tablesQuery = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := s.pool.Query(ctx, tablesQuery)
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

func (s *PostgresSource) introspectTable(ctx context.Context, table string) (*models.TableInfo, error) {
	columns, err := s.tableColumns(ctx, table)
	if err != nil {
		return nil, err
	}

	pks, err := s.primaryKeyColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	for i := range columns {
		if pks[columns[i].Name] {
			columns[i].PrimaryKey = true
		}
	}

	fks, err := s.foreignKeys(ctx, table)
	if err != nil {
		return nil, err
	}

	info := &models.TableInfo{
		Columns:     columns,
		ForeignKeys: fks,
	}

	// Sample rows and row count are best-effort: a permission error on one
	// table degrades that table's fields rather than failing introspection.
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

func (s *PostgresSource) tableColumns(ctx context.Context, table string) ([]models.ColumnInfo, error) {
	const query = `
		SELECT column_name, data_type, is_nullable = 'YES', column_default
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnInfo
	for rows.Next() {
		var col models.ColumnInfo
		if err := rows.Scan(&col.Name, &col.Type, &col.Nullable, &col.Default); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}
	return columns, nil
}

func (s *PostgresSource) primaryKeyColumns(ctx context.Context, table string) (map[string]bool, error) {
	const query = `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema = 'public'
		  AND tc.table_name = $1
		ORDER BY kcu.ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("query primary keys: %w", err)
	}
	defer rows.Close()

	pks := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan primary key: %w", err)
		}
		pks[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate primary keys: %w", err)
	}
	return pks, nil
}

func (s *PostgresSource) foreignKeys(ctx context.Context, table string) ([]models.ForeignKeyInfo, error) {
	const query = `
		SELECT tc.constraint_name, kcu.column_name, ccu.table_name, ccu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON tc.constraint_name = ccu.constraint_name
			AND tc.table_schema = ccu.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema = 'public'
		  AND tc.table_name = $1
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := s.pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("query foreign keys: %w", err)
	}
	defer rows.Close()

	// Rows arrive ordered by constraint; consecutive rows with the same
	// constraint name form one composite foreign key.
	var fks []models.ForeignKeyInfo
	var lastConstraint string
	for rows.Next() {
		var constraint, column, refTable, refColumn string
		if err := rows.Scan(&constraint, &column, &refTable, &refColumn); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		if constraint != lastConstraint {
			fks = append(fks, models.ForeignKeyInfo{ReferredTable: refTable})
			lastConstraint = constraint
		}
		fk := &fks[len(fks)-1]
		fk.ConstrainedColumns = append(fk.ConstrainedColumns, column)
		fk.ReferredColumns = append(fk.ReferredColumns, refColumn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foreign keys: %w", err)
	}
	return fks, nil
}

func (s *PostgresSource) sampleRows(ctx context.Context, table string) ([]map[string]*string, error) {
	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", pgx.Identifier{table}.Sanitize(), models.SampleRowLimit)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var samples []map[string]*string
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]*string, len(fields))
		for i, fd := range fields {
			row[fd.Name] = stringifyValue(values[i])
		}
		samples = append(samples, row)
	}
	return samples, rows.Err()
}

func (s *PostgresSource) rowCount(ctx context.Context, table string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", pgx.Identifier{table}.Sanitize())

	var count int64
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Query implements Source.
func (s *PostgresSource) Query(ctx context.Context, statement string) (*QueryResult, error) {
	rows, err := s.pool.Query(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	result := &QueryResult{Columns: make([]string, len(fields)), Rows: [][]*string{}}
	for i, fd := range fields {
		result.Columns[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
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

// Ensure PostgresSource implements Source at compile time.
var _ Source = (*PostgresSource)(nil)
