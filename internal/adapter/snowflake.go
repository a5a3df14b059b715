package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sf "github.com/snowflakedb/gosnowflake"
)

func init() {
	Register("snowflake", func() Adapter { return NewSnowflakeAdapter() })
}

// SnowflakeAdapter implements the Adapter interface for Snowflake.
type SnowflakeAdapter struct {
	db     *sql.DB
	config Config
}

// NewSnowflakeAdapter creates a new Snowflake adapter instance.
func NewSnowflakeAdapter() *SnowflakeAdapter {
	return &SnowflakeAdapter{}
}

// Connect establishes a connection to Snowflake.
func (a *SnowflakeAdapter) Connect(ctx context.Context, cfg Config) error {
	if cfg.Account == "" {
		return fmt.Errorf("snowflake account not specified")
	}

	sfCfg := &sf.Config{
		Account:   cfg.Account,
		User:      cfg.Username,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Warehouse,
		Role:      cfg.Role,
		Host:      cfg.Host,
	}
	if cfg.Port != 0 {
		sfCfg.Port = cfg.Port
	}

	dsn, err := sf.DSN(sfCfg)
	if err != nil {
		return fmt.Errorf("failed to build snowflake DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return fmt.Errorf("failed to open snowflake connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping snowflake: %w", err)
	}

	a.db = db
	a.config = cfg

	return nil
}

// Close closes the Snowflake connection.
func (a *SnowflakeAdapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (a *SnowflakeAdapter) Exec(ctx context.Context, sqlStr string) error {
	if a.db == nil {
		return fmt.Errorf("database connection not established")
	}

	_, err := a.db.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}

	return nil
}

// Query executes a SQL statement that returns rows.
func (a *SnowflakeAdapter) Query(ctx context.Context, sqlStr string) (*Rows, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := a.db.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return &Rows{Rows: rows}, nil
}

// GetTableMetadata retrieves column metadata for a specified table.
// Table may be bare, schema-qualified, or database-qualified; unqualified
// parts fall back to the connection defaults.
func (a *SnowflakeAdapter) GetTableMetadata(ctx context.Context, table string) (*Metadata, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	schema := a.config.Schema
	tableName := table
	infoSchema := "information_schema"
	switch parts := strings.Split(table, "."); len(parts) {
	case 2:
		schema = parts[0]
		tableName = parts[1]
	case 3:
		infoSchema = parts[0] + ".information_schema"
		schema = parts[1]
		tableName = parts[2]
	}

	query := fmt.Sprintf(`
		SELECT
			column_name,
			data_type,
			is_nullable,
			ordinal_position
		FROM %s.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`, infoSchema)

	rows, err := a.db.QueryContext(ctx, query, strings.ToUpper(schema), strings.ToUpper(tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var col Column
		var nullable string
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &col.Position); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, &TableNotFoundError{Table: table}
	}

	return &Metadata{
		Schema:  schema,
		Name:    tableName,
		Columns: columns,
	}, nil
}

// DialectName returns the SQL dialect name for this adapter.
func (a *SnowflakeAdapter) DialectName() string {
	return "snowflake"
}

// Ensure SnowflakeAdapter implements Adapter interface
var _ Adapter = (*SnowflakeAdapter)(nil)
