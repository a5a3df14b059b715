package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDuckDBAdapter_ConnectInMemory(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	err := adapter.Connect(ctx, Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to connect to in-memory DuckDB: %v", err)
	}
	defer adapter.Close()
}

func TestDuckDBAdapter_ConnectFileBased(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	// Create a temporary file for the database
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.duckdb")

	err := adapter.Connect(ctx, Config{Path: dbPath})
	if err != nil {
		t.Fatalf("failed to connect to file-based DuckDB: %v", err)
	}
	defer adapter.Close()

	// Verify the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestDuckDBAdapter_Exec(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer adapter.Close()

	// Create a table mixing plain and JSON columns
	err := adapter.Exec(ctx, `
		CREATE TABLE events (
			id INTEGER PRIMARY KEY,
			kind VARCHAR,
			payload JSON
		)
	`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	// Insert data
	err = adapter.Exec(ctx, `
		INSERT INTO events VALUES
			(1, 'signup', '{"user": "alice"}'),
			(2, 'login', '{"user": "bob", "mfa": true}')
	`)
	if err != nil {
		t.Fatalf("failed to insert data: %v", err)
	}
}

func TestDuckDBAdapter_Query(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer adapter.Close()

	// Create and populate a table
	if err := adapter.Exec(ctx, `CREATE TABLE users (id INTEGER, name VARCHAR)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	if err := adapter.Exec(ctx, `INSERT INTO users VALUES (1, 'alice'), (2, 'bob')`); err != nil {
		t.Fatalf("failed to insert data: %v", err)
	}

	// Query the data
	rows, err := adapter.Query(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	defer rows.Close()

	expected := []struct {
		id   int
		name string
	}{
		{1, "alice"},
		{2, "bob"},
	}

	i := 0
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			t.Fatalf("failed to scan row: %v", err)
		}

		if i >= len(expected) {
			t.Fatalf("unexpected extra row: id=%d, name=%s", id, name)
		}

		if id != expected[i].id || name != expected[i].name {
			t.Errorf("row %d: got (%d, %s), want (%d, %s)",
				i, id, name, expected[i].id, expected[i].name)
		}
		i++
	}

	if i != len(expected) {
		t.Errorf("got %d rows, want %d", i, len(expected))
	}
}

func TestDuckDBAdapter_GetTableMetadata(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer adapter.Close()

	// Create a table with a JSON column alongside plain ones
	if err := adapter.Exec(ctx, `
		CREATE TABLE products (
			product_id INTEGER NOT NULL,
			name VARCHAR,
			price DOUBLE,
			attributes JSON
		)
	`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	// Get metadata
	metadata, err := adapter.GetTableMetadata(ctx, "products")
	if err != nil {
		t.Fatalf("failed to get metadata: %v", err)
	}

	// Verify metadata
	if metadata.Name != "products" {
		t.Errorf("got table name %q, want %q", metadata.Name, "products")
	}

	if metadata.Schema != "main" {
		t.Errorf("got schema %q, want %q", metadata.Schema, "main")
	}

	if len(metadata.Columns) != 4 {
		t.Errorf("got %d columns, want 4", len(metadata.Columns))
	}

	// Check specific columns
	expectedColumns := map[string]string{
		"product_id": "INTEGER",
		"name":       "VARCHAR",
		"price":      "DOUBLE",
		"attributes": "JSON",
	}

	for _, col := range metadata.Columns {
		expectedType, ok := expectedColumns[col.Name]
		if !ok {
			t.Errorf("unexpected column: %s", col.Name)
			continue
		}
		if col.Type != expectedType {
			t.Errorf("column %s: got type %q, want %q", col.Name, col.Type, expectedType)
		}
	}
}

func TestDuckDBAdapter_GetTableMetadata_NotFound(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer adapter.Close()

	_, err := adapter.GetTableMetadata(ctx, "nonexistent_table")
	if err == nil {
		t.Error("expected error for nonexistent table, got nil")
	}
}

func TestDuckDBAdapter_ExecWithoutConnect(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	err := adapter.Exec(ctx, "SELECT 1")
	if err == nil {
		t.Error("expected error when executing without connection, got nil")
	}
}

func TestDuckDBAdapter_QueryWithoutConnect(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	_, err := adapter.Query(ctx, "SELECT 1")
	if err == nil {
		t.Error("expected error when querying without connection, got nil")
	}
}

func TestDuckDBAdapter_Close(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	// Close without connect should not error
	if err := adapter.Close(); err != nil {
		t.Errorf("close without connect should not error: %v", err)
	}

	// Connect and close
	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	if err := adapter.Close(); err != nil {
		t.Errorf("failed to close: %v", err)
	}
}

func TestDuckDBAdapter_CreateView(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer adapter.Close()

	if err := adapter.Exec(ctx, `CREATE TABLE raw (id INTEGER, doc JSON)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	if err := adapter.Exec(ctx, `
		INSERT INTO raw VALUES (1, '{"name": "alice"}'), (2, '{"name": "bob"}')
	`); err != nil {
		t.Fatalf("failed to insert data: %v", err)
	}

	if err := adapter.Exec(ctx, `
		CREATE OR REPLACE VIEW raw_vw AS
		SELECT id, doc->>'name' AS doc_name FROM raw
	`); err != nil {
		t.Fatalf("failed to create view: %v", err)
	}

	rows, err := adapter.Query(ctx, `SELECT doc_name FROM raw_vw ORDER BY id`)
	if err != nil {
		t.Fatalf("failed to query view: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan row: %v", err)
		}
		names = append(names, name)
	}

	if len(names) != 2 || names[0] != "alice" || names[1] != "bob" {
		t.Errorf("got %v, want [alice bob]", names)
	}
}

func TestDuckDBAdapter_GetTableMetadata_QualifiedName(t *testing.T) {
	ctx := context.Background()
	adapter := NewDuckDBAdapter()

	if err := adapter.Connect(ctx, Config{Path: ":memory:"}); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer adapter.Close()

	if err := adapter.Exec(ctx, `
		CREATE TABLE orders (
			order_id INTEGER NOT NULL,
			doc JSON
		)
	`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	// database.schema.table, as produced by fully qualified lookups
	metadata, err := adapter.GetTableMetadata(ctx, "memory.main.orders")
	if err != nil {
		t.Fatalf("failed to get metadata for qualified name: %v", err)
	}

	if metadata.Schema != "main" {
		t.Errorf("got schema %q, want %q", metadata.Schema, "main")
	}

	if metadata.Name != "orders" {
		t.Errorf("got table name %q, want %q", metadata.Name, "orders")
	}

	if len(metadata.Columns) != 2 {
		t.Errorf("got %d columns, want 2", len(metadata.Columns))
	}
}
