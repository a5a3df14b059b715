package adapter

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metadataRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}).
		AddRow("ID", "NUMBER", "NO", 1).
		AddRow("SRC", "VARIANT", "YES", 2)
}

func TestSnowflakeAdapter_GetTableMetadata_QualifiedName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewSnowflakeAdapter()
	adapter.db = db

	// database.schema.table routes through that database's information_schema
	// with schema and table bound as uppercased parameters
	mock.ExpectQuery("warehouse.information_schema.columns").
		WithArgs("ANALYTICS", "EVENTS").
		WillReturnRows(metadataRows())

	metadata, err := adapter.GetTableMetadata(context.Background(), "warehouse.analytics.events")
	require.NoError(t, err)

	assert.Equal(t, "analytics", metadata.Schema)
	assert.Equal(t, "events", metadata.Name)
	require.Len(t, metadata.Columns, 2)
	assert.Equal(t, "VARIANT", metadata.Columns[1].Type)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnowflakeAdapter_GetTableMetadata_BareName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewSnowflakeAdapter()
	adapter.db = db
	adapter.config = Config{Schema: "PUBLIC"}

	mock.ExpectQuery("information_schema.columns").
		WithArgs("PUBLIC", "EVENTS").
		WillReturnRows(metadataRows())

	_, err = adapter.GetTableMetadata(context.Background(), "events")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnowflakeAdapter_GetTableMetadata_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewSnowflakeAdapter()
	adapter.db = db

	mock.ExpectQuery("information_schema.columns").
		WithArgs("S", "MISSING").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "ordinal_position"}))

	_, err = adapter.GetTableMetadata(context.Background(), "DB.S.MISSING")

	var notFound *TableNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "DB.S.MISSING", notFound.Table)
}

func TestSnowflakeAdapter_NotConnected(t *testing.T) {
	adapter := NewSnowflakeAdapter()
	ctx := context.Background()

	assert.ErrorContains(t, adapter.Exec(ctx, "SELECT 1"), "not established")

	_, err := adapter.Query(ctx, "SELECT 1")
	assert.ErrorContains(t, err, "not established")

	_, err = adapter.GetTableMetadata(ctx, "T")
	assert.ErrorContains(t, err, "not established")
}

func TestSnowflakeAdapter_ConnectRequiresAccount(t *testing.T) {
	adapter := NewSnowflakeAdapter()

	err := adapter.Connect(context.Background(), Config{Username: "user"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account")
}

func TestSnowflakeAdapter_DialectName(t *testing.T) {
	assert.Equal(t, "snowflake", NewSnowflakeAdapter().DialectName())
}
