// Package catalog resolves a table's column inventory through a database
// adapter and classifies each column for view generation.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/data-natewilbert/snow-json/internal/adapter"
	"github.com/data-natewilbert/snow-json/internal/viewgen"
)

// EmptyTableError reports a table with no columns to project. Seen when the
// table does not exist or the information schema returns nothing for it.
type EmptyTableError struct {
	Table string
}

func (e *EmptyTableError) Error() string {
	return fmt.Sprintf("table %s has no columns to project", e.Table)
}

// Inspector reads column metadata for tables through an adapter.
type Inspector struct {
	adapter adapter.Adapter
	logger  *slog.Logger
}

// New creates an Inspector. A nil logger discards output.
func New(a adapter.Adapter, logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inspector{adapter: a, logger: logger}
}

// Columns returns the classified column descriptors of a table, in
// declaration order.
func (i *Inspector) Columns(ctx context.Context, table string) ([]viewgen.ColumnDescriptor, error) {
	md, err := i.adapter.GetTableMetadata(ctx, table)
	if err != nil {
		var notFound *adapter.TableNotFoundError
		if errors.As(err, &notFound) {
			return nil, &EmptyTableError{Table: table}
		}
		return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	if len(md.Columns) == 0 {
		return nil, &EmptyTableError{Table: table}
	}

	names := make([]string, len(md.Columns))
	types := make([]string, len(md.Columns))
	for idx, col := range md.Columns {
		names[idx] = col.Name
		types[idx] = col.Type
	}

	cols := viewgen.DescribeColumns(names, types)

	var semi int
	for _, c := range cols {
		if c.Kind == viewgen.SemiStructured {
			semi++
		}
	}
	i.logger.Debug("inspected table",
		"table", table,
		"columns", len(cols),
		"semi_structured", semi)

	return cols, nil
}
