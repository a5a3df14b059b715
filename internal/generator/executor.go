package generator

import (
	"context"
	"fmt"

	"github.com/data-natewilbert/snow-json/internal/adapter"
)

// AdapterExecutor runs DDL through a database adapter. Engines answer
// CREATE VIEW with a single status row, so the statement runs as a query
// and acknowledgement is at least one returned row.
type AdapterExecutor struct {
	adapter adapter.Adapter
}

// NewAdapterExecutor creates an executor over a connected adapter.
func NewAdapterExecutor(a adapter.Adapter) *AdapterExecutor {
	return &AdapterExecutor{adapter: a}
}

// Execute runs the statement and reports whether the engine returned an
// acknowledgement row.
func (e *AdapterExecutor) Execute(ctx context.Context, sqlStr string) (bool, error) {
	rows, err := e.adapter.Query(ctx, sqlStr)
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()

	acknowledged := false
	for rows.Next() {
		acknowledged = true
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("error reading statement result: %w", err)
	}

	return acknowledged, nil
}

var _ Executor = (*AdapterExecutor)(nil)
