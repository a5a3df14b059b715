// Package generator orchestrates a view generation run: inspect the
// table's columns, discover attribute paths in its semi-structured
// columns, assemble the flattened projection, render the DDL, and
// optionally execute it.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/data-natewilbert/snow-json/internal/catalog"
	"github.com/data-natewilbert/snow-json/internal/viewgen"
)

// EmptyTableError is returned when the target table has no columns to
// project. It surfaces before any DDL reaches the executor.
type EmptyTableError = catalog.EmptyTableError

// Catalog resolves a table's classified column inventory.
type Catalog interface {
	Columns(ctx context.Context, table string) ([]viewgen.ColumnDescriptor, error)
}

// Oracle discovers attribute paths and array elements from table data.
type Oracle interface {
	LeafPaths(ctx context.Context, table, column string) ([]viewgen.LeafPath, error)
	ArrayElements(ctx context.Context, table, column, path string) ([]viewgen.ArrayElement, error)
}

// Executor runs the rendered DDL. It reports whether the engine
// acknowledged the statement.
type Executor interface {
	Execute(ctx context.Context, sqlStr string) (bool, error)
}

// Request describes one view generation run.
type Request struct {
	Database string
	Schema   string
	Table    string
	// ViewName overrides the default <table>_VW view name. Bare name,
	// qualified with the request's database and schema.
	ViewName string
	Case     viewgen.CaseMode
	Types    viewgen.TypeMode
	// DryRun renders the DDL without executing it.
	DryRun bool
}

// Result is the outcome of one run.
type Result struct {
	RunID     string
	ViewName  string
	SQL       string
	Created   bool
	Fragments int
	Sources   int
}

// Generator wires the pipeline stages together.
type Generator struct {
	catalog  Catalog
	oracle   Oracle
	executor Executor
	logger   *slog.Logger
}

// New creates a Generator. A nil logger discards output.
func New(catalog Catalog, oracle Oracle, executor Executor, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		catalog:  catalog,
		oracle:   oracle,
		executor: executor,
		logger:   logger,
	}
}

// Generate runs the full pipeline for one table.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := g.logger.With("run_id", runID)

	table := fmt.Sprintf("%s.%s.%s", req.Database, req.Schema, req.Table)
	viewName := req.ViewName
	if viewName == "" {
		viewName = req.Table + "_VW"
	}
	viewFQN := fmt.Sprintf("%s.%s.%s", req.Database, req.Schema, viewName)

	logger.Info("generating view",
		"table", table,
		"view", viewFQN,
		"case_mode", req.Case.String(),
		"type_mode", req.Types.String(),
		"dry_run", req.DryRun)

	cols, err := g.catalog.Columns(ctx, table)
	if err != nil {
		return nil, err
	}

	builder := viewgen.NewBuilder(req.Types, logger)
	for _, col := range cols {
		if col.Kind == viewgen.Scalar {
			builder.AddScalar(col)
			continue
		}

		leaves, err := g.oracle.LeafPaths(ctx, table, col.Name)
		if err != nil {
			return nil, err
		}
		for _, leaf := range leaves {
			if leaf.Type != viewgen.TypeArray {
				builder.AddLeaf(col.Name, leaf)
				continue
			}
			elements, err := g.oracle.ArrayElements(ctx, table, col.Name, leaf.Path)
			if err != nil {
				return nil, err
			}
			builder.ResolveArray(col.Name, leaf, elements)
		}
	}

	def := builder.Finalize(viewFQN, table)
	sqlStr := viewgen.Render(def, req.Case)

	result := &Result{
		RunID:     runID,
		ViewName:  viewFQN,
		SQL:       sqlStr,
		Fragments: len(def.Fragments),
		Sources:   len(def.Sources),
	}

	if req.DryRun {
		logger.Info("dry run complete",
			"view", viewFQN,
			"fragments", result.Fragments,
			"sources", result.Sources,
			"duration", time.Since(start))
		return result, nil
	}

	created, err := g.executor.Execute(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create view %s: %w", viewFQN, err)
	}
	result.Created = created

	logger.Info("view generated",
		"view", viewFQN,
		"created", created,
		"fragments", result.Fragments,
		"sources", result.Sources,
		"duration", time.Since(start))

	return result, nil
}
