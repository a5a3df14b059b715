// Package discovery samples semi-structured columns for the attribute
// paths they actually contain. Discovery runs against the data itself,
// flattening each document column and reporting every distinct path with
// its observed type.
package discovery

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/data-natewilbert/snow-json/internal/adapter"
	"github.com/data-natewilbert/snow-json/internal/viewgen"
)

// Oracle discovers attribute paths by querying table data through an
// adapter.
type Oracle struct {
	adapter adapter.Adapter
	logger  *slog.Logger
}

// New creates an Oracle. A nil logger discards output.
func New(a adapter.Adapter, logger *slog.Logger) *Oracle {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Oracle{adapter: a, logger: logger}
}

// leafPathQuery flattens a document column recursively and reports every
// distinct non-object path outside arrays. The first expression rewrites
// the raw path into its quoted form (name.first -> "name"."first"); the
// identifier alias is derived from it client-side. Arrays surface as paths
// typed ARRAY; their contents are excluded here and sampled separately.
const leafPathQuery = `SELECT DISTINCT
    REGEXP_REPLACE(REGEXP_REPLACE(f.path, '\\[(.+)\\]'), '(\\w+)', '"\\1"') AS path_name,
    TYPEOF(f.value) AS value_type
FROM %s,
    LATERAL FLATTEN(%s, RECURSIVE => true) f
WHERE TYPEOF(f.value) != 'OBJECT'
    AND f.path != ''
    AND NOT CONTAINS(f.path, '[')`

// arrayElementQuery flattens one array path and reports its distinct
// elements. Simple elements keep only their position; object members keep
// their relative path below the element with the index stripped.
const arrayElementQuery = `SELECT DISTINCT
    REGEXP_REPLACE(REGEXP_REPLACE(f.path, '\\[[0-9]+\\]'), '(\\w+)', '"\\1"') AS path_name,
    TYPEOF(f.value) AS value_type,
    f.index AS element_index
FROM %s,
    LATERAL FLATTEN(%s:%s, RECURSIVE => true) f
WHERE TYPEOF(f.value) != 'OBJECT'
    AND NOT REGEXP_LIKE(f.path, '\\[[0-9]+\\].*\\[')`

// LeafPaths returns every distinct attribute path discovered in a
// semi-structured column of a table, arrays included.
func (o *Oracle) LeafPaths(ctx context.Context, table, column string) ([]viewgen.LeafPath, error) {
	query := fmt.Sprintf(leafPathQuery, table, column)
	o.logger.Debug("discovering attribute paths", "table", table, "column", column)

	rows, err := o.adapter.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to discover paths in %s.%s: %w", table, column, err)
	}
	defer func() { _ = rows.Close() }()

	var leaves []viewgen.LeafPath
	for rows.Next() {
		var path, typeName string
		if err := rows.Scan(&path, &typeName); err != nil {
			return nil, fmt.Errorf("failed to scan discovered path: %w", err)
		}
		t := viewgen.ParseAttributeType(typeName)
		leaves = append(leaves, viewgen.LeafPath{
			Path:     path,
			Type:     t,
			TypeName: normalizeTypeName(typeName, t),
			Alias:    pathAlias(path),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discovered paths: %w", err)
	}

	o.logger.Debug("discovered attribute paths", "table", table, "column", column, "count", len(leaves))
	return leaves, nil
}

// ArrayElements returns the distinct elements sampled from one array path
// of a semi-structured column.
func (o *Oracle) ArrayElements(ctx context.Context, table, column, path string) ([]viewgen.ArrayElement, error) {
	query := fmt.Sprintf(arrayElementQuery, table, column, path)
	o.logger.Debug("sampling array elements", "table", table, "column", column, "path", path)

	rows, err := o.adapter.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sample array %s.%s:%s: %w", table, column, path, err)
	}
	defer func() { _ = rows.Close() }()

	var elements []viewgen.ArrayElement
	for rows.Next() {
		var relPath, typeName string
		var index sql.NullInt64
		if err := rows.Scan(&relPath, &typeName, &index); err != nil {
			return nil, fmt.Errorf("failed to scan array element: %w", err)
		}
		t := viewgen.ParseAttributeType(typeName)
		el := viewgen.ArrayElement{
			RelativePath: relPath,
			Type:         t,
			TypeName:     normalizeTypeName(typeName, t),
		}
		if relPath == "" {
			el.Index = int(index.Int64)
		} else {
			el.Alias = pathAlias(relPath)
		}
		elements = append(elements, el)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating array elements: %w", err)
	}

	return elements, nil
}

// pathAlias derives the identifier alias from a quoted path: quotes drop
// and every remaining separator becomes an underscore, so "name"."first"
// yields name_first and a relative ."kind" yields _kind.
func pathAlias(path string) string {
	return viewgen.SanitizeAlias(strings.ReplaceAll(path, `"`, ""))
}

// normalizeTypeName keeps the reported type when it is castable and falls
// back to the classified type otherwise (TYPEOF reports NULL_VALUE for
// JSON nulls, which no cast accepts).
func normalizeTypeName(typeName string, t viewgen.AttributeType) string {
	switch typeName {
	case "", "NULL_VALUE":
		return string(t)
	default:
		return typeName
	}
}
