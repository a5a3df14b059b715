package viewgen

import (
	"fmt"
	"log/slog"
	"strings"
)

// Builder accumulates projection fragments and join sources for a single
// view. It is not safe for concurrent use; build one per run.
type Builder struct {
	typeMode    TypeMode
	logger      *slog.Logger
	fragments   []ProjectionFragment
	aux         []JoinSource
	nextArrayID int
}

// NewBuilder returns a Builder applying the given cast policy. A nil
// logger discards output.
func NewBuilder(typeMode TypeMode, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{
		typeMode:    typeMode,
		logger:      logger,
		nextArrayID: 1,
	}
}

// castType picks the cast target for a projected attribute. Under
// StringTypes every non-array attribute casts to STRING; arrays keep their
// reported type so the cast stays valid.
func (b *Builder) castType(t AttributeType, typeName string) string {
	if b.typeMode == StringTypes && t != TypeArray {
		return string(TypeString)
	}
	if typeName != "" {
		return typeName
	}
	return string(t)
}

// AddScalar projects a plain column through unchanged.
func (b *Builder) AddScalar(col ColumnDescriptor) {
	b.fragments = append(b.fragments, ProjectionFragment{
		Expression: col.Name,
		Alias:      col.Name,
		Source:     Base,
	})
}

// AddLeaf projects a discovered non-array attribute path.
func (b *Builder) AddLeaf(column string, leaf LeafPath) {
	b.fragments = append(b.fragments, ProjectionFragment{
		Expression: fmt.Sprintf("%s:%s::%s", column, leaf.Path, b.castType(leaf.Type, leaf.TypeName)),
		Alias:      column + "_" + leaf.Alias,
		Source:     Base,
	})
}

// ResolveArray expands a discovered array attribute from its sampled
// elements. Elements with a relative path are object members; when any are
// present they win and the array becomes an auxiliary row-expanding source.
// Otherwise each distinct index is addressed positionally off the base
// source. Every call consumes an expansion id whether or not a source is
// registered, so ids stay strictly increasing in resolution order.
func (b *Builder) ResolveArray(column string, leaf LeafPath, elements []ArrayElement) {
	id := b.nextArrayID
	b.nextArrayID++

	var simple, object []ArrayElement
	for _, el := range elements {
		if el.RelativePath == "" {
			simple = append(simple, el)
		} else {
			object = append(object, el)
		}
	}

	if len(object) > 0 {
		b.aux = append(b.aux, JoinSource{
			ID:     id,
			Kind:   AuxiliaryExpansion,
			Origin: column + ":" + leaf.Path,
		})
		for _, el := range object {
			b.fragments = append(b.fragments, ProjectionFragment{
				Expression: fmt.Sprintf("a%d.value:%s::%s", id, strings.TrimPrefix(el.RelativePath, "."), b.castType(el.Type, el.TypeName)),
				Alias:      column + "_" + leaf.Alias + el.Alias,
				Source:     Auxiliary(id),
			})
		}
		if len(simple) > 0 {
			b.logger.Debug("array mixes object and simple elements, keeping object members",
				"column", column, "path", leaf.Path, "dropped", len(simple))
		}
		return
	}

	for _, el := range simple {
		b.fragments = append(b.fragments, ProjectionFragment{
			Expression: fmt.Sprintf("%s:%s[%d]::%s", column, leaf.Path, el.Index, b.castType(el.Type, el.TypeName)),
			Alias:      fmt.Sprintf("%s_%s_%d", column, leaf.Alias, el.Index),
			Source:     Base,
		})
	}
}

// Finalize assembles the immutable view definition. Duplicate aliases are
// reported but kept; colliding paths are a data problem the caller should
// see in the generated SQL.
func (b *Builder) Finalize(viewName, baseObject string) ViewDefinition {
	sources := make([]JoinSource, 0, len(b.aux)+1)
	sources = append(sources, JoinSource{ID: 0, Kind: BaseSource, Origin: baseObject})
	sources = append(sources, b.aux...)

	seen := make(map[string]int, len(b.fragments))
	for _, f := range b.fragments {
		seen[f.Alias]++
	}
	for alias, n := range seen {
		if n > 1 {
			b.logger.Warn("duplicate alias in view projection", "view", viewName, "alias", alias, "count", n)
		}
	}

	return ViewDefinition{
		Name:      viewName,
		Fragments: append([]ProjectionFragment(nil), b.fragments...),
		Sources:   sources,
	}
}
