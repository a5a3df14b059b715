// Package viewgen synthesizes flat relational views over tables that mix
// plain typed columns with semi-structured (VARIANT/JSON) columns. It turns
// discovered attribute paths into typed projection fragments and join
// sources, and renders the finished view definition to SQL in a separate
// step so generation and rendering can be tested independently.
package viewgen

import (
	"fmt"
	"strings"
)

// ColumnKind partitions catalog columns into plain typed columns and
// semi-structured document columns.
type ColumnKind int

const (
	// Scalar is an ordinary typed column projected through unchanged.
	Scalar ColumnKind = iota
	// SemiStructured is a schema-less document column whose attribute
	// paths are discovered from data.
	SemiStructured
)

func (k ColumnKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case SemiStructured:
		return "semi-structured"
	default:
		return "unknown"
	}
}

// ColumnDescriptor is one catalog column. Produced by the schema catalog;
// read-only afterwards.
type ColumnDescriptor struct {
	Name         string
	DeclaredType string
	Kind         ColumnKind
}

// AttributeType classifies a discovered attribute value.
type AttributeType string

const (
	TypeArray   AttributeType = "ARRAY"
	TypeBoolean AttributeType = "BOOLEAN"
	TypeNumber  AttributeType = "NUMBER"
	TypeString  AttributeType = "STRING"
)

// ParseAttributeType maps an oracle-reported type name onto the closed
// classification enum. Anything unrecognized is coerced to STRING rather
// than failing; the raw name still travels alongside for rendering.
func ParseAttributeType(name string) AttributeType {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ARRAY":
		return TypeArray
	case "BOOLEAN":
		return TypeBoolean
	case "NUMBER", "DECIMAL", "DOUBLE", "FLOAT", "INTEGER", "REAL", "FIXED":
		return TypeNumber
	case "STRING", "VARCHAR", "TEXT", "CHAR":
		return TypeString
	default:
		return TypeString
	}
}

// CaseMode controls alias quoting in the rendered view.
type CaseMode int

const (
	// MatchCase wraps every alias in double quotes so the source casing
	// survives identifier folding.
	MatchCase CaseMode = iota
	// Uppercase leaves aliases unquoted; the engine folds them.
	Uppercase
)

func (m CaseMode) String() string {
	if m == MatchCase {
		return "match"
	}
	return "upper"
}

// ParseCaseMode parses a case mode name ("match" or "upper").
func ParseCaseMode(s string) (CaseMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "match":
		return MatchCase, nil
	case "upper", "uppercase":
		return Uppercase, nil
	default:
		return MatchCase, fmt.Errorf("unknown case mode %q (want match or upper)", s)
	}
}

// TypeMode controls the cast type emitted for each projected attribute.
type TypeMode int

const (
	// MatchTypes casts each attribute to its discovered type.
	MatchTypes TypeMode = iota
	// StringTypes casts every non-array attribute to STRING.
	StringTypes
)

func (m TypeMode) String() string {
	if m == MatchTypes {
		return "match"
	}
	return "string"
}

// ParseTypeMode parses a type mode name ("match" or "string").
func ParseTypeMode(s string) (TypeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "match":
		return MatchTypes, nil
	case "string", "strings":
		return StringTypes, nil
	default:
		return MatchTypes, fmt.Errorf("unknown type mode %q (want match or string)", s)
	}
}

// LeafPath is one discovered non-root attribute path inside a
// semi-structured column.
//
// Path is the quoted dotted form as discovered (`"name"."first"`). TypeName
// is the type text the oracle reported (FLOAT, VARCHAR, ...); Type is its
// closed-enum classification. Alias is the sanitized identifier form of the
// path (`name_first`).
type LeafPath struct {
	Path     string
	Type     AttributeType
	TypeName string
	Alias    string
}

// ArrayElement is one distinct element discovered under an array path.
//
// An empty RelativePath marks a simple index-addressed element. A non-empty
// RelativePath (leading dot retained, segments quoted: `."type"`) marks an
// object-array member addressed by key; Alias is then the sanitized relative
// path including the leading separator (`_type`).
type ArrayElement struct {
	RelativePath string
	Type         AttributeType
	TypeName     string
	Alias        string
	Index        int
}

// SourceKind distinguishes the base table from auxiliary row-expanding
// sources introduced to unnest object arrays.
type SourceKind int

const (
	BaseSource SourceKind = iota
	AuxiliaryExpansion
)

// SourceRef names the join source a fragment reads from.
type SourceRef struct {
	Kind SourceKind
	ID   int
}

// Base is the SourceRef of the base table.
var Base = SourceRef{Kind: BaseSource}

// Auxiliary returns the SourceRef of the auxiliary expansion with the
// given id.
func Auxiliary(id int) SourceRef {
	return SourceRef{Kind: AuxiliaryExpansion, ID: id}
}

// ProjectionFragment is one synthesized output column of the view.
type ProjectionFragment struct {
	Expression string
	Alias      string
	Source     SourceRef
}

// JoinSource is one table-like input of the view. The Base source's Origin
// is the qualified table name; an auxiliary source's Origin is the array
// expression it flattens.
type JoinSource struct {
	ID     int
	Kind   SourceKind
	Origin string
}

// ViewDefinition is the finished view: built once, immutable thereafter.
// Sources holds the base source first, then auxiliary sources in ascending
// id order.
type ViewDefinition struct {
	Name      string
	Fragments []ProjectionFragment
	Sources   []JoinSource
}
