package viewgen

import "strings"

// semiStructuredTypes are the declared column types treated as
// semi-structured documents. Comparison is case-insensitive and ignores
// any length or precision suffix.
var semiStructuredTypes = map[string]struct{}{
	"VARIANT": {},
	"OBJECT":  {},
	"ARRAY":   {},
	"JSON":    {},
}

// Classify assigns a ColumnKind from a declared column type.
func Classify(declaredType string) ColumnKind {
	t := strings.ToUpper(strings.TrimSpace(declaredType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	if _, ok := semiStructuredTypes[t]; ok {
		return SemiStructured
	}
	return Scalar
}

// DescribeColumns builds descriptors for a table's columns, classifying
// each by its declared type.
func DescribeColumns(names, types []string) []ColumnDescriptor {
	cols := make([]ColumnDescriptor, 0, len(names))
	for i, name := range names {
		cols = append(cols, ColumnDescriptor{
			Name:         name,
			DeclaredType: types[i],
			Kind:         Classify(types[i]),
		})
	}
	return cols
}

// SanitizeAlias rewrites every character outside [A-Za-z0-9] to an
// underscore, matching how discovered path text becomes an identifier.
func SanitizeAlias(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
