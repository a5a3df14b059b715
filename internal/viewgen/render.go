package viewgen

import (
	"fmt"
	"strings"
)

// Render emits the DDL for a view definition. MatchCase wraps each alias in
// double quotes so the projected names keep their source casing; Uppercase
// emits bare uppercased aliases and lets the engine fold them.
func Render(def ViewDefinition, caseMode CaseMode) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "CREATE OR REPLACE VIEW %s AS\nSELECT\n", def.Name)

	for i, f := range def.Fragments {
		alias := f.Alias
		if caseMode == MatchCase {
			alias = `"` + alias + `"`
		} else {
			alias = strings.ToUpper(alias)
		}
		sb.WriteString("    ")
		sb.WriteString(f.Expression)
		sb.WriteString(" as ")
		sb.WriteString(alias)
		if i < len(def.Fragments)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("FROM ")
	for i, src := range def.Sources {
		if i > 0 {
			sb.WriteString(",\n    ")
		}
		if src.Kind == BaseSource {
			sb.WriteString(src.Origin)
		} else {
			fmt.Fprintf(&sb, "LATERAL FLATTEN(input => %s) a%d", src.Origin, src.ID)
		}
	}
	sb.WriteString(";")

	return sb.String()
}
