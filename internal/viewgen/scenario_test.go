package viewgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fragmentSet reduces a definition to comparable (alias, expression, source)
// tuples; projection order within a view is not guaranteed across runs.
func fragmentSet(def ViewDefinition) map[ProjectionFragment]struct{} {
	set := make(map[ProjectionFragment]struct{}, len(def.Fragments))
	for _, f := range def.Fragments {
		set[f] = struct{}{}
	}
	return set
}

func TestNestedNameAttributesUppercase(t *testing.T) {
	b := NewBuilder(MatchTypes, nil)
	b.AddScalar(ColumnDescriptor{Name: "ID", DeclaredType: "NUMBER(38,0)", Kind: Scalar})
	b.AddLeaf("SRC", LeafPath{Path: `"name"."first"`, Type: TypeString, TypeName: "VARCHAR", Alias: "name_first"})
	b.AddLeaf("SRC", LeafPath{Path: `"name"."last"`, Type: TypeString, TypeName: "VARCHAR", Alias: "name_last"})

	def := b.Finalize("DB.S.PEOPLE_VW", "DB.S.PEOPLE")
	sql := Render(def, Uppercase)

	assert.Contains(t, sql, `SRC:"name"."first"::VARCHAR as SRC_NAME_FIRST`)
	assert.Contains(t, sql, `SRC:"name"."last"::VARCHAR as SRC_NAME_LAST`)
	assert.NotContains(t, sql, `"SRC_NAME_FIRST"`)
}

func TestRGBFloatArray(t *testing.T) {
	b := NewBuilder(MatchTypes, nil)
	elements := []ArrayElement{
		{Type: TypeNumber, TypeName: "FLOAT", Index: 0},
		{Type: TypeNumber, TypeName: "FLOAT", Index: 1},
		{Type: TypeNumber, TypeName: "FLOAT", Index: 2},
	}
	b.ResolveArray("SRC", LeafPath{Path: `"code"."rgb"`, Type: TypeArray, TypeName: "ARRAY", Alias: "code_rgb"}, elements)

	def := b.Finalize("DB.S.COLORS_VW", "DB.S.COLORS")

	assert.ElementsMatch(t, []ProjectionFragment{
		{Expression: `SRC:"code"."rgb"[0]::FLOAT`, Alias: "SRC_code_rgb_0", Source: Base},
		{Expression: `SRC:"code"."rgb"[1]::FLOAT`, Alias: "SRC_code_rgb_1", Source: Base},
		{Expression: `SRC:"code"."rgb"[2]::FLOAT`, Alias: "SRC_code_rgb_2", Source: Base},
	}, def.Fragments)

	// positional addressing never adds an expansion source
	require.Len(t, def.Sources, 1)
	assert.NotContains(t, Render(def, MatchCase), "LATERAL FLATTEN")
}

func TestContactPhoneObjectArray(t *testing.T) {
	b := NewBuilder(MatchTypes, nil)
	b.ResolveArray("SRC", LeafPath{Path: `"contact"."phone"`, Type: TypeArray, TypeName: "ARRAY", Alias: "contact_phone"}, []ArrayElement{
		{Type: TypeString, TypeName: "VARCHAR", Index: 0},
		{RelativePath: `."kind"`, Type: TypeString, TypeName: "VARCHAR", Alias: "_kind"},
		{RelativePath: `."number"`, Type: TypeString, TypeName: "VARCHAR", Alias: "_number"},
	})

	def := b.Finalize("DB.S.PEOPLE_VW", "DB.S.PEOPLE")

	// object members win; the positional candidate is discarded
	require.Len(t, def.Fragments, 2)
	require.Len(t, def.Sources, 2)
	assert.Equal(t, `SRC:"contact"."phone"`, def.Sources[1].Origin)

	sql := Render(def, MatchCase)
	assert.Contains(t, sql, `a1.value:"kind"::VARCHAR as "SRC_contact_phone_kind"`)
	assert.Contains(t, sql, `a1.value:"number"::VARCHAR as "SRC_contact_phone_number"`)
	assert.Contains(t, sql, `LATERAL FLATTEN(input => SRC:"contact"."phone") a1`)
	assert.Equal(t, 1, strings.Count(sql, "LATERAL FLATTEN"))
}

func TestRepeatedBuildsAreSetEqual(t *testing.T) {
	build := func() ViewDefinition {
		b := NewBuilder(StringTypes, nil)
		b.AddScalar(ColumnDescriptor{Name: "ID", DeclaredType: "NUMBER(38,0)", Kind: Scalar})
		b.AddLeaf("SRC", LeafPath{Path: `"age"`, Type: TypeNumber, TypeName: "INTEGER", Alias: "age"})
		b.ResolveArray("SRC", LeafPath{Path: `"tags"`, Type: TypeArray, TypeName: "ARRAY", Alias: "tags"}, []ArrayElement{
			{Type: TypeString, TypeName: "VARCHAR", Index: 0},
		})
		return b.Finalize("DB.S.T_VW", "DB.S.T")
	}

	first := build()
	second := build()

	assert.Equal(t, fragmentSet(first), fragmentSet(second))
	assert.Equal(t, first.Sources, second.Sources)
}
