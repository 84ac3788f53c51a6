package generate

import (
	"strings"

	. "github.com/dave/jennifer/jen"
	"github.com/iancoleman/strcase"
)

// ValueTypes holds the identifiers of the value.Type constants.
var ValueTypes = []string{"Text", "Integer", "Decimal", "Boolean", "Date", "DateTime", "Locale", "Binary"}

// GenerateValueTypes renders the name tables of the value package.
//
// Canonical names are the lower camel case identifiers ("dateTime"),
// lookup keys are fully lower cased ("datetime") so that value.TypeByName
// can normalize any casing or separator style before the lookup.
func GenerateValueTypes(idents []string) *File {
	f := NewFile("value")
	f.HeaderComment("Code generated by internal/cmd/generate. DO NOT EDIT.")

	f.Var().Id("typeNames").Op("=").Index(Op("...")).String().Values(DictFunc(func(d Dict) {
		for _, id := range idents {
			d[Id(id)] = Lit(strcase.ToLowerCamel(id))
		}
	}))

	f.Var().Id("typesByKey").Op("=").Map(String()).Id("Type").Values(DictFunc(func(d Dict) {
		for _, id := range idents {
			d[Lit(strings.ToLower(id))] = Id(id)
		}
	}))

	f.Comment("String returns the canonical name of the type.")
	f.Func().Params(Id("t").Id("Type")).Id("String").Params().String().Block(
		If(Int().Call(Id("t")).Op("<").Len(Id("typeNames"))).Block(
			Return(Id("typeNames").Index(Id("t"))),
		),
		Return(Lit("Type(").Op("+").Qual("strconv", "Itoa").Call(Int().Call(Id("t"))).Op("+").Lit(")")),
	)

	return f
}
