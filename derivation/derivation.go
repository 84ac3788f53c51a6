// Package derivation evaluates derived variables declared in YAML documents.
//
// A document names a source table and an ordered list of derived variables.
// Each variable is an expression over the variables of the source table and
// the variables derived before it:
//
//	table: vitals
//	variables:
//	  - name: bmi
//	    unit: kg/m2
//	    function: div
//	    target: weight
//	    args:
//	      - function: pow
//	        target: height
//	        args: [2]
//	  - name: bmi_class
//	    type: text
//	    function: group
//	    target: bmi
//	    args:
//	      - [18.5, 25, 30]
//
// Expressions are evaluated with the functions of package derive, so a
// function table or tracer installed in the context applies to derivations too.
package derivation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/damedic/tabular-toolbox-go/derive"
	"github.com/damedic/tabular-toolbox-go/table"
	"github.com/damedic/tabular-toolbox-go/unit"
	"github.com/damedic/tabular-toolbox-go/value"
	"gopkg.in/yaml.v3"
)

// Set is an ordered list of derived variables over one source table.
type Set struct {
	Table     string
	Variables []Definition
}

// Definition declares a derived variable.
type Definition struct {
	Name string
	// Type converts results, the zero Type with HasType unset keeps the type of the result.
	Type    value.Type
	HasType bool
	// Unit is the expected unit of results, the zero Unit accepts any unit.
	Unit       unit.Unit
	Expression Expression
}

type document struct {
	Table     string       `yaml:"table"`
	Variables []Definition `yaml:"variables"`
}

type definition struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Unit string `yaml:"unit"`
	call `yaml:",inline"`
}

// UnmarshalYAML decodes a definition with an inline expression.
//
// A definition without function is an alias of its target.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	var raw definition
	if err := node.Decode(&raw); err != nil {
		return err
	}
	def := Definition{Name: raw.Name}
	if raw.Type != "" {
		t, err := value.TypeByName(raw.Type)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		def.Type, def.HasType = t, true
	}
	if raw.Unit != "" {
		u, err := unit.Parse(raw.Unit)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		def.Unit = u
	}

	var err error
	switch {
	case raw.Function != "":
		def.Expression, err = decodeCall(node)
	case !raw.Target.IsZero():
		if len(raw.Args) > 0 {
			return nodeErrorf(node, "variable %s: arguments without function", raw.Name)
		}
		def.Expression, err = decodeExpression(&raw.Target)
	default:
		return nodeErrorf(node, "variable %s: missing function or target", raw.Name)
	}
	if err != nil {
		return err
	}
	*d = def
	return nil
}

// Load reads a derivation document and validates it.
func Load(r io.Reader) (*Set, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty derivation document")
		}
		return nil, fmt.Errorf("decode derivation document: %w", err)
	}
	set := &Set{Table: doc.Table, Variables: doc.Variables}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate checks that variable names are present and unique and that no
// variable references itself or a variable derived after it.
func (s *Set) Validate() error {
	var errs []error
	if s.Table == "" {
		errs = append(errs, errors.New("missing source table"))
	}
	positions := make(map[string]int, len(s.Variables))
	for i, d := range s.Variables {
		switch _, dup := positions[d.Name]; {
		case d.Name == "":
			errs = append(errs, fmt.Errorf("variable %d: missing name", i))
		case dup:
			errs = append(errs, fmt.Errorf("variable %s: duplicate name", d.Name))
		default:
			positions[d.Name] = i
		}
	}
	for i, d := range s.Variables {
		if d.Expression == nil {
			errs = append(errs, fmt.Errorf("variable %s: missing expression", d.Name))
			continue
		}
		for _, ref := range d.Expression.references(nil) {
			if pos, ok := positions[ref]; ok && pos >= i {
				errs = append(errs, fmt.Errorf("variable %s: references %s before it is derived", d.Name, ref))
			}
		}
	}
	return errors.Join(errs...)
}

// Evaluate derives all variables for one entity.
//
// References resolve to previously derived variables first and to the
// source table of the reader otherwise.
func (s *Set) Evaluate(ctx context.Context, reader table.Reader, entity string) (map[string]derive.UnitValue, error) {
	env := &environment{
		set:     s,
		reader:  reader,
		entity:  entity,
		derived: make(map[string]derive.UnitValue, len(s.Variables)),
	}
	for _, d := range s.Variables {
		result, err := d.Expression.eval(ctx, env)
		if err != nil {
			return nil, fmt.Errorf("derive %s for %s: %w", d.Name, entity, err)
		}
		if result, err = d.conform(result); err != nil {
			return nil, fmt.Errorf("derive %s for %s: %w", d.Name, entity, err)
		}
		env.derived[d.Name] = result
	}
	return env.derived, nil
}

// conform converts a result to the declared type and checks its unit.
// Results without unit take the declared unit.
func (d Definition) conform(result derive.UnitValue) (derive.UnitValue, error) {
	if d.HasType && result.Value.Type() != d.Type {
		v, err := d.Type.ValueOf(result.Value)
		if err != nil {
			return derive.UnitValue{}, err
		}
		result.Value = v
	}
	if !d.Unit.IsDeclared() {
		return result, nil
	}
	if !result.Unit.IsDeclared() {
		result.Unit = d.Unit
		return result, nil
	}
	if !result.Unit.Equal(d.Unit) {
		return derive.UnitValue{}, &UnitMismatchError{Variable: d.Name, Declared: d.Unit, Actual: result.Unit}
	}
	return result, nil
}

// UnitMismatchError reports a result whose unit differs from the declared unit.
type UnitMismatchError struct {
	Variable string
	Declared unit.Unit
	Actual   unit.Unit
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("variable %s: declared unit %q, got %q", e.Variable, e.Declared, e.Actual)
}

type environment struct {
	set     *Set
	reader  table.Reader
	entity  string
	derived map[string]derive.UnitValue
}

func (e *environment) lookup(ctx context.Context, name string) (derive.UnitValue, error) {
	if v, ok := e.derived[name]; ok {
		return v, nil
	}
	if slices.ContainsFunc(e.set.Variables, func(d Definition) bool { return d.Name == name }) {
		return derive.UnitValue{}, fmt.Errorf("variable %s: referenced before it is derived", name)
	}
	return derive.Load(ctx, e.reader, e.set.Table, e.entity, name)
}
