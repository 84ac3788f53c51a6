package derivation

import (
	"context"
	"fmt"

	"github.com/damedic/tabular-toolbox-go/derive"
	"github.com/damedic/tabular-toolbox-go/unit"
	"github.com/damedic/tabular-toolbox-go/value"
	"gopkg.in/yaml.v3"
)

// Expression is a node of a derivation: a variable reference, a literal or a function call.
type Expression interface {
	eval(ctx context.Context, env *environment) (derive.UnitValue, error)
	// references appends the names of all referenced variables.
	references(names []string) []string
}

// Ref references a variable of the source table or a previously derived variable.
type Ref struct {
	Name string
}

// Literal is a constant operand.
type Literal struct {
	Value derive.UnitValue
}

// Call applies a function of the derive function table.
type Call struct {
	Function string
	Target   Expression
	Args     []Expression
}

func (r Ref) eval(ctx context.Context, env *environment) (derive.UnitValue, error) {
	return env.lookup(ctx, r.Name)
}

func (r Ref) references(names []string) []string {
	return append(names, r.Name)
}

func (l Literal) eval(context.Context, *environment) (derive.UnitValue, error) {
	return l.Value, nil
}

func (l Literal) references(names []string) []string {
	return names
}

func (c Call) eval(ctx context.Context, env *environment) (derive.UnitValue, error) {
	target, err := c.Target.eval(ctx, env)
	if err != nil {
		return derive.UnitValue{}, err
	}
	args := make([]derive.UnitValue, len(c.Args))
	for i, a := range c.Args {
		if args[i], err = a.eval(ctx, env); err != nil {
			return derive.UnitValue{}, err
		}
	}
	return derive.Call(ctx, c.Function, target, args...)
}

func (c Call) references(names []string) []string {
	names = c.Target.references(names)
	for _, a := range c.Args {
		names = a.references(names)
	}
	return names
}

const (
	tagDate = "!date"
	tagText = "!text"
)

// call is the YAML form of a function call.
type call struct {
	Function string      `yaml:"function"`
	Target   yaml.Node   `yaml:"target"`
	Args     []yaml.Node `yaml:"args"`
}

// quantity is the YAML form of a literal with unit.
type quantity struct {
	Value yaml.Node `yaml:"value"`
	Unit  string    `yaml:"unit"`
}

// decodeExpression decodes an expression node.
//
// Plain strings are variable references, other scalars and sequences of
// scalars are literals. Mappings are either calls with the keys function,
// target and args, or literals with the keys value and unit.
// Strings tagged !text and dates tagged !date are literals.
func decodeExpression(node *yaml.Node) (Expression, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!str" {
			if node.Value == "" {
				return nil, nodeErrorf(node, "empty variable reference")
			}
			return Ref{Name: node.Value}, nil
		}
		v, err := decodeScalar(node)
		if err != nil {
			return nil, err
		}
		return Literal{Value: derive.Plain(v)}, nil
	case yaml.SequenceNode:
		v, err := decodeSequence(node)
		if err != nil {
			return nil, err
		}
		return Literal{Value: derive.Plain(v)}, nil
	case yaml.MappingNode:
		if hasKey(node, "function") {
			return decodeCall(node)
		}
		if hasKey(node, "value") {
			return decodeQuantity(node)
		}
		return nil, nodeErrorf(node, "expected a function call or a value")
	}
	return nil, nodeErrorf(node, "unsupported expression")
}

func decodeCall(node *yaml.Node) (Expression, error) {
	var c call
	if err := node.Decode(&c); err != nil {
		return nil, err
	}
	if c.Function == "" {
		return nil, nodeErrorf(node, "missing function name")
	}
	if c.Target.IsZero() {
		return nil, nodeErrorf(node, "function %s: missing target", c.Function)
	}
	target, err := decodeExpression(&c.Target)
	if err != nil {
		return nil, err
	}
	args := make([]Expression, len(c.Args))
	for i := range c.Args {
		if args[i], err = decodeExpression(&c.Args[i]); err != nil {
			return nil, err
		}
	}
	return Call{Function: c.Function, Target: target, Args: args}, nil
}

func decodeQuantity(node *yaml.Node) (Expression, error) {
	var q quantity
	if err := node.Decode(&q); err != nil {
		return nil, err
	}
	var (
		v   value.Value
		err error
	)
	if q.Value.Kind == yaml.SequenceNode {
		v, err = decodeSequence(&q.Value)
	} else {
		v, err = decodeScalar(&q.Value)
	}
	if err != nil {
		return nil, err
	}
	u, err := unit.Parse(q.Unit)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return Literal{Value: derive.Quantity(v, u)}, nil
}

func decodeScalar(node *yaml.Node) (value.Value, error) {
	if node.Kind != yaml.ScalarNode {
		return value.Value{}, nodeErrorf(node, "expected a scalar literal")
	}
	var (
		v   value.Value
		err error
	)
	switch tag := node.ShortTag(); tag {
	case "!!int":
		v, err = value.Integer.Parse(node.Value)
	case "!!float":
		v, err = value.Decimal.Parse(node.Value)
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return value.Value{}, err
		}
		v, err = value.Boolean.ValueOf(b)
	case "!!null":
		v = value.Integer.NullValue()
	case tagDate, "!!timestamp":
		v, err = value.Date.Parse(node.Value)
	case tagText, "!!str":
		v, err = value.Text.Parse(node.Value)
	default:
		return value.Value{}, nodeErrorf(node, "unsupported literal tag %s", tag)
	}
	if err != nil {
		return value.Value{}, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return v, nil
}

// decodeSequence decodes a sequence of scalar literals. The sequence takes
// the type of its first non-null item, Integer and Decimal items mixed form
// a Decimal sequence.
func decodeSequence(node *yaml.Node) (value.Value, error) {
	items := make([]any, len(node.Content))
	typ, typed := value.Integer, false
	for i, n := range node.Content {
		v, err := decodeScalar(n)
		if err != nil {
			return value.Value{}, err
		}
		items[i] = v
		switch {
		case v.IsNull():
		case !typed:
			typ, typed = v.Type(), true
		case typ == value.Integer && v.Type() == value.Decimal:
			typ = value.Decimal
		}
	}
	v, err := typ.SequenceOf(items)
	if err != nil {
		return value.Value{}, fmt.Errorf("line %d: %w", node.Line, err)
	}
	return v, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func nodeErrorf(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", node.Line, fmt.Sprintf(format, args...))
}
