package derive

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/damedic/tabular-toolbox-go/value"
	"github.com/iancoleman/strcase"
)

// Function is an entry of the function table.
type Function struct {
	// MinArgs is the minimal number of arguments following the target.
	MinArgs int
	// MaxArgs is the maximal number of arguments, negative for variadic functions.
	MaxArgs int
	Eval    func(ctx context.Context, target UnitValue, args []UnitValue) (UnitValue, error)
}

// Functions maps function names to their implementation.
type Functions map[string]Function

// DefaultFunctions returns a copy of the built-in function table.
func DefaultFunctions() Functions {
	return maps.Clone(defaultFunctions)
}

var defaultFunctions = Functions{
	"plus":     variadic(1, Plus),
	"minus":    variadic(1, Minus),
	"multiply": variadic(1, Multiply),
	"div":      variadic(1, Div),
	"pow": {MinArgs: 1, MaxArgs: 1, Eval: func(ctx context.Context, target UnitValue, args []UnitValue) (UnitValue, error) {
		return Pow(ctx, target, args[0])
	}},
	"root": {MinArgs: 1, MaxArgs: 1, Eval: func(ctx context.Context, target UnitValue, args []UnitValue) (UnitValue, error) {
		return Root(ctx, target, args[0])
	}},
	"sqroot": unary0(Sqroot),
	"cbroot": unary0(Cbroot),
	"abs":    unary0(Abs),
	"ln":     unary0(Ln),
	"log": {MinArgs: 0, MaxArgs: 1, Eval: func(ctx context.Context, target UnitValue, args []UnitValue) (UnitValue, error) {
		return Log(ctx, target, args...)
	}},
	"gt": variadic(0, Gt),
	"ge": variadic(0, Ge),
	"lt": variadic(0, Lt),
	"le": variadic(0, Le),
	"group": {MinArgs: 1, MaxArgs: 2, Eval: func(ctx context.Context, target UnitValue, args []UnitValue) (UnitValue, error) {
		var outliers []value.Value
		if len(args) > 1 {
			outliers = valueList(args[1].Value)
		}
		return Group(ctx, target, valueList(args[0].Value), outliers)
	}},
	"year":        unary0(Year),
	"month":       unary0(Month),
	"dayOfWeek":   unary0(DayOfWeek),
	"weekday":     unary0(Weekday),
	"weekend":     unary0(Weekend),
	"dayOfMonth":  unary0(DayOfMonth),
	"dayOfYear":   unary0(DayOfYear),
	"weekOfYear":  unary0(WeekOfYear),
	"weekOfMonth": unary0(WeekOfMonth),
	"after":       variadic(0, After),
}

func variadic(minArgs int, fn func(context.Context, UnitValue, ...UnitValue) (UnitValue, error)) Function {
	return Function{
		MinArgs: minArgs,
		MaxArgs: -1,
		Eval: func(ctx context.Context, target UnitValue, args []UnitValue) (UnitValue, error) {
			return fn(ctx, target, args...)
		},
	}
}

func unary0(fn func(context.Context, UnitValue) (UnitValue, error)) Function {
	return Function{
		Eval: func(ctx context.Context, target UnitValue, _ []UnitValue) (UnitValue, error) {
			return fn(ctx, target)
		},
	}
}

// valueList flattens a list argument, scalars are lists of one item.
func valueList(v value.Value) []value.Value {
	if v.IsSequence() {
		return v.Items()
	}
	return []value.Value{v}
}

type functionsKey struct{}

// WithFunctions installs the given functions into the context.
//
// Functions with the name of a built-in function replace it.
func WithFunctions(
	ctx context.Context,
	functions Functions,
) context.Context {
	allFns := maps.Clone(getFunctions(ctx))
	for name, fn := range functions {
		allFns[functionKey(name)] = fn
	}
	return context.WithValue(ctx, functionsKey{}, allFns)
}

func getFunctions(ctx context.Context) Functions {
	fns, ok := ctx.Value(functionsKey{}).(Functions)
	if !ok {
		return defaultFunctions
	}
	return fns
}

// functionKey normalizes function names, "day_of_week", "DayOfWeek" and
// "dayOfWeek" share the key "dayOfWeek".
func functionKey(name string) string {
	return strcase.ToLowerCamel(strings.TrimSpace(name))
}

// Call evaluates the function with the given name.
//
// Names are resolved ignoring case of the first letter and word separators.
// If a Tracer is installed in the context, the result is traced.
func Call(ctx context.Context, name string, target UnitValue, args ...UnitValue) (UnitValue, error) {
	key := functionKey(name)
	fn, ok := getFunctions(ctx)[key]
	if !ok || fn.Eval == nil {
		return UnitValue{}, &UnknownFunctionError{Name: name}
	}
	if len(args) < fn.MinArgs || (fn.MaxArgs >= 0 && len(args) > fn.MaxArgs) {
		return UnitValue{}, &ArityError{Name: key, Min: fn.MinArgs, Max: fn.MaxArgs, Got: len(args)}
	}

	result, err := fn.Eval(ctx, target, args)
	if err != nil {
		return UnitValue{}, err
	}
	if t, ok := tracer(ctx); ok {
		if err := t.Log(key, result); err != nil {
			return UnitValue{}, fmt.Errorf("trace %s: %w", key, err)
		}
	}
	return result, nil
}
