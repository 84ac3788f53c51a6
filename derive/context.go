package derive

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"
)

type apdContextKey struct{}

// WithAPDContext sets the apd.Context used for decimal arithmetic.
//
// By default 34 significant digits are kept.
//
// Example:
//
//	ctx = derive.WithAPDContext(ctx, apd.BaseContext.WithPrecision(10))
//	result, err := derive.Div(ctx, a, b)
func WithAPDContext(
	ctx context.Context,
	apdContext *apd.Context,
) context.Context {
	return context.WithValue(ctx, apdContextKey{}, apdContext)
}

const defaultDecimalPrecision uint32 = 34

var defaultAPDContext = apd.BaseContext.WithPrecision(defaultDecimalPrecision)

func apdContext(ctx context.Context) *apd.Context {
	if ctx != nil {
		if apdContext, ok := ctx.Value(apdContextKey{}).(*apd.Context); ok && apdContext != nil {
			return apdContext
		}
	}
	return defaultAPDContext
}

// transcendentalDigits is the number of significant digits results of
// logarithms, fractional powers and roots are rounded to.
const transcendentalDigits uint32 = 15

var transcendentalContext = apd.BaseContext.WithPrecision(transcendentalDigits)

// WeekRules define how days are grouped into weeks for week numbering.
type WeekRules struct {
	// FirstDay is the day weeks start on.
	FirstDay time.Weekday
	// MinimalDays is the number of days of the first week of a year or month
	// that must fall into that year or month, between 1 and 7.
	MinimalDays int
}

var (
	// DefaultWeekRules start weeks on Sunday, the week containing January 1st is week 1.
	DefaultWeekRules = WeekRules{FirstDay: time.Sunday, MinimalDays: 1}
	// ISOWeekRules number weeks as ISO 8601 does.
	ISOWeekRules = WeekRules{FirstDay: time.Monday, MinimalDays: 4}
)

type weekRulesKey struct{}

// WithWeekRules sets the rules used by WeekOfYear and WeekOfMonth.
func WithWeekRules(ctx context.Context, rules WeekRules) context.Context {
	return context.WithValue(ctx, weekRulesKey{}, rules)
}

func weekRules(ctx context.Context) WeekRules {
	rules, ok := ctx.Value(weekRulesKey{}).(WeekRules)
	if !ok {
		return DefaultWeekRules
	}
	rules.MinimalDays = min(max(rules.MinimalDays, 1), 7)
	return rules
}

// Tracer defines the interface for logging evaluated function calls.
type Tracer interface {
	// Log logs the name of the called function and its result.
	Log(name string, result UnitValue) error
}

// StdoutTracer writes traces to os.Stdout.
type StdoutTracer struct{}

func (w StdoutTracer) Log(name string, result UnitValue) error {
	_, err := fmt.Printf("%s: %v\n", name, result)
	return err
}

type tracerKey struct{}

// WithTracer installs the given trace logger into the context.
//
// Calls dispatched through Call are traced only if a tracer is installed:
//
//	ctx = derive.WithTracer(ctx, derive.StdoutTracer{})
func WithTracer(ctx context.Context, logger Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, logger)
}

func tracer(ctx context.Context) (Tracer, bool) {
	logger, ok := ctx.Value(tracerKey{}).(Tracer)
	return logger, ok && logger != nil
}
