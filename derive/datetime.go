package derive

import (
	"context"
	"time"

	"github.com/damedic/tabular-toolbox-go/value"
)

// Year returns the year of a date.
func Year(ctx context.Context, v UnitValue) (UnitValue, error) {
	return calendarField(ctx, "year", v, func(_ WeekRules, t time.Time) int64 {
		return int64(t.Year())
	})
}

// Month returns the month of a date, counting from 0 for January.
func Month(ctx context.Context, v UnitValue) (UnitValue, error) {
	return calendarField(ctx, "month", v, func(_ WeekRules, t time.Time) int64 {
		return int64(t.Month()) - 1
	})
}

// DayOfWeek returns the day of the week of a date, counting from 1 for Sunday to 7 for Saturday.
func DayOfWeek(ctx context.Context, v UnitValue) (UnitValue, error) {
	return calendarField(ctx, "dayOfWeek", v, func(_ WeekRules, t time.Time) int64 {
		return int64(t.Weekday()) + 1
	})
}

// DayOfMonth returns the day of the month of a date, starting at 1.
func DayOfMonth(ctx context.Context, v UnitValue) (UnitValue, error) {
	return calendarField(ctx, "dayOfMonth", v, func(_ WeekRules, t time.Time) int64 {
		return int64(t.Day())
	})
}

// DayOfYear returns the day of the year of a date, starting at 1.
func DayOfYear(ctx context.Context, v UnitValue) (UnitValue, error) {
	return calendarField(ctx, "dayOfYear", v, func(_ WeekRules, t time.Time) int64 {
		return int64(t.YearDay())
	})
}

// WeekOfYear returns the week of the year of a date according to the
// WeekRules of the context.
//
// The first days of January may belong to the last week of the previous
// year and the last days of December to week 1 of the next year.
func WeekOfYear(ctx context.Context, v UnitValue) (UnitValue, error) {
	return calendarField(ctx, "weekOfYear", v, func(rules WeekRules, t time.Time) int64 {
		return rules.weekOfYear(t)
	})
}

// WeekOfMonth returns the week of the month of a date according to the
// WeekRules of the context.
//
// Days before the first week of a month are in week 0.
func WeekOfMonth(ctx context.Context, v UnitValue) (UnitValue, error) {
	return calendarField(ctx, "weekOfMonth", v, func(rules WeekRules, t time.Time) int64 {
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return rules.weekNumber(dayNumber(first), dayNumber(t))
	})
}

// Weekday reports whether a date is a day from Monday to Friday.
func Weekday(ctx context.Context, v UnitValue) (UnitValue, error) {
	return calendarFlag("weekday", v, func(t time.Time) bool {
		return t.Weekday() != time.Saturday && t.Weekday() != time.Sunday
	})
}

// Weekend reports whether a date is a Saturday or a Sunday.
func Weekend(ctx context.Context, v UnitValue) (UnitValue, error) {
	return calendarFlag("weekend", v, func(t time.Time) bool {
		return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
	})
}

// After reports whether the date v is not before any of the others.
//
// The arguments are checked in order: a null date yields the null Boolean,
// a date after v yields false. Without arguments the result is false.
func After(ctx context.Context, v UnitValue, others ...UnitValue) (UnitValue, error) {
	if err := checkDate("after", v.Value); err != nil {
		return UnitValue{}, err
	}
	for _, o := range others {
		if err := checkDate("after", o.Value); err != nil {
			return UnitValue{}, err
		}
	}

	t, ok := v.Value.Time()
	if !ok {
		return Plain(value.Boolean.NullValue()), nil
	}
	if len(others) == 0 {
		return Plain(value.Boolean.MustValueOf(false)), nil
	}
	for _, o := range others {
		other, ok := o.Value.Time()
		if !ok {
			return Plain(value.Boolean.NullValue()), nil
		}
		if t.Before(other) {
			return Plain(value.Boolean.MustValueOf(false)), nil
		}
	}
	return Plain(value.Boolean.MustValueOf(true)), nil
}

func checkDate(op string, v value.Value) error {
	if v.Type() != value.Date || v.IsSequence() {
		return &value.TypeMismatchError{Operation: op, Expected: value.Date.Name(), Actual: v.Type()}
	}
	return nil
}

func calendarField(ctx context.Context, op string, v UnitValue, field func(WeekRules, time.Time) int64) (UnitValue, error) {
	if v.Value.Type() != value.Date {
		return UnitValue{}, &value.TypeMismatchError{Operation: op, Expected: value.Date.Name(), Actual: v.Value.Type()}
	}
	rules := weekRules(ctx)
	result, err := mapSequence(v.Value, value.Integer, func(item value.Value) (value.Value, error) {
		t, ok := item.Time()
		if !ok {
			return value.Integer.NullValue(), nil
		}
		return value.Integer.ValueOf(field(rules, t))
	})
	if err != nil {
		return UnitValue{}, err
	}
	return Plain(result), nil
}

func calendarFlag(op string, v UnitValue, flag func(time.Time) bool) (UnitValue, error) {
	if v.Value.Type() != value.Date {
		return UnitValue{}, &value.TypeMismatchError{Operation: op, Expected: value.Date.Name(), Actual: v.Value.Type()}
	}
	result, err := mapSequence(v.Value, value.Boolean, func(item value.Value) (value.Value, error) {
		t, ok := item.Time()
		if !ok {
			return value.Boolean.NullValue(), nil
		}
		return value.Boolean.ValueOf(flag(t))
	})
	if err != nil {
		return UnitValue{}, err
	}
	return Plain(result), nil
}

// dayNumber counts days since 1970-01-01 for dates at UTC midnight.
func dayNumber(t time.Time) int64 {
	return floorDiv(t.Unix(), 24*60*60)
}

// weekdayOf returns the weekday of a day number.
func weekdayOf(day int64) time.Weekday {
	// 1970-01-01 was a Thursday
	return time.Weekday(floorMod(day+int64(time.Thursday), 7))
}

// weekStartAfter returns the first day starting a week within the seven days from day on.
func (r WeekRules) weekStartAfter(day int64) int64 {
	last := day + 6
	return last - floorMod(int64(weekdayOf(last))-int64(r.FirstDay), 7)
}

// weekNumber returns the week of day within the period starting at first.
// Days before the first week of the period are in week 0 or below.
func (r WeekRules) weekNumber(first, day int64) int64 {
	start := r.weekStartAfter(first)
	if start-first >= int64(r.MinimalDays) {
		start -= 7
	}
	return floorDiv(day-start, 7) + 1
}

func (r WeekRules) weekOfYear(t time.Time) int64 {
	day := dayNumber(t)
	jan1 := dayNumber(time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC))
	week := r.weekNumber(jan1, day)
	if week == 0 {
		prevJan1 := dayNumber(time.Date(t.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC))
		return r.weekNumber(prevJan1, jan1-1)
	}
	if week >= 52 {
		nextJan1 := dayNumber(time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, time.UTC))
		start := r.weekStartAfter(nextJan1)
		if start-nextJan1 >= int64(r.MinimalDays) {
			start -= 7
		}
		if day >= start {
			return 1
		}
	}
	return week
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
