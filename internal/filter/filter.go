// Package filter selects usage reports by the calendar date they were created on.
package filter

import (
	"fmt"
	"strings"
	"time"

	"usagereports/internal/errs"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// Kind is the active date mode.
type Kind int

const (
	// KindNone matches nothing. It is what an empty set of date flags produces.
	KindNone Kind = iota
	KindTarget
	KindBefore
	KindAfter
	KindBetween
)

func (k Kind) String() string {
	switch k {
	case KindTarget:
		return "targetDate"
	case KindBefore:
		return "beforeDate"
	case KindAfter:
		return "afterDate"
	case KindBetween:
		return "betweenDates"
	default:
		return "none"
	}
}

// Args holds the raw date flag values. Empty means not given.
type Args struct {
	TargetDate   string
	BeforeDate   string
	AfterDate    string
	BetweenDates string
}

// DateFilter is one date mode with its bound dates, all at UTC midnight.
// To is only set for KindBetween.
type DateFilter struct {
	Kind Kind
	From time.Time
	To   time.Time
}

// Select builds the filter from the first non-empty argument in the order
// target, before, after, between. The names of any further non-empty
// arguments are returned as ignored.
func Select(args Args) (DateFilter, []string, error) {
	given := []struct {
		kind  Kind
		value string
	}{
		{KindTarget, args.TargetDate},
		{KindBefore, args.BeforeDate},
		{KindAfter, args.AfterDate},
		{KindBetween, args.BetweenDates},
	}

	var (
		f       DateFilter
		ignored []string
		chosen  bool
	)
	for _, g := range given {
		if g.value == "" {
			continue
		}
		if chosen {
			ignored = append(ignored, g.kind.String())
			continue
		}
		chosen = true

		var err error
		f, err = build(g.kind, g.value)
		if err != nil {
			return DateFilter{}, nil, err
		}
	}
	return f, ignored, nil
}

func build(kind Kind, value string) (DateFilter, error) {
	if kind == KindBetween {
		parts := strings.Split(value, "/")
		if len(parts) < 2 {
			return DateFilter{}, errs.New(errs.CodeDateParse, "betweenDates %q must be two dates separated by '/'", value)
		}
		// Anything after a second '/' is ignored.
		d1, err := ParseDate(parts[0])
		if err != nil {
			return DateFilter{}, err
		}
		d2, err := ParseDate(parts[1])
		if err != nil {
			return DateFilter{}, err
		}
		return DateFilter{Kind: KindBetween, From: d1, To: d2}, nil
	}

	d, err := ParseDate(value)
	if err != nil {
		return DateFilter{}, err
	}
	return DateFilter{Kind: kind, From: d}, nil
}

// ParseDate parses YYYY-MM-DD into UTC midnight of that day.
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, errs.Wrap(errs.CodeDateParse, "parse date", fmt.Errorf("%q is not a YYYY-MM-DD date: %w", value, err))
	}
	return d, nil
}

// DateOf returns UTC midnight of the UTC calendar day t falls on.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Matches reports whether an object created at created passes the filter.
// Before and after are strict; between includes both ends.
func (f DateFilter) Matches(created time.Time) bool {
	day := DateOf(created)

	switch f.Kind {
	case KindTarget:
		return day.Equal(f.From)
	case KindBefore:
		return day.Before(f.From)
	case KindAfter:
		return day.After(f.From)
	case KindBetween:
		return !day.Before(f.From) && !day.After(f.To)
	case KindNone:
		return false
	default:
		panic(fmt.Sprintf("filter: unknown kind %d", f.Kind))
	}
}

// Empty reports whether the filter can never match. Inverted ranges are empty.
func (f DateFilter) Empty() bool {
	return f.Kind == KindNone || (f.Kind == KindBetween && f.From.After(f.To))
}

// Describe renders the console line announcing the search.
func (f DateFilter) Describe() string {
	switch f.Kind {
	case KindTarget:
		return "Searching for reports on: " + f.From.Format(DateLayout)
	case KindBefore:
		return "Searching for reports before: " + f.From.Format(DateLayout)
	case KindAfter:
		return "Searching for reports after: " + f.From.Format(DateLayout)
	case KindBetween:
		return fmt.Sprintf("Searching for reports between: %s and %s", f.From.Format(DateLayout), f.To.Format(DateLayout))
	default:
		return "No date filter given, nothing will be downloaded"
	}
}

// String is the short form used in results, e.g. "betweenDates=2019-12-20/2020-01-20".
func (f DateFilter) String() string {
	switch f.Kind {
	case KindNone:
		return ""
	case KindBetween:
		return fmt.Sprintf("%s=%s/%s", f.Kind, f.From.Format(DateLayout), f.To.Format(DateLayout))
	default:
		return fmt.Sprintf("%s=%s", f.Kind, f.From.Format(DateLayout))
	}
}
