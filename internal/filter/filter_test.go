package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usagereports/internal/errs"
)

func day(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func mustSelect(t *testing.T, args Args) DateFilter {
	t.Helper()
	f, _, err := Select(args)
	require.NoError(t, err)
	return f
}

func TestSelectPrecedence(t *testing.T) {
	tests := []struct {
		name        string
		args        Args
		wantKind    Kind
		wantIgnored []string
	}{
		{"none", Args{}, KindNone, nil},
		{"target only", Args{TargetDate: "2020-01-20"}, KindTarget, nil},
		{"before only", Args{BeforeDate: "2020-01-20"}, KindBefore, nil},
		{"after only", Args{AfterDate: "2020-01-20"}, KindAfter, nil},
		{"between only", Args{BetweenDates: "2019-12-20/2020-01-20"}, KindBetween, nil},
		{"target wins over all", Args{TargetDate: "2020-01-20", BeforeDate: "2020-01-21", AfterDate: "2020-01-01", BetweenDates: "2020-01-01/2020-01-31"},
			KindTarget, []string{"beforeDate", "afterDate", "betweenDates"}},
		{"before wins over after", Args{BeforeDate: "2020-01-21", AfterDate: "2020-01-01"}, KindBefore, []string{"afterDate"}},
		{"after wins over between", Args{AfterDate: "2020-01-01", BetweenDates: "2020-01-01/2020-01-31"}, KindAfter, []string{"betweenDates"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ignored, err := Select(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, f.Kind)
			assert.Equal(t, tt.wantIgnored, ignored)
		})
	}
}

func TestSelectIgnoredArgumentsAreNotParsed(t *testing.T) {
	f, ignored, err := Select(Args{TargetDate: "2020-01-20", AfterDate: "not-a-date"})
	require.NoError(t, err)
	assert.Equal(t, KindTarget, f.Kind)
	assert.Equal(t, []string{"afterDate"}, ignored)
}

func TestSelectParseErrors(t *testing.T) {
	tests := []struct {
		name string
		args Args
	}{
		{"bad target", Args{TargetDate: "20-01-2020"}},
		{"impossible day", Args{BeforeDate: "2020-02-30"}},
		{"datetime", Args{AfterDate: "2020-01-20T00:00:00Z"}},
		{"padded", Args{TargetDate: " 2020-01-20"}},
		{"between without slash", Args{BetweenDates: "2019-12-20"}},
		{"between bad second", Args{BetweenDates: "2019-12-20/yesterday"}},
		{"between bad first", Args{BetweenDates: "/2020-01-20"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Select(tt.args)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.CodeDateParse), "want date parse error, got %v", err)
		})
	}
}

func TestSelectBetweenExtraSegmentsIgnored(t *testing.T) {
	f := mustSelect(t, Args{BetweenDates: "2019-12-20/2020-01-20/2021-01-01"})
	assert.Equal(t, day("2019-12-20"), f.From)
	assert.Equal(t, day("2020-01-20"), f.To)
}

func TestMatchesBoundaries(t *testing.T) {
	at := func(s string, hour int) time.Time { return day(s).Add(time.Duration(hour) * time.Hour) }

	tests := []struct {
		name    string
		args    Args
		created time.Time
		want    bool
	}{
		{"target same day start", Args{TargetDate: "2020-01-20"}, at("2020-01-20", 0), true},
		{"target same day end", Args{TargetDate: "2020-01-20"}, at("2020-01-20", 23), true},
		{"target day before", Args{TargetDate: "2020-01-20"}, at("2020-01-19", 23), false},
		{"target day after", Args{TargetDate: "2020-01-20"}, at("2020-01-21", 0), false},

		{"before is strict", Args{BeforeDate: "2020-01-20"}, at("2020-01-20", 0), false},
		{"before previous day", Args{BeforeDate: "2020-01-20"}, at("2020-01-19", 23), true},
		{"before later day", Args{BeforeDate: "2020-01-20"}, at("2020-01-21", 1), false},

		{"after is strict", Args{AfterDate: "2020-01-20"}, at("2020-01-20", 23), false},
		{"after next day", Args{AfterDate: "2020-01-20"}, at("2020-01-21", 0), true},
		{"after earlier day", Args{AfterDate: "2020-01-20"}, at("2020-01-19", 12), false},

		{"between lower bound", Args{BetweenDates: "2019-12-20/2020-01-20"}, at("2019-12-20", 0), true},
		{"between upper bound", Args{BetweenDates: "2019-12-20/2020-01-20"}, at("2020-01-20", 23), true},
		{"between inside", Args{BetweenDates: "2019-12-20/2020-01-20"}, at("2020-01-05", 8), true},
		{"between below", Args{BetweenDates: "2019-12-20/2020-01-20"}, at("2019-12-19", 23), false},
		{"between above", Args{BetweenDates: "2019-12-20/2020-01-20"}, at("2020-01-21", 0), false},
		{"between single day", Args{BetweenDates: "2020-01-20/2020-01-20"}, at("2020-01-20", 5), true},

		{"no filter", Args{}, at("2020-01-20", 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustSelect(t, tt.args)
			assert.Equal(t, tt.want, f.Matches(tt.created))
		})
	}
}

func TestMatchesInvertedRangeMatchesNothing(t *testing.T) {
	f := mustSelect(t, Args{BetweenDates: "2020-01-20/2019-12-20"})
	assert.True(t, f.Empty())

	for d := day("2019-12-01"); d.Before(day("2020-02-01")); d = d.AddDate(0, 0, 1) {
		assert.False(t, f.Matches(d.Add(12*time.Hour)), "inverted range matched %s", d.Format(DateLayout))
	}
}

func TestMatchesUsesUTCDate(t *testing.T) {
	f := mustSelect(t, Args{TargetDate: "2020-01-20"})

	// 2020-01-19 22:00 in UTC-3 is 2020-01-20 01:00 UTC.
	created := time.Date(2020, 1, 19, 22, 0, 0, 0, time.FixedZone("BRT", -3*60*60))
	assert.True(t, f.Matches(created))
}

func TestEmpty(t *testing.T) {
	assert.True(t, DateFilter{}.Empty())
	assert.False(t, mustSelect(t, Args{TargetDate: "2020-01-20"}).Empty())
	assert.False(t, mustSelect(t, Args{BetweenDates: "2020-01-20/2020-01-20"}).Empty())
}

func TestDescribeAndString(t *testing.T) {
	tests := []struct {
		args     Args
		describe string
		str      string
	}{
		{Args{TargetDate: "2020-01-20"}, "Searching for reports on: 2020-01-20", "targetDate=2020-01-20"},
		{Args{BeforeDate: "2020-01-20"}, "Searching for reports before: 2020-01-20", "beforeDate=2020-01-20"},
		{Args{AfterDate: "2020-01-20"}, "Searching for reports after: 2020-01-20", "afterDate=2020-01-20"},
		{Args{BetweenDates: "2019-12-20/2020-01-20"}, "Searching for reports between: 2019-12-20 and 2020-01-20", "betweenDates=2019-12-20/2020-01-20"},
		{Args{}, "No date filter given, nothing will be downloaded", ""},
	}

	for _, tt := range tests {
		f := mustSelect(t, tt.args)
		assert.Equal(t, tt.describe, f.Describe())
		assert.Equal(t, tt.str, f.String())
	}
}

func TestDateOf(t *testing.T) {
	got := DateOf(time.Date(2020, 1, 20, 23, 59, 59, 999, time.UTC))
	assert.Equal(t, day("2020-01-20"), got)
}
