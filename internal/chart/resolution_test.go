package chart

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatrixRex/daamtrack/internal/domain"
)

func TestEffectiveResolution(t *testing.T) {
	policy := DefaultAutoPolicy()

	cases := []struct {
		name  string
		mode  domain.Resolution
		start string
		end   string
		want  domain.Resolution
	}{
		{"auto short span", domain.ResolutionAuto, "2024-01-01", "2024-03-31", domain.ResolutionDaily},
		{"auto exactly a year", domain.ResolutionAuto, "2024-01-01", "2024-12-30", domain.ResolutionDaily},
		{"auto beyond a year", domain.ResolutionAuto, "2023-01-01", "2024-06-01", domain.ResolutionWeekly},
		{"auto beyond five years", domain.ResolutionAuto, "2018-01-01", "2024-06-01", domain.ResolutionMonthly},
		{"explicit override wins", domain.ResolutionYearly, "2024-01-01", "2024-01-05", domain.ResolutionYearly},
		{"explicit daily on long span", domain.ResolutionDaily, "2010-01-01", "2024-01-01", domain.ResolutionDaily},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := EffectiveResolution(c.mode, day(t, c.start), day(t, c.end), policy)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestEffectiveResolutionCustomPolicy(t *testing.T) {
	policy := AutoPolicy{DailyMaxDays: 7, WeeklyMaxDays: 30}

	got := EffectiveResolution(domain.ResolutionAuto, day(t, "2024-01-01"), day(t, "2024-01-10"), policy)
	assert.Equal(t, domain.ResolutionWeekly, got)

	got = EffectiveResolution(domain.ResolutionAuto, day(t, "2024-01-01"), day(t, "2024-03-01"), policy)
	assert.Equal(t, domain.ResolutionMonthly, got)
}

func materializeRice(t *testing.T, start, end string, points map[string]float64) []domain.Row {
	t.Helper()
	var series []*domain.Observation
	for date, price := range points {
		series = append(series, obs(t, date, price))
	}
	sortObservations(series)
	return Materialize(day(t, start), day(t, end), []domain.Item{{Name: "Rice"}}, func(string) []*domain.Observation {
		return series
	})
}

func sortObservations(series []*domain.Observation) {
	for i := 1; i < len(series); i++ {
		for j := i; j > 0 && series[j].Date.Before(series[j-1].Date); j-- {
			series[j], series[j-1] = series[j-1], series[j]
		}
	}
}

func TestAggregateDailyIsIdentity(t *testing.T) {
	rows := materializeRice(t, "2024-01-01", "2024-01-05", map[string]float64{"2024-01-02": 70})

	out := Aggregate(rows, []string{"Rice"}, domain.ResolutionDaily, domain.ReducerAvg)
	assert.Equal(t, rows, out)
}

func TestAggregateMonthlyAverage(t *testing.T) {
	rows := materializeRice(t, "2024-01-01", "2024-02-29", map[string]float64{
		"2024-01-05": 70,
		"2024-01-20": 75,
		"2024-02-10": 81,
	})

	out := Aggregate(rows, []string{"Rice"}, domain.ResolutionMonthly, domain.ReducerAvg)
	require.Len(t, out, 2)

	assert.Equal(t, "2024-01", out[0].Key)
	assert.Equal(t, "Jan '24", out[0].DateShort)
	assert.Equal(t, "January 2024", out[0].FullDate)

	// (70+75)/2 = 72.5, rounded to 73, landing on both channels.
	v := out[0].Value("Rice")
	require.NotNil(t, v.Actual)
	require.NotNil(t, v.Ext)
	assert.Equal(t, 73.0, *v.Actual)
	assert.Equal(t, 73.0, *v.Ext)

	assert.Equal(t, "2024-02", out[1].Key)
	v = out[1].Value("Rice")
	require.NotNil(t, v.Actual)
	assert.Equal(t, 81.0, *v.Actual)
}

func TestAggregateReducers(t *testing.T) {
	rows := materializeRice(t, "2024-01-01", "2024-01-31", map[string]float64{
		"2024-01-05": 60,
		"2024-01-20": 80,
	})

	v := Aggregate(rows, []string{"Rice"}, domain.ResolutionMonthly, domain.ReducerMin)[0].Value("Rice")
	require.NotNil(t, v.Actual)
	assert.Equal(t, 60.0, *v.Actual)

	v = Aggregate(rows, []string{"Rice"}, domain.ResolutionMonthly, domain.ReducerMax)[0].Value("Rice")
	require.NotNil(t, v.Actual)
	assert.Equal(t, 80.0, *v.Actual)
}

func TestAggregateSingleWeeklyBucketReducers(t *testing.T) {
	// Mon/Tue/Wed of one week: avg rounds the mean, min/max pick extremes.
	rows := materializeRice(t, "2024-01-01", "2024-01-03", map[string]float64{
		"2024-01-01": 10,
		"2024-01-02": 20,
		"2024-01-03": 30,
	})

	for reducer, want := range map[domain.Reducer]float64{
		domain.ReducerAvg: 20,
		domain.ReducerMin: 10,
		domain.ReducerMax: 30,
	} {
		out := Aggregate(rows, []string{"Rice"}, domain.ResolutionWeekly, reducer)
		require.Len(t, out, 1, "reducer %s", reducer)
		v := out[0].Value("Rice")
		require.NotNil(t, v.Actual, "reducer %s", reducer)
		assert.Equal(t, want, *v.Actual, "reducer %s", reducer)
	}
}

func TestAggregateFullWeekMin(t *testing.T) {
	points := make(map[string]float64, 7)
	for i := 0; i < 7; i++ {
		points[fmt.Sprintf("2024-01-%02d", i+1)] = float64(10 + 2*i)
	}
	rows := materializeRice(t, "2024-01-01", "2024-01-07", points)

	out := Aggregate(rows, []string{"Rice"}, domain.ResolutionWeekly, domain.ReducerMin)
	require.Len(t, out, 1)
	v := out[0].Value("Rice")
	require.NotNil(t, v.Actual)
	assert.Equal(t, 10.0, *v.Actual)
}

func TestAggregateWeeklyBuckets(t *testing.T) {
	// 2024-01-01 is a Monday; the second week starts 2024-01-08.
	rows := materializeRice(t, "2024-01-01", "2024-01-14", map[string]float64{
		"2024-01-02": 70,
		"2024-01-04": 72,
		"2024-01-10": 80,
	})

	out := Aggregate(rows, []string{"Rice"}, domain.ResolutionWeekly, domain.ReducerAvg)
	require.Len(t, out, 2)
	assert.Equal(t, "2024-01-01", out[0].Key)
	assert.Equal(t, "2024-01-08", out[1].Key)

	v := out[0].Value("Rice")
	require.NotNil(t, v.Actual)
	assert.Equal(t, 71.0, *v.Actual)
}

func TestAggregateSundayJoinsPrecedingWeek(t *testing.T) {
	// 2024-01-07 is a Sunday and belongs to the week starting 2024-01-01.
	rows := materializeRice(t, "2024-01-01", "2024-01-07", map[string]float64{
		"2024-01-07": 90,
	})

	out := Aggregate(rows, []string{"Rice"}, domain.ResolutionWeekly, domain.ReducerAvg)
	require.Len(t, out, 1)
	assert.Equal(t, "2024-01-01", out[0].Key)
}

func TestAggregateExtOnlyBucketFallsBackToFirstExt(t *testing.T) {
	// Data ends in January; February's bucket holds only extended days.
	rows := materializeRice(t, "2024-01-01", "2024-02-29", map[string]float64{
		"2024-01-15": 70,
	})

	out := Aggregate(rows, []string{"Rice"}, domain.ResolutionMonthly, domain.ReducerAvg)
	require.Len(t, out, 2)

	v := out[1].Value("Rice")
	assert.Nil(t, v.Actual)
	require.NotNil(t, v.Ext)
	assert.Equal(t, 70.0, *v.Ext)
}

func TestAggregateYearly(t *testing.T) {
	rows := materializeRice(t, "2023-06-01", "2024-06-01", map[string]float64{
		"2023-07-01": 60,
		"2024-02-01": 80,
	})

	out := Aggregate(rows, []string{"Rice"}, domain.ResolutionYearly, domain.ReducerAvg)
	require.Len(t, out, 2)
	assert.Equal(t, "2023", out[0].Key)
	assert.Equal(t, "2023", out[0].DateShort)
	assert.Equal(t, "2024", out[1].Key)
}

func TestAggregatePreservesChronology(t *testing.T) {
	rows := materializeRice(t, "2023-11-01", "2024-02-29", map[string]float64{
		"2023-11-10": 60,
		"2024-02-10": 80,
	})

	out := Aggregate(rows, []string{"Rice"}, domain.ResolutionMonthly, domain.ReducerAvg)
	require.Len(t, out, 4)
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"},
		[]string{out[0].Key, out[1].Key, out[2].Key, out[3].Key})
}
