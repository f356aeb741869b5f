package domain

import "fmt"

// Resolution selects the time-bucket granularity of the chart dataset.
type Resolution string

const (
	ResolutionAuto    Resolution = "auto"
	ResolutionDaily   Resolution = "daily"
	ResolutionWeekly  Resolution = "weekly"
	ResolutionMonthly Resolution = "monthly"
	ResolutionYearly  Resolution = "yearly"
)

// ParseResolution validates a resolution string. Empty means auto.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case "":
		return ResolutionAuto, nil
	case ResolutionAuto, ResolutionDaily, ResolutionWeekly, ResolutionMonthly, ResolutionYearly:
		return Resolution(s), nil
	default:
		return "", fmt.Errorf("unknown resolution %q", s)
	}
}

// Reducer selects the statistic used to collapse a bucket's daily values.
// Meaningful only when the effective resolution is coarser than daily.
type Reducer string

const (
	ReducerAvg Reducer = "avg"
	ReducerMin Reducer = "min"
	ReducerMax Reducer = "max"
)

// ParseReducer validates a reducer string. Empty means avg.
func ParseReducer(s string) (Reducer, error) {
	switch Reducer(s) {
	case "":
		return ReducerAvg, nil
	case ReducerAvg, ReducerMin, ReducerMax:
		return Reducer(s), nil
	default:
		return "", fmt.Errorf("unknown aggregation %q", s)
	}
}
