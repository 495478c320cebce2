package planner

import (
	"fmt"
	"math"
	"time"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
)

// Status classifies how actual work compares to the ideal pace.
type Status string

const (
	StatusOnTrack        Status = "onTrack"
	StatusNearTarget     Status = "nearTarget"
	StatusSlightlyBehind Status = "slightlyBehind"
	StatusBehind         Status = "behind"
)

// statusMargin is the problem-count band around the ideal pace.
const statusMargin = 10

// Classify maps actual-minus-ideal to a status.
func Classify(difference int) Status {
	switch {
	case difference >= statusMargin:
		return StatusOnTrack
	case difference >= 0:
		return StatusNearTarget
	case difference >= -statusMargin:
		return StatusSlightlyBehind
	default:
		return StatusBehind
	}
}

// SeriesPoint is one day of the cumulative chart.
type SeriesPoint struct {
	Date   string `json:"date"`
	Actual int    `json:"actual"`
	Ideal  int    `json:"ideal"`
}

// ProgressSnapshot compares logged work to a linear pace through the plan.
type ProgressSnapshot struct {
	TextbookID    uint          `json:"textbookId"`
	StartDate     string        `json:"startDate"`
	EndDate       string        `json:"endDate"`
	TotalProblems int           `json:"totalProblems"`
	TotalDays     int           `json:"totalDays"`
	ElapsedDays   int           `json:"elapsedDays"`
	RemainingDays int           `json:"remainingDays"`
	IdealSolved   int           `json:"idealSolved"`
	ActualSolved  int           `json:"actualSolved"`
	Difference    int           `json:"difference"`
	Percent       int           `json:"percent"`
	Status        Status        `json:"status"`
	DailyTarget   int           `json:"dailyTarget"`
	Series        []SeriesPoint `json:"series"`
}

// Progress evaluates plan on today against logs.
//
// ActualSolved is the lifetime sum of the textbook's logs, including days
// outside the plan window, so progress survives plan edits. The chart series
// only accumulates logs inside the window.
func Progress(plan model.StudyPlan, totalProblems int, today time.Time, logs []model.StudyLog) (ProgressSnapshot, error) {
	start, err := calendar.Parse(plan.StartDate)
	if err != nil {
		return ProgressSnapshot{}, fmt.Errorf("%w: plan %d start: %v", model.ErrInvalidPlan, plan.ID, err)
	}
	end, err := calendar.Parse(plan.EndDate)
	if err != nil {
		return ProgressSnapshot{}, fmt.Errorf("%w: plan %d end: %v", model.ErrInvalidPlan, plan.ID, err)
	}
	if start.After(end) {
		return ProgressSnapshot{}, fmt.Errorf("%w: plan %d ends %s before it starts %s",
			model.ErrInvalidPlan, plan.ID, plan.EndDate, plan.StartDate)
	}
	if totalProblems <= 0 {
		return ProgressSnapshot{}, fmt.Errorf("%w: total problems must be positive, got %d", model.ErrInvalidInput, totalProblems)
	}
	today = calendar.Day(today)

	totalDays := max(1, calendar.DaysBetween(start, end)+1)
	elapsed := min(max(calendar.DaysBetween(start, today)+1, 0), totalDays)
	remaining := totalDays - elapsed
	rate := float64(totalProblems) / float64(totalDays)

	actual := 0
	perDay := make(map[string]int)
	for _, entry := range logs {
		if entry.TextbookID != plan.TextbookID {
			continue
		}
		actual += entry.ActualAmount
		if day, err := calendar.Parse(entry.Date); err == nil {
			perDay[calendar.Format(day)] += entry.ActualAmount
		}
	}

	ideal := idealAt(rate, elapsed, totalProblems)
	left := max(0, totalProblems-actual)
	dailyTarget := left
	if remaining > 0 {
		dailyTarget = (left + remaining - 1) / remaining
	}

	return ProgressSnapshot{
		TextbookID:    plan.TextbookID,
		StartDate:     calendar.Format(start),
		EndDate:       calendar.Format(end),
		TotalProblems: totalProblems,
		TotalDays:     totalDays,
		ElapsedDays:   elapsed,
		RemainingDays: remaining,
		IdealSolved:   ideal,
		ActualSolved:  actual,
		Difference:    actual - ideal,
		Percent:       min(100, int(math.Round(float64(actual)*100/float64(totalProblems)))),
		Status:        Classify(actual - ideal),
		DailyTarget:   dailyTarget,
		Series:        series(start, end, today, rate, totalProblems, perDay),
	}, nil
}

func idealAt(rate float64, dayIndex, totalProblems int) int {
	return min(int(math.Round(rate*float64(dayIndex))), totalProblems)
}

func series(start, end, today time.Time, rate float64, totalProblems int, perDay map[string]int) []SeriesPoint {
	last := end
	if today.Before(last) {
		last = today
	}
	points := make([]SeriesPoint, 0, max(0, calendar.DaysBetween(start, last)+1))
	cumulative := 0
	for d, i := start, 1; !d.After(last); d, i = calendar.AddDays(d, 1), i+1 {
		key := calendar.Format(d)
		cumulative += perDay[key]
		points = append(points, SeriesPoint{Date: key, Actual: cumulative, Ideal: idealAt(rate, i, totalProblems)})
	}
	return points
}
