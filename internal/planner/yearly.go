package planner

import (
	"study-planner/internal/calendar"
	"study-planner/internal/model"
)

// YearlySummary is the sparse per-day total of logged work in one year.
type YearlySummary struct {
	Year    int            `json:"year"`
	Days    map[string]int `json:"days"`
	Total   int            `json:"total"`
	Skipped int            `json:"-"`
}

// SummarizeYear sums ActualAmount across all textbooks per calendar day of
// year. Days without entries are left out; entries with unparsable dates are
// skipped and counted.
func SummarizeYear(year int, logs []model.StudyLog) YearlySummary {
	first, last := calendar.YearBounds(year)
	summary := YearlySummary{Year: year, Days: make(map[string]int)}

	for _, entry := range logs {
		day, err := calendar.Parse(entry.Date)
		if err != nil {
			summary.Skipped++
			continue
		}
		if !calendar.Within(day, first, last) {
			continue
		}
		summary.Days[calendar.Format(day)] += entry.ActualAmount
		summary.Total += entry.ActualAmount
	}
	return summary
}
