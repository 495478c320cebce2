// Package planner holds the pure study-plan computations: compiling a plan,
// tracking progress against it, merging plans with exams into a timeline,
// rolling logs up per year and resolving today's tasks.
//
// Every function here works on already-fetched records and calendar days
// produced by the calendar package. Nothing blocks or touches storage.
package planner

import (
	"fmt"
	"time"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
)

// CompiledPlan is the outcome of CompilePlan.
type CompiledPlan struct {
	Start         time.Time
	End           time.Time
	Goals         model.WeekdayGoals
	BufferDays    int
	TotalProblems int
	WeeklyTotal   int
	WeeksNeeded   int
}

// DayTarget is the planned amount for one day of a compiled plan.
type DayTarget struct {
	Date    string       `json:"date"`
	Weekday time.Weekday `json:"weekday"`
	Target  int          `json:"target"`
}

// CompilePlan sizes a plan: enough whole weeks of the weekday distribution to
// cover totalProblems, plus bufferDays of slack. A weekday missing from goals
// plans nothing; use FillGoals to default it first. The window must end by
// calendar.Last.
func CompilePlan(start time.Time, goals model.WeekdayGoals, bufferDays, totalProblems int) (CompiledPlan, error) {
	if totalProblems <= 0 {
		return CompiledPlan{}, fmt.Errorf("%w: total problems must be positive, got %d", model.ErrInvalidInput, totalProblems)
	}
	if bufferDays < 0 {
		return CompiledPlan{}, fmt.Errorf("%w: buffer days must not be negative, got %d", model.ErrInvalidInput, bufferDays)
	}
	if err := goals.Validate(); err != nil {
		return CompiledPlan{}, err
	}

	weekly := goals.Sum()
	if weekly == 0 {
		return CompiledPlan{}, fmt.Errorf("%w: weekly goal total is zero, the plan would never finish", model.ErrInvalidPlan)
	}

	weeks := totalProblems / weekly
	if totalProblems%weekly != 0 {
		weeks++
	}

	start = calendar.Day(start)
	if start.Before(calendar.First) || start.After(calendar.Last) {
		return CompiledPlan{}, fmt.Errorf("%w: start %s is outside years 1 to 9999", model.ErrInvalidInput, calendar.Format(start))
	}
	// Days available up to and including calendar.Last.
	room := calendar.DaysBetween(start, calendar.Last) + 1
	if weeks > room/7 || bufferDays > room-weeks*7 {
		return CompiledPlan{}, fmt.Errorf("%w: %d weeks plus %d buffer days from %s runs past %s",
			model.ErrInvalidInput, weeks, bufferDays, calendar.Format(start), calendar.Format(calendar.Last))
	}

	return CompiledPlan{
		Start:         start,
		End:           calendar.AddDays(start, weeks*7-1+bufferDays),
		Goals:         goals,
		BufferDays:    bufferDays,
		TotalProblems: totalProblems,
		WeeklyTotal:   weekly,
		WeeksNeeded:   weeks,
	}, nil
}

// TotalDays is the length of the plan window.
func (p CompiledPlan) TotalDays() int {
	return calendar.DaysBetween(p.Start, p.End) + 1
}

// TargetOn returns the planned amount for day; false outside the plan window.
func (p CompiledPlan) TargetOn(day time.Time) (int, bool) {
	if !calendar.Within(day, p.Start, p.End) {
		return 0, false
	}
	target, _ := p.Goals.Get(calendar.Day(day).Weekday())
	return target, true
}

// Days lists the target for every day of the window.
func (p CompiledPlan) Days() []DayTarget {
	days := make([]DayTarget, 0, p.TotalDays())
	for d := p.Start; !d.After(p.End); d = calendar.AddDays(d, 1) {
		target, _ := p.Goals.Get(d.Weekday())
		days = append(days, DayTarget{Date: calendar.Format(d), Weekday: d.Weekday(), Target: target})
	}
	return days
}

// FillGoals returns a copy of goals with every missing weekday set to
// dailyGoal, so the compiled window agrees with ResolveTarget.
func FillGoals(goals model.WeekdayGoals, dailyGoal int) model.WeekdayGoals {
	filled := make(model.WeekdayGoals, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		filled[wd] = dailyGoal
	}
	for wd, v := range goals {
		filled[wd] = v
	}
	return filled
}

// ResolveTarget picks the weekday override for day when the map has one,
// otherwise the flat daily goal.
func ResolveTarget(goals model.WeekdayGoals, dailyGoal int, day time.Time) (target int, fromWeekday bool) {
	if v, ok := goals.Get(calendar.Day(day).Weekday()); ok {
		return v, true
	}
	return dailyGoal, false
}
