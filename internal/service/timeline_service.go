package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
)

// TimelineService merges plans and exams, and rolls logs up per year.
type TimelineService struct {
	plans  *repository.PlanRepository
	exams  *repository.ExamRepository
	logs   *repository.LogRepository
	logger *zap.Logger
}

func NewTimelineService(plans *repository.PlanRepository, exams *repository.ExamRepository, logs *repository.LogRepository, logger *zap.Logger) *TimelineService {
	return &TimelineService{plans: plans, exams: exams, logs: logs, logger: logger}
}

// Timeline returns plans and exams within rng in chronological order.
func (s *TimelineService) Timeline(ctx context.Context, rng planner.Range) ([]planner.TimelineEvent, error) {
	if !rng.Start.IsZero() && !rng.End.IsZero() && rng.End.Before(rng.Start) {
		return nil, fmt.Errorf("%w: range ends before it starts", model.ErrInvalidInput)
	}
	from, to := "", ""
	if !rng.Start.IsZero() {
		from = calendar.Format(rng.Start)
	}
	if !rng.End.IsZero() {
		to = calendar.Format(rng.End)
	}

	plans, err := s.plans.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, err
	}
	exams, err := s.exams.List(ctx, from, to)
	if err != nil {
		return nil, err
	}

	events, skipped := planner.MergeTimeline(plans, exams, rng)
	if skipped > 0 {
		s.logger.Warn("Skipped malformed timeline records", zap.Int("skipped", skipped))
	}
	return events, nil
}

// Yearly sums logged work per day of year.
func (s *TimelineService) Yearly(ctx context.Context, year int) (planner.YearlySummary, error) {
	if year < 1 || year > 9999 {
		return planner.YearlySummary{}, fmt.Errorf("%w: year %d out of range", model.ErrInvalidInput, year)
	}
	first, last := calendar.YearBounds(year)
	logs, err := s.logs.ListBetween(ctx, calendar.Format(first), calendar.Format(last))
	if err != nil {
		return planner.YearlySummary{}, err
	}

	summary := planner.SummarizeYear(year, logs)
	if summary.Skipped > 0 {
		s.logger.Warn("Skipped logs with malformed dates", zap.Int("year", year), zap.Int("skipped", summary.Skipped))
	}
	return summary, nil
}
