package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
)

// TextbookProgress pairs a textbook with its progress. Progress is nil when
// the textbook has no usable plan, which is distinct from zero progress.
type TextbookProgress struct {
	Textbook model.Textbook            `json:"textbook"`
	Progress *planner.ProgressSnapshot `json:"progress"`
}

// ProgressService evaluates plans against logged work.
type ProgressService struct {
	plans     *repository.PlanRepository
	textbooks *repository.TextbookRepository
	logs      *repository.LogRepository
	logger    *zap.Logger
}

func NewProgressService(plans *repository.PlanRepository, textbooks *repository.TextbookRepository, logs *repository.LogRepository, logger *zap.Logger) *ProgressService {
	return &ProgressService{plans: plans, textbooks: textbooks, logs: logs, logger: logger}
}

// Progress evaluates the textbook's plan on today.
func (s *ProgressService) Progress(ctx context.Context, textbookID uint, today time.Time) (planner.ProgressSnapshot, error) {
	plan, err := s.plans.FindByTextbook(ctx, textbookID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return planner.ProgressSnapshot{}, fmt.Errorf("%w: no plan for textbook %d", model.ErrNotFound, textbookID)
		}
		return planner.ProgressSnapshot{}, err
	}
	return s.evaluate(ctx, *plan, today)
}

// Overview evaluates every textbook; the reads are not one snapshot.
func (s *ProgressService) Overview(ctx context.Context, today time.Time) ([]TextbookProgress, error) {
	textbooks, err := s.textbooks.List(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.List(ctx)
	if err != nil {
		return nil, err
	}
	byTextbook := make(map[uint]model.StudyPlan, len(plans))
	for _, p := range plans {
		byTextbook[p.TextbookID] = p
	}

	out := make([]TextbookProgress, 0, len(textbooks))
	for _, tb := range textbooks {
		item := TextbookProgress{Textbook: tb}
		if plan, ok := byTextbook[tb.ID]; ok {
			snap, err := s.evaluate(ctx, plan, today)
			switch {
			case err == nil:
				item.Progress = &snap
			case errors.Is(err, model.ErrDependency):
				return nil, err
			default:
				s.logger.Warn("Skipping progress for malformed plan",
					zap.Uint("plan_id", plan.ID),
					zap.Uint("textbook_id", tb.ID),
					zap.Error(err))
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *ProgressService) evaluate(ctx context.Context, plan model.StudyPlan, today time.Time) (planner.ProgressSnapshot, error) {
	logs, err := s.logs.ListByTextbook(ctx, plan.TextbookID)
	if err != nil {
		return planner.ProgressSnapshot{}, err
	}
	return planner.Progress(plan, plan.EffectiveTotal(), today, logs)
}
