package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
)

// PlanInput represents data required to create or fully replace a plan.
// Without WeekdayGoals every weekday uses DailyGoal; without TotalProblems
// the textbook's total applies.
type PlanInput struct {
	TextbookID    uint               `json:"textbookId"`
	StartDate     string             `json:"startDate"`
	DailyGoal     int                `json:"dailyGoal"`
	BufferDays    int                `json:"bufferDays"`
	WeekdayGoals  model.WeekdayGoals `json:"weekdayGoals"`
	TotalProblems *int               `json:"totalProblems"`
}

// PlanService compiles and stores study plans.
type PlanService struct {
	plans     *repository.PlanRepository
	textbooks *repository.TextbookRepository
	logger    *zap.Logger
}

func NewPlanService(plans *repository.PlanRepository, textbooks *repository.TextbookRepository, logger *zap.Logger) *PlanService {
	return &PlanService{plans: plans, textbooks: textbooks, logger: logger}
}

// Preview compiles input without storing anything.
func (s *PlanService) Preview(ctx context.Context, input PlanInput) (planner.CompiledPlan, error) {
	total := 0
	if input.TotalProblems != nil {
		total = *input.TotalProblems
	} else {
		tb, err := s.textbooks.FindByID(ctx, input.TextbookID)
		if err != nil {
			return planner.CompiledPlan{}, err
		}
		total = tb.TotalProblems
	}
	return compile(input, total)
}

// Create compiles and stores a plan. A textbook holds at most one plan.
func (s *PlanService) Create(ctx context.Context, input PlanInput) (*model.StudyPlan, error) {
	tb, err := s.textbooks.FindByID(ctx, input.TextbookID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNoOtherPlan(ctx, input.TextbookID, 0); err != nil {
		return nil, err
	}

	plan := model.StudyPlan{}
	if err := apply(&plan, input, tb); err != nil {
		return nil, err
	}
	if err := s.plans.Create(ctx, &plan); err != nil {
		return nil, err
	}
	plan.Textbook = tb

	s.logger.Info("Plan created",
		zap.Uint("plan_id", plan.ID),
		zap.Uint("textbook_id", plan.TextbookID),
		zap.String("start", plan.StartDate),
		zap.String("end", plan.EndDate))
	return &plan, nil
}

// Replace recompiles and overwrites every field of plan id.
func (s *PlanService) Replace(ctx context.Context, id uint, input PlanInput) (*model.StudyPlan, error) {
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tb, err := s.textbooks.FindByID(ctx, input.TextbookID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNoOtherPlan(ctx, input.TextbookID, id); err != nil {
		return nil, err
	}

	if err := apply(plan, input, tb); err != nil {
		return nil, err
	}
	if err := s.plans.Replace(ctx, plan); err != nil {
		return nil, err
	}
	plan.Textbook = tb

	s.logger.Info("Plan replaced", zap.Uint("plan_id", plan.ID), zap.String("end", plan.EndDate))
	return plan, nil
}

func (s *PlanService) Delete(ctx context.Context, id uint) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Plan deleted", zap.Uint("plan_id", id))
	return nil
}

func (s *PlanService) List(ctx context.Context) ([]model.StudyPlan, error) {
	return s.plans.List(ctx)
}

func (s *PlanService) ensureNoOtherPlan(ctx context.Context, textbookID, selfID uint) error {
	existing, err := s.plans.FindByTextbook(ctx, textbookID)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return fmt.Errorf("%w: textbook %d already has plan %d", model.ErrInvalidInput, textbookID, existing.ID)
	default:
		return nil
	}
}

func apply(plan *model.StudyPlan, input PlanInput, tb *model.Textbook) error {
	total := tb.TotalProblems
	if input.TotalProblems != nil {
		total = *input.TotalProblems
	}
	compiled, err := compile(input, total)
	if err != nil {
		return err
	}

	plan.TextbookID = tb.ID
	plan.StartDate = calendar.Format(compiled.Start)
	plan.EndDate = calendar.Format(compiled.End)
	plan.DailyGoal = input.DailyGoal
	plan.BufferDays = input.BufferDays
	plan.WeekdayGoals = input.WeekdayGoals
	plan.TotalProblems = input.TotalProblems
	return nil
}

func compile(input PlanInput, total int) (planner.CompiledPlan, error) {
	start, err := calendar.Parse(input.StartDate)
	if err != nil {
		return planner.CompiledPlan{}, fmt.Errorf("%w: start date: %v", model.ErrInvalidInput, err)
	}
	if input.DailyGoal < 0 {
		return planner.CompiledPlan{}, fmt.Errorf("%w: daily goal must not be negative", model.ErrInvalidInput)
	}
	// Weekdays without an override plan dailyGoal, as TaskService does.
	goals := planner.FillGoals(input.WeekdayGoals, input.DailyGoal)
	return planner.CompilePlan(start, goals, input.BufferDays, total)
}
