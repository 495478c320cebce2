package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
)

// LogInput represents one day of work on a textbook. Without PlannedAmount
// the plan's target for that day is recorded.
type LogInput struct {
	Date          string `json:"date"`
	TextbookID    uint   `json:"textbookId"`
	PlannedAmount *int   `json:"plannedAmount"`
	ActualAmount  int    `json:"actualAmount"`
}

// TaskService resolves today's work and records what was done.
type TaskService struct {
	plans     *repository.PlanRepository
	textbooks *repository.TextbookRepository
	logs      *repository.LogRepository
}

func NewTaskService(plans *repository.PlanRepository, textbooks *repository.TextbookRepository, logs *repository.LogRepository) *TaskService {
	return &TaskService{plans: plans, textbooks: textbooks, logs: logs}
}

// Today lists one task per plan active on today.
func (s *TaskService) Today(ctx context.Context, today time.Time) ([]planner.TodayTask, error) {
	plans, err := s.plans.ListActiveOn(ctx, calendar.Format(today))
	if err != nil {
		return nil, err
	}
	return planner.TodaysTasks(today, plans), nil
}

// RecordLog upserts the log for (date, textbook).
func (s *TaskService) RecordLog(ctx context.Context, input LogInput) (*model.StudyLog, error) {
	day, err := calendar.Parse(input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	if input.ActualAmount < 0 {
		return nil, fmt.Errorf("%w: actual amount must not be negative", model.ErrInvalidInput)
	}
	if input.PlannedAmount != nil && *input.PlannedAmount < 0 {
		return nil, fmt.Errorf("%w: planned amount must not be negative", model.ErrInvalidInput)
	}
	if _, err := s.textbooks.FindByID(ctx, input.TextbookID); err != nil {
		return nil, err
	}

	planned := 0
	if input.PlannedAmount != nil {
		planned = *input.PlannedAmount
	} else {
		planned, err = s.plannedFor(ctx, input.TextbookID, day)
		if err != nil {
			return nil, err
		}
	}

	entry := model.StudyLog{
		Date:          calendar.Format(day),
		TextbookID:    input.TextbookID,
		PlannedAmount: planned,
		ActualAmount:  input.ActualAmount,
	}
	if err := s.logs.Upsert(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *TaskService) Logs(ctx context.Context, textbookID uint) ([]model.StudyLog, error) {
	return s.logs.ListByTextbook(ctx, textbookID)
}

func (s *TaskService) plannedFor(ctx context.Context, textbookID uint, day time.Time) (int, error) {
	plan, err := s.plans.FindByTextbook(ctx, textbookID)
	if errors.Is(err, model.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	start, errStart := calendar.Parse(plan.StartDate)
	end, errEnd := calendar.Parse(plan.EndDate)
	if errStart != nil || errEnd != nil || !calendar.Within(day, start, end) {
		return 0, nil
	}
	target, _ := planner.ResolveTarget(plan.WeekdayGoals, plan.DailyGoal, day)
	return target, nil
}
