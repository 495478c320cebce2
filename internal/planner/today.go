package planner

import (
	"time"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
)

// TodayTask is the work a single active plan asks for today.
type TodayTask struct {
	PlanID      uint    `json:"planId"`
	TextbookID  uint    `json:"textbookId"`
	Title       string  `json:"title"`
	Subject     string  `json:"subject"`
	Target      int     `json:"target"`
	FromWeekday bool    `json:"fromWeekday"`
	ReviewDeck  *string `json:"reviewDeck,omitempty"`
}

// TodaysTasks emits one task per plan whose window contains today, in input
// order. Plans without a review deck are still emitted.
func TodaysTasks(today time.Time, plans []model.StudyPlan) []TodayTask {
	today = calendar.Day(today)
	tasks := make([]TodayTask, 0, len(plans))

	for _, plan := range plans {
		start, errStart := calendar.Parse(plan.StartDate)
		end, errEnd := calendar.Parse(plan.EndDate)
		if errStart != nil || errEnd != nil || !calendar.Within(today, start, end) {
			continue
		}

		target, fromWeekday := ResolveTarget(plan.WeekdayGoals, plan.DailyGoal, today)
		task := TodayTask{
			PlanID:      plan.ID,
			TextbookID:  plan.TextbookID,
			Target:      target,
			FromWeekday: fromWeekday,
		}
		if tb := plan.Textbook; tb != nil {
			task.Title = tb.Title
			task.Subject = tb.Subject
			if tb.ReviewDeck != "" {
				deck := tb.ReviewDeck
				task.ReviewDeck = &deck
			}
		}
		tasks = append(tasks, task)
	}
	return tasks
}
