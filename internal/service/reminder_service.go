package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
)

// digestExamHorizon is how far ahead the digest lists exams.
const digestExamHorizon = 30

// ReminderService builds human-readable summaries for daily notifications.
type ReminderService struct {
	tasks    *TaskService
	progress *ProgressService
	exams    *repository.ExamRepository
}

func NewReminderService(tasks *TaskService, progress *ProgressService, exams *repository.ExamRepository) *ReminderService {
	return &ReminderService{tasks: tasks, progress: progress, exams: exams}
}

// DailySummary renders today's tasks with their progress and the upcoming exams as Telegram HTML.
func (s *ReminderService) DailySummary(ctx context.Context, today time.Time) (string, error) {
	today = calendar.Day(today)

	tasks, err := s.tasks.Today(ctx, today)
	if err != nil {
		return "", err
	}
	exams, err := s.exams.List(ctx, calendar.Format(today), calendar.Format(calendar.AddDays(today, digestExamHorizon)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.WriteString("📚 <b>Study digest</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s (%s)\n\n", calendar.Format(today), today.Weekday()))

	builder.WriteString("🎯 <b>Today</b>\n")
	if len(tasks) == 0 {
		builder.WriteString("— no active plans\n")
	}
	for _, task := range tasks {
		snap, err := s.progress.Progress(ctx, task.TextbookID, today)
		switch {
		case err == nil:
			builder.WriteString(formatTask(task, &snap))
		case errors.Is(err, model.ErrDependency):
			return "", err
		default:
			builder.WriteString(formatTask(task, nil))
		}
	}

	builder.WriteString("\n🏁 <b>Upcoming exams</b>\n")
	if len(exams) == 0 {
		builder.WriteString(fmt.Sprintf("— nothing in the next %d days\n", digestExamHorizon))
	}
	for _, exam := range exams {
		builder.WriteString(formatExam(exam, today))
	}

	return strings.TrimSpace(builder.String()), nil
}

func formatTask(task planner.TodayTask, snap *planner.ProgressSnapshot) string {
	var sb strings.Builder

	name := strings.TrimSpace(strings.TrimSpace(task.Subject) + " " + strings.TrimSpace(task.Title))
	if name == "" {
		name = fmt.Sprintf("Textbook #%d", task.TextbookID)
	}
	sb.WriteString(fmt.Sprintf("%s %s — <b>%d</b> problems", statusIcon(snap), html.EscapeString(name), task.Target))

	if snap != nil {
		sb.WriteString(fmt.Sprintf("\n   📈 %d/%d (%d%%), ideal %d, %s",
			snap.ActualSolved, snap.TotalProblems, snap.Percent, snap.IdealSolved, statusLabel(snap.Status)))
		if snap.DailyTarget != task.Target {
			sb.WriteString(fmt.Sprintf("\n   ⏱ catch-up pace: %d/day", snap.DailyTarget))
		}
	}
	if task.ReviewDeck != nil {
		sb.WriteString(fmt.Sprintf("\n   🗂 review deck: %s", html.EscapeString(*task.ReviewDeck)))
	}

	sb.WriteByte('\n')
	return sb.String()
}

func formatExam(exam model.Exam, today time.Time) string {
	title := planner.ExamTitle(exam)
	icon := "🏁"
	if exam.IsMock {
		icon = "📝"
	}

	day, err := calendar.Parse(exam.Date)
	if err != nil {
		return fmt.Sprintf("%s %s\n", icon, html.EscapeString(title))
	}
	left := calendar.DaysBetween(today, day)
	if left == 0 {
		return fmt.Sprintf("%s %s — <b>today</b>\n", icon, html.EscapeString(title))
	}
	return fmt.Sprintf("%s %s — %s (in %d days)\n", icon, html.EscapeString(title), exam.Date, left)
}

func statusIcon(snap *planner.ProgressSnapshot) string {
	if snap == nil {
		return "⚪"
	}
	switch snap.Status {
	case planner.StatusOnTrack:
		return "🟢"
	case planner.StatusNearTarget:
		return "🔵"
	case planner.StatusSlightlyBehind:
		return "🟡"
	default:
		return "🔴"
	}
}

func statusLabel(status planner.Status) string {
	switch status {
	case planner.StatusOnTrack:
		return "on track"
	case planner.StatusNearTarget:
		return "near target"
	case planner.StatusSlightlyBehind:
		return "slightly behind"
	default:
		return "behind"
	}
}
