package bot

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"time"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/service"
)

const (
	cbDonePrefix = "done:"

	menuLabelToday    = "🎯 Today"
	menuLabelProgress = "📈 Progress"
	menuLabelTimeline = "🗓 Timeline"
	menuLabelHelp     = "ℹ️ Help"

	timelineHorizonDays = 120
	progressBarWidth    = 10
)

// parseLogArgs reads "<textbookId> <amount> [YYYY-MM-DD]" as sent to /log.
func parseLogArgs(args string, today time.Time) (service.LogInput, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 || len(fields) > 3 {
		return service.LogInput{}, fmt.Errorf("usage: /log <textbookId> <amount> [YYYY-MM-DD]")
	}
	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil || id == 0 {
		return service.LogInput{}, fmt.Errorf("textbook id must be a positive number")
	}
	amount, err := strconv.Atoi(fields[1])
	if err != nil || amount < 0 {
		return service.LogInput{}, fmt.Errorf("amount must be a non-negative number")
	}
	date := calendar.Format(today)
	if len(fields) == 3 {
		day, err := calendar.Parse(fields[2])
		if err != nil {
			return service.LogInput{}, fmt.Errorf("date must look like 2024-04-15")
		}
		date = calendar.Format(day)
	}
	return service.LogInput{Date: date, TextbookID: uint(id), ActualAmount: amount}, nil
}

func parseYearArg(args string, today time.Time) (int, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return today.Year(), nil
	}
	year, err := strconv.Atoi(args)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("year must look like %d", today.Year())
	}
	return year, nil
}

func doneCallbackData(task planner.TodayTask, day time.Time) string {
	return fmt.Sprintf("%s%d:%s:%d", cbDonePrefix, task.TextbookID, calendar.Format(day), task.Target)
}

// parseDoneCallback is the inverse of doneCallbackData.
func parseDoneCallback(data string) (service.LogInput, error) {
	parts := strings.Split(strings.TrimPrefix(data, cbDonePrefix), ":")
	if !strings.HasPrefix(data, cbDonePrefix) || len(parts) != 3 {
		return service.LogInput{}, fmt.Errorf("malformed callback %q", data)
	}
	id, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return service.LogInput{}, fmt.Errorf("malformed textbook id: %w", err)
	}
	day, err := calendar.Parse(parts[1])
	if err != nil {
		return service.LogInput{}, err
	}
	amount, err := strconv.Atoi(parts[2])
	if err != nil || amount < 0 {
		return service.LogInput{}, fmt.Errorf("malformed amount %q", parts[2])
	}
	planned := amount
	return service.LogInput{
		Date:          calendar.Format(day),
		TextbookID:    uint(id),
		PlannedAmount: &planned,
		ActualAmount:  amount,
	}, nil
}

func formatToday(day time.Time, tasks []planner.TodayTask) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎯 <b>Today, %s (%s)</b>\n\n", calendar.Format(day), day.Weekday()))
	if len(tasks) == 0 {
		sb.WriteString("No plan is active today. Enjoy the rest 🌿")
		return sb.String()
	}
	total := 0
	for _, task := range tasks {
		total += task.Target
		sb.WriteString(fmt.Sprintf("• %s — <b>%d</b>", escape(taskName(task)), task.Target))
		if !task.FromWeekday {
			sb.WriteString(" <i>(daily goal)</i>")
		}
		if task.ReviewDeck != nil {
			sb.WriteString(fmt.Sprintf("\n   🗂 %s", escape(*task.ReviewDeck)))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(fmt.Sprintf("\nTotal: <b>%d</b> problems. Tap a button once a textbook is done.", total))
	return sb.String()
}

func formatOverview(items []service.TextbookProgress) string {
	if len(items) == 0 {
		return "No textbooks yet."
	}
	var sb strings.Builder
	sb.WriteString("📈 <b>Progress</b>\n\n")
	for _, item := range items {
		name := item.Textbook.DisplayName()
		if item.Progress == nil {
			sb.WriteString(fmt.Sprintf("⚪ #%d %s — no plan\n", item.Textbook.ID, escape(name)))
			continue
		}
		snap := item.Progress
		sb.WriteString(fmt.Sprintf("%s #%d %s\n   %s %d%% (%d/%d)\n",
			statusIcon(snap.Status), item.Textbook.ID, escape(name),
			progressBar(snap.Percent), snap.Percent, snap.ActualSolved, snap.TotalProblems))
	}
	return strings.TrimSpace(sb.String())
}

func formatSnapshot(tb *model.Textbook, snap planner.ProgressSnapshot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📈 <b>%s</b>\n", escape(tb.DisplayName())))
	sb.WriteString(fmt.Sprintf("🗓 %s → %s (day %d of %d)\n", snap.StartDate, snap.EndDate, snap.ElapsedDays, snap.TotalDays))
	sb.WriteString(fmt.Sprintf("%s %d%%\n\n", progressBar(snap.Percent), snap.Percent))
	sb.WriteString(fmt.Sprintf("Solved: <b>%d</b> / %d\n", snap.ActualSolved, snap.TotalProblems))
	sb.WriteString(fmt.Sprintf("Ideal by now: %d\n", snap.IdealSolved))
	sb.WriteString(fmt.Sprintf("Difference: %+d\n", snap.Difference))
	sb.WriteString(fmt.Sprintf("Status: %s %s\n", statusIcon(snap.Status), statusText(snap.Status)))
	if snap.RemainingDays > 0 {
		sb.WriteString(fmt.Sprintf("Needed pace: <b>%d</b>/day for %d days", snap.DailyTarget, snap.RemainingDays))
	} else {
		sb.WriteString("The plan window has ended.")
	}
	return sb.String()
}

func formatTimeline(events []planner.TimelineEvent, today time.Time) string {
	if len(events) == 0 {
		return fmt.Sprintf("Nothing planned in the next %d days.", timelineHorizonDays)
	}
	var sb strings.Builder
	sb.WriteString("🗓 <b>Timeline</b>\n\n")
	for _, ev := range events {
		switch ev.Kind {
		case planner.KindPlan:
			sb.WriteString(fmt.Sprintf("📘 %s → %s  %s\n", ev.StartDate, ev.EndDate, escape(ev.Title)))
		default:
			icon := "🏁"
			if ev.Kind == planner.KindMockExam {
				icon = "📝"
			}
			line := fmt.Sprintf("%s %s  %s", icon, ev.StartDate, escape(ev.Title))
			if day, err := calendar.Parse(ev.StartDate); err == nil {
				if left := calendar.DaysBetween(today, day); left >= 0 {
					line += fmt.Sprintf(" <i>(in %d days)</i>", left)
				}
			}
			sb.WriteString(line + "\n")
		}
	}
	return strings.TrimSpace(sb.String())
}

func formatYear(summary planner.YearlySummary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 <b>%d</b>\n\n", summary.Year))
	if len(summary.Days) == 0 {
		sb.WriteString("No work logged this year.")
		return sb.String()
	}

	var months [12]int
	dates := make([]string, 0, len(summary.Days))
	for date, amount := range summary.Days {
		dates = append(dates, date)
		if day, err := calendar.Parse(date); err == nil {
			months[day.Month()-1] += amount
		}
	}
	sort.Strings(dates)
	best := dates[0]
	for _, date := range dates {
		if summary.Days[date] > summary.Days[best] {
			best = date
		}
	}

	sb.WriteString(fmt.Sprintf("Total: <b>%d</b> problems on %d days\n", summary.Total, len(summary.Days)))
	sb.WriteString(fmt.Sprintf("Best day: %s (%d)\n\n", best, summary.Days[best]))
	for i, amount := range months {
		if amount == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %d\n", time.Month(i+1).String()[:3], amount))
	}
	return strings.TrimSpace(sb.String())
}

func formatTextbooks(textbooks []model.Textbook) string {
	if len(textbooks) == 0 {
		return "No textbooks yet."
	}
	var sb strings.Builder
	sb.WriteString("📚 <b>Textbooks</b>\n\n")
	for _, tb := range textbooks {
		sb.WriteString(fmt.Sprintf("#%d %s (%d problems)\n", tb.ID, escape(tb.DisplayName()), tb.TotalProblems))
	}
	return strings.TrimSpace(sb.String())
}

func progressBar(percent int) string {
	filled := percent * progressBarWidth / 100
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", progressBarWidth-filled)
}

func statusIcon(status planner.Status) string {
	switch status {
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

func statusText(status planner.Status) string {
	switch status {
	case planner.StatusOnTrack:
		return "ahead of pace"
	case planner.StatusNearTarget:
		return "on pace"
	case planner.StatusSlightlyBehind:
		return "slightly behind"
	default:
		return "behind"
	}
}

func taskName(task planner.TodayTask) string {
	name := strings.TrimSpace(strings.TrimSpace(task.Subject) + " " + strings.TrimSpace(task.Title))
	if name == "" {
		return fmt.Sprintf("Textbook #%d", task.TextbookID)
	}
	return name
}

func shortTitle(title string, maxLen int) string {
	clean := strings.Join(strings.Fields(title), " ")
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func escape(s string) string {
	return html.EscapeString(s)
}
