package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
)

// EventKind discriminates timeline events.
type EventKind string

const (
	KindPlan     EventKind = "plan"
	KindExam     EventKind = "exam"
	KindMockExam EventKind = "mockExam"
)

// TimelineEvent is a plan window or an exam day on the merged timeline.
// Exactly one of Plan and Exam is set.
type TimelineEvent struct {
	Kind      EventKind        `json:"kind"`
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Plan      *model.StudyPlan `json:"plan,omitempty"`
	Exam      *model.Exam      `json:"exam,omitempty"`

	start time.Time
	end   time.Time
}

// Range bounds a timeline query; a zero Start or End leaves that side open.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) overlaps(start, end time.Time) bool {
	if !r.Start.IsZero() && end.Before(calendar.Day(r.Start)) {
		return false
	}
	if !r.End.IsZero() && start.After(calendar.Day(r.End)) {
		return false
	}
	return true
}

// MergeTimeline turns plans and exams into one list ordered by start date,
// then end date, keeping input order for equal keys. Records with unparsable
// dates, and plans ending before they start, are skipped and counted.
func MergeTimeline(plans []model.StudyPlan, exams []model.Exam, rng Range) (events []TimelineEvent, skipped int) {
	events = make([]TimelineEvent, 0, len(plans)+len(exams))

	for i := range plans {
		plan := &plans[i]
		start, errStart := calendar.Parse(plan.StartDate)
		end, errEnd := calendar.Parse(plan.EndDate)
		if errStart != nil || errEnd != nil || end.Before(start) {
			skipped++
			continue
		}
		if !rng.overlaps(start, end) {
			continue
		}
		events = append(events, TimelineEvent{
			Kind:      KindPlan,
			ID:        fmt.Sprintf("%s-%d", KindPlan, plan.ID),
			Title:     PlanTitle(*plan),
			StartDate: calendar.Format(start),
			EndDate:   calendar.Format(end),
			Plan:      plan,
			start:     start,
			end:       end,
		})
	}

	for i := range exams {
		exam := &exams[i]
		day, err := calendar.Parse(exam.Date)
		if err != nil {
			skipped++
			continue
		}
		if !rng.overlaps(day, day) {
			continue
		}
		kind := KindExam
		if exam.IsMock {
			kind = KindMockExam
		}
		events = append(events, TimelineEvent{
			Kind:      kind,
			ID:        fmt.Sprintf("%s-%d", kind, exam.ID),
			Title:     ExamTitle(*exam),
			StartDate: calendar.Format(day),
			EndDate:   calendar.Format(day),
			Exam:      exam,
			start:     day,
			end:       day,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].start.Equal(events[j].start) {
			return events[i].start.Before(events[j].start)
		}
		return events[i].end.Before(events[j].end)
	})
	return events, skipped
}

// PlanTitle names a plan by its textbook, or by textbook id when the
// textbook is not loaded.
func PlanTitle(plan model.StudyPlan) string {
	if plan.Textbook != nil {
		if name := strings.TrimSpace(plan.Textbook.DisplayName()); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Textbook #%d", plan.TextbookID)
}

// ExamTitle prefixes a real exam with its university name. Mock exams keep
// their bare name.
func ExamTitle(exam model.Exam) string {
	if exam.IsMock || exam.University == nil || strings.TrimSpace(exam.University.Name) == "" {
		return exam.Name
	}
	return strings.TrimSpace(exam.University.Name) + " " + exam.Name
}
