package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
)

type services struct {
	db       *gorm.DB
	catalog  *CatalogService
	plans    *PlanService
	progress *ProgressService
	timeline *TimelineService
	tasks    *TaskService
	exams    *ExamService
	reminder *ReminderService
}

func newServices(t *testing.T) services {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name), zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := zap.NewNop()
	textbookRepo := repository.NewTextbookRepository(db)
	universityRepo := repository.NewUniversityRepository(db)
	planRepo := repository.NewPlanRepository(db)
	logRepo := repository.NewLogRepository(db)
	examRepo := repository.NewExamRepository(db)

	s := services{
		db:       db,
		catalog:  NewCatalogService(textbookRepo, universityRepo),
		plans:    NewPlanService(planRepo, textbookRepo, log),
		progress: NewProgressService(planRepo, textbookRepo, logRepo, log),
		timeline: NewTimelineService(planRepo, examRepo, logRepo, log),
		tasks:    NewTaskService(planRepo, textbookRepo, logRepo),
		exams:    NewExamService(examRepo),
	}
	s.reminder = NewReminderService(s.tasks, s.progress, examRepo)
	return s
}

func mustDay(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := calendar.Parse(raw)
	require.NoError(t, err)
	return d
}

func weekdayGoals() model.WeekdayGoals {
	return model.WeekdayGoals{
		time.Sunday: 5, time.Monday: 10, time.Tuesday: 10, time.Wednesday: 10,
		time.Thursday: 10, time.Friday: 10, time.Saturday: 5,
	}
}

func (s services) textbook(t *testing.T, subject, title string, total int) *model.Textbook {
	t.Helper()
	tb, err := s.catalog.CreateTextbook(context.Background(), TextbookInput{Subject: subject, Title: title, TotalProblems: total})
	require.NoError(t, err)
	return tb
}

func (s services) aprilPlan(t *testing.T, tb *model.Textbook) *model.StudyPlan {
	t.Helper()
	plan, err := s.plans.Create(context.Background(), PlanInput{
		TextbookID: tb.ID, StartDate: "2024-04-01", DailyGoal: 8, WeekdayGoals: weekdayGoals(),
	})
	require.NoError(t, err)
	return plan
}

func TestPlanService_CreateCompilesEndDate(t *testing.T) {
	s := newServices(t)
	tb := s.textbook(t, "Math", "Blue Chart", 300)

	plan := s.aprilPlan(t, tb)
	assert.Equal(t, "2024-04-01", plan.StartDate)
	assert.Equal(t, "2024-05-05", plan.EndDate)
	assert.Nil(t, plan.TotalProblems)

	_, err := s.plans.Create(context.Background(), PlanInput{TextbookID: tb.ID, StartDate: "2024-06-01", DailyGoal: 5})
	assert.True(t, errors.Is(err, model.ErrInvalidInput), "one plan per textbook, got %v", err)
}

func TestPlanService_CreateErrors(t *testing.T) {
	s := newServices(t)
	tb := s.textbook(t, "Math", "Blue Chart", 300)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   PlanInput
		wantErr error
	}{
		{name: "all zero goals", input: PlanInput{TextbookID: tb.ID, StartDate: "2024-04-01", WeekdayGoals: model.UniformGoals(0)}, wantErr: model.ErrInvalidPlan},
		{name: "zero daily goal and no weekday map", input: PlanInput{TextbookID: tb.ID, StartDate: "2024-04-01"}, wantErr: model.ErrInvalidPlan},
		{name: "bad start date", input: PlanInput{TextbookID: tb.ID, StartDate: "04/01/2024", DailyGoal: 5}, wantErr: model.ErrInvalidInput},
		{name: "negative daily goal", input: PlanInput{TextbookID: tb.ID, StartDate: "2024-04-01", DailyGoal: -1}, wantErr: model.ErrInvalidInput},
		{name: "unknown textbook", input: PlanInput{TextbookID: 999, StartDate: "2024-04-01", DailyGoal: 5}, wantErr: model.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.plans.Create(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestPlanService_PreviewReplaceDelete(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	tb := s.textbook(t, "English", "Reading", 100)

	total := 70
	compiled, err := s.plans.Preview(ctx, PlanInput{StartDate: "2024-04-01", DailyGoal: 10, TotalProblems: &total})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-07", calendar.Format(compiled.End))

	plan, err := s.plans.Create(ctx, PlanInput{TextbookID: tb.ID, StartDate: "2024-04-01", DailyGoal: 10})
	require.NoError(t, err)
	assert.Equal(t, "2024-04-14", plan.EndDate)

	replaced, err := s.plans.Replace(ctx, plan.ID, PlanInput{
		TextbookID: tb.ID, StartDate: "2024-05-01", DailyGoal: 10, BufferDays: 3, TotalProblems: &total,
	})
	require.NoError(t, err)
	assert.Equal(t, plan.ID, replaced.ID)
	assert.Equal(t, "2024-05-10", replaced.EndDate)

	plans, err := s.plans.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, 3, plans[0].BufferDays)
	require.NotNil(t, plans[0].TotalProblems)
	assert.Equal(t, 70, *plans[0].TotalProblems)

	require.NoError(t, s.plans.Delete(ctx, plan.ID))
	assert.True(t, errors.Is(s.plans.Delete(ctx, plan.ID), model.ErrNotFound))
}

func TestProgressService_Progress(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	tb := s.textbook(t, "Math", "Blue Chart", 300)
	s.aprilPlan(t, tb)

	for _, entry := range []LogInput{
		{Date: "2024-04-01", TextbookID: tb.ID, ActualAmount: 60},
		{Date: "2024-04-08", TextbookID: tb.ID, ActualAmount: 70},
	} {
		_, err := s.tasks.RecordLog(ctx, entry)
		require.NoError(t, err)
	}

	snap, err := s.progress.Progress(ctx, tb.ID, mustDay(t, "2024-04-15"))
	require.NoError(t, err)
	assert.Equal(t, 129, snap.IdealSolved)
	assert.Equal(t, 130, snap.ActualSolved)
	assert.Equal(t, 1, snap.Difference)
	assert.Equal(t, planner.StatusNearTarget, snap.Status)

	other := s.textbook(t, "Physics", "Essentials", 50)
	_, err = s.progress.Progress(ctx, other.ID, mustDay(t, "2024-04-15"))
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestPlanService_PartialWeekdayMapUsesDailyGoal(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	tb := s.textbook(t, "Physics", "Mechanics", 100)

	// Monday 20, every other day the daily goal of 5: 50 a week.
	input := PlanInput{
		TextbookID: tb.ID, StartDate: "2024-04-01", DailyGoal: 5,
		WeekdayGoals: model.WeekdayGoals{time.Monday: 20},
	}
	compiled, err := s.plans.Preview(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 50, compiled.WeeklyTotal)
	assert.Equal(t, "2024-04-14", calendar.Format(compiled.End))

	target, ok := compiled.TargetOn(mustDay(t, "2024-04-02"))
	require.True(t, ok)
	assert.Equal(t, 5, target)

	sum := 0
	for _, d := range compiled.Days() {
		sum += d.Target
	}
	assert.Equal(t, 100, sum)

	plan, err := s.plans.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, model.WeekdayGoals{time.Monday: 20}, plan.WeekdayGoals)

	tasks, err := s.tasks.Today(ctx, mustDay(t, "2024-04-02"))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, target, tasks[0].Target)
}

func TestProgressService_OverviewDistinguishesNoPlan(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	withPlan := s.textbook(t, "Math", "Blue Chart", 300)
	s.textbook(t, "Physics", "Essentials", 50)
	s.aprilPlan(t, withPlan)

	overview, err := s.progress.Overview(ctx, mustDay(t, "2024-04-15"))
	require.NoError(t, err)
	require.Len(t, overview, 2)

	assert.Equal(t, "Math", overview[0].Textbook.Subject)
	require.NotNil(t, overview[0].Progress)
	assert.Equal(t, 0, overview[0].Progress.ActualSolved)
	assert.Equal(t, planner.StatusBehind, overview[0].Progress.Status)

	assert.Equal(t, "Physics", overview[1].Textbook.Subject)
	assert.Nil(t, overview[1].Progress)
}

func TestTimelineService_PlanThenExam(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	tb := s.textbook(t, "Math", "Blue Chart", 300)
	s.aprilPlan(t, tb)

	uni, err := s.catalog.CreateUniversity(ctx, "Todai")
	require.NoError(t, err)
	_, err = s.exams.Create(ctx, ExamInput{Name: "Second Stage", Date: "2024-06-01", UniversityID: &uni.ID})
	require.NoError(t, err)
	_, err = s.exams.Create(ctx, ExamInput{Name: "Next Year", Date: "2025-02-01"})
	require.NoError(t, err)

	events, err := s.timeline.Timeline(ctx, planner.Range{Start: mustDay(t, "2024-01-01"), End: mustDay(t, "2024-12-31")})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "plan-1", events[0].ID)
	assert.Equal(t, "Math Blue Chart", events[0].Title)
	assert.Equal(t, planner.KindExam, events[1].Kind)
	assert.Equal(t, "Todai Second Stage", events[1].Title)

	all, err := s.timeline.Timeline(ctx, planner.Range{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = s.timeline.Timeline(ctx, planner.Range{Start: mustDay(t, "2024-12-31"), End: mustDay(t, "2024-01-01")})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestTimelineService_Yearly(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := s.textbook(t, "Math", "A", 100)
	b := s.textbook(t, "English", "B", 100)

	for _, entry := range []LogInput{
		{Date: "2023-12-31", TextbookID: a.ID, ActualAmount: 9},
		{Date: "2024-01-01", TextbookID: a.ID, ActualAmount: 4},
		{Date: "2024-01-01", TextbookID: b.ID, ActualAmount: 6},
		{Date: "2024-12-31", TextbookID: b.ID, ActualAmount: 2},
	} {
		_, err := s.tasks.RecordLog(ctx, entry)
		require.NoError(t, err)
	}

	summary, err := s.timeline.Yearly(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2024-01-01": 10, "2024-12-31": 2}, summary.Days)
	assert.Equal(t, 12, summary.Total)

	_, err = s.timeline.Yearly(ctx, 0)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestTaskService_TodayAndRecordLog(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	tb := s.textbook(t, "Math", "Blue Chart", 300)
	plan, err := s.plans.Create(ctx, PlanInput{
		TextbookID: tb.ID, StartDate: "2024-04-01", DailyGoal: 7,
		WeekdayGoals: model.WeekdayGoals{time.Monday: 12, time.Tuesday: 12, time.Wednesday: 12, time.Thursday: 12, time.Friday: 12},
	})
	require.NoError(t, err)

	tasks, err := s.tasks.Today(ctx, mustDay(t, "2024-04-13")) // a Saturday, no weekday entry
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, plan.ID, tasks[0].PlanID)
	assert.Equal(t, 7, tasks[0].Target)
	assert.False(t, tasks[0].FromWeekday)

	tasks, err = s.tasks.Today(ctx, mustDay(t, "2030-01-01"))
	require.NoError(t, err)
	assert.Empty(t, tasks)

	entry, err := s.tasks.RecordLog(ctx, LogInput{Date: "2024-04-15", TextbookID: tb.ID, ActualAmount: 11})
	require.NoError(t, err)
	assert.Equal(t, 12, entry.PlannedAmount)

	planned := 3
	entry, err = s.tasks.RecordLog(ctx, LogInput{Date: "2024-04-15", TextbookID: tb.ID, PlannedAmount: &planned, ActualAmount: 13})
	require.NoError(t, err)
	assert.Equal(t, 3, entry.PlannedAmount)
	assert.Equal(t, 13, entry.ActualAmount)

	logs, err := s.tasks.Logs(ctx, tb.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	_, err = s.tasks.RecordLog(ctx, LogInput{Date: "yesterday", TextbookID: tb.ID})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	_, err = s.tasks.RecordLog(ctx, LogInput{Date: "2024-04-15", TextbookID: tb.ID, ActualAmount: -1})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
	_, err = s.tasks.RecordLog(ctx, LogInput{Date: "2024-04-15", TextbookID: 999})
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestExamService_SaveScores(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	exam, err := s.exams.Create(ctx, ExamInput{Name: "Mock", Date: "2024-10-01", IsMock: true})
	require.NoError(t, err)

	_, err = s.exams.SaveScores(ctx, exam.ID, []ScoreInput{
		{Subject: "Math", Score: 50, MaxScore: 100},
		{Subject: "Math", Score: 60, MaxScore: 100},
	})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))

	scores, err := s.exams.SaveScores(ctx, exam.ID, []ScoreInput{
		{Subject: "Math", Score: 50, MaxScore: 100},
		{Subject: " English ", Score: 70, MaxScore: 100},
	})
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "English", scores[0].Subject)

	_, err = s.exams.Create(ctx, ExamInput{Name: "", Date: "2024-10-01"})
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestReminderService_DailySummary(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	tb, err := s.catalog.CreateTextbook(ctx, TextbookInput{Subject: "Math", Title: "Blue <Chart>", TotalProblems: 300, ReviewDeck: "math::blue"})
	require.NoError(t, err)
	s.aprilPlan(t, tb)
	uni, err := s.catalog.CreateUniversity(ctx, "Todai")
	require.NoError(t, err)
	_, err = s.exams.Create(ctx, ExamInput{Name: "Summer Mock", Date: "2024-04-25", IsMock: true, UniversityID: &uni.ID})
	require.NoError(t, err)
	_, err = s.exams.Create(ctx, ExamInput{Name: "Second Stage", Date: "2024-05-10", UniversityID: &uni.ID})
	require.NoError(t, err)

	text, err := s.reminder.DailySummary(ctx, mustDay(t, "2024-04-15"))
	require.NoError(t, err)

	assert.Contains(t, text, "2024-04-15 (Monday)")
	assert.Contains(t, text, "Math Blue &lt;Chart&gt; — <b>10</b> problems")
	assert.Contains(t, text, "review deck: math::blue")
	assert.Contains(t, text, "Summer Mock — 2024-04-25 (in 10 days)")
	assert.NotContains(t, text, "Todai Summer Mock")
	assert.Contains(t, text, "Todai Second Stage — 2024-05-10 (in 25 days)")

	empty, err := s.reminder.DailySummary(ctx, mustDay(t, "2030-01-01"))
	require.NoError(t, err)
	assert.Contains(t, empty, "no active plans")
}

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("07:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 7 * * *", spec)

	_, err = buildDailySpec("7.30")
	assert.Error(t, err)

	scheduler := NewSchedulerService(time.UTC)
	_, err = scheduler.ScheduleDaily("25:00", func() {})
	assert.Error(t, err)
}

func TestSchedulerService_DigestRunsAtLocalClock(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	scheduler := NewSchedulerService(tokyo)

	id, err := scheduler.ScheduleDaily("07:30", func() {})
	require.NoError(t, err)
	assert.True(t, scheduler.Next(id).IsZero())

	scheduler.Start()
	next := scheduler.Next(id)
	scheduler.Stop()

	require.False(t, next.IsZero())
	local := next.In(tokyo)
	assert.Equal(t, 7, local.Hour())
	assert.Equal(t, 30, local.Minute())
	assert.True(t, next.After(time.Now()))
	assert.LessOrEqual(t, time.Until(next), 24*time.Hour)
}
