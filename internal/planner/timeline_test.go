package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func TestMergeTimeline_PlanThenExam(t *testing.T) {
	plans := []model.StudyPlan{{
		ID: 3, TextbookID: 7, StartDate: "2024-04-01", EndDate: "2024-05-05",
		Textbook: &model.Textbook{ID: 7, Subject: "Math", Title: "Blue Chart"},
	}}
	exams := []model.Exam{{
		ID: 9, Name: "Second Stage", Date: "2024-06-01",
		UniversityID: uintPtr(2), University: &model.University{ID: 2, Name: "Todai"},
	}}
	rng := Range{Start: day(t, "2024-01-01"), End: day(t, "2024-12-31")}

	events, skipped := MergeTimeline(plans, exams, rng)
	require.Len(t, events, 2)
	assert.Zero(t, skipped)

	assert.Equal(t, KindPlan, events[0].Kind)
	assert.Equal(t, "plan-3", events[0].ID)
	assert.Equal(t, "Math Blue Chart", events[0].Title)
	assert.Equal(t, "2024-04-01", events[0].StartDate)
	assert.Equal(t, "2024-05-05", events[0].EndDate)
	assert.Same(t, &plans[0], events[0].Plan)

	assert.Equal(t, KindExam, events[1].Kind)
	assert.Equal(t, "exam-9", events[1].ID)
	assert.Equal(t, "Todai Second Stage", events[1].Title)
	assert.Equal(t, "2024-06-01", events[1].StartDate)
	assert.Equal(t, "2024-06-01", events[1].EndDate)
}

func TestMergeTimeline_Titles(t *testing.T) {
	exams := []model.Exam{
		{ID: 1, Name: "National Mock", Date: "2024-05-01", IsMock: true, University: &model.University{Name: "Todai"}},
		{ID: 2, Name: "Common Test", Date: "2024-05-02"},
		{ID: 3, Name: "Entrance", Date: "2024-05-03", University: &model.University{Name: "  "}},
	}
	plans := []model.StudyPlan{{ID: 4, TextbookID: 11, StartDate: "2024-05-04", EndDate: "2024-05-04"}}

	events, _ := MergeTimeline(plans, exams, Range{})
	require.Len(t, events, 4)

	assert.Equal(t, KindMockExam, events[0].Kind)
	assert.Equal(t, "mockExam-1", events[0].ID)
	assert.Equal(t, "National Mock", events[0].Title)
	assert.Equal(t, "Common Test", events[1].Title)
	assert.Equal(t, "Entrance", events[2].Title)
	assert.Equal(t, "Textbook #11", events[3].Title)
}

func TestExamTitle(t *testing.T) {
	todai := &model.University{Name: " Todai "}

	assert.Equal(t, "Todai Second Stage", ExamTitle(model.Exam{Name: "Second Stage", University: todai}))
	assert.Equal(t, "Summer Mock", ExamTitle(model.Exam{Name: "Summer Mock", IsMock: true, University: todai}))
	assert.Equal(t, "Common Test", ExamTitle(model.Exam{Name: "Common Test"}))
}

func TestMergeTimeline_SortedAndStable(t *testing.T) {
	plans := []model.StudyPlan{
		{ID: 1, StartDate: "2024-04-01", EndDate: "2024-06-30"},
		{ID: 2, StartDate: "2024-04-01", EndDate: "2024-04-30"},
		{ID: 3, StartDate: "2024-03-01", EndDate: "2024-03-31"},
		{ID: 4, StartDate: "2024-04-01", EndDate: "2024-04-30"},
	}
	exams := []model.Exam{
		{ID: 5, Name: "A", Date: "2024-04-01"},
		{ID: 6, Name: "B", Date: "2024-04-30"},
	}

	events, _ := MergeTimeline(plans, exams, Range{})

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"plan-3", "exam-5", "plan-2", "plan-4", "plan-1", "exam-6"}, ids)

	for i := 1; i < len(events); i++ {
		a, b := events[i-1], events[i]
		assert.LessOrEqual(t, a.StartDate, b.StartDate)
		if a.StartDate == b.StartDate {
			assert.LessOrEqual(t, a.EndDate, b.EndDate)
		}
	}
}

func TestMergeTimeline_RangeFilter(t *testing.T) {
	plans := []model.StudyPlan{
		{ID: 1, StartDate: "2023-11-01", EndDate: "2024-01-10"}, // overlaps the start
		{ID: 2, StartDate: "2023-01-01", EndDate: "2023-12-31"}, // ends before
		{ID: 3, StartDate: "2024-12-31", EndDate: "2025-02-01"}, // overlaps the end
		{ID: 4, StartDate: "2025-01-01", EndDate: "2025-02-01"}, // starts after
	}
	exams := []model.Exam{
		{ID: 5, Name: "in", Date: "2024-01-01"},
		{ID: 6, Name: "out", Date: "2025-01-01"},
	}

	events, _ := MergeTimeline(plans, exams, Range{Start: day(t, "2024-01-01"), End: day(t, "2024-12-31")})
	ids := []string{}
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"plan-1", "exam-5", "plan-3"}, ids)

	events, _ = MergeTimeline(plans, exams, Range{Start: day(t, "2025-01-01")})
	assert.Len(t, events, 3)
}

func TestMergeTimeline_SkipsMalformedRecords(t *testing.T) {
	plans := []model.StudyPlan{
		{ID: 1, StartDate: "2024-04-01", EndDate: "2024-04-30"},
		{ID: 2, StartDate: "April", EndDate: "2024-04-30"},
		{ID: 3, StartDate: "2024-05-01", EndDate: "2024-04-01"},
	}
	exams := []model.Exam{
		{ID: 4, Name: "ok", Date: "2024-05-10"},
		{ID: 5, Name: "bad", Date: "2024-13-01"},
	}

	events, skipped := MergeTimeline(plans, exams, Range{})
	assert.Len(t, events, 2)
	assert.Equal(t, 3, skipped)
}

func TestMergeTimeline_Idempotent(t *testing.T) {
	plans := []model.StudyPlan{
		{ID: 1, StartDate: "2024-04-01", EndDate: "2024-04-30"},
		{ID: 2, StartDate: "2024-04-01", EndDate: "2024-04-30"},
	}
	exams := []model.Exam{{ID: 3, Name: "x", Date: "2024-04-01"}}

	first, _ := MergeTimeline(plans, exams, Range{})
	second, _ := MergeTimeline(plans, exams, Range{})

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
