package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/model"
)

func TestTodaysTasks(t *testing.T) {
	plans := []model.StudyPlan{
		{
			ID: 1, TextbookID: 10, StartDate: "2024-04-01", EndDate: "2024-05-05", DailyGoal: 8,
			WeekdayGoals: model.WeekdayGoals{time.Monday: 12},
			Textbook:     &model.Textbook{Subject: "Math", Title: "Blue Chart", ReviewDeck: "math::blue"},
		},
		{
			ID: 2, TextbookID: 11, StartDate: "2024-04-10", EndDate: "2024-04-20", DailyGoal: 6,
			WeekdayGoals: model.WeekdayGoals{time.Tuesday: 3},
			Textbook:     &model.Textbook{Subject: "English", Title: "Reading"},
		},
		{ID: 3, TextbookID: 12, StartDate: "2024-05-01", EndDate: "2024-05-31", DailyGoal: 4},
		{ID: 4, TextbookID: 13, StartDate: "garbage", EndDate: "2024-05-31", DailyGoal: 4},
		{ID: 5, TextbookID: 14, StartDate: "2024-04-15", EndDate: "2024-04-15", DailyGoal: 2},
	}

	tasks := TodaysTasks(day(t, "2024-04-15"), plans) // a Monday
	require.Len(t, tasks, 3)

	assert.Equal(t, uint(10), tasks[0].TextbookID)
	assert.Equal(t, 12, tasks[0].Target)
	assert.True(t, tasks[0].FromWeekday)
	assert.Equal(t, "Math", tasks[0].Subject)
	assert.Equal(t, "Blue Chart", tasks[0].Title)
	require.NotNil(t, tasks[0].ReviewDeck)
	assert.Equal(t, "math::blue", *tasks[0].ReviewDeck)

	assert.Equal(t, uint(11), tasks[1].TextbookID)
	assert.Equal(t, 6, tasks[1].Target)
	assert.False(t, tasks[1].FromWeekday)
	assert.Nil(t, tasks[1].ReviewDeck)

	assert.Equal(t, uint(14), tasks[2].TextbookID)
	assert.Equal(t, 2, tasks[2].Target)
	assert.Empty(t, tasks[2].Title)
}

func TestTodaysTasks_ZeroWeekdayEntryIsAnOverride(t *testing.T) {
	plans := []model.StudyPlan{{
		ID: 1, StartDate: "2024-04-01", EndDate: "2024-04-30", DailyGoal: 9,
		WeekdayGoals: model.WeekdayGoals{time.Sunday: 0},
	}}

	tasks := TodaysTasks(day(t, "2024-04-14"), plans) // a Sunday
	require.Len(t, tasks, 1)
	assert.Equal(t, 0, tasks[0].Target)
	assert.True(t, tasks[0].FromWeekday)
}

func TestTodaysTasks_NoActivePlans(t *testing.T) {
	assert.Empty(t, TodaysTasks(day(t, "2024-04-15"), nil))
}
