package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudyPlan schedules one textbook between StartDate and EndDate (YYYY-MM-DD, inclusive).
type StudyPlan struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TextbookID    uint   `gorm:"uniqueIndex" json:"textbookId"`
	StartDate     string `gorm:"index" json:"startDate"`
	EndDate       string `gorm:"index" json:"endDate"`
	DailyGoal     int    `json:"dailyGoal"`
	BufferDays    int    `json:"bufferDays"`
	TotalProblems *int   `json:"totalProblems,omitempty"` // nil means the textbook's total

	// WeekdayGoalsRaw is the persisted JSON; WeekdayGoals is its parsed form,
	// nil when the column is empty or unparsable.
	WeekdayGoalsRaw datatypes.JSON `gorm:"column:weekday_goals" json:"-"`
	WeekdayGoals    WeekdayGoals   `gorm:"-" json:"weekdayGoals,omitempty"`

	Textbook  *Textbook `gorm:"foreignKey:TextbookID" json:"textbook,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AfterFind parses the stored weekday map once, at the data-access boundary.
// A bad value degrades to "no weekday override" instead of failing the read.
func (p *StudyPlan) AfterFind(*gorm.DB) error {
	goals, err := ParseWeekdayGoals(p.WeekdayGoalsRaw)
	if err != nil {
		goals = nil
	}
	p.WeekdayGoals = goals
	return nil
}

// BeforeSave serializes WeekdayGoals into the JSON column.
func (p *StudyPlan) BeforeSave(*gorm.DB) error {
	if p.WeekdayGoals == nil {
		p.WeekdayGoalsRaw = nil
		return nil
	}
	raw, err := p.WeekdayGoals.MarshalJSON()
	if err != nil {
		return err
	}
	p.WeekdayGoalsRaw = datatypes.JSON(raw)
	return nil
}

// EffectiveTotal resolves the problem count the plan is sized for.
func (p StudyPlan) EffectiveTotal() int {
	if p.TotalProblems != nil {
		return *p.TotalProblems
	}
	if p.Textbook != nil {
		return p.Textbook.TotalProblems
	}
	return 0
}

// StudyLog records the work done on one textbook on one day.
type StudyLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Date          string    `gorm:"index:idx_log_date_textbook,unique" json:"date"`
	TextbookID    uint      `gorm:"index:idx_log_date_textbook,unique" json:"textbookId"`
	PlannedAmount int       `json:"plannedAmount"`
	ActualAmount  int       `json:"actualAmount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
