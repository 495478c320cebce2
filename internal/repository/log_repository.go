package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"study-planner/internal/model"
)

// LogRepository stores daily study logs.
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Upsert writes the log for (date, textbook), replacing the amounts of an existing one.
func (r *LogRepository) Upsert(ctx context.Context, entry *model.StudyLog) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "textbook_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"planned_amount", "actual_amount", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return wrapErr("upsert log", err)
	}
	// Reload so ID and CreatedAt reflect the stored row on the update path.
	var stored model.StudyLog
	if err := db.Where("date = ? AND textbook_id = ?", entry.Date, entry.TextbookID).First(&stored).Error; err != nil {
		return wrapErr("reload log", err)
	}
	*entry = stored
	return nil
}

func (r *LogRepository) ListByTextbook(ctx context.Context, textbookID uint) ([]model.StudyLog, error) {
	var logs []model.StudyLog
	if err := r.db.WithContext(ctx).Where("textbook_id = ?", textbookID).
		Order("date ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, wrapErr("list logs", err)
	}
	return logs, nil
}

// ListBetween returns logs of every textbook dated within [from, to].
func (r *LogRepository) ListBetween(ctx context.Context, from, to string) ([]model.StudyLog, error) {
	var logs []model.StudyLog
	if err := r.db.WithContext(ctx).Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, wrapErr("list logs between", err)
	}
	return logs, nil
}
