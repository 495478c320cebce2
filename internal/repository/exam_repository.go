package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"study-planner/internal/model"
)

// ExamRepository handles exams and their subject scores.
type ExamRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

func (r *ExamRepository) Create(ctx context.Context, exam *model.Exam) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(exam).Error; err != nil {
		return wrapErr("create exam", err)
	}
	return nil
}

func (r *ExamRepository) FindByID(ctx context.Context, id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.db.WithContext(ctx).Preload("University").First(&exam, id).Error; err != nil {
		return nil, wrapErr("find exam", err)
	}
	return &exam, nil
}

// List returns exams dated within [from, to]; an empty bound leaves that side open.
func (r *ExamRepository) List(ctx context.Context, from, to string) ([]model.Exam, error) {
	q := r.db.WithContext(ctx).Preload("University")
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var exams []model.Exam
	if err := q.Order("date ASC, id ASC").Find(&exams).Error; err != nil {
		return nil, wrapErr("list exams", err)
	}
	return exams, nil
}

// SaveScores upserts a batch of subject scores for one exam. Either every row
// is committed or none is.
func (r *ExamRepository) SaveScores(ctx context.Context, examID uint, scores []model.ExamScore) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exam model.Exam
		if err := tx.Select("id").First(&exam, examID).Error; err != nil {
			return err
		}
		if len(scores) == 0 {
			return nil
		}
		for i := range scores {
			scores[i].ExamID = examID
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "exam_id"}, {Name: "subject"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "max_score", "updated_at"}),
		}).Create(&scores).Error
	})
	return wrapErr("save exam scores", err)
}

func (r *ExamRepository) ListScores(ctx context.Context, examID uint) ([]model.ExamScore, error) {
	var scores []model.ExamScore
	if err := r.db.WithContext(ctx).Where("exam_id = ?", examID).
		Order("subject ASC").Find(&scores).Error; err != nil {
		return nil, wrapErr("list exam scores", err)
	}
	return scores, nil
}
