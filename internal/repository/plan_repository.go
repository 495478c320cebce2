package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"study-planner/internal/model"
)

// PlanRepository handles CRUD for study plans. Reads preload the textbook.
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.StudyPlan) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(plan).Error; err != nil {
		return wrapErr("create plan", err)
	}
	return nil
}

// Replace overwrites every column of an existing plan.
func (r *PlanRepository) Replace(ctx context.Context, plan *model.StudyPlan) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(plan).Error; err != nil {
		return wrapErr("replace plan", err)
	}
	return nil
}

// Delete removes a plan. Logs and exams are left untouched.
func (r *PlanRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.StudyPlan{}, id)
	if res.Error != nil {
		return wrapErr("delete plan", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrapErr("delete plan", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id uint) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	if err := r.db.WithContext(ctx).Preload("Textbook").First(&plan, id).Error; err != nil {
		return nil, wrapErr("find plan", err)
	}
	return &plan, nil
}

func (r *PlanRepository) FindByTextbook(ctx context.Context, textbookID uint) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	if err := r.db.WithContext(ctx).Preload("Textbook").
		Where("textbook_id = ?", textbookID).First(&plan).Error; err != nil {
		return nil, wrapErr("find plan by textbook", err)
	}
	return &plan, nil
}

func (r *PlanRepository) List(ctx context.Context) ([]model.StudyPlan, error) {
	return r.ListOverlapping(ctx, "", "")
}

// ListOverlapping returns plans whose window touches [from, to]. An empty
// bound leaves that side open. Dates compare as YYYY-MM-DD strings.
func (r *PlanRepository) ListOverlapping(ctx context.Context, from, to string) ([]model.StudyPlan, error) {
	q := r.db.WithContext(ctx).Preload("Textbook")
	if from != "" {
		q = q.Where("end_date >= ?", from)
	}
	if to != "" {
		q = q.Where("start_date <= ?", to)
	}
	var plans []model.StudyPlan
	if err := q.Order("start_date ASC, id ASC").Find(&plans).Error; err != nil {
		return nil, wrapErr("list plans", err)
	}
	return plans, nil
}

// ListActiveOn returns plans whose window contains day.
func (r *PlanRepository) ListActiveOn(ctx context.Context, day string) ([]model.StudyPlan, error) {
	return r.ListOverlapping(ctx, day, day)
}
