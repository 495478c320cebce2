package repository

import (
	"context"

	"gorm.io/gorm"

	"study-planner/internal/model"
)

// TextbookRepository handles CRUD for textbooks.
type TextbookRepository struct {
	db *gorm.DB
}

func NewTextbookRepository(db *gorm.DB) *TextbookRepository {
	return &TextbookRepository{db: db}
}

func (r *TextbookRepository) Create(ctx context.Context, tb *model.Textbook) error {
	return wrapErr("create textbook", r.db.WithContext(ctx).Create(tb).Error)
}

func (r *TextbookRepository) FindByID(ctx context.Context, id uint) (*model.Textbook, error) {
	var tb model.Textbook
	if err := r.db.WithContext(ctx).First(&tb, id).Error; err != nil {
		return nil, wrapErr("find textbook", err)
	}
	return &tb, nil
}

func (r *TextbookRepository) List(ctx context.Context) ([]model.Textbook, error) {
	var textbooks []model.Textbook
	if err := r.db.WithContext(ctx).Order("subject ASC, title ASC, id ASC").Find(&textbooks).Error; err != nil {
		return nil, wrapErr("list textbooks", err)
	}
	return textbooks, nil
}

// UniversityRepository handles CRUD for universities.
type UniversityRepository struct {
	db *gorm.DB
}

func NewUniversityRepository(db *gorm.DB) *UniversityRepository {
	return &UniversityRepository{db: db}
}

func (r *UniversityRepository) Create(ctx context.Context, u *model.University) error {
	return wrapErr("create university", r.db.WithContext(ctx).Create(u).Error)
}

func (r *UniversityRepository) List(ctx context.Context) ([]model.University, error) {
	var universities []model.University
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&universities).Error; err != nil {
		return nil, wrapErr("list universities", err)
	}
	return universities, nil
}
