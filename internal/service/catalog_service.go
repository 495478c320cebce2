package service

import (
	"context"
	"fmt"
	"strings"

	"study-planner/internal/model"
	"study-planner/internal/repository"
)

// TextbookInput represents data required to create a textbook.
type TextbookInput struct {
	Subject       string `json:"subject"`
	Title         string `json:"title"`
	TotalProblems int    `json:"totalProblems"`
	ReviewDeck    string `json:"reviewDeck"`
}

// CatalogService manages textbooks and universities.
type CatalogService struct {
	textbooks    *repository.TextbookRepository
	universities *repository.UniversityRepository
}

func NewCatalogService(textbooks *repository.TextbookRepository, universities *repository.UniversityRepository) *CatalogService {
	return &CatalogService{textbooks: textbooks, universities: universities}
}

func (s *CatalogService) CreateTextbook(ctx context.Context, input TextbookInput) (*model.Textbook, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}
	if input.TotalProblems <= 0 {
		return nil, fmt.Errorf("%w: total problems must be positive", model.ErrInvalidInput)
	}

	tb := model.Textbook{
		Subject:       strings.TrimSpace(input.Subject),
		Title:         title,
		TotalProblems: input.TotalProblems,
		ReviewDeck:    strings.TrimSpace(input.ReviewDeck),
	}
	if err := s.textbooks.Create(ctx, &tb); err != nil {
		return nil, err
	}
	return &tb, nil
}

func (s *CatalogService) Textbook(ctx context.Context, id uint) (*model.Textbook, error) {
	return s.textbooks.FindByID(ctx, id)
}

func (s *CatalogService) ListTextbooks(ctx context.Context) ([]model.Textbook, error) {
	return s.textbooks.List(ctx)
}

func (s *CatalogService) CreateUniversity(ctx context.Context, name string) (*model.University, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: university name is required", model.ErrInvalidInput)
	}
	u := model.University{Name: name}
	if err := s.universities.Create(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *CatalogService) ListUniversities(ctx context.Context) ([]model.University, error) {
	return s.universities.List(ctx)
}
