package service

import (
	"context"
	"fmt"
	"strings"

	"study-planner/internal/calendar"
	"study-planner/internal/model"
	"study-planner/internal/repository"
)

// ExamInput represents data required to create an exam.
type ExamInput struct {
	Name         string `json:"name"`
	Date         string `json:"date"`
	IsMock       bool   `json:"isMock"`
	ExamType     string `json:"examType"`
	UniversityID *uint  `json:"universityId"`
}

// ScoreInput is one subject result.
type ScoreInput struct {
	Subject  string `json:"subject"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
}

// ExamService manages exams and their scores.
type ExamService struct {
	exams *repository.ExamRepository
}

func NewExamService(exams *repository.ExamRepository) *ExamService {
	return &ExamService{exams: exams}
}

func (s *ExamService) Create(ctx context.Context, input ExamInput) (*model.Exam, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: exam name is required", model.ErrInvalidInput)
	}
	day, err := calendar.Parse(input.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}

	exam := model.Exam{
		Name:         name,
		Date:         calendar.Format(day),
		IsMock:       input.IsMock,
		ExamType:     strings.TrimSpace(input.ExamType),
		UniversityID: input.UniversityID,
	}
	if err := s.exams.Create(ctx, &exam); err != nil {
		return nil, err
	}
	return s.exams.FindByID(ctx, exam.ID)
}

// List returns exams within [from, to] (YYYY-MM-DD, either may be empty).
func (s *ExamService) List(ctx context.Context, from, to string) ([]model.Exam, error) {
	return s.exams.List(ctx, from, to)
}

// SaveScores validates the whole batch before writing any of it.
func (s *ExamService) SaveScores(ctx context.Context, examID uint, input []ScoreInput) ([]model.ExamScore, error) {
	seen := make(map[string]bool, len(input))
	scores := make([]model.ExamScore, 0, len(input))
	for _, in := range input {
		subject := strings.TrimSpace(in.Subject)
		switch {
		case subject == "":
			return nil, fmt.Errorf("%w: score subject is required", model.ErrInvalidInput)
		case seen[subject]:
			return nil, fmt.Errorf("%w: duplicate subject %q", model.ErrInvalidInput, subject)
		case in.Score < 0 || in.MaxScore < 0:
			return nil, fmt.Errorf("%w: scores must not be negative", model.ErrInvalidInput)
		}
		seen[subject] = true
		scores = append(scores, model.ExamScore{Subject: subject, Score: in.Score, MaxScore: in.MaxScore})
	}

	if err := s.exams.SaveScores(ctx, examID, scores); err != nil {
		return nil, err
	}
	return s.exams.ListScores(ctx, examID)
}
