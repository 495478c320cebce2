package model

import "time"

// Exam is a real or mock exam on a single calendar day.
type Exam struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Name         string      `json:"name"`
	Date         string      `gorm:"index" json:"date"`
	IsMock       bool        `gorm:"default:false" json:"isMock"`
	ExamType     string      `json:"examType"`
	UniversityID *uint       `gorm:"index" json:"universityId,omitempty"`
	University   *University `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ExamScore is one subject's result in an exam.
type ExamScore struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ExamID    uint      `gorm:"index:idx_score_exam_subject,unique" json:"examId"`
	Subject   string    `gorm:"index:idx_score_exam_subject,unique" json:"subject"`
	Score     int       `json:"score"`
	MaxScore  int       `json:"maxScore"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
