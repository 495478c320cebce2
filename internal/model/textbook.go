package model

import "time"

// Textbook is a fixed-size body of practice problems.
type Textbook struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Subject       string    `gorm:"index" json:"subject"`
	Title         string    `json:"title"`
	TotalProblems int       `json:"totalProblems"`
	ReviewDeck    string    `json:"reviewDeck,omitempty"` // flashcard deck name, passed through untouched
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DisplayName joins subject and title.
func (t Textbook) DisplayName() string {
	switch {
	case t.Subject == "":
		return t.Title
	case t.Title == "":
		return t.Subject
	default:
		return t.Subject + " " + t.Title
	}
}

// University is an exam target.
type University struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
