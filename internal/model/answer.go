package model

import (
	"time"

	"gorm.io/gorm"
)

type Answer struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	SubmissionID uint           `json:"submission_id" gorm:"not null;uniqueIndex:idx_answer_pair"`
	QuestionID   uint           `json:"question_id" gorm:"not null;uniqueIndex:idx_answer_pair"`
	Question     Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Text         string         `json:"text" gorm:"type:text;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
