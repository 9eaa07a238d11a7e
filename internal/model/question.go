package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	AssignmentID uint           `json:"assignment_id" gorm:"not null;uniqueIndex:idx_question_order"`
	Text         string         `json:"text" gorm:"type:text;not null"`
	Order        int            `json:"order" gorm:"column:display_order;not null;uniqueIndex:idx_question_order"` // display sequence within the assignment
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
