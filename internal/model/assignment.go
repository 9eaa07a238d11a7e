package model

import (
	"time"

	"gorm.io/gorm"
)

type Assignment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `json:"name" gorm:"not null"`
	CourseID  uint           `json:"course_id" gorm:"not null;index"`
	Course    Course         `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Weight    float64        `json:"weight" gorm:"not null"` // percentage of the course grade, 0..100
	Deadline  time.Time      `json:"deadline" gorm:"not null"`
	Questions []Question     `json:"questions,omitempty" gorm:"foreignKey:AssignmentID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
