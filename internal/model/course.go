package model

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description,omitempty"`
	TeacherID   uint           `json:"teacher_id" gorm:"not null;index"`
	Teacher     User           `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
	MaxGrade    float64        `json:"max_grade" gorm:"not null;default:100"` // upper bound for submission grades
	Assignments []Assignment   `json:"assignments,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
