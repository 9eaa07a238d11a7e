package model

import "time"

// Enrollment joins a student to a course. The composite unique index is the
// authority on duplicate enrollment, not any check done by callers.
type Enrollment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	StudentID uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	Student   User      `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course    Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt time.Time `json:"created_at"`
}
