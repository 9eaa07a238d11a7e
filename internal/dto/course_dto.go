package dto

import "time"

type CourseCreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	MaxGrade    *float64 `json:"max_grade" binding:"omitempty,gt=0"` // defaults to 100
}

type CourseUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	MaxGrade    *float64 `json:"max_grade" binding:"omitempty,gt=0"`
}

type CourseResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	TeacherID    uint      `json:"teacher_id"`
	MaxGrade     float64   `json:"max_grade"`
	StudentCount int       `json:"student_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type EnrollStudentRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
}

type EnrollmentResponse struct {
	ID        uint      `json:"id"`
	CourseID  uint      `json:"course_id"`
	StudentID uint      `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}
