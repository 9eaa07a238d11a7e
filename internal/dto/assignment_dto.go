package dto

import "time"

// QuestionCreateDTO is used within AssignmentCreateRequest; assignments are
// always created together with their questions.
type QuestionCreateDTO struct {
	Text  string `json:"text" binding:"required"`
	Order int    `json:"order" binding:"required,min=1"`
}

type AssignmentCreateRequest struct {
	Name      string              `json:"name" binding:"required"`
	CourseID  uint                `json:"course_id" binding:"required"`
	Weight    float64             `json:"weight" binding:"gte=0,lte=100"`
	Deadline  time.Time           `json:"deadline" binding:"required"`
	Questions []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// AssignmentUpdateRequest patches assignment metadata only; the question list
// is immutable after creation.
type AssignmentUpdateRequest struct {
	Name     *string    `json:"name"`
	Weight   *float64   `json:"weight" binding:"omitempty,gte=0,lte=100"`
	Deadline *time.Time `json:"deadline"`
}

type QuestionResponse struct {
	ID           uint   `json:"id"`
	AssignmentID uint   `json:"assignment_id"`
	Text         string `json:"text"`
	Order        int    `json:"order"`
}

type AssignmentResponse struct {
	ID            uint               `json:"id"`
	Name          string             `json:"name"`
	CourseID      uint               `json:"course_id"`
	Weight        float64            `json:"weight"`
	Deadline      time.Time          `json:"deadline"`
	QuestionCount int                `json:"question_count"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// AssignmentSummaryResponse is used for listings, where questions are not
// loaded but their count is.
type AssignmentSummaryResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	CourseID      uint      `json:"course_id"`
	Weight        float64   `json:"weight"`
	Deadline      time.Time `json:"deadline"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}
