package dto

import "time"

// AnswerSubmitDTO is one answer within a submission create or update.
type AnswerSubmitDTO struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

type SubmissionCreateRequest struct {
	AssignmentID uint              `json:"assignment_id" binding:"required"`
	Answers      []AnswerSubmitDTO `json:"answers" binding:"required,min=1,dive"`
}

type SubmissionUpdateRequest struct {
	Answers []AnswerSubmitDTO `json:"answers" binding:"required,min=1,dive"`
}

type GradeRequest struct {
	Grade   *float64 `json:"grade" binding:"required,gte=0"`
	Comment string   `json:"comment"`
}

type GradeResponse struct {
	SubmissionID uint      `json:"submission_id"`
	Grade        float64   `json:"grade"`
	Comment      string    `json:"comment,omitempty"`
	GradedAt     time.Time `json:"graded_at"`
}

type AnswerResponse struct {
	ID         uint             `json:"id"`
	QuestionID uint             `json:"question_id"`
	Question   QuestionResponse `json:"question,omitempty"`
	Text       string           `json:"text"`
}

type SubmissionResponse struct {
	ID           uint      `json:"id"`
	StudentID    uint      `json:"student_id"`
	AssignmentID uint      `json:"assignment_id"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Status       string    `json:"status"`
}

// SubmissionDetailResponse includes the answers (ordered by question order)
// and the grade when one exists.
type SubmissionDetailResponse struct {
	ID           uint             `json:"id"`
	StudentID    uint             `json:"student_id"`
	AssignmentID uint             `json:"assignment_id"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	Status       string           `json:"status"`
	Answers      []AnswerResponse `json:"answers,omitempty"`
	Grade        *GradeResponse   `json:"grade,omitempty"`
}
