package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubmissionStatusSubmitted = "submitted"
	SubmissionStatusGraded    = "graded"
)

type Submission struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	StudentID    uint           `json:"student_id" gorm:"not null;uniqueIndex:idx_submission_pair,where:deleted_at IS NULL"`
	AssignmentID uint           `json:"assignment_id" gorm:"not null;uniqueIndex:idx_submission_pair"`
	Student      User           `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Assignment   Assignment     `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	SubmittedAt  time.Time      `json:"submitted_at" gorm:"autoCreateTime"`
	Status       string         `json:"status" gorm:"not null;default:'submitted'"` // "submitted" -> "graded", one way
	Answers      []Answer       `json:"answers,omitempty" gorm:"foreignKey:SubmissionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Grade        *Grade         `json:"grade,omitempty" gorm:"foreignKey:SubmissionID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
