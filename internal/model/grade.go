package model

import "time"

// Grade is 1:1 with Submission and only ever written together with the
// submission's status flip to "graded".
type Grade struct {
	SubmissionID uint      `gorm:"primarykey" json:"submission_id"`
	Grade        float64   `json:"grade" gorm:"not null"`
	Comment      string    `json:"comment" gorm:"type:text"`
	GradedAt     time.Time `json:"graded_at" gorm:"not null"`
}
