package repository

import (
	"gradebook/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository interface {
	Create(submission *model.Submission) error
	FindByID(id uint) (*model.Submission, error)
	FindByIDWithDetails(id uint) (*model.Submission, error)
	FindByStudentAndAssignment(studentID, assignmentID uint) (*model.Submission, error)
	FindAllByAssignment(assignmentID uint) ([]model.Submission, error)
	FindAllByStudent(studentID uint) ([]model.Submission, error)
	// Grade upserts the grade row and flips the submission status in a single
	// transaction; the two are never written independently.
	Grade(submission *model.Submission, grade *model.Grade) error
	DeleteCascade(id uint) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *model.Submission) error {
	// Answers populated on the struct are created along with the submission.
	return r.db.Create(submission).Error
}

func (r *submissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByIDWithDetails(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN questions ON questions.id = answers.question_id").
				Order("questions.display_order ASC")
		}).
		Preload("Answers.Question").
		Preload("Grade").
		First(&submission, id).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindByStudentAndAssignment(studentID, assignmentID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.db.Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) FindAllByAssignment(assignmentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) FindAllByStudent(studentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// DeleteCascade removes the submission together with its answers and grade in
// one transaction.
func (r *submissionRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", id).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("submission_id = ?", id).Delete(&model.Grade{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Submission{}, id).Error
	})
}

func (r *submissionRepository) Grade(submission *model.Submission, grade *model.Grade) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}},
			UpdateAll: true,
		}).Create(grade).Error; err != nil {
			return err
		}
		return tx.Model(submission).Update("status", model.SubmissionStatusGraded).Error
	})
}
