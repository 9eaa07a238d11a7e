package repository

import (
	"gradebook/internal/model"

	"gorm.io/gorm"
)

// AssignmentWithQuestionCount carries an assignment and its question count;
// the count is derived, never stored on the row.
type AssignmentWithQuestionCount struct {
	model.Assignment
	QuestionCount int
}

type AssignmentRepository interface {
	Create(assignment *model.Assignment) error
	FindByID(id uint) (*model.Assignment, error)
	FindByIDWithQuestions(id uint) (*model.Assignment, error)
	FindAllWithQuestionCount(courseID *uint) ([]AssignmentWithQuestionCount, error)
	Update(assignment *model.Assignment) error
	DeleteCascade(id uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *model.Assignment) error {
	// Creating with Questions populated persists them in the same insert.
	return r.db.Create(assignment).Error
}

func (r *assignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	if err := r.db.First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByIDWithQuestions(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.display_order ASC")
	}).First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindAllWithQuestionCount(courseID *uint) ([]AssignmentWithQuestionCount, error) {
	var results []AssignmentWithQuestionCount
	query := r.db.Model(&model.Assignment{}).
		Select("assignments.*, (SELECT COUNT(*) FROM questions WHERE questions.assignment_id = assignments.id AND questions.deleted_at IS NULL) AS question_count").
		Where("assignments.deleted_at IS NULL").
		Order("assignments.created_at DESC")
	if courseID != nil {
		query = query.Where("assignments.course_id = ?", *courseID)
	}
	err := query.Scan(&results).Error
	return results, err
}

func (r *assignmentRepository) Update(assignment *model.Assignment) error {
	return r.db.Save(assignment).Error
}

// DeleteCascade removes the assignment with its questions, submissions,
// answers and grades in one transaction.
func (r *assignmentRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var submissionIDs []uint
		if err := tx.Model(&model.Submission{}).Where("assignment_id = ?", id).Pluck("id", &submissionIDs).Error; err != nil {
			return err
		}
		if len(submissionIDs) > 0 {
			if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.Grade{}).Error; err != nil {
				return err
			}
			if err := tx.Where("assignment_id = ?", id).Delete(&model.Submission{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("assignment_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assignment{}, id).Error
	})
}
