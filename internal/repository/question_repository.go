package repository

import (
	"gradebook/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository interface {
	FindByID(id uint) (*model.Question, error)
	FindByAssignmentID(assignmentID uint) ([]model.Question, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByAssignmentID(assignmentID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("assignment_id = ?", assignmentID).
		Order("display_order ASC").
		Find(&questions).Error
	return questions, err
}
