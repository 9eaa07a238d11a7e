package repository

import (
	"gradebook/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository interface {
	FindBySubmissionID(submissionID uint) ([]model.Answer, error)
	// UpdateAll saves every answer in one transaction; either all replacement
	// texts land or none do.
	UpdateAll(answers []model.Answer) error
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) FindBySubmissionID(submissionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("submission_id = ?", submissionID).Find(&answers).Error
	return answers, err
}

func (r *answerRepository) UpdateAll(answers []model.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			if err := tx.Save(&answers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
