package repository

import (
	"gradebook/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll(role *model.UserRole) ([]model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
	HasDependents(id uint) (bool, error)
	DeleteCascade(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(role *model.UserRole) ([]model.User, error) {
	var users []model.User
	query := r.db.Order("created_at DESC")
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&model.User{}, id).Error
}

// HasDependents reports whether the user is still referenced by enrollments
// or submissions, which blocks a plain delete.
func (r *userRepository) HasDependents(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Enrollment{}).Where("student_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := r.db.Model(&model.Submission{}).Where("student_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteCascade removes the user together with their enrollments, submissions,
// answers and grades in one transaction.
func (r *userRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var submissionIDs []uint
		if err := tx.Model(&model.Submission{}).Where("student_id = ?", id).Pluck("id", &submissionIDs).Error; err != nil {
			return err
		}
		if len(submissionIDs) > 0 {
			if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.Grade{}).Error; err != nil {
				return err
			}
			if err := tx.Where("student_id = ?", id).Delete(&model.Submission{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("student_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}
