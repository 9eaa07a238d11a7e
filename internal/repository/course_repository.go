package repository

import (
	"gradebook/internal/model"

	"gorm.io/gorm"
)

// CourseWithStudentCount carries a course together with its enrollment count,
// computed with a subselect instead of loading the join rows.
type CourseWithStudentCount struct {
	model.Course
	StudentCount int
}

type CourseRepository interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindByIDWithStudentCount(id uint) (*CourseWithStudentCount, error)
	FindAllWithStudentCount() ([]CourseWithStudentCount, error)
	FindAllByStudentWithStudentCount(studentID uint) ([]CourseWithStudentCount, error)
	Update(course *model.Course) error
	DeleteCascade(id uint) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

const studentCountSelect = "courses.*, (SELECT COUNT(*) FROM enrollments WHERE enrollments.course_id = courses.id) AS student_count"

func (r *courseRepository) Create(course *model.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.db.First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) FindByIDWithStudentCount(id uint) (*CourseWithStudentCount, error) {
	var result CourseWithStudentCount
	err := r.db.Model(&model.Course{}).
		Select(studentCountSelect).
		Where("courses.id = ? AND courses.deleted_at IS NULL", id).
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *courseRepository) FindAllWithStudentCount() ([]CourseWithStudentCount, error) {
	var results []CourseWithStudentCount
	err := r.db.Model(&model.Course{}).
		Select(studentCountSelect).
		Where("courses.deleted_at IS NULL").
		Order("courses.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *courseRepository) FindAllByStudentWithStudentCount(studentID uint) ([]CourseWithStudentCount, error) {
	var results []CourseWithStudentCount
	err := r.db.Model(&model.Course{}).
		Select(studentCountSelect).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ? AND courses.deleted_at IS NULL", studentID).
		Order("courses.created_at DESC").
		Scan(&results).Error
	return results, err
}

func (r *courseRepository) Update(course *model.Course) error {
	return r.db.Save(course).Error
}

// DeleteCascade removes the course and everything hanging off it: enrollments,
// assignments, their questions, submissions, answers and grades.
func (r *courseRepository) DeleteCascade(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var assignmentIDs []uint
		if err := tx.Model(&model.Assignment{}).Where("course_id = ?", id).Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}
		if len(assignmentIDs) > 0 {
			var submissionIDs []uint
			if err := tx.Model(&model.Submission{}).Where("assignment_id IN ?", assignmentIDs).Pluck("id", &submissionIDs).Error; err != nil {
				return err
			}
			if len(submissionIDs) > 0 {
				if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.Answer{}).Error; err != nil {
					return err
				}
				if err := tx.Where("submission_id IN ?", submissionIDs).Delete(&model.Grade{}).Error; err != nil {
					return err
				}
				if err := tx.Where("assignment_id IN ?", assignmentIDs).Delete(&model.Submission{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("assignment_id IN ?", assignmentIDs).Delete(&model.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Course{}, id).Error
	})
}
