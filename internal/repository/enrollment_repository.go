package repository

import (
	"gradebook/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(enrollment *model.Enrollment) error
	Exists(courseID, studentID uint) (bool, error)
	// ExistsByStudentAndTeacher reports whether the student is enrolled in any
	// course taught by the given teacher.
	ExistsByStudentAndTeacher(studentID, teacherID uint) (bool, error)
	FindStudentsByCourse(courseID uint) ([]model.User, error)
	Delete(courseID, studentID uint) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *enrollmentRepository) Exists(courseID, studentID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) ExistsByStudentAndTeacher(studentID, teacherID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.student_id = ? AND courses.teacher_id = ? AND courses.deleted_at IS NULL", studentID, teacherID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) FindStudentsByCourse(courseID uint) ([]model.User, error) {
	var students []model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN enrollments ON enrollments.student_id = users.id").
		Where("enrollments.course_id = ?", courseID).
		Order("users.name ASC").
		Find(&students).Error
	return students, err
}

func (r *enrollmentRepository) Delete(courseID, studentID uint) error {
	result := r.db.Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&model.Enrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
