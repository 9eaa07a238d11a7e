package service

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"gradebook/internal/apperr"
	"gradebook/internal/dto"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	"gradebook/internal/util"
)

type CourseService interface {
	ListCourses(actor *util.Claims) ([]dto.CourseResponse, error)
	GetCourse(id uint, actor *util.Claims) (*dto.CourseResponse, error)
	CreateCourse(actor *util.Claims, req dto.CourseCreateRequest) (*dto.CourseResponse, error)
	UpdateCourse(id uint, actor *util.Claims, req dto.CourseUpdateRequest) (*dto.CourseResponse, error)
	DeleteCourse(id uint, actor *util.Claims) error
	ListStudents(courseID uint, actor *util.Claims) ([]dto.UserResponse, error)
	EnrollStudent(courseID uint, actor *util.Claims, req dto.EnrollStudentRequest) (*dto.EnrollmentResponse, error)
	RemoveStudent(courseID, studentID uint, actor *util.Claims) error
}

type courseService struct {
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	userRepo       repository.UserRepository
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
) CourseService {
	return &courseService{courseRepo: courseRepo, enrollmentRepo: enrollmentRepo, userRepo: userRepo}
}

// ListCourses returns every course for teachers, and only enrolled courses
// for students.
func (s *courseService) ListCourses(actor *util.Claims) ([]dto.CourseResponse, error) {
	var (
		courses []repository.CourseWithStudentCount
		err     error
	)
	if actor.Role == model.RoleStudent {
		courses, err = s.courseRepo.FindAllByStudentWithStudentCount(actor.UserID)
	} else {
		courses, err = s.courseRepo.FindAllWithStudentCount()
	}
	if err != nil {
		return nil, apperr.Internal("listing courses", err)
	}

	resps := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		resps = append(resps, courseResponseFrom(&courses[i]))
	}
	return resps, nil
}

func (s *courseService) GetCourse(id uint, actor *util.Claims) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.FindByIDWithStudentCount(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("course %d not found", id)
		}
		return nil, apperr.Internal("loading course", err)
	}

	if actor.Role == model.RoleStudent {
		enrolled, err := s.enrollmentRepo.Exists(id, actor.UserID)
		if err != nil {
			return nil, apperr.Internal("checking enrollment", err)
		}
		if !enrolled {
			return nil, apperr.Forbidden("not enrolled in this course")
		}
	}

	resp := courseResponseFrom(course)
	return &resp, nil
}

func (s *courseService) CreateCourse(actor *util.Claims, req dto.CourseCreateRequest) (*dto.CourseResponse, error) {
	course := model.Course{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   actor.UserID,
		MaxGrade:    100,
	}
	if req.MaxGrade != nil {
		course.MaxGrade = *req.MaxGrade
	}

	if err := s.courseRepo.Create(&course); err != nil {
		log.Error().Err(err).Msg("CreateCourse: failed to create course")
		return nil, apperr.Internal("creating course", err)
	}

	resp := courseResponseFrom(&repository.CourseWithStudentCount{Course: course})
	return &resp, nil
}

func (s *courseService) UpdateCourse(id uint, actor *util.Claims, req dto.CourseUpdateRequest) (*dto.CourseResponse, error) {
	course, err := s.ownedCourse(id, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.MaxGrade != nil {
		course.MaxGrade = *req.MaxGrade
	}

	if err := s.courseRepo.Update(course); err != nil {
		log.Error().Err(err).Uint("courseID", id).Msg("UpdateCourse: failed to save course")
		return nil, apperr.Internal("updating course", err)
	}

	updated, err := s.courseRepo.FindByIDWithStudentCount(id)
	if err != nil {
		return nil, apperr.Internal("reloading course", err)
	}
	resp := courseResponseFrom(updated)
	return &resp, nil
}

// DeleteCourse cascades: enrollments, assignments, submissions, answers and
// grades go with the course. This is the documented delete policy.
func (s *courseService) DeleteCourse(id uint, actor *util.Claims) error {
	if _, err := s.ownedCourse(id, actor); err != nil {
		return err
	}
	if err := s.courseRepo.DeleteCascade(id); err != nil {
		log.Error().Err(err).Uint("courseID", id).Msg("DeleteCourse: cascade delete failed")
		return apperr.Internal("deleting course", err)
	}
	return nil
}

func (s *courseService) ListStudents(courseID uint, actor *util.Claims) ([]dto.UserResponse, error) {
	if _, err := s.ownedCourse(courseID, actor); err != nil {
		return nil, err
	}
	students, err := s.enrollmentRepo.FindStudentsByCourse(courseID)
	if err != nil {
		return nil, apperr.Internal("listing course students", err)
	}
	resps := make([]dto.UserResponse, 0, len(students))
	for i := range students {
		resps = append(resps, userResponseFrom(&students[i]))
	}
	return resps, nil
}

func (s *courseService) EnrollStudent(courseID uint, actor *util.Claims, req dto.EnrollStudentRequest) (*dto.EnrollmentResponse, error) {
	if _, err := s.ownedCourse(courseID, actor); err != nil {
		return nil, err
	}

	student, err := s.userRepo.FindByID(req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("student %d not found", req.StudentID)
		}
		return nil, apperr.Internal("loading student", err)
	}
	if student.Role != model.RoleStudent {
		return nil, apperr.Validation("user is not a student",
			apperr.FieldError{Field: "student_id", Message: "must reference a student"})
	}

	enrollment := model.Enrollment{StudentID: req.StudentID, CourseID: courseID}
	if err := s.enrollmentRepo.Create(&enrollment); err != nil {
		// The unique index is the authority; a concurrent enroll loses here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("student %d already enrolled in course %d", req.StudentID, courseID)
		}
		log.Error().Err(err).Uint("courseID", courseID).Uint("studentID", req.StudentID).Msg("EnrollStudent: failed to create enrollment")
		return nil, apperr.Internal("enrolling student", err)
	}

	return &dto.EnrollmentResponse{
		ID:        enrollment.ID,
		CourseID:  enrollment.CourseID,
		StudentID: enrollment.StudentID,
		CreatedAt: enrollment.CreatedAt,
	}, nil
}

func (s *courseService) RemoveStudent(courseID, studentID uint, actor *util.Claims) error {
	if _, err := s.ownedCourse(courseID, actor); err != nil {
		return err
	}
	if err := s.enrollmentRepo.Delete(courseID, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("student %d is not enrolled in course %d", studentID, courseID)
		}
		return apperr.Internal("removing enrollment", err)
	}
	return nil
}

// ownedCourse loads the course and verifies the actor teaches it.
func (s *courseService) ownedCourse(id uint, actor *util.Claims) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("course %d not found", id)
		}
		return nil, apperr.Internal("loading course", err)
	}
	if course.TeacherID != actor.UserID {
		return nil, apperr.Forbidden("course belongs to another teacher")
	}
	return course, nil
}

func courseResponseFrom(course *repository.CourseWithStudentCount) dto.CourseResponse {
	return dto.CourseResponse{
		ID:           course.ID,
		Name:         course.Name,
		Description:  course.Description,
		TeacherID:    course.TeacherID,
		MaxGrade:     course.MaxGrade,
		StudentCount: course.StudentCount,
		CreatedAt:    course.CreatedAt,
	}
}
