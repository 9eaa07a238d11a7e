package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"gradebook/internal/apperr"
	"gradebook/internal/dto"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	"gradebook/internal/util"
)

type SubmissionService interface {
	CreateSubmission(actor *util.Claims, req dto.SubmissionCreateRequest) (*dto.SubmissionDetailResponse, error)
	GetSubmission(id uint, actor *util.Claims) (*dto.SubmissionDetailResponse, error)
	UpdateSubmission(id uint, actor *util.Claims, req dto.SubmissionUpdateRequest) (*dto.SubmissionDetailResponse, error)
	DeleteSubmission(id uint, actor *util.Claims) error
	ListByAssignment(assignmentID uint, actor *util.Claims) ([]dto.SubmissionResponse, error)
	ListByStudent(studentID uint, actor *util.Claims) ([]dto.SubmissionResponse, error)
	GradeSubmission(id uint, actor *util.Claims, req dto.GradeRequest) (*dto.SubmissionDetailResponse, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	answerRepo     repository.AnswerRepository
	assignmentRepo repository.AssignmentRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	answerRepo repository.AnswerRepository,
	assignmentRepo repository.AssignmentRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		answerRepo:     answerRepo,
		assignmentRepo: assignmentRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *submissionService) CreateSubmission(actor *util.Claims, req dto.SubmissionCreateRequest) (*dto.SubmissionDetailResponse, error) {
	assignment, err := s.assignmentRepo.FindByIDWithQuestions(req.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("assignment %d not found", req.AssignmentID)
		}
		return nil, apperr.Internal("loading assignment", err)
	}

	enrolled, err := s.enrollmentRepo.Exists(assignment.CourseID, actor.UserID)
	if err != nil {
		return nil, apperr.Internal("checking enrollment", err)
	}
	if !enrolled {
		return nil, apperr.Forbidden("not enrolled in this course")
	}

	// Late submissions are rejected, not flagged.
	if time.Now().After(assignment.Deadline) {
		return nil, apperr.Conflict("deadline for assignment %d has passed", assignment.ID)
	}

	if _, err := s.submissionRepo.FindByStudentAndAssignment(actor.UserID, req.AssignmentID); err == nil {
		return nil, apperr.Conflict("assignment %d already submitted", req.AssignmentID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("checking existing submission", err)
	}

	questionIDs := make(map[uint]bool, len(assignment.Questions))
	for _, q := range assignment.Questions {
		questionIDs[q.ID] = true
	}

	answered := make(map[uint]bool, len(req.Answers))
	answers := make([]model.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		if !questionIDs[a.QuestionID] {
			return nil, apperr.Validation("invalid submission",
				apperr.FieldError{Field: "answers", Message: fmt.Sprintf("question %d is not part of this assignment", a.QuestionID)})
		}
		if answered[a.QuestionID] {
			return nil, apperr.Validation("invalid submission",
				apperr.FieldError{Field: "answers", Message: fmt.Sprintf("duplicate answer for question %d", a.QuestionID)})
		}
		answered[a.QuestionID] = true
		answers = append(answers, model.Answer{QuestionID: a.QuestionID, Text: a.Text})
	}
	if len(answered) != len(assignment.Questions) {
		return nil, apperr.Validation("invalid submission",
			apperr.FieldError{Field: "answers", Message: "all questions must be answered"})
	}

	submission := model.Submission{
		StudentID:    actor.UserID,
		AssignmentID: req.AssignmentID,
		SubmittedAt:  time.Now(),
		Status:       model.SubmissionStatusSubmitted,
		Answers:      answers,
	}
	if err := s.submissionRepo.Create(&submission); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("assignment %d already submitted", req.AssignmentID)
		}
		log.Error().Err(err).Uint("assignmentID", req.AssignmentID).Msg("CreateSubmission: failed to create submission")
		return nil, apperr.Internal("creating submission", err)
	}

	return s.detailResponse(submission.ID)
}

func (s *submissionService) GetSubmission(id uint, actor *util.Claims) (*dto.SubmissionDetailResponse, error) {
	submission, err := s.submissionRepo.FindByIDWithDetails(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("submission %d not found", id)
		}
		return nil, apperr.Internal("loading submission", err)
	}

	if err := s.authorizeRead(submission, actor); err != nil {
		return nil, err
	}

	resp := submissionDetailFrom(submission)
	return &resp, nil
}

// UpdateSubmission replaces answer texts; a graded submission is immutable.
func (s *submissionService) UpdateSubmission(id uint, actor *util.Claims, req dto.SubmissionUpdateRequest) (*dto.SubmissionDetailResponse, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("submission %d not found", id)
		}
		return nil, apperr.Internal("loading submission", err)
	}

	if submission.StudentID != actor.UserID {
		return nil, apperr.Forbidden("submission belongs to another student")
	}
	if submission.Status == model.SubmissionStatusGraded {
		return nil, apperr.Conflict("submission %d already graded", id)
	}

	existing, err := s.answerRepo.FindBySubmissionID(id)
	if err != nil {
		return nil, apperr.Internal("loading answers", err)
	}
	byQuestion := make(map[uint]*model.Answer, len(existing))
	for i := range existing {
		byQuestion[existing[i].QuestionID] = &existing[i]
	}

	updated := make([]model.Answer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answer, ok := byQuestion[a.QuestionID]
		if !ok {
			return nil, apperr.Validation("invalid submission update",
				apperr.FieldError{Field: "answers", Message: fmt.Sprintf("no answer exists for question %d", a.QuestionID)})
		}
		answer.Text = a.Text
		updated = append(updated, *answer)
	}
	if err := s.answerRepo.UpdateAll(updated); err != nil {
		log.Error().Err(err).Uint("submissionID", id).Msg("UpdateSubmission: failed to save answers")
		return nil, apperr.Internal("updating answers", err)
	}

	return s.detailResponse(id)
}

// DeleteSubmission lets the owning student withdraw a submission while it is
// still ungraded; the answers go with it.
func (s *submissionService) DeleteSubmission(id uint, actor *util.Claims) error {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("submission %d not found", id)
		}
		return apperr.Internal("loading submission", err)
	}

	if submission.StudentID != actor.UserID {
		return apperr.Forbidden("submission belongs to another student")
	}
	if submission.Status == model.SubmissionStatusGraded {
		return apperr.Conflict("submission %d already graded", id)
	}

	if err := s.submissionRepo.DeleteCascade(id); err != nil {
		log.Error().Err(err).Uint("submissionID", id).Msg("DeleteSubmission: cascade delete failed")
		return apperr.Internal("deleting submission", err)
	}
	return nil
}

func (s *submissionService) ListByAssignment(assignmentID uint, actor *util.Claims) ([]dto.SubmissionResponse, error) {
	assignment, err := s.assignmentRepo.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("assignment %d not found", assignmentID)
		}
		return nil, apperr.Internal("loading assignment", err)
	}
	if err := s.authorizeCourseOwner(assignment.CourseID, actor); err != nil {
		return nil, err
	}

	submissions, err := s.submissionRepo.FindAllByAssignment(assignmentID)
	if err != nil {
		return nil, apperr.Internal("listing submissions", err)
	}
	return submissionResponsesFrom(submissions), nil
}

func (s *submissionService) ListByStudent(studentID uint, actor *util.Claims) ([]dto.SubmissionResponse, error) {
	switch actor.Role {
	case model.RoleStudent:
		if actor.UserID != studentID {
			return nil, apperr.Forbidden("students may only view their own submissions")
		}
	case model.RoleTeacher:
		shared, err := s.enrollmentRepo.ExistsByStudentAndTeacher(studentID, actor.UserID)
		if err != nil {
			return nil, apperr.Internal("checking enrollment", err)
		}
		if !shared {
			return nil, apperr.Forbidden("student is not enrolled in any of your courses")
		}
	}

	submissions, err := s.submissionRepo.FindAllByStudent(studentID)
	if err != nil {
		return nil, apperr.Internal("listing submissions", err)
	}
	return submissionResponsesFrom(submissions), nil
}

// GradeSubmission upserts the grade and flips the status in one transaction.
// Re-grading overwrites grade, comment and gradedAt; the status stays graded.
func (s *submissionService) GradeSubmission(id uint, actor *util.Claims, req dto.GradeRequest) (*dto.SubmissionDetailResponse, error) {
	submission, err := s.submissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("submission %d not found", id)
		}
		return nil, apperr.Internal("loading submission", err)
	}

	assignment, err := s.assignmentRepo.FindByID(submission.AssignmentID)
	if err != nil {
		return nil, apperr.Internal("loading assignment", err)
	}
	course, err := s.courseRepo.FindByID(assignment.CourseID)
	if err != nil {
		return nil, apperr.Internal("loading course", err)
	}
	if course.TeacherID != actor.UserID {
		return nil, apperr.Forbidden("course belongs to another teacher")
	}

	value := *req.Grade
	if value < 0 || value > course.MaxGrade {
		return nil, apperr.Validation("invalid grade",
			apperr.FieldError{Field: "grade", Message: fmt.Sprintf("must be between 0 and %g", course.MaxGrade)})
	}

	grade := model.Grade{
		SubmissionID: id,
		Grade:        value,
		Comment:      req.Comment,
		GradedAt:     time.Now(),
	}
	if err := s.submissionRepo.Grade(submission, &grade); err != nil {
		log.Error().Err(err).Uint("submissionID", id).Msg("GradeSubmission: transaction failed")
		return nil, apperr.Internal("grading submission", err)
	}

	return s.detailResponse(id)
}

func (s *submissionService) detailResponse(id uint) (*dto.SubmissionDetailResponse, error) {
	submission, err := s.submissionRepo.FindByIDWithDetails(id)
	if err != nil {
		log.Error().Err(err).Uint("submissionID", id).Msg("Failed to reload submission details")
		return nil, apperr.Internal("reloading submission", err)
	}
	resp := submissionDetailFrom(submission)
	return &resp, nil
}

// authorizeRead allows the owning student, or the teacher of the course the
// submission's assignment belongs to.
func (s *submissionService) authorizeRead(submission *model.Submission, actor *util.Claims) error {
	if actor.Role == model.RoleStudent {
		if submission.StudentID != actor.UserID {
			return apperr.Forbidden("submission belongs to another student")
		}
		return nil
	}
	assignment, err := s.assignmentRepo.FindByID(submission.AssignmentID)
	if err != nil {
		return apperr.Internal("loading assignment", err)
	}
	return s.authorizeCourseOwner(assignment.CourseID, actor)
}

func (s *submissionService) authorizeCourseOwner(courseID uint, actor *util.Claims) error {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return apperr.Internal("loading course", err)
	}
	if course.TeacherID != actor.UserID {
		return apperr.Forbidden("course belongs to another teacher")
	}
	return nil
}

func submissionResponsesFrom(submissions []model.Submission) []dto.SubmissionResponse {
	resps := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		resps = append(resps, dto.SubmissionResponse{
			ID:           sub.ID,
			StudentID:    sub.StudentID,
			AssignmentID: sub.AssignmentID,
			SubmittedAt:  sub.SubmittedAt,
			Status:       sub.Status,
		})
	}
	return resps
}

func submissionDetailFrom(submission *model.Submission) dto.SubmissionDetailResponse {
	resp := dto.SubmissionDetailResponse{
		ID:           submission.ID,
		StudentID:    submission.StudentID,
		AssignmentID: submission.AssignmentID,
		SubmittedAt:  submission.SubmittedAt,
		Status:       submission.Status,
	}
	for i := range submission.Answers {
		var a dto.AnswerResponse
		copier.Copy(&a, &submission.Answers[i])
		if submission.Answers[i].Question.ID != 0 {
			var q dto.QuestionResponse
			copier.Copy(&q, &submission.Answers[i].Question)
			a.Question = q
		}
		resp.Answers = append(resp.Answers, a)
	}
	if submission.Grade != nil {
		resp.Grade = &dto.GradeResponse{
			SubmissionID: submission.Grade.SubmissionID,
			Grade:        submission.Grade.Grade,
			Comment:      submission.Grade.Comment,
			GradedAt:     submission.Grade.GradedAt,
		}
	}
	return resp
}
