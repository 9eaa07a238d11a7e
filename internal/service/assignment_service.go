package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"gradebook/internal/apperr"
	"gradebook/internal/dto"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	"gradebook/internal/util"
)

type AssignmentService interface {
	CreateAssignment(actor *util.Claims, req dto.AssignmentCreateRequest) (*dto.AssignmentResponse, error)
	GetAssignment(id uint) (*dto.AssignmentResponse, error)
	ListAssignments(courseID *uint) ([]dto.AssignmentSummaryResponse, error)
	UpdateAssignment(id uint, actor *util.Claims, req dto.AssignmentUpdateRequest) (*dto.AssignmentResponse, error)
	DeleteAssignment(id uint, actor *util.Claims) error
	ListQuestions(assignmentID uint) ([]dto.QuestionResponse, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	questionRepo   repository.QuestionRepository
	courseRepo     repository.CourseRepository
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	questionRepo repository.QuestionRepository,
	courseRepo repository.CourseRepository,
) AssignmentService {
	return &assignmentService{assignmentRepo: assignmentRepo, questionRepo: questionRepo, courseRepo: courseRepo}
}

func (s *assignmentService) CreateAssignment(actor *util.Claims, req dto.AssignmentCreateRequest) (*dto.AssignmentResponse, error) {
	course, err := s.courseRepo.FindByID(req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("course %d not found", req.CourseID)
		}
		return nil, apperr.Internal("loading course", err)
	}
	if course.TeacherID != actor.UserID {
		return nil, apperr.Forbidden("course belongs to another teacher")
	}

	if req.Weight < 0 || req.Weight > 100 {
		return nil, apperr.Validation("invalid assignment",
			apperr.FieldError{Field: "weight", Message: "must be between 0 and 100"})
	}
	if len(req.Questions) == 0 {
		return nil, apperr.Validation("invalid assignment",
			apperr.FieldError{Field: "questions", Message: "at least one question is required"})
	}

	orderSeen := make(map[int]bool, len(req.Questions))
	questions := make([]model.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		if orderSeen[q.Order] {
			return nil, apperr.Validation("invalid assignment",
				apperr.FieldError{Field: "questions", Message: fmt.Sprintf("duplicate question order %d", q.Order)})
		}
		orderSeen[q.Order] = true
		questions = append(questions, model.Question{Text: q.Text, Order: q.Order})
	}

	assignment := model.Assignment{
		Name:      req.Name,
		CourseID:  req.CourseID,
		Weight:    req.Weight,
		Deadline:  req.Deadline,
		Questions: questions,
	}
	if err := s.assignmentRepo.Create(&assignment); err != nil {
		log.Error().Err(err).Msg("CreateAssignment: failed to create assignment")
		return nil, apperr.Internal("creating assignment", err)
	}

	created, err := s.assignmentRepo.FindByIDWithQuestions(assignment.ID)
	if err != nil {
		log.Error().Err(err).Uint("assignmentID", assignment.ID).Msg("CreateAssignment: failed to reload assignment")
		created = &assignment
	}
	resp := assignmentResponseFrom(created)
	return &resp, nil
}

func (s *assignmentService) GetAssignment(id uint) (*dto.AssignmentResponse, error) {
	assignment, err := s.assignmentRepo.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("assignment %d not found", id)
		}
		return nil, apperr.Internal("loading assignment", err)
	}
	resp := assignmentResponseFrom(assignment)
	return &resp, nil
}

func (s *assignmentService) ListAssignments(courseID *uint) ([]dto.AssignmentSummaryResponse, error) {
	assignments, err := s.assignmentRepo.FindAllWithQuestionCount(courseID)
	if err != nil {
		return nil, apperr.Internal("listing assignments", err)
	}

	resps := make([]dto.AssignmentSummaryResponse, 0, len(assignments))
	for _, a := range assignments {
		resps = append(resps, dto.AssignmentSummaryResponse{
			ID:            a.ID,
			Name:          a.Name,
			CourseID:      a.CourseID,
			Weight:        a.Weight,
			Deadline:      a.Deadline,
			QuestionCount: a.QuestionCount,
			CreatedAt:     a.CreatedAt,
		})
	}
	return resps, nil
}

// UpdateAssignment patches metadata only; questions are immutable after
// creation.
func (s *assignmentService) UpdateAssignment(id uint, actor *util.Claims, req dto.AssignmentUpdateRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.ownedAssignment(id, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		assignment.Name = *req.Name
	}
	if req.Weight != nil {
		if *req.Weight < 0 || *req.Weight > 100 {
			return nil, apperr.Validation("invalid assignment",
				apperr.FieldError{Field: "weight", Message: "must be between 0 and 100"})
		}
		assignment.Weight = *req.Weight
	}
	if req.Deadline != nil {
		assignment.Deadline = *req.Deadline
	}

	if err := s.assignmentRepo.Update(assignment); err != nil {
		log.Error().Err(err).Uint("assignmentID", id).Msg("UpdateAssignment: failed to save assignment")
		return nil, apperr.Internal("updating assignment", err)
	}

	updated, err := s.assignmentRepo.FindByIDWithQuestions(id)
	if err != nil {
		return nil, apperr.Internal("reloading assignment", err)
	}
	resp := assignmentResponseFrom(updated)
	return &resp, nil
}

func (s *assignmentService) DeleteAssignment(id uint, actor *util.Claims) error {
	if _, err := s.ownedAssignment(id, actor); err != nil {
		return err
	}
	if err := s.assignmentRepo.DeleteCascade(id); err != nil {
		log.Error().Err(err).Uint("assignmentID", id).Msg("DeleteAssignment: cascade delete failed")
		return apperr.Internal("deleting assignment", err)
	}
	return nil
}

func (s *assignmentService) ListQuestions(assignmentID uint) ([]dto.QuestionResponse, error) {
	if _, err := s.assignmentRepo.FindByID(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("assignment %d not found", assignmentID)
		}
		return nil, apperr.Internal("loading assignment", err)
	}

	questions, err := s.questionRepo.FindByAssignmentID(assignmentID)
	if err != nil {
		return nil, apperr.Internal("listing questions", err)
	}

	resps := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		var q dto.QuestionResponse
		copier.Copy(&q, &questions[i])
		resps = append(resps, q)
	}
	return resps, nil
}

func (s *assignmentService) ownedAssignment(id uint, actor *util.Claims) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("assignment %d not found", id)
		}
		return nil, apperr.Internal("loading assignment", err)
	}
	course, err := s.courseRepo.FindByID(assignment.CourseID)
	if err != nil {
		return nil, apperr.Internal("loading course", err)
	}
	if course.TeacherID != actor.UserID {
		return nil, apperr.Forbidden("course belongs to another teacher")
	}
	return assignment, nil
}

func assignmentResponseFrom(assignment *model.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:            assignment.ID,
		Name:          assignment.Name,
		CourseID:      assignment.CourseID,
		Weight:        assignment.Weight,
		Deadline:      assignment.Deadline,
		QuestionCount: len(assignment.Questions),
		CreatedAt:     assignment.CreatedAt,
	}
	for i := range assignment.Questions {
		var q dto.QuestionResponse
		copier.Copy(&q, &assignment.Questions[i])
		resp.Questions = append(resp.Questions, q)
	}
	return resp
}
