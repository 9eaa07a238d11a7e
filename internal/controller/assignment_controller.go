package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gradebook/internal/dto"
	"gradebook/internal/service"
	"gradebook/internal/util"
)

type AssignmentController struct {
	assignmentSvc service.AssignmentService
}

func NewAssignmentController(assignmentSvc service.AssignmentService) *AssignmentController {
	return &AssignmentController{assignmentSvc: assignmentSvc}
}

// Create godoc
// @Summary Create an assignment with its questions
// @Description Weight must be within [0,100], at least one question is required, and question orders must be unique.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body dto.AssignmentCreateRequest true "Assignment draft including questions"
// @Success 201 {object} dto.AssignmentResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failure"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /assignments [post]
func (ctrl *AssignmentController) Create(c *gin.Context) {
	var req dto.AssignmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind AssignmentCreateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.assignmentSvc.CreateAssignment(util.GetClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List assignments
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param course_id query int false "Filter by course"
// @Success 200 {array} dto.AssignmentSummaryResponse
// @Router /assignments [get]
func (ctrl *AssignmentController) List(c *gin.Context) {
	var courseID *uint
	if courseStr := c.Query("course_id"); courseStr != "" {
		parsed, err := strconv.ParseUint(courseStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid course_id format"})
			return
		}
		id := uint(parsed)
		courseID = &id
	}

	resp, err := ctrl.assignmentSvc.ListAssignments(courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByCourse godoc
// @Summary List assignments of a course
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {array} dto.AssignmentSummaryResponse
// @Router /courses/{id}/assignments [get]
func (ctrl *AssignmentController) ListByCourse(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.assignmentSvc.ListAssignments(&id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get an assignment with its questions
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id} [get]
func (ctrl *AssignmentController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.assignmentSvc.GetAssignment(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Update assignment metadata
// @Description Patches name, weight or deadline; the question list is immutable after creation.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param patch body dto.AssignmentUpdateRequest true "Metadata patch"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id} [put]
func (ctrl *AssignmentController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.AssignmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.assignmentSvc.UpdateAssignment(id, util.GetClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete an assignment
// @Description Cascades to questions, submissions, answers and grades.
// @Tags assignments
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id} [delete]
func (ctrl *AssignmentController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.assignmentSvc.DeleteAssignment(id, util.GetClaims(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListQuestions godoc
// @Summary List an assignment's questions in display order
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {array} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id}/questions [get]
func (ctrl *AssignmentController) ListQuestions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.assignmentSvc.ListQuestions(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
