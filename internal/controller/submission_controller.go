package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gradebook/internal/dto"
	"gradebook/internal/service"
	"gradebook/internal/util"
)

type SubmissionController struct {
	submissionSvc service.SubmissionService
}

func NewSubmissionController(submissionSvc service.SubmissionService) *SubmissionController {
	return &SubmissionController{submissionSvc: submissionSvc}
}

// Create godoc
// @Summary Submit answers for an assignment
// @Description One submission per student per assignment; every question must be answered; late submissions are rejected.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body dto.SubmissionCreateRequest true "Submission with answers"
// @Success 201 {object} dto.SubmissionDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failure"
// @Failure 409 {object} dto.ErrorResponse "Duplicate submission or deadline passed"
// @Router /submissions [post]
func (ctrl *SubmissionController) Create(c *gin.Context) {
	var req dto.SubmissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmissionCreateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.submissionSvc.CreateSubmission(util.GetClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary Get a submission with its answers and grade
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} dto.SubmissionDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /submissions/{id} [get]
func (ctrl *SubmissionController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.submissionSvc.GetSubmission(id, util.GetClaims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Replace answers on a submission
// @Description Rejected with 409 once the submission has been graded.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param submission body dto.SubmissionUpdateRequest true "Replacement answers"
// @Success 200 {object} dto.SubmissionDetailResponse
// @Failure 409 {object} dto.ErrorResponse "Submission already graded"
// @Router /submissions/{id} [put]
func (ctrl *SubmissionController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.SubmissionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.submissionSvc.UpdateSubmission(id, util.GetClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Withdraw a submission
// @Description Only the owning student may withdraw, and only while ungraded; the answers are removed with it.
// @Tags submissions
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 409 {object} dto.ErrorResponse "Submission already graded"
// @Router /submissions/{id} [delete]
func (ctrl *SubmissionController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.submissionSvc.DeleteSubmission(id, util.GetClaims(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListByAssignment godoc
// @Summary List submissions for an assignment
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {array} dto.SubmissionResponse
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{id}/submissions [get]
func (ctrl *SubmissionController) ListByAssignment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.submissionSvc.ListByAssignment(id, util.GetClaims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByStudent godoc
// @Summary List a student's submissions
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {array} dto.SubmissionResponse
// @Router /students/{id}/submissions [get]
func (ctrl *SubmissionController) ListByStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.submissionSvc.ListByStudent(id, util.GetClaims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Grade godoc
// @Summary Grade a submission
// @Description Atomically writes the grade and flips the status to graded; re-grading overwrites grade, comment and gradedAt.
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param grade body dto.GradeRequest true "Grade and comment"
// @Success 200 {object} dto.SubmissionDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Grade out of range"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Router /submissions/{id}/grade [post]
func (ctrl *SubmissionController) Grade(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.submissionSvc.GradeSubmission(id, util.GetClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
