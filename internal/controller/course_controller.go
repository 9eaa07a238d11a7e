package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gradebook/internal/dto"
	"gradebook/internal/service"
	"gradebook/internal/util"
)

type CourseController struct {
	courseSvc service.CourseService
}

func NewCourseController(courseSvc service.CourseService) *CourseController {
	return &CourseController{courseSvc: courseSvc}
}

// List godoc
// @Summary List courses
// @Description Teachers see every course; students see only courses they are enrolled in.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.CourseResponse
// @Router /courses [get]
func (ctrl *CourseController) List(c *gin.Context) {
	resp, err := ctrl.courseSvc.ListCourses(util.GetClaims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a course by ID
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.CourseResponse
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (ctrl *CourseController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.courseSvc.GetCourse(id, util.GetClaims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body dto.CourseCreateRequest true "Course draft"
// @Success 201 {object} dto.CourseResponse
// @Failure 400 {object} dto.ErrorResponse "Malformed request body"
// @Router /courses [post]
func (ctrl *CourseController) Create(c *gin.Context) {
	var req dto.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CourseCreateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.courseSvc.CreateCourse(util.GetClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param patch body dto.CourseUpdateRequest true "Course patch"
// @Success 200 {object} dto.CourseResponse
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [put]
func (ctrl *CourseController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.CourseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.courseSvc.UpdateCourse(id, util.GetClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a course
// @Description Cascades to enrollments, assignments, submissions, answers and grades.
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (ctrl *CourseController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.courseSvc.DeleteCourse(id, util.GetClaims(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListStudents godoc
// @Summary List students enrolled in a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {array} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/students [get]
func (ctrl *CourseController) ListStudents(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.courseSvc.ListStudents(id, util.GetClaims(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EnrollStudent godoc
// @Summary Enroll a student in a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param enrollment body dto.EnrollStudentRequest true "Student to enroll"
// @Success 201 {object} dto.EnrollmentResponse
// @Failure 409 {object} dto.ErrorResponse "Student already enrolled"
// @Router /courses/{id}/students [post]
func (ctrl *CourseController) EnrollStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.EnrollStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.courseSvc.EnrollStudent(id, util.GetClaims(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RemoveStudent godoc
// @Summary Remove a student from a course
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param student_id path int true "Student ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Student not enrolled"
// @Router /courses/{id}/students/{student_id} [delete]
func (ctrl *CourseController) RemoveStudent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	studentID, ok := parseID(c, "student_id")
	if !ok {
		return
	}
	if err := ctrl.courseSvc.RemoveStudent(id, studentID, util.GetClaims(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
