package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gradebook/internal/dto"
	"gradebook/internal/model"
	"gradebook/internal/service"
)

type UserController struct {
	userSvc service.UserService
}

func NewUserController(userSvc service.UserService) *UserController {
	return &UserController{userSvc: userSvc}
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.UserCreateRequest true "User draft"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failure, including duplicate email"
// @Router /users [post]
func (ctrl *UserController) Register(c *gin.Context) {
	var req dto.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind UserCreateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.userSvc.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role (teacher or student)"
// @Success 200 {array} dto.UserResponse
// @Router /users [get]
func (ctrl *UserController) List(c *gin.Context) {
	var role *model.UserRole
	if roleStr := c.Query("role"); roleStr != "" {
		r := model.UserRole(roleStr)
		if r != model.RoleTeacher && r != model.RoleStudent {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "role must be teacher or student"})
			return
		}
		role = &r
	}

	resp, err := ctrl.userSvc.ListUsers(role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (ctrl *UserController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.userSvc.GetUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Update a user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param patch body dto.UserUpdateRequest true "Profile patch"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [put]
func (ctrl *UserController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.userSvc.UpdateUser(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Delete a user
// @Description Rejected with 409 while enrollments or submissions reference the user, unless cascade=true.
// @Tags users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param cascade query bool false "Also delete enrollments, submissions, answers and grades"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "User still referenced"
// @Router /users/{id} [delete]
func (ctrl *UserController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	cascade, _ := strconv.ParseBool(c.DefaultQuery("cascade", "false"))

	if err := ctrl.userSvc.DeleteUser(id, cascade); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
