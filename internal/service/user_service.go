package service

import (
	"errors"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gradebook/internal/apperr"
	"gradebook/internal/dto"
	"gradebook/internal/model"
	"gradebook/internal/repository"
)

type UserService interface {
	Register(req dto.UserCreateRequest) (*dto.UserResponse, error)
	GetUser(id uint) (*dto.UserResponse, error)
	ListUsers(role *model.UserRole) ([]dto.UserResponse, error)
	UpdateUser(id uint, req dto.UserUpdateRequest) (*dto.UserResponse, error)
	DeleteUser(id uint, cascade bool) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(req dto.UserCreateRequest) (*dto.UserResponse, error) {
	if fields := checkPasswordStrength(req.Password); len(fields) > 0 {
		return nil, apperr.Validation("password does not meet requirements", fields...)
	}

	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, apperr.Validation("email already registered",
			apperr.FieldError{Field: "email", Message: "already in use"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("checking email uniqueness", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("hashing password", err)
	}

	user := model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     model.UserRole(req.Role),
	}
	if err := s.userRepo.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation("email already registered",
				apperr.FieldError{Field: "email", Message: "already in use"})
		}
		log.Error().Err(err).Msg("Register: failed to create user")
		return nil, apperr.Internal("creating user", err)
	}

	resp := userResponseFrom(&user)
	return &resp, nil
}

func (s *userService) GetUser(id uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, apperr.Internal("loading user", err)
	}
	resp := userResponseFrom(user)
	return &resp, nil
}

func (s *userService) ListUsers(role *model.UserRole) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll(role)
	if err != nil {
		return nil, apperr.Internal("listing users", err)
	}
	resps := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resps = append(resps, userResponseFrom(&users[i]))
	}
	return resps, nil
}

func (s *userService) UpdateUser(id uint, req dto.UserUpdateRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %d not found", id)
		}
		return nil, apperr.Internal("loading user", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		if existing, err := s.userRepo.FindByEmail(*req.Email); err == nil && existing.ID != id {
			return nil, apperr.Validation("email already registered",
				apperr.FieldError{Field: "email", Message: "already in use"})
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Internal("checking email uniqueness", err)
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		if fields := checkPasswordStrength(*req.Password); len(fields) > 0 {
			return nil, apperr.Validation("password does not meet requirements", fields...)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Internal("hashing password", err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		log.Error().Err(err).Uint("userID", id).Msg("UpdateUser: failed to save user")
		return nil, apperr.Internal("updating user", err)
	}
	resp := userResponseFrom(user)
	return &resp, nil
}

// DeleteUser removes a user. Without cascade the delete is rejected with a
// Conflict while enrollments or submissions still reference the user.
func (s *userService) DeleteUser(id uint, cascade bool) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user %d not found", id)
		}
		return apperr.Internal("loading user", err)
	}

	if !cascade {
		hasDeps, err := s.userRepo.HasDependents(id)
		if err != nil {
			return apperr.Internal("checking user references", err)
		}
		if hasDeps {
			return apperr.Conflict("user %d has enrollments or submissions; delete with cascade=true", id)
		}
		if err := s.userRepo.Delete(id); err != nil {
			return apperr.Internal("deleting user", err)
		}
		return nil
	}

	if err := s.userRepo.DeleteCascade(id); err != nil {
		log.Error().Err(err).Uint("userID", id).Msg("DeleteUser: cascade delete failed")
		return apperr.Internal("deleting user", err)
	}
	return nil
}

func userResponseFrom(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

func checkPasswordStrength(password string) []apperr.FieldError {
	var fields []apperr.FieldError
	if len(password) < 8 {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasLower {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "must contain a lowercase letter"})
	}
	if !hasUpper {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "must contain an uppercase letter"})
	}
	if !hasDigit {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "must contain a digit"})
	}
	if !hasSpecial {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "must contain a special character"})
	}
	return fields
}
