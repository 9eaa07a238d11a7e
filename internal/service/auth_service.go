package service

import (
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gradebook/config"
	"gradebook/internal/apperr"
	"gradebook/internal/dto"
	"gradebook/internal/repository"
	"gradebook/internal/util"
)

type AuthService interface {
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	Session(userID uint) (*dto.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

func (s *authService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Msg("Login: failed to look up user by email")
		}
		// Same error for unknown email and bad password.
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.TTL)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Login: failed to sign session token")
		return nil, apperr.Internal("signing session token", err)
	}

	return &dto.LoginResponse{Token: token, User: userResponseFrom(user)}, nil
}

func (s *authService) Session(userID uint) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthenticated("session user no longer exists")
		}
		return nil, apperr.Internal("loading session user", err)
	}
	resp := userResponseFrom(user)
	return &resp, nil
}
