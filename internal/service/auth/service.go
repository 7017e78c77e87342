package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medease/medease-api/internal/email"
	"github.com/medease/medease-api/internal/model"
	"github.com/medease/medease-api/internal/repository"
	"github.com/medease/medease-api/pkg/auth"
	apperrors "github.com/medease/medease-api/pkg/errors"
	"github.com/medease/medease-api/pkg/logger"
	"github.com/medease/medease-api/pkg/security"
)

// Service handles patient signup and signin.
type Service struct {
	users  repository.UserRepository
	hasher security.PasswordHasher
	jwt    auth.JWTService
	mailer email.Service
	log    *logger.Logger
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, jwt auth.JWTService, mailer email.Service, log *logger.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		jwt:    jwt,
		mailer: mailer,
		log:    log,
	}
}

// Register creates a user with the PATIENT role plus the linked patient
// profile, then issues a token so signup doubles as signin.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.Conflict("Email is already in use")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Gender:       req.Gender,
		Roles:        []string{model.RolePatient},
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, apperrors.Validation("Invalid date of birth format, expected YYYY-MM-DD")
		}
		user.DateOfBirth = &dob
	}

	patient := &model.Patient{}
	if err := s.users.RegisterPatient(ctx, user, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("Email is already in use")
		}
		return nil, fmt.Errorf("failed to register patient: %w", err)
	}

	// Best effort; signup never fails on a mail error.
	if err := s.mailer.SendWelcome(ctx, user.Email, user.FirstName); err != nil {
		s.log.Error(err, "failed to send welcome email")
	}

	return s.buildAuthResponse(user)
}

// Login verifies credentials and issues a token. Invalid email and
// invalid password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	return s.buildAuthResponse(user)
}

func (s *Service) buildAuthResponse(user *model.User) (*model.AuthResponse, error) {
	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.AuthResponse{
		Token:     token,
		Type:      "Bearer",
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
	}, nil
}
