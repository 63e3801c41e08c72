package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"servicemarket/internal/domain"
	"servicemarket/internal/pkg/validator"
	"servicemarket/internal/repository"
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

// Service contains all business logic for authentication
type Service struct {
	users    UserRepositoryInterface
	profiles AgentProfileWriter
	jwt      jwtService
}

func NewService(users UserRepositoryInterface, profiles AgentProfileWriter, jwt jwtService) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		jwt:      jwt,
	}
}

func (s *Service) RegisterClient(ctx context.Context, req RegisterClientRequest) (*domain.User, string, error) {
	user := &domain.User{
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Name:  req.Name,
		Phone: req.Phone,
		Role:  domain.RoleClient,
	}
	if errs := validator.Validate(user); errs != nil {
		return nil, "", ErrInvalidUserData
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) RegisterAgent(ctx context.Context, req RegisterAgentRequest) (*domain.User, string, error) {
	user := &domain.User{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Name:        req.Name,
		Phone:       req.Phone,
		Role:        domain.RoleAgent,
		AgentStatus: domain.AgentPending,
	}
	if errs := validator.Validate(user); errs != nil {
		return nil, "", ErrInvalidUserData
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailAlreadyExists
		}
		return nil, "", err
	}

	if s.profiles != nil {
		profile := &domain.AgentProfile{
			UserID:   user.ID,
			Bio:      req.Bio,
			Skills:   req.Skills,
			YearsExp: req.YearsExp,
		}
		if err := s.profiles.CreateProfile(ctx, profile); err != nil {
			return nil, "", err
		}
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) GetMe(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
