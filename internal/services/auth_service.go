package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pdv_desk/internal/models"
	"pdv_desk/internal/repositories"
	"pdv_desk/pkg/utils"
)

// AuthService registers users and issues bearer tokens.
type AuthService interface {
	Register(ctx context.Context, req models.RegistrationPayload) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.Credentials) (*models.AuthResponse, error)
	GetUserProfile(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	userRepo      repositories.UserRepository
	db            *sqlx.DB
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repositories.UserRepository, db *sqlx.DB, jwtSecret string, jwtExp time.Duration) AuthService {
	return &authService{
		userRepo:      userRepo,
		db:            db,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExp,
	}
}

func (s *authService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Email, user.Nome)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return &models.AuthResponse{Success: true, Token: token, Usuario: user}, nil
}

// Register creates the user with a bcrypt hash and logs them in.
func (s *authService) Register(ctx context.Context, req models.RegistrationPayload) (*models.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if utils.IsEmpty(req.Nome) || !utils.IsValidEmail(req.Email) || req.Senha == "" {
		return nil, fmt.Errorf("%w: nome, email válido e senha são obrigatórios", ErrValidation)
	}

	hashed, err := utils.HashPassword(req.Senha)
	if err != nil {
		return nil, err
	}

	id, err := s.userRepo.CreateUser(ctx, s.db, strings.TrimSpace(req.Nome), req.Email, hashed)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user, err := s.userRepo.FindUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user registered but failed to retrieve full details: %w", err)
	}
	return s.issue(user)
}

// Login verifies the credentials. Unknown email and wrong password are indistinguishable.
func (s *authService) Login(ctx context.Context, req models.Credentials) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}
	if !utils.CheckPassword(user.Senha, req.Senha) {
		return nil, ErrInvalidCredentials
	}

	if utils.IsLegacyHash(user.Senha) {
		if hashed, err := utils.HashPassword(req.Senha); err == nil {
			if err := s.userRepo.UpdatePassword(ctx, s.db, user.ID, hashed); err != nil {
				utils.LogWarn(err, "Failed to upgrade legacy password hash", map[string]interface{}{"user_id": user.ID})
			}
		}
	}
	return s.issue(user)
}

func (s *authService) GetUserProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
