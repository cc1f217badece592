package user

import (
	"context"
	"errors"
	"strings"

	"kivumart-be/internal/logger"
	"kivumart-be/internal/utils"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type Service interface {
	Register(ctx context.Context, params RegisterParams) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	HasRole(ctx context.Context, userID uint, role string) (bool, error)
	GetProfile(ctx context.Context, userID uint) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, params RegisterParams) (*User, string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || params.Password == "" {
		return nil, "", errors.New("email and password are required")
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, "", err
	}

	u, err := s.repo.Create(ctx, &User{
		Email:        email,
		PasswordHash: hash,
		Name:         params.Name,
		Phone:        utils.NormalizePhoneRW(params.Phone),
		Role:         utils.RoleCustomer,
	})
	if err != nil {
		log.Warn("registration failed", zap.Error(err))
		return nil, "", err
	}

	token, err := GenerateJWT(u.ID, u.Role, u.Email)
	if err != nil {
		return nil, "", err
	}

	log.Info("user registered", zap.Uint("user_id", u.ID))
	return u, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !CheckPasswordHash(password, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, u.Role, u.Email)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *service) HasRole(ctx context.Context, userID uint, role string) (bool, error) {
	return s.repo.HasRole(ctx, userID, role)
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, p *Profile) error {
	if p.UserID == 0 {
		return errors.New("user ID is required")
	}
	return s.repo.UpdateProfile(ctx, p)
}
