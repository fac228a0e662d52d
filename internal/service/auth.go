package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/LithiumKitmap/Site/internal/hash"
	"github.com/LithiumKitmap/Site/internal/models"
	"github.com/LithiumKitmap/Site/internal/repo"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	Repo *repo.GormRepo
}

// Register creates a plain user account. Every new identity starts at
// role=user with an empty cagnotte.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		Cagnotte:     0,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user already exists: %w", ErrValidation)
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthenticated)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid email or password: %w", ErrUnauthenticated)
	}
	return user, nil
}

// CurrentUser refreshes the session identity from the store. A failed
// refresh keeps the stale identity rather than erroring: the caller passes
// what it already knows and gets it back.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID, stale *models.User) *models.User {
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return stale
	}
	return user
}
