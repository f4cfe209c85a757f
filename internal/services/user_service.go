package services

import (
	"context"
	"strings"

	"storeadmin/internal/models"
	"storeadmin/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// UserService handles business logic related to customer accounts.
type UserService struct {
	repo     repositories.UserRepository
	validate *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo:     repo,
		validate: newValidator(),
	}
}

// ListUsers retrieves all users whose phone number contains phoneQuery,
// ignoring case. An empty query returns every user.
func (s *UserService) ListUsers(ctx context.Context, phoneQuery string) ([]models.User, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(phoneQuery))
	if q == "" {
		return users, nil
	}
	filtered := make([]models.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.PhoneNumber), q) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// GetUser retrieves a single user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateUser validates and stores a new user.
func (s *UserService) CreateUser(ctx context.Context, user *models.User) error {
	user.Normalize()
	if err := validateStruct(s.validate, user); err != nil {
		return err
	}
	return s.repo.Create(ctx, user)
}

// UpdateUser writes name, address, phone number and role of an existing user.
func (s *UserService) UpdateUser(ctx context.Context, id string, user *models.User) error {
	user.Normalize()
	if err := validateStruct(s.validate, user); err != nil {
		return err
	}
	user.ID = id
	return s.repo.Update(ctx, user)
}

// DeleteUser deletes a user by ID. An unknown ID yields docstore.ErrNotFound.
// The user's orders are kept.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
