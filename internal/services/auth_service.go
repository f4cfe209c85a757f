package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storeadmin/internal/models"
	"storeadmin/internal/repositories"
	"storeadmin/pkg/docstore"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// SignInRequest holds the credentials of a dashboard operator.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AuthService handles sign-in for dashboard operators.
type AuthService struct {
	adminRepo  repositories.AdminRepository
	validate   *validator.Validate
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		validate:   newValidator(),
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterAdmin stores a new operator account with a hashed password.
func (s *AuthService) RegisterAdmin(admin *models.AdminAccount) error {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if err := validateStruct(s.validate, admin); err != nil {
		return err
	}

	existing, err := s.adminRepo.GetByEmail(admin.Email)
	switch {
	case err == nil && existing != nil:
		return fmt.Errorf("email '%s': %w", admin.Email, ErrConflict)
	case err != nil && !errors.Is(err, docstore.ErrNotFound):
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.Password = string(hashedPassword)

	if err := s.adminRepo.Create(admin); err != nil {
		return fmt.Errorf("failed to register admin: %w", err)
	}
	return nil
}

// EnsureAdmin registers the operator account unless one with the same email exists.
func (s *AuthService) EnsureAdmin(email, password string) error {
	err := s.RegisterAdmin(&models.AdminAccount{Email: email, Password: password})
	if errors.Is(err, ErrConflict) {
		return nil
	}
	return err
}

// SignIn checks an operator's credentials and returns a JWT on success.
func (s *AuthService) SignIn(req SignInRequest) (string, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(s.validate, req); err != nil {
		return "", err
	}

	admin, err := s.adminRepo.GetByEmail(req.Email)
	if err != nil {
		// Do not reveal whether the account exists.
		log.Printf("Sign-in lookup for %s failed: %v", req.Email, err)
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// Authenticate validates tokenString and loads the operator it was issued to.
// A token for an account that no longer exists yields ErrInvalidCredentials.
func (s *AuthService) Authenticate(tokenString string) (*models.AdminAccount, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	adminID, _ := claims["admin_id"].(string)
	if adminID == "" {
		return nil, fmt.Errorf("token has no admin_id: %w", ErrInvalidCredentials)
	}

	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, fmt.Errorf("admin %s: %w", adminID, ErrInvalidCredentials)
		}
		return nil, err
	}
	admin.Password = ""
	return admin, nil
}
