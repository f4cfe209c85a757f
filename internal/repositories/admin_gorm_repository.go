package repositories

import (
	"errors"
	"fmt"

	"storeadmin/internal/models"
	"storeadmin/pkg/docstore"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMAdminRepository is a GORM implementation of AdminRepository.
type GORMAdminRepository struct {
	db *gorm.DB
}

// NewGORMAdminRepository creates a new instance of GORMAdminRepository.
func NewGORMAdminRepository(db *gorm.DB) *GORMAdminRepository {
	return &GORMAdminRepository{
		db: db,
	}
}

// Create creates a new admin account in the database.
func (r *GORMAdminRepository) Create(admin *models.AdminAccount) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	if err := r.db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	return nil
}

// GetByEmail retrieves an admin account by email.
func (r *GORMAdminRepository) GetByEmail(email string) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	if err := r.db.First(&admin, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admin with email %s: %w", email, docstore.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin by email %s: %w", email, err)
	}
	return &admin, nil
}

// GetByID retrieves an admin account by ID.
func (r *GORMAdminRepository) GetByID(id string) (*models.AdminAccount, error) {
	var admin models.AdminAccount
	if err := r.db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("admin with ID %s: %w", id, docstore.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get admin by ID %s: %w", id, err)
	}
	return &admin, nil
}
