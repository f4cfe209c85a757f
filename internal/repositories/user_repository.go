package repositories

import (
	"context"
	"fmt"
	"log"

	"storeadmin/internal/models"
	"storeadmin/pkg/docstore"

	"github.com/google/uuid"
)

const usersCollection = "users"

// UserRepository defines the interface for customer account data access.
type UserRepository interface {
	GetAll(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// AdminRepository defines the interface for dashboard operator accounts.
type AdminRepository interface {
	Create(admin *models.AdminAccount) error
	GetByEmail(email string) (*models.AdminAccount, error)
	GetByID(id string) (*models.AdminAccount, error)
}

// DocstoreUserRepository keeps users in the document store's users collection.
type DocstoreUserRepository struct {
	store docstore.Store
}

// NewDocstoreUserRepository creates a new DocstoreUserRepository.
func NewDocstoreUserRepository(store docstore.Store) *DocstoreUserRepository {
	return &DocstoreUserRepository{
		store: store,
	}
}

// GetAll retrieves all users.
func (r *DocstoreUserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	docs, err := r.store.GetCollection(ctx, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		var u models.User
		if err := decodeFields(doc.Data, &u); err != nil {
			log.Printf("User %s decoded with errors: %v", doc.ID, err)
		}
		u.ID = doc.ID
		users = append(users, u)
	}
	return users, nil
}

// GetByID retrieves a user by ID.
func (r *DocstoreUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.GetDocument(ctx, docstore.Join(usersCollection, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	var u models.User
	if err := decodeFields(doc.Data, &u); err != nil {
		return nil, fmt.Errorf("failed to read user %s: %w", id, err)
	}
	u.ID = doc.ID
	return &u, nil
}

// Create writes a new user document, generating an ID if none is set.
func (r *DocstoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.store.SetDocument(ctx, docstore.Join(usersCollection, user.ID), user.Fields(), false); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update writes the editable fields of an existing user; other fields are kept.
func (r *DocstoreUserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.store.UpdateDocument(ctx, docstore.Join(usersCollection, user.ID), user.Fields()); err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

// Delete removes a user document. The user's order subcollection is not touched.
func (r *DocstoreUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.DeleteDocument(ctx, docstore.Join(usersCollection, id)); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}
