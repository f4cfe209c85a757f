package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storeadmin/internal/models"
	"storeadmin/internal/repositories"
	"storeadmin/pkg/docstore"

	"github.com/go-playground/validator/v10"
)

// CatalogService reads and writes categories and their nested items.
type CatalogService struct {
	repo           repositories.CatalogRepository
	validate       *validator.Validate
	now            func() time.Time
	cascadeDeletes bool
}

// NewCatalogService creates a new CatalogService. With cascadeDeletes set,
// deleting a category also deletes its item containers.
func NewCatalogService(repo repositories.CatalogRepository, cascadeDeletes bool) *CatalogService {
	return &CatalogService{
		repo:           repo,
		validate:       newValidator(),
		now:            time.Now,
		cascadeDeletes: cascadeDeletes,
	}
}

// SetClock replaces the time source used for item keys.
func (s *CatalogService) SetClock(now func() time.Time) {
	s.now = now
}

// GetAllCategories retrieves all categories.
func (s *CatalogService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAllCategories(ctx)
}

// GetCategory retrieves a single category by ID.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// AddCategory validates and creates a category. Its ID is derived from the name.
func (s *CatalogService) AddCategory(ctx context.Context, category *models.Category) error {
	category.Normalize()
	if err := validateStruct(s.validate, category); err != nil {
		return err
	}
	category.ID = models.CategoryID(category.Name)

	_, err := s.repo.GetCategory(ctx, category.ID)
	switch {
	case err == nil:
		return fmt.Errorf("category %s: %w", category.ID, ErrConflict)
	case !errors.Is(err, docstore.ErrNotFound):
		return err
	}
	return s.repo.CreateCategory(ctx, category)
}

// UpdateCategory merges new field values into an existing category. The ID is
// never re-derived, even when the name changes.
func (s *CatalogService) UpdateCategory(ctx context.Context, id string, category *models.Category) error {
	category.Normalize()
	if err := validateStruct(s.validate, category); err != nil {
		return err
	}
	category.ID = id
	return s.repo.UpdateCategory(ctx, category)
}

// DeleteCategory removes a category and reports how many item containers it
// left behind. Containers are only removed when cascading deletes are enabled.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) (int, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return 0, err
	}
	containers, err := s.repo.ListContainerIDs(ctx, category.Name)
	if err != nil {
		return 0, err
	}

	orphaned := len(containers)
	if s.cascadeDeletes {
		for _, containerID := range containers {
			if err := s.repo.DeleteContainer(ctx, category.Name, containerID); err != nil {
				return 0, err
			}
		}
		orphaned = 0
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return 0, err
	}
	if orphaned > 0 {
		log.Printf("Warning: category %s deleted with %d item container(s) left in place", id, orphaned)
	}
	return orphaned, nil
}

// ListItems returns the flattened items of a category. A category without items
// yields an empty slice.
func (s *CatalogService) ListItems(ctx context.Context, categoryName string) ([]models.ProductRecord, error) {
	return s.repo.ListItems(ctx, categoryName)
}

// AddItem validates item and stores it under a newly generated key. The item
// goes into containerID, or into the container named after the category when
// containerID is empty. The container is created if it does not exist yet.
func (s *CatalogService) AddItem(ctx context.Context, category *models.Category, containerID string, item models.ProductItem) (*models.ProductRecord, error) {
	item.Normalize()
	if item.CategoryID == "" {
		item.CategoryID = category.ID
	}
	item.CartQuantity = 0
	if err := validateStruct(s.validate, item); err != nil {
		return nil, err
	}
	if strings.Contains(containerID, "/") {
		return nil, &ValidationError{Fields: map[string]string{
			"containerId": `containerId must not contain "/"`,
		}}
	}
	if containerID == "" {
		containerID = category.ID
	}

	keys, exists, err := s.repo.ItemKeys(ctx, category.Name, containerID)
	if err != nil {
		return nil, err
	}
	itemKey := s.newItemKey(keys)

	if exists {
		err = s.repo.PutItem(ctx, category.Name, containerID, itemKey, item)
	} else {
		err = s.repo.CreateContainer(ctx, category.Name, containerID, itemKey, item)
	}
	if err != nil {
		return nil, err
	}
	return &models.ProductRecord{ID: containerID, ItemKey: itemKey, ProductItem: item}, nil
}

// UpdateItem replaces the value of one existing item key. Sibling items in the
// same container are not rewritten.
func (s *CatalogService) UpdateItem(ctx context.Context, categoryName, containerID, itemKey string, item models.ProductItem) (*models.ProductRecord, error) {
	item.Normalize()
	if err := validateStruct(s.validate, item); err != nil {
		return nil, err
	}
	current, err := s.repo.GetItem(ctx, categoryName, containerID, itemKey)
	if err != nil {
		return nil, err
	}
	if item.CategoryID == "" {
		item.CategoryID = current.CategoryID
	}
	if err := s.repo.PutItem(ctx, categoryName, containerID, itemKey, item); err != nil {
		return nil, err
	}
	return &models.ProductRecord{ID: containerID, ItemKey: itemKey, ProductItem: item}, nil
}

// DeleteItem removes exactly one item key from its container.
func (s *CatalogService) DeleteItem(ctx context.Context, categoryName, containerID, itemKey string) error {
	if _, err := s.repo.GetItem(ctx, categoryName, containerID, itemKey); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, categoryName, containerID, itemKey)
}

// newItemKey returns "item_<unix millis>", moving forward a millisecond at a
// time until the key is unused in the container.
func (s *CatalogService) newItemKey(existing []string) string {
	taken := make(map[string]bool, len(existing))
	for _, k := range existing {
		taken[k] = true
	}
	ms := s.now().UnixMilli()
	for {
		key := fmt.Sprintf("item_%d", ms)
		if !taken[key] {
			return key
		}
		ms++
	}
}
