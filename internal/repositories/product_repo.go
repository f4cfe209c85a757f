package repositories

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"storeadmin/internal/models"
	"storeadmin/pkg/docstore"
)

const (
	categoriesCollection = "products/categories/items"
	itemsSubcollection   = "itemsDetails"
)

// CatalogRepository defines data access for categories and their item containers.
type CatalogRepository interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// ListItems flattens every container of the category into product records.
	ListItems(ctx context.Context, categoryName string) ([]models.ProductRecord, error)
	// ItemKeys returns the item keys of one container; exists is false when the
	// container document has not been created yet.
	ItemKeys(ctx context.Context, categoryName, containerID string) (keys []string, exists bool, err error)
	GetItem(ctx context.Context, categoryName, containerID, itemKey string) (*models.ProductRecord, error)
	CreateContainer(ctx context.Context, categoryName, containerID, itemKey string, item models.ProductItem) error
	PutItem(ctx context.Context, categoryName, containerID, itemKey string, item models.ProductItem) error
	DeleteItem(ctx context.Context, categoryName, containerID, itemKey string) error
	ListContainerIDs(ctx context.Context, categoryName string) ([]string, error)
	DeleteContainer(ctx context.Context, categoryName, containerID string) error
}

// DocstoreCatalogRepository stores the catalog in a document store.
type DocstoreCatalogRepository struct {
	store docstore.Store
}

// NewDocstoreCatalogRepository creates a new DocstoreCatalogRepository.
func NewDocstoreCatalogRepository(store docstore.Store) *DocstoreCatalogRepository {
	return &DocstoreCatalogRepository{
		store: store,
	}
}

func categoryPath(id string) string {
	return docstore.Join(categoriesCollection, id)
}

// Item containers live under the lowercased category name, not the category ID.
func containersPath(categoryName string) string {
	return docstore.Join(categoriesCollection, strings.ToLower(categoryName), itemsSubcollection)
}

func containerPath(categoryName, containerID string) string {
	return docstore.Join(containersPath(categoryName), containerID)
}

// GetAllCategories retrieves all categories.
func (r *DocstoreCatalogRepository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	docs, err := r.store.GetCollection(ctx, categoriesCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	categories := make([]models.Category, 0, len(docs))
	for _, doc := range docs {
		var c models.Category
		if err := decodeFields(doc.Data, &c); err != nil {
			log.Printf("Skipping malformed category %s: %v", doc.ID, err)
			continue
		}
		c.ID = doc.ID
		categories = append(categories, c)
	}
	return categories, nil
}

// GetCategory retrieves a category by its ID.
func (r *DocstoreCatalogRepository) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	doc, err := r.store.GetDocument(ctx, categoryPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	var c models.Category
	if err := decodeFields(doc.Data, &c); err != nil {
		return nil, fmt.Errorf("failed to read category %s: %w", id, err)
	}
	c.ID = doc.ID
	return &c, nil
}

// CreateCategory writes a whole category document.
func (r *DocstoreCatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.store.SetDocument(ctx, categoryPath(category.ID), category.Fields(), false); err != nil {
		return fmt.Errorf("failed to create category %s: %w", category.ID, err)
	}
	return nil
}

// UpdateCategory merges the category's fields into its existing document.
func (r *DocstoreCatalogRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	if err := r.store.UpdateDocument(ctx, categoryPath(category.ID), category.Fields()); err != nil {
		return fmt.Errorf("failed to update category %s: %w", category.ID, err)
	}
	return nil
}

// DeleteCategory removes the category document only.
func (r *DocstoreCatalogRepository) DeleteCategory(ctx context.Context, id string) error {
	if err := r.store.DeleteDocument(ctx, categoryPath(id)); err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}
	return nil
}

// ListItems returns one record per item key, containers in fetch order and keys
// sorted within each container. An empty category yields an empty slice.
func (r *DocstoreCatalogRepository) ListItems(ctx context.Context, categoryName string) ([]models.ProductRecord, error) {
	docs, err := r.store.GetCollection(ctx, containersPath(categoryName))
	if err != nil {
		return nil, fmt.Errorf("failed to get items for category %s: %w", categoryName, err)
	}
	records := []models.ProductRecord{}
	for _, doc := range docs {
		for _, key := range sortedKeys(doc.Data) {
			record, ok := toRecord(doc.ID, key, doc.Data[key])
			if !ok {
				continue
			}
			records = append(records, record)
		}
	}
	return records, nil
}

// ItemKeys returns the keys held by a container.
func (r *DocstoreCatalogRepository) ItemKeys(ctx context.Context, categoryName, containerID string) ([]string, bool, error) {
	doc, err := r.store.GetDocument(ctx, containerPath(categoryName, containerID))
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get item container %s: %w", containerID, err)
	}
	return sortedKeys(doc.Data), true, nil
}

// GetItem retrieves a single item from its container.
func (r *DocstoreCatalogRepository) GetItem(ctx context.Context, categoryName, containerID, itemKey string) (*models.ProductRecord, error) {
	doc, err := r.store.GetDocument(ctx, containerPath(categoryName, containerID))
	if err != nil {
		return nil, fmt.Errorf("failed to get item container %s: %w", containerID, err)
	}
	raw, ok := doc.Data[itemKey]
	if !ok {
		return nil, fmt.Errorf("item %s in container %s: %w", itemKey, containerID, docstore.ErrNotFound)
	}
	record, ok := toRecord(doc.ID, itemKey, raw)
	if !ok {
		return nil, fmt.Errorf("item %s in container %s is malformed", itemKey, containerID)
	}
	return &record, nil
}

// CreateContainer creates a container document holding a single item.
func (r *DocstoreCatalogRepository) CreateContainer(ctx context.Context, categoryName, containerID, itemKey string, item models.ProductItem) error {
	data := map[string]interface{}{itemKey: item.Fields()}
	if err := r.store.SetDocument(ctx, containerPath(categoryName, containerID), data, false); err != nil {
		return fmt.Errorf("failed to create item container %s: %w", containerID, err)
	}
	return nil
}

// PutItem writes exactly one key of an existing container; sibling keys are untouched.
func (r *DocstoreCatalogRepository) PutItem(ctx context.Context, categoryName, containerID, itemKey string, item models.ProductItem) error {
	fields := map[string]interface{}{itemKey: item.Fields()}
	if err := r.store.UpdateDocument(ctx, containerPath(categoryName, containerID), fields); err != nil {
		return fmt.Errorf("failed to write item %s: %w", itemKey, err)
	}
	return nil
}

// DeleteItem removes one key from a container, leaving the document in place.
func (r *DocstoreCatalogRepository) DeleteItem(ctx context.Context, categoryName, containerID, itemKey string) error {
	if err := r.store.DeleteField(ctx, containerPath(categoryName, containerID), itemKey); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemKey, err)
	}
	return nil
}

// ListContainerIDs returns the IDs of every container under the category.
func (r *DocstoreCatalogRepository) ListContainerIDs(ctx context.Context, categoryName string) ([]string, error) {
	docs, err := r.store.GetCollection(ctx, containersPath(categoryName))
	if err != nil {
		return nil, fmt.Errorf("failed to list item containers for %s: %w", categoryName, err)
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// DeleteContainer removes a whole container document.
func (r *DocstoreCatalogRepository) DeleteContainer(ctx context.Context, categoryName, containerID string) error {
	if err := r.store.DeleteDocument(ctx, containerPath(categoryName, containerID)); err != nil {
		return fmt.Errorf("failed to delete item container %s: %w", containerID, err)
	}
	return nil
}

func toRecord(containerID, key string, raw interface{}) (models.ProductRecord, bool) {
	fields, ok := raw.(map[string]interface{})
	if !ok {
		log.Printf("Skipping non-item field %s in container %s", key, containerID)
		return models.ProductRecord{}, false
	}
	var item models.ProductItem
	if err := decodeFields(fields, &item); err != nil {
		log.Printf("Item %s in container %s decoded with errors: %v", key, containerID, err)
	}
	return models.ProductRecord{ID: containerID, ItemKey: key, ProductItem: item}, true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
