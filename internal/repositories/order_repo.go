package repositories

import (
	"context"
	"fmt"
	"log"
	"sort"

	"storeadmin/internal/models"
	"storeadmin/pkg/docstore"

	"golang.org/x/sync/errgroup"
)

// Order read strategies.
const (
	// StrategyFanOut lists every user, then reads each user's orders concurrently.
	StrategyFanOut = "fanout"
	// StrategyCollectionGroup reads all orders with one cross-collection query.
	StrategyCollectionGroup = "collection_group"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (*models.Order, error)
	UpdateStatus(ctx context.Context, userID, orderID, status string) error
}

// DocstoreOrderRepository reads orders from per-user subcollections.
type DocstoreOrderRepository struct {
	store    docstore.Store
	paths    OrderPathMapper
	strategy string
}

// NewDocstoreOrderRepository creates a new DocstoreOrderRepository. An unknown
// strategy falls back to StrategyFanOut.
func NewDocstoreOrderRepository(store docstore.Store, paths OrderPathMapper, strategy string) *DocstoreOrderRepository {
	if strategy != StrategyCollectionGroup {
		strategy = StrategyFanOut
	}
	return &DocstoreOrderRepository{
		store:    store,
		paths:    paths,
		strategy: strategy,
	}
}

// Strategy reports which read strategy GetAll uses.
func (r *DocstoreOrderRepository) Strategy() string {
	return r.strategy
}

// GetAll returns every order of every user, grouped by user in user ID order.
func (r *DocstoreOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	if r.strategy == StrategyCollectionGroup {
		return r.getAllByGroup(ctx)
	}
	return r.getAllByFanOut(ctx)
}

func (r *DocstoreOrderRepository) getAllByFanOut(ctx context.Context) ([]models.Order, error) {
	// IDs rather than documents: orders of a deleted user document are still
	// returned by the collection-group strategy, so they must be found here too.
	userIDs, err := r.store.ListDocumentIDs(ctx, r.paths.UsersCollection())
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	perUser := make([][]models.Order, len(userIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, userID := range userIDs {
		g.Go(func() error {
			docs, err := r.store.GetCollection(gctx, r.paths.OrdersCollection(userID))
			if err != nil {
				return fmt.Errorf("failed to get orders for user %s: %w", userID, err)
			}
			orders := make([]models.Order, 0, len(docs))
			for _, doc := range docs {
				order, ok := r.toOrder(doc)
				if ok {
					orders = append(orders, order)
				}
			}
			perUser[i] = orders
			return nil
		})
	}
	// One failed user fails the whole read; nothing is returned partially.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []models.Order
	for _, orders := range perUser {
		all = append(all, orders...)
	}
	return all, nil
}

func (r *DocstoreOrderRepository) getAllByGroup(ctx context.Context) ([]models.Order, error) {
	docs, err := r.store.CollectionGroup(ctx, r.paths.GroupName())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s collection group: %w", r.paths.GroupName(), err)
	}
	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		order, ok := r.toOrder(doc)
		if ok {
			orders = append(orders, order)
		}
	}
	// Match the fan-out fetch order: by user, then by order ID.
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].UserID != orders[j].UserID {
			return orders[i].UserID < orders[j].UserID
		}
		return orders[i].ID < orders[j].ID
	})
	return orders, nil
}

// GetByID retrieves a single order of a user.
func (r *DocstoreOrderRepository) GetByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	doc, err := r.store.GetDocument(ctx, r.paths.OrderDocument(userID, orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	order, ok := r.toOrder(*doc)
	if !ok {
		return nil, fmt.Errorf("order %s is not stored under a user", orderID)
	}
	return &order, nil
}

// UpdateStatus writes the orderStatus field of a single order.
func (r *DocstoreOrderRepository) UpdateStatus(ctx context.Context, userID, orderID, status string) error {
	fields := map[string]interface{}{"orderStatus": status}
	if err := r.store.UpdateDocument(ctx, r.paths.OrderDocument(userID, orderID), fields); err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", orderID, err)
	}
	return nil
}

func (r *DocstoreOrderRepository) toOrder(doc docstore.Document) (models.Order, bool) {
	userID, err := r.paths.UserIDFromPath(doc.Path)
	if err != nil {
		// Collection-group queries also match "orders" collections outside users/.
		log.Printf("Skipping order document %s: %v", doc.Path, err)
		return models.Order{}, false
	}
	var order models.Order
	if err := decodeFields(doc.Data, &order); err != nil {
		log.Printf("Order %s decoded with errors: %v", doc.Path, err)
	}
	order.ID = doc.ID
	order.UserID = userID
	return order, true
}
