package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"storeadmin/internal/models"
	"storeadmin/internal/repositories"
)

// EventPublisher receives order projections after a successful status change.
type EventPublisher interface {
	PublishOrderStatusUpdated(order models.OrderProjection) error
}

// OrderService aggregates orders across users and reconciles status changes.
// It keeps the last listed orders as a snapshot that is replaced wholesale on
// every successful read.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher

	mu       sync.RWMutex
	snapshot []models.OrderProjection

	subMu       sync.Mutex
	subscribers map[int]chan models.OrderProjection
	nextSubID   int
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		publisher:   publisher,
		subscribers: make(map[int]chan models.OrderProjection),
	}
}

// ListAllOrders reads every order of every user, newest first. Orders with the
// same date keep their fetch order. The snapshot is only replaced on success.
func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.OrderProjection, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	projections := make([]models.OrderProjection, 0, len(orders))
	for _, o := range orders {
		projections = append(projections, projectOrder(o))
	}
	sort.SliceStable(projections, func(i, j int) bool {
		return projections[i].OrderDate.After(projections[j].OrderDate)
	})

	s.mu.Lock()
	s.snapshot = cloneProjections(projections)
	s.mu.Unlock()

	return projections, nil
}

// Snapshot returns a copy of the orders from the last successful listing.
func (s *OrderService) Snapshot() []models.OrderProjection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProjections(s.snapshot)
}

// GetOrder retrieves a single order of a user.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*models.OrderProjection, error) {
	order, err := s.orderRepo.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	p := projectOrder(*order)
	return &p, nil
}

// FilterOrders keeps the orders whose customer name, order ID or status
// contains query, ignoring case. Relative order is preserved; an empty query
// keeps everything.
func FilterOrders(orders []models.OrderProjection, query string) []models.OrderProjection {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.OrderProjection, 0, len(orders))
	for _, o := range orders {
		if q == "" ||
			strings.Contains(strings.ToLower(o.Customer.Name), q) ||
			strings.Contains(strings.ToLower(o.ID), q) ||
			strings.Contains(strings.ToLower(o.OrderStatus), q) {
			out = append(out, o)
		}
	}
	return out
}

// SetOrderStatus writes a new status for one order. The snapshot entry is
// updated before the write and restored to its previous status if the write
// fails. Last write wins; there is no concurrency token.
func (s *OrderService) SetOrderStatus(ctx context.Context, userID, orderID, status string) (*models.OrderProjection, error) {
	if !models.ValidOrderStatus(status) {
		return nil, &ValidationError{Fields: map[string]string{
			"orderStatus": fmt.Sprintf("orderStatus must be one of: %s", strings.Join(models.OrderStatuses, " ")),
		}}
	}

	previous, cached := s.setLocalStatus(userID, orderID, status)
	if err := s.orderRepo.UpdateStatus(ctx, userID, orderID, status); err != nil {
		if cached {
			s.setLocalStatus(userID, orderID, previous)
		}
		log.Printf("Error updating status of order %s (user %s): %v", orderID, userID, err)
		return nil, err
	}

	updated, ok := s.lookup(userID, orderID)
	if !ok {
		fetched, err := s.GetOrder(ctx, userID, orderID)
		if err != nil {
			log.Printf("Order %s status written but re-read failed: %v", orderID, err)
			fetched = &models.OrderProjection{ID: orderID, UserID: userID}
		}
		fetched.OrderStatus = status
		updated = *fetched
	}

	s.broadcast(updated)
	if s.publisher != nil {
		if err := s.publisher.PublishOrderStatusUpdated(updated); err != nil {
			log.Printf("Warning: Failed to publish status update for order %s: %v", orderID, err)
		}
	}
	return &updated, nil
}

// Subscribe registers an in-memory consumer of status updates. Updates are
// dropped for a subscriber whose buffer is full. The returned func unsubscribes.
func (s *OrderService) Subscribe(buffer int) (<-chan models.OrderProjection, func()) {
	ch := make(chan models.OrderProjection, buffer)

	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *OrderService) broadcast(order models.OrderProjection) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subscribers {
		select {
		case ch <- cloneProjection(order):
		default:
			log.Printf("Dropping order update %s for slow subscriber %d", order.ID, id)
		}
	}
}

// setLocalStatus sets the status of a snapshot entry and returns the status it
// replaced. cached is false when the order is not in the snapshot.
func (s *OrderService) setLocalStatus(userID, orderID, status string) (previous string, cached bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snapshot {
		if s.snapshot[i].UserID == userID && s.snapshot[i].ID == orderID {
			previous = s.snapshot[i].OrderStatus
			s.snapshot[i].OrderStatus = status
			return previous, true
		}
	}
	return "", false
}

func (s *OrderService) lookup(userID, orderID string) (models.OrderProjection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.snapshot {
		if o.UserID == userID && o.ID == orderID {
			return cloneProjection(o), true
		}
	}
	return models.OrderProjection{}, false
}

func cloneProjections(in []models.OrderProjection) []models.OrderProjection {
	out := make([]models.OrderProjection, len(in))
	for i, o := range in {
		out[i] = cloneProjection(o)
	}
	return out
}

func cloneProjection(o models.OrderProjection) models.OrderProjection {
	o.Items = append([]models.OrderLine(nil), o.Items...)
	return o
}
