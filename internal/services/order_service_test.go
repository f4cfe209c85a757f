package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"storeadmin/internal/models"
	"storeadmin/internal/repositories"
	"storeadmin/internal/services"
	"storeadmin/pkg/docstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func orderDoc(customer, status string, date interface{}) map[string]interface{} {
	return map[string]interface{}{
		"orderStatus": status,
		"customer":    map[string]interface{}{"name": customer, "phone": "+91 98765 43210"},
		"orderDetails": map[string]interface{}{
			"orderDate": date,
			"payment":   map[string]interface{}{"method": "UPI", "status": "Paid"},
		},
		"items": []interface{}{
			map[string]interface{}{"cartFoodName": "Almonds", "cartFoodAmount": "₹450", "cartQuantity": 2},
		},
		"totals": map[string]interface{}{"subtotal": "₹900", "shipping": 40, "total": "₹1,200.50"},
	}
}

// seedOrders stores three users' orders:
// u1/o1 on 01/02/2024, u2/o2 on 15/01/2024 and u3/o3 with an unreadable date.
func seedOrders(t *testing.T) *docstore.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	for _, uid := range []string{"u1", "u2", "u3"} {
		require.NoError(t, store.SetDocument(ctx, "users/"+uid, map[string]interface{}{"name": uid}, false))
	}
	require.NoError(t, store.SetDocument(ctx, "users/u1/orders/o1", orderDoc("Asha Rao", "Pending", "01/02/2024 10:30"), false))
	require.NoError(t, store.SetDocument(ctx, "users/u2/orders/o2", orderDoc("Vikram Shah", "Confirmed", "15/01/2024"), false))
	require.NoError(t, store.SetDocument(ctx, "users/u3/orders/o3", orderDoc("Meera Pillai", "Pending", "not-a-date"), false))
	return store
}

func newOrderService(store docstore.Store, strategy string, publisher services.EventPublisher) *services.OrderService {
	repo := repositories.NewDocstoreOrderRepository(store, repositories.UserOrdersLayout{}, strategy)
	return services.NewOrderService(repo, publisher)
}

func orderIDs(orders []models.OrderProjection) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

// updateFailingStore fails every field update and otherwise behaves like a MemoryStore.
type updateFailingStore struct {
	*docstore.MemoryStore
	err error
}

func (s updateFailingStore) UpdateDocument(context.Context, string, map[string]interface{}) error {
	return s.err
}

// listFailingStore fails collection reads while fail is set.
type listFailingStore struct {
	*docstore.MemoryStore
	fail bool
}

func (s *listFailingStore) GetCollection(ctx context.Context, path string) ([]docstore.Document, error) {
	if s.fail {
		return nil, fmt.Errorf("%w: unreachable", docstore.ErrUnavailable)
	}
	return s.MemoryStore.GetCollection(ctx, path)
}

func TestOrderService_ListAllOrdersNewestFirst(t *testing.T) {
	service := newOrderService(seedOrders(t), repositories.StrategyFanOut, nil)

	orders, err := service.ListAllOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o2", "o3"}, orderIDs(orders))

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), orders[0].OrderDate)
	assert.Equal(t, "01/02/2024 10:30", orders[0].OrderDateText)
	assert.Equal(t, "u1", orders[0].UserID)
	assert.Equal(t, "Asha Rao", orders[0].Customer.Name)
	assert.True(t, orders[0].Totals.Total.Equal(decimal.RequireFromString("1200.50")))
	assert.True(t, orders[0].Totals.Shipping.Equal(decimal.NewFromInt(40)))
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.True(t, orders[0].Items[0].Amount.Equal(decimal.NewFromInt(450)))

	// The unreadable date sorts last instead of failing the listing.
	assert.Equal(t, time.Unix(0, 0).UTC(), orders[2].OrderDate)

	assert.Equal(t, orderIDs(orders), orderIDs(service.Snapshot()))
}

func TestOrderService_EqualDatesKeepFetchOrder(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	for _, uid := range []string{"a", "b"} {
		require.NoError(t, store.SetDocument(ctx, "users/"+uid, map[string]interface{}{}, false))
	}
	require.NoError(t, store.SetDocument(ctx, "users/a/orders/x2", orderDoc("A", "Pending", "05/05/2024"), false))
	require.NoError(t, store.SetDocument(ctx, "users/a/orders/x1", orderDoc("A", "Pending", "05/05/2024"), false))
	require.NoError(t, store.SetDocument(ctx, "users/b/orders/x0", orderDoc("B", "Pending", "05/05/2024"), false))

	orders, err := newOrderService(store, repositories.StrategyFanOut, nil).ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2", "x0"}, orderIDs(orders))
}

func TestOrderService_CollectionGroupMatchesFanOut(t *testing.T) {
	ctx := context.Background()
	store := seedOrders(t)
	// An orders collection outside users/ is not a user's order.
	require.NoError(t, store.SetDocument(ctx, "archive/2023/orders/old", orderDoc("Old", "Delivered", "01/01/2023"), false))

	fanOut, err := newOrderService(store, repositories.StrategyFanOut, nil).ListAllOrders(ctx)
	require.NoError(t, err)
	group, err := newOrderService(store, repositories.StrategyCollectionGroup, nil).ListAllOrders(ctx)
	require.NoError(t, err)

	assert.Equal(t, orderIDs(fanOut), orderIDs(group))
	for i := range fanOut {
		assert.Equal(t, fanOut[i].UserID, group[i].UserID)
	}
}

func TestOrderService_FanOutFailureFailsAll(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("ListDocumentIDs", mock.Anything, "users").Return([]string{"u1", "u2"}, nil)
	mockStore.On("GetCollection", mock.Anything, "users/u1/orders").Return([]docstore.Document{
		{ID: "o1", Path: "users/u1/orders/o1", Data: orderDoc("Asha", "Pending", "01/02/2024")},
	}, nil)
	mockStore.On("GetCollection", mock.Anything, "users/u2/orders").
		Return(nil, fmt.Errorf("%w: connection reset", docstore.ErrUnavailable))

	service := newOrderService(mockStore, repositories.StrategyFanOut, nil)
	orders, err := service.ListAllOrders(context.Background())

	assert.Nil(t, orders)
	assert.ErrorIs(t, err, docstore.ErrUnavailable)
	assert.Empty(t, service.Snapshot())
	mockStore.AssertExpectations(t)
}

func TestOrderService_IndexRequiredIsDistinct(t *testing.T) {
	mockStore := new(MockStore)
	mockStore.On("CollectionGroup", mock.Anything, "orders").
		Return(nil, fmt.Errorf("%w: create a collection group index on orders", docstore.ErrIndexRequired))

	_, err := newOrderService(mockStore, repositories.StrategyCollectionGroup, nil).ListAllOrders(context.Background())
	assert.ErrorIs(t, err, docstore.ErrIndexRequired)
	assert.False(t, errors.Is(err, docstore.ErrUnavailable))
}

func TestOrderService_FailedListKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := &listFailingStore{MemoryStore: seedOrders(t)}
	service := newOrderService(store, repositories.StrategyFanOut, nil)
	first, err := service.ListAllOrders(ctx)
	require.NoError(t, err)

	store.fail = true
	_, err = service.ListAllOrders(ctx)
	assert.ErrorIs(t, err, docstore.ErrUnavailable)
	assert.Equal(t, orderIDs(first), orderIDs(service.Snapshot()))
}

func TestFilterOrders(t *testing.T) {
	service := newOrderService(seedOrders(t), repositories.StrategyFanOut, nil)
	orders, err := service.ListAllOrders(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"o1", "o3"}, orderIDs(services.FilterOrders(orders, "pending")))
	assert.Equal(t, []string{"o2"}, orderIDs(services.FilterOrders(orders, "VIKRAM")))
	assert.Equal(t, []string{"o3"}, orderIDs(services.FilterOrders(orders, "o3")))
	assert.Equal(t, orderIDs(orders), orderIDs(services.FilterOrders(orders, "  ")))
	assert.Empty(t, services.FilterOrders(orders, "zzz"))
}

func TestOrderService_SetOrderStatus(t *testing.T) {
	ctx := context.Background()
	store := seedOrders(t)
	publisher := new(MockPublisher)
	publisher.On("PublishOrderStatusUpdated", mock.MatchedBy(func(o models.OrderProjection) bool {
		return o.ID == "o2" && o.OrderStatus == models.OrderStatusDelivered
	})).Return(nil).Once()

	service := newOrderService(store, repositories.StrategyFanOut, publisher)
	_, err := service.ListAllOrders(ctx)
	require.NoError(t, err)

	updates, unsubscribe := service.Subscribe(1)
	defer unsubscribe()

	updated, err := service.SetOrderStatus(ctx, "u2", "o2", models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.OrderStatus)
	assert.Equal(t, "Vikram Shah", updated.Customer.Name)

	doc, err := store.GetDocument(ctx, "users/u2/orders/o2")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, doc.Data["orderStatus"])

	select {
	case got := <-updates:
		assert.Equal(t, "o2", got.ID)
		assert.Equal(t, models.OrderStatusDelivered, got.OrderStatus)
	case <-time.After(time.Second):
		t.Fatal("no status update received")
	}

	snapshot := service.Snapshot()
	assert.Equal(t, models.OrderStatusDelivered, snapshot[1].OrderStatus)
	publisher.AssertExpectations(t)
}

func TestOrderService_SetOrderStatusRevertsOnFailure(t *testing.T) {
	ctx := context.Background()
	store := updateFailingStore{
		MemoryStore: seedOrders(t),
		err:         fmt.Errorf("%w: deadline exceeded", docstore.ErrUnavailable),
	}
	publisher := new(MockPublisher)
	service := newOrderService(store, repositories.StrategyFanOut, publisher)
	_, err := service.ListAllOrders(ctx)
	require.NoError(t, err)

	updates, unsubscribe := service.Subscribe(1)
	defer unsubscribe()

	_, err = service.SetOrderStatus(ctx, "u1", "o1", models.OrderStatusRejected)
	assert.ErrorIs(t, err, docstore.ErrUnavailable)

	snapshot := service.Snapshot()
	assert.Equal(t, "o1", snapshot[0].ID)
	assert.Equal(t, models.OrderStatusPending, snapshot[0].OrderStatus)
	assert.Empty(t, updates)
	publisher.AssertNotCalled(t, "PublishOrderStatusUpdated", mock.Anything)
}

func TestOrderService_SetOrderStatusWithoutListing(t *testing.T) {
	ctx := context.Background()
	publisher := new(MockPublisher)
	publisher.On("PublishOrderStatusUpdated", mock.Anything).Return(errors.New("channel closed"))

	service := newOrderService(seedOrders(t), repositories.StrategyFanOut, publisher)
	updated, err := service.SetOrderStatus(ctx, "u3", "o3", models.OrderStatusConfirmed)

	// A failed publish is logged, not returned.
	require.NoError(t, err)
	assert.Equal(t, "Meera Pillai", updated.Customer.Name)
	assert.Equal(t, models.OrderStatusConfirmed, updated.OrderStatus)
	publisher.AssertExpectations(t)
}

func TestOrderService_SetOrderStatusInvalid(t *testing.T) {
	mockStore := new(MockStore)
	service := newOrderService(mockStore, repositories.StrategyFanOut, nil)

	_, err := service.SetOrderStatus(context.Background(), "u1", "o1", "Shipped")
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "orderStatus")
	mockStore.AssertNotCalled(t, "UpdateDocument", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_SetOrderStatusMissingOrder(t *testing.T) {
	service := newOrderService(seedOrders(t), repositories.StrategyFanOut, nil)
	_, err := service.SetOrderStatus(context.Background(), "u1", "missing", models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestOrderService_UnsubscribeClosesChannel(t *testing.T) {
	service := newOrderService(docstore.NewMemoryStore(), repositories.StrategyFanOut, nil)
	updates, unsubscribe := service.Subscribe(0)
	unsubscribe()
	unsubscribe()

	_, open := <-updates
	assert.False(t, open)
}

func TestParseOrderDate(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  time.Time
	}{
		{"day first", "01/02/2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"with time", "15/01/2024 18:20", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"single digits", "5/3/2024, 9:00 AM", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"rfc3339", "2024-03-05T10:00:00+05:30", time.Date(2024, 3, 5, 4, 30, 0, 0, time.UTC)},
		{"iso date", "2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"timestamp", time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{"seconds map", map[string]interface{}{"seconds": int64(1700000000), "nanoseconds": 0}, time.Unix(1700000000, 0).UTC()},
		{"admin sdk map", map[string]interface{}{"_seconds": 1700000000.0}, time.Unix(1700000000, 0).UTC()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := services.ParseOrderDate(tc.input)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s", got)
		})
	}

	for _, bad := range []interface{}{"not-a-date", "31/31/2024", nil, 42, map[string]interface{}{"nanos": 1}} {
		got, err := services.ParseOrderDate(bad)
		assert.Error(t, err, "%v", bad)
		assert.Equal(t, time.Unix(0, 0).UTC(), got)
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[interface{}]string{
		"₹1,200.50": "1200.5",
		"$ 99":      "99",
		"-15.25":    "-15.25",
		"":          "0",
		12.5:        "12.5",
		int64(300):  "300",
		nil:         "0",
	}
	for input, want := range cases {
		got, err := services.ParseAmount(input)
		require.NoError(t, err, "%v", input)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%v: got %s", input, got)
	}

	_, err := services.ParseAmount("free")
	assert.Error(t, err)
	_, err = services.ParseAmount(true)
	assert.Error(t, err)
}
