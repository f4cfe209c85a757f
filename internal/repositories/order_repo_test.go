package repositories_test

import (
	"context"
	"testing"

	"storeadmin/internal/repositories"
	"storeadmin/pkg/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUserOrders(t *testing.T) *docstore.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	docs := map[string]map[string]interface{}{
		"users/u2":           {"name": "Vikram"},
		"users/u1":           {"name": "Asha"},
		"users/u1/orders/b":  {"orderStatus": "Pending", "customer": map[string]interface{}{"name": "Asha"}},
		"users/u1/orders/a":  {"orderStatus": "Confirmed", "customer": map[string]interface{}{"name": "Asha"}},
		"users/u2/orders/c":  {"orderStatus": "Pending", "totals": map[string]interface{}{"total": "₹10"}},
		"stores/s1/orders/x": {"orderStatus": "Pending"},
	}
	for path, data := range docs {
		require.NoError(t, store.SetDocument(ctx, path, data, false))
	}
	return store
}

func orderKeys(t *testing.T, repo *repositories.DocstoreOrderRepository) []string {
	t.Helper()
	orders, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	keys := make([]string, 0, len(orders))
	for _, o := range orders {
		keys = append(keys, o.UserID+"/"+o.ID)
	}
	return keys
}

func TestDocstoreOrderRepository_Strategies(t *testing.T) {
	store := seedUserOrders(t)
	layout := repositories.UserOrdersLayout{}

	fanOut := repositories.NewDocstoreOrderRepository(store, layout, repositories.StrategyFanOut)
	group := repositories.NewDocstoreOrderRepository(store, layout, repositories.StrategyCollectionGroup)

	want := []string{"u1/a", "u1/b", "u2/c"}
	assert.Equal(t, want, orderKeys(t, fanOut))
	assert.Equal(t, want, orderKeys(t, group))
}

func TestDocstoreOrderRepository_StrategiesAgreeAfterUserDelete(t *testing.T) {
	ctx := context.Background()
	store := seedUserOrders(t)
	layout := repositories.UserOrdersLayout{}

	// Deleting a user keeps the orders subcollection in place.
	require.NoError(t, repositories.NewDocstoreUserRepository(store).Delete(ctx, "u1"))
	_, err := store.GetDocument(ctx, "users/u1")
	require.ErrorIs(t, err, docstore.ErrNotFound)

	fanOut := repositories.NewDocstoreOrderRepository(store, layout, repositories.StrategyFanOut)
	group := repositories.NewDocstoreOrderRepository(store, layout, repositories.StrategyCollectionGroup)

	want := []string{"u1/a", "u1/b", "u2/c"}
	assert.Equal(t, want, orderKeys(t, fanOut))
	assert.Equal(t, want, orderKeys(t, group))
}

func TestDocstoreOrderRepository_UnknownStrategyFallsBack(t *testing.T) {
	repo := repositories.NewDocstoreOrderRepository(docstore.NewMemoryStore(), repositories.UserOrdersLayout{}, "parallel")
	assert.Equal(t, repositories.StrategyFanOut, repo.Strategy())
}

func TestDocstoreOrderRepository_GetByIDAndUpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := seedUserOrders(t)
	repo := repositories.NewDocstoreOrderRepository(store, repositories.UserOrdersLayout{}, "")

	order, err := repo.GetByID(ctx, "u2", "c")
	require.NoError(t, err)
	assert.Equal(t, "u2", order.UserID)
	assert.Equal(t, "c", order.ID)
	assert.Equal(t, "Pending", order.OrderStatus)
	assert.Equal(t, "₹10", order.Totals.Total)

	require.NoError(t, repo.UpdateStatus(ctx, "u2", "c", "Delivered"))
	doc, err := store.GetDocument(ctx, "users/u2/orders/c")
	require.NoError(t, err)
	assert.Equal(t, "Delivered", doc.Data["orderStatus"])
	assert.Equal(t, map[string]interface{}{"total": "₹10"}, doc.Data["totals"])

	_, err = repo.GetByID(ctx, "u2", "zz")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "u2", "zz", "Delivered"), docstore.ErrNotFound)
}
