package repositories_test

import (
	"testing"

	"storeadmin/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserOrdersLayout(t *testing.T) {
	layout := repositories.UserOrdersLayout{}

	assert.Equal(t, "users", layout.UsersCollection())
	assert.Equal(t, "users/u1/orders", layout.OrdersCollection("u1"))
	assert.Equal(t, "users/u1/orders/o9", layout.OrderDocument("u1", "o9"))
	assert.Equal(t, "orders", layout.GroupName())

	userID, err := layout.UserIDFromPath(layout.OrderDocument("u1", "o9"))
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	userID, err = layout.UserIDFromPath("/users/abc/orders/o1/")
	require.NoError(t, err)
	assert.Equal(t, "abc", userID)

	for _, bad := range []string{"archive/2023/orders/o1", "users/u1", "users/u1/carts/c1", "users/u1/orders/o1/lines/l1", ""} {
		_, err := layout.UserIDFromPath(bad)
		assert.Error(t, err, bad)
	}
}
