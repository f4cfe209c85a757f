package repositories

import (
	"fmt"

	"storeadmin/pkg/docstore"
)

// OrderPathMapper maps between order identities and their storage paths. The
// owning user is not stored on the order document; it is recovered from the path.
type OrderPathMapper interface {
	// UsersCollection is the collection enumerated by the fan-out strategy.
	UsersCollection() string
	// OrdersCollection is the order subcollection of a single user.
	OrdersCollection(userID string) string
	OrderDocument(userID, orderID string) string
	// GroupName is the collection name queried by the collection-group strategy.
	GroupName() string
	// UserIDFromPath returns the owning user of the order stored at path.
	UserIDFromPath(path string) (string, error)
}

// UserOrdersLayout stores orders at users/{userId}/orders/{orderId}. Segment 1
// of an order path is the user ID.
type UserOrdersLayout struct{}

func (UserOrdersLayout) UsersCollection() string { return "users" }

func (UserOrdersLayout) OrdersCollection(userID string) string {
	return docstore.Join("users", userID, "orders")
}

func (UserOrdersLayout) OrderDocument(userID, orderID string) string {
	return docstore.Join("users", userID, "orders", orderID)
}

func (UserOrdersLayout) GroupName() string { return "orders" }

func (UserOrdersLayout) UserIDFromPath(path string) (string, error) {
	segs := docstore.Split(path)
	if len(segs) != 4 || segs[0] != "users" || segs[2] != "orders" || segs[1] == "" {
		return "", fmt.Errorf("path %q is not a user order path", path)
	}
	return segs[1], nil
}
