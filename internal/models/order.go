package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses an admin can set.
const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusDelivered = "Delivered"
	OrderStatusRejected  = "Rejected"
)

// OrderStatuses lists the valid order statuses in display order.
var OrderStatuses = []string{OrderStatusPending, OrderStatusConfirmed, OrderStatusDelivered, OrderStatusRejected}

// ValidOrderStatus reports whether status is one of OrderStatuses.
func ValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order is the stored order document as written by the storefront. Date and
// money fields arrive in more than one representation, so they are kept loose
// here and normalized into an OrderProjection.
type Order struct {
	ID              string          `mapstructure:"-"`
	UserID          string          `mapstructure:"-"`
	OrderStatus     string          `mapstructure:"orderStatus"`
	Customer        Customer        `mapstructure:"customer"`
	OrderDetails    RawOrderDetails `mapstructure:"orderDetails"`
	DeliveryAddress DeliveryAddress `mapstructure:"deliveryAddress"`
	Items           []RawOrderItem  `mapstructure:"items"`
	Totals          RawTotals       `mapstructure:"totals"`
	CreatedAt       interface{}     `mapstructure:"createdAt"`
}

type RawOrderDetails struct {
	OrderDate interface{} `mapstructure:"orderDate"`
	Payment   Payment     `mapstructure:"payment"`
	Delivery  Delivery    `mapstructure:"delivery"`
}

type RawOrderItem struct {
	CartFoodName     string      `mapstructure:"cartFoodName"`
	CartFoodAmount   interface{} `mapstructure:"cartFoodAmount"`
	CartFoodImage    string      `mapstructure:"cartFoodImage"`
	CartQuantity     interface{} `mapstructure:"cartQuantity"`
	CartFoodQuantity interface{} `mapstructure:"cartFoodQuantity"`
}

type RawTotals struct {
	Subtotal interface{} `mapstructure:"subtotal"`
	Tax      interface{} `mapstructure:"tax"`
	Shipping interface{} `mapstructure:"shipping"`
	Discount interface{} `mapstructure:"discount"`
	Total    interface{} `mapstructure:"total"`
}

type Customer struct {
	Name  string `json:"name" mapstructure:"name"`
	Email string `json:"email" mapstructure:"email"`
	Phone string `json:"phone" mapstructure:"phone"`
}

type Payment struct {
	Method        string `json:"method" mapstructure:"method"`
	Status        string `json:"status" mapstructure:"status"`
	TransactionID string `json:"transactionId" mapstructure:"transactionId"`
}

type Delivery struct {
	DeliveryDate   string `json:"deliveryDate" mapstructure:"deliveryDate"`
	ShippingMethod string `json:"shippingMethod" mapstructure:"shippingMethod"`
	TrackingNumber string `json:"trackingNumber" mapstructure:"trackingNumber"`
	Carrier        string `json:"carrier" mapstructure:"carrier"`
}

type DeliveryAddress struct {
	Address string `json:"address" mapstructure:"address"`
}

// OrderProjection is the read-shaped order served to the dashboard.
type OrderProjection struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	OrderStatus     string          `json:"orderStatus"`
	OrderDate       time.Time       `json:"orderDate"`
	OrderDateText   string          `json:"orderDateText"`
	Customer        Customer        `json:"customer"`
	Payment         Payment         `json:"payment"`
	Delivery        Delivery        `json:"delivery"`
	DeliveryAddress DeliveryAddress `json:"deliveryAddress"`
	Items           []OrderLine     `json:"items"`
	Totals          OrderTotals     `json:"totals"`
}

// OrderLine is one purchased item.
type OrderLine struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// OrderTotals holds the order's money amounts.
type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}
