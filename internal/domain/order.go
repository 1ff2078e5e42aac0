package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusReturned  OrderStatus = "RETURNED"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range orderStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", InvalidArgument("Invalid order status: %s", s)
}

type Order struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalPrice"`
	Items      []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one order line. Its product reference blocks product deletion.
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Status    OrderStatus     `gorm:"size:16;not null;index" json:"status"`
	UserID    int64           `gorm:"not null;index" json:"userId"`
	User      *User           `json:"user,omitempty"`
	ProductID int64           `gorm:"not null;index" json:"productId"`
	Product   *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	OrderID   int64           `gorm:"not null;index" json:"orderId"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderItemFilter holds the optional criteria for order line queries
type OrderItemFilter struct {
	Status    *OrderStatus
	StartDate *time.Time
	EndDate   *time.Time
	ItemID    *int64
}
