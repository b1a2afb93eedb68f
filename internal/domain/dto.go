package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatusType string

const (
	OrderStatusPending    OrderStatusType = "pending"
	OrderStatusProcessing OrderStatusType = "processing"
	OrderStatusShipped    OrderStatusType = "shipped"
	OrderStatusDelivered  OrderStatusType = "delivered"
	OrderStatusCancelled  OrderStatusType = "cancelled"
)

type PaymentStatusType string

const (
	PaymentStatusSucceeded PaymentStatusType = "succeeded"
	PaymentStatusFailed    PaymentStatusType = "failed"
)

// OrderDetails собранное представление заказа для выдачи наружу: сам заказ,
// владелец и позиции с названиями продуктов и зафиксированными ценами.
type OrderDetails struct {
	ID          int64
	CreatedAt   time.Time
	Status      OrderStatusType
	TotalAmount decimal.Decimal
	UserID      int64
	UserEmail   string
	Items       []OrderDetailsItem
}

type OrderDetailsItem struct {
	ProductID   int64
	ProductName string
	Quantity    int32
	Price       decimal.Decimal
}
