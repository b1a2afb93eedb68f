package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	Email     string
	Password  string
}

type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Stock int32
}

type Order struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      int64
	Status      OrderStatusType
	TotalAmount decimal.Decimal
}

// OrderItem хранит снапшот цены продукта на момент оформления заказа.
// После создания запись неизменяема, при отмене заказа не удаляется.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
	Price     decimal.Decimal
}

type Payment struct {
	ID        int64
	CreatedAt time.Time
	OrderID   int64
	Amount    decimal.Decimal
	Status    PaymentStatusType
}
