package repoargs

import (
	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateOrder struct {
	UserID      int64
	Status      domain.OrderStatusType
	TotalAmount decimal.Decimal
}

// CreateOrderItem снапшот позиции заказа: количество и цена продукта на момент оформления.
type CreateOrderItem struct {
	ProductID int64
	Quantity  int32
	Price     decimal.Decimal
}

type OrderItemBatchQueryRow func(i int, item *domain.OrderItem, err error)
