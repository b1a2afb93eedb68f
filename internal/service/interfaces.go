package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/repository/repoargs"
	"github.com/fsdevblog/shoply/internal/transport/payment"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int32) (*domain.Product, error)
}

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error)
	CreateItems(
		ctx context.Context,
		orderID int64,
		items []repoargs.CreateOrderItem,
		fn repoargs.OrderItemBatchQueryRow,
	)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error)
	GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatusType) (*domain.Order, error)
	GetDetails(ctx context.Context, id int64) (*domain.OrderDetails, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, args repoargs.CreatePayment) (*domain.Payment, error)
	FindByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error)
}

// PaymentAuthorizer внешняя возможность авторизации платежа. Вызывается ровно один раз
// на попытку создания заказа, внутри инвентарной транзакции.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, amount decimal.Decimal, orderRef string) (*payment.Authorization, error)
}
