package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/service"
)

type OrderServicer interface {
	Create(ctx context.Context, userID int64, items []service.OrderItemArgs) (*domain.Order, error)
	Cancel(ctx context.Context, orderID int64) (*domain.Order, error)
	GetDetails(ctx context.Context, orderID int64) (*domain.OrderDetails, error)
}

type ProductServicer interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, error)
}
