package api

import (
	"context"
	"time"

	"github.com/fsdevblog/shoply/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 10 * time.Second
)

const (
	RouteGroup       = "/api"
	RegisterRoute    = "/user/register"
	ProductsRoute    = "/products"
	OrdersRoute      = "/orders"
	OrderRoute       = "/orders/:orderID"
	OrderCancelRoute = "/orders/:orderID/cancel"
	HealthRoute      = "/health"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	UserService    UserServicer
	OrderService   OrderServicer
	ProductService ProductServicer
	DBPing         func(ctx context.Context) error
}

func New(args RouterArgs) *gin.Engine {
	if err := registerValidators(); err != nil {
		panic(err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	productsHandler := NewProductsHandler(args.ProductService)
	healthHandler := NewHealthHandler(args.DBPing)

	api := r.Group(RouteGroup)

	api.GET(HealthRoute, healthHandler.Show)
	api.POST(RegisterRoute, authHandler.Register)
	api.GET(ProductsRoute, productsHandler.Index)

	api.POST(OrdersRoute, ordersHandler.Create)
	api.GET(OrderRoute, ordersHandler.Show)
	api.POST(OrderCancelRoute, ordersHandler.Cancel)

	return r
}
