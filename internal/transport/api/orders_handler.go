package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/service"
	"github.com/fsdevblog/shoply/pkg/uow"
)

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type CreateOrderItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int32 `json:"quantity"   binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	UserID int64                    `json:"user_id" binding:"required"`
	Items  []CreateOrderItemRequest `json:"items"   binding:"required,min=1,dive"`
}

type OrderResponse struct {
	OrderID     int64                  `json:"order_id"`
	Status      domain.OrderStatusType `json:"status"`
	TotalAmount float64                `json:"total_amount"`
}

type OrderDetailsItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int32   `json:"quantity"`
	Price       float64 `json:"price"`
}

type OrderDetailsResponse struct {
	OrderID     int64                      `json:"order_id"`
	Status      domain.OrderStatusType     `json:"status"`
	TotalAmount float64                    `json:"total_amount"`
	CreatedAt   time.Time                  `json:"created_at"`
	UserID      int64                      `json:"user_id"`
	UserEmail   string                     `json:"user_email"`
	Items       []OrderDetailsItemResponse `json:"items"`
}

// Create POST RouteGroup + OrdersRoute.
func (o *OrdersHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		_ = c.AbortWithError(http.StatusUnprocessableEntity, bindErr).SetType(gin.ErrorTypePrivate)
		return
	}

	var items = make([]service.OrderItemArgs, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemArgs{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, createErr := o.orderSvs.Create(reqCtx, req.UserID, items)
	if createErr != nil {
		abortWithDomainError(c, createErr)
		return
	}

	c.JSON(http.StatusCreated, OrderResponse{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.InexactFloat64(),
	})
}

// Show GET RouteGroup + OrderRoute.
func (o *OrdersHandler) Show(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	details, err := o.orderSvs.GetDetails(reqCtx, orderID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	var items = make([]OrderDetailsItemResponse, len(details.Items))
	for i, item := range details.Items {
		items[i] = OrderDetailsItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.InexactFloat64(),
		}
	}

	c.JSON(http.StatusOK, OrderDetailsResponse{
		OrderID:     details.ID,
		Status:      details.Status,
		TotalAmount: details.TotalAmount.InexactFloat64(),
		CreatedAt:   details.CreatedAt,
		UserID:      details.UserID,
		UserEmail:   details.UserEmail,
		Items:       items,
	})
}

// Cancel POST RouteGroup + OrderCancelRoute.
func (o *OrdersHandler) Cancel(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Cancel(reqCtx, orderID)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, OrderResponse{
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.InexactFloat64(),
	})
}

func orderIDParam(c *gin.Context) (int64, bool) {
	orderID, parseErr := strconv.ParseInt(c.Param("orderID"), 10, 64)
	if parseErr != nil {
		_ = c.AbortWithError(http.StatusUnprocessableEntity, parseErr).SetType(gin.ErrorTypePrivate)
		return 0, false
	}
	return orderID, true
}

// abortWithDomainError транслирует ошибки доменного слоя в http статусы.
// Бизнес-отказы (нехватка остатка, неотменяемый статус, отказ оплаты) считаются
// ошибками клиента, транзиентные отказы транзакционного слоя — 503.
func abortWithDomainError(c *gin.Context, err error) {
	var insufficientStockErr *domain.InsufficientStockError
	var notCancelableErr *domain.NotCancelableError
	var paymentDeclinedErr *domain.PaymentDeclinedError
	var productNotFoundErr *domain.ProductNotFoundError

	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.As(err, &productNotFoundErr):
		_ = c.AbortWithError(http.StatusNotFound, err).SetType(gin.ErrorTypePublic)
	case errors.As(err, &insufficientStockErr),
		errors.As(err, &notCancelableErr),
		errors.As(err, &paymentDeclinedErr):
		_ = c.AbortWithError(http.StatusBadRequest, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrEmptyOrder):
		_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
	case errors.Is(err, uow.ErrSlotTimeout), errors.Is(err, uow.ErrTxTimeout):
		_ = c.AbortWithError(http.StatusServiceUnavailable, err).SetType(gin.ErrorTypePrivate)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
