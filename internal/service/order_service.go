package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/repository/repoargs"
	"github.com/fsdevblog/shoply/pkg/uow"
)

type OrderService struct {
	uow        uow.UOW
	orderRepo  OrderRepository
	authorizer PaymentAuthorizer
	l          *logrus.Entry
}

func NewOrderService(u uow.UOW, authorizer PaymentAuthorizer, l *logrus.Logger) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:        u,
		orderRepo:  orderRepo,
		authorizer: authorizer,
		l:          l.WithField("component", "order_service"),
	}, nil
}

// OrderItemArgs запрошенная позиция заказа.
type OrderItemArgs struct {
	ProductID int64
	Quantity  int32
}

// Create оформляет заказ атомарно: проверка и списание остатков, создание заказа
// с позициями, авторизация платежа и запись оплаты выполняются в одной транзакции.
//
// Алгоритм работы (все шаги внутри одной транзакции):
//  1. Загружается пользователь (domain.ErrUserNotFound если отсутствует).
//  2. Для каждой позиции в порядке переданном вызывающей стороной: продукт читается
//     с блокировкой строки, проверяется достаточность остатка
//     (domain.InsufficientStockError), цена продукта фиксируется в снапшот позиции,
//     остаток списывается. Проверка и списание намеренно не разносятся по разным
//     транзакциям — иначе два конкурирующих заказа могут оба пройти проверку.
//  3. Создается заказ в статусе processing вместе с позициями.
//  4. Авторизуется платеж на итоговую сумму. Отказ (domain.PaymentDeclinedError)
//     откатывает и заказ, и все списания остатков.
//  5. Записывается оплата со статусом succeeded.
//
// Повторных попыток при ошибке нет: вызывающая сторона получает итоговую ошибку
// и может отправить заказ заново как новую попытку (с новым txID).
func (o *OrderService) Create(
	ctx context.Context,
	userID int64,
	items []OrderItemArgs,
) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	l := o.l.WithFields(logrus.Fields{
		"txID":   uuid.NewString(),
		"userID": userID,
	})

	var order *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		productRepo, productRepoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if productRepoErr != nil {
			return productRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		paymentRepo, paymentRepoErr := uow.GetAs[PaymentRepository](tx, uow.RepositoryName(repoargs.PaymentRepoName))
		if paymentRepoErr != nil {
			return paymentRepoErr //nolint:wrapcheck
		}

		if _, userErr := userRepo.FindByID(c, userID); userErr != nil {
			if errors.Is(userErr, domain.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return userErr //nolint:wrapcheck
		}

		lineItems, total, reserveErr := o.reserveStock(c, l, productRepo, items)
		if reserveErr != nil {
			return reserveErr
		}

		var createErr error
		order, createErr = orderRepo.Create(c, repoargs.CreateOrder{
			UserID:      userID,
			Status:      domain.OrderStatusProcessing,
			TotalAmount: total,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		var itemsErr error
		orderRepo.CreateItems(c, order.ID, lineItems, func(_ int, _ *domain.OrderItem, err error) {
			if err != nil {
				itemsErr = err
			}
		})
		if itemsErr != nil {
			return itemsErr //nolint:wrapcheck
		}
		l.WithFields(logrus.Fields{
			"orderID": order.ID,
			"total":   total,
		}).Debug("order persisted")

		if payErr := o.authorizePayment(c, l, paymentRepo, order.ID, total); payErr != nil {
			return payErr
		}
		return nil
	})

	if txErr != nil {
		l.WithError(txErr).Warn("order creation rolled back")
		return nil, fmt.Errorf("creating order: %w", txErr)
	}

	l.WithField("orderID", order.ID).Info("order created")
	return order, nil
}

// reserveStock проверяет достаточность остатка и списывает его для каждой позиции.
// Цена продукта фиксируется в возвращаемых снапшотах позиций, итоговая сумма
// аккумулируется по зафиксированным ценам.
func (o *OrderService) reserveStock(
	ctx context.Context,
	l *logrus.Entry,
	productRepo ProductRepository,
	items []OrderItemArgs,
) ([]repoargs.CreateOrderItem, decimal.Decimal, error) {
	var lineItems = make([]repoargs.CreateOrderItem, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		product, productErr := productRepo.FindByIDForUpdate(ctx, item.ProductID)
		if productErr != nil {
			if errors.Is(productErr, domain.ErrRecordNotFound) {
				return nil, decimal.Zero, domain.NewProductNotFoundError(item.ProductID)
			}
			return nil, decimal.Zero, productErr //nolint:wrapcheck
		}

		if product.Stock < item.Quantity {
			l.WithFields(logrus.Fields{
				"productID": product.ID,
				"available": product.Stock,
				"requested": item.Quantity,
			}).Debug("insufficient stock")
			return nil, decimal.Zero, domain.NewInsufficientStockError(product, item.Quantity)
		}

		lineItems = append(lineItems, repoargs.CreateOrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt32(item.Quantity)))

		if _, adjErr := productRepo.AdjustStock(ctx, product.ID, -item.Quantity); adjErr != nil {
			return nil, decimal.Zero, adjErr //nolint:wrapcheck
		}
		l.WithFields(logrus.Fields{
			"productID": product.ID,
			"quantity":  item.Quantity,
		}).Debug("stock reserved")
	}

	return lineItems, total, nil
}

// authorizePayment авторизует платеж и записывает успешную оплату. Вызывается внутри
// инвентарной транзакции: отказ или ошибка шлюза откатывает заказ целиком.
func (o *OrderService) authorizePayment(
	ctx context.Context,
	l *logrus.Entry,
	paymentRepo PaymentRepository,
	orderID int64,
	total decimal.Decimal,
) error {
	auth, authErr := o.authorizer.Authorize(ctx, total, orderRef(orderID))
	if authErr != nil {
		return fmt.Errorf("%w: %s", domain.NewPaymentDeclinedError(orderID, ""), authErr.Error())
	}
	if !auth.Approved {
		l.WithField("reference", auth.Reference).Debug("payment declined")
		return domain.NewPaymentDeclinedError(orderID, auth.Reference)
	}

	if _, payErr := paymentRepo.Create(ctx, repoargs.CreatePayment{
		OrderID: orderID,
		Amount:  total,
		Status:  domain.PaymentStatusSucceeded,
	}); payErr != nil {
		return payErr //nolint:wrapcheck
	}
	l.WithField("reference", auth.Reference).Debug("payment recorded")
	return nil
}

// Cancel отменяет заказ и возвращает списанные остатки продуктам. Операция
// идемпотентна: повторная отмена уже отмененного заказа ничего не меняет и
// ошибкой не является. Записи об оплате отмена не трогает.
func (o *OrderService) Cancel(ctx context.Context, orderID int64) (*domain.Order, error) {
	l := o.l.WithFields(logrus.Fields{
		"txID":    uuid.NewString(),
		"orderID": orderID,
	})

	var order *domain.Order

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		productRepo, productRepoErr := uow.GetAs[ProductRepository](tx, uow.RepositoryName(repoargs.ProductRepoName))
		if productRepoErr != nil {
			return productRepoErr //nolint:wrapcheck
		}

		var findErr error
		order, findErr = orderRepo.FindByIDForUpdate(c, orderID)
		if findErr != nil {
			if errors.Is(findErr, domain.ErrRecordNotFound) {
				return domain.ErrOrderNotFound
			}
			return findErr //nolint:wrapcheck
		}

		switch order.Status {
		case domain.OrderStatusCancelled:
			// заказ уже отменен, остатки возвращены ранее.
			l.Debug("order already cancelled")
			return nil
		case domain.OrderStatusShipped, domain.OrderStatusDelivered:
			return domain.NewNotCancelableError(orderID, order.Status)
		case domain.OrderStatusPending, domain.OrderStatusProcessing:
		}

		items, itemsErr := orderRepo.GetItems(c, orderID)
		if itemsErr != nil {
			return itemsErr //nolint:wrapcheck
		}

		for _, item := range items {
			if _, adjErr := productRepo.AdjustStock(c, item.ProductID, item.Quantity); adjErr != nil {
				return adjErr //nolint:wrapcheck
			}
			l.WithFields(logrus.Fields{
				"productID": item.ProductID,
				"quantity":  item.Quantity,
			}).Debug("stock restored")
		}

		var updErr error
		order, updErr = orderRepo.UpdateStatus(c, orderID, domain.OrderStatusCancelled)
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}
		return nil
	})

	if txErr != nil {
		l.WithError(txErr).Warn("order cancellation rolled back")
		return nil, fmt.Errorf("cancelling order: %w", txErr)
	}

	l.WithField("status", order.Status).Info("order cancellation finished")
	return order, nil
}

// GetDetails возвращает собранное представление заказа: статус, сумму, владельца
// и позиции с ценами зафиксированными на момент оформления (не текущими ценами
// продуктов). Читает вне транзакции.
func (o *OrderService) GetDetails(ctx context.Context, orderID int64) (*domain.OrderDetails, error) {
	details, err := o.orderRepo.GetDetails(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err //nolint:wrapcheck
	}
	return details, nil
}

func orderRef(orderID int64) string {
	return fmt.Sprintf("order-%d", orderID)
}
