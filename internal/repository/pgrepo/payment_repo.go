package pgrepo

import (
	"context"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/repository/repoargs"
	"github.com/fsdevblog/shoply/pkg/uow"
)

type PaymentRepository struct {
	db uow.DBTX
}

func NewPaymentRepository(db uow.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create создает запись об оплате. На order_id висит уникальный индекс,
// повторная запись для того же заказа вернет domain.ErrDuplicateKey.
func (r *PaymentRepository) Create(ctx context.Context, args repoargs.CreatePayment) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.QueryRow(ctx,
		`INSERT INTO payments (order_id, amount, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, order_id, amount, status`,
		args.OrderID, args.Amount, args.Status,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.OrderID, &payment.Amount, &payment.Status)
	if err != nil {
		return nil, convertErr(err, "creating payment for order %d", args.OrderID)
	}
	return &payment, nil
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID int64) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.QueryRow(ctx,
		`SELECT id, created_at, order_id, amount, status FROM payments WHERE order_id = $1`,
		orderID,
	).Scan(&payment.ID, &payment.CreatedAt, &payment.OrderID, &payment.Amount, &payment.Status)
	if err != nil {
		return nil, convertErr(err, "finding payment by order id %d", orderID)
	}
	return &payment, nil
}
