package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/internal/repository/repoargs"
	"github.com/fsdevblog/shoply/pkg/uow"
)

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRow(ctx,
		`INSERT INTO orders (user_id, status, total_amount)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at, user_id, status, total_amount`,
		args.UserID, args.Status, args.TotalAmount,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.UserID, &order.Status, &order.TotalAmount)
	if err != nil {
		return nil, convertErr(err, "creating order for user %d", args.UserID)
	}
	return &order, nil
}

// CreateItems вставляет позиции заказа одним батчем. Результат каждой вставки
// передается в fn в порядке items.
func (r *OrderRepository) CreateItems(
	ctx context.Context,
	orderID int64,
	items []repoargs.CreateOrderItem,
	fn repoargs.OrderItemBatchQueryRow,
) {
	batch := new(pgx.Batch)
	for _, item := range items {
		batch.Queue(
			`INSERT INTO order_items (order_id, product_id, quantity, price)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, order_id, product_id, quantity, price`,
			orderID, item.ProductID, item.Quantity, item.Price,
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck

	for i := range items {
		var item domain.OrderItem
		err := results.QueryRow().
			Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price)
		fn(i, &item, convertErr(err, "creating item %d of order %d", i, orderID))
	}
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate читает заказ с блокировкой строки. Вторая конкурирующая отмена
// того же заказа дождется коммита первой и увидит уже статус cancelled.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Order, error) {
	return r.findByID(ctx, id, true)
}

func (r *OrderRepository) findByID(ctx context.Context, id int64, forUpdate bool) (*domain.Order, error) {
	query := `SELECT id, created_at, updated_at, user_id, status, total_amount FROM orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var order domain.Order
	err := r.db.QueryRow(ctx, query, id).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.UserID, &order.Status, &order.TotalAmount)
	if err != nil {
		return nil, convertErr(err, "finding order by id %d", id)
	}
	return &order, nil
}

func (r *OrderRepository) GetItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_id, product_id, quantity, price
		 FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, convertErr(err, "getting items of order %d", orderID)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if scanErr := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); scanErr != nil {
			return nil, convertErr(scanErr, "scanning item of order %d", orderID)
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting items of order %d", orderID)
	}
	return items, nil
}

func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	status domain.OrderStatusType,
) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRow(ctx,
		`UPDATE orders SET status = $1, updated_at = now() WHERE id = $2
		 RETURNING id, created_at, updated_at, user_id, status, total_amount`,
		status, id,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt, &order.UserID, &order.Status, &order.TotalAmount)
	if err != nil {
		return nil, convertErr(err, "updating status of order %d to %s", id, status)
	}
	return &order, nil
}

// GetDetails собирает заказ вместе с владельцем и позициями (с названиями продуктов
// и зафиксированными в order_items ценами) одним джойном.
func (r *OrderRepository) GetDetails(ctx context.Context, id int64) (*domain.OrderDetails, error) {
	rows, err := r.db.Query(ctx,
		`SELECT o.id, o.created_at, o.status, o.total_amount, u.id, u.email,
		        i.product_id, p.name, i.quantity, i.price
		 FROM orders o
		 JOIN users u ON u.id = o.user_id
		 JOIN order_items i ON i.order_id = o.id
		 JOIN products p ON p.id = i.product_id
		 WHERE o.id = $1
		 ORDER BY i.id`,
		id,
	)
	if err != nil {
		return nil, convertErr(err, "getting details of order %d", id)
	}
	defer rows.Close()

	var details *domain.OrderDetails
	for rows.Next() {
		var item domain.OrderDetailsItem
		var head domain.OrderDetails
		scanErr := rows.Scan(
			&head.ID, &head.CreatedAt, &head.Status, &head.TotalAmount, &head.UserID, &head.UserEmail,
			&item.ProductID, &item.ProductName, &item.Quantity, &item.Price,
		)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning details of order %d", id)
		}
		if details == nil {
			details = &head
		}
		details.Items = append(details.Items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting details of order %d", id)
	}
	if details == nil {
		// заказов без позиций не бывает, пустой результат значит что заказа нет.
		return nil, convertErr(pgx.ErrNoRows, "getting details of order %d", id)
	}
	return details, nil
}
