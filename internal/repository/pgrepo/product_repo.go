package pgrepo

import (
	"context"

	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/fsdevblog/shoply/pkg/uow"
)

type ProductRepository struct {
	db uow.DBTX
}

func NewProductRepository(db uow.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// List возвращает каталог продуктов отсортированный по имени.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, price, stock FROM products ORDER BY name`,
	)
	if err != nil {
		return nil, convertErr(err, "listing products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if scanErr := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); scanErr != nil {
			return nil, convertErr(scanErr, "scanning product row")
		}
		products = append(products, p)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing products")
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx,
		`SELECT id, name, price, stock FROM products WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		return nil, convertErr(err, "finding product by id %d", id)
	}
	return &p, nil
}

// FindByIDForUpdate читает продукт с блокировкой строки (SELECT ... FOR UPDATE).
// Конкурирующая транзакция встанет на этой строке до коммита/отката текущей,
// после чего перечитает уже обновленный stock.
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx,
		`SELECT id, name, price, stock FROM products WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		return nil, convertErr(err, "finding product by id %d for update", id)
	}
	return &p, nil
}

// AdjustStock изменяет остаток продукта на delta (отрицательная — списание).
// Уход остатка в минус упрется в check-ограничение stock >= 0 и вернет
// domain.ErrCheckViolation.
func (r *ProductRepository) AdjustStock(ctx context.Context, id int64, delta int32) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx,
		`UPDATE products SET stock = stock + $1 WHERE id = $2
		 RETURNING id, name, price, stock`,
		delta, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		return nil, convertErr(err, "adjusting stock of product %d by %d", id, delta)
	}
	return &p, nil
}
