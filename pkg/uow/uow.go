package uow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RepositoryName string
type Repository any
type RepositoryFactory func(DBTX) Repository

const (
	DefaultTxSlots   uint          = 16
	DefaultSlotWait  time.Duration = time.Second
	DefaultTxTimeout time.Duration = 5 * time.Second
)

type UnitOfWork struct {
	conn         *pgxpool.Pool
	repositories map[RepositoryName]RepositoryFactory
	slots        *slotPool
	txTimeout    time.Duration
}

type Option func(*UnitOfWork)

// WithSlots ограничивает кол-во одновременно выполняемых транзакций и время ожидания свободного слота.
func WithSlots(slots uint, wait time.Duration) Option {
	return func(u *UnitOfWork) {
		u.slots = newSlotPool(slots, wait)
	}
}

// WithTxTimeout устанавливает бюджет времени на выполнение тела транзакции.
func WithTxTimeout(timeout time.Duration) Option {
	return func(u *UnitOfWork) {
		u.txTimeout = timeout
	}
}

func NewUnitOfWork(conn *pgxpool.Pool, opts ...Option) *UnitOfWork {
	u := &UnitOfWork{
		conn:         conn,
		repositories: make(map[RepositoryName]RepositoryFactory),
		slots:        newSlotPool(DefaultTxSlots, DefaultSlotWait),
		txTimeout:    DefaultTxTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Register регистрирует репозиторий у себя в мапе. Если репозиторий уже зарегистрирован, возвращает
// ошибку ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, factory RepositoryFactory) error {
	if _, ok := u.repositories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	u.repositories[name] = factory
	return nil
}

// Do выполняет функцию fn внутри транзакции с уровнем изоляции READ COMMITTED.
//
// Перед стартом транзакции захватывается слот на выполнение (ErrSlotTimeout при превышении ожидания),
// само тело работает под дедлайном txTimeout (ErrTxTimeout). В обоих случаях транзакция откатывается
// целиком, частичных коммитов не бывает.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) (err error) {
	if slotErr := u.slots.acquire(ctx); slotErr != nil {
		return slotErr
	}
	defer u.slots.release()

	txCtx, cancel := context.WithTimeout(ctx, u.txTimeout)
	defer cancel()

	tx, txErr := u.conn.BeginTx(txCtx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if txErr != nil {
		return convertTimeoutErr(ctx, txCtx, txErr)
	}
	defer func() {
		// контекст транзакции к этому моменту может быть уже мертв, откатываем на свежем.
		rollbackCtx, rollbackCancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer rollbackCancel()
		if rollbackErr := tx.Rollback(rollbackCtx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			if err == nil {
				err = rollbackErr
			} else {
				err = errors.Join(err, rollbackErr)
			}
		}
	}()

	transErr := fn(txCtx, NewTransaction(tx, u.repositories))
	if transErr != nil {
		return convertTimeoutErr(ctx, txCtx, transErr)
	}
	err = convertTimeoutErr(ctx, txCtx, tx.Commit(txCtx))
	return
}

// GetRepository возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	if repoFactory, ok := u.repositories[name]; ok {
		return repoFactory(u.conn), nil
	}
	return nil, ErrRepositoryNotRegistered
}

// GetRepositoryAs возвращает репозиторий по имени name и приводит его к типу T. Возвращает ошибки
// ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)

	if !ok {
		return res, ErrInvalidRepositoryType
	}

	return r, nil
}

// convertTimeoutErr помечает ошибку как ErrTxTimeout если истек именно бюджет транзакции,
// а не контекст вызывающей стороны.
func convertTimeoutErr(parent, txCtx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(txCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return fmt.Errorf("%w: %s", ErrTxTimeout, err.Error())
	}
	return err
}
