package uow

import "errors"

var (
	ErrRepositoryNotRegistered     = errors.New("[uow] repository not registered")
	ErrRepositoryAlreadyRegistered = errors.New("[uow] repository already registered")
	ErrInvalidRepositoryType       = errors.New("[uow] invalid repository type")

	// ErrSlotTimeout возвращается когда за отведенное время не удалось получить слот на выполнение транзакции.
	ErrSlotTimeout = errors.New("[uow] transaction slot wait timeout")
	// ErrTxTimeout возвращается когда тело транзакции не уложилось в выделенный бюджет времени.
	ErrTxTimeout = errors.New("[uow] transaction execution timeout")
)
