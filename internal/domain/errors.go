package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrCheckViolation = errors.New("check constraint violation")
	ErrUnknown        = errors.New("unknown error")

	ErrUserNotFound  = errors.New("user not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyOrder    = errors.New("order has no items")
)

type ProductNotFoundError struct {
	ProductID int64
}

func NewProductNotFoundError(productID int64) error {
	return &ProductNotFoundError{ProductID: productID}
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %d not found", e.ProductID)
}

type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int32
	Requested   int32
}

func NewInsufficientStockError(product *Product, requested int32) error {
	return &InsufficientStockError{
		ProductID:   product.ID,
		ProductName: product.Name,
		Available:   product.Stock,
		Requested:   requested,
	}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for product %s: available %d, requested %d",
		e.ProductName,
		e.Available,
		e.Requested,
	)
}

type PaymentDeclinedError struct {
	OrderID   int64
	Reference string
}

func NewPaymentDeclinedError(orderID int64, reference string) error {
	return &PaymentDeclinedError{OrderID: orderID, Reference: reference}
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined for order %d (ref %s)", e.OrderID, e.Reference)
}

type NotCancelableError struct {
	OrderID int64
	Status  OrderStatusType
}

func NewNotCancelableError(orderID int64, status OrderStatusType) error {
	return &NotCancelableError{OrderID: orderID, Status: status}
}

func (e *NotCancelableError) Error() string {
	return fmt.Sprintf("order %d in status %s cannot be cancelled", e.OrderID, e.Status)
}
