package repoargs

import (
	"github.com/fsdevblog/shoply/internal/domain"
	"github.com/shopspring/decimal"
)

type CreatePayment struct {
	OrderID int64
	Amount  decimal.Decimal
	Status  domain.PaymentStatusType
}
