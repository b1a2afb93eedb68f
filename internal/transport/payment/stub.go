package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultStubDelay = 100 * time.Millisecond

// StubGateway имитирует платежный шлюз: отвечает одобрением после фиксированной
// задержки. Через SetDecline можно заставить его отклонять платежи — сервисный
// слой обязан уметь переживать отказ, захардкоженного успеха тут нет.
type StubGateway struct {
	delay   time.Duration
	decline bool
}

func NewStubGateway(delay time.Duration) *StubGateway {
	if delay <= 0 {
		delay = DefaultStubDelay
	}
	return &StubGateway{delay: delay}
}

// SetDecline переключает заглушку в режим отклонения всех платежей.
func (g *StubGateway) SetDecline(decline bool) *StubGateway {
	g.decline = decline
	return g
}

func (g *StubGateway) Authorize(
	ctx context.Context,
	_ decimal.Decimal,
	_ string,
) (*Authorization, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err() //nolint:wrapcheck
	case <-time.After(g.delay):
	}

	return &Authorization{
		Approved:  !g.decline,
		Reference: uuid.NewString(),
	}, nil
}
