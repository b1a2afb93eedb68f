package uow

import (
	"context"
	"time"
)

// slotPool ограничивает кол-во одновременно выполняемых транзакций.
// Захват слота ждет не дольше wait, иначе ErrSlotTimeout.
type slotPool struct {
	slots chan struct{}
	wait  time.Duration
}

func newSlotPool(size uint, wait time.Duration) *slotPool {
	if size == 0 {
		size = DefaultTxSlots
	}
	return &slotPool{
		slots: make(chan struct{}, size),
		wait:  wait,
	}
}

func (p *slotPool) acquire(ctx context.Context) error {
	timer := time.NewTimer(p.wait)
	defer timer.Stop()

	select {
	case p.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrSlotTimeout
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	}
}

func (p *slotPool) release() {
	<-p.slots
}
