package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubGatewayApproves(t *testing.T) {
	gateway := NewStubGateway(time.Millisecond)

	auth, err := gateway.Authorize(context.Background(), decimal.NewFromInt(100), "order-1")
	require.NoError(t, err)
	assert.True(t, auth.Approved)
	assert.NotEmpty(t, auth.Reference)
}

func TestStubGatewayDecline(t *testing.T) {
	gateway := NewStubGateway(time.Millisecond).SetDecline(true)

	auth, err := gateway.Authorize(context.Background(), decimal.NewFromInt(100), "order-1")
	require.NoError(t, err)
	assert.False(t, auth.Approved)
}

func TestStubGatewayContextCancel(t *testing.T) {
	gateway := NewStubGateway(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gateway.Authorize(ctx, decimal.NewFromInt(100), "order-1")
	require.ErrorIs(t, err, context.Canceled)
}
