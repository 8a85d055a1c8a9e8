package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testItems() []OrderItem {
	return []OrderItem{
		{BookID: "b1", Title: "The Go Programming Language", Quantity: 2, UnitPriceCents: 3499},
		{BookID: "b2", Title: "Designing Data-Intensive Applications", Quantity: 1, UnitPriceCents: 4250},
	}
}

func TestNewOrder_ComputesTotal(t *testing.T) {
	order, err := NewOrder("o1", "u1", testItems())
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)
	require.Equal(t, int64(2*3499+4250), order.TotalCents)
	require.False(t, order.IsDelivered)
	require.Nil(t, order.DeliveredAt)
}

func TestNewOrder_Invalid(t *testing.T) {
	_, err := NewOrder("", "u1", testItems())
	require.ErrorIs(t, err, ErrEmptyOrderID)

	_, err = NewOrder("o1", "  ", testItems())
	require.ErrorIs(t, err, ErrEmptyUserID)

	_, err = NewOrder("o1", "u1", nil)
	require.ErrorIs(t, err, ErrNoItems)

	_, err = NewOrder("o1", "u1", []OrderItem{{BookID: "b1", Quantity: 0, UnitPriceCents: 100}})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder("o1", "u1", []OrderItem{{BookID: "b1", Quantity: 1, UnitPriceCents: -1}})
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestApplyStatus_DeliveredSetsFlags(t *testing.T) {
	order, err := NewOrder("o1", "u1", testItems())
	require.NoError(t, err)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, order.ApplyStatus(StatusDelivered, now))
	require.Equal(t, StatusDelivered, order.Status)
	require.True(t, order.IsDelivered)
	require.NotNil(t, order.DeliveredAt)
	require.Equal(t, now, *order.DeliveredAt)
}

func TestApplyStatus_NonDeliveredClearsFlagKeepsTimestamp(t *testing.T) {
	order, err := NewOrder("o1", "u1", testItems())
	require.NoError(t, err)

	first := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, order.ApplyStatus(StatusDelivered, first))

	require.NoError(t, order.ApplyStatus(StatusProcessing, first.Add(time.Hour)))
	require.Equal(t, StatusProcessing, order.Status)
	require.False(t, order.IsDelivered)
	require.NotNil(t, order.DeliveredAt)
	require.Equal(t, first, *order.DeliveredAt)
}

func TestApplyStatus_RedeliveryKeepsOriginalTimestamp(t *testing.T) {
	order, err := NewOrder("o1", "u1", testItems())
	require.NoError(t, err)

	first := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, order.ApplyStatus(StatusDelivered, first))
	require.NoError(t, order.ApplyStatus(StatusShipped, first.Add(time.Hour)))
	require.NoError(t, order.ApplyStatus(StatusDelivered, first.Add(2*time.Hour)))

	require.True(t, order.IsDelivered)
	require.Equal(t, first, *order.DeliveredAt, "delivery timestamp is stamped once")
}

func TestApplyStatus_RejectsInvalid(t *testing.T) {
	order, err := NewOrder("o1", "u1", testItems())
	require.NoError(t, err)

	err = order.ApplyStatus(Status("Banana"), time.Now())
	require.ErrorIs(t, err, ErrInvalidStatus)
	require.Equal(t, StatusPending, order.Status, "failed transition leaves the order unchanged")
}
