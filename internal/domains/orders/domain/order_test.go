package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewOrder_SnapshotsTotal(t *testing.T) {
	items := []OrderItem{
		{ProductID: 1, Quantity: 2, Price: price("9.99")},
		{ProductID: 2, Quantity: 1, Price: price("5.00")},
	}

	order, saved, err := NewOrder(7, items, "221B Baker Street", "")
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, StatusPending, order.Status)
	assert.True(t, order.TotalPrice.Equal(price("24.98")), "total was %s", order.TotalPrice)
}

func TestNewOrder_RejectsInvalidInput(t *testing.T) {
	valid := []OrderItem{{ProductID: 1, Quantity: 1, Price: price("1.00")}}

	_, _, err := NewOrder(0, valid, "221B Baker Street", "")
	require.ErrorIs(t, err, ErrInvalidUserID)

	_, _, err = NewOrder(7, nil, "221B Baker Street", "")
	require.ErrorIs(t, err, ErrNoItems)

	_, _, err = NewOrder(7, valid, "a", "")
	require.ErrorIs(t, err, ErrInvalidAddress)

	_, _, err = NewOrder(7, []OrderItem{{ProductID: 1, Quantity: 0, Price: price("1.00")}}, "221B Baker Street", "")
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, _, err = NewOrder(7, []OrderItem{{ProductID: 1, Quantity: 1, Price: decimal.Zero}}, "221B Baker Street", "")
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestTransition_Table(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusShipped, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusReturned, true},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusReturned, StatusPending, false},
	}
	for _, tc := range cases {
		order := &Order{Status: tc.from}
		err := order.Transition(tc.to)
		if tc.ok {
			require.NoError(t, err, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.to, order.Status)
		} else {
			require.ErrorIs(t, err, ErrIllegalTransition, "%s -> %s", tc.from, tc.to)
			assert.Equal(t, tc.from, order.Status)
		}
	}
}

func TestTransition_SameStatusIsNoOp(t *testing.T) {
	order := &Order{Status: StatusDelivered}
	require.NoError(t, order.Transition(StatusDelivered))
	assert.Equal(t, StatusDelivered, order.Status)
}

func TestApply_PartialOverwrite(t *testing.T) {
	order := &Order{Status: StatusPending, ShippingAddress: "221B Baker Street", Notes: "ring twice"}

	addr := "10 Downing Street"
	require.NoError(t, order.Apply(OrderUpdate{ShippingAddress: &addr}))
	assert.Equal(t, "10 Downing Street", order.ShippingAddress)
	assert.Equal(t, "ring twice", order.Notes)
	assert.Equal(t, StatusPending, order.Status)

	confirmed := StatusConfirmed
	require.NoError(t, order.Apply(OrderUpdate{Status: &confirmed}))
	assert.Equal(t, StatusConfirmed, order.Status)

	pending := StatusPending
	err := order.Apply(OrderUpdate{Status: &pending})
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("shipped")
	require.ErrorIs(t, err, ErrInvalidStatus)
}
