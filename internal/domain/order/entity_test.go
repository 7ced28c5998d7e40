package order

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	now := time.Now()
	o, err := NewOrder("ORD1", 7, []OrderItem{
		{BookID: 1, Title: "Go语言圣经", Quantity: 2, Price: 999},
		{BookID: 2, Title: "DDD", Quantity: 1, Price: 4500},
	}, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2*999+4500), o.Total)
	assert.Equal(t, 3, o.TotalQuantity())
	assert.Equal(t, now, o.OrderDate)
	assert.True(t, o.IsOwnedBy(7))
	assert.False(t, o.IsOwnedBy(8))
}

func TestNewOrder_Invalid(t *testing.T) {
	now := time.Now()

	_, err := NewOrder("ORD1", 1, nil, now)
	assert.ErrorIs(t, err, ErrInvalidOrderItems)

	_, err = NewOrder("ORD1", 1, []OrderItem{{BookID: 1, Quantity: 0, Price: 100}}, now)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder("ORD1", 1, []OrderItem{{BookID: 1, Quantity: 1, Price: -1}}, now)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestGenerateOrderNo(t *testing.T) {
	now := time.Unix(1699248000, 0)
	a := generateOrderNo(now)
	b := generateOrderNo(now)

	assert.Regexp(t, regexp.MustCompile(`^ORD1699248000\d{6}$`), a)
	assert.NotEqual(t, a, b)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[GenerateOrderNo()] = true
	}
	assert.Len(t, seen, 1000)
}
