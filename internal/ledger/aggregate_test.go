package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"daftar/internal/core"
)

func TestAggregate(t *testing.T) {
	got := Aggregate(sampleOrders())

	assert.Equal(t, Summary{
		TotalIngoing:  3500,
		TotalOutgoing: 800,
		TotalProfit:   2700,
		NumOrders:     5,
		NumIngoing:    2,
		NumOutgoing:   2,
	}, got)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Aggregate(nil))
	assert.Equal(t, Summary{}, Aggregate([]core.Order{}))
}

func TestAggregateProfitIdentity(t *testing.T) {
	filters := []Filter{
		{},
		{Type: core.Ingoing},
		{Type: core.Outgoing},
		{Search: "e"},
		{DateFrom: date("2024-02-01")},
	}
	for _, f := range filters {
		s := Aggregate(Apply(sampleOrders(), f))
		assert.GreaterOrEqual(t, s.TotalIngoing, int64(0))
		assert.GreaterOrEqual(t, s.TotalOutgoing, int64(0))
		assert.Equal(t, s.TotalIngoing-s.TotalOutgoing, s.TotalProfit)
	}
}

func TestAggregateNetLoss(t *testing.T) {
	s := Aggregate([]core.Order{
		{Type: core.Ingoing, Price: 100},
		{Type: core.Outgoing, Price: 350},
	})
	assert.Equal(t, int64(-250), s.TotalProfit)
}

func TestAggregateLargestAcceptedAmounts(t *testing.T) {
	price, err := core.ParseAmount("1000000000000000")
	assert.NoError(t, err)

	orders := make([]core.Order, 0, 1000)
	for i := 0; i < 1000; i++ {
		orders = append(orders, core.Order{Type: core.Ingoing, Price: price})
	}
	orders = append(orders, core.Order{Type: core.Outgoing, Price: price})

	s := Aggregate(orders)
	assert.Equal(t, 1000*price, s.TotalIngoing)
	assert.Equal(t, price, s.TotalOutgoing)
	assert.Equal(t, 999*price, s.TotalProfit)
}

func TestAggregateSaturatesInsteadOfWrapping(t *testing.T) {
	s := Aggregate([]core.Order{
		{Type: core.Ingoing, Price: 5_000_000_000_000_000_000},
		{Type: core.Ingoing, Price: 5_000_000_000_000_000_000},
		{Type: core.Outgoing, Price: 1},
	})
	assert.Equal(t, int64(math.MaxInt64), s.TotalIngoing)
	assert.GreaterOrEqual(t, s.TotalIngoing, int64(0))
	assert.Equal(t, int64(math.MaxInt64-1), s.TotalProfit)
}
