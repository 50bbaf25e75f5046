package ledger

import (
	"math"

	"daftar/internal/core"
)

// Summary holds the totals and counts over a set of orders. Amounts are
// whole IQD.
type Summary struct {
	TotalIngoing  int64 `json:"total_ingoing"`
	TotalOutgoing int64 `json:"total_outgoing"`
	TotalProfit   int64 `json:"total_profit"`
	NumOrders     int   `json:"num_orders"`
	NumIngoing    int   `json:"num_ingoing"`
	NumOutgoing   int   `json:"num_outgoing"`
}

// Aggregate reduces orders to a Summary. Orders without a type count toward
// NumOrders only. Totals saturate at math.MaxInt64 instead of wrapping.
func Aggregate(orders []core.Order) Summary {
	var s Summary
	for _, o := range orders {
		s.NumOrders++
		switch o.Type {
		case core.Ingoing:
			s.NumIngoing++
			s.TotalIngoing = addAmount(s.TotalIngoing, o.Price)
		case core.Outgoing:
			s.NumOutgoing++
			s.TotalOutgoing = addAmount(s.TotalOutgoing, o.Price)
		}
	}
	s.TotalProfit = s.TotalIngoing - s.TotalOutgoing
	return s
}

func addAmount(total, price int64) int64 {
	if price > 0 && total > math.MaxInt64-price {
		return math.MaxInt64
	}
	return total + price
}
