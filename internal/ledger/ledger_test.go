package ledger

import (
	"github.com/shopspring/decimal"

	"daftar/internal/core"
)

func date(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func pct(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func int64p(v int64) *int64 { return &v }

// sampleOrders is in identity order.
func sampleOrders() []core.Order {
	return []core.Order{
		{ID: 1, Name: "Cement sale", Type: core.Ingoing, Price: 1000, Date: date("2024-01-01"), Description: "Batch A"},
		{ID: 2, Name: "Steel", Type: core.Outgoing, Price: 400, Date: date("2024-01-02"), Description: "rebar for site"},
		{ID: 3, Name: "Bricks", Type: core.Ingoing, Price: 2500, Date: date("2024-02-10"), Description: ""},
		{ID: 4, Name: "Transport", Type: core.Outgoing, Price: 400, Date: date("2024-02-10"), Description: "truck CEMENT delivery"},
		{ID: 5, Name: "Misc", Type: core.Unset, Price: 50, Date: date("2024-03-01")},
	}
}

func ids(orders []core.Order) []int64 {
	out := make([]int64, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
