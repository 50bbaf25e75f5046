package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"daftar/internal/core"
)

func TestApplyFilters(t *testing.T) {
	orders := sampleOrders()

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"no filter sorts newest first", Filter{}, []int64{5, 3, 4, 2, 1}},
		{"empty search is a no-op", Filter{Search: "   "}, []int64{5, 3, 4, 2, 1}},
		{"search matches name or description case-insensitively", Filter{Search: "cement"}, []int64{4, 1}},
		{"type outgoing", Filter{Type: core.Outgoing}, []int64{4, 2}},
		{"date from only", Filter{DateFrom: date("2024-02-10")}, []int64{5, 3, 4}},
		{"date to only is inclusive", Filter{DateTo: date("2024-01-02")}, []int64{2, 1}},
		{"price range inclusive", Filter{PriceMin: int64p(400), PriceMax: int64p(1000)}, []int64{4, 2, 1}},
		{"conjunction", Filter{Type: core.Ingoing, PriceMin: int64p(2000)}, []int64{3}},
		{"nothing matches", Filter{Search: "zzz"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(orders, tt.filter)))
		})
	}
}

func TestApplySortKeys(t *testing.T) {
	orders := sampleOrders()

	tests := []struct {
		sort SortKey
		want []int64
	}{
		{SortDateDesc, []int64{5, 3, 4, 2, 1}},
		{SortDateAsc, []int64{1, 2, 3, 4, 5}},
		{SortPriceDesc, []int64{3, 1, 2, 4, 5}},
		{SortPriceAsc, []int64{5, 2, 4, 1, 3}},
		{SortNameAsc, []int64{3, 1, 5, 2, 4}},
		{SortNameDesc, []int64{4, 2, 5, 1, 3}},
		{SortKey("bogus"), []int64{5, 3, 4, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(orders, Filter{SortBy: tt.sort})))
		})
	}
}

func TestApplyIsStableAndPure(t *testing.T) {
	orders := sampleOrders()
	before := ids(orders)

	f := Filter{SortBy: SortPriceAsc}
	first := Apply(orders, f)
	second := Apply(orders, f)

	assert.Equal(t, first, second)
	assert.Equal(t, before, ids(orders), "input must not be reordered")
}

func TestTypeFilterAndEmptySearch(t *testing.T) {
	orders := []core.Order{
		{ID: 1, Type: core.Ingoing, Price: 1000, Date: date("2024-01-01")},
		{ID: 2, Type: core.Outgoing, Price: 400, Date: date("2024-01-02")},
	}

	out := Apply(orders, Filter{Type: core.Outgoing})
	assert.Len(t, out, 1)
	assert.Equal(t, int64(400), out[0].Price)

	assert.Len(t, Apply(orders, Filter{Search: ""}), 2)
}
