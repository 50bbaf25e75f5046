package ledger

import (
	"sort"
	"strings"

	"daftar/internal/core"
)

// SortKey selects the ordering of a filtered order view.
type SortKey string

const (
	SortDateDesc  SortKey = "-date"
	SortDateAsc   SortKey = "date"
	SortPriceDesc SortKey = "-price"
	SortPriceAsc  SortKey = "price"
	SortNameAsc   SortKey = "name"
	SortNameDesc  SortKey = "-name"

	DefaultSort = SortDateDesc
)

// SortKeys lists every accepted sort key in display order.
var SortKeys = []SortKey{SortDateDesc, SortDateAsc, SortPriceDesc, SortPriceAsc, SortNameAsc, SortNameDesc}

// Valid reports whether k is one of the known sort keys.
func (k SortKey) Valid() bool {
	for _, known := range SortKeys {
		if k == known {
			return true
		}
	}
	return false
}

// Filter is the set of optional predicates applied to an order collection.
// Zero values mean "not supplied". Every supplied predicate must hold.
type Filter struct {
	Search   string
	Type     core.OrderType // Unset means any type
	DateFrom core.Date
	DateTo   core.Date
	PriceMin *int64
	PriceMax *int64
	SortBy   SortKey
}

// DateRange returns a filter that only bounds the order date.
func DateRange(from, to core.Date) Filter {
	return Filter{DateFrom: from, DateTo: to}
}

func (f Filter) sortKey() SortKey {
	if f.SortBy.Valid() {
		return f.SortBy
	}
	return DefaultSort
}

// Match reports whether o satisfies every predicate of f.
func (f Filter) Match(o core.Order) bool {
	if term := strings.TrimSpace(f.Search); term != "" {
		term = strings.ToLower(term)
		if !strings.Contains(strings.ToLower(o.Name), term) &&
			!strings.Contains(strings.ToLower(o.Description), term) {
			return false
		}
	}
	if f.Type != core.Unset && o.Type != f.Type {
		return false
	}
	if !f.DateFrom.IsZero() && o.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && o.Date.After(f.DateTo) {
		return false
	}
	if f.PriceMin != nil && o.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && o.Price > *f.PriceMax {
		return false
	}
	return true
}

// Apply returns the orders matching f in f's sort order. The input slice is
// not modified. Orders that compare equal keep their input order, so callers
// that pass a collection in identity order get a deterministic result.
func Apply(orders []core.Order, f Filter) []core.Order {
	out := make([]core.Order, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}

	less := lessFunc(f.sortKey())
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(k SortKey) func(a, b core.Order) bool {
	switch k {
	case SortDateAsc:
		return func(a, b core.Order) bool { return a.Date.Before(b.Date) }
	case SortPriceDesc:
		return func(a, b core.Order) bool { return a.Price > b.Price }
	case SortPriceAsc:
		return func(a, b core.Order) bool { return a.Price < b.Price }
	case SortNameAsc:
		return func(a, b core.Order) bool { return a.Name < b.Name }
	case SortNameDesc:
		return func(a, b core.Order) bool { return a.Name > b.Name }
	default:
		return func(a, b core.Order) bool { return a.Date.After(b.Date) }
	}
}

// sortForExport orders by date descending, then name.
func sortForExport(orders []core.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		switch {
		case a.Date.After(b.Date):
			return true
		case a.Date.Before(b.Date):
			return false
		}
		return a.Name < b.Name
	})
}
