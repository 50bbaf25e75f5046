// Package ledger computes everything the bookkeeping screens show: filtered
// and sorted order views, pages over them, totals, partner profit shares and
// the CSV export. Every function is pure; callers load the orders and
// partners and pass them in.
package ledger

import (
	"errors"
	"io"

	"daftar/internal/core"
)

// ErrInvalidRange is returned when a date range starts after it ends.
var ErrInvalidRange = errors.New("date_from must be on or before date_to")

// Dashboard is the result of ComputeDashboard.
type Dashboard struct {
	DateFrom core.Date
	DateTo   core.Date
	Summary  Summary
	Shares   []PartnerShare
}

// ValidateRange checks that an optional date range is well ordered.
func ValidateRange(from, to core.Date) core.FieldErrors {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return core.FieldErrors{"date_to": ErrInvalidRange.Error()}
	}
	return nil
}

// ComputeDashboard totals the orders inside [from, to] and splits the profit
// across partners. Zero dates leave that side of the range open.
func ComputeDashboard(orders []core.Order, partners []core.Partner, from, to core.Date) Dashboard {
	scoped := Apply(orders, DateRange(from, to))
	return dashboardFor(scoped, partners, from, to)
}

func dashboardFor(scoped []core.Order, partners []core.Partner, from, to core.Date) Dashboard {
	summary := Aggregate(scoped)
	return Dashboard{
		DateFrom: from,
		DateTo:   to,
		Summary:  summary,
		Shares:   Shares(summary.TotalProfit, partners),
	}
}

// ListOrders filters, sorts and paginates orders.
func ListOrders(orders []core.Order, f Filter, page, size int) Page[core.Order] {
	return Paginate(Apply(orders, f), page, size)
}

// ExportRows builds the export for [from, to]: the dashboard followed by every
// order in that range, newest first and by name within a day. The export is
// never paginated.
func ExportRows(orders []core.Order, partners []core.Partner, from, to core.Date) [][]string {
	scoped := Apply(orders, DateRange(from, to))
	d := dashboardFor(scoped, partners, from, to)
	sortForExport(scoped)
	return DashboardRows(d, scoped)
}

// ExportDashboardCSV writes ExportRows as CSV.
func ExportDashboardCSV(w io.Writer, orders []core.Order, partners []core.Partner, from, to core.Date) error {
	return WriteCSV(w, ExportRows(orders, partners, from, to))
}
