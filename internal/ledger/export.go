package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"daftar/internal/core"
)

const (
	ExportFilename    = "dashboard_stats.csv"
	ExportContentType = "text/csv; charset=utf-8"
)

// DashboardRows lays out a dashboard and its order set as rows of cells:
// the statistics header, the partner shares, then one row per order. Sections
// are separated by an empty row. orders are written in the given order.
func DashboardRows(d Dashboard, orders []core.Order) [][]string {
	s := d.Summary
	rows := [][]string{
		{"Dashboard Statistics"},
		{"Date From", dateOrDash(d.DateFrom)},
		{"Date To", dateOrDash(d.DateTo)},
		{"Total Ingoing", strconv.FormatInt(s.TotalIngoing, 10)},
		{"Total Outgoing", strconv.FormatInt(s.TotalOutgoing, 10)},
		{"Total Profit", strconv.FormatInt(s.TotalProfit, 10)},
		{"Orders Count", strconv.Itoa(s.NumOrders)},
		{"Ingoing Count", strconv.Itoa(s.NumIngoing)},
		{"Outgoing Count", strconv.Itoa(s.NumOutgoing)},
		{},
		{"Partner Shares (from profit)"},
		{"Partner", "Percentage", "Share Amount"},
	}

	for _, sh := range d.Shares {
		rows = append(rows, []string{
			sh.Partner.Name,
			sh.Partner.Percentage.StringFixed(2) + "%",
			strconv.FormatInt(sh.Rounded(), 10),
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"Orders"},
		[]string{"Date", "Name", "Type", "Price", "Description"},
	)
	for _, o := range orders {
		rows = append(rows, []string{
			o.Date.String(),
			o.Name,
			o.Type.Label(),
			strconv.FormatInt(o.Price, 10),
			o.Description,
		})
	}
	return rows
}

// WriteCSV writes rows with standard CSV quoting.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func dateOrDash(d core.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}
