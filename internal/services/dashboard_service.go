package services

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"daftar/internal/core"
	"daftar/internal/ledger"
	"daftar/internal/log"
	"daftar/internal/storage"
)

// DashboardService loads orders and partners and hands them to the ledger.
// Nothing is cached; every call reads the repositories again.
type DashboardService struct {
	orders   storage.OrderRepository
	partners storage.PartnerRepository
	logger   *log.Logger
}

func NewDashboardService(orders storage.OrderRepository, partners storage.PartnerRepository, logger *log.Logger) *DashboardService {
	return &DashboardService{
		orders:   orders,
		partners: partners,
		logger:   logger.WithComponent(log.ComponentLedger),
	}
}

func (s *DashboardService) snapshot(ctx context.Context) ([]core.Order, []core.Partner, error) {
	var (
		orders   []core.Order
		partners []core.Partner
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if orders, err = s.orders.ListOrders(ctx); err != nil {
			return fmt.Errorf("load orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if partners, err = s.partners.ListPartners(ctx); err != nil {
			return fmt.Errorf("load partners: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return orders, partners, nil
}

// Dashboard computes totals and partner shares for [from, to]. A reversed
// range is reported as core.FieldErrors.
func (s *DashboardService) Dashboard(ctx context.Context, from, to core.Date) (ledger.Dashboard, error) {
	if fe := ledger.ValidateRange(from, to); fe != nil {
		return ledger.Dashboard{}, fe
	}
	orders, partners, err := s.snapshot(ctx)
	if err != nil {
		return ledger.Dashboard{}, err
	}

	d := ledger.ComputeDashboard(orders, partners, from, to)
	s.logger.DebugContext(ctx, "Dashboard computed",
		log.FieldDateFrom, from.String(),
		log.FieldDateTo, to.String(),
		log.FieldCount, d.Summary.NumOrders)
	return d, nil
}

// Export writes the CSV export for [from, to] to w.
func (s *DashboardService) Export(ctx context.Context, w io.Writer, from, to core.Date) error {
	rows, err := s.ExportRows(ctx, from, to)
	if err != nil {
		return err
	}
	if err := ledger.WriteCSV(w, rows); err != nil {
		return fmt.Errorf("export dashboard: %w", err)
	}
	return nil
}

// ExportRows reads one snapshot and returns the export for [from, to] as
// rows of cells. Callers writing the export to several targets should build
// the rows once and share them.
func (s *DashboardService) ExportRows(ctx context.Context, from, to core.Date) ([][]string, error) {
	if fe := ledger.ValidateRange(from, to); fe != nil {
		return nil, fe
	}
	orders, partners, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	rows := ledger.ExportRows(orders, partners, from, to)

	s.logger.InfoContext(ctx, "Dashboard exported",
		log.FieldOperation, log.OpExport,
		log.FieldDateFrom, from.String(),
		log.FieldDateTo, to.String(),
		log.FieldCount, len(rows))
	return rows, nil
}
