package services

import (
	"context"
	"fmt"

	"daftar/internal/audit"
	"daftar/internal/core"
	"daftar/internal/ledger"
	"daftar/internal/log"
	"daftar/internal/storage"
)

// OrderService runs order CRUD: validate, persist, then record the change
// in the audit trail on behalf of the acting user.
type OrderService struct {
	repo     storage.OrderRepository
	recorder audit.Recorder
	logger   *log.Logger
}

func NewOrderService(repo storage.OrderRepository, recorder audit.Recorder, logger *log.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		recorder: recorder,
		logger:   logger.WithComponent(log.ComponentOrders),
	}
}

func (s *OrderService) Get(ctx context.Context, id int64) (core.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// List filters, sorts and paginates the full order collection.
func (s *OrderService) List(ctx context.Context, f ledger.Filter, page, size int) (ledger.Page[core.Order], error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return ledger.Page[core.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	return ledger.ListOrders(orders, f, page, size), nil
}

// Create validates in and stores it as a new order. Invalid input is
// reported as core.FieldErrors.
func (s *OrderService) Create(ctx context.Context, actor string, in core.OrderInput) (core.Order, error) {
	o, fe := core.ValidateOrder(in)
	if fe != nil {
		return core.Order{}, fe
	}

	saved, err := s.repo.SaveOrder(ctx, o)
	if err != nil {
		return core.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.logger.InfoContext(ctx, "Order created",
		log.NewFields().WithEntity(core.EntityOrder, saved.ID, actor).WithOperation(log.OpCreate).ToSlice()...)
	record(ctx, s.recorder, s.logger, audit.Entry{
		Action:     core.ActionCreate,
		EntityType: core.EntityOrder,
		EntityID:   saved.ID,
		Repr:       saved.String(),
		Actor:      actor,
	})
	return saved, nil
}

// Update replaces every field of order id with in.
func (s *OrderService) Update(ctx context.Context, actor string, id int64, in core.OrderInput) (core.Order, error) {
	if _, err := s.repo.GetOrder(ctx, id); err != nil {
		return core.Order{}, err
	}

	o, fe := core.ValidateOrder(in)
	if fe != nil {
		return core.Order{}, fe
	}
	o.ID = id

	saved, err := s.repo.SaveOrder(ctx, o)
	if err != nil {
		return core.Order{}, fmt.Errorf("update order %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Order updated",
		log.NewFields().WithEntity(core.EntityOrder, id, actor).WithOperation(log.OpUpdate).ToSlice()...)
	record(ctx, s.recorder, s.logger, audit.Entry{
		Action:     core.ActionUpdate,
		EntityType: core.EntityOrder,
		EntityID:   id,
		Repr:       saved.String(),
		Actor:      actor,
	})
	return saved, nil
}

func (s *OrderService) Delete(ctx context.Context, actor string, id int64) error {
	existing, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Order deleted",
		log.NewFields().WithEntity(core.EntityOrder, id, actor).WithOperation(log.OpDelete).ToSlice()...)
	record(ctx, s.recorder, s.logger, audit.Entry{
		Action:     core.ActionDelete,
		EntityType: core.EntityOrder,
		EntityID:   id,
		Repr:       existing.String(),
		Actor:      actor,
	})
	return nil
}

// record writes an audit entry. The mutation has already succeeded, so a
// failure here is logged and otherwise ignored.
func record(ctx context.Context, recorder audit.Recorder, logger *log.Logger, e audit.Entry) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, e); err != nil {
		logger.ErrorContext(ctx, "Failed to record activity",
			log.NewFields().WithEntity(e.EntityType, e.EntityID, e.Actor).WithError(err).ToSlice()...)
	}
}
