package services

import (
	"context"
	"fmt"

	"daftar/internal/audit"
	"daftar/internal/core"
	"daftar/internal/log"
	"daftar/internal/storage"
)

// PartnerService runs partner CRUD. Percentages are range-checked here so
// that the share calculator can trust them.
type PartnerService struct {
	repo     storage.PartnerRepository
	recorder audit.Recorder
	logger   *log.Logger
}

func NewPartnerService(repo storage.PartnerRepository, recorder audit.Recorder, logger *log.Logger) *PartnerService {
	return &PartnerService{
		repo:     repo,
		recorder: recorder,
		logger:   logger.WithComponent(log.ComponentPartners),
	}
}

func (s *PartnerService) List(ctx context.Context) ([]core.Partner, error) {
	return s.repo.ListPartners(ctx)
}

func (s *PartnerService) Get(ctx context.Context, id int64) (core.Partner, error) {
	return s.repo.GetPartner(ctx, id)
}

func (s *PartnerService) Create(ctx context.Context, actor string, in core.PartnerInput) (core.Partner, error) {
	p, fe := core.ValidatePartner(in)
	if fe != nil {
		return core.Partner{}, fe
	}

	saved, err := s.repo.SavePartner(ctx, p)
	if err != nil {
		return core.Partner{}, fmt.Errorf("create partner: %w", err)
	}

	s.logger.InfoContext(ctx, "Partner created",
		log.NewFields().WithEntity(core.EntityPartner, saved.ID, actor).WithOperation(log.OpCreate).ToSlice()...)
	record(ctx, s.recorder, s.logger, audit.Entry{
		Action:     core.ActionCreate,
		EntityType: core.EntityPartner,
		EntityID:   saved.ID,
		Repr:       saved.String(),
		Actor:      actor,
	})
	return saved, nil
}

func (s *PartnerService) Update(ctx context.Context, actor string, id int64, in core.PartnerInput) (core.Partner, error) {
	if _, err := s.repo.GetPartner(ctx, id); err != nil {
		return core.Partner{}, err
	}

	p, fe := core.ValidatePartner(in)
	if fe != nil {
		return core.Partner{}, fe
	}
	p.ID = id

	saved, err := s.repo.SavePartner(ctx, p)
	if err != nil {
		return core.Partner{}, fmt.Errorf("update partner %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Partner updated",
		log.NewFields().WithEntity(core.EntityPartner, id, actor).WithOperation(log.OpUpdate).ToSlice()...)
	record(ctx, s.recorder, s.logger, audit.Entry{
		Action:     core.ActionUpdate,
		EntityType: core.EntityPartner,
		EntityID:   id,
		Repr:       saved.String(),
		Actor:      actor,
	})
	return saved, nil
}

func (s *PartnerService) Delete(ctx context.Context, actor string, id int64) error {
	existing, err := s.repo.GetPartner(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePartner(ctx, id); err != nil {
		return fmt.Errorf("delete partner %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "Partner deleted",
		log.NewFields().WithEntity(core.EntityPartner, id, actor).WithOperation(log.OpDelete).ToSlice()...)
	record(ctx, s.recorder, s.logger, audit.Entry{
		Action:     core.ActionDelete,
		EntityType: core.EntityPartner,
		EntityID:   id,
		Repr:       existing.String(),
		Actor:      actor,
	})
	return nil
}
