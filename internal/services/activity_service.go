package services

import (
	"context"
	"fmt"

	"daftar/internal/core"
	"daftar/internal/ledger"
	"daftar/internal/storage"
)

// ActivityService pages through the audit trail, newest first.
type ActivityService struct {
	repo storage.ActivityRepository
}

func NewActivityService(repo storage.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) List(ctx context.Context, page, size int) (ledger.Page[core.Activity], error) {
	entries, err := s.repo.ListActivity(ctx)
	if err != nil {
		return ledger.Page[core.Activity]{}, fmt.Errorf("list activity: %w", err)
	}
	return ledger.Paginate(entries, page, size), nil
}
