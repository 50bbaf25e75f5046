package storage

import (
	"context"
	"errors"

	"daftar/internal/core"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("name already exists")
)

// Ports implemented by every storage backend.
type (
	// OrderRepository lists orders in identity (insertion) order.
	OrderRepository interface {
		ListOrders(ctx context.Context) ([]core.Order, error)
		GetOrder(ctx context.Context, id int64) (core.Order, error)
		// SaveOrder inserts when o.ID is zero and updates otherwise.
		SaveOrder(ctx context.Context, o core.Order) (core.Order, error)
		DeleteOrder(ctx context.Context, id int64) error
	}

	// PartnerRepository lists partners by name ascending.
	PartnerRepository interface {
		ListPartners(ctx context.Context) ([]core.Partner, error)
		GetPartner(ctx context.Context, id int64) (core.Partner, error)
		SavePartner(ctx context.Context, p core.Partner) (core.Partner, error)
		DeletePartner(ctx context.Context, id int64) error
	}

	// ActivityRepository stores the audit trail. Inserting an ID that is
	// already stored is a no-op. ListActivity returns the newest entries first.
	ActivityRepository interface {
		InsertActivity(ctx context.Context, a core.Activity) error
		ListActivity(ctx context.Context) ([]core.Activity, error)
	}

	// Store is a full backend.
	Store interface {
		OrderRepository
		PartnerRepository
		ActivityRepository
		Ping(ctx context.Context) error
		Close() error
	}
)
