// Package worker persists audit trail entries delivered over AMQP.
package worker

import (
	"context"
	"fmt"

	"daftar/internal/amqp"
	"daftar/internal/log"
	"daftar/internal/storage"
)

// Consumer delivers activity messages to a handler until ctx ends.
type Consumer interface {
	ConsumeActivity(ctx context.Context, handler func(context.Context, *amqp.ActivityMessage) error) error
}

// ActivityWorker writes consumed activity messages to the store. Inserts are
// idempotent, so redelivered messages are harmless.
type ActivityWorker struct {
	repo   storage.ActivityRepository
	logger *log.Logger
}

func NewActivityWorker(repo storage.ActivityRepository, logger *log.Logger) *ActivityWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ActivityWorker{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleActivityMessage stores one entry. A returned error makes the
// consumer requeue the message.
func (w *ActivityWorker) HandleActivityMessage(ctx context.Context, msg *amqp.ActivityMessage) error {
	a := msg.Activity()
	if err := w.repo.InsertActivity(ctx, a); err != nil {
		w.logger.ErrorContext(ctx, "Failed to store activity",
			log.FieldActivityID, a.ID,
			log.FieldEntity, a.ModelName,
			log.FieldEntityID, a.ObjectID,
			log.FieldError, err)
		return fmt.Errorf("store activity %s: %w", a.ID, err)
	}

	w.logger.InfoContext(ctx, "Activity stored",
		log.FieldOperation, log.OpConsume,
		log.FieldActivityID, a.ID,
		log.FieldEntity, a.ModelName,
		log.FieldEntityID, a.ObjectID,
		log.FieldActor, a.User)
	return nil
}

// Run consumes until ctx is cancelled. Cancellation is a clean stop.
func (w *ActivityWorker) Run(ctx context.Context, c Consumer) error {
	w.logger.InfoContext(ctx, "Activity worker started", log.FieldOperation, log.OpStartup)
	err := c.ConsumeActivity(ctx, w.HandleActivityMessage)
	if ctx.Err() != nil {
		w.logger.InfoContext(ctx, "Activity worker stopped", log.FieldOperation, log.OpShutdown)
		return nil
	}
	return err
}
