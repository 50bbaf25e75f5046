// Package audit records who changed which order or partner.
package audit

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"daftar/internal/core"
	"daftar/internal/log"
	"daftar/internal/storage"
)

const maxReprLength = 200

// Entry describes one successful mutation. Actor is empty when the change
// cannot be attributed to a user.
type Entry struct {
	Action     core.Action
	EntityType string
	EntityID   int64
	Repr       string
	Actor      string
	Details    string
}

// Recorder is the audit sink called after every successful mutation.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Publisher hands a finished activity to another process.
type Publisher interface {
	PublishActivity(ctx context.Context, a core.Activity) error
}

// NewActivity stamps e with a sortable ID and the given time.
func NewActivity(e Entry, now time.Time) core.Activity {
	now = now.UTC()
	return core.Activity{
		ID:         ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Timestamp:  now,
		User:       e.Actor,
		Action:     e.Action,
		ModelName:  e.EntityType,
		ObjectID:   e.EntityID,
		ObjectRepr: truncate(e.Repr, maxReprLength),
		Details:    e.Details,
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// StoreRecorder writes entries straight into the activity repository.
type StoreRecorder struct {
	repo storage.ActivityRepository
	now  func() time.Time
}

func NewStoreRecorder(repo storage.ActivityRepository) *StoreRecorder {
	return &StoreRecorder{repo: repo, now: time.Now}
}

func (r *StoreRecorder) Record(ctx context.Context, e Entry) error {
	a := NewActivity(e, r.now())
	if err := r.repo.InsertActivity(ctx, a); err != nil {
		return fmt.Errorf("record %s %s %d: %w", e.Action, e.EntityType, e.EntityID, err)
	}
	return nil
}

// PublishingRecorder sends entries to the worker through a Publisher. When
// publishing fails and a fallback is set, the entry is recorded there
// instead so that it is not lost.
type PublishingRecorder struct {
	pub      Publisher
	fallback Recorder
	logger   *log.Logger
	now      func() time.Time
}

func NewPublishingRecorder(pub Publisher, fallback Recorder, logger *log.Logger) *PublishingRecorder {
	return &PublishingRecorder{
		pub:      pub,
		fallback: fallback,
		logger:   logger.WithComponent(log.ComponentAudit),
		now:      time.Now,
	}
}

func (r *PublishingRecorder) Record(ctx context.Context, e Entry) error {
	a := NewActivity(e, r.now())
	err := r.pub.PublishActivity(ctx, a)
	if err == nil {
		return nil
	}
	if r.fallback == nil {
		return fmt.Errorf("publish activity: %w", err)
	}

	r.logger.WarnContext(ctx, "Publishing activity failed, recording directly",
		log.FieldActivityID, a.ID,
		log.FieldError, err)
	return r.fallback.Record(ctx, e)
}
