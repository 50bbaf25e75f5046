package backend

import (
	"context"
	"errors"
	"fmt"

	"daftar/internal/amqp"
	"daftar/internal/audit"
	"daftar/internal/log"
	"daftar/internal/storage"
	"daftar/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend opens the configured store and wires the audit recorder.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.openStore(config)
	if err != nil {
		return nil, err
	}

	direct := audit.NewStoreRecorder(store)
	result := &Result{
		Store:    store,
		Recorder: direct,
		Cleanup:  store.Close,
	}

	if config.AuditTransport != AuditAMQP {
		f.logger.InfoContext(ctx, "Initialized backend",
			log.FieldBackend, config.Type.String(),
			"audit_transport", string(AuditDirect))
		return result, nil
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, recording activity directly",
			log.FieldError, err)
		return result, nil
	}

	result.Recorder = audit.NewPublishingRecorder(client, direct, f.logger)
	result.Cleanup = func() error {
		return errors.Join(client.Close(), store.Close())
	}

	f.logger.InfoContext(ctx, "Initialized backend",
		log.FieldBackend, config.Type.String(),
		"audit_transport", string(AuditAMQP),
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return result, nil
}

func (f *DefaultFactory) openStore(config Config) (storage.Store, error) {
	switch config.Type {
	case MemoryBackend:
		store, err := memory.NewFromFiles(config.DataDir)
		if err != nil {
			return nil, fmt.Errorf("seed memory backend: %w", err)
		}
		return store, nil
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		return repo, nil
	case PostgresBackend:
		repo, err := storage.NewPostgresRepository(config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
