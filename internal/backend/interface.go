package backend

import (
	"context"

	"daftar/internal/audit"
	"daftar/internal/storage"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result is a ready storage backend plus the audit sink bound to it.
type Result struct {
	Store    storage.Store
	Recorder audit.Recorder
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// AuditTransport selects how audit entries reach the store.
type AuditTransport string

const (
	AuditDirect AuditTransport = "direct"
	AuditAMQP   AuditTransport = "amqp"
)
