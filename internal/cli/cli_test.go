package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"daftar/internal/config"
	"daftar/internal/ledger"
	"daftar/internal/log"
	"daftar/internal/storage"
)

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("from", "")
	if err != nil || !d.IsZero() {
		t.Fatalf("empty = %v, %v", d, err)
	}
	d, err = parseOptionalDate("from", "2024-02-29")
	if err != nil || d.String() != "2024-02-29" {
		t.Fatalf("valid = %v, %v", d, err)
	}
	if _, err := parseOptionalDate("to", "29/02/2024"); err == nil {
		t.Fatal("expected error for bad date")
	}
}

func TestLoadAndValidateConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daftar.toml")
	if err := os.WriteFile(path, []byte("port = \"9000\"\ndata_backend = \"memory\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "")
	t.Setenv("DATA_BACKEND", "")

	cfg, err := LoadAndValidateConfig(path)
	if err != nil {
		t.Fatalf("LoadAndValidateConfig() error = %v", err)
	}
	if cfg.Port != "9000" || cfg.DataBackend != "memory" {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := LoadAndValidateConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMigrationTarget(t *testing.T) {
	defer func(prev *config.Config) { appConfig = prev }(appConfig)

	appConfig = config.Defaults()
	appConfig.DataBackend = "sqlite"
	appConfig.SQLiteDBPath = filepath.Join(t.TempDir(), "nested", "daftar.db")

	dialect, dsn, err := migrationTarget()
	if err != nil {
		t.Fatal(err)
	}
	if dialect != storage.DialectSQLite || dsn != appConfig.SQLiteDBPath {
		t.Errorf("target = %s %s", dialect, dsn)
	}
	if _, err := os.Stat(filepath.Dir(dsn)); err != nil {
		t.Errorf("db directory not created: %v", err)
	}

	appConfig.DataBackend = "memory"
	if _, _, err := migrationTarget(); err == nil {
		t.Error("expected error for memory backend")
	}
}

func TestGracefulShutdownOnParentCancel(t *testing.T) {
	l := log.New(log.Config{Output: io.Discard})
	parent, cancel := context.WithCancel(context.Background())

	cleaned := make(chan struct{})
	ctx, done := GracefulShutdown(parent, l, time.Second, func(context.Context) { close(cleaned) })
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
	if ctx.Err() == nil {
		t.Error("context not cancelled")
	}
	select {
	case <-cleaned:
	default:
		t.Error("cleanup not run")
	}
}

func TestDeliverExportSharesOneSnapshot(t *testing.T) {
	rows := [][]string{{"Dashboard Statistics"}, {"Total Profit", "600"}, {}, {"Orders"}}
	var want bytes.Buffer
	if err := ledger.WriteCSV(&want, rows); err != nil {
		t.Fatal(err)
	}

	var written, archived []byte
	var published [][]string
	err := deliverExport(context.Background(), rows, exportTargets{
		write: func(data []byte) error { written = data; return nil },
		archive: func(_ context.Context, data []byte) error {
			archived = data
			return nil
		},
		publish: func(_ context.Context, r [][]string) error {
			published = r
			return nil
		},
	})
	if err != nil {
		t.Fatalf("deliverExport() error = %v", err)
	}
	if !bytes.Equal(written, want.Bytes()) || !bytes.Equal(archived, want.Bytes()) {
		t.Errorf("written = %q, archived = %q, want %q", written, archived, want.String())
	}
	if len(published) != len(rows) || published[1][1] != "600" {
		t.Errorf("published = %v", published)
	}
}

func TestDeliverExportStopsOnWriteError(t *testing.T) {
	boom := errors.New("disk full")
	called := false
	err := deliverExport(context.Background(), nil, exportTargets{
		write: func([]byte) error { return boom },
		publish: func(context.Context, [][]string) error {
			called = true
			return nil
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if called {
		t.Error("publish ran after a failed write")
	}
}
