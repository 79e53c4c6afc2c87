package repository_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/repository"
)

// SQLite drops row locks, so the locking read is checked on the SQL postgres would receive.
func TestLockByIDSelectsForUpdate(t *testing.T) {
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 user=devhire dbname=devhire sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open dry-run postgres: %v", err)
	}

	var captured string
	if err := gdb.Callback().Query().After("gorm:query").Register("capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	}); err != nil {
		t.Fatal(err)
	}

	_, _ = repository.NewJobRepository(gdb).LockByID(context.Background(), uuid.New())

	if !strings.Contains(captured, `FROM "jobs"`) || !strings.HasSuffix(strings.TrimSpace(captured), "FOR UPDATE") {
		t.Errorf("LockByID SQL = %q, want a SELECT on jobs ending in FOR UPDATE", captured)
	}
}
