// Package testutil provides throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Windi-Fikriyansyah/devhire_be/internal/db"
	"github.com/Windi-Fikriyansyah/devhire_be/internal/models"
)

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", name, uuid.NewString()[:8])

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// one connection keeps the shared in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func CreateUser(t *testing.T, gdb *gorm.DB, name string, role models.Role) models.User {
	t.Helper()
	u := models.User{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		Password: "$2a$10$invalidhashforfixturesonly000000000000000000000000000",
		Role:     role,
		IsActive: true,
	}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func CreateJob(t *testing.T, gdb *gorm.DB, client models.User, title string, budget float64, status models.JobStatus) models.Job {
	t.Helper()
	j := models.Job{
		ClientID:    client.ID,
		Title:       title,
		Description: "Description of " + title,
		Budget:      budget,
		Deadline:    time.Now().AddDate(0, 1, 0),
		Status:      status,
	}
	if err := gdb.Create(&j).Error; err != nil {
		t.Fatalf("create job %s: %v", title, err)
	}
	return j
}

func CreateApplication(t *testing.T, gdb *gorm.DB, job models.Job, dev models.User, status models.ApplicationStatus) models.JobApplication {
	t.Helper()
	a := models.JobApplication{
		JobID:    job.ID,
		UserID:   dev.ID,
		Proposal: "I can build this",
		Timeline: 14,
		Budget:   job.Budget,
		Status:   status,
	}
	if err := gdb.Create(&a).Error; err != nil {
		t.Fatalf("create application: %v", err)
	}
	return a
}

func Actor(u models.User) models.Actor {
	return models.Actor{ID: u.ID, Role: u.Role}
}
