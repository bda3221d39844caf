// Package testutil provides shared fixtures for repository and service tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/certvault/giftcert/internal/domain"
)

// NewDB opens an in-memory SQLite database with every domain table migrated.
// The pool holds a single connection so that all statements, transactions
// included, see the same database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&domain.Tag{},
		&domain.Certificate{},
		&domain.CertificateTag{},
		&domain.User{},
		&domain.Order{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
