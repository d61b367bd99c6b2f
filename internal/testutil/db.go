// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/config"
	"github.com/justsurfingit/talentra/internal/database"
)

// NewDB returns a migrated in-memory SQLite database closed at test cleanup.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Connect(context.Background(), config.DatabaseConfig{
		Driver:      database.DriverSQLite,
		DSN:         "file::memory:",
		AutoMigrate: true,
	}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
