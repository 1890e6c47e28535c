// Package testdb wires an in-memory sqlite store into the global
// database handle for package tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"profitpulse-backend/internal/database"
)

// New opens a fresh in-memory database, migrates the schema and
// installs it as database.DB. The pool is limited to one connection so
// the single :memory: database is shared and concurrent transactions
// serialize the way Postgres row locks would.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	database.DB = db
	return db
}
