// Package dbtest opens throwaway migrated databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/UnicornXOS/bl1nk-web-portal/database"
	"github.com/UnicornXOS/bl1nk-web-portal/models"
)

// Open returns a migrated sqlite database in the test's temp dir.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user with the given open id and role.
func CreateUser(t testing.TB, db *gorm.DB, openID, role string) models.User {
	t.Helper()
	u := models.User{OpenID: openID, Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}
