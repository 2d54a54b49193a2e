package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/Uzzzi-bit/DX-Ontime-Project/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenStorage(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "app.db")}

	db, err := openStorage(cfg, config.Migrate)
	require.NoError(t, err)
	t.Cleanup(func() { closeDB(db) })
	assert.True(t, db.Migrator().HasTable("meal_items"))
}

func TestOpenStorageClosesPoolOnMigrateFailure(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "app.db")}
	errMigrate := errors.New("migrate failed")

	var opened *gorm.DB
	db, err := openStorage(cfg, func(db *gorm.DB) error {
		opened = db
		return errMigrate
	})
	require.ErrorIs(t, err, errMigrate)
	assert.Nil(t, db)

	require.NotNil(t, opened)
	sqlDB, err := opened.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}

func TestOpenStorageRejectsUnknownDriver(t *testing.T) {
	_, err := openStorage(&config.Config{DBDriver: "mysql"}, config.Migrate)
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}
