package database

import (
	"path/filepath"
	"testing"

	"grocery-manager/internal/config"
	"grocery-manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "mysql"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestInitialize_SQLiteFile(t *testing.T) {
	cfg := config.Load()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "grocery.db")

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.HealthCheck())
	assert.True(t, db.Migrator().HasTable(&models.Item{}))
	assert.True(t, db.Migrator().HasTable(&models.Title{}))

	item := &models.Item{Category: models.CategoryMeat, Name: "Mince", Quantity: "1", Price: "80"}
	require.NoError(t, db.Create(item).Error)
	assert.NotEmpty(t, item.ID)
}

func TestCleanupTestDB(t *testing.T) {
	db := SetupTestDB(t)

	require.NoError(t, db.Create(&models.Title{Category: models.CategoryMeat, Title: "Braai"}).Error)
	CleanupTestDB(t, db)

	var count int64
	require.NoError(t, db.Model(&models.Title{}).Count(&count).Error)
	assert.Zero(t, count)
}
