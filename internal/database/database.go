package database

import (
	"fmt"
	"log"
	"time"

	"grocery-manager/internal/config"
	"grocery-manager/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

func New(cfg *config.DatabaseConfig) (*DB, error) {
	logLevel := logger.Warn
	if cfg.LogQueries {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite serialises writers; one connection avoids SQLITE_BUSY on concurrent requests
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(cfg.SQLitePath), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Item{},
		&models.Title{},
	)
}

func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (db *DB) CreateIndexes() error {
	queries := []string{
		"CREATE INDEX IF NOT EXISTS idx_items_category_position ON items(category, position)",
		"CREATE INDEX IF NOT EXISTS idx_items_name_lower ON items(LOWER(name))",
		"CREATE INDEX IF NOT EXISTS idx_titles_position ON titles(position)",
	}

	for _, query := range queries {
		if err := db.DB.Exec(query).Error; err != nil {
			log.Printf("Failed to create index: %s, error: %v", query, err)
		}
	}

	return nil
}

// Initialize opens the configured database and brings its schema up to date.
// sqlite always uses AutoMigrate; postgres prefers the SQL migrations and
// falls back to AutoMigrate when they are disabled or fail.
func Initialize(cfg *config.Config) (*DB, error) {
	db, err := New(&cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	if err := db.CreateIndexes(); err != nil {
		log.Printf("Warning: failed to create some indexes: %v", err)
	}

	log.Printf("Database initialized successfully (driver=%s)", cfg.Database.Driver)

	return db, nil
}

func (db *DB) migrate() error {
	if db.config.Driver != config.DriverPostgres {
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	applied, err := RunMigrationsIfEnabled(sqlDB)
	if err != nil {
		log.Printf("Warning: migration runner failed: %v", err)
		log.Println("Falling back to GORM AutoMigrate...")
	}
	if err != nil || !applied {
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return nil
}
