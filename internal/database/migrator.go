package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	defaultMigrationsPath = "db/migrations"
	defaultSeedsPath      = "db/seeds"
)

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// ErrMigrationsNotFound is returned when the migrations directory is missing
var ErrMigrationsNotFound = errors.New("migrations directory not found")

// MigrationRunner applies the SQL migrations under db/migrations to a
// postgres database and optionally loads db/seeds.
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
}

// NewMigrationRunner creates a runner using the repository's default paths
func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{
		db:             db,
		migrationsPath: envOr("MIGRATIONS_PATH", defaultMigrationsPath),
		seedsPath:      envOr("SEEDS_PATH", defaultSeedsPath),
	}
}

// WaitForDatabase pings until the database answers or the retries run out
func (mr *MigrationRunner) WaitForDatabase() error {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := mr.db.Ping()
		if err == nil {
			return nil
		}

		log.Printf("Database not ready (attempt %d/%d): %v", attempt, maxRetries, err)
		if attempt < maxRetries {
			time.Sleep(retryInterval)
		}
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrMigrationsNotFound, mr.migrationsPath)
	}

	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

// RunMigrations applies every pending up migration. A dirty schema is forced
// back to its recorded version before retrying.
func (mr *MigrationRunner) RunMigrations() error {
	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if dirty {
		log.Printf("Warning: schema is dirty at version %d, forcing version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Printf("Schema up to date at version %d", version)
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}
	log.Printf("Applied migrations %d -> %d", version, newVersion)

	return nil
}

// LoadSeeds executes db/seeds/*.sql in name order when SEED_DATABASE=true.
// A failing seed file is logged and skipped; an unreadable one aborts.
func (mr *MigrationRunner) LoadSeeds() error {
	if os.Getenv("SEED_DATABASE") != "true" {
		return nil
	}

	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		log.Printf("Seeds directory not found at %s, skipping seed data", mr.seedsPath)
		return nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to find seed files: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.Exec(string(content)); err != nil {
			log.Printf("Warning: failed to execute seed file %s: %v", filepath.Base(file), err)
			continue
		}

		log.Printf("Loaded seed file: %s", filepath.Base(file))
	}

	return nil
}

// MigrationStatus returns the applied schema version
func (mr *MigrationRunner) MigrationStatus() (version uint, dirty bool, err error) {
	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// RunMigrationsIfEnabled runs the SQL migrations and seeds when
// AUTO_MIGRATE=true. applied reports whether the migrations ran, so callers
// know whether the schema still needs AutoMigrate.
func RunMigrationsIfEnabled(db *sql.DB) (applied bool, err error) {
	if os.Getenv("AUTO_MIGRATE") != "true" {
		log.Println("SQL migrations disabled (AUTO_MIGRATE != true)")
		return false, nil
	}

	runner := NewMigrationRunner(db)

	if err := runner.WaitForDatabase(); err != nil {
		return false, fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.RunMigrations(); err != nil {
		return false, fmt.Errorf("migration execution failed: %w", err)
	}

	if err := runner.LoadSeeds(); err != nil {
		log.Printf("Warning: seed data loading failed: %v", err)
	}

	return true, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
