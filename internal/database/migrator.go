package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"smartspend/internal/config"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const migrationsPath = "db/migrations"

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second

	ErrMigrationsNotFound = errors.New("migrations directory not found")
)

// MigrationStatus reports the schema version recorded by golang-migrate.
type MigrationStatus struct {
	Driver  string
	Version uint
	Dirty   bool
	Applied bool
}

// MigrationRunner applies the SQL migrations for one database driver. Migrations live
// in <migrationsPath>/<driver>.
type MigrationRunner struct {
	db             *sql.DB
	driver         string
	migrationsPath string
}

func NewMigrationRunner(db *sql.DB, driver, path string) *MigrationRunner {
	if path == "" {
		path = migrationsPath
	}
	return &MigrationRunner{
		db:             db,
		driver:         driver,
		migrationsPath: path,
	}
}

// OpenMigrationDB opens a plain database/sql connection for the migration runner.
// SQLite goes through the pure-Go modernc driver, postgres through lib/pq.
func OpenMigrationDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = sql.Open("sqlite", cfg.Path)
	case config.DriverPostgres:
		db, err = sql.Open("postgres", cfg.URL())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open migration connection: %w", err)
	}

	return db, nil
}

func (mr *MigrationRunner) dir() string {
	return filepath.Join(mr.migrationsPath, mr.driver)
}

// HasMigrations reports whether a migrations directory exists for the runner's driver.
func (mr *MigrationRunner) HasMigrations() bool {
	info, err := os.Stat(mr.dir())
	return err == nil && info.IsDir()
}

func (mr *MigrationRunner) WaitForDatabase() error {
	slog.Info("Waiting for database to be ready...")

	for i := 0; i < maxRetries; i++ {
		err := mr.db.Ping()
		if err == nil {
			slog.Info("Database is ready")
			return nil
		}

		slog.Warn("Database not ready", "attempt", i+1, "max_attempts", maxRetries, "error", err)
		time.Sleep(retryInterval)
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	if !mr.HasMigrations() {
		return nil, fmt.Errorf("%w: %s", ErrMigrationsNotFound, mr.dir())
	}

	absPath, err := filepath.Abs(mr.dir())
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	var driver database.Driver
	switch mr.driver {
	case config.DriverSQLite:
		driver, err = sqlite.WithInstance(mr.db, &sqlite.Config{})
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(mr.db, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", mr.driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s driver: %w", mr.driver, err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(absPath), mr.driver, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, nil
}

// RunMigrations executes all pending migrations.
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
		slog.Warn("Database is in dirty state, forcing version", "version", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	slog.Info("Running migrations", "path", mr.dir(), "current_version", version)

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("No new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}
	slog.Info("Successfully applied migrations", "version", newVersion)

	return nil
}

// GetMigrationStatus returns the current migration status.
func (mr *MigrationRunner) GetMigrationStatus() (*MigrationStatus, error) {
	m, err := mr.newMigrate()
	if err != nil {
		return nil, err
	}

	status := &MigrationStatus{Driver: mr.driver}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	status.Version = version
	status.Dirty = dirty
	status.Applied = true
	return status, nil
}

// RunMigrations opens a migration connection for cfg and applies pending migrations.
func RunMigrations(cfg *config.DatabaseConfig) error {
	db, err := OpenMigrationDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	runner := NewMigrationRunner(db, cfg.Driver, cfg.MigrationsPath)

	if err := runner.WaitForDatabase(); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.RunMigrations(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	return nil
}

// MigrationStatusFor opens a migration connection for cfg and reports its status.
func MigrationStatusFor(cfg *config.DatabaseConfig) (*MigrationStatus, error) {
	db, err := OpenMigrationDB(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return NewMigrationRunner(db, cfg.Driver, cfg.MigrationsPath).GetMigrationStatus()
}
