package db

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"user_backend/internal/feature/user/adapters"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the schema for the given driver.
// PostgreSQL runs the embedded SQL migrations; SQLite uses GORM AutoMigrate.
func Migrate(db *gorm.DB, driver string) error {
	switch driver {
	case DriverPostgres:
		return runSQLMigrations(db)
	case DriverSQLite:
		return db.AutoMigrate(&adapters.UserModel{})
	default:
		return errors.New("unsupported DB_DRIVER: " + driver)
	}
}

// Rollback reverts every PostgreSQL migration. SQLite schemas are owned by
// AutoMigrate and have nothing to roll back.
func Rollback(db *gorm.DB, driver string) error {
	if driver != DriverPostgres {
		return errors.New("rollback is only supported for " + DriverPostgres)
	}
	m, err := newMigrator(context.Background(), db)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func runSQLMigrations(db *gorm.DB) error {
	m, err := newMigrator(context.Background(), db)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// newMigrator runs on a single connection taken from the pool. Closing the
// returned migrator hands that connection back and leaves the pool open.
func newMigrator(ctx context.Context, db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrate conn: %w", err)
	}

	driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{})
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("migrate source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, DriverPostgres, driver)
	if err != nil {
		_ = driver.Close()
		return nil, err
	}
	return m, nil
}
