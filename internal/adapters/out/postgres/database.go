// Package postgres opens the gorm connection shared by the assignment, log
// and vehicle repositories.
//
// The driver pool is pgx's database/sql adapter; gorm is handed the
// resulting *sql.DB so the same pool serves every repository.
//
// Usage:
//
//	db, err := postgres.Open(ctx, postgres.DSN("localhost", "5432", "app", "secret", "dispatch", "disable"))
//	if err != nil {
//	    return err
//	}
//	if err := postgres.Migrate(db); err != nil {
//	    return err
//	}
//	assignments := assignmentrepo.NewGormAssignmentRepository(db)
package postgres

import (
	"context"
	"fmt"
	"net/url"

	"parcel-dispatch/internal/adapters/out/postgres/assignmentrepo"
	"parcel-dispatch/internal/adapters/out/postgres/logrepo"
	"parcel-dispatch/internal/adapters/out/postgres/vehiclerepo"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds a postgres connection URL from its parts.
func DSN(host, port, user, password, dbName, sslMode string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}
	return u.String()
}

// Open connects through pgx and verifies the connection with a ping.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}

	sqlDB := stdlib.OpenDB(*cfg)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres: open gorm: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the assignments, event_logs and vehicles tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&assignmentrepo.AssignmentDTO{},
		&logrepo.LogEntryDTO{},
		&vehiclerepo.VehicleDTO{},
	)
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
