package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Zh-Andrew/foodgram-project-react/config"
)

// DB bundles the GORM handle with the underlying sql.DB used for health checks.
type DB struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

// New opens the Postgres connection pool and hands it to GORM.
func New(cfg *config.Config) (*DB, error) {
	logrus.WithFields(logrus.Fields{
		"host": cfg.DBHost,
		"port": cfg.DBPort,
		"user": cfg.DBUser,
		"name": cfg.DBName,
	}).Info("connecting to database")

	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing gorm: %w", err)
	}

	logrus.Info("successfully connected to database")
	return &DB{Gorm: gormDB, SQL: sqlDB}, nil
}

// HealthCheck checks if the database is accessible
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.SQL.PingContext(ctx)
}

// Close releases the connection pool.
func (db *DB) Close() error {
	return db.SQL.Close()
}
