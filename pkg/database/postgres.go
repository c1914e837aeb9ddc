package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/registra/records-api/pkg/config"
)

// NewPostgres returns a configured PostgreSQL pool. The pool is built once
// per process and handed to repositories explicitly; nothing in the codebase
// reaches for a package-level connection.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if missing := requiredKeys(cfg); len(missing) > 0 {
		return nil, &config.MissingKeysError{Keys: missing}
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
		int(cfg.ConnectTimeout.Seconds()),
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func requiredKeys(cfg config.DatabaseConfig) []string {
	var missing []string
	if cfg.Host == "" {
		missing = append(missing, "host")
	}
	if cfg.Name == "" {
		missing = append(missing, "database")
	}
	if cfg.User == "" {
		missing = append(missing, "user")
	}
	if cfg.Password == "" {
		missing = append(missing, "password")
	}
	return missing
}
