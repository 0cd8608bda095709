// backend/database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/aeroshield/oracle/backend/config"
	_ "github.com/go-sql-driver/mysql"
)

var DB *sql.DB

// Defaults sized for a single oracle instance; the ledger only sees one
// policy read and at most one journal write per settlement request.
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = 5 * time.Minute
)

// InitDB opens the claim-ledger connection pool and verifies it with a
// ping. Pool sizing comes from the database config section when set.
func InitDB(cfg config.DatabaseConfig) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	lifetime := defaultConnMaxLifetime
	if cfg.ConnMaxLifetime != "" {
		lifetime, err = time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			return fmt.Errorf("failed to parse conn_max_lifetime: %w", err)
		}
	}
	DB.SetMaxOpenConns(maxOpen)
	DB.SetMaxIdleConns(maxIdle)
	DB.SetConnMaxLifetime(lifetime)

	if err := DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database: connected to the claim ledger")
	return nil
}

// CloseDB closes the connection pool on shutdown.
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Println("Database: claim ledger connection closed")
	}
}
