package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// Connect establishes a connection to the PostgreSQL database holding the
// restaurant catalog and scraped menus.
func Connect() (*sql.DB, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	// Limit open connections for this simple batch job
	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(10)

	return db, nil
}

// The partial unique index on menus makes re-scrapes of the same day
// idempotent even when two workers race for the same restaurant.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		street TEXT NOT NULL,
		house_number TEXT NOT NULL,
		zip_code TEXT NOT NULL,
		city TEXT NOT NULL,
		picture TEXT,
		phone_number TEXT,
		website TEXT,
		email TEXT,
		monday_open TEXT,
		tuesday_open TEXT,
		wednesday_open TEXT,
		thursday_open TEXT,
		friday_open TEXT,
		saturday_open TEXT,
		sunday_open TEXT,
		lunch_served TEXT,
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS menus (
		id UUID PRIMARY KEY,
		date DATE NOT NULL,
		restaurant_id UUID NOT NULL REFERENCES restaurants(id),
		deleted_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id UUID PRIMARY KEY,
		menu_id UUID NOT NULL REFERENCES menus(id) ON DELETE CASCADE,
		position INT NOT NULL,
		name TEXT NOT NULL,
		price INT NOT NULL,
		size TEXT NOT NULL,
		is_soup BOOLEAN NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS menus_restaurant_date_live
		ON menus (restaurant_id, date) WHERE deleted_at IS NULL`,
}

// Migrate applies the schema at startup. Every statement is idempotent, so
// running against an already-migrated database is a no-op.
func Migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
