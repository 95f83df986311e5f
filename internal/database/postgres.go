package database

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// ConnectPostgres opens a PostgreSQL connection pool, verifies it and ensures
// the schema exists. The returned handle is passed explicitly to the stores;
// there is no package-level connection.
func ConnectPostgres(postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, err
	}

	log.Println("Connected to PostgreSQL")

	if err = initTables(db); err != nil {
		return nil, err
	}

	return db, nil
}

// initTables creates all necessary tables if they don't exist
func initTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			refresh_token TEXT,
			avatar_url TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS contacts (
			id UUID PRIMARY KEY,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			first_name VARCHAR(50) NOT NULL,
			last_name VARCHAR(50) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone_number VARCHAR(50) NOT NULL,
			birthday DATE NOT NULL,
			additional_info TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_owner_id ON contacts(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_first_name_lower ON contacts(LOWER(first_name))`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_last_name_lower ON contacts(LOWER(last_name))`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	log.Println("PostgreSQL tables initialized")
	return nil
}
