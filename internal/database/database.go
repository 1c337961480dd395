package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ sqlx.Connect() failed: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ Ping() failed: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			fname TEXT NOT NULL,
			lname TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('employee', 'admin')),
			fcm_token TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create devices table. level is the raw ultrasonic distance in cm;
		// lat/lng arrive from hardware as strings and stay TEXT.
		`CREATE TABLE IF NOT EXISTS devices (
			id SERIAL PRIMARY KEY,
			unique_id BIGINT NOT NULL UNIQUE,
			level INT NOT NULL DEFAULT 0,
			battery INT NOT NULL DEFAULT 0,
			bin_height INT NOT NULL DEFAULT 0,
			lat TEXT NOT NULL DEFAULT '',
			lng TEXT NOT NULL DEFAULT '',
			is_registered BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create weather_sensors table
		`CREATE TABLE IF NOT EXISTS weather_sensors (
			id SERIAL PRIMARY KEY,
			unique_id BIGINT NOT NULL UNIQUE,
			battery INT NOT NULL DEFAULT 0,
			temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
			humidity DOUBLE PRECISION NOT NULL DEFAULT 0,
			lat TEXT NOT NULL DEFAULT '',
			lng TEXT NOT NULL DEFAULT '',
			is_registered BOOLEAN NOT NULL DEFAULT FALSE,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create historical table (append-only fill time series)
		`CREATE TABLE IF NOT EXISTS historical (
			id SERIAL PRIMARY KEY,
			unique_id BIGINT NOT NULL,
			saved_time BIGINT NOT NULL,
			level_in_percents INT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_historical_device_time
			ON historical (unique_id, saved_time)`,

		// Create routes table. device_ids is the ordered work-list snapshot
		// taken at creation time.
		`CREATE TABLE IF NOT EXISTS routes (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			device_ids BIGINT[] NOT NULL,
			empty_bin BOOLEAN NOT NULL DEFAULT FALSE,
			change_battery BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL CHECK(status IN ('pending', 'started', 'finished')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			started BIGINT,
			finished BIGINT,
			FOREIGN KEY (employee_id) REFERENCES users(id)
		)`,

		// Create feedbacks table
		`CREATE TABLE IF NOT EXISTS feedbacks (
			id SERIAL PRIMARY KEY,
			device_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			resolved BOOLEAN NOT NULL DEFAULT FALSE,
			timestamp BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
