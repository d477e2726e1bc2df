package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the latest schema version supported by the migrator.
const SchemaVersion = 1

// Migrate ensures the SQLite schema exists and is upgraded to SchemaVersion.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}

	if current >= SchemaVersion {
		return nil
	}

	transaction, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = transaction.Rollback()
	}()

	statements := []struct {
		name string
		ddl  string
	}{
		{"profiles", `
			CREATE TABLE IF NOT EXISTS profiles (
				user_id TEXT PRIMARY KEY,
				name TEXT NOT NULL DEFAULT '',
				age INTEGER NOT NULL DEFAULT 0,
				sex TEXT NOT NULL DEFAULT '',
				weight_kg REAL NOT NULL DEFAULT 0,
				height_cm REAL NOT NULL DEFAULT 0,
				goal TEXT NOT NULL DEFAULT ''
			);`},
		{"workout_sessions", `
			CREATE TABLE IF NOT EXISTS workout_sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				date TEXT NOT NULL,
				name TEXT NOT NULL DEFAULT '',
				muscle_group TEXT NOT NULL DEFAULT '',
				duration_min INTEGER NOT NULL DEFAULT 0,
				calories INTEGER NOT NULL DEFAULT 0
			);`},
		{"workout_sessions index", `
			CREATE INDEX IF NOT EXISTS idx_workout_sessions_user_date ON workout_sessions (user_id, date);`},
		{"exercise_logs", `
			CREATE TABLE IF NOT EXISTS exercise_logs (
				session_id TEXT NOT NULL,
				name TEXT NOT NULL,
				sets INTEGER NOT NULL DEFAULT 0,
				reps INTEGER NOT NULL DEFAULT 0,
				weight_kg REAL NOT NULL DEFAULT 0
			);`},
		{"food_entries", `
			CREATE TABLE IF NOT EXISTS food_entries (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				logged_at TEXT NOT NULL,
				meal_type TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				calories REAL NOT NULL DEFAULT 0,
				protein REAL NOT NULL DEFAULT 0,
				carbs REAL NOT NULL DEFAULT 0,
				fat REAL NOT NULL DEFAULT 0,
				photo_url TEXT NOT NULL DEFAULT ''
			);`},
		{"food_entries index", `
			CREATE INDEX IF NOT EXISTS idx_food_entries_user_logged ON food_entries (user_id, logged_at);`},
		{"hydration_entries", `
			CREATE TABLE IF NOT EXISTS hydration_entries (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				logged_at TEXT NOT NULL,
				source TEXT NOT NULL DEFAULT '',
				amount_ml INTEGER NOT NULL DEFAULT 0
			);`},
		{"sleep_entries", `
			CREATE TABLE IF NOT EXISTS sleep_entries (
				user_id TEXT NOT NULL,
				date TEXT NOT NULL,
				duration_hours REAL NOT NULL DEFAULT 0,
				quality_score INTEGER NOT NULL DEFAULT 3,
				bed_time TEXT NOT NULL DEFAULT '',
				wake_time TEXT NOT NULL DEFAULT '',
				notes TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (user_id, date)
			);`},
		{"alcohol_entries", `
			CREATE TABLE IF NOT EXISTS alcohol_entries (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				logged_at TEXT NOT NULL,
				drink_type TEXT NOT NULL DEFAULT '',
				units REAL NOT NULL DEFAULT 0,
				calories INTEGER NOT NULL DEFAULT 0
			);`},
		{"cardio_sessions", `
			CREATE TABLE IF NOT EXISTS cardio_sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				kind TEXT NOT NULL,
				started_at TEXT NOT NULL,
				duration_min INTEGER NOT NULL DEFAULT 0,
				distance_m REAL NOT NULL DEFAULT 0,
				avg_heart_rate INTEGER NOT NULL DEFAULT 0,
				calories INTEGER NOT NULL DEFAULT 0
			);`},
		{"personal_records", `
			CREATE TABLE IF NOT EXISTS personal_records (
				user_id TEXT NOT NULL,
				exercise TEXT NOT NULL,
				metric TEXT NOT NULL DEFAULT '',
				value REAL NOT NULL DEFAULT 0,
				unit TEXT NOT NULL DEFAULT '',
				achieved_at TEXT NOT NULL
			);`},
		{"cycle_tracking", `
			CREATE TABLE IF NOT EXISTS cycle_tracking (
				user_id TEXT PRIMARY KEY,
				last_period_start TEXT NOT NULL DEFAULT '',
				avg_cycle_length INTEGER NOT NULL DEFAULT 28,
				avg_period_length INTEGER NOT NULL DEFAULT 5,
				updated_at TEXT NOT NULL
			);`},
		{"mood_entries", `
			CREATE TABLE IF NOT EXISTS mood_entries (
				user_id TEXT NOT NULL,
				logged_at TEXT NOT NULL,
				score INTEGER NOT NULL DEFAULT 3,
				note TEXT NOT NULL DEFAULT ''
			);`},
	}

	for _, stmt := range statements {
		if _, err = transaction.Exec(stmt.ddl); err != nil {
			return fmt.Errorf("migrate: create %s: %w", stmt.name, err)
		}
	}

	_, err = transaction.Exec(`INSERT INTO schema_migrations (version) VALUES (?);`, SchemaVersion)
	if err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}

	if err = transaction.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}
