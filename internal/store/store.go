// Package store provides SQLite-backed persistence for fitness data: the
// history domains projected into the assistant's context digest and the rows
// written by the logging tools.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
)

const timeLayout = time.RFC3339Nano

// DateLayout is the natural-key format for date-keyed rows (sleep, cycle).
const DateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path, runs
// migrations and returns a ready Store. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite serialises writes itself; a single connection avoids
	// SQLITE_BUSY on concurrent request handling.
	db.SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// New returns a Store bound to an existing migrated database handle.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ================ Reads ================

func (s *Store) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, name, age, sex, weight_kg, height_cm, goal
		FROM profiles WHERE user_id = ?`, userID)
	var p model.Profile
	err := row.Scan(&p.UserID, &p.Name, &p.Age, &p.Sex, &p.WeightKG, &p.HeightCM, &p.Goal)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return &p, nil
}

func (s *Store) WorkoutSessions(ctx context.Context, userID string, since time.Time) ([]model.WorkoutSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, name, muscle_group, duration_min, calories
		FROM workout_sessions
		WHERE user_id = ? AND date >= ?
		ORDER BY date ASC`, userID, since.UTC().Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("workout sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.WorkoutSession
	for rows.Next() {
		var ws model.WorkoutSession
		var date string
		if err := rows.Scan(&ws.ID, &ws.UserID, &date, &ws.Name, &ws.MuscleGroup, &ws.DurationMin, &ws.Calories); err != nil {
			return nil, fmt.Errorf("workout sessions: scan: %w", err)
		}
		ws.Date, _ = time.Parse(DateLayout, date)
		sessions = append(sessions, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workout sessions: %w", err)
	}

	for i := range sessions {
		exercises, err := s.exerciseLogs(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Exercises = exercises
	}
	return sessions, nil
}

func (s *Store) exerciseLogs(ctx context.Context, sessionID string) ([]model.ExerciseLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, sets, reps, weight_kg FROM exercise_logs WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("exercise logs: %w", err)
	}
	defer rows.Close()

	var logs []model.ExerciseLog
	for rows.Next() {
		var e model.ExerciseLog
		if err := rows.Scan(&e.Name, &e.Sets, &e.Reps, &e.WeightKG); err != nil {
			return nil, fmt.Errorf("exercise logs: scan: %w", err)
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

func (s *Store) MealEntries(ctx context.Context, userID string, since time.Time) ([]model.MealEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, logged_at, meal_type, description, calories, protein, carbs, fat, photo_url
		FROM food_entries
		WHERE user_id = ? AND logged_at >= ?
		ORDER BY logged_at ASC`, userID, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("meal entries: %w", err)
	}
	defer rows.Close()

	var entries []model.MealEntry
	for rows.Next() {
		var m model.MealEntry
		var loggedAt string
		if err := rows.Scan(&m.ID, &m.UserID, &loggedAt, &m.MealType, &m.Description, &m.Calories, &m.Protein, &m.Carbs, &m.Fat, &m.PhotoURL); err != nil {
			return nil, fmt.Errorf("meal entries: scan: %w", err)
		}
		m.LoggedAt, _ = time.Parse(timeLayout, loggedAt)
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

func (s *Store) HydrationEntries(ctx context.Context, userID string, since time.Time) ([]model.HydrationEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, logged_at, source, amount_ml
		FROM hydration_entries
		WHERE user_id = ? AND logged_at >= ?
		ORDER BY logged_at ASC`, userID, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("hydration entries: %w", err)
	}
	defer rows.Close()

	var entries []model.HydrationEntry
	for rows.Next() {
		var h model.HydrationEntry
		var loggedAt string
		if err := rows.Scan(&h.ID, &h.UserID, &loggedAt, &h.Source, &h.AmountML); err != nil {
			return nil, fmt.Errorf("hydration entries: scan: %w", err)
		}
		h.LoggedAt, _ = time.Parse(timeLayout, loggedAt)
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

func (s *Store) SleepEntries(ctx context.Context, userID string, since time.Time) ([]model.SleepEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, date, duration_hours, quality_score, bed_time, wake_time, notes
		FROM sleep_entries
		WHERE user_id = ? AND date >= ?
		ORDER BY date ASC`, userID, since.UTC().Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("sleep entries: %w", err)
	}
	defer rows.Close()

	var entries []model.SleepEntry
	for rows.Next() {
		var e model.SleepEntry
		if err := rows.Scan(&e.UserID, &e.Date, &e.DurationHours, &e.QualityScore, &e.BedTime, &e.WakeTime, &e.Notes); err != nil {
			return nil, fmt.Errorf("sleep entries: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) AlcoholEntries(ctx context.Context, userID string, since time.Time) ([]model.AlcoholEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, logged_at, drink_type, units, calories
		FROM alcohol_entries
		WHERE user_id = ? AND logged_at >= ?
		ORDER BY logged_at ASC`, userID, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("alcohol entries: %w", err)
	}
	defer rows.Close()

	var entries []model.AlcoholEntry
	for rows.Next() {
		var a model.AlcoholEntry
		var loggedAt string
		if err := rows.Scan(&a.ID, &a.UserID, &loggedAt, &a.DrinkType, &a.Units, &a.Calories); err != nil {
			return nil, fmt.Errorf("alcohol entries: scan: %w", err)
		}
		a.LoggedAt, _ = time.Parse(timeLayout, loggedAt)
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

func (s *Store) CardioSessions(ctx context.Context, userID string, kind model.CardioKind, since time.Time) ([]model.CardioSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kind, started_at, duration_min, distance_m, avg_heart_rate, calories
		FROM cardio_sessions
		WHERE user_id = ? AND kind = ? AND started_at >= ?
		ORDER BY started_at ASC`, userID, string(kind), since.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("cardio sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.CardioSession
	for rows.Next() {
		var c model.CardioSession
		var kindStr, startedAt string
		if err := rows.Scan(&c.ID, &c.UserID, &kindStr, &startedAt, &c.DurationMin, &c.DistanceM, &c.AvgHeartRate, &c.Calories); err != nil {
			return nil, fmt.Errorf("cardio sessions: scan: %w", err)
		}
		c.Kind = model.CardioKind(kindStr)
		c.StartedAt, _ = time.Parse(timeLayout, startedAt)
		sessions = append(sessions, c)
	}
	return sessions, rows.Err()
}

func (s *Store) PersonalRecords(ctx context.Context, userID string, limit int) ([]model.PersonalRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, exercise, metric, value, unit, achieved_at
		FROM personal_records
		WHERE user_id = ?
		ORDER BY achieved_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("personal records: %w", err)
	}
	defer rows.Close()

	var records []model.PersonalRecord
	for rows.Next() {
		var r model.PersonalRecord
		var achievedAt string
		if err := rows.Scan(&r.UserID, &r.Exercise, &r.Metric, &r.Value, &r.Unit, &achievedAt); err != nil {
			return nil, fmt.Errorf("personal records: scan: %w", err)
		}
		r.AchievedAt, _ = time.Parse(timeLayout, achievedAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) MoodEntries(ctx context.Context, userID string, since time.Time) ([]model.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, logged_at, score, note
		FROM mood_entries
		WHERE user_id = ? AND logged_at >= ?
		ORDER BY logged_at ASC`, userID, since.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("mood entries: %w", err)
	}
	defer rows.Close()

	var entries []model.MoodEntry
	for rows.Next() {
		var m model.MoodEntry
		var loggedAt string
		if err := rows.Scan(&m.UserID, &loggedAt, &m.Score, &m.Note); err != nil {
			return nil, fmt.Errorf("mood entries: scan: %w", err)
		}
		m.LoggedAt, _ = time.Parse(timeLayout, loggedAt)
		entries = append(entries, m)
	}
	return entries, rows.Err()
}

// ================ Writes ================

func (s *Store) AddHydration(ctx context.Context, entry model.HydrationEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hydration_entries (id, user_id, logged_at, source, amount_ml)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.LoggedAt.UTC().Format(timeLayout), entry.Source, entry.AmountML)
	if err != nil {
		return fmt.Errorf("add hydration: %w", err)
	}
	return nil
}

func (s *Store) AddMeal(ctx context.Context, entry model.MealEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO food_entries (id, user_id, logged_at, meal_type, description, calories, protein, carbs, fat, photo_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.LoggedAt.UTC().Format(timeLayout), entry.MealType,
		entry.Description, entry.Calories, entry.Protein, entry.Carbs, entry.Fat, entry.PhotoURL)
	if err != nil {
		return fmt.Errorf("add meal: %w", err)
	}
	return nil
}

// UpsertSleep inserts or replaces the sleep row for (user, date). A date
// already logged takes the new values; last write wins.
func (s *Store) UpsertSleep(ctx context.Context, entry model.SleepEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sleep_entries (user_id, date, duration_hours, quality_score, bed_time, wake_time, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			duration_hours = excluded.duration_hours,
			quality_score = excluded.quality_score,
			bed_time = excluded.bed_time,
			wake_time = excluded.wake_time,
			notes = excluded.notes`,
		entry.UserID, entry.Date, entry.DurationHours, entry.QualityScore,
		entry.BedTime, entry.WakeTime, entry.Notes)
	if err != nil {
		return fmt.Errorf("upsert sleep: %w", err)
	}
	return nil
}

func (s *Store) CycleRecord(ctx context.Context, userID string) (*model.CycleRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, last_period_start, avg_cycle_length, avg_period_length, updated_at
		FROM cycle_tracking WHERE user_id = ?`, userID)
	var rec model.CycleRecord
	var updatedAt string
	err := row.Scan(&rec.UserID, &rec.LastPeriodStart, &rec.AvgCycleLength, &rec.AvgPeriodLength, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cycle record: %w", err)
	}
	rec.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &rec, nil
}

func (s *Store) UpsertCycle(ctx context.Context, rec model.CycleRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycle_tracking (user_id, last_period_start, avg_cycle_length, avg_period_length, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			last_period_start = excluded.last_period_start,
			avg_cycle_length = excluded.avg_cycle_length,
			avg_period_length = excluded.avg_period_length,
			updated_at = excluded.updated_at`,
		rec.UserID, rec.LastPeriodStart, rec.AvgCycleLength, rec.AvgPeriodLength,
		rec.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("upsert cycle: %w", err)
	}
	return nil
}
