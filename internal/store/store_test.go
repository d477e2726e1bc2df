package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenMigratesTwice(t *testing.T) {
	s := openTestStore(t)
	// Migrate is idempotent on an already current schema.
	require.NoError(t, Migrate(s.db))
}

func TestEmptyReads(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	profile, err := s.Profile(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, profile)

	rec, err := s.CycleRecord(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, rec)

	entries, err := s.HydrationEntries(ctx, "nobody", time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHydrationRoundTripAndWindow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.AddHydration(ctx, model.HydrationEntry{
		ID: "h1", UserID: "u1", LoggedAt: now.AddDate(0, 0, -2), Source: "water", AmountML: 500,
	}))
	require.NoError(t, s.AddHydration(ctx, model.HydrationEntry{
		ID: "h2", UserID: "u1", LoggedAt: now.AddDate(0, 0, -1), Source: "beer", AmountML: -213,
	}))
	require.NoError(t, s.AddHydration(ctx, model.HydrationEntry{
		ID: "h3", UserID: "u1", LoggedAt: now.AddDate(0, 0, -40), Source: "water", AmountML: 400,
	}))
	require.NoError(t, s.AddHydration(ctx, model.HydrationEntry{
		ID: "h4", UserID: "other", LoggedAt: now, Source: "water", AmountML: 300,
	}))

	entries, err := s.HydrationEntries(ctx, "u1", now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, entries, 2, "window and user filters apply")
	assert.Equal(t, "water", entries[0].Source)
	assert.Equal(t, 500, entries[0].AmountML)
	// Dehydrating entries keep their sign.
	assert.Equal(t, -213, entries[1].AmountML)
}

func TestMealRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.AddMeal(ctx, model.MealEntry{
		ID: "m1", UserID: "u1", LoggedAt: now, MealType: "dinner",
		Description: "grilled chicken and rice", Calories: 620, Protein: 48, Carbs: 70, Fat: 12,
		PhotoURL: "/media/u1/abc.png",
	}))

	entries, err := s.MealEntries(ctx, "u1", now.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "grilled chicken and rice", entries[0].Description)
	assert.Equal(t, 620.0, entries[0].Calories)
	assert.Equal(t, "/media/u1/abc.png", entries[0].PhotoURL)
}

func TestUpsertSleepLastWriteWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	date := time.Now().UTC().AddDate(0, 0, -1).Format(DateLayout)

	require.NoError(t, s.UpsertSleep(ctx, model.SleepEntry{
		UserID: "u1", Date: date, DurationHours: 6, QualityScore: 2, BedTime: "01:00", WakeTime: "07:00",
	}))
	require.NoError(t, s.UpsertSleep(ctx, model.SleepEntry{
		UserID: "u1", Date: date, DurationHours: 7.5, QualityScore: 4, BedTime: "23:30", WakeTime: "07:00",
		Notes: "corrected",
	}))

	entries, err := s.SleepEntries(ctx, "u1", time.Now().UTC().AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, entries, 1, "re-logging the same night replaces, never duplicates")
	assert.Equal(t, 7.5, entries[0].DurationHours)
	assert.Equal(t, 4, entries[0].QualityScore)
	assert.Equal(t, "23:30", entries[0].BedTime)
	assert.Equal(t, "corrected", entries[0].Notes)
}

func TestUpsertCycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, s.UpsertCycle(ctx, model.CycleRecord{
		UserID: "u1", LastPeriodStart: "2025-06-10", AvgCycleLength: 28, AvgPeriodLength: 5, UpdatedAt: now,
	}))
	require.NoError(t, s.UpsertCycle(ctx, model.CycleRecord{
		UserID: "u1", LastPeriodStart: "2025-06-10", AvgCycleLength: 28, AvgPeriodLength: 4, UpdatedAt: now,
	}))

	rec, err := s.CycleRecord(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "2025-06-10", rec.LastPeriodStart)
	assert.Equal(t, 4, rec.AvgPeriodLength, "second upsert replaces the row")
}

func TestWorkoutSessionsIncludeExercises(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	date := time.Now().UTC().AddDate(0, 0, -3).Format(DateLayout)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workout_sessions (id, user_id, date, name, muscle_group, duration_min, calories)
		VALUES ('w1', 'u1', ?, 'Leg Day', 'legs', 50, 400)`, date)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO exercise_logs (session_id, name, sets, reps, weight_kg)
		VALUES ('w1', 'Squat', 5, 5, 100)`)
	require.NoError(t, err)

	sessions, err := s.WorkoutSessions(ctx, "u1", time.Now().UTC().AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Leg Day", sessions[0].Name)
	require.Len(t, sessions[0].Exercises, 1)
	assert.Equal(t, "Squat", sessions[0].Exercises[0].Name)
	assert.Equal(t, 100.0, sessions[0].Exercises[0].WeightKG)
}

func TestPersonalRecordsNewestFirstCapped(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 4; i++ {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO personal_records (user_id, exercise, metric, value, unit, achieved_at)
			VALUES ('u1', 'Deadlift', '1RM', ?, 'kg', ?)`,
			150+i*5, now.AddDate(0, 0, -i).Format(timeLayout))
		require.NoError(t, err)
	}

	records, err := s.PersonalRecords(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 150.0, records[0].Value, "most recent record first")
	assert.Equal(t, 155.0, records[1].Value)
}

func TestCardioSessionsFilterByKind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cardio_sessions (id, user_id, kind, started_at, duration_min, distance_m, avg_heart_rate, calories)
		VALUES ('c1', 'u1', 'run', ?, 30, 5000, 155, 320),
		       ('c2', 'u1', 'swim', ?, 25, 800, 140, 250)`,
		now.AddDate(0, 0, -1).Format(timeLayout), now.AddDate(0, 0, -2).Format(timeLayout))
	require.NoError(t, err)

	runs, err := s.CardioSessions(ctx, "u1", model.CardioRun, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.CardioRun, runs[0].Kind)
	assert.Equal(t, 5000.0, runs[0].DistanceM)

	swims, err := s.CardioSessions(ctx, "u1", model.CardioSwim, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, swims, 1)
}

func TestInjuryRiskScoreBase(t *testing.T) {
	s := openTestStore(t)

	score, err := s.InjuryRiskScore(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, score, "no training history means baseline risk")
}

func TestInjuryRiskScoreColdStart(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	date := time.Now().UTC().AddDate(0, 0, -2).Format(DateLayout)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workout_sessions (id, user_id, date, name, muscle_group, duration_min, calories)
		VALUES ('w1', 'u1', ?, 'Push Day', 'chest', 60, 400)`, date)
	require.NoError(t, err)

	score, err := s.InjuryRiskScore(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 45.0, score, "acute load with no chronic base is a risk spike")
}

func TestInjuryRiskScoreLoadSpike(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// Chronic base: 60 min/week across the prior four weeks.
	for i := 0; i < 4; i++ {
		date := now.AddDate(0, 0, -10-7*i).Format(DateLayout)
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO workout_sessions (id, user_id, date, name, muscle_group, duration_min, calories)
			VALUES (?, 'u1', ?, 'Base', 'full', 60, 300)`, "base"+date, date)
		require.NoError(t, err)
	}
	// Acute week: 120 min, double the chronic weekly average.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workout_sessions (id, user_id, date, name, muscle_group, duration_min, calories)
		VALUES ('spike', 'u1', ?, 'Spike', 'full', 120, 600)`, now.AddDate(0, 0, -2).Format(DateLayout))
	require.NoError(t, err)

	score, err := s.InjuryRiskScore(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 60.0, score, "ratio 2.0 lands in the top risk tier")
}

func TestReadinessScoreNeutral(t *testing.T) {
	s := openTestStore(t)

	score, err := s.ReadinessScore(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 50.0, score)
}

func TestReadinessScoreRespondsToInputs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// One great night of sleep in the window.
	require.NoError(t, s.UpsertSleep(ctx, model.SleepEntry{
		UserID: "u1", Date: now.AddDate(0, 0, -1).Format(DateLayout),
		DurationHours: 8, QualityScore: 5,
	}))
	// Two drinks last night.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alcohol_entries (id, user_id, logged_at, drink_type, units, calories)
		VALUES ('a1', 'u1', ?, 'wine', 2, 240)`, now.AddDate(0, 0, -1).Format(timeLayout))
	require.NoError(t, err)

	score, err := s.ReadinessScore(ctx, "u1")
	require.NoError(t, err)
	// 50 + 25 (long sleep) + 3 (good quality) - 8 (alcohol) = 70.
	assert.Equal(t, 70.0, score)
}
