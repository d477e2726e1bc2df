package model

import (
	"context"
	"time"
)

// Store is the relational fitness store consumed by the assistant. Reads
// feed the context digest; writes are the logging tools' side effects.
type Store interface {
	Profile(ctx context.Context, userID string) (*Profile, error)
	WorkoutSessions(ctx context.Context, userID string, since time.Time) ([]WorkoutSession, error)
	MealEntries(ctx context.Context, userID string, since time.Time) ([]MealEntry, error)
	HydrationEntries(ctx context.Context, userID string, since time.Time) ([]HydrationEntry, error)
	SleepEntries(ctx context.Context, userID string, since time.Time) ([]SleepEntry, error)
	AlcoholEntries(ctx context.Context, userID string, since time.Time) ([]AlcoholEntry, error)
	CardioSessions(ctx context.Context, userID string, kind CardioKind, since time.Time) ([]CardioSession, error)
	PersonalRecords(ctx context.Context, userID string, limit int) ([]PersonalRecord, error)
	MoodEntries(ctx context.Context, userID string, since time.Time) ([]MoodEntry, error)

	// Scalar scores computed over recent rows; optional prompt enrichment.
	InjuryRiskScore(ctx context.Context, userID string) (float64, error)
	ReadinessScore(ctx context.Context, userID string) (float64, error)

	AddHydration(ctx context.Context, entry HydrationEntry) error
	AddMeal(ctx context.Context, entry MealEntry) error
	UpsertSleep(ctx context.Context, entry SleepEntry) error
	CycleRecord(ctx context.Context, userID string) (*CycleRecord, error)
	UpsertCycle(ctx context.Context, rec CycleRecord) error
}

// MediaStore persists generated food images and returns a servable URL.
type MediaStore interface {
	SaveFoodImage(ctx context.Context, userID string, data []byte, mimeType string) (string, error)
}

// Deduper guards side-effect writes against client retries. FirstSeen
// reports whether this key is new; a duplicate suppresses writes while the
// action result is still returned. Implementations are best-effort: on any
// backend failure they must report true so legitimate writes proceed.
type Deduper interface {
	FirstSeen(ctx context.Context, key string) bool
}
