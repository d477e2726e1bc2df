package store

import (
	"context"
	"time"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
)

// Scalar scores summarising training-load risk and recovery state. They are
// included verbatim in the prompt as optional enrichment, so extreme
// precision matters less than monotonic, explainable behaviour.

// InjuryRiskScore returns 0..100. The core signal is the acute:chronic
// workload ratio (training minutes last 7 days vs the weekly average of the
// prior 28 days); spiking load is the dominant soft-tissue risk factor.
// Short sleep over the last week adds a flat penalty.
func (s *Store) InjuryRiskScore(ctx context.Context, userID string) (float64, error) {
	now := time.Now().UTC()
	acute, err := s.trainingMinutes(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return 0, err
	}
	chronic, err := s.trainingMinutes(ctx, userID, now.AddDate(0, 0, -35), now.AddDate(0, 0, -7))
	if err != nil {
		return 0, err
	}

	score := 10.0
	if chronic > 0 {
		ratio := acute / (chronic / 4) // chronic window is 4 weeks
		switch {
		case ratio > 1.5:
			score += 50
		case ratio > 1.3:
			score += 30
		case ratio > 1.1:
			score += 15
		}
	} else if acute > 0 {
		// Training from a cold start is its own risk.
		score += 35
	}

	sleep, err := s.SleepEntries(ctx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return 0, err
	}
	if avg := avgSleepHours(sleep); avg > 0 && avg < 6 {
		score += 20
	}

	return clampScore(score), nil
}

// ReadinessScore returns 0..100 combining recent sleep, mood and alcohol
// intake. Higher means better recovered.
func (s *Store) ReadinessScore(ctx context.Context, userID string) (float64, error) {
	now := time.Now().UTC()
	score := 50.0

	sleep, err := s.SleepEntries(ctx, userID, now.AddDate(0, 0, -3))
	if err != nil {
		return 0, err
	}
	if avg := avgSleepHours(sleep); avg > 0 {
		switch {
		case avg >= 7.5:
			score += 25
		case avg >= 6.5:
			score += 10
		case avg < 5.5:
			score -= 20
		}
	}
	for _, e := range sleep {
		if e.QualityScore >= 4 {
			score += 3
		}
		if e.QualityScore <= 2 {
			score -= 5
		}
	}

	moods, err := s.MoodEntries(ctx, userID, now.AddDate(0, 0, -3))
	if err != nil {
		return 0, err
	}
	for _, m := range moods {
		score += float64(m.Score-3) * 3
	}

	drinks, err := s.AlcoholEntries(ctx, userID, now.AddDate(0, 0, -2))
	if err != nil {
		return 0, err
	}
	for _, d := range drinks {
		score -= d.Units * 4
	}

	return clampScore(score), nil
}

func (s *Store) trainingMinutes(ctx context.Context, userID string, from, to time.Time) (float64, error) {
	var workoutMin, cardioMin float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(duration_min), 0) FROM workout_sessions
		WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, from.Format(DateLayout), to.Format(DateLayout)).Scan(&workoutMin)
	if err != nil {
		return 0, err
	}
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(duration_min), 0) FROM cardio_sessions
		WHERE user_id = ? AND started_at >= ? AND started_at < ?`,
		userID, from.Format(timeLayout), to.Format(timeLayout)).Scan(&cardioMin)
	if err != nil {
		return 0, err
	}
	return workoutMin + cardioMin, nil
}

func avgSleepHours(entries []model.SleepEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var total float64
	for _, e := range entries {
		total += e.DurationHours
	}
	return total / float64(len(entries))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
