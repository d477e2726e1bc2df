// Package history builds the context digest: a bounded natural-language
// summary of the user's rolling activity window injected into the model's
// system prompt.
package history

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
)

// Aggregator fetches the per-domain history and renders it into the digest.
type Aggregator struct {
	store model.Store
	cfg   model.PromptConfig
	now   func() time.Time
}

func NewAggregator(store model.Store, cfg model.PromptConfig) *Aggregator {
	return &Aggregator{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// WithClock overrides the time source; used by tests for stable dates.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// snapshot holds whatever the concurrent domain reads managed to load.
// Fields for failed reads stay at their zero value; the renderer shows each
// empty section as "no entries" rather than omitting it, so the model can
// answer "did I do X" with a confident negative.
type snapshot struct {
	profile   *model.Profile
	workouts  []model.WorkoutSession
	meals     []model.MealEntry
	hydration []model.HydrationEntry
	sleep     []model.SleepEntry
	alcohol   []model.AlcoholEntry
	runs      []model.CardioSession
	rides     []model.CardioSession
	swims     []model.CardioSession
	records   []model.PersonalRecord
}

// Digest returns the rendered history summary for the rolling window. Domain
// reads fan out concurrently and each one is individually guarded: a failed
// read is logged and its section renders empty, never aborting the digest.
func (a *Aggregator) Digest(ctx context.Context, userID string) string {
	snap := a.load(ctx, userID)
	return render(snap, a.now().UTC(), a.cfg)
}

// TodaySnapshot returns the compact current-day block appended after the
// digest.
func (a *Aggregator) TodaySnapshot(ctx context.Context, userID string) string {
	today := midnight(a.now().UTC())
	var (
		meals     []model.MealEntry
		hydration []model.HydrationEntry
		workouts  []model.WorkoutSession
		sleep     []model.SleepEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.guard("today_meals", func() (err error) {
		meals, err = a.store.MealEntries(gctx, userID, today)
		return
	}))
	g.Go(a.guard("today_hydration", func() (err error) {
		hydration, err = a.store.HydrationEntries(gctx, userID, today)
		return
	}))
	g.Go(a.guard("today_workouts", func() (err error) {
		workouts, err = a.store.WorkoutSessions(gctx, userID, today)
		return
	}))
	g.Go(a.guard("last_night_sleep", func() (err error) {
		sleep, err = a.store.SleepEntries(gctx, userID, today.AddDate(0, 0, -1))
		return
	}))
	_ = g.Wait() // guards never return errors

	return renderToday(a.now().UTC(), meals, hydration, workouts, sleep, a.cfg.HydrationGoalML)
}

func (a *Aggregator) load(ctx context.Context, userID string) *snapshot {
	since := midnight(a.now().UTC()).AddDate(0, 0, -a.cfg.HistoryDays)
	snap := &snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.guard("profile", func() (err error) {
		snap.profile, err = a.store.Profile(gctx, userID)
		return
	}))
	g.Go(a.guard("workouts", func() (err error) {
		snap.workouts, err = a.store.WorkoutSessions(gctx, userID, since)
		return
	}))
	g.Go(a.guard("meals", func() (err error) {
		snap.meals, err = a.store.MealEntries(gctx, userID, since)
		return
	}))
	g.Go(a.guard("hydration", func() (err error) {
		snap.hydration, err = a.store.HydrationEntries(gctx, userID, since)
		return
	}))
	g.Go(a.guard("sleep", func() (err error) {
		snap.sleep, err = a.store.SleepEntries(gctx, userID, since)
		return
	}))
	g.Go(a.guard("alcohol", func() (err error) {
		snap.alcohol, err = a.store.AlcoholEntries(gctx, userID, since)
		return
	}))
	g.Go(a.guard("runs", func() (err error) {
		snap.runs, err = a.store.CardioSessions(gctx, userID, model.CardioRun, since)
		return
	}))
	g.Go(a.guard("rides", func() (err error) {
		snap.rides, err = a.store.CardioSessions(gctx, userID, model.CardioRide, since)
		return
	}))
	g.Go(a.guard("swims", func() (err error) {
		snap.swims, err = a.store.CardioSessions(gctx, userID, model.CardioSwim, since)
		return
	}))
	g.Go(a.guard("personal_records", func() (err error) {
		snap.records, err = a.store.PersonalRecords(gctx, userID, a.cfg.MaxPersonalRecords)
		return
	}))
	_ = g.Wait() // guards never return errors

	return snap
}

// guard wraps a domain fetch so no single source failure can abort the
// digest; the group only coordinates the join.
func (a *Aggregator) guard(domain string, fetch func() error) func() error {
	return func() error {
		if err := fetch(); err != nil {
			logx.Warn().Err(err).Str("domain", domain).Msg("History fetch failed; continuing without it")
		}
		return nil
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
