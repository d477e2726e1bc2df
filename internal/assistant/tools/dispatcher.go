package tools

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
)

const writeTimeout = 5 * time.Second

// wakeAnchorHour is the fixed wake-time anchor for sleep logging; bedtime is
// derived by subtracting the reported duration.
const wakeAnchorHour = 7

// Dispatcher performs the side effect for a validated tool invocation and
// produces the structured action payload.
//
// All writes are best effort: the model already promised the action in its
// confirmation message, so a failed write is logged and the action is
// returned anyway rather than surfacing an error after the fact.
type Dispatcher struct {
	store     model.Store
	media     model.MediaStore
	dedupe    model.Deduper
	nutrition *NutritionClient
	images    ImageGenerator
	now       func() time.Time
}

func NewDispatcher(store model.Store, media model.MediaStore, dedupe model.Deduper,
	nutrition *NutritionClient, images ImageGenerator) *Dispatcher {
	if dedupe == nil {
		dedupe = alwaysFirst{}
	}
	return &Dispatcher{
		store:     store,
		media:     media,
		dedupe:    dedupe,
		nutrition: nutrition,
		images:    images,
		now:       time.Now,
	}
}

// WithClock overrides the time source; used by tests for stable dates.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// Dispatch executes one tool invocation for userID. dedupeKey is empty when
// the client supplied no requestId; a repeated key suppresses writes while
// the action payload is still produced, so client retries are safe.
func (d *Dispatcher) Dispatch(ctx context.Context, userID, dedupeKey string, inv Invocation) model.Action {
	writesAllowed := true
	if IsLoggingTool(inv.ToolName()) && dedupeKey != "" {
		writesAllowed = d.dedupe.FirstSeen(ctx, userID+":"+dedupeKey)
		if !writesAllowed {
			logx.Info().Str("tool", inv.ToolName()).Str("user_id", userID).
				Msg("Duplicate request; skipping side-effect writes")
		}
	}

	switch a := inv.(type) {
	case NavigateArgs:
		return model.NavigateAction{Type: "navigate", Route: a.Route, PageName: a.PageName}
	case OpenModalArgs:
		return model.OpenModalAction{Type: "open_modal", ModalType: a.ModalType, ModalName: a.ModalName}
	case BeverageArgs:
		return d.logBeverage(ctx, userID, a, writesAllowed)
	case FoodArgs:
		return d.logFood(ctx, userID, a, writesAllowed)
	case SleepArgs:
		return d.logSleep(ctx, userID, a, writesAllowed)
	case CycleArgs:
		return d.logCycleEvent(ctx, userID, a, writesAllowed)
	}
	// Unreachable while ParseInvocation and this switch stay in sync.
	logx.Error().Str("tool", inv.ToolName()).Msg("No dispatch branch for tool")
	return nil
}

func (d *Dispatcher) logBeverage(ctx context.Context, userID string, a BeverageArgs, writesAllowed bool) model.Action {
	profile, _ := model.LookupBeverage(a.BeverageType) // validated at parse time

	amountML := int(math.Round(a.AmountOz * model.MLPerOz))
	effective := profile.EffectiveHydrationML(a.AmountOz)
	calories := profile.CaloriesFor(a.AmountOz)

	action := model.BeverageAction{
		Type:                 "log_beverage",
		BeverageType:         a.BeverageType,
		AmountOz:             a.AmountOz,
		AmountML:             amountML,
		EffectiveHydrationML: effective,
		Calories:             calories,
	}

	if !writesAllowed {
		return action
	}

	d.bestEffort(ctx, "hydration write", func(ctx context.Context) error {
		return d.store.AddHydration(ctx, model.HydrationEntry{
			ID:       uuid.NewString(),
			UserID:   userID,
			LoggedAt: d.now().UTC(),
			Source:   a.BeverageType,
			AmountML: effective,
		})
	})

	// Caloric beverages also show up in the food log so daily calorie
	// totals stay honest.
	if profile.CaloriesPerServing > model.CalorieSideEntryThreshold {
		action.FoodEntryLogged = true
		d.bestEffort(ctx, "beverage food-entry write", func(ctx context.Context) error {
			return d.store.AddMeal(ctx, model.MealEntry{
				ID:          uuid.NewString(),
				UserID:      userID,
				LoggedAt:    d.now().UTC(),
				MealType:    "snack",
				Description: fmt.Sprintf("%s (%.0f oz)", a.BeverageType, a.AmountOz),
				Calories:    float64(calories),
			})
		})
	}

	return action
}

// logFood chains three external calls, each with an isolated fallback:
// nutrition lookup (falls back to the default estimate), image generation
// (falls back to no photo) and the food-entry insert (best-effort like every
// other write). No downstream failure blocks the earlier results.
func (d *Dispatcher) logFood(ctx context.Context, userID string, a FoodArgs, writesAllowed bool) model.Action {
	estimate := d.nutrition.Estimate(ctx, a.FoodDescription)

	var photoURL string
	if writesAllowed && d.images != nil && d.media != nil {
		data, mimeType, err := d.images.GenerateFoodImage(ctx, a.FoodDescription)
		if err != nil {
			logx.Warn().Err(err).Msg("Food image generation failed; logging without photo")
		} else if url, err := d.media.SaveFoodImage(ctx, userID, data, mimeType); err != nil {
			logx.Warn().Err(err).Msg("Food image persist failed; logging without photo")
		} else {
			photoURL = url
		}
	}

	if writesAllowed {
		d.bestEffort(ctx, "food-entry write", func(ctx context.Context) error {
			return d.store.AddMeal(ctx, model.MealEntry{
				ID:          uuid.NewString(),
				UserID:      userID,
				LoggedAt:    d.now().UTC(),
				MealType:    a.MealType,
				Description: a.FoodDescription,
				Calories:    estimate.TotalCalories,
				Protein:     estimate.TotalProtein,
				Carbs:       estimate.TotalCarbs,
				Fat:         estimate.TotalFat,
				PhotoURL:    photoURL,
			})
		})
	}

	return model.FoodAction{
		Type:        "log_food",
		Description: a.FoodDescription,
		MealType:    a.MealType,
		Nutrition:   estimate,
		PhotoURL:    photoURL,
	}
}

func (d *Dispatcher) logSleep(ctx context.Context, userID string, a SleepArgs, writesAllowed bool) model.Action {
	now := d.now().UTC()
	// The entry is keyed by the night slept: yesterday relative to the
	// 07:00 wake anchor.
	date := now.AddDate(0, 0, -1).Format("2006-01-02")
	bedTime, wakeTime := sleepWindow(a.DurationHours)

	if writesAllowed {
		d.bestEffort(ctx, "sleep upsert", func(ctx context.Context) error {
			return d.store.UpsertSleep(ctx, model.SleepEntry{
				UserID:        userID,
				Date:          date,
				DurationHours: a.DurationHours,
				QualityScore:  a.QualityScore,
				BedTime:       bedTime,
				WakeTime:      wakeTime,
				Notes:         a.Notes,
			})
		})
	}

	return model.SleepAction{
		Type:          "log_sleep",
		DurationHours: a.DurationHours,
		QualityScore:  a.QualityScore,
		Date:          date,
	}
}

// sleepWindow derives clock times from the fixed wake anchor.
func sleepWindow(durationHours float64) (bedTime, wakeTime string) {
	wakeMin := wakeAnchorHour * 60
	bedMin := wakeMin - int(math.Round(durationHours*60))
	for bedMin < 0 {
		bedMin += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", bedMin/60, bedMin%60), fmt.Sprintf("%02d:00", wakeAnchorHour)
}

func (d *Dispatcher) logCycleEvent(ctx context.Context, userID string, a CycleArgs, writesAllowed bool) model.Action {
	date := a.EventDate
	if date == "" {
		date = d.now().UTC().Format("2006-01-02")
	}

	action := model.CycleAction{
		Type:      "log_cycle_event",
		EventType: a.EventType,
		Date:      date,
	}

	existing, err := d.store.CycleRecord(ctx, userID)
	if err != nil {
		logx.Warn().Err(err).Str("user_id", userID).Msg("Cycle record read failed")
		existing = nil
	}

	switch a.EventType {
	case "period_start":
		rec := model.CycleRecord{
			UserID:          userID,
			AvgCycleLength:  28,
			AvgPeriodLength: 5,
		}
		// A period_start never resets previously learned averages.
		if existing != nil {
			rec.AvgCycleLength = existing.AvgCycleLength
			rec.AvgPeriodLength = existing.AvgPeriodLength
		}
		rec.LastPeriodStart = date
		rec.UpdatedAt = d.now().UTC()
		if writesAllowed {
			d.bestEffort(ctx, "cycle upsert", func(ctx context.Context) error {
				return d.store.UpsertCycle(ctx, rec)
			})
		}

	case "period_end":
		if existing == nil || existing.LastPeriodStart == "" {
			logx.Warn().Str("user_id", userID).
				Msg("period_end without a recorded period_start; nothing to derive")
			return action
		}
		start, perr := time.Parse("2006-01-02", existing.LastPeriodStart)
		end, eerr := time.Parse("2006-01-02", date)
		if perr != nil || eerr != nil || end.Before(start) {
			logx.Warn().Str("start", existing.LastPeriodStart).Str("end", date).
				Msg("Unusable period window; skipping length derivation")
			return action
		}
		length := int(end.Sub(start).Hours()/24) + 1
		action.PeriodLengthDays = length

		rec := *existing
		rec.AvgPeriodLength = length
		rec.UpdatedAt = d.now().UTC()
		if writesAllowed {
			d.bestEffort(ctx, "cycle upsert", func(ctx context.Context) error {
				return d.store.UpsertCycle(ctx, rec)
			})
		}
	}

	return action
}

// bestEffort runs a write with its own timeout; failure is logged, never
// propagated.
func (d *Dispatcher) bestEffort(ctx context.Context, op string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		logx.Error().Err(err).Str("op", op).Msg("Side-effect write failed; response already promised")
	}
}

type alwaysFirst struct{}

func (alwaysFirst) FirstSeen(context.Context, string) bool { return true }
