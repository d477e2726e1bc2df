package tools

import (
	"context"
	"errors"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
)

// writeRecorder implements model.Store, recording writes and optionally
// failing them.
type writeRecorder struct {
	hydration []model.HydrationEntry
	meals     []model.MealEntry
	sleep     []model.SleepEntry
	cycles    []model.CycleRecord
	cycle     *model.CycleRecord

	failWrites bool
}

func (w *writeRecorder) writeErr() error {
	if w.failWrites {
		return errors.New("store unavailable")
	}
	return nil
}

func (w *writeRecorder) AddHydration(ctx context.Context, entry model.HydrationEntry) error {
	if err := w.writeErr(); err != nil {
		return err
	}
	w.hydration = append(w.hydration, entry)
	return nil
}

func (w *writeRecorder) AddMeal(ctx context.Context, entry model.MealEntry) error {
	if err := w.writeErr(); err != nil {
		return err
	}
	w.meals = append(w.meals, entry)
	return nil
}

func (w *writeRecorder) UpsertSleep(ctx context.Context, entry model.SleepEntry) error {
	if err := w.writeErr(); err != nil {
		return err
	}
	w.sleep = append(w.sleep, entry)
	return nil
}

func (w *writeRecorder) UpsertCycle(ctx context.Context, rec model.CycleRecord) error {
	if err := w.writeErr(); err != nil {
		return err
	}
	w.cycles = append(w.cycles, rec)
	return nil
}

func (w *writeRecorder) CycleRecord(ctx context.Context, userID string) (*model.CycleRecord, error) {
	return w.cycle, nil
}

func (w *writeRecorder) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	return nil, nil
}

func (w *writeRecorder) WorkoutSessions(ctx context.Context, userID string, since time.Time) ([]model.WorkoutSession, error) {
	return nil, nil
}

func (w *writeRecorder) MealEntries(ctx context.Context, userID string, since time.Time) ([]model.MealEntry, error) {
	return nil, nil
}

func (w *writeRecorder) HydrationEntries(ctx context.Context, userID string, since time.Time) ([]model.HydrationEntry, error) {
	return nil, nil
}

func (w *writeRecorder) SleepEntries(ctx context.Context, userID string, since time.Time) ([]model.SleepEntry, error) {
	return nil, nil
}

func (w *writeRecorder) AlcoholEntries(ctx context.Context, userID string, since time.Time) ([]model.AlcoholEntry, error) {
	return nil, nil
}

func (w *writeRecorder) CardioSessions(ctx context.Context, userID string, kind model.CardioKind, since time.Time) ([]model.CardioSession, error) {
	return nil, nil
}

func (w *writeRecorder) PersonalRecords(ctx context.Context, userID string, limit int) ([]model.PersonalRecord, error) {
	return nil, nil
}

func (w *writeRecorder) MoodEntries(ctx context.Context, userID string, since time.Time) ([]model.MoodEntry, error) {
	return nil, nil
}

func (w *writeRecorder) InjuryRiskScore(ctx context.Context, userID string) (float64, error) {
	return 0, nil
}

func (w *writeRecorder) ReadinessScore(ctx context.Context, userID string) (float64, error) {
	return 0, nil
}

var _ model.Store = (*writeRecorder)(nil)

// stubChatModel returns a fixed reply or error; implements the nutrition
// lookup's chat model.
type stubChatModel struct {
	reply string
	err   error
}

func (s *stubChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s *stubChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type rejectAllDeduper struct{}

func (rejectAllDeduper) FirstSeen(context.Context, string) bool { return false }

func stableClock() func() time.Time {
	at := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func newTestDispatcher(store model.Store, nutritionModel einomodel.BaseChatModel) *Dispatcher {
	var nutrition *NutritionClient
	if nutritionModel != nil {
		nutrition = NewNutritionClient(nutritionModel)
	}
	return NewDispatcher(store, nil, nil, nutrition, nil).WithClock(stableClock())
}

func TestDispatchNavigate(t *testing.T) {
	d := newTestDispatcher(&writeRecorder{}, nil)

	action := d.Dispatch(context.Background(), "user-1", "", NavigateArgs{
		Route: "/workouts", PageName: "Workouts", ConfirmationMessage: "On it!",
	})

	nav, ok := action.(model.NavigateAction)
	require.True(t, ok)
	assert.Equal(t, "navigate", nav.Type)
	assert.Equal(t, "/workouts", nav.Route)
	assert.Equal(t, "Workouts", nav.PageName)
}

func TestDispatchOpenModal(t *testing.T) {
	d := newTestDispatcher(&writeRecorder{}, nil)

	action := d.Dispatch(context.Background(), "user-1", "", OpenModalArgs{
		ModalType: "quick_water", ModalName: "Quick Water",
	})

	modal, ok := action.(model.OpenModalAction)
	require.True(t, ok)
	assert.Equal(t, "open_modal", modal.Type)
	assert.Equal(t, "quick_water", modal.ModalType)
}

func TestDispatchBeverageWater(t *testing.T) {
	store := &writeRecorder{}
	d := newTestDispatcher(store, nil)

	action := d.Dispatch(context.Background(), "user-1", "", BeverageArgs{
		BeverageType: "water", AmountOz: 8,
	})

	bev, ok := action.(model.BeverageAction)
	require.True(t, ok)
	assert.Equal(t, 237, bev.AmountML)
	assert.Equal(t, 237, bev.EffectiveHydrationML)
	assert.Equal(t, 0, bev.Calories)
	assert.False(t, bev.FoodEntryLogged)

	require.Len(t, store.hydration, 1)
	assert.Equal(t, "water", store.hydration[0].Source)
	assert.Equal(t, 237, store.hydration[0].AmountML)
	assert.Empty(t, store.meals, "water must not create a food entry")
}

func TestDispatchBeverageWineDehydrates(t *testing.T) {
	store := &writeRecorder{}
	d := newTestDispatcher(store, nil)

	action := d.Dispatch(context.Background(), "user-1", "", BeverageArgs{
		BeverageType: "wine", AmountOz: 5,
	})

	bev := action.(model.BeverageAction)
	// 5oz at factor -1.0: the stored hydration entry is negative.
	assert.Equal(t, -148, bev.EffectiveHydrationML)
	assert.Equal(t, 148, bev.AmountML)
	assert.True(t, bev.FoodEntryLogged, "wine calories warrant a food side entry")

	require.Len(t, store.hydration, 1)
	assert.Equal(t, -148, store.hydration[0].AmountML)
	require.Len(t, store.meals, 1)
	assert.Equal(t, "snack", store.meals[0].MealType)
	assert.Equal(t, float64(bev.Calories), store.meals[0].Calories)
}

func TestDispatchBeverageWriteFailureStillReturnsAction(t *testing.T) {
	store := &writeRecorder{failWrites: true}
	d := newTestDispatcher(store, nil)

	action := d.Dispatch(context.Background(), "user-1", "", BeverageArgs{
		BeverageType: "soda", AmountOz: 12,
	})

	bev, ok := action.(model.BeverageAction)
	require.True(t, ok, "the action payload survives a failed write")
	assert.Equal(t, "soda", bev.BeverageType)
	assert.Empty(t, store.hydration)
	assert.Empty(t, store.meals)
}

func TestDispatchFoodWithNutritionEstimate(t *testing.T) {
	store := &writeRecorder{}
	d := newTestDispatcher(store, &stubChatModel{
		reply: `{"foodItems":["grilled chicken","rice"],"totalCalories":620,"totalProtein":48,"totalCarbs":70,"totalFat":12}`,
	})

	action := d.Dispatch(context.Background(), "user-1", "", FoodArgs{
		FoodDescription: "grilled chicken and rice", MealType: "dinner",
	})

	food, ok := action.(model.FoodAction)
	require.True(t, ok)
	assert.Equal(t, 620.0, food.Nutrition.TotalCalories)
	assert.Equal(t, []string{"grilled chicken", "rice"}, food.Nutrition.FoodItems)

	require.Len(t, store.meals, 1)
	assert.Equal(t, "dinner", store.meals[0].MealType)
	assert.Equal(t, 620.0, store.meals[0].Calories)
	assert.Equal(t, 48.0, store.meals[0].Protein)
}

func TestDispatchFoodNutritionFailureFallsBackToDefault(t *testing.T) {
	store := &writeRecorder{}
	d := newTestDispatcher(store, &stubChatModel{err: errors.New("model offline")})

	action := d.Dispatch(context.Background(), "user-1", "", FoodArgs{
		FoodDescription: "mystery sandwich", MealType: "lunch",
	})

	food := action.(model.FoodAction)
	assert.Equal(t, 200.0, food.Nutrition.TotalCalories)
	assert.Equal(t, []string{"mystery sandwich"}, food.Nutrition.FoodItems)

	// The entry is still logged with the default estimate.
	require.Len(t, store.meals, 1)
	assert.Equal(t, 200.0, store.meals[0].Calories)
}

func TestDispatchSleepKeysYesterday(t *testing.T) {
	store := &writeRecorder{}
	d := newTestDispatcher(store, nil)

	action := d.Dispatch(context.Background(), "user-1", "", SleepArgs{
		DurationHours: 7.5, QualityScore: 4,
	})

	sleep, ok := action.(model.SleepAction)
	require.True(t, ok)
	assert.Equal(t, "2025-06-14", sleep.Date, "sleep is keyed to the night slept")

	require.Len(t, store.sleep, 1)
	entry := store.sleep[0]
	assert.Equal(t, "2025-06-14", entry.Date)
	assert.Equal(t, 7.5, entry.DurationHours)
	assert.Equal(t, 4, entry.QualityScore)
	// 7.5h ending at the 07:00 anchor starts at 23:30.
	assert.Equal(t, "23:30", entry.BedTime)
	assert.Equal(t, "07:00", entry.WakeTime)
}

func TestSleepWindow(t *testing.T) {
	tests := []struct {
		hours   float64
		bedTime string
	}{
		{8, "23:00"},
		{7.5, "23:30"},
		{6, "01:00"},
		{9.25, "21:45"},
	}
	for _, tt := range tests {
		bed, wake := sleepWindow(tt.hours)
		assert.Equal(t, tt.bedTime, bed, "hours=%v", tt.hours)
		assert.Equal(t, "07:00", wake)
	}
}

func TestDispatchCyclePeriodStart(t *testing.T) {
	store := &writeRecorder{}
	d := newTestDispatcher(store, nil)

	action := d.Dispatch(context.Background(), "user-1", "", CycleArgs{
		EventType: "period_start", EventDate: "2025-06-10",
	})

	cycle, ok := action.(model.CycleAction)
	require.True(t, ok)
	assert.Equal(t, "period_start", cycle.EventType)
	assert.Equal(t, "2025-06-10", cycle.Date)
	assert.Zero(t, cycle.PeriodLengthDays)

	require.Len(t, store.cycles, 1)
	rec := store.cycles[0]
	assert.Equal(t, "2025-06-10", rec.LastPeriodStart)
	// No prior record: seeded with population defaults.
	assert.Equal(t, 28, rec.AvgCycleLength)
	assert.Equal(t, 5, rec.AvgPeriodLength)
}

func TestDispatchCyclePeriodStartKeepsLearnedAverages(t *testing.T) {
	store := &writeRecorder{cycle: &model.CycleRecord{
		UserID: "user-1", LastPeriodStart: "2025-05-12", AvgCycleLength: 31, AvgPeriodLength: 4,
	}}
	d := newTestDispatcher(store, nil)

	d.Dispatch(context.Background(), "user-1", "", CycleArgs{
		EventType: "period_start", EventDate: "2025-06-12",
	})

	require.Len(t, store.cycles, 1)
	rec := store.cycles[0]
	assert.Equal(t, "2025-06-12", rec.LastPeriodStart)
	assert.Equal(t, 31, rec.AvgCycleLength)
	assert.Equal(t, 4, rec.AvgPeriodLength)
}

func TestDispatchCyclePeriodEndDerivesLength(t *testing.T) {
	store := &writeRecorder{cycle: &model.CycleRecord{
		UserID: "user-1", LastPeriodStart: "2025-06-10", AvgCycleLength: 28, AvgPeriodLength: 5,
	}}
	d := newTestDispatcher(store, nil)

	action := d.Dispatch(context.Background(), "user-1", "", CycleArgs{
		EventType: "period_end", EventDate: "2025-06-14",
	})

	cycle := action.(model.CycleAction)
	// Inclusive of both endpoints: 10th through 14th is 5 days.
	assert.Equal(t, 5, cycle.PeriodLengthDays)

	require.Len(t, store.cycles, 1)
	assert.Equal(t, 5, store.cycles[0].AvgPeriodLength)
	assert.Equal(t, "2025-06-10", store.cycles[0].LastPeriodStart)
}

func TestDispatchCyclePeriodEndWithoutStart(t *testing.T) {
	store := &writeRecorder{}
	d := newTestDispatcher(store, nil)

	action := d.Dispatch(context.Background(), "user-1", "", CycleArgs{
		EventType: "period_end", EventDate: "2025-06-14",
	})

	cycle := action.(model.CycleAction)
	assert.Zero(t, cycle.PeriodLengthDays)
	assert.Empty(t, store.cycles, "nothing to derive without a recorded start")
}

func TestDispatchDuplicateRequestSkipsWrites(t *testing.T) {
	store := &writeRecorder{}
	d := NewDispatcher(store, nil, rejectAllDeduper{}, nil, nil).WithClock(stableClock())

	action := d.Dispatch(context.Background(), "user-1", "req-123", BeverageArgs{
		BeverageType: "water", AmountOz: 8,
	})

	bev, ok := action.(model.BeverageAction)
	require.True(t, ok, "duplicates still return the action payload")
	assert.Equal(t, 237, bev.EffectiveHydrationML)
	assert.Empty(t, store.hydration, "duplicate requests must not write")
}

func TestDispatchNavigateIgnoresDeduper(t *testing.T) {
	d := NewDispatcher(&writeRecorder{}, nil, rejectAllDeduper{}, nil, nil).WithClock(stableClock())

	action := d.Dispatch(context.Background(), "user-1", "req-123", NavigateArgs{Route: "/sleep"})

	_, ok := action.(model.NavigateAction)
	assert.True(t, ok, "read-only tools bypass dedupe entirely")
}
