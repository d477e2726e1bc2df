package model

import "time"

// Domain rows read from (and written to) the fitness store. The assistant
// only projects these into the context digest and appends/upserts via the
// logging tools; ownership of the schema sits with the store package.

type Profile struct {
	UserID   string
	Name     string
	Age      int
	Sex      string
	WeightKG float64
	HeightCM float64
	Goal     string
}

type WorkoutSession struct {
	ID          string
	UserID      string
	Date        time.Time
	Name        string
	MuscleGroup string
	DurationMin int
	Calories    int
	Exercises   []ExerciseLog
}

type ExerciseLog struct {
	Name     string
	Sets     int
	Reps     int
	WeightKG float64
}

type MealEntry struct {
	ID          string
	UserID      string
	LoggedAt    time.Time
	MealType    string
	Description string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fat         float64
	PhotoURL    string
}

type HydrationEntry struct {
	ID       string
	UserID   string
	LoggedAt time.Time
	Source   string // beverage type
	// AmountML is the effective hydration contribution; negative for
	// dehydrating beverages.
	AmountML int
}

type SleepEntry struct {
	UserID        string
	Date          string // YYYY-MM-DD, the night slept
	DurationHours float64
	QualityScore  int // 1..5
	BedTime       string
	WakeTime      string
	Notes         string
}

type AlcoholEntry struct {
	ID        string
	UserID    string
	LoggedAt  time.Time
	DrinkType string
	Units     float64
	Calories  int
}

type CardioKind string

const (
	CardioRun  CardioKind = "run"
	CardioRide CardioKind = "ride"
	CardioSwim CardioKind = "swim"
)

type CardioSession struct {
	ID           string
	UserID       string
	Kind         CardioKind
	StartedAt    time.Time
	DurationMin  int
	DistanceM    float64
	AvgHeartRate int
	Calories     int
}

type PersonalRecord struct {
	UserID     string
	Exercise   string
	Metric     string // e.g. "1RM", "distance", "time"
	Value      float64
	Unit       string
	AchievedAt time.Time
}

type CycleRecord struct {
	UserID          string
	LastPeriodStart string // YYYY-MM-DD
	AvgCycleLength  int    // days
	AvgPeriodLength int    // days
	UpdatedAt       time.Time
}

type MoodEntry struct {
	UserID   string
	LoggedAt time.Time
	Score    int // 1..5
	Note     string
}
