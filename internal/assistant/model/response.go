package model

// Action is the structured side-effect record attached to a chat response
// when the model fired a tool. Exactly one concrete action type is ever
// returned per request.
type Action interface {
	ActionType() string
}

type NavigateAction struct {
	Type     string `json:"type"` // "navigate"
	Route    string `json:"route"`
	PageName string `json:"pageName"`
}

func (a NavigateAction) ActionType() string { return a.Type }

type OpenModalAction struct {
	Type      string `json:"type"` // "open_modal"
	ModalType string `json:"modalType"`
	ModalName string `json:"modalName"`
}

func (a OpenModalAction) ActionType() string { return a.Type }

type BeverageAction struct {
	Type         string  `json:"type"` // "log_beverage"
	BeverageType string  `json:"beverageType"`
	AmountOz     float64 `json:"amountOz"`
	AmountML     int     `json:"amountMl"`
	// EffectiveHydrationML is negative for diuretics; the sign is part of
	// the contract and must never be clamped.
	EffectiveHydrationML int  `json:"effectiveHydrationMl"`
	Calories             int  `json:"calories"`
	FoodEntryLogged      bool `json:"foodEntryLogged,omitempty"`
}

func (a BeverageAction) ActionType() string { return a.Type }

type FoodAction struct {
	Type        string            `json:"type"` // "log_food"
	Description string            `json:"description"`
	MealType    string            `json:"mealType"`
	Nutrition   NutritionEstimate `json:"nutrition"`
	PhotoURL    string            `json:"photoUrl,omitempty"`
}

func (a FoodAction) ActionType() string { return a.Type }

type SleepAction struct {
	Type          string  `json:"type"` // "log_sleep"
	DurationHours float64 `json:"durationHours"`
	QualityScore  int     `json:"qualityScore"`
	Date          string  `json:"date"` // YYYY-MM-DD, the night slept
}

func (a SleepAction) ActionType() string { return a.Type }

type CycleAction struct {
	Type             string `json:"type"` // "log_cycle_event"
	EventType        string `json:"eventType"`
	Date             string `json:"date"`
	PeriodLengthDays int    `json:"periodLengthDays,omitempty"`
}

func (a CycleAction) ActionType() string { return a.Type }

// ChatResponse is the uniform success envelope for POST /api/chat.
type ChatResponse struct {
	Response  string `json:"response"`
	Action    Action `json:"action,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ErrorResponse is the envelope for 429/402/500 failures. Response carries
// the user-facing fallback text on 500s and is empty on quota errors.
type ErrorResponse struct {
	Error    string `json:"error"`
	Response string `json:"response,omitempty"`
}
