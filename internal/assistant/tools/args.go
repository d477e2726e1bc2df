package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
)

// Invocation is a validated, typed tool call ready for dispatch. Parsing
// failure is a recoverable condition: the caller falls back to treating the
// model's reply as plain text.
type Invocation interface {
	ToolName() string
	Confirmation() string
}

type NavigateArgs struct {
	Route               string `json:"route"`
	PageName            string `json:"pageName"`
	ConfirmationMessage string `json:"confirmationMessage"`
}

func (a NavigateArgs) ToolName() string     { return ToolNavigate }
func (a NavigateArgs) Confirmation() string { return a.ConfirmationMessage }

type OpenModalArgs struct {
	ModalType           string `json:"modalType"`
	ModalName           string `json:"modalName"`
	ConfirmationMessage string `json:"confirmationMessage"`
}

func (a OpenModalArgs) ToolName() string     { return ToolOpenModal }
func (a OpenModalArgs) Confirmation() string { return a.ConfirmationMessage }

type BeverageArgs struct {
	BeverageType        string  `json:"beverageType"`
	AmountOz            float64 `json:"amountOz"`
	ConfirmationMessage string  `json:"confirmationMessage"`
}

func (a BeverageArgs) ToolName() string     { return ToolLogBeverage }
func (a BeverageArgs) Confirmation() string { return a.ConfirmationMessage }

type FoodArgs struct {
	FoodDescription     string `json:"foodDescription"`
	MealType            string `json:"mealType"`
	ConfirmationMessage string `json:"confirmationMessage"`
}

func (a FoodArgs) ToolName() string     { return ToolLogFood }
func (a FoodArgs) Confirmation() string { return a.ConfirmationMessage }

type SleepArgs struct {
	DurationHours       float64 `json:"durationHours"`
	QualityScore        int     `json:"qualityScore"`
	Notes               string  `json:"notes"`
	ConfirmationMessage string  `json:"confirmationMessage"`
}

func (a SleepArgs) ToolName() string     { return ToolLogSleep }
func (a SleepArgs) Confirmation() string { return a.ConfirmationMessage }

type CycleArgs struct {
	EventType           string `json:"eventType"`
	EventDate           string `json:"eventDate"`
	ConfirmationMessage string `json:"confirmationMessage"`
}

func (a CycleArgs) ToolName() string     { return ToolLogCycleEvent }
func (a CycleArgs) Confirmation() string { return a.ConfirmationMessage }

// ParseInvocation validates the untrusted argument JSON the model returned
// for the named tool. Numbers arriving as strings are tolerated; structural
// garbage is not.
func ParseInvocation(name, arguments string) (Invocation, error) {
	switch strings.TrimSpace(name) {
	case ToolNavigate:
		var a NavigateArgs
		if err := json.Unmarshal([]byte(arguments), &a); err != nil {
			return nil, fmt.Errorf("%s: bad arguments: %w", name, err)
		}
		if strings.TrimSpace(a.Route) == "" {
			return nil, fmt.Errorf("%s: route is required", name)
		}
		return a, nil

	case ToolOpenModal:
		var a OpenModalArgs
		if err := json.Unmarshal([]byte(arguments), &a); err != nil {
			return nil, fmt.Errorf("%s: bad arguments: %w", name, err)
		}
		if strings.TrimSpace(a.ModalType) == "" {
			return nil, fmt.Errorf("%s: modalType is required", name)
		}
		return a, nil

	case ToolLogBeverage:
		m, err := decodeObject(arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: bad arguments: %w", name, err)
		}
		a := BeverageArgs{
			BeverageType:        strings.TrimSpace(stringField(m, "beverageType")),
			ConfirmationMessage: stringField(m, "confirmationMessage"),
		}
		if a.BeverageType == "" {
			return nil, fmt.Errorf("%s: beverageType is required", name)
		}
		if _, ok := model.LookupBeverage(a.BeverageType); !ok {
			return nil, fmt.Errorf("%s: unknown beverage type %q", name, a.BeverageType)
		}
		oz, ok := numberField(m, "amountOz")
		if !ok || oz <= 0 || oz > 256 {
			return nil, fmt.Errorf("%s: amountOz missing or out of range", name)
		}
		a.AmountOz = oz
		return a, nil

	case ToolLogFood:
		var a FoodArgs
		if err := json.Unmarshal([]byte(arguments), &a); err != nil {
			return nil, fmt.Errorf("%s: bad arguments: %w", name, err)
		}
		a.FoodDescription = strings.TrimSpace(a.FoodDescription)
		if a.FoodDescription == "" {
			return nil, fmt.Errorf("%s: foodDescription is required", name)
		}
		if a.MealType == "" {
			a.MealType = "snack"
		}
		return a, nil

	case ToolLogSleep:
		m, err := decodeObject(arguments)
		if err != nil {
			return nil, fmt.Errorf("%s: bad arguments: %w", name, err)
		}
		hours, ok := numberField(m, "durationHours")
		if !ok || hours <= 0 || hours > 24 {
			return nil, fmt.Errorf("%s: durationHours missing or out of range", name)
		}
		a := SleepArgs{
			DurationHours:       hours,
			QualityScore:        3, // default when the user said nothing about quality
			Notes:               stringField(m, "notes"),
			ConfirmationMessage: stringField(m, "confirmationMessage"),
		}
		if _, present := m["qualityScore"]; present {
			q, ok := numberField(m, "qualityScore")
			if !ok || q < 1 || q > 5 {
				return nil, fmt.Errorf("%s: qualityScore out of range", name)
			}
			a.QualityScore = int(q)
		}
		return a, nil

	case ToolLogCycleEvent:
		var a CycleArgs
		if err := json.Unmarshal([]byte(arguments), &a); err != nil {
			return nil, fmt.Errorf("%s: bad arguments: %w", name, err)
		}
		if a.EventType != "period_start" && a.EventType != "period_end" {
			return nil, fmt.Errorf("%s: unknown eventType %q", name, a.EventType)
		}
		if a.EventDate != "" {
			if _, err := time.Parse("2006-01-02", a.EventDate); err != nil {
				return nil, fmt.Errorf("%s: bad eventDate %q", name, a.EventDate)
			}
		}
		return a, nil
	}

	return nil, fmt.Errorf("unknown tool %q", name)
}

// decodeObject parses argument JSON into a generic map so numeric fields can
// be coerced leniently: models occasionally send 8 as "8".
func decodeObject(arguments string) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(arguments), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func numberField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
