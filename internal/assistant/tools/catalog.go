// Package tools defines the assistant's callable tool catalog, validates the
// model's tool-call arguments and performs the corresponding side effects.
package tools

import (
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
)

const (
	ToolNavigate      = "navigate_to_page"
	ToolOpenModal     = "open_modal"
	ToolLogBeverage   = "log_beverage"
	ToolLogFood       = "log_food"
	ToolLogSleep      = "log_sleep"
	ToolLogCycleEvent = "log_cycle_event"
)

// Catalog returns the tool schemas bound to the chat model for one request.
// Without a signed-in user only the navigation tools are offered, so the
// model cannot attempt writes that would have nowhere to go.
func Catalog(loggingEnabled bool) []*schema.ToolInfo {
	infos := []*schema.ToolInfo{
		{
			Name: ToolNavigate,
			Desc: "Navigate the user to another screen in the app. Use when the user asks to go somewhere, open a feature, or says things like 'scan a menu' (route /food-scanner?tab=menu).",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"route": {
					Type:     "string",
					Desc:     "App route to navigate to, e.g. /workouts, /food-scanner, /food-scanner?tab=menu, /progress, /sleep, /hydration, /profile",
					Required: true,
				},
				"pageName": {
					Type:     "string",
					Desc:     "Human-readable name of the destination page, e.g. 'Menu Scanner'",
					Required: true,
				},
				"confirmationMessage": {
					Type:     "string",
					Desc:     "Short friendly message confirming the navigation, spoken to the user",
					Required: true,
				},
			}),
		},
		{
			Name: ToolOpenModal,
			Desc: "Open an in-page modal without leaving the current screen.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"modalType": {
					Type:     "string",
					Desc:     "Modal to open",
					Enum:     []string{"photo_capture", "quick_water", "mood_checkin"},
					Required: true,
				},
				"modalName": {
					Type:     "string",
					Desc:     "Human-readable name of the modal, e.g. 'Photo Capture'",
					Required: true,
				},
				"confirmationMessage": {
					Type:     "string",
					Desc:     "Short friendly message confirming the modal is opening",
					Required: true,
				},
			}),
		},
	}

	if !loggingEnabled {
		return infos
	}

	return append(infos,
		&schema.ToolInfo{
			Name: ToolLogBeverage,
			Desc: "Log a beverage the user drank. Covers water, coffee, tea, soft drinks and alcohol; alcoholic drinks reduce net hydration but should still be logged.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"beverageType": {
					Type:     "string",
					Desc:     "Type of beverage",
					Enum:     model.BeverageTypes(),
					Required: true,
				},
				"amountOz": {
					Type:     "number",
					Desc:     "Amount in US fluid ounces. A glass is 8, a can is 12, a bottle is 16.",
					Required: true,
				},
				"confirmationMessage": {
					Type:     "string",
					Desc:     "Short friendly message confirming the log",
					Required: true,
				},
			}),
		},
		&schema.ToolInfo{
			Name: ToolLogFood,
			Desc: "Log food the user ate. Nutrition totals are estimated automatically from the description.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"foodDescription": {
					Type:     "string",
					Desc:     "Everything the user ate, in their own words",
					Required: true,
				},
				"mealType": {
					Type:     "string",
					Desc:     "Which meal this was",
					Enum:     []string{"breakfast", "lunch", "dinner", "snack"},
					Required: true,
				},
				"confirmationMessage": {
					Type:     "string",
					Desc:     "Short friendly message confirming the log",
					Required: true,
				},
			}),
		},
		&schema.ToolInfo{
			Name: ToolLogSleep,
			Desc: "Log last night's sleep. Re-logging the same night overwrites the previous entry.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"durationHours": {
					Type:     "number",
					Desc:     "Hours slept, e.g. 7.5",
					Required: true,
				},
				"qualityScore": {
					Type: "number",
					Desc: "Sleep quality 1 (terrible) to 5 (great). Omit when the user said nothing about quality.",
				},
				"notes": {
					Type: "string",
					Desc: "Anything notable the user mentioned about the night",
				},
				"confirmationMessage": {
					Type:     "string",
					Desc:     "Short friendly message confirming the log",
					Required: true,
				},
			}),
		},
		&schema.ToolInfo{
			Name: ToolLogCycleEvent,
			Desc: "Record a menstrual cycle event: the period starting or ending.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"eventType": {
					Type:     "string",
					Desc:     "Which event happened",
					Enum:     []string{"period_start", "period_end"},
					Required: true,
				},
				"eventDate": {
					Type: "string",
					Desc: "Date of the event as YYYY-MM-DD; omit for today",
				},
				"confirmationMessage": {
					Type:     "string",
					Desc:     "Short supportive message confirming the log",
					Required: true,
				},
			}),
		},
	)
}

// IsLoggingTool reports whether name performs a backend write.
func IsLoggingTool(name string) bool {
	switch strings.TrimSpace(name) {
	case ToolLogBeverage, ToolLogFood, ToolLogSleep, ToolLogCycleEvent:
		return true
	}
	return false
}
