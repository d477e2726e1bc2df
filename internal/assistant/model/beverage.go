package model

import (
	"math"
	"sort"
)

// MLPerOz converts US fluid ounces to milliliters.
const MLPerOz = 29.5735

// CalorieSideEntryThreshold: beverages above this many kcal per 8oz serving
// also get a minimal food-log entry when logged.
const CalorieSideEntryThreshold = 5.0

// BeverageProfile describes how a beverage contributes to fluid balance and
// calories. HydrationFactor below zero means net dehydration (diuretics).
type BeverageProfile struct {
	HydrationFactor    float64
	CaloriesPerServing float64 // kcal per 8oz serving
	IsDehydrating      bool
}

// Every type listed in the log_beverage tool schema has an entry here; the
// dispatcher and the schema are tested against this table staying in sync.
var beverageProfiles = map[string]BeverageProfile{
	"water":           {HydrationFactor: 1.0, CaloriesPerServing: 0},
	"sparkling_water": {HydrationFactor: 1.0, CaloriesPerServing: 0},
	"coffee":          {HydrationFactor: 0.9, CaloriesPerServing: 2},
	"tea":             {HydrationFactor: 0.95, CaloriesPerServing: 2},
	"juice":           {HydrationFactor: 0.85, CaloriesPerServing: 110},
	"milk":            {HydrationFactor: 0.9, CaloriesPerServing: 120},
	"soda":            {HydrationFactor: 0.6, CaloriesPerServing: 94},
	"sports_drink":    {HydrationFactor: 0.95, CaloriesPerServing: 50},
	"energy_drink":    {HydrationFactor: 0.6, CaloriesPerServing: 110},
	"smoothie":        {HydrationFactor: 0.7, CaloriesPerServing: 140},
	"protein_shake":   {HydrationFactor: 0.8, CaloriesPerServing: 160},
	"beer":            {HydrationFactor: -0.6, CaloriesPerServing: 145, IsDehydrating: true},
	"wine":            {HydrationFactor: -1.0, CaloriesPerServing: 120, IsDehydrating: true},
	"cocktail":        {HydrationFactor: -1.2, CaloriesPerServing: 150, IsDehydrating: true},
	"spirits":         {HydrationFactor: -2.0, CaloriesPerServing: 97, IsDehydrating: true},
}

// LookupBeverage returns the profile for a beverage type.
func LookupBeverage(beverageType string) (BeverageProfile, bool) {
	p, ok := beverageProfiles[beverageType]
	return p, ok
}

// BeverageTypes returns all known beverage types in sorted order, used to
// build the tool schema enum.
func BeverageTypes() []string {
	types := make([]string, 0, len(beverageProfiles))
	for t := range beverageProfiles {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// EffectiveHydrationML converts a raw ounce amount into its net fluid
// contribution. The result is negative for dehydrating beverages.
func (p BeverageProfile) EffectiveHydrationML(amountOz float64) int {
	return int(math.Round(amountOz * MLPerOz * p.HydrationFactor))
}

// CaloriesFor scales the per-8oz-serving calories to the logged amount.
func (p BeverageProfile) CaloriesFor(amountOz float64) int {
	return int(math.Round(p.CaloriesPerServing * amountOz / 8))
}
