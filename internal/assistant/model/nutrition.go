package model

// NutritionEstimate is the structured shape forced out of the nested
// nutrition-lookup call for log_food.
type NutritionEstimate struct {
	FoodItems     []string `json:"foodItems"`
	TotalCalories float64  `json:"totalCalories"`
	TotalProtein  float64  `json:"totalProtein"`
	TotalCarbs    float64  `json:"totalCarbs"`
	TotalFat      float64  `json:"totalFat"`
}

// DefaultNutritionEstimate is the fixed fallback used when the nutrition
// lookup fails or returns garbage. Logging something is better than failing
// the whole request.
func DefaultNutritionEstimate(description string) NutritionEstimate {
	return NutritionEstimate{
		FoodItems:     []string{description},
		TotalCalories: 200,
		TotalProtein:  10,
		TotalCarbs:    20,
		TotalFat:      8,
	}
}

// Valid reports whether an estimate is usable: non-negative macros and a
// calorie figure inside a sanity band.
func (n NutritionEstimate) Valid() bool {
	if n.TotalCalories <= 0 || n.TotalCalories > 10000 {
		return false
	}
	if n.TotalProtein < 0 || n.TotalCarbs < 0 || n.TotalFat < 0 {
		return false
	}
	return true
}
