package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNutritionJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantCal float64
		wantErr bool
	}{
		{
			name:    "clean JSON",
			content: `{"foodItems":["banana"],"totalCalories":105,"totalProtein":1.3,"totalCarbs":27,"totalFat":0.4}`,
			wantCal: 105,
		},
		{
			name: "fenced JSON",
			content: "```json\n" +
				`{"foodItems":["banana"],"totalCalories":105,"totalProtein":1.3,"totalCarbs":27,"totalFat":0.4}` +
				"\n```",
			wantCal: 105,
		},
		{
			name:    "prose around the object",
			content: `Sure! Here is the estimate: {"foodItems":["banana"],"totalCalories":105,"totalProtein":1.3,"totalCarbs":27,"totalFat":0.4} Hope that helps!`,
			wantCal: 105,
		},
		{
			name:    "no JSON at all",
			content: "I cannot estimate that.",
			wantErr: true,
		},
		{
			name:    "calories out of sanity band",
			content: `{"foodItems":["feast"],"totalCalories":99999,"totalProtein":10,"totalCarbs":10,"totalFat":10}`,
			wantErr: true,
		},
		{
			name:    "negative macros",
			content: `{"foodItems":["banana"],"totalCalories":105,"totalProtein":-2,"totalCarbs":27,"totalFat":0.4}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimate, err := parseNutritionJSON(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCal, estimate.TotalCalories)
		})
	}
}

func TestEstimateFillsMissingFoodItems(t *testing.T) {
	client := NewNutritionClient(&stubChatModel{
		reply: `{"totalCalories":400,"totalProtein":20,"totalCarbs":40,"totalFat":15}`,
	})

	estimate := client.Estimate(context.Background(), "pasta with meatballs")

	assert.Equal(t, 400.0, estimate.TotalCalories)
	assert.Equal(t, []string{"pasta with meatballs"}, estimate.FoodItems)
}

func TestEstimateFallsBackOnModelError(t *testing.T) {
	client := NewNutritionClient(&stubChatModel{err: errors.New("quota")})

	estimate := client.Estimate(context.Background(), "toast")

	assert.Equal(t, 200.0, estimate.TotalCalories)
	assert.Equal(t, []string{"toast"}, estimate.FoodItems)
}

func TestEstimateFallsBackOnGarbageReply(t *testing.T) {
	client := NewNutritionClient(&stubChatModel{reply: "about four hundred calories I think"})

	estimate := client.Estimate(context.Background(), "toast")

	assert.Equal(t, 200.0, estimate.TotalCalories)
}

func TestEstimateNilClientUsesFallback(t *testing.T) {
	var client *NutritionClient

	estimate := client.Estimate(context.Background(), "toast")

	assert.Equal(t, 200.0, estimate.TotalCalories)
	assert.True(t, estimate.Valid())
}
