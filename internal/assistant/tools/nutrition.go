package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
)

const nutritionTimeout = 10 * time.Second

const nutritionSystemPrompt = `You are a nutrition estimation engine. Given a description of food someone ate, estimate its nutrition. Respond with ONLY a JSON object, no prose and no markdown fences, in exactly this shape:
{"foodItems": ["item 1", "item 2"], "totalCalories": 0, "totalProtein": 0, "totalCarbs": 0, "totalFat": 0}
Calories in kcal, macros in grams. Estimate realistic portion sizes when the description does not give amounts.`

// NutritionClient performs the nested structured-output call estimating
// macros for log_food. Any failure collapses to the fixed default estimate;
// this call never escalates to the outer request.
type NutritionClient struct {
	chatModel einomodel.BaseChatModel
}

func NewNutritionClient(chatModel einomodel.BaseChatModel) *NutritionClient {
	return &NutritionClient{chatModel: chatModel}
}

// Estimate returns the model's macro estimate for description, or the
// default fallback when the call or its output is unusable.
func (c *NutritionClient) Estimate(ctx context.Context, description string) model.NutritionEstimate {
	fallback := model.DefaultNutritionEstimate(description)
	if c == nil || c.chatModel == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, nutritionTimeout)
	defer cancel()

	out, err := c.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(nutritionSystemPrompt),
		schema.UserMessage(description),
	})
	if err != nil {
		logx.Warn().Err(err).Str("description", description).
			Msg("Nutrition lookup failed; using default estimate")
		return fallback
	}
	if out == nil {
		return fallback
	}

	estimate, err := parseNutritionJSON(out.Content)
	if err != nil {
		logx.Warn().Err(err).Str("description", description).
			Msg("Nutrition response unparseable; using default estimate")
		return fallback
	}
	if len(estimate.FoodItems) == 0 {
		estimate.FoodItems = []string{description}
	}
	return estimate
}

// parseNutritionJSON extracts the JSON object from the model's reply,
// tolerating markdown fences and surrounding prose.
func parseNutritionJSON(content string) (model.NutritionEstimate, error) {
	var estimate model.NutritionEstimate

	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return estimate, fmt.Errorf("no JSON object in response")
	}

	if err := json.Unmarshal([]byte(content[start:end+1]), &estimate); err != nil {
		return estimate, fmt.Errorf("decode nutrition JSON: %w", err)
	}
	if !estimate.Valid() {
		return estimate, fmt.Errorf("estimate out of sanity bounds: %.0f kcal", estimate.TotalCalories)
	}
	return estimate, nil
}
