package model

// ================ Config ================

type ChatModelConfig struct {
	Model       string  `envconfig:"CHAT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CHAT_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"CHAT_TEMPERATURE" default:"0.4"`
}

// NutritionModelConfig drives the nested structured-output call that
// estimates macros for log_food. Low temperature keeps the JSON shape stable.
type NutritionModelConfig struct {
	Model       string  `envconfig:"NUTRITION_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"NUTRITION_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"NUTRITION_TEMPERATURE" default:"0.1"`
}

type ImageModelConfig struct {
	Model   string `envconfig:"IMAGE_MODEL" default:"imagen-3.0-generate-002"`
	Enabled bool   `envconfig:"IMAGE_GENERATION_ENABLED" default:"true"`
}

type PromptConfig struct {
	DefaultAvatarName  string `envconfig:"PROMPT_DEFAULT_AVATAR_NAME" default:"Coach"`
	HistoryDays        int    `envconfig:"PROMPT_HISTORY_DAYS" default:"30"`
	MaxPersonalRecords int    `envconfig:"PROMPT_MAX_PERSONAL_RECORDS" default:"10"`
	HydrationGoalML    int    `envconfig:"PROMPT_HYDRATION_GOAL_ML" default:"2000"`
}

// DedupeConfig bounds how long a requestId blocks repeated side effects.
type DedupeConfig struct {
	TTL string `envconfig:"DEDUPE_TTL" default:"2m"`
}
