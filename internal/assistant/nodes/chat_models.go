// Package nodes constructs the gateway chat models the assistant invokes.
package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/tools"
	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey    string
	BaseURL   string
	Chat      *model.ChatModelConfig
	Nutrition *model.NutritionModelConfig
}

// ChatModels holds the per-purpose model instances. Tool catalogs are bound
// once at startup; requests without a signed-in user use the nav-only
// instance so logging tools are never even offered to the model.
type ChatModels struct {
	Full      einomodel.BaseChatModel // full tool catalog bound
	NavOnly   einomodel.BaseChatModel // navigation tools only
	Nutrition einomodel.BaseChatModel // no tools; structured-output estimates
	Client    *genai.Client
	ModelName string
}

// NewChatModels creates the gateway client and all chat model instances.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating gateway client")
		return nil, fmt.Errorf("error creating gateway client: %w", err)
	}

	full, err := newBoundModel(ctx, client, config.Chat, tools.Catalog(true))
	if err != nil {
		return nil, fmt.Errorf("chat model (full catalog): %w", err)
	}
	navOnly, err := newBoundModel(ctx, client, config.Chat, tools.Catalog(false))
	if err != nil {
		return nil, fmt.Errorf("chat model (nav catalog): %w", err)
	}

	nutrition, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Nutrition.Model,
		Temperature: &config.Nutrition.Temperature,
		MaxTokens:   &config.Nutrition.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating nutrition model")
		return nil, fmt.Errorf("nutrition model: %w", err)
	}

	return &ChatModels{
		Full:      full,
		NavOnly:   navOnly,
		Nutrition: nutrition,
		Client:    client,
		ModelName: config.Chat.Model,
	}, nil
}

func newBoundModel(ctx context.Context, client *genai.Client, cfg *model.ChatModelConfig,
	catalog []*schema.ToolInfo) (einomodel.BaseChatModel, error) {
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &cfg.Temperature,
		MaxTokens:   &cfg.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating chat model")
		return nil, err
	}
	if err := chatModel.BindTools(catalog); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}
	return chatModel, nil
}
