// Package assistant implements the single-turn conversational request
// handler: context aggregation, prompt composition, the gateway call and
// tool dispatch, normalised into one response envelope.
package assistant

import (
	"context"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/history"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/prompts"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/tools"
	errx "github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/core/error"
	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
)

// FallbackResponse is returned when the model's reply is unusable (empty
// content after a failed tool parse).
const FallbackResponse = "Sorry, I couldn't quite process that. Could you rephrase it?"

// Service wires the pipeline stages together. It is stateless across
// requests; everything request-scoped is built, used and discarded per call.
type Service struct {
	chatFull   einomodel.BaseChatModel
	chatNav    einomodel.BaseChatModel
	aggregator *history.Aggregator
	dispatcher *tools.Dispatcher
	store      model.Store
	promptCfg  model.PromptConfig
	now        func() time.Time
}

type ServiceConfig struct {
	ChatFull   einomodel.BaseChatModel
	ChatNav    einomodel.BaseChatModel
	Aggregator *history.Aggregator
	Dispatcher *tools.Dispatcher
	Store      model.Store
	PromptCfg  model.PromptConfig
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		chatFull:   cfg.ChatFull,
		chatNav:    cfg.ChatNav,
		aggregator: cfg.Aggregator,
		dispatcher: cfg.Dispatcher,
		store:      cfg.Store,
		promptCfg:  cfg.PromptCfg,
		now:        time.Now,
	}
}

// Chat handles one conversational turn. Only a failed gateway call returns
// an error (carrying its HTTP status via errx); every enrichment and
// side-effect failure degrades instead of aborting.
func (s *Service) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	avatarName := strings.TrimSpace(req.AvatarName)
	if avatarName == "" {
		avatarName = s.promptCfg.DefaultAvatarName
	}
	loggingEnabled := req.UserID != ""

	in := prompts.ComposeInput{
		AvatarName:     avatarName,
		PageContext:    req.PageContext,
		LoggingEnabled: loggingEnabled,
	}
	if loggingEnabled {
		in.Digest = s.aggregator.Digest(ctx, req.UserID)
		in.TodaySnapshot = s.aggregator.TodaySnapshot(ctx, req.UserID)
		if req.IncludeInjuryContext {
			if score, err := s.store.InjuryRiskScore(ctx, req.UserID); err != nil {
				logx.Warn().Err(err).Msg("Injury risk score unavailable; omitting block")
			} else {
				in.InjuryContext = prompts.InjuryContext(score)
			}
		}
		if req.IncludeMoodContext {
			if score, err := s.store.ReadinessScore(ctx, req.UserID); err != nil {
				logx.Warn().Err(err).Msg("Readiness score unavailable; omitting block")
			} else {
				in.MoodContext = prompts.MoodContext(score)
			}
		}
	}

	systemPrompt, err := prompts.ComposeSystem(ctx, in)
	if err != nil {
		return nil, errx.Internal(err)
	}
	messages := prompts.BuildMessages(systemPrompt, req.ConversationHistory, req.Message)

	chatModel := s.chatNav
	if loggingEnabled {
		chatModel = s.chatFull
	}
	out, err := chatModel.Generate(ctx, messages)
	if err != nil {
		logx.Error().Err(err).Msg("Gateway call failed")
		return nil, errx.WrapGateway(err)
	}
	if out == nil {
		return nil, errx.Internal(nil)
	}

	resp := &model.ChatResponse{
		Response:  strings.TrimSpace(out.Content),
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}

	// Only the first tool call is acted on; multiple calls in one reply are
	// a model quirk we deliberately ignore.
	if len(out.ToolCalls) > 0 {
		call := out.ToolCalls[0]
		inv, err := tools.ParseInvocation(call.Function.Name, call.Function.Arguments)
		if err != nil {
			// Recoverable: fall through to the plain-text reply.
			logx.Warn().Err(err).
				Str("tool_name", call.Function.Name).
				Str("arguments", call.Function.Arguments).
				Msg("Unusable tool call; falling back to plain text")
		} else if tools.IsLoggingTool(inv.ToolName()) && !loggingEnabled {
			logx.Warn().Str("tool_name", inv.ToolName()).
				Msg("Logging tool called without a user; falling back to plain text")
		} else {
			resp.Action = s.dispatcher.Dispatch(ctx, req.UserID, req.RequestID, inv)
			if msg := strings.TrimSpace(inv.Confirmation()); msg != "" {
				resp.Response = msg
			}
		}
	}

	if resp.Response == "" {
		resp.Response = FallbackResponse
	}
	return resp, nil
}
