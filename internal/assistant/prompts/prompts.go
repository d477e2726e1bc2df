// Package prompts composes the assistant's system prompt. Instruction blocks
// are embedded template assets so prompt wording can change without touching
// dispatch logic; ordering of the blocks is a contract: instruction blocks
// precede data blocks, and later sections may reference earlier ones.
package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/tools"
)

//go:embed template/persona.txt
var personaTemplate string

//go:embed template/page_context.txt
var pageContextTemplate string

//go:embed template/tool_guide.txt
var toolGuideTemplate string

// ComposeInput carries everything the system prompt is assembled from.
// Optional fields left empty are omitted entirely, never rendered as "no
// data" placeholders.
type ComposeInput struct {
	AvatarName     string
	PageContext    *model.PageContext
	LoggingEnabled bool
	Digest         string
	TodaySnapshot  string
	InjuryContext  string
	MoodContext    string
}

// ComposeSystem renders the full system prompt. Block order is fixed:
// persona/style, page-context rules (if present), tool usage and logging
// guides, context digest, today's snapshot, injury context, mood context.
func ComposeSystem(ctx context.Context, in ComposeInput) (string, error) {
	var sections []string

	persona, err := renderTemplate(ctx, personaTemplate, map[string]any{
		"AvatarName": in.AvatarName,
	})
	if err != nil {
		return "", fmt.Errorf("persona render: %w", err)
	}
	sections = append(sections, persona)

	if in.PageContext != nil {
		pageBlock, err := renderTemplate(ctx, pageContextTemplate, map[string]any{
			"CurrentPage":    in.PageContext.CurrentPage,
			"Description":    in.PageContext.Description,
			"Route":          in.PageContext.Route,
			"VisibleContent": in.PageContext.VisibleContent,
		})
		if err != nil {
			return "", fmt.Errorf("page context render: %w", err)
		}
		sections = append(sections, pageBlock)
	}

	toolGuide, err := renderTemplate(ctx, toolGuideTemplate, map[string]any{
		"LoggingEnabled": in.LoggingEnabled,
		"NavigateTool":   tools.ToolNavigate,
		"OpenModalTool":  tools.ToolOpenModal,
		"BeverageTool":   tools.ToolLogBeverage,
		"FoodTool":       tools.ToolLogFood,
		"SleepTool":      tools.ToolLogSleep,
		"CycleTool":      tools.ToolLogCycleEvent,
	})
	if err != nil {
		return "", fmt.Errorf("tool guide render: %w", err)
	}
	sections = append(sections, toolGuide)

	if in.Digest != "" {
		sections = append(sections, in.Digest)
	}
	if in.TodaySnapshot != "" {
		sections = append(sections, in.TodaySnapshot)
	}
	if in.InjuryContext != "" {
		sections = append(sections, in.InjuryContext)
	}
	if in.MoodContext != "" {
		sections = append(sections, in.MoodContext)
	}

	return strings.Join(sections, "\n\n"), nil
}

// BuildMessages prepends the system prompt to the caller-supplied history
// and the new user message.
func BuildMessages(systemPrompt string, history []model.HistoryTurn, message string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	for _, turn := range history {
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		if turn.Type == "user" {
			messages = append(messages, schema.UserMessage(turn.Content))
		} else {
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}
	messages = append(messages, schema.UserMessage(message))
	return messages
}

// renderTemplate renders a Go-template block via the Eino prompt component
// so prompt callbacks fire for observability.
func renderTemplate(ctx context.Context, tmpl string, vars map[string]any) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(tmpl),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", err
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("empty render result")
	}
	return strings.TrimRight(msgs[0].Content, "\n"), nil
}

// InjuryContext formats the injury-risk enrichment block.
func InjuryContext(score float64) string {
	return fmt.Sprintf("INJURY RISK CONTEXT:\nCurrent injury risk score: %.0f/100 (0 = minimal risk, 100 = high risk, driven by training-load spikes and short sleep). Weave this into training advice when relevant; do not recite the number unprompted.", score)
}

// MoodContext formats the mood/readiness enrichment block.
func MoodContext(score float64) string {
	return fmt.Sprintf("READINESS CONTEXT:\nCurrent readiness score: %.0f/100 (combines recent sleep, mood check-ins and alcohol intake). Below 40 suggests favouring recovery over intensity today.", score)
}
