package model

// HistoryTurn is one caller-supplied conversation turn. The service keeps no
// conversation state of its own; each request carries its full history.
type HistoryTurn struct {
	Type    string `json:"type"` // "user" | "ai"
	Content string `json:"content"`
}

// PageContext describes the screen the user is currently looking at, so the
// assistant can answer questions about visible content and navigate away
// from it.
type PageContext struct {
	CurrentPage    string `json:"currentPage"`
	Description    string `json:"description"`
	Route          string `json:"route"`
	VisibleContent string `json:"visibleContent"`
}

// ChatRequest is the inbound payload for POST /api/chat.
//
// UserID is optional: when absent, personalised context and every logging
// tool are disabled and the assistant can only answer and navigate.
// RequestID is optional: when present it is used as an idempotency key so a
// client retry does not double-log side effects.
type ChatRequest struct {
	Message              string        `json:"message"`
	AvatarName           string        `json:"avatarName,omitempty"`
	ConversationHistory  []HistoryTurn `json:"conversationHistory,omitempty"`
	UserID               string        `json:"userId,omitempty"`
	RequestID            string        `json:"requestId,omitempty"`
	IncludeInjuryContext bool          `json:"includeInjuryContext,omitempty"`
	IncludeMoodContext   bool          `json:"includeMoodContext,omitempty"`
	PageContext          *PageContext  `json:"pageContext,omitempty"`
}
