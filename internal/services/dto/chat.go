package dto

import (
	"agelink_backend/internal/models/chat"
)

// ChatTargetKind discriminates the chat entry tagged union. Explicit
// identifiers always win over the stage-inferred default, and an application
// identifier outranks a relationship identifier when both are supplied.
type ChatTargetKind string

const (
	ChatTargetApplication  ChatTargetKind = "application"
	ChatTargetRelationship ChatTargetKind = "relationship"
	ChatTargetList         ChatTargetKind = "list"
)

// ChatTarget is the resolved chat entry input.
type ChatTarget struct {
	Kind ChatTargetKind
	ID   string
}

// ResolveChatTarget folds the two optional query identifiers into a single
// target so precedence lives in exactly one place.
func ResolveChatTarget(applicationID, relationshipID string) ChatTarget {
	if applicationID != "" {
		return ChatTarget{Kind: ChatTargetApplication, ID: applicationID}
	}
	if relationshipID != "" {
		return ChatTarget{Kind: ChatTargetRelationship, ID: relationshipID}
	}
	return ChatTarget{Kind: ChatTargetList}
}

// ChatCapabilities describes what the presented conversation allows.
type ChatCapabilities struct {
	CanSendMessages bool `json:"can_send_messages"`
	// BondingFeatures unlock only once the pairing reaches an active
	// relationship (shared activities, check-ins).
	BondingFeatures bool `json:"bonding_features"`
}

// ChatSurface is the conversation surface presented for a resolved target:
// a single dialog, a list of dialogs, or a redirect to the relationship
// conversation.
type ChatSurface struct {
	Kind         ChatTargetKind   `json:"kind"`
	Dialog       *chat.Dialog     `json:"dialog,omitempty"`
	Dialogs      []chat.Dialog    `json:"dialogs,omitempty"`
	Capabilities ChatCapabilities `json:"capabilities"`
	// RedirectTo is set when the caller should land on a specific dialog
	// instead of the list (single active relationship).
	RedirectTo string `json:"redirect_to,omitempty"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=4000"`
}

type MessagesResponse struct {
	Messages []chat.Message `json:"messages"`
	Total    int            `json:"total"`
}
