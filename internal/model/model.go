// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for projects, chats, and messages.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// PROJECT TYPE
// =============================================================================

// Project is a workspace grouping chats, with its own model choice and
// system instructions. Updates use merge semantics: unset fields on an
// update never overwrite stored values.
type Project struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Model        string    `json:"model"`
	SystemPrompt string    `json:"system_prompt"`
	Root         string    `json:"root"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProjectUpdate carries a partial-field update for a project.
// Nil fields are left untouched by the store.
type ProjectUpdate struct {
	Name         *string `json:"name,omitempty"`
	Model        *string `json:"model,omitempty"`
	SystemPrompt *string `json:"system_prompt,omitempty"`
	Root         *string `json:"root,omitempty"`
}

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat is an ordered thread of messages owned by exactly one project.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// DefaultChatTitle is the title assigned to a chat created without one.
const DefaultChatTitle = "New chat"

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a chat. Messages are append-only; only the
// trailing assistant message may be rewritten, and only while it is being
// revealed.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"ts"`
}

// NewUserMessage creates a user message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// NewPlaceholder creates an empty assistant message. An empty assistant
// message marks an in-flight or revealing reply (the "typing placeholder").
func NewPlaceholder() Message {
	return Message{
		Role:      RoleAssistant,
		Timestamp: time.Now().UTC(),
	}
}

// IsPlaceholder reports whether the message is an assistant message with
// empty content.
func (m Message) IsPlaceholder() bool {
	return m.Role == RoleAssistant && m.Content == ""
}

// Preview returns a truncated, newline-free preview of the content.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	content = strings.ReplaceAll(content, "\r", "")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// CHAT METHODS
// =============================================================================

// LastAssistantIndex returns the index of the most recent assistant message,
// or -1 if the chat has none.
func LastAssistantIndex(messages []Message) int {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleAssistant {
			return i
		}
	}
	return -1
}

// HasTypingPlaceholder reports whether any message in the list is an empty
// assistant message. Its presence signals an in-flight or revealing reply
// and must suppress any background refresh that would overwrite the list.
func HasTypingPlaceholder(messages []Message) bool {
	for _, m := range messages {
		if m.IsPlaceholder() {
			return true
		}
	}
	return false
}

// TitleFromText derives a chat title from the first user message.
func TitleFromText(text string) string {
	title := strings.TrimSpace(text)
	title = strings.ReplaceAll(title, "\n", " ")
	runes := []rune(title)
	if len(runes) > 40 {
		title = string(runes[:37]) + "..."
	}
	if title == "" {
		return DefaultChatTitle
	}
	return title
}
