// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for projects, chats, and messages.
//
// This package defines the core domain types used throughout the application
// for representing workspaces, chat threads, and their messages.
//
// # Key Types
//
//   - Project: Workspace grouping chats, with model choice and system prompt
//   - Chat: Ordered thread of messages owned by exactly one project
//   - Message: Single message with role, content, and timestamp
//   - Role: Message role enumeration (user, assistant)
//
// # Placeholders
//
// An assistant message with empty content is a "typing placeholder": it marks
// an in-flight or revealing reply. At most one placeholder may exist in a
// chat at any time, and its presence suppresses background refreshes that
// would otherwise overwrite the in-memory message list:
//
//	msgs = append(msgs, model.NewUserMessage(text), model.NewPlaceholder())
//	if model.HasTypingPlaceholder(msgs) {
//	    // skip reload, a reveal is in progress
//	}
package model
