// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the live conversation state of the dashboard.
//
// A single Controller holds the project list, the active chat, and all
// in-flight work. It is driven entirely from the Bubble Tea update loop:
// every mutation either applies synchronously or returns a tea.Cmd whose
// resulting message is fed back into the controller. Nothing in this
// package is safe for concurrent use outside that loop.
//
// # Key Types
//
//   - Controller: central state machine for projects, chats and sends
//   - ProjectsLoadedMsg, ChatsLoadedMsg: list refresh results
//   - ChatCreatedMsg, SendResultMsg: the two-step send round trip
//   - RenameResultMsg, ChatDeletedMsg: chat mutation results
//
// # Send Flow
//
// StartSend appends the user message and an empty assistant placeholder
// immediately, then posts to the backing store. When the reply arrives
// the placeholder fills in character by character via the reveal
// scheduler; list reconciliation is held off until the reveal finishes
// so the animation is never clobbered by a server snapshot.
package session
