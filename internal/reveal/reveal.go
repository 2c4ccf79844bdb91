// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal progressively rewrites a typing placeholder's content
// from empty to a fully-known reply string, simulating generation with
// human-like pacing. The reveal is one logical timer chain: a single
// pending tick at a time, self-rescheduling, cancellable by chat identity
// and generation so stale ticks are dropped.
package reveal

import (
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// charsPerTick bounds the number of ticks for long replies.
const charsPerTick = 3

// pauseChars get the longest per-character delay, so clause boundaries
// read as thinking pauses.
const pauseChars = ",.;:!?"

// =============================================================================
// MESSAGES
// =============================================================================

// TickMsg advances an active reveal. It carries the chat identity and the
// generation it was scheduled for; ticks from a superseded reveal or for a
// chat no longer displayed are dropped by Step.
type TickMsg struct {
	ChatID string
	Gen    int
}

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler owns at most one active reveal. Starting a new reveal bumps
// the generation, implicitly abandoning the prior timer chain: its pending
// tick still arrives, but Step rejects it.
type Scheduler struct {
	chatID string
	gen    int
	reply  []rune
	cursor int
	active bool
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Active reports whether a reveal is in progress.
func (s *Scheduler) Active() bool {
	return s.active
}

// ChatID returns the chat the active reveal targets.
func (s *Scheduler) ChatID() string {
	return s.chatID
}

// ReplyText returns the full reply of the active reveal, so an abandoned
// reveal can be completed in place instead of dripped out.
func (s *Scheduler) ReplyText() string {
	return string(s.reply)
}

// Start begins revealing reply into the given chat's trailing placeholder
// and returns the command producing the first tick. Any prior reveal is
// superseded.
func (s *Scheduler) Start(chatID, reply string) tea.Cmd {
	s.gen++
	s.chatID = chatID
	s.reply = []rune(reply)
	s.cursor = 0
	s.active = true
	return s.tickAfter(0)
}

// Cancel abandons the active reveal. Pending ticks become stale.
func (s *Scheduler) Cancel() {
	s.active = false
	s.gen++
}

// Step processes one tick. ok is false when the tick is stale (wrong
// generation, wrong chat, or no active reveal) and the tick must be
// discarded without touching any message. Otherwise prefix holds the
// content to write into the placeholder, done reports completion, and
// next schedules the following tick while the reveal is unfinished.
func (s *Scheduler) Step(msg TickMsg) (prefix string, ok bool, done bool, next tea.Cmd) {
	if !s.active || msg.Gen != s.gen || msg.ChatID != s.chatID {
		return "", false, false, nil
	}

	old := s.cursor
	s.cursor += charsPerTick
	if s.cursor > len(s.reply) {
		s.cursor = len(s.reply)
	}
	prefix = string(s.reply[:s.cursor])

	if s.cursor >= len(s.reply) {
		s.active = false
		return prefix, true, true, nil
	}

	return prefix, true, false, s.tickAfter(delayFor(s.reply[old]))
}

// tickAfter schedules the next tick for the current generation.
func (s *Scheduler) tickAfter(d time.Duration) tea.Cmd {
	msg := TickMsg{ChatID: s.chatID, Gen: s.gen}
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// =============================================================================
// PACING
// =============================================================================

// baseDelay is the pause before the next tick, keyed by the character at
// the old cursor: word boundaries feel instantaneous, line breaks and
// punctuation read as pauses.
func baseDelay(ch rune) time.Duration {
	switch {
	case ch == ' ':
		return 0
	case ch == '\n':
		return 15 * time.Millisecond
	case strings.ContainsRune(pauseChars, ch):
		return 20 * time.Millisecond
	default:
		return 5 * time.Millisecond
	}
}

// delayFor adds uniform jitter in [-3ms, +2ms], clamped at zero.
func delayFor(ch rune) time.Duration {
	jitter := time.Duration(rand.Intn(6)-3) * time.Millisecond
	d := baseDelay(ch) + jitter
	if d < 0 {
		return 0
	}
	return d
}
