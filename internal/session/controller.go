// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the active (project, chat) selection and the
// in-memory conversation state. It performs optimistic message insertion,
// coordinates the reply reveal, and reconciles local state with the
// backing store after every round trip.
package session

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Azichi/AI-Dashboard/internal/model"
	"github.com/Azichi/AI-Dashboard/internal/overrides"
	"github.com/Azichi/AI-Dashboard/internal/repo"
	"github.com/Azichi/AI-Dashboard/internal/reveal"
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the explicit session-state struct: no ambient globals,
// presentation code reads it by reference. All mutation happens on the
// program loop; repository round trips run as commands.
type Controller struct {
	repo      *repo.Repository
	overrides *overrides.Store
	reveal    *reveal.Scheduler

	// Entity state
	Projects []model.Project
	Chats    []model.Chat

	// Active selection. ActiveChatID == "" means compose view, no chat
	// selected yet.
	ActiveProjectID string
	ActiveChatID    string

	// ephemeralLock pins a project choice across the chat-less compose
	// view so the first send lands in the right project.
	ephemeralLock string

	// In-memory message list for the active chat, plus reaction marks
	// keyed by message index.
	Messages  []model.Message
	Reactions map[int]string

	// Notice is a transient status-line message (last failure, etc.).
	Notice string

	// Single-flight guard: at most one send in flight per composer.
	sending bool

	// opTimeout bounds each repository round trip.
	opTimeout time.Duration
}

// New creates a session controller.
func New(r *repo.Repository, ov *overrides.Store) *Controller {
	return &Controller{
		repo:      r,
		overrides: ov,
		reveal:    reveal.NewScheduler(),
		Reactions: map[int]string{},
		opTimeout: 60 * time.Second,
	}
}

// Sending reports whether a send is in flight.
func (c *Controller) Sending() bool {
	return c.sending
}

// EphemeralLock returns the pinned project ID, if any.
func (c *Controller) EphemeralLock() string {
	return c.ephemeralLock
}

// Revealing reports whether a reveal is in progress.
func (c *Controller) Revealing() bool {
	return c.reveal.Active()
}

// ActiveChat returns the sidebar entry for the active chat, if any.
func (c *Controller) ActiveChat() (model.Chat, bool) {
	for _, ch := range c.Chats {
		if ch.ID == c.ActiveChatID {
			return ch, true
		}
	}
	return model.Chat{}, false
}

// targetProjectID resolves where a send lands: the active chat's project
// when a chat is selected, else the ephemeral lock, else the active
// project.
func (c *Controller) targetProjectID() string {
	if c.ActiveChatID != "" {
		return c.ActiveProjectID
	}
	if c.ephemeralLock != "" {
		return c.ephemeralLock
	}
	return c.ActiveProjectID
}

// =============================================================================
// NAVIGATION
// =============================================================================

// Bootstrap loads projects, creating the default one on first run.
func (c *Controller) Bootstrap() tea.Cmd {
	return c.loadProjectsCmd()
}

// HandleProjectsLoaded installs the project list and loads the active
// project's chats.
func (c *Controller) HandleProjectsLoaded(msg ProjectsLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		c.Notice = msg.Err.Error()
		return nil
	}

	c.Projects = msg.Projects
	if c.ActiveProjectID == "" && len(msg.Projects) > 0 {
		c.ActiveProjectID = msg.Projects[0].ID
	}
	// The active project may have been deleted out from under us
	if !c.projectExists(c.ActiveProjectID) && len(msg.Projects) > 0 {
		c.ActiveProjectID = msg.Projects[0].ID
		c.ActiveChatID = ""
		c.ephemeralLock = ""
		c.Messages = nil
	}
	return c.loadChatsCmd(c.ActiveProjectID)
}

func (c *Controller) projectExists(id string) bool {
	for _, p := range c.Projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// SelectProject switches the active project and reloads its chats.
func (c *Controller) SelectProject(projectID string) tea.Cmd {
	c.ActiveProjectID = projectID
	c.ActiveChatID = ""
	c.ephemeralLock = ""
	c.reveal.Cancel()
	c.Messages = nil
	c.Reactions = map[int]string{}
	return c.loadChatsCmd(projectID)
}

// SelectChat makes chatID active and reloads its message list. The reload
// is skipped only while something will still resolve the on-screen
// placeholder: an in-flight send or an active reveal for this chat.
func (c *Controller) SelectChat(chatID string) tea.Cmd {
	c.ActiveChatID = chatID
	c.ephemeralLock = ""

	// Switching away from a revealing chat abandons its timer chain; the
	// abandoned reveal is completed in place so no placeholder is left
	// behind, and its pending ticks go stale.
	if c.reveal.Active() && c.reveal.ChatID() != chatID {
		c.resolveAbandonedReveal()
	}

	if c.reveal.Active() || (c.sending && model.HasTypingPlaceholder(c.Messages)) {
		return nil
	}
	return c.loadChatsCmd(c.ActiveProjectID)
}

// GoCompose returns to the chat-less compose view, pinning the current
// project so the first send lands there even though no chat exists yet.
func (c *Controller) GoCompose() {
	c.ephemeralLock = c.ActiveProjectID
	c.ActiveChatID = ""
	c.reveal.Cancel()
	c.Messages = nil
	c.Reactions = map[int]string{}
}

// HandleChatsLoaded reconciles the sidebar list with authoritative data
// (title overrides already merged). The in-memory message list is
// replaced only when no send is in flight and no reveal targets the
// active chat.
func (c *Controller) HandleChatsLoaded(msg ChatsLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		c.Notice = msg.Err.Error()
		return nil
	}
	if msg.ProjectID != c.ActiveProjectID {
		return nil // stale fetch for a project we left
	}

	c.Chats = msg.Chats

	if c.ActiveChatID == "" {
		return nil
	}
	// Reconciliation must not disturb the message list while a reply is
	// in flight or still revealing. An orphaned placeholder with nothing
	// left to resolve it does not block: the reload is what clears it.
	if c.sending && model.HasTypingPlaceholder(c.Messages) {
		return nil
	}
	if c.reveal.Active() && c.reveal.ChatID() == c.ActiveChatID {
		return nil
	}

	for _, ch := range msg.Chats {
		if ch.ID == c.ActiveChatID {
			c.Messages = append([]model.Message(nil), ch.Messages...)
			c.loadReactions()
			return nil
		}
	}
	return nil
}

// loadReactions pulls reaction marks for the active chat. The override
// store is local and synchronous.
func (c *Controller) loadReactions() {
	marks, err := c.overrides.Reactions(c.ActiveProjectID, c.ActiveChatID)
	if err != nil {
		c.Reactions = map[int]string{}
		return
	}
	c.Reactions = marks
}

// =============================================================================
// SEND
// =============================================================================

// StartSend begins the optimistic send flow. Empty input and concurrent
// sends are silent no-ops. When no chat is active, a chat is created
// first and the send continues from HandleChatCreated.
func (c *Controller) StartSend(text string) tea.Cmd {
	if c.sending || strings.TrimSpace(text) == "" {
		return nil
	}

	target := c.targetProjectID()
	if target == "" {
		return nil
	}
	c.sending = true

	if c.ActiveChatID == "" {
		return c.createChatCmd(target, text)
	}

	c.optimisticAppend(text)
	return c.postMessageCmd(target, c.ActiveChatID, text)
}

// optimisticAppend makes the user message and the typing placeholder
// visible before any round trip resolves.
func (c *Controller) optimisticAppend(text string) {
	c.Messages = append(c.Messages, model.NewUserMessage(text), model.NewPlaceholder())
}

// HandleChatCreated adopts the new chat as active, splices a minimal
// entry into the sidebar, then performs the optimistic append and posts
// the message.
func (c *Controller) HandleChatCreated(msg ChatCreatedMsg) tea.Cmd {
	if msg.Err != nil {
		c.sending = false
		c.Messages = append(c.Messages, errorBubble(msg.Err))
		return nil
	}

	c.ActiveChatID = msg.Chat.ID
	c.ephemeralLock = ""
	c.ActiveProjectID = msg.ProjectID
	c.Chats = append([]model.Chat{{
		ID:        msg.Chat.ID,
		Title:     msg.Chat.Title,
		CreatedAt: msg.Chat.CreatedAt,
		UpdatedAt: msg.Chat.UpdatedAt,
	}}, c.Chats...)

	c.optimisticAppend(msg.Text)
	return c.postMessageCmd(msg.ProjectID, msg.Chat.ID, msg.Text)
}

// HandleSendResult resolves the in-flight send. On success the reply is
// handed to the reveal scheduler and a reconciliation fetch is scheduled;
// on failure the placeholder becomes a visible error bubble and nothing
// is retried.
func (c *Controller) HandleSendResult(msg SendResultMsg) tea.Cmd {
	c.sending = false

	if msg.Err != nil {
		if msg.ChatID == c.ActiveChatID {
			if i := model.LastAssistantIndex(c.Messages); i >= 0 && c.Messages[i].IsPlaceholder() {
				c.Messages[i].Content = "Error: " + msg.Err.Error()
			} else {
				c.Messages = append(c.Messages, errorBubble(msg.Err))
			}
			return nil
		}
		// The user navigated away mid-send. Resolve the stale optimistic
		// pair if it is still on screen, then reload the displayed chat.
		c.Notice = msg.Err.Error()
		if i := model.LastAssistantIndex(c.Messages); i >= 0 && c.Messages[i].IsPlaceholder() {
			c.Messages[i].Content = "Error: " + msg.Err.Error()
		}
		return c.loadChatsCmd(c.ActiveProjectID)
	}

	if msg.ChatID != c.ActiveChatID {
		// Navigated away mid-send: no reveal for a chat that is not
		// displayed. The store already holds the full reply; complete the
		// stale placeholder in place and reconcile the displayed chat.
		if i := model.LastAssistantIndex(c.Messages); i >= 0 && c.Messages[i].IsPlaceholder() {
			c.Messages[i].Content = msg.Reply
		}
		return c.loadChatsCmd(c.ActiveProjectID)
	}

	// Reveal into the placeholder; reconciliation runs alongside and is
	// kept off the message list by the reveal guard.
	revealCmd := c.reveal.Start(msg.ChatID, msg.Reply)
	return tea.Batch(revealCmd, c.loadChatsCmd(msg.ProjectID))
}

// HandleRevealTick applies one reveal step to the trailing assistant
// message. Stale ticks (superseded reveal) are dropped by the scheduler;
// a tick for a chat that is no longer displayed abandons the reveal,
// completing its text in place, and reconciles the displayed chat.
func (c *Controller) HandleRevealTick(msg reveal.TickMsg) tea.Cmd {
	prefix, ok, done, next := c.reveal.Step(msg)
	if !ok {
		return nil
	}

	if msg.ChatID != c.ActiveChatID {
		c.resolveAbandonedReveal()
		return c.loadChatsCmd(c.ActiveProjectID)
	}

	if i := model.LastAssistantIndex(c.Messages); i >= 0 {
		c.Messages[i].Content = prefix
	}
	if done {
		return nil
	}
	return next
}

// resolveAbandonedReveal cancels the active reveal and completes its text
// in place when the trailing assistant message still belongs to it, so an
// abandoned reveal never strands an unresolved placeholder.
func (c *Controller) resolveAbandonedReveal() {
	full := c.reveal.ReplyText()
	c.reveal.Cancel()
	if i := model.LastAssistantIndex(c.Messages); i >= 0 {
		m := &c.Messages[i]
		if m.IsPlaceholder() || (m.Content != full && strings.HasPrefix(full, m.Content)) {
			m.Content = full
		}
	}
}

// errorBubble converts a failure into a visible assistant message so the
// conversation keeps its continuity.
func errorBubble(err error) model.Message {
	return model.Message{
		Role:      model.RoleAssistant,
		Content:   "Error: " + err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// =============================================================================
// RENAME, REACTIONS, DELETE
// =============================================================================

// RenameChat writes the title override optimistically, updates the
// sidebar, and issues the authoritative rename. If the call fails the
// override is already the sole record of the mutation; no error surfaces.
func (c *Controller) RenameChat(chatID, title string) tea.Cmd {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	if err := c.overrides.SetTitle(c.ActiveProjectID, chatID, title); err != nil {
		c.Notice = err.Error()
	}
	for i := range c.Chats {
		if c.Chats[i].ID == chatID {
			c.Chats[i].Title = title
		}
	}
	return c.renameChatCmd(c.ActiveProjectID, chatID, title)
}

// HandleRenameResult re-upserts the override on confirmed success so a
// later read stays consistent with the authoritative value. Failure is
// deliberately silent: the override keeps the rename visible.
func (c *Controller) HandleRenameResult(msg RenameResultMsg) tea.Cmd {
	if msg.Err != nil {
		return nil
	}
	if err := c.overrides.SetTitle(msg.ProjectID, msg.ChatID, msg.Title); err != nil {
		c.Notice = err.Error()
	}
	return c.loadChatsCmd(msg.ProjectID)
}

// ToggleReaction flips a reaction mark on one message of the active chat.
// Reactions are local-only and durable.
func (c *Controller) ToggleReaction(messageIndex int, mark string) {
	if c.ActiveChatID == "" || messageIndex < 0 || messageIndex >= len(c.Messages) {
		return
	}

	next := mark
	if c.Reactions[messageIndex] == mark {
		next = "" // toggle off
	}
	if err := c.overrides.SetReaction(c.ActiveProjectID, c.ActiveChatID, messageIndex, next); err != nil {
		c.Notice = err.Error()
		return
	}
	if next == "" {
		delete(c.Reactions, messageIndex)
	} else {
		c.Reactions[messageIndex] = next
	}
}

// DeleteChat removes a chat from the backing store.
func (c *Controller) DeleteChat(chatID string) tea.Cmd {
	return c.deleteChatCmd(c.ActiveProjectID, chatID)
}

// HandleChatDeleted drops the sidebar entry; deleting the active chat
// returns to the compose view with the project pinned.
func (c *Controller) HandleChatDeleted(msg ChatDeletedMsg) tea.Cmd {
	if msg.Err != nil {
		c.Notice = msg.Err.Error()
		return nil
	}

	kept := c.Chats[:0]
	for _, ch := range c.Chats {
		if ch.ID != msg.ChatID {
			kept = append(kept, ch)
		}
	}
	c.Chats = kept

	if msg.ChatID == c.ActiveChatID {
		c.ActiveChatID = ""
		c.ephemeralLock = msg.ProjectID
		c.Messages = nil
		c.Reactions = map[int]string{}
	}
	return nil
}

// CreateProject issues a project create and refreshes the list.
func (c *Controller) CreateProject(name string) tea.Cmd {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	return c.createProjectCmd(name)
}

// UpdateProject applies a partial update to a project.
func (c *Controller) UpdateProject(projectID string, upd model.ProjectUpdate) tea.Cmd {
	return c.updateProjectCmd(projectID, upd)
}

// HandleProjectUpdated installs the merged record.
func (c *Controller) HandleProjectUpdated(msg ProjectUpdatedMsg) tea.Cmd {
	if msg.Err != nil {
		c.Notice = msg.Err.Error()
		return nil
	}
	for i := range c.Projects {
		if c.Projects[i].ID == msg.Project.ID {
			c.Projects[i] = msg.Project
		}
	}
	return nil
}

// DeleteProject removes a project; the backing store cascades to its
// chats.
func (c *Controller) DeleteProject(projectID string) tea.Cmd {
	return c.deleteProjectCmd(projectID)
}

// HandleProjectDeleted reloads the project list; bootstrap recreates the
// default project when the last one was deleted.
func (c *Controller) HandleProjectDeleted(msg ProjectDeletedMsg) tea.Cmd {
	if msg.Err != nil {
		c.Notice = msg.Err.Error()
		return nil
	}
	if msg.ProjectID == c.ActiveProjectID {
		c.ActiveProjectID = ""
		c.ActiveChatID = ""
		c.ephemeralLock = ""
		c.Messages = nil
		c.Reactions = map[int]string{}
	}
	return c.loadProjectsCmd()
}
