// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Azichi/AI-Dashboard/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ProjectsLoadedMsg carries the project list, bootstrapped if empty.
type ProjectsLoadedMsg struct {
	Projects []model.Project
	Err      error
}

// ChatsLoadedMsg carries a project's chat list with overrides merged.
type ChatsLoadedMsg struct {
	ProjectID string
	Chats     []model.Chat
	Err       error
}

// ChatCreatedMsg resumes a send that had to create its chat first.
type ChatCreatedMsg struct {
	ProjectID string
	Chat      model.Chat
	Text      string
	Err       error
}

// SendResultMsg resolves an in-flight message post.
type SendResultMsg struct {
	ProjectID string
	ChatID    string
	Reply     string
	Err       error
}

// RenameResultMsg resolves an authoritative rename call.
type RenameResultMsg struct {
	ProjectID string
	ChatID    string
	Title     string
	Err       error
}

// ChatDeletedMsg resolves a chat delete.
type ChatDeletedMsg struct {
	ProjectID string
	ChatID    string
	Err       error
}

// ProjectUpdatedMsg resolves a partial project update.
type ProjectUpdatedMsg struct {
	Project model.Project
	Err     error
}

// ProjectDeletedMsg resolves a project delete.
type ProjectDeletedMsg struct {
	ProjectID string
	Err       error
}

// =============================================================================
// COMMANDS
// =============================================================================

func (c *Controller) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.opTimeout)
}

func (c *Controller) loadProjectsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()
		projects, err := c.repo.EnsureDefaultProject(ctx)
		return ProjectsLoadedMsg{Projects: projects, Err: err}
	}
}

func (c *Controller) loadChatsCmd(projectID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()
		chats, err := c.repo.ListChats(ctx, projectID)
		if err != nil {
			return ChatsLoadedMsg{ProjectID: projectID, Err: err}
		}
		// Title overrides win over server titles on every read
		chats, _ = c.overrides.ApplyTitles(projectID, chats)
		return ChatsLoadedMsg{ProjectID: projectID, Chats: chats}
	}
}

func (c *Controller) createChatCmd(projectID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()
		chat, err := c.repo.CreateChat(ctx, projectID, "")
		return ChatCreatedMsg{ProjectID: projectID, Chat: chat, Text: text, Err: err}
	}
}

func (c *Controller) postMessageCmd(projectID, chatID, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()
		reply, err := c.repo.SendMessage(ctx, projectID, chatID, text)
		return SendResultMsg{ProjectID: projectID, ChatID: chatID, Reply: reply, Err: err}
	}
}

func (c *Controller) renameChatCmd(projectID, chatID, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()
		err := c.repo.RenameChat(ctx, projectID, chatID, title)
		return RenameResultMsg{ProjectID: projectID, ChatID: chatID, Title: title, Err: err}
	}
}

func (c *Controller) deleteChatCmd(projectID, chatID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()
		err := c.repo.DeleteChat(ctx, projectID, chatID)
		return ChatDeletedMsg{ProjectID: projectID, ChatID: chatID, Err: err}
	}
}

func (c *Controller) createProjectCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()
		if _, err := c.repo.CreateProject(ctx, name); err != nil {
			return ProjectsLoadedMsg{Err: err}
		}
		projects, err := c.repo.ListProjects(ctx)
		return ProjectsLoadedMsg{Projects: projects, Err: err}
	}
}

func (c *Controller) updateProjectCmd(projectID string, upd model.ProjectUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()
		p, err := c.repo.UpdateProject(ctx, projectID, upd)
		return ProjectUpdatedMsg{Project: p, Err: err}
	}
}

func (c *Controller) deleteProjectCmd(projectID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx()
		defer cancel()
		err := c.repo.DeleteProject(ctx, projectID)
		return ProjectDeletedMsg{ProjectID: projectID, Err: err}
	}
}
