// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/Azichi/AI-Dashboard/internal/model"
	"github.com/Azichi/AI-Dashboard/internal/overrides"
	"github.com/Azichi/AI-Dashboard/internal/reveal"
	"github.com/Azichi/AI-Dashboard/internal/session"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update is the single message dispatcher. Session state changes happen
// inside the controller; the model only refreshes widgets afterwards.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case session.ProjectsLoadedMsg:
		cmd := m.ctrl.HandleProjectsLoaded(msg)
		m.refreshViewport(false)
		return m, cmd

	case session.ChatsLoadedMsg:
		cmd := m.ctrl.HandleChatsLoaded(msg)
		m.refreshViewport(false)
		return m, cmd

	case session.ChatCreatedMsg:
		cmd := m.ctrl.HandleChatCreated(msg)
		m.refreshViewport(true)
		return m, cmd

	case session.SendResultMsg:
		cmd := m.ctrl.HandleSendResult(msg)
		m.refreshViewport(true)
		return m, cmd

	case session.RenameResultMsg:
		return m, m.ctrl.HandleRenameResult(msg)

	case session.ChatDeletedMsg:
		cmd := m.ctrl.HandleChatDeleted(msg)
		m.refreshViewport(false)
		return m, cmd

	case session.ProjectUpdatedMsg:
		return m, m.ctrl.HandleProjectUpdated(msg)

	case session.ProjectDeletedMsg:
		cmd := m.ctrl.HandleProjectDeleted(msg)
		m.refreshViewport(false)
		return m, cmd

	case reveal.TickMsg:
		cmd := m.ctrl.HandleRevealTick(msg)
		m.refreshViewport(true)
		return m, cmd

	case FilesListedMsg:
		if msg.Err != nil {
			m.filesInfo = ""
			m.ctrl.Notice = msg.Err.Error()
		} else {
			m.filesInfo = fmt.Sprintf("%d file(s)", len(msg.Files))
		}
		return m, nil

	case FileOpMsg:
		if msg.Err != nil {
			m.ctrl.Notice = msg.Err.Error()
			return m, nil
		}
		m.ctrl.Notice = msg.Action + " " + msg.Name
		if msg.Action == "downloaded" {
			return m, nil
		}
		// Upload and delete change the listing; refresh the header count
		return m, m.listFilesCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResize lays out the widgets and rebuilds the markdown renderer so
// word wrap tracks the new viewport width.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	contentWidth := m.width - sidebarWidth - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	// header + input container + status bar
	contentHeight := m.height - 6
	if contentHeight < 3 {
		contentHeight = 3
	}

	if !m.ready {
		m.viewport = newViewport(contentWidth, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = contentHeight
	}
	m.input.Width = contentWidth - 4
	m.edit.Width = contentWidth - 4

	if m.markdown {
		if r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(contentWidth-4),
		); err == nil {
			m.renderer = r
		}
	}

	m.refreshViewport(false)
	return m
}

// handleKey routes keyboard input. While an edit line is open it captures
// everything except commit and cancel.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.editMode != editNone {
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		text := m.input.Value()
		cmd := m.ctrl.StartSend(text)
		if cmd != nil {
			m.input.SetValue("")
			m.refreshViewport(true)
		}
		return m, cmd

	case key.Matches(msg, m.keys.NewChat):
		m.ctrl.GoCompose()
		m.refreshViewport(false)
		return m, nil

	case key.Matches(msg, m.keys.NextProject):
		return m, m.selectNextProject()

	case key.Matches(msg, m.keys.PrevChat):
		return m, m.selectAdjacentChat(-1)

	case key.Matches(msg, m.keys.NextChat):
		return m, m.selectAdjacentChat(1)

	case key.Matches(msg, m.keys.Rename):
		if ch, ok := m.ctrl.ActiveChat(); ok {
			m.openEdit(editRename, "New title", ch.Title)
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteChat):
		if m.ctrl.ActiveChatID != "" {
			return m, m.ctrl.DeleteChat(m.ctrl.ActiveChatID)
		}
		return m, nil

	case key.Matches(msg, m.keys.NewProject):
		m.openEdit(editNewProject, "Project name", "")
		return m, nil

	case key.Matches(msg, m.keys.EditModel):
		if p, ok := m.activeProject(); ok {
			m.openEdit(editProjectModel, "Model name", p.Model)
		}
		return m, nil

	case key.Matches(msg, m.keys.EditPrompt):
		if p, ok := m.activeProject(); ok {
			m.openEdit(editProjectPrompt, "System prompt", p.SystemPrompt)
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteProject):
		if m.ctrl.ActiveProjectID != "" {
			return m, m.ctrl.DeleteProject(m.ctrl.ActiveProjectID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Files):
		return m, m.listFilesCmd()

	case key.Matches(msg, m.keys.UploadFile):
		m.openEdit(editUploadFile, "Local file path", "")
		return m, nil

	case key.Matches(msg, m.keys.DownloadFile):
		m.openEdit(editDownloadFile, "Attachment name", "")
		return m, nil

	case key.Matches(msg, m.keys.DeleteFile):
		m.openEdit(editDeleteFile, "Attachment name", "")
		return m, nil

	case key.Matches(msg, m.keys.MarkUp):
		m.toggleLastReplyReaction(overrides.MarkUp)
		return m, nil

	case key.Matches(msg, m.keys.MarkDown):
		m.toggleLastReplyReaction(overrides.MarkDown)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.Notice = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEditKey drives the secondary input line. Empty submissions cancel
// the edit without issuing anything.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeEdit()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		value := strings.TrimSpace(m.edit.Value())
		mode := m.editMode
		m.closeEdit()
		if value == "" {
			return m, nil
		}
		switch mode {
		case editRename:
			return m, m.ctrl.RenameChat(m.ctrl.ActiveChatID, value)
		case editNewProject:
			return m, m.ctrl.CreateProject(value)
		case editProjectModel:
			return m, m.ctrl.UpdateProject(m.ctrl.ActiveProjectID, model.ProjectUpdate{Model: &value})
		case editProjectPrompt:
			return m, m.ctrl.UpdateProject(m.ctrl.ActiveProjectID, model.ProjectUpdate{SystemPrompt: &value})
		case editUploadFile:
			return m, m.uploadFileCmd(value)
		case editDownloadFile:
			return m, m.downloadFileCmd(value)
		case editDeleteFile:
			return m, m.deleteFileCmd(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

// openEdit focuses the secondary input line in the given mode.
func (m *Model) openEdit(mode editMode, placeholder, value string) {
	m.editMode = mode
	m.edit.Placeholder = placeholder
	m.edit.SetValue(value)
	m.edit.Focus()
	m.input.Blur()
}

func (m *Model) closeEdit() {
	m.editMode = editNone
	m.edit.Blur()
	m.edit.SetValue("")
	m.input.Focus()
}

// activeProject returns the full record of the active project.
func (m *Model) activeProject() (model.Project, bool) {
	for _, p := range m.ctrl.Projects {
		if p.ID == m.ctrl.ActiveProjectID {
			return p, true
		}
	}
	return model.Project{}, false
}

// selectNextProject cycles through the project tabs.
func (m *Model) selectNextProject() tea.Cmd {
	projects := m.ctrl.Projects
	if len(projects) < 2 {
		return nil
	}
	for i, p := range projects {
		if p.ID == m.ctrl.ActiveProjectID {
			next := projects[(i+1)%len(projects)]
			cmd := m.ctrl.SelectProject(next.ID)
			m.refreshViewport(false)
			return cmd
		}
	}
	cmd := m.ctrl.SelectProject(projects[0].ID)
	m.refreshViewport(false)
	return cmd
}

// selectAdjacentChat moves the selection in the sidebar. From the compose
// view, moving selects the first chat.
func (m *Model) selectAdjacentChat(delta int) tea.Cmd {
	chats := m.ctrl.Chats
	if len(chats) == 0 {
		return nil
	}

	idx := -1
	for i, ch := range chats {
		if ch.ID == m.ctrl.ActiveChatID {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
	} else {
		idx += delta
		if idx < 0 || idx >= len(chats) {
			return nil
		}
	}

	cmd := m.ctrl.SelectChat(chats[idx].ID)
	m.refreshViewport(false)
	return cmd
}

// toggleLastReplyReaction marks the most recent assistant message.
func (m *Model) toggleLastReplyReaction(mark string) {
	if i := model.LastAssistantIndex(m.ctrl.Messages); i >= 0 && !m.ctrl.Messages[i].IsPlaceholder() {
		m.ctrl.ToggleReaction(i, mark)
	}
}
