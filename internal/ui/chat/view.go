// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Azichi/AI-Dashboard/internal/model"
	"github.com/Azichi/AI-Dashboard/internal/overrides"
)

const sidebarWidth = 28

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return vp
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full dashboard frame.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderSidebar(),
		m.viewport.View(),
	)
	input := m.renderInput()
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, input, status)
}

// renderHeader shows the project tabs and the attachment count.
func (m Model) renderHeader() string {
	var tabs []string
	for _, p := range m.ctrl.Projects {
		name := runewidth.Truncate(p.Name, 20, "…")
		if p.ID == m.ctrl.ActiveProjectID {
			tabs = append(tabs, m.theme.ProjectTabActive.Render(name))
		} else {
			tabs = append(tabs, m.theme.ProjectTab.Render(name))
		}
	}

	left := m.theme.HeaderTitle.Render("AI Dashboard")
	row := left + "  " + strings.Join(tabs, " ")
	if m.filesInfo != "" {
		row += "  " + m.theme.HeaderMeta.Render(m.filesInfo)
	}
	return m.theme.Header.Width(m.width).Render(row)
}

// renderSidebar lists the active project's chats, newest first.
func (m Model) renderSidebar() string {
	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render("Chats"))
	b.WriteString("\n")

	if len(m.ctrl.Chats) == 0 {
		b.WriteString(m.theme.SidebarMeta.Render("(no chats yet)"))
	}
	for _, ch := range m.ctrl.Chats {
		title := ch.Title
		if title == "" {
			title = model.DefaultChatTitle
		}
		line := runewidth.Truncate(title, sidebarWidth-4, "…")
		if ch.ID == m.ctrl.ActiveChatID {
			b.WriteString(m.theme.SidebarSelected.Render("▸ " + line))
		} else {
			b.WriteString(m.theme.SidebarItem.Render("  " + line))
		}
		b.WriteString("\n")
	}

	return m.theme.Sidebar.
		Width(sidebarWidth).
		Height(m.viewport.Height).
		Render(b.String())
}

// refreshViewport rebuilds the conversation pane from controller state.
func (m *Model) refreshViewport(gotoBottom bool) {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

// renderMessages renders the active conversation. Assistant replies go
// through the markdown renderer once the reveal has finished; a partial
// reveal is shown as plain text so re-rendering stays cheap per tick.
func (m Model) renderMessages() string {
	msgs := m.ctrl.Messages
	if len(msgs) == 0 {
		if m.ctrl.ActiveChatID == "" {
			return m.theme.ThinkingText.Render("\n  Start a new conversation. Enter sends, Ctrl+Q quits.")
		}
		return ""
	}

	bubbleWidth := m.viewport.Width - 8
	if bubbleWidth < 16 {
		bubbleWidth = 16
	}

	var parts []string
	for i, msg := range msgs {
		parts = append(parts, m.renderMessage(i, msg, bubbleWidth))
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderMessage(index int, msg model.Message, width int) string {
	if msg.Role == model.RoleUser {
		return m.theme.UserBubble.MaxWidth(width).Render(msg.Content)
	}

	if msg.IsPlaceholder() {
		return m.spinner.View() + m.theme.ThinkingText.Render(" thinking...")
	}

	if strings.HasPrefix(msg.Content, "Error: ") {
		return m.theme.ErrorBubble.MaxWidth(width).Render(msg.Content)
	}

	content := msg.Content
	revealing := m.ctrl.Revealing() && index == model.LastAssistantIndex(m.ctrl.Messages)
	if m.renderer != nil && !revealing {
		if rendered, err := m.renderer.Render(content); err == nil {
			content = strings.TrimRight(rendered, "\n")
		}
	}

	out := m.theme.AssistantBubble.MaxWidth(width).Render(content)
	if mark, ok := m.ctrl.Reactions[index]; ok {
		badge := "▲"
		if mark == overrides.MarkDown {
			badge = "▼"
		}
		out += "\n" + m.theme.ReactionMark.Render("  "+badge)
	}
	return out
}

// renderInput shows either the composer or the secondary edit line.
func (m Model) renderInput() string {
	if m.editMode != editNone {
		label := "Rename chat"
		switch m.editMode {
		case editNewProject:
			label = "New project"
		case editProjectModel:
			label = "Project model"
		case editProjectPrompt:
			label = "System prompt"
		case editUploadFile:
			label = "Upload file"
		case editDownloadFile:
			label = "Download file"
		case editDeleteFile:
			label = "Delete file"
		}
		line := m.theme.InputPrompt.Render(label+": ") + m.edit.View()
		return m.theme.InputContainer.Width(m.width).Render(line)
	}
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

// renderStatusBar shows the mode, transient notices, and key hints.
func (m Model) renderStatusBar() string {
	var parts []string

	mode := m.theme.ModeRemote.Render(m.modeLabel)
	if m.modeLabel == "local" {
		mode = m.theme.ModeLocal.Render(m.modeLabel)
	}
	parts = append(parts, mode)

	if m.ctrl.Sending() {
		parts = append(parts, m.spinner.View()+"sending")
	}
	if m.ctrl.Notice != "" {
		parts = append(parts, m.theme.StatusNotice.Render(runewidth.Truncate(m.ctrl.Notice, m.width/2, "…")))
	}

	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, m.theme.ShortcutKey.Render(h.Key)+" "+m.theme.ShortcutDesc.Render(h.Desc))
	}
	parts = append(parts, strings.Join(hints, "  "))

	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  │  "))
}
