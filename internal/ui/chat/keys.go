// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the dashboard's main terminal view.
//
// This file defines keyboard bindings for the chat interface along with
// help text generation for the status bar.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
type KeyMap struct {
	Submit        key.Binding
	NewChat       key.Binding
	NextProject   key.Binding
	PrevChat      key.Binding
	NextChat      key.Binding
	Rename        key.Binding
	DeleteChat    key.Binding
	NewProject    key.Binding
	EditModel     key.Binding
	EditPrompt    key.Binding
	DeleteProject key.Binding
	Files         key.Binding
	UploadFile    key.Binding
	DownloadFile  key.Binding
	DeleteFile    key.Binding
	MarkUp        key.Binding
	MarkDown      key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Cancel        key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		NextProject: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("C-p", "next project"),
		),
		PrevChat: key.NewBinding(
			key.WithKeys("ctrl+k", "alt+up"),
			key.WithHelp("C-k", "previous chat"),
		),
		NextChat: key.NewBinding(
			key.WithKeys("ctrl+j", "alt+down"),
			key.WithHelp("C-j", "next chat"),
		),
		Rename: key.NewBinding(
			key.WithKeys("ctrl+r", "f2"),
			key.WithHelp("C-r", "rename chat"),
		),
		DeleteChat: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("C-d", "delete chat"),
		),
		NewProject: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("C-g", "new project"),
		),
		EditModel: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "project model"),
		),
		EditPrompt: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "system prompt"),
		),
		DeleteProject: key.NewBinding(
			key.WithKeys("alt+x"),
			key.WithHelp("M-x", "delete project"),
		),
		Files: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "project files"),
		),
		UploadFile: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "upload file"),
		),
		DownloadFile: key.NewBinding(
			key.WithKeys("alt+o"),
			key.WithHelp("M-o", "download file"),
		),
		DeleteFile: key.NewBinding(
			key.WithKeys("alt+r"),
			key.WithHelp("M-r", "delete file"),
		),
		MarkUp: key.NewBinding(
			key.WithKeys("alt+u"),
			key.WithHelp("M-u", "mark reply up"),
		),
		MarkDown: key.NewBinding(
			key.WithKeys("alt+d"),
			key.WithHelp("M-d", "mark reply down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.NewChat, k.NextProject, k.Rename, k.Quit}
}
