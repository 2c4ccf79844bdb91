// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the dashboard's main terminal view.
package chat

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/Azichi/AI-Dashboard/internal/api"
	"github.com/Azichi/AI-Dashboard/internal/files"
	"github.com/Azichi/AI-Dashboard/internal/session"
	"github.com/Azichi/AI-Dashboard/internal/ui/styles"
)

// =============================================================================
// EDIT MODES
// =============================================================================

// editMode says what the secondary input line is currently capturing.
type editMode int

const (
	editNone          editMode = iota
	editRename                 // renaming the active chat
	editNewProject             // naming a new project
	editProjectModel           // changing the active project's model
	editProjectPrompt          // changing the active project's system prompt
	editUploadFile             // local path of an attachment to upload
	editDownloadFile           // name of an attachment to download
	editDeleteFile             // name of an attachment to delete
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the dashboard view. All conversation
// state lives in the session controller; the model only holds widgets and
// layout.
type Model struct {
	theme *styles.Theme
	keys  KeyMap

	ctrl  *session.Controller
	files *files.Service

	// modeLabel names the backing store mode for the status bar.
	modeLabel string

	// UI components
	viewport viewport.Model
	input    textinput.Model
	edit     textinput.Model
	spinner  spinner.Model

	// Markdown rendering of assistant replies. The renderer is rebuilt on
	// resize so word wrap tracks the viewport width.
	markdown bool
	renderer *glamour.TermRenderer

	// Dimensions
	width  int
	height int
	ready  bool

	editMode editMode

	// filesInfo holds the last fetched attachment list for the header.
	filesInfo string
}

// FilesListedMsg carries the result of a project file listing.
type FilesListedMsg struct {
	ProjectID string
	Files     []api.FileInfo
	Err       error
}

// FileOpMsg carries the result of a file upload, download, or delete.
// Action is a past-tense verb for the status line.
type FileOpMsg struct {
	ProjectID string
	Action    string
	Name      string
	Err       error
}

// New creates the dashboard model.
func New(ctrl *session.Controller, fileSvc *files.Service, theme *styles.Theme, modeLabel string, markdown bool) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	edit := textinput.New()
	edit.Prompt = "> "
	edit.CharLimit = 120

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		theme:     theme,
		keys:      DefaultKeyMap(),
		ctrl:      ctrl,
		files:     fileSvc,
		modeLabel: modeLabel,
		input:     input,
		edit:      edit,
		spinner:   sp,
		markdown:  markdown,
	}
}

// Init starts the bootstrap load and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Bootstrap(), textinput.Blink, m.spinner.Tick)
}

// listFilesCmd fetches the active project's attachments.
func (m *Model) listFilesCmd() tea.Cmd {
	projectID := m.ctrl.ActiveProjectID
	svc := m.files
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		infos, err := svc.List(ctx, projectID)
		return FilesListedMsg{ProjectID: projectID, Files: infos, Err: err}
	}
}

// uploadFileCmd reads a local file and stores it under the active project.
func (m *Model) uploadFileCmd(path string) tea.Cmd {
	projectID := m.ctrl.ActiveProjectID
	svc := m.files
	return func() tea.Msg {
		name := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return FileOpMsg{ProjectID: projectID, Action: "uploaded", Name: name, Err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err = svc.Upload(ctx, projectID, name, data)
		return FileOpMsg{ProjectID: projectID, Action: "uploaded", Name: name, Err: err}
	}
}

// downloadFileCmd fetches a stored attachment into the working directory.
func (m *Model) downloadFileCmd(name string) tea.Cmd {
	projectID := m.ctrl.ActiveProjectID
	svc := m.files
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		data, err := svc.Download(ctx, projectID, name)
		if err == nil {
			err = os.WriteFile(filepath.Base(name), data, 0o644)
		}
		return FileOpMsg{ProjectID: projectID, Action: "downloaded", Name: name, Err: err}
	}
}

// deleteFileCmd removes a stored attachment.
func (m *Model) deleteFileCmd(name string) tea.Cmd {
	projectID := m.ctrl.ActiveProjectID
	svc := m.files
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := svc.Delete(ctx, projectID, name)
		return FileOpMsg{ProjectID: projectID, Action: "deleted", Name: name, Err: err}
	}
}
