// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Azichi/AI-Dashboard/internal/api"
	"github.com/Azichi/AI-Dashboard/internal/files"
	"github.com/Azichi/AI-Dashboard/internal/model"
	"github.com/Azichi/AI-Dashboard/internal/overrides"
	"github.com/Azichi/AI-Dashboard/internal/repo"
	"github.com/Azichi/AI-Dashboard/internal/session"
	"github.com/Azichi/AI-Dashboard/internal/store"
	"github.com/Azichi/AI-Dashboard/internal/ui/styles"
)

func newTestModel(t *testing.T) (Model, *session.Controller) {
	t.Helper()

	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	ov, err := overrides.Open(filepath.Join(t.TempDir(), "overrides.db"))
	if err != nil {
		t.Fatalf("overrides.Open() error: %v", err)
	}
	t.Cleanup(func() { ov.Close() })

	client := api.NewLocalClient(s)
	ctrl := session.New(repo.New(client), ov)
	m := New(ctrl, files.New(client), styles.NewTheme(), "local", false)

	resized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return resized.(Model), ctrl
}

// driveModel executes a command tree through Update the way the program
// loop would, returning the settled model.
func driveModel(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		res, follow := m.Update(msg)
		m = res.(Model)
		if follow != nil {
			queue = append(queue, follow)
		}
	}
	return m
}

func seedState(ctrl *session.Controller) {
	ctrl.Projects = []model.Project{
		{ID: "p1", Name: "Default"},
		{ID: "p2", Name: "Research"},
	}
	ctrl.ActiveProjectID = "p1"
	ctrl.Chats = []model.Chat{
		{ID: "c1", Title: "Greetings"},
		{ID: "c2", Title: "Second chat"},
	}
	ctrl.ActiveChatID = "c1"
	ctrl.Messages = []model.Message{
		{Role: model.RoleUser, Content: "hello", Timestamp: time.Now().UTC()},
		{Role: model.RoleAssistant, Content: "hi there", Timestamp: time.Now().UTC()},
	}
}

func TestViewRendersConversation(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)
	m.refreshViewport(false)

	out := m.View()
	for _, want := range []string{"AI Dashboard", "Default", "Research", "Greetings", "hello", "hi there", "local"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestViewComposeHint(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.ActiveChatID = ""
	ctrl.Messages = nil
	m.refreshViewport(false)

	if !strings.Contains(m.View(), "Start a new conversation") {
		t.Error("compose view should show the hint text")
	}
}

func TestPlaceholderShowsThinking(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)
	ctrl.Messages = append(ctrl.Messages, model.NewUserMessage("more"), model.NewPlaceholder())
	m.refreshViewport(false)

	if !strings.Contains(m.View(), "thinking...") {
		t.Error("placeholder should render as a thinking indicator")
	}
}

func TestErrorBubbleRendered(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)
	ctrl.Messages = append(ctrl.Messages, model.Message{
		Role: model.RoleAssistant, Content: "Error: unknown chat", Timestamp: time.Now().UTC(),
	})
	m.refreshViewport(false)

	if !strings.Contains(m.View(), "Error: unknown chat") {
		t.Error("error bubble should be visible")
	}
}

func TestSubmitClearsInput(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)

	m.input.SetValue("a question")
	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if cmd == nil {
		t.Fatal("submit should issue a command")
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared, still %q", m.input.Value())
	}
	if !ctrl.Sending() {
		t.Error("controller should be in sending state")
	}
}

func TestSubmitEmptyIsNoOp(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)

	m.input.SetValue("   ")
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("whitespace submit should be a no-op")
	}
	if ctrl.Sending() {
		t.Error("no send should be in flight")
	}
}

func TestRenameEditFlow(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	if m.editMode != editRename {
		t.Fatal("ctrl+r should open the rename line")
	}
	if m.edit.Value() != "Greetings" {
		t.Errorf("rename line prefilled with %q", m.edit.Value())
	}

	m.edit.SetValue("Better title")
	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("rename commit should issue a command")
	}
	if m.editMode != editNone {
		t.Error("edit line should be closed after commit")
	}
	if ctrl.Chats[0].Title != "Better title" {
		t.Errorf("sidebar title = %q, want optimistic update", ctrl.Chats[0].Title)
	}
}

func TestEscCancelsEdit(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if m.editMode != editNone {
		t.Error("esc should close the edit line")
	}
	if ctrl.Chats[0].Title != "Greetings" {
		t.Error("cancelled rename must not touch the sidebar")
	}
}

func TestNextProjectCycles(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)

	if cmd := m.selectNextProject(); cmd == nil {
		t.Fatal("project switch should reload chats")
	}
	if ctrl.ActiveProjectID != "p2" {
		t.Errorf("active project = %q, want p2", ctrl.ActiveProjectID)
	}
	if ctrl.ActiveChatID != "" {
		t.Error("switching projects should return to compose view")
	}
}

func TestAdjacentChatSelection(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)

	m.selectAdjacentChat(1)
	if ctrl.ActiveChatID != "c2" {
		t.Errorf("active chat = %q, want c2", ctrl.ActiveChatID)
	}

	m.selectAdjacentChat(1)
	if ctrl.ActiveChatID != "c2" {
		t.Error("selection must not run past the end of the list")
	}

	m.selectAdjacentChat(-1)
	if ctrl.ActiveChatID != "c1" {
		t.Errorf("active chat = %q, want c1", ctrl.ActiveChatID)
	}
}

func TestReactionBadgeRendered(t *testing.T) {
	m, ctrl := newTestModel(t)
	seedState(ctrl)

	m.toggleLastReplyReaction(overrides.MarkUp)
	m.refreshViewport(false)

	if !strings.Contains(m.View(), "▲") {
		t.Error("reaction badge should be visible")
	}
}

func TestProjectModelEditFlow(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = driveModel(t, m, ctrl.Bootstrap())

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlE})
	m = next.(Model)
	if m.editMode != editProjectModel {
		t.Fatal("ctrl+e should open the model edit line")
	}

	m.edit.SetValue("gpt-4o-mini")
	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("model edit commit should issue a command")
	}
	m = driveModel(t, m, cmd)

	if got := ctrl.Projects[0].Model; got != "gpt-4o-mini" {
		t.Errorf("project model = %q, want the committed value", got)
	}
}

func TestSystemPromptEditFlow(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = driveModel(t, m, ctrl.Bootstrap())

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = next.(Model)
	if m.editMode != editProjectPrompt {
		t.Fatal("ctrl+t should open the prompt edit line")
	}

	m.edit.SetValue("Answer briefly.")
	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	m = driveModel(t, m, cmd)

	if got := ctrl.Projects[0].SystemPrompt; got != "Answer briefly." {
		t.Errorf("system prompt = %q, want the committed value", got)
	}
}

func TestDeleteProjectKeyRebootstraps(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = driveModel(t, m, ctrl.Bootstrap())
	pid := ctrl.ActiveProjectID

	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("alt+x should issue a project delete")
	}
	m = driveModel(t, m, cmd)

	if ctrl.ActiveProjectID == "" || ctrl.ActiveProjectID == pid {
		t.Errorf("active project = %q after deleting %q, want a fresh default", ctrl.ActiveProjectID, pid)
	}
}

func TestFileUploadDownloadDeleteFlow(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = driveModel(t, m, ctrl.Bootstrap())

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("attachment body"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(Model)
	if m.editMode != editUploadFile {
		t.Fatal("ctrl+o should open the upload line")
	}
	m.edit.SetValue(path)
	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("upload commit should issue a command")
	}
	m = driveModel(t, m, cmd)
	if !strings.Contains(m.filesInfo, "1 file(s)") {
		t.Errorf("files info = %q after upload", m.filesInfo)
	}

	// Download lands in the working directory
	t.Chdir(t.TempDir())
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}, Alt: true})
	m = next.(Model)
	if m.editMode != editDownloadFile {
		t.Fatal("alt+o should open the download line")
	}
	m.edit.SetValue("notes.txt")
	next, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	m = driveModel(t, m, cmd)

	data, err := os.ReadFile("notes.txt")
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if string(data) != "attachment body" {
		t.Errorf("downloaded content = %q", data)
	}

	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}, Alt: true})
	m = next.(Model)
	if m.editMode != editDeleteFile {
		t.Fatal("alt+r should open the delete line")
	}
	m.edit.SetValue("notes.txt")
	next, cmd = m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	m = driveModel(t, m, cmd)
	if !strings.Contains(m.filesInfo, "0 file(s)") {
		t.Errorf("files info = %q after delete", m.filesInfo)
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("expected quit message, got %T", msg)
	}
}
