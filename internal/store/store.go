// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store is the durable local-emulation backing store. It persists
// the same record shapes the remote service stores server-side: a project
// list plus one JSON file per chat, written atomically so a concurrently
// scheduled read never observes a partial record.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Azichi/AI-Dashboard/internal/model"
	"github.com/Azichi/AI-Dashboard/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrUnknownProject is returned when a project ID is absent from the store.
// Mirrors the remote service's 404 for the same condition.
var ErrUnknownProject = &StoreError{Message: "unknown project"}

// ErrUnknownChat is returned when a chat ID is absent from the store.
var ErrUnknownChat = &StoreError{Message: "unknown chat"}

// ErrUnknownFile is returned when a file name is absent from a project.
var ErrUnknownFile = &StoreError{Message: "unknown file"}

// StoreError represents a store-level error.
// Use errors.Is to compare against the sentinel values above.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// STORE
// =============================================================================

// storedChat is the on-disk chat record. ReplyQueue holds scripted
// assistant responses consumed one per posted message; it never appears in
// responses handed to upper layers.
type storedChat struct {
	model.Chat
	ReplyQueue []string `json:"reply_queue,omitempty"`
}

// defaultReply is used when a chat's reply queue is exhausted.
const defaultReply = "This is a local demo reply. Point the client at a running dashboard API to chat with a real model."

// Store persists projects and chats under a base directory:
//
//	<base>/projects.json
//	<base>/chats/<projectID>/<chatID>.json
//	<base>/files/<projectID>/<name>
//
// A single mutex serializes writers; reads go through the same lock so a
// reconciliation fetch scheduled mid-write sees a complete record.
type Store struct {
	mu      sync.Mutex
	baseDir string
}

// Open creates a store rooted at baseDir, creating the directory if needed.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &Store{baseDir: baseDir}, nil
}

// BaseDir returns the store's root directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// =============================================================================
// PROJECT OPERATIONS
// =============================================================================

// ListProjects returns all projects.
func (s *Store) ListProjects() ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadProjects()
}

// GetProject returns one project by ID.
func (s *Store) GetProject(id string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects()
	if err != nil {
		return model.Project{}, err
	}
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Project{}, ErrUnknownProject
}

// CreateProject creates a project with a generated ID and stamped times.
func (s *Store) CreateProject(name string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects()
	if err != nil {
		return model.Project{}, err
	}

	now := time.Now().UTC()
	p := model.Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	projects = append(projects, p)

	if err := s.saveProjects(projects); err != nil {
		return model.Project{}, err
	}
	return p, nil
}

// UpdateProject merges the provided fields onto the stored record. Nil
// fields are left untouched (PATCH semantics).
func (s *Store) UpdateProject(id string, upd model.ProjectUpdate) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects()
	if err != nil {
		return model.Project{}, err
	}

	for i := range projects {
		if projects[i].ID != id {
			continue
		}
		if upd.Name != nil {
			projects[i].Name = *upd.Name
		}
		if upd.Model != nil {
			projects[i].Model = *upd.Model
		}
		if upd.SystemPrompt != nil {
			projects[i].SystemPrompt = *upd.SystemPrompt
		}
		if upd.Root != nil {
			projects[i].Root = *upd.Root
		}
		projects[i].UpdatedAt = time.Now().UTC()

		if err := s.saveProjects(projects); err != nil {
			return model.Project{}, err
		}
		return projects[i], nil
	}

	return model.Project{}, ErrUnknownProject
}

// DeleteProject removes a project and cascades to all its chats and files.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.loadProjects()
	if err != nil {
		return err
	}

	kept := projects[:0]
	found := false
	for _, p := range projects {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrUnknownProject
	}

	if err := s.saveProjects(kept); err != nil {
		return err
	}

	// Cascade: a deleted project takes its chats and files with it
	os.RemoveAll(s.chatsDir(id))
	os.RemoveAll(s.filesDir(id))
	return nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ListChats returns a project's chats, most recently updated first.
func (s *Store) ListChats(projectID string) ([]model.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.chatsDir(projectID))
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Chat{}, nil
		}
		return nil, err
	}

	chats := make([]model.Chat, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		sc, err := s.loadChat(projectID, id)
		if err != nil {
			continue // Skip corrupted files
		}
		chats = append(chats, sc.Chat)
	}

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].UpdatedAt.After(chats[j].UpdatedAt)
	})

	return chats, nil
}

// GetChat returns one chat with its full message list.
func (s *Store) GetChat(projectID, chatID string) (model.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return model.Chat{}, err
	}
	sc, err := s.loadChat(projectID, chatID)
	if err != nil {
		return model.Chat{}, err
	}
	return sc.Chat, nil
}

// CreateChat creates a chat under a project. An empty title defaults to
// "New chat".
func (s *Store) CreateChat(projectID, title string) (model.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return model.Chat{}, err
	}

	if title == "" {
		title = model.DefaultChatTitle
	}

	now := time.Now().UTC()
	sc := storedChat{
		Chat: model.Chat{
			ID:        uuid.NewString(),
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
			Messages:  []model.Message{},
		},
	}

	if err := s.saveChat(projectID, &sc); err != nil {
		return model.Chat{}, err
	}
	return sc.Chat, nil
}

// DeleteChat removes one chat.
func (s *Store) DeleteChat(projectID, chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return err
	}

	if err := os.Remove(s.chatPath(projectID, chatID)); err != nil {
		if os.IsNotExist(err) {
			return ErrUnknownChat
		}
		return err
	}
	return nil
}

// RenameChat sets a chat's title.
func (s *Store) RenameChat(projectID, chatID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return err
	}

	sc, err := s.loadChat(projectID, chatID)
	if err != nil {
		return err
	}

	sc.Title = title
	sc.UpdatedAt = time.Now().UTC()
	return s.saveChat(projectID, sc)
}

// PostMessage appends a user message, produces the assistant reply (from
// the chat's scripted reply queue, or a canned fallback once the queue is
// exhausted), appends it, and returns the reply text.
func (s *Store) PostMessage(projectID, chatID, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return "", err
	}

	sc, err := s.loadChat(projectID, chatID)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	sc.Messages = append(sc.Messages, model.Message{
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: now,
	})

	reply := defaultReply
	if len(sc.ReplyQueue) > 0 {
		reply = sc.ReplyQueue[0]
		sc.ReplyQueue = sc.ReplyQueue[1:]
	}

	sc.Messages = append(sc.Messages, model.Message{
		Role:      model.RoleAssistant,
		Content:   reply,
		Timestamp: time.Now().UTC(),
	})
	sc.UpdatedAt = time.Now().UTC()

	if err := s.saveChat(projectID, sc); err != nil {
		return "", err
	}
	return reply, nil
}

// =============================================================================
// FILE OPERATIONS
// =============================================================================

// ListFiles returns the files stored under a project.
func (s *Store) ListFiles(projectID string) ([]FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.filesDir(projectID))
	if err != nil {
		if os.IsNotExist(err) {
			return []FileInfo{}, nil
		}
		return nil, err
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: entry.Name(), Size: info.Size()})
	}
	return files, nil
}

// FileInfo describes one stored file.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// SaveFile stores a file under a project.
func (s *Store) SaveFile(projectID, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return err
	}
	name = filepath.Base(name)
	return util.AtomicWriteFile(filepath.Join(s.filesDir(projectID), name), data, 0644)
}

// ReadFile returns a stored file's content.
func (s *Store) ReadFile(projectID, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.filesDir(projectID), filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrUnknownFile
		}
		return nil, err
	}
	return data, nil
}

// DeleteFile removes a stored file.
func (s *Store) DeleteFile(projectID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProject(projectID); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.filesDir(projectID), filepath.Base(name))); err != nil {
		if os.IsNotExist(err) {
			return ErrUnknownFile
		}
		return err
	}
	return nil
}

// =============================================================================
// PERSISTENCE HELPERS
// =============================================================================

func (s *Store) projectsPath() string {
	return filepath.Join(s.baseDir, "projects.json")
}

func (s *Store) chatsDir(projectID string) string {
	return filepath.Join(s.baseDir, "chats", projectID)
}

func (s *Store) chatPath(projectID, chatID string) string {
	return filepath.Join(s.chatsDir(projectID), chatID+".json")
}

func (s *Store) filesDir(projectID string) string {
	return filepath.Join(s.baseDir, "files", projectID)
}

// loadProjects reads the project list; a missing file is an empty store.
func (s *Store) loadProjects() ([]model.Project, error) {
	data, err := os.ReadFile(s.projectsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Project{}, nil
		}
		return nil, err
	}

	var projects []model.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *Store) saveProjects(projects []model.Project) error {
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		return err
	}
	// RELIABILITY: Atomic write with fsync prevents data loss on crash
	return util.AtomicWriteFile(s.projectsPath(), data, 0644)
}

// requireProject fails with ErrUnknownProject when the ID is absent,
// mirroring the remote service's 404.
func (s *Store) requireProject(id string) error {
	projects, err := s.loadProjects()
	if err != nil {
		return err
	}
	for _, p := range projects {
		if p.ID == id {
			return nil
		}
	}
	return ErrUnknownProject
}

func (s *Store) loadChat(projectID, chatID string) (*storedChat, error) {
	data, err := os.ReadFile(s.chatPath(projectID, chatID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrUnknownChat
		}
		return nil, err
	}

	var sc storedChat
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Store) saveChat(projectID string, sc *storedChat) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.chatPath(projectID, sc.ID), data, 0644)
}
