// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package overrides is the local override layer: durable maps of chat
// title renames and message reactions that survive server failures. On
// read, an override value takes precedence over the server-origin field.
// Overrides are written optimistically and never cleared automatically; a
// successful authoritative rename re-upserts the same value so reads stay
// consistent.
package overrides

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Azichi/AI-Dashboard/internal/model"
)

// Reaction marks.
const (
	MarkUp   = "up"
	MarkDown = "down"
)

// =============================================================================
// STORE
// =============================================================================

// Store holds the override maps in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the override database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// initSchema creates the override tables.
func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS chat_titles (
		project_id TEXT NOT NULL,
		chat_id    TEXT NOT NULL,
		title      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (project_id, chat_id)
	);
	CREATE TABLE IF NOT EXISTS reactions (
		project_id    TEXT NOT NULL,
		chat_id       TEXT NOT NULL,
		message_index INTEGER NOT NULL,
		mark          TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		PRIMARY KEY (project_id, chat_id, message_index)
	);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// =============================================================================
// TITLE OVERRIDES
// =============================================================================

// SetTitle upserts a title override for (projectID, chatID).
func (s *Store) SetTitle(projectID, chatID, title string) error {
	_, err := s.db.Exec(`
		INSERT INTO chat_titles (project_id, chat_id, title, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id, chat_id)
		DO UPDATE SET title = excluded.title, updated_at = excluded.updated_at`,
		projectID, chatID, title, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Title returns the override title for (projectID, chatID), if one exists.
func (s *Store) Title(projectID, chatID string) (string, bool, error) {
	var title string
	err := s.db.QueryRow(`
		SELECT title FROM chat_titles WHERE project_id = ? AND chat_id = ?`,
		projectID, chatID).Scan(&title)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return title, true, nil
}

// Titles returns all title overrides for a project, keyed by chat ID.
func (s *Store) Titles(projectID string) (map[string]string, error) {
	rows, err := s.db.Query(`
		SELECT chat_id, title FROM chat_titles WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := make(map[string]string)
	for rows.Next() {
		var chatID, title string
		if err := rows.Scan(&chatID, &title); err != nil {
			return nil, err
		}
		titles[chatID] = title
	}
	return titles, rows.Err()
}

// ApplyTitles merges title overrides over a server-origin chat list.
// Server titles are replaced in place wherever an override exists.
func (s *Store) ApplyTitles(projectID string, chats []model.Chat) ([]model.Chat, error) {
	titles, err := s.Titles(projectID)
	if err != nil {
		return chats, err
	}
	for i := range chats {
		if t, ok := titles[chats[i].ID]; ok {
			chats[i].Title = t
		}
	}
	return chats, nil
}

// =============================================================================
// REACTION OVERRIDES
// =============================================================================

// SetReaction upserts a reaction mark for one message. An empty mark
// removes the reaction (toggle off).
func (s *Store) SetReaction(projectID, chatID string, messageIndex int, mark string) error {
	if mark == "" {
		_, err := s.db.Exec(`
			DELETE FROM reactions
			WHERE project_id = ? AND chat_id = ? AND message_index = ?`,
			projectID, chatID, messageIndex)
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO reactions (project_id, chat_id, message_index, mark, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (project_id, chat_id, message_index)
		DO UPDATE SET mark = excluded.mark, updated_at = excluded.updated_at`,
		projectID, chatID, messageIndex, mark, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Reaction returns the mark for one message, if any.
func (s *Store) Reaction(projectID, chatID string, messageIndex int) (string, bool, error) {
	var mark string
	err := s.db.QueryRow(`
		SELECT mark FROM reactions
		WHERE project_id = ? AND chat_id = ? AND message_index = ?`,
		projectID, chatID, messageIndex).Scan(&mark)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return mark, true, nil
}

// Reactions returns all reaction marks for a chat, keyed by message index.
func (s *Store) Reactions(projectID, chatID string) (map[int]string, error) {
	rows, err := s.db.Query(`
		SELECT message_index, mark FROM reactions
		WHERE project_id = ? AND chat_id = ?`, projectID, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	marks := make(map[int]string)
	for rows.Next() {
		var idx int
		var mark string
		if err := rows.Scan(&idx, &mark); err != nil {
			return nil, err
		}
		marks[idx] = mark
	}
	return marks, rows.Err()
}
