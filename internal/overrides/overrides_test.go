// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package overrides

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azichi/AI-Dashboard/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "overrides.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTitleOverrideWinsOverServerTitle(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetTitle("p1", "c1", "B"))

	chats := []model.Chat{
		{ID: "c1", Title: "A"},
		{ID: "c2", Title: "untouched"},
	}
	merged, err := s.ApplyTitles("p1", chats)
	require.NoError(t, err)

	assert.Equal(t, "B", merged[0].Title, "override must win over server title")
	assert.Equal(t, "untouched", merged[1].Title)
}

func TestSetTitleUpserts(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetTitle("p1", "c1", "first"))
	require.NoError(t, s.SetTitle("p1", "c1", "second"))

	title, ok, err := s.Title("p1", "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", title)
}

func TestTitleMissing(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Title("p1", "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTitlesScopedByProject(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetTitle("p1", "c1", "one"))
	require.NoError(t, s.SetTitle("p2", "c1", "two"))

	titles, err := s.Titles("p1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c1": "one"}, titles)
}

func TestReactionLifecycle(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetReaction("p1", "c1", 3, MarkUp))

	mark, ok, err := s.Reaction("p1", "c1", 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, MarkUp, mark)

	// Flip
	require.NoError(t, s.SetReaction("p1", "c1", 3, MarkDown))
	mark, _, _ = s.Reaction("p1", "c1", 3)
	assert.Equal(t, MarkDown, mark)

	// Toggle off
	require.NoError(t, s.SetReaction("p1", "c1", 3, ""))
	_, ok, err = s.Reaction("p1", "c1", 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReactionsKeyedByMessageIndex(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SetReaction("p1", "c1", 1, MarkUp))
	require.NoError(t, s.SetReaction("p1", "c1", 4, MarkDown))
	require.NoError(t, s.SetReaction("p1", "c2", 1, MarkUp))

	marks, err := s.Reactions("p1", "c1")
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: MarkUp, 4: MarkDown}, marks)
}

func TestOverridesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SetTitle("p1", "c1", "durable"))
	require.NoError(t, s.SetReaction("p1", "c1", 0, MarkUp))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	title, ok, err := reopened.Title("p1", "c1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "durable", title)

	mark, ok, _ := reopened.Reaction("p1", "c1", 0)
	require.True(t, ok)
	assert.Equal(t, MarkUp, mark)
}
