// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package repo provides typed CRUD operations over projects and chats,
// built atop the backing store adapter. It owns default-entity
// bootstrapping and converts adapter errors into the user-level taxonomy.
package repo

import (
	"context"

	"github.com/Azichi/AI-Dashboard/internal/api"
	"github.com/Azichi/AI-Dashboard/internal/model"
)

// DefaultProjectName is the project created when none exist yet.
const DefaultProjectName = "Default"

// =============================================================================
// REPOSITORY
// =============================================================================

// Repository wraps a backing store client with typed operations. It is
// agnostic to whether the client is the remote or local implementation.
type Repository struct {
	client api.Client
}

// New creates a repository over a backing store client.
func New(client api.Client) *Repository {
	return &Repository{client: client}
}

// =============================================================================
// PROJECT OPERATIONS
// =============================================================================

// ListProjects returns all projects.
func (r *Repository) ListProjects(ctx context.Context) ([]model.Project, error) {
	data, err := r.client.Do(ctx, api.Request{Op: api.OpListProjects})
	if err != nil {
		return nil, classify(err)
	}

	var env api.ProjectsEnvelope
	if err := api.Decode(data, &env); err != nil {
		return nil, classify(err)
	}
	return env.Projects, nil
}

// CreateProject creates a project with the given name.
func (r *Repository) CreateProject(ctx context.Context, name string) (model.Project, error) {
	if name == "" {
		return model.Project{}, &Error{Kind: FailureValidation, Message: "project name is empty"}
	}

	data, err := r.client.Do(ctx, api.Request{
		Op:   api.OpCreateProject,
		Body: api.CreateProjectBody{Name: name},
	})
	if err != nil {
		return model.Project{}, classify(err)
	}

	var env api.ProjectEnvelope
	if err := api.Decode(data, &env); err != nil {
		return model.Project{}, classify(err)
	}
	return env.Project, nil
}

// UpdateProject applies a partial-field update. Unset fields are never
// overwritten.
func (r *Repository) UpdateProject(ctx context.Context, id string, upd model.ProjectUpdate) (model.Project, error) {
	data, err := r.client.Do(ctx, api.Request{
		Op:        api.OpUpdateProject,
		ProjectID: id,
		Body:      upd,
	})
	if err != nil {
		return model.Project{}, classify(err)
	}

	var env api.ProjectEnvelope
	if err := api.Decode(data, &env); err != nil {
		return model.Project{}, classify(err)
	}
	return env.Project, nil
}

// DeleteProject deletes a project; the backing store cascades to its chats.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	_, err := r.client.Do(ctx, api.Request{Op: api.OpDeleteProject, ProjectID: id})
	if err != nil {
		return classify(err)
	}
	return nil
}

// EnsureDefaultProject lists projects, creating a default one first when
// the backing store holds none. The returned list is never empty on
// success.
func (r *Repository) EnsureDefaultProject(ctx context.Context) ([]model.Project, error) {
	projects, err := r.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	if len(projects) > 0 {
		return projects, nil
	}

	created, err := r.CreateProject(ctx, DefaultProjectName)
	if err != nil {
		return nil, err
	}
	return []model.Project{created}, nil
}

// =============================================================================
// CHAT OPERATIONS
// =============================================================================

// ListChats returns a project's chats, most recently updated first.
func (r *Repository) ListChats(ctx context.Context, projectID string) ([]model.Chat, error) {
	data, err := r.client.Do(ctx, api.Request{Op: api.OpListChats, ProjectID: projectID})
	if err != nil {
		return nil, classify(err)
	}

	var env api.ChatsEnvelope
	if err := api.Decode(data, &env); err != nil {
		return nil, classify(err)
	}
	return env.Chats, nil
}

// CreateChat creates a chat under a project. An empty title lets the
// backing store assign the default.
func (r *Repository) CreateChat(ctx context.Context, projectID, title string) (model.Chat, error) {
	data, err := r.client.Do(ctx, api.Request{
		Op:        api.OpCreateChat,
		ProjectID: projectID,
		Body:      api.CreateChatBody{Title: title},
	})
	if err != nil {
		return model.Chat{}, classify(err)
	}

	var env api.ChatEnvelope
	if err := api.Decode(data, &env); err != nil {
		return model.Chat{}, classify(err)
	}
	return env.Chat, nil
}

// DeleteChat removes one chat.
func (r *Repository) DeleteChat(ctx context.Context, projectID, chatID string) error {
	_, err := r.client.Do(ctx, api.Request{
		Op:        api.OpDeleteChat,
		ProjectID: projectID,
		ChatID:    chatID,
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// RenameChat sets a chat's title.
func (r *Repository) RenameChat(ctx context.Context, projectID, chatID, title string) error {
	_, err := r.client.Do(ctx, api.Request{
		Op:        api.OpRenameChat,
		ProjectID: projectID,
		ChatID:    chatID,
		Body:      api.RenameBody{Title: title},
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// SendMessage posts a user message and returns the complete assistant
// reply text.
func (r *Repository) SendMessage(ctx context.Context, projectID, chatID, content string) (string, error) {
	data, err := r.client.Do(ctx, api.Request{
		Op:        api.OpPostMessage,
		ProjectID: projectID,
		ChatID:    chatID,
		Body:      api.MessageBody{Content: content},
	})
	if err != nil {
		return "", classify(err)
	}

	var env api.ReplyEnvelope
	if err := api.Decode(data, &env); err != nil {
		return "", classify(err)
	}
	return env.Reply, nil
}
