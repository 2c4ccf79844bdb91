// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Azichi/AI-Dashboard/internal/model"
	"github.com/Azichi/AI-Dashboard/internal/store"
)

// =============================================================================
// LOCAL CLIENT
// =============================================================================

// LocalClient serves the adapter contract from the local-emulation store.
// It reproduces the remote implementation's failure modes exactly: a path
// referencing an absent entity fails with a 404-coded StatusError carrying
// the same error text the service would return.
type LocalClient struct {
	store *store.Store
}

// NewLocalClient creates a local client over an opened store.
func NewLocalClient(s *store.Store) *LocalClient {
	return &LocalClient{store: s}
}

// Do implements Client.
func (c *LocalClient) Do(ctx context.Context, req Request) ([]byte, error) {
	// The store is synchronous; honor cancellation before touching it
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Cause: err}
	}

	data, err := c.dispatch(req)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return data, nil
}

// dispatch executes one operation against the store and encodes the same
// wire envelope the remote service produces.
func (c *LocalClient) dispatch(req Request) ([]byte, error) {
	switch req.Op {
	case OpListProjects:
		projects, err := c.store.ListProjects()
		if err != nil {
			return nil, err
		}
		return marshal(ProjectsEnvelope{Projects: projects})

	case OpCreateProject:
		var body CreateProjectBody
		if err := rebind(req.Body, &body); err != nil {
			return nil, err
		}
		p, err := c.store.CreateProject(body.Name)
		if err != nil {
			return nil, err
		}
		return marshal(ProjectEnvelope{Project: p})

	case OpUpdateProject:
		var upd model.ProjectUpdate
		if err := rebind(req.Body, &upd); err != nil {
			return nil, err
		}
		p, err := c.store.UpdateProject(req.ProjectID, upd)
		if err != nil {
			return nil, err
		}
		return marshal(ProjectEnvelope{Project: p})

	case OpDeleteProject:
		if err := c.store.DeleteProject(req.ProjectID); err != nil {
			return nil, err
		}
		return marshal(OKEnvelope{OK: true})

	case OpListChats:
		chats, err := c.store.ListChats(req.ProjectID)
		if err != nil {
			return nil, err
		}
		return marshal(ChatsEnvelope{Chats: chats})

	case OpCreateChat:
		var body CreateChatBody
		if err := rebind(req.Body, &body); err != nil {
			return nil, err
		}
		chat, err := c.store.CreateChat(req.ProjectID, body.Title)
		if err != nil {
			return nil, err
		}
		return marshal(ChatEnvelope{Chat: chat})

	case OpDeleteChat:
		if err := c.store.DeleteChat(req.ProjectID, req.ChatID); err != nil {
			return nil, err
		}
		return marshal(OKEnvelope{OK: true})

	case OpRenameChat:
		var body RenameBody
		if err := rebind(req.Body, &body); err != nil {
			return nil, err
		}
		if err := c.store.RenameChat(req.ProjectID, req.ChatID, body.Title); err != nil {
			return nil, err
		}
		return marshal(OKEnvelope{OK: true})

	case OpPostMessage:
		var body MessageBody
		if err := rebind(req.Body, &body); err != nil {
			return nil, err
		}
		reply, err := c.store.PostMessage(req.ProjectID, req.ChatID, body.Content)
		if err != nil {
			return nil, err
		}
		return marshal(ReplyEnvelope{Reply: reply})

	case OpListFiles:
		files, err := c.store.ListFiles(req.ProjectID)
		if err != nil {
			return nil, err
		}
		infos := make([]FileInfo, len(files))
		for i, f := range files {
			infos[i] = FileInfo{Name: f.Name, Size: f.Size}
		}
		return marshal(FilesEnvelope{Files: infos})

	case OpUploadFile:
		if err := c.store.SaveFile(req.ProjectID, req.FileName, req.Upload); err != nil {
			return nil, err
		}
		return marshal(OKEnvelope{OK: true})

	case OpDownloadFile:
		return c.store.ReadFile(req.ProjectID, req.FileName)

	case OpDeleteFile:
		if err := c.store.DeleteFile(req.ProjectID, req.FileName); err != nil {
			return nil, err
		}
		return marshal(OKEnvelope{OK: true})

	default:
		return nil, fmt.Errorf("unknown operation %d", int(req.Op))
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// mapStoreError converts store sentinels into the adapter taxonomy so the
// two implementations are indistinguishable to callers.
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrUnknownProject),
		errors.Is(err, store.ErrUnknownChat),
		errors.Is(err, store.ErrUnknownFile):
		return &StatusError{Code: 404, Body: err.Error()}
	default:
		return &TransportError{Cause: err}
	}
}

func marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// rebind converts an arbitrary request body into the concrete wire type,
// the same round trip the remote path performs over HTTP.
func rebind(body, into any) error {
	if body == nil {
		return nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, into)
}
