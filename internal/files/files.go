// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package files wraps the backing store's opaque file routes with typed
// calls. Files are plain project attachments; there is no consistency
// machinery here, the adapter passes bytes through unchanged.
package files

import (
	"context"

	"github.com/Azichi/AI-Dashboard/internal/api"
)

// Service performs file operations under a project.
type Service struct {
	client api.Client
}

// New creates a file service over a backing store client.
func New(client api.Client) *Service {
	return &Service{client: client}
}

// List returns the files stored under a project.
func (s *Service) List(ctx context.Context, projectID string) ([]api.FileInfo, error) {
	data, err := s.client.Do(ctx, api.Request{Op: api.OpListFiles, ProjectID: projectID})
	if err != nil {
		return nil, err
	}

	var env api.FilesEnvelope
	if err := api.Decode(data, &env); err != nil {
		return nil, err
	}
	return env.Files, nil
}

// Upload stores a file under a project.
func (s *Service) Upload(ctx context.Context, projectID, name string, data []byte) error {
	_, err := s.client.Do(ctx, api.Request{
		Op:        api.OpUploadFile,
		ProjectID: projectID,
		FileName:  name,
		Upload:    data,
	})
	return err
}

// Download returns a stored file's raw bytes.
func (s *Service) Download(ctx context.Context, projectID, name string) ([]byte, error) {
	return s.client.Do(ctx, api.Request{
		Op:        api.OpDownloadFile,
		ProjectID: projectID,
		FileName:  name,
	})
}

// Delete removes a stored file.
func (s *Service) Delete(ctx context.Context, projectID, name string) error {
	_, err := s.client.Do(ctx, api.Request{
		Op:        api.OpDeleteFile,
		ProjectID: projectID,
		FileName:  name,
	})
	return err
}
