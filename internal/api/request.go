// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the backing store adapter: one request/response contract
// with two interchangeable implementations, a remote HTTP client and a
// local-emulation client backed by durable storage. Call sites select one
// at startup and are otherwise agnostic to which is active.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Azichi/AI-Dashboard/internal/model"
)

// =============================================================================
// OPERATION ENUM
// =============================================================================

// Op identifies one operation of the route contract. Requests carry an Op
// rather than a path string; each implementation maps the Op to its own
// dispatch (URL template or store call).
type Op int

const (
	OpListProjects Op = iota
	OpCreateProject
	OpUpdateProject
	OpDeleteProject
	OpListChats
	OpCreateChat
	OpDeleteChat
	OpRenameChat
	OpPostMessage
	OpListFiles
	OpUploadFile
	OpDownloadFile
	OpDeleteFile
)

// String returns a short name for the operation.
func (op Op) String() string {
	switch op {
	case OpListProjects:
		return "list-projects"
	case OpCreateProject:
		return "create-project"
	case OpUpdateProject:
		return "update-project"
	case OpDeleteProject:
		return "delete-project"
	case OpListChats:
		return "list-chats"
	case OpCreateChat:
		return "create-chat"
	case OpDeleteChat:
		return "delete-chat"
	case OpRenameChat:
		return "rename-chat"
	case OpPostMessage:
		return "post-message"
	case OpListFiles:
		return "list-files"
	case OpUploadFile:
		return "upload-file"
	case OpDownloadFile:
		return "download-file"
	case OpDeleteFile:
		return "delete-file"
	default:
		return "unknown"
	}
}

// =============================================================================
// REQUEST TYPE
// =============================================================================

// Request is one call against the backing store. ProjectID, ChatID, and
// FileName are required only where the operation's route references them.
// Body is JSON-encoded for mutating operations; Upload carries raw file
// content for OpUploadFile (file operations pass through opaquely).
type Request struct {
	Op        Op
	ProjectID string
	ChatID    string
	FileName  string
	Body      any
	Upload    []byte
}

// Client is the single contract both backing store implementations satisfy.
// Do returns the raw response body on success, or a *TransportError,
// *StatusError, or *DecodeError.
type Client interface {
	Do(ctx context.Context, req Request) ([]byte, error)
}

// =============================================================================
// ROUTE TABLE
// =============================================================================

// route holds the HTTP shape of one operation. Path is a template with
// %s placeholders filled from the request's IDs, in order.
type route struct {
	method string
	path   string
}

var routes = map[Op]route{
	OpListProjects:  {"GET", "/projects"},
	OpCreateProject: {"POST", "/projects"},
	OpUpdateProject: {"PUT", "/projects/%s"},
	OpDeleteProject: {"DELETE", "/projects/%s"},
	OpListChats:     {"GET", "/projects/%s/chats"},
	OpCreateChat:    {"POST", "/projects/%s/chats"},
	OpDeleteChat:    {"DELETE", "/projects/%s/chats/%s"},
	OpRenameChat:    {"POST", "/projects/%s/chats/%s/rename"},
	OpPostMessage:   {"POST", "/projects/%s/chats/%s/message"},
	OpListFiles:     {"GET", "/projects/%s/files"},
	OpUploadFile:    {"POST", "/projects/%s/files"},
	OpDownloadFile:  {"GET", "/projects/%s/files/%s"},
	OpDeleteFile:    {"DELETE", "/projects/%s/files/%s"},
}

// resolve returns the method and concrete path for a request.
func (r Request) resolve() (method, path string, err error) {
	rt, ok := routes[r.Op]
	if !ok {
		return "", "", fmt.Errorf("unknown operation %d", int(r.Op))
	}

	args := make([]any, 0, 2)
	switch r.Op {
	case OpListProjects, OpCreateProject:
		// no path parameters
	case OpDeleteChat, OpRenameChat, OpPostMessage:
		args = append(args, url.PathEscape(r.ProjectID), url.PathEscape(r.ChatID))
	case OpDownloadFile, OpDeleteFile:
		args = append(args, url.PathEscape(r.ProjectID), url.PathEscape(r.FileName))
	default:
		args = append(args, url.PathEscape(r.ProjectID))
	}

	return rt.method, fmt.Sprintf(rt.path, args...), nil
}

// =============================================================================
// WIRE BODIES AND ENVELOPES
// =============================================================================

// CreateProjectBody is the body for OpCreateProject.
type CreateProjectBody struct {
	Name string `json:"name"`
}

// CreateChatBody is the body for OpCreateChat.
type CreateChatBody struct {
	Title string `json:"title,omitempty"`
}

// RenameBody is the body for OpRenameChat.
type RenameBody struct {
	Title string `json:"title"`
}

// MessageBody is the body for OpPostMessage.
type MessageBody struct {
	Content string `json:"content"`
}

// ProjectEnvelope wraps a single project response.
type ProjectEnvelope struct {
	Project model.Project `json:"project"`
}

// ProjectsEnvelope wraps a project list response.
type ProjectsEnvelope struct {
	Projects []model.Project `json:"projects"`
}

// ChatEnvelope wraps a single chat response.
type ChatEnvelope struct {
	Chat model.Chat `json:"chat"`
}

// ChatsEnvelope wraps a chat list response.
type ChatsEnvelope struct {
	Chats []model.Chat `json:"chats"`
}

// OKEnvelope wraps an acknowledgement response.
type OKEnvelope struct {
	OK bool `json:"ok"`
}

// ReplyEnvelope wraps a message-post response.
type ReplyEnvelope struct {
	Reply string `json:"reply"`
}

// FileInfo describes one stored file.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FilesEnvelope wraps a file list response.
type FilesEnvelope struct {
	Files []FileInfo `json:"files"`
}

// Decode unmarshals a response body into v, converting failures into
// *DecodeError so callers see the adapter taxonomy.
func Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &DecodeError{Cause: err}
	}
	return nil
}
