// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRemoteClientDispatch(t *testing.T) {
	var gotMethod, gotPath, gotContentType string
	var gotBody RenameBody

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(OKEnvelope{OK: true})
	}))
	defer srv.Close()

	c := NewRemoteClient(RemoteConfig{BaseURL: srv.URL})
	data, err := c.Do(context.Background(), Request{
		Op:        OpRenameChat,
		ProjectID: "p1",
		ChatID:    "c1",
		Body:      RenameBody{Title: "X"},
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	if gotMethod != "POST" || gotPath != "/projects/p1/chats/c1/rename" {
		t.Errorf("dispatched %s %s, want POST /projects/p1/chats/c1/rename", gotMethod, gotPath)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotBody.Title != "X" {
		t.Errorf("body title = %q, want X", gotBody.Title)
	}

	var ok OKEnvelope
	if err := Decode(data, &ok); err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if !ok.OK {
		t.Error("expected ok response")
	}
}

func TestRemoteClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"unknown project"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewRemoteClient(RemoteConfig{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), Request{Op: OpListChats, ProjectID: "missing"})
	if err == nil {
		t.Fatal("expected error")
	}

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if se.Code != 404 {
		t.Errorf("Code = %d, want 404", se.Code)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
}

func TestRemoteClientTransportError(t *testing.T) {
	// Nothing listens here
	c := NewRemoteClient(RemoteConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Do(context.Background(), Request{Op: OpListProjects})
	if !IsTransport(err) {
		t.Errorf("error = %v, want TransportError", err)
	}
}

func TestRemoteClientUpload(t *testing.T) {
	var gotName string
	var gotData []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		gotName = header.Filename
		buf := make([]byte, header.Size)
		f.Read(buf)
		gotData = buf
		json.NewEncoder(w).Encode(OKEnvelope{OK: true})
	}))
	defer srv.Close()

	c := NewRemoteClient(RemoteConfig{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), Request{
		Op:        OpUploadFile,
		ProjectID: "p1",
		FileName:  "report.pdf",
		Upload:    []byte("pdf bytes"),
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if gotName != "report.pdf" || string(gotData) != "pdf bytes" {
		t.Errorf("upload arrived as %q/%q", gotName, gotData)
	}
}

func TestDecodeError(t *testing.T) {
	var env ProjectsEnvelope
	err := Decode([]byte("not json"), &env)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error type = %T, want *DecodeError", err)
	}
}
