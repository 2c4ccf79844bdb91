// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repo

import (
	"errors"

	"github.com/Azichi/AI-Dashboard/internal/api"
)

// =============================================================================
// USER-LEVEL ERROR TAXONOMY
// =============================================================================

// FailureKind classifies repository failures for the session layer.
type FailureKind int

const (
	// FailureNotFound: unknown project/chat ID. Surfaced inline, the
	// operation is abandoned, no retry.
	FailureNotFound FailureKind = iota

	// FailureTransport: backing store unreachable or answered garbage.
	// Surfaced inline with the raw failure text, no automatic retry.
	FailureTransport

	// FailureValidation: empty/invalid input, rejected before any round
	// trip. Callers treat it as a silent no-op.
	FailureValidation
)

// String returns a short name for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureNotFound:
		return "not found"
	case FailureTransport:
		return "transport failure"
	case FailureValidation:
		return "validation failure"
	default:
		return "unknown"
	}
}

// Error is a classified repository failure.
type Error struct {
	Kind    FailureKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return e.Kind.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a NotFound repository failure.
func IsNotFound(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == FailureNotFound
}

// IsTransport reports whether err is a transport repository failure.
func IsTransport(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == FailureTransport
}

// IsValidation reports whether err is a validation repository failure.
func IsValidation(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == FailureValidation
}

// classify maps adapter errors onto the user-level taxonomy. A 404 status
// from either implementation is NotFound; everything else the adapter can
// produce (connection failure, bad status, undecodable body) surfaces as a
// transport failure with its raw text preserved.
func classify(err error) error {
	var se *api.StatusError
	if errors.As(err, &se) && se.Code == 404 {
		return &Error{Kind: FailureNotFound, Message: se.Body, Cause: err}
	}
	return &Error{Kind: FailureTransport, Message: err.Error(), Cause: err}
}
