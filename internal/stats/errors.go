// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package stats implements the two data pipelines of the service: the
// ingestion pipeline that turns a flat form submission into a stored
// record, and the projection pipeline that expands stored records back
// into labeled values. Both resolve the category schema once per
// operation through the schema resolver.
package stats

import "fmt"

// ErrorKind classifies pipeline failures for the API surface.
type ErrorKind string

const (
	ErrUnknownCategory ErrorKind = "unknown_category"
	ErrValidation      ErrorKind = "validation"
	ErrNotFound        ErrorKind = "not_found"
	ErrStorage         ErrorKind = "storage"
)

// Error is the typed result every pipeline failure is returned as. The
// message is suitable for direct display; Err carries the underlying
// storage error when there is one.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func unknownCategory(code string) *Error {
	return &Error{Kind: ErrUnknownCategory, Message: fmt.Sprintf("unknown category %q", code)}
}

func validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func storage(op string, err error) *Error {
	return &Error{Kind: ErrStorage, Message: op + " failed", Err: err}
}
