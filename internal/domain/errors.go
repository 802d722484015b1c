package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for errors.Is checks across package boundaries
var (
	// ErrConflict is the category of all guarded-transition rejections
	ErrConflict = errors.New("conversion conflict")

	// ErrUnknownStatus is the category of status values outside a declared enum
	ErrUnknownStatus = errors.New("unknown status")

	// ErrValidation is the category of malformed public-operation input
	ErrValidation = errors.New("invalid input")
)

// ConflictError is returned when a guarded transition is attempted from a
// disallowed source status (e.g. re-qualifying a QUALIFIED lead). It is a
// business-rule rejection, not a transient fault; the caller must not retry
// blindly but re-check final state.
type ConflictError struct {
	Kind    string
	ID      uuid.UUID
	Status  string
	Allowed []string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s: conversion not allowed from status %q (allowed: %s)",
		e.Kind, e.ID, e.Status, strings.Join(e.Allowed, ", "))
}

// Unwrap lets errors.Is(err, ErrConflict) match
func (e *ConflictError) Unwrap() error { return ErrConflict }

// UnknownStatusError is returned when a status value outside the declared
// enum reaches a derivation function. It signals a programming or
// data-integrity defect and is propagated, never silently coerced.
type UnknownStatusError struct {
	DocumentType DocumentType
	Status       string
}

// Error implements the error interface
func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown %s status %q", e.DocumentType, e.Status)
}

// Unwrap lets errors.Is(err, ErrUnknownStatus) match
func (e *UnknownStatusError) Unwrap() error { return ErrUnknownStatus }

// ValidationError is returned for malformed input to a public operation and
// carries the offending field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match
func (e *ValidationError) Unwrap() error { return ErrValidation }
