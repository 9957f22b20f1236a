// Package errors provides custom error types for the instantbox system.
// These errors enable programmatic error checking across the inventory core,
// the storage and replication adapters, and the CLI and HTTP surfaces.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the instantbox system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrNetwork indicates the remote replica could not be reached
	ErrNetwork = errors.New("network unavailable")

	// ErrUnauthorized indicates missing or rejected credentials for the remote replica
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSchemaMissing indicates the remote replica has no storage prepared for a collection
	ErrSchemaMissing = errors.New("remote schema missing")

	// ErrQuotaExceeded indicates the remote replica refused the write for capacity reasons
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrSyncDisabled indicates a sync was requested while replication is turned off
	ErrSyncDisabled = errors.New("sync disabled")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// MergeError represents an error during a local/remote merge pass
type MergeError struct {
	Collection string
	Stage      string // "fetch", "decode", "persist", "push"
	Err        error
}

// Error implements the error interface
func (e *MergeError) Error() string {
	return fmt.Sprintf("merge of %s failed during %s: %v", e.Collection, e.Stage, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MergeError) Unwrap() error {
	return e.Err
}

// NewMergeError creates a new MergeError
func NewMergeError(collection, stage string, err error) *MergeError {
	return &MergeError{
		Collection: collection,
		Stage:      stage,
		Err:        err,
	}
}

// SyncError represents an error during a full sync across collections
type SyncError struct {
	Collections []string
	Err         error
}

// Error implements the error interface
func (e *SyncError) Error() string {
	if len(e.Collections) > 0 {
		return fmt.Sprintf("sync error (affected collections: %v): %v", e.Collections, e.Err)
	}
	return fmt.Sprintf("sync error: %v", e.Err)
}

// Unwrap implements errors.Unwrap
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError
func NewSyncError(collections []string, err error) *SyncError {
	return &SyncError{
		Collections: collections,
		Err:         err,
	}
}

// ReplicationKind classifies replication failures.
type ReplicationKind string

// Replication failure kinds.
const (
	ReplicationNetwork       ReplicationKind = "network"
	ReplicationAuth          ReplicationKind = "auth"
	ReplicationSchemaMissing ReplicationKind = "schema_missing"
	ReplicationQuota         ReplicationKind = "quota"
	ReplicationUnknown       ReplicationKind = "unknown"
)

// ReplicationError is returned by replication adapters when a push or fetch fails.
type ReplicationError struct {
	Backend    string // "postgres", "s3", "redis", "memory"
	Operation  string // "push", "fetch"
	Collection string
	Kind       ReplicationKind
	Err        error
}

// Error implements the error interface
func (e *ReplicationError) Error() string {
	return fmt.Sprintf("replication %s of %s via %s failed (%s): %v", e.Operation, e.Collection, e.Backend, e.Kind, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ReplicationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ReplicationError) Is(target error) bool {
	switch e.Kind {
	case ReplicationNetwork:
		return target == ErrNetwork
	case ReplicationAuth:
		return target == ErrUnauthorized
	case ReplicationSchemaMissing:
		return target == ErrSchemaMissing
	case ReplicationQuota:
		return target == ErrQuotaExceeded
	}
	return false
}

// Message returns a user-facing description of the failure.
func (e *ReplicationError) Message() string {
	switch e.Kind {
	case ReplicationNetwork:
		return "Network error. Check your connection and try again."
	case ReplicationAuth:
		return "Not signed in or permission denied for the remote replica."
	case ReplicationSchemaMissing:
		return "The remote replica is not set up yet. Push local data once to create it."
	case ReplicationQuota:
		return "Remote storage is full."
	default:
		return "Sync failed."
	}
}

// NewReplicationError creates a new ReplicationError
func NewReplicationError(backend, operation, collection string, kind ReplicationKind, err error) *ReplicationError {
	return &ReplicationError{
		Backend:    backend,
		Operation:  operation,
		Collection: collection,
		Kind:       kind,
		Err:        err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsReplicationError reports whether err carries a ReplicationError and returns it.
func IsReplicationError(err error) (*ReplicationError, bool) {
	var re *ReplicationError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsSchemaMissing checks if an error means the remote replica lacks storage for a collection
func IsSchemaMissing(err error) bool {
	return errors.Is(err, ErrSchemaMissing)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "update", "delete", "fetch"
	Resource  string // "camera", "film pack", "catalog", "store"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// TimeoutError represents an operation timeout
type TimeoutError struct {
	Operation string
	Duration  string
	Message   string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s: %s", e.Operation, e.Duration, e.Message)
	}
	return fmt.Sprintf("operation %s timed out: %s", e.Operation, e.Message)
}

// Is implements errors.Is support
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(operation, duration, message string) *TimeoutError {
	return &TimeoutError{
		Operation: operation,
		Duration:  duration,
		Message:   message,
	}
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapReplication wraps an error as a ReplicationError unless it already is one.
func WrapReplication(backend, operation, collection string, kind ReplicationKind, err error) error {
	if err == nil {
		return nil
	}
	if re, ok := IsReplicationError(err); ok {
		return re
	}
	return NewReplicationError(backend, operation, collection, kind, err)
}
