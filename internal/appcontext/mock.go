package appcontext

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/pkg/ordering"
)

// Mock provides a mock implementation of Interface for testing.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	ClientFunc       func(context.Context) (instantbox.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	CameraSortValue  ordering.CameraSort
	PackSortValue    ordering.Policy
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Ensure Mock implements Interface.
var _ Interface = (*Mock)(nil)

// Client returns a client using the mock function or nil.
func (m *Mock) Client(ctx context.Context) (instantbox.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc(ctx)
	}
	return nil, nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// CameraSort returns CameraSortValue or the date-added order.
func (m *Mock) CameraSort() ordering.CameraSort {
	if m.CameraSortValue != "" {
		return m.CameraSortValue
	}
	return ordering.CameraDateAdded
}

// PackSort returns PackSortValue or the stable order.
func (m *Mock) PackSort() ordering.Policy {
	if m.PackSortValue != "" {
		return m.PackSortValue
	}
	return ordering.PolicyStable
}

// Version returns a version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns a commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns a date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns a builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
