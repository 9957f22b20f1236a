package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/instantbox/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "camera",
			ID:       "cam-1",
		}
		assert.Equal(t, "camera with ID cam-1 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("film pack", "pack-1")
		assert.Equal(t, "film pack with ID pack-1 not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("camera", "test")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "model",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field model: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "invalid configuration"}
		assert.Equal(t, "validation failed: invalid configuration", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestReplicationError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		kind     pkgerrors.ReplicationKind
		sentinel error
	}{
		{pkgerrors.ReplicationNetwork, pkgerrors.ErrNetwork},
		{pkgerrors.ReplicationAuth, pkgerrors.ErrUnauthorized},
		{pkgerrors.ReplicationSchemaMissing, pkgerrors.ErrSchemaMissing},
		{pkgerrors.ReplicationQuota, pkgerrors.ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := pkgerrors.NewReplicationError("postgres", "fetch", "cameras", tt.kind, cause)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.ErrorIs(t, err, cause)
			assert.Contains(t, err.Error(), "cameras")
			assert.NotEmpty(t, err.Message())
		})
	}

	t.Run("unknown kind matches no sentinel", func(t *testing.T) {
		err := pkgerrors.NewReplicationError("s3", "push", "filmPacks", pkgerrors.ReplicationUnknown, cause)
		assert.False(t, errors.Is(err, pkgerrors.ErrNetwork))
		assert.Equal(t, "Sync failed.", err.Message())
	})

	t.Run("extract through wrapping", func(t *testing.T) {
		err := fmt.Errorf("sync: %w", pkgerrors.NewReplicationError("redis", "fetch", "cameras", pkgerrors.ReplicationSchemaMissing, cause))
		re, ok := pkgerrors.IsReplicationError(err)
		require.True(t, ok)
		assert.Equal(t, "redis", re.Backend)
		assert.True(t, pkgerrors.IsSchemaMissing(err))
	})
}

func TestMergeAndSyncErrors(t *testing.T) {
	cause := pkgerrors.NewReplicationError("memory", "fetch", "cameras", pkgerrors.ReplicationNetwork, errors.New("offline"))

	merr := pkgerrors.NewMergeError("cameras", "fetch", cause)
	assert.Contains(t, merr.Error(), "merge of cameras failed during fetch")
	assert.ErrorIs(t, merr, pkgerrors.ErrNetwork)

	serr := pkgerrors.NewSyncError([]string{"cameras"}, merr)
	assert.Contains(t, serr.Error(), "cameras")
	assert.ErrorIs(t, serr, pkgerrors.ErrNetwork)
}

func TestWrapHelpers(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
		assert.NoError(t, pkgerrors.WrapResource("create", "camera", "", nil))
		assert.NoError(t, pkgerrors.WrapParse("json", "", nil))
		assert.NoError(t, pkgerrors.WrapValidation("f", nil))
		assert.NoError(t, pkgerrors.WrapReplication("s3", "push", "cameras", pkgerrors.ReplicationUnknown, nil))
	})

	t.Run("io", func(t *testing.T) {
		err := pkgerrors.WrapIO("write", "/tmp/db", errors.New("disk full"))
		var ioErr *pkgerrors.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "write", ioErr.Operation)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("replication keeps existing kind", func(t *testing.T) {
		orig := pkgerrors.NewReplicationError("s3", "fetch", "cameras", pkgerrors.ReplicationAuth, errors.New("denied"))
		err := pkgerrors.WrapReplication("s3", "fetch", "cameras", pkgerrors.ReplicationUnknown, orig)
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})
}

func TestTimeoutError(t *testing.T) {
	err := pkgerrors.NewTimeoutError("catalog download", "30s", "no response")
	assert.True(t, pkgerrors.IsTimeout(err))
	assert.Contains(t, err.Error(), "30s")
}
