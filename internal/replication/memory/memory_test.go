package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/instantbox/pkg/errors"
)

func TestPushFetch(t *testing.T) {
	r := New()
	ctx := context.Background()

	data, err := r.Fetch(ctx, "cameras")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, r.Push(ctx, "cameras", []byte(`[]`), "dev-1"))
	data, err = r.Fetch(ctx, "cameras")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	rec, ok := r.Get("cameras")
	require.True(t, ok)
	assert.Equal(t, "dev-1", rec.DeviceID)
	assert.Equal(t, 1, r.Pushes())
	assert.Equal(t, 2, r.Fetches())
}

func TestInjectedFailures(t *testing.T) {
	r := New()
	ctx := context.Background()

	r.FailFetch(errors.ReplicationSchemaMissing)
	_, err := r.Fetch(ctx, "filmPacks")
	assert.True(t, errors.IsSchemaMissing(err))

	r.FailPush(errors.ReplicationQuota)
	err = r.Push(ctx, "filmPacks", nil, "dev")
	re, ok := errors.IsReplicationError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ReplicationQuota, re.Kind)

	r.FailFetch("")
	r.FailPush("")
	require.NoError(t, r.Push(ctx, "filmPacks", nil, "dev"))
}
