package redis

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/instantbox/pkg/errors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want errors.ReplicationKind
	}{
		{fmt.Errorf("NOAUTH Authentication required."), errors.ReplicationAuth},
		{fmt.Errorf("WRONGPASS invalid username-password pair"), errors.ReplicationAuth},
		{fmt.Errorf("OOM command not allowed when used memory > 'maxmemory'."), errors.ReplicationQuota},
		{fmt.Errorf("WRONGTYPE Operation against a key holding the wrong kind of value"), errors.ReplicationSchemaMissing},
		{context.DeadlineExceeded, errors.ReplicationNetwork},
		{fmt.Errorf("ERR unknown"), errors.ReplicationUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, kindOf(tt.err))
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "instantbox:filmPacks", Key("filmPacks"))
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	r := NewFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))
	defer func() { _ = r.Close() }()

	_, err := r.Fetch(context.Background(), "cameras")
	re, ok := errors.IsReplicationError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ReplicationNetwork, re.Kind)
}

// TestReplicaRoundTrip runs against a live server when INSTANTBOX_TEST_REDIS_URL is set.
func TestReplicaRoundTrip(t *testing.T) {
	url := os.Getenv("INSTANTBOX_TEST_REDIS_URL")
	if url == "" {
		t.Skip("INSTANTBOX_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	r, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	collection := "test_" + t.Name()
	t.Cleanup(func() { _ = r.client.Del(ctx, Key(collection)).Err() })

	data, err := r.Fetch(ctx, collection)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, r.Push(ctx, collection, []byte(`[{"id":"a"}]`), "dev-1"))
	data, err = r.Fetch(ctx, collection)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(data))

	device, err := r.client.HGet(ctx, Key(collection), fieldDeviceID).Result()
	require.NoError(t, err)
	assert.Equal(t, "dev-1", device)
}
