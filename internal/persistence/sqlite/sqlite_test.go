package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "state", "instantbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadMissingBucket(t *testing.T) {
	s := open(t)
	data, err := s.Load(context.Background(), "cameras")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSaveOverwrites(t *testing.T) {
	s := open(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "cameras", []byte(`[{"id":"a"}]`)))
	require.NoError(t, s.Save(ctx, "cameras", []byte(`[]`)))
	require.NoError(t, s.Save(ctx, "filmPacks", []byte(`[{"id":"p"}]`)))

	data, err := s.Load(ctx, "cameras")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	names, err := s.Buckets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cameras", "filmPacks"}, names)
}

func TestReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "instantbox.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "deviceID", []byte("device-1")))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	data, err := s.Load(ctx, "deviceID")
	require.NoError(t, err)
	assert.Equal(t, "device-1", string(data))
}

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Save(ctx, "cameras", nil))
	data, err := s.Load(ctx, "cameras")
	require.NoError(t, err)
	assert.Equal(t, []byte{}, data)
}
