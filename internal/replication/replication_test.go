package replication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/instantbox/internal/replication/memory"
	"github.com/agentstation/instantbox/pkg/errors"
)

func TestParseDriver(t *testing.T) {
	d, err := ParseDriver("")
	require.NoError(t, err)
	assert.Equal(t, DriverNone, d)

	d, err = ParseDriver(" Postgres ")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, d)

	_, err = ParseDriver("dynamo")
	assert.True(t, errors.IsValidationError(err))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	r, err := Open(ctx, Config{Driver: DriverNone})
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = Open(ctx, Config{Driver: DriverMemory})
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.IsType(t, &memory.Replica{}, r.Replication)
	assert.NoError(t, r.Ping(ctx))
	assert.NoError(t, r.Migrate(ctx))
	assert.NoError(t, r.Close())

	_, err = Open(ctx, Config{Driver: DriverPostgres})
	assert.Error(t, err)
	_, err = Open(ctx, Config{Driver: DriverRedis})
	assert.Error(t, err)
	_, err = Open(ctx, Config{Driver: DriverS3})
	assert.Error(t, err)
}
