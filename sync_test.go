package instantbox

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	replmemory "github.com/agentstation/instantbox/internal/replication/memory"
	"github.com/agentstation/instantbox/pkg/errors"
	"github.com/agentstation/instantbox/pkg/inventory"
	"github.com/agentstation/instantbox/pkg/logging"
	"github.com/agentstation/instantbox/pkg/merge"
	"github.com/agentstation/instantbox/pkg/ordering"
	pkgsync "github.com/agentstation/instantbox/pkg/sync"
)

// newSyncClient returns a client wired to replica with sync switched off,
// so test fixtures can be added without triggering background passes.
func newSyncClient(t *testing.T, replica *replmemory.Replica, opts ...Option) Client {
	t.Helper()
	opts = append([]Option{WithReplication(replica), WithSync(false), WithDeviceID("local")}, opts...)
	return newTestClient(t, opts...)
}

func setRemoteCameras(t *testing.T, replica *replmemory.Replica, cams ...inventory.Camera) {
	t.Helper()
	data, err := inventory.EncodeCameras(cams)
	require.NoError(t, err)
	replica.Set(inventory.CollectionCameras, data, "remote")
}

func remoteCameras(t *testing.T, replica *replmemory.Replica) []inventory.Camera {
	t.Helper()
	rec, ok := replica.Get(inventory.CollectionCameras)
	require.True(t, ok)
	cams, err := inventory.DecodeCameras(rec.Payload)
	require.NoError(t, err)
	return cams
}

func TestSyncDisabled(t *testing.T) {
	c := newTestClient(t)
	_, err := c.Sync(context.Background())
	assert.ErrorIs(t, err, errors.ErrSyncDisabled)

	replica := replmemory.New()
	c = newSyncClient(t, replica)
	_, err = c.Sync(context.Background())
	assert.ErrorIs(t, err, errors.ErrSyncDisabled)
	assert.False(t, c.SyncEnabled())
}

func TestSyncUnion(t *testing.T) {
	ctx := context.Background()
	replica := replmemory.New()
	setRemoteCameras(t, replica, inventory.TestCamera("remote-1", "600"))

	c := newSyncClient(t, replica)
	local, err := c.AddCamera(ctx, CameraInput{Model: "600"})
	require.NoError(t, err)

	c.SetSyncEnabled(true)
	res, err := c.Sync(ctx, pkgsync.WithCollections(inventory.CollectionCameras))
	require.NoError(t, err)

	cr, ok := res.Collection(inventory.CollectionCameras)
	require.True(t, ok)
	assert.True(t, cr.Changed)
	assert.True(t, cr.Pushed)
	assert.Equal(t, 1, cr.Added)
	assert.Equal(t, 1, cr.Kept)

	ids := func(cams []inventory.Camera) []string {
		var out []string
		for _, cam := range cams {
			out = append(out, cam.ID)
		}
		return out
	}
	assert.ElementsMatch(t, []string{local.ID, "remote-1"}, ids(c.Cameras(ordering.CameraDateAdded)))
	assert.ElementsMatch(t, []string{local.ID, "remote-1"}, ids(remoteCameras(t, replica)))

	rec, _ := replica.Get(inventory.CollectionCameras)
	assert.Equal(t, "local", rec.DeviceID)
}

func TestSyncRemoteWinsByDefault(t *testing.T) {
	ctx := context.Background()
	replica := replmemory.New()
	c := newSyncClient(t, replica)

	local, err := c.AddCamera(ctx, CameraInput{Model: "600", Nickname: "Mine"})
	require.NoError(t, err)

	// Older remote copy still wins.
	remote := local.Clone()
	remote.Nickname = "Theirs"
	remote.UpdatedAt = local.UpdatedAt.Add(-time.Hour)
	setRemoteCameras(t, replica, remote)

	c.SetSyncEnabled(true)
	res, err := c.Sync(ctx, pkgsync.WithCollections(inventory.CollectionCameras))
	require.NoError(t, err)
	cr, ok := res.Collection(inventory.CollectionCameras)
	require.True(t, ok)
	assert.Equal(t, 1, cr.Replaced)

	got, err := c.Camera(local.ID)
	require.NoError(t, err)
	assert.Equal(t, "Theirs", got.Nickname)
}

func TestSyncLatestWins(t *testing.T) {
	ctx := context.Background()
	replica := replmemory.New()
	c := newSyncClient(t, replica, WithMergeStrategy(merge.StrategyTypeLatestWins))

	local, err := c.AddCamera(ctx, CameraInput{Model: "600", Nickname: "Mine"})
	require.NoError(t, err)
	remote := local.Clone()
	remote.Nickname = "Theirs"
	remote.UpdatedAt = local.UpdatedAt.Add(-time.Hour)
	setRemoteCameras(t, replica, remote)

	c.SetSyncEnabled(true)
	_, err = c.Sync(ctx, pkgsync.WithCollections(inventory.CollectionCameras))
	require.NoError(t, err)

	got, err := c.Camera(local.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Nickname)
	assert.Equal(t, "Mine", remoteCameras(t, replica)[0].Nickname)
}

func TestSyncFetchFailureLeavesLocalUntouched(t *testing.T) {
	ctx := context.Background()
	replica := replmemory.New()
	c := newSyncClient(t, replica)

	_, err := c.AddCamera(ctx, CameraInput{Model: "600"})
	require.NoError(t, err)
	replica.FailFetch(errors.ReplicationNetwork)

	c.SetSyncEnabled(true)
	_, err = c.Sync(ctx)
	require.Error(t, err)

	var syncErr *errors.SyncError
	require.True(t, stderrors.As(err, &syncErr))
	assert.Equal(t, []string{inventory.CollectionCameras}, syncErr.Collections)
	re, ok := errors.IsReplicationError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ReplicationNetwork, re.Kind)

	assert.Len(t, c.Cameras(ordering.CameraDateAdded), 1)
	assert.Zero(t, replica.Pushes())
}

func TestSyncPushFailureAbortsPass(t *testing.T) {
	ctx := context.Background()
	replica := replmemory.New()
	setRemoteCameras(t, replica, inventory.TestCamera("remote-1", "600"))

	c := newSyncClient(t, replica)
	_, err := c.AddCamera(ctx, CameraInput{Model: "600"})
	require.NoError(t, err)
	replica.FailPush(errors.ReplicationAuth)

	c.SetSyncEnabled(true)
	_, err = c.Sync(ctx, pkgsync.WithCollections(inventory.CollectionCameras))
	require.Error(t, err)
	re, ok := errors.IsReplicationError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ReplicationAuth, re.Kind)

	// The remote camera is not merged in while the push is failing.
	assert.Len(t, c.Cameras(ordering.CameraDateAdded), 1)
}

func TestSyncDryRun(t *testing.T) {
	ctx := context.Background()
	replica := replmemory.New()
	setRemoteCameras(t, replica, inventory.TestCamera("remote-1", "600"))

	c := newSyncClient(t, replica)
	c.SetSyncEnabled(true)

	res, err := c.Sync(ctx, pkgsync.WithDryRun(true))
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.True(t, res.HasChanges())
	assert.Contains(t, res.Summary(), "dry run")

	assert.Empty(t, c.Cameras(ordering.CameraDateAdded))
	assert.Zero(t, replica.Pushes())
}

func TestSyncUpToDate(t *testing.T) {
	ctx := context.Background()
	replica := replmemory.New()
	c := newSyncClient(t, replica)
	c.SetSyncEnabled(true)

	res, err := c.Sync(ctx)
	require.NoError(t, err)
	assert.False(t, res.HasChanges())
	assert.Len(t, res.Collections, 2)
	assert.Zero(t, replica.Pushes())
}

func TestSyncKeepsBothPacksLoadedInOneCamera(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)
	replica := replmemory.New()
	c := newSyncClient(t, replica)

	cam, err := c.AddCamera(ctx, CameraInput{Model: "600"})
	require.NoError(t, err)
	mine, err := c.AddFilmPack(ctx, FilmPackInput{Type: "600"})
	require.NoError(t, err)
	require.True(t, c.Load(ctx, mine.ID, cam.ID).OK)

	// Another device loaded its own pack into the same camera.
	theirs := inventory.TestFilmPack("remote-pack", "600", "Color", 8)
	theirs.AssociatedCamera = &cam.ID
	data, err := inventory.EncodeFilmPacks([]inventory.FilmPack{theirs})
	require.NoError(t, err)
	replica.Set(inventory.CollectionFilmPacks, data, "remote")

	c.SetSyncEnabled(true)
	res, err := c.Sync(ctx, pkgsync.WithCollections(inventory.CollectionFilmPacks))
	require.NoError(t, err)
	pr, ok := res.Collection(inventory.CollectionFilmPacks)
	require.True(t, ok)
	assert.True(t, pr.Changed)

	for _, id := range []string{mine.ID, theirs.ID} {
		p, err := c.FilmPack(id)
		require.NoError(t, err)
		assert.True(t, p.LoadedIn(cam.ID), id)
	}
	tl.AssertContains(t, "Camera holds more than one film pack after merge")
	tl.AssertContains(t, cam.ID)
}

func TestSyncRejectsUnknownCollection(t *testing.T) {
	replica := replmemory.New()
	c := newSyncClient(t, replica, WithSync(true))
	_, err := c.Sync(context.Background(), pkgsync.WithCollections("lenses"))
	assert.True(t, errors.IsValidationError(err))
}

func TestBackgroundSyncPushesLocalChanges(t *testing.T) {
	ctx := context.Background()
	replica := replmemory.New()
	c := newSyncClient(t, replica, WithSync(true))

	cam, err := c.AddCamera(ctx, CameraInput{Model: "600"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		rec, ok := replica.Get(inventory.CollectionCameras)
		if !ok {
			return false
		}
		cams, err := inventory.DecodeCameras(rec.Payload)
		return err == nil && len(cams) == 1 && cams[0].ID == cam.ID
	}, 2*time.Second, 10*time.Millisecond)

	// A fresh device adopts the remote collection without pushing it back.
	require.NoError(t, c.Close())
	pushes := replica.Pushes()
	res, err := newSyncClient(t, replica, WithSync(true), WithDeviceID("other")).
		Sync(ctx, pkgsync.WithCollections(inventory.CollectionCameras))
	require.NoError(t, err)
	cr, ok := res.Collection(inventory.CollectionCameras)
	require.True(t, ok)
	assert.True(t, cr.Changed)
	assert.Equal(t, pushes, replica.Pushes())
}

func TestAutoSync(t *testing.T) {
	replica := replmemory.New()
	c := newSyncClient(t, replica, WithSync(true), WithAutoSyncInterval(20*time.Millisecond))

	require.NoError(t, c.AutoSyncOn())
	require.Eventually(t, func() bool { return replica.Fetches() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, c.AutoSyncOff())
}
