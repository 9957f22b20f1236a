package merge

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/instantbox/pkg/inventory"
)

func packs(specs ...string) []inventory.FilmPack {
	out := make([]inventory.FilmPack, len(specs))
	for i, id := range specs {
		out[i] = inventory.TestFilmPack(id, "600", "Color", 8)
	}
	return out
}

func TestMergeIdempotent(t *testing.T) {
	x := packs("a", "b", "c")
	got := Merge(x, x, RemoteWins[inventory.FilmPack])
	if diff := cmp.Diff(x, got); diff != "" {
		t.Errorf("merge(X, X) mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeUnionRemoteWins(t *testing.T) {
	local := packs("a", "b")
	local[1].Remaining = 5

	remote := packs("b", "c")
	remote[0].Remaining = 2
	note := "from phone"
	remote[0].Note = &note

	got, stats := MergeWithStats(local, remote, nil)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 2, got[1].Remaining)
	assert.Equal(t, "from phone", *got[1].Note)
	assert.Equal(t, Stats{Replaced: 1, Added: 1, Kept: 1}, stats)
}

func TestMergeEmptySides(t *testing.T) {
	assert.Empty(t, Merge[inventory.FilmPack](nil, nil, nil))
	assert.Len(t, Merge(packs("a"), nil, RemoteWins[inventory.FilmPack]), 1)
	assert.Len(t, Merge(nil, packs("a", "b"), RemoteWins[inventory.FilmPack]), 2)
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	local := packs("a")
	remote := packs("a")
	remote[0].Remaining = 1

	_ = Merge(local, remote, nil)
	assert.Equal(t, 8, local[0].Remaining)
}

func TestLatestWins(t *testing.T) {
	older := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	local := packs("a", "b", "c")
	remote := packs("a", "b", "c")
	local[0].UpdatedAt, remote[0].UpdatedAt = newer, older
	local[1].UpdatedAt, remote[1].UpdatedAt = older, newer
	local[2].UpdatedAt, remote[2].UpdatedAt = older, older
	local[0].Remaining, local[1].Remaining, local[2].Remaining = 1, 1, 1

	got := Merge(local, remote, LatestWins[inventory.FilmPack])
	assert.Equal(t, 1, got[0].Remaining, "newer local kept")
	assert.Equal(t, 8, got[1].Remaining, "newer remote taken")
	assert.Equal(t, 8, got[2].Remaining, "tie goes to remote")
}

func TestStrategyTypes(t *testing.T) {
	st, err := ParseStrategyType("")
	require.NoError(t, err)
	assert.Equal(t, StrategyTypeRemoteWins, st)
	assert.Equal(t, "Remote Wins", st.Name())

	st, err = ParseStrategyType("Latest-Wins")
	require.NoError(t, err)
	assert.Equal(t, StrategyTypeLatestWins, st)

	_, err = ParseStrategyType("first-wins")
	assert.Error(t, err)

	local := inventory.TestCamera("c", "600")
	local.UpdatedAt = local.UpdatedAt.Add(time.Hour)
	remote := inventory.TestCamera("c", "600")
	remote.Nickname = "remote"

	assert.Equal(t, "remote", For[inventory.Camera](StrategyTypeRemoteWins)(local, remote).Nickname)
	assert.Equal(t, "600", For[inventory.Camera](StrategyTypeLatestWins)(local, remote).Nickname)
}

func TestEngineSerializesPerCollection(t *testing.T) {
	e := NewEngine()
	ctx := context.Background()

	var active, maxActive atomic.Int32
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Do(ctx, "cameras", func(context.Context) error {
				n := active.Add(1)
				for {
					m := maxActive.Load()
					if n <= m || maxActive.CompareAndSwap(m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				active.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestEngineCollectionsIndependent(t *testing.T) {
	e := NewEngine()
	ctx := context.Background()

	inCameras := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- e.Do(ctx, "cameras", func(context.Context) error {
			close(inCameras)
			<-release
			return nil
		})
	}()
	<-inCameras

	ran := false
	require.NoError(t, e.Do(ctx, "filmPacks", func(context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	close(release)
	require.NoError(t, <-done)
}

func TestEngineHonorsContext(t *testing.T) {
	e := NewEngine()
	hold := make(chan struct{})
	entered := make(chan struct{})
	go func() {
		_ = e.Do(context.Background(), "cameras", func(context.Context) error {
			close(entered)
			<-hold
			return nil
		})
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := e.Do(ctx, "cameras", func(context.Context) error {
		t.Fatal("must not run")
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(hold)
	require.NoError(t, e.Do(context.Background(), "cameras", func(context.Context) error { return nil }))
}
