package storage

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

func checkpoint(id, parent string, ts int64) models.Checkpoint {
	data := []byte("DUC_" + id)
	return models.Checkpoint{
		VersionBase: models.VersionBase{ID: id, ParentID: parent, Timestamp: ts, Description: "snapshot " + id, IsManualSave: true, UserID: "u1"},
		Data:        data,
		SizeBytes:   int64(len(data)),
	}
}

func delta(id, parent string, ts int64) models.Delta {
	return models.Delta{
		VersionBase: models.VersionBase{ID: id, ParentID: parent, Timestamp: ts},
		Patch: []models.PatchOperation{
			{Op: "replace", Path: "/source", Value: json.RawMessage(`"` + id + `"`)},
		},
		SizeBytes: 42,
	}
}

func memoryStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndLoadGraph(t *testing.T) {
	ctx := context.Background()
	s := memoryStore(t)

	require.NoError(t, s.AppendCheckpoint(ctx, checkpoint("cp", "", 1000)))
	require.NoError(t, s.AppendDelta(ctx, delta("d1", "cp", 2000)))
	require.NoError(t, s.AppendDelta(ctx, delta("d2", "d1", 3000)))
	require.NoError(t, s.SetUserCheckpoint(ctx, "cp"))

	level := models.PruningLevelAggressive
	require.NoError(t, s.SaveGraphMetadata(ctx, models.VersionGraphMetadata{PruningLevel: &level, LastPruned: 1234}))

	g, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d2", g.LatestVersionID)
	assert.Equal(t, "cp", g.UserCheckpointVersionID)
	require.Len(t, g.Checkpoints, 1)
	assert.Equal(t, checkpoint("cp", "", 1000), g.Checkpoints[0])
	require.Len(t, g.Deltas, 2)
	assert.Equal(t, delta("d1", "cp", 2000), g.Deltas[0])
	assert.Equal(t, "d2", g.Deltas[1].ID)
	require.NotNil(t, g.Metadata.PruningLevel)
	assert.Equal(t, level, *g.Metadata.PruningLevel)
	assert.Equal(t, int64(1234), g.Metadata.LastPruned)
	assert.Equal(t, g.ComputeTotalSize(), g.Metadata.TotalSize)

	latest, ok, err := s.Get(ctx, KeyLatestVersion)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "d2", latest)
}

func TestAppendRejects(t *testing.T) {
	ctx := context.Background()
	s := memoryStore(t)
	require.NoError(t, s.AppendCheckpoint(ctx, checkpoint("cp", "", 1)))

	assert.ErrorIs(t, s.AppendCheckpoint(ctx, checkpoint("cp", "", 2)), constants.ErrDuplicateVersion)
	assert.ErrorIs(t, s.AppendDelta(ctx, delta("cp", "cp", 2)), constants.ErrDuplicateVersion)
	assert.ErrorIs(t, s.AppendDelta(ctx, delta("d1", "ghost", 2)), constants.ErrBrokenHistoryChain)
	assert.ErrorIs(t, s.AppendDelta(ctx, delta("d1", "", 2)), constants.ErrBrokenHistoryChain)
	assert.ErrorIs(t, s.SetUserCheckpoint(ctx, "ghost"), constants.ErrVersionNotFound)

	g, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, "cp", g.LatestVersionID)
}

func TestLoadEmptyGraph(t *testing.T) {
	g, err := memoryStore(t).LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Zero(t, g.Len())
	assert.Empty(t, g.LatestVersionID)
	assert.Nil(t, g.Metadata.PruningLevel)
}

func TestReplaceGraph(t *testing.T) {
	ctx := context.Background()
	s := memoryStore(t)
	require.NoError(t, s.AppendCheckpoint(ctx, checkpoint("old", "", 1)))
	require.NoError(t, s.SetUserCheckpoint(ctx, "old"))

	g := &models.VersionGraph{
		LatestVersionID: "d1",
		Checkpoints:     []models.Checkpoint{checkpoint("cp", "pruned", 10)},
		Deltas:          []models.Delta{delta("d1", "cp", 20)},
		Metadata:        models.VersionGraphMetadata{LastPruned: 99},
	}
	require.NoError(t, s.ReplaceGraph(ctx, g))

	loaded, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Checkpoint{checkpoint("cp", "pruned", 10)}, loaded.Checkpoints)
	assert.Equal(t, "d1", loaded.LatestVersionID)
	assert.Empty(t, loaded.UserCheckpointVersionID)
	assert.Equal(t, int64(99), loaded.Metadata.LastPruned)
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	require.NoError(t, s.AppendCheckpoint(ctx, checkpoint("cp", "", 1)))

	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.AppendDelta(ctx, delta(id, "cp", 2)))
		}()
	}
	wg.Wait()

	g, err := s.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Len(t, g.Deltas, len(ids))
}
