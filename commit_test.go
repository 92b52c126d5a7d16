package duc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	duc "github.com/ducflair/duc-sub001"
	"github.com/ducflair/duc-sub001/pkg/history"
	"github.com/ducflair/duc-sub001/pkg/models"
)

func move(doc *models.DucFile, dx float64) *models.DucFile {
	next, err := duc.Parse(mustSerialize(doc))
	if err != nil {
		panic(err)
	}
	next.VersionGraph = doc.VersionGraph
	next.Elements[0].Base().X += dx
	return next
}

func mustSerialize(doc *models.DucFile) []byte {
	data, err := duc.Serialize(doc)
	if err != nil {
		panic(err)
	}
	return data
}

func TestCommitAndReadVersions(t *testing.T) {
	doc := sampleDocument()
	first, err := duc.Commit(doc, nil, duc.CommitOptions{VersionMeta: history.VersionMeta{ID: "v0", Description: "initial"}})
	require.NoError(t, err)
	assert.Equal(t, "v0", first)

	states := map[string]float64{"v0": 10}
	previous := doc
	for i, id := range []string{"v1", "v2", "v3", "v4"} {
		next := move(previous, 5)
		_, err := duc.Commit(next, previous, duc.CommitOptions{
			VersionMeta:        history.VersionMeta{ID: id, Timestamp: time.UnixMilli(int64(i + 1))},
			CheckpointInterval: 3,
		})
		require.NoError(t, err)
		states[id] = next.Elements[0].Base().X
		previous = next
	}

	g := previous.VersionGraph
	assert.Equal(t, "v4", g.LatestVersionID)
	var checkpoints []string
	for _, c := range g.Checkpoints {
		checkpoints = append(checkpoints, c.ID)
	}
	assert.Equal(t, []string{"v0", "v3"}, checkpoints)
	assert.NoError(t, history.Verify(g))

	f, err := duc.Open(mustSerialize(previous), duc.WithMaxHops(10))
	require.NoError(t, err)
	require.NotNil(t, f.History())
	for id, x := range states {
		version, err := f.Version(id)
		require.NoError(t, err, id)
		assert.Equal(t, x, version.Elements[0].Base().X, id)
		assert.Len(t, version.Elements, 2, id)
	}
}

func TestCommitForceCheckpoint(t *testing.T) {
	doc := sampleDocument()
	_, err := duc.Commit(doc, nil, duc.CommitOptions{})
	require.NoError(t, err)

	next := move(doc, 1)
	id, err := duc.Commit(next, doc, duc.CommitOptions{ForceCheckpoint: true})
	require.NoError(t, err)
	assert.Len(t, next.VersionGraph.Checkpoints, 2)
	assert.Equal(t, id, next.VersionGraph.LatestVersionID)
	assert.Equal(t, next.VersionGraph.Checkpoints[0].ID, next.VersionGraph.Checkpoints[1].ParentID)
}

func TestCommitRejectsBrokenHistory(t *testing.T) {
	doc := sampleDocument()
	doc.VersionGraph = &models.VersionGraph{LatestVersionID: "ghost"}

	_, err := duc.Commit(move(doc, 1), doc, duc.CommitOptions{})
	assert.ErrorIs(t, err, duc.ErrVersionNotFound)
}
