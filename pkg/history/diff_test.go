package history

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducflair/duc-sub001/duccbor"
	"github.com/ducflair/duc-sub001/pkg/models"
)

func TestDiffIdentical(t *testing.T) {
	ops, err := Diff(docWith(rect("a", 0, 0)), docWith(rect("a", 0, 0)))
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestDiffIgnoresHistory(t *testing.T) {
	from := docWith(rect("a", 0, 0))
	to := docWith(rect("a", 0, 0))
	to.VersionGraph = &models.VersionGraph{LatestVersionID: "x"}

	ops, err := Diff(from, to)
	require.NoError(t, err)
	assert.Empty(t, ops)
	assert.NotNil(t, to.VersionGraph)
}

func TestDiffAppliesBack(t *testing.T) {
	from := docWith(rect("a", 0, 0), rect("b", 1, 1))
	to := docWith(rect("b", 1, 3))
	to.Source = "edited"

	ops, err := Diff(from, to)
	require.NoError(t, err)
	require.NotEmpty(t, ops)

	out, err := ApplyPatch(from, ops)
	require.NoError(t, err)
	requireSameProjection(t, to, out)
}

func TestNewDelta(t *testing.T) {
	from := docWith(rect("a", 0, 0))
	to := docWith(rect("a", 4, 0))

	d, err := NewDelta(from, to, "parent", VersionMeta{Description: "move", IsManualSave: true, UserID: "u1"})
	require.NoError(t, err)

	_, err = uuid.Parse(d.ID)
	assert.NoError(t, err)
	assert.Equal(t, "parent", d.ParentID)
	assert.Equal(t, "move", d.Description)
	assert.True(t, d.IsManualSave)
	assert.Equal(t, "u1", d.UserID)
	assert.WithinDuration(t, time.Now(), d.Time(), time.Minute)

	raw, err := json.Marshal(d.Patch)
	require.NoError(t, err)
	assert.Equal(t, int64(len(raw)), d.SizeBytes)
	require.Len(t, d.Patch, 1)
	assert.Equal(t, "replace", d.Patch[0].Op)
	assert.Equal(t, "/elements/0/x", d.Patch[0].Path)
	assert.JSONEq(t, `4`, string(d.Patch[0].Value))
}

func TestNewCheckpoint(t *testing.T) {
	doc := docWith(rect("a", 0, 0))
	doc.VersionGraph = &models.VersionGraph{LatestVersionID: "old"}

	cp, err := NewCheckpoint(doc, "", meta("cp", 0))
	require.NoError(t, err)
	assert.Equal(t, "cp", cp.ID)
	assert.Equal(t, epoch.UnixMilli(), cp.Timestamp)
	assert.Equal(t, int64(len(cp.Data)), cp.SizeBytes)
	assert.NotNil(t, doc.VersionGraph)

	snapshot, err := duccbor.Decode(cp.Data)
	require.NoError(t, err)
	assert.Nil(t, snapshot.VersionGraph)
	assert.Equal(t, "a", snapshot.Elements[0].Base().ID)
}
