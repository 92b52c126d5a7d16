package history

import (
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducflair/duc-sub001/pkg/models"
)

func TestVerify(t *testing.T) {
	g, _ := recordedHistory(t)
	assert.NoError(t, Verify(g))
	assert.NoError(t, Verify(nil))
	assert.NoError(t, Verify(&models.VersionGraph{}))
}

func TestVerifyAcceptsPrunedCheckpointParent(t *testing.T) {
	g := &models.VersionGraph{
		LatestVersionID: "d1",
		Checkpoints:     []models.Checkpoint{checkpoint("cp", "pruned", time.Hour, 4)},
		Deltas:          []models.Delta{delta("d1", "cp", 0, 2)},
		Metadata:        models.VersionGraphMetadata{TotalSize: 6},
	}
	assert.NoError(t, Verify(g))
}

func TestVerifyReportsEveryProblem(t *testing.T) {
	g := &models.VersionGraph{
		LatestVersionID:         "ghost",
		UserCheckpointVersionID: "phantom",
		Checkpoints: []models.Checkpoint{
			checkpoint("cp", "", time.Hour, 4),
			checkpoint("cp", "", time.Hour, 4),
		},
		Deltas:   []models.Delta{delta("d1", "missing", 0, 2)},
		Metadata: models.VersionGraphMetadata{TotalSize: 999},
	}
	g.Checkpoints[1].SizeBytes = 5

	err := Verify(g)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	// duplicate id, size mismatch, total size, latest, user checkpoint, broken chain
	assert.Len(t, merr.Errors, 6)
	assert.Contains(t, err.Error(), `duplicate version id "cp"`)
	assert.Contains(t, err.Error(), "metadata records 999")
	assert.Contains(t, err.Error(), `latest version "ghost"`)
	assert.Contains(t, err.Error(), `user checkpoint "phantom"`)
	assert.Contains(t, err.Error(), `parent "missing" does not exist`)
}
