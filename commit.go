package duc

import (
	"fmt"

	"github.com/ducflair/duc-sub001/pkg/history"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// DefaultCheckpointInterval is the number of deltas after which Commit
// writes a full checkpoint instead of another delta.
const DefaultCheckpointInterval = 50

// CommitOptions describe a version being recorded.
type CommitOptions struct {
	history.VersionMeta
	// CheckpointInterval overrides DefaultCheckpointInterval.
	CheckpointInterval int
	// ForceCheckpoint records a checkpoint regardless of the interval.
	ForceCheckpoint bool
}

// Commit records doc as a new version in doc.VersionGraph and returns its
// id. previous is the state of the latest recorded version; a checkpoint
// is written when it is nil, when the history is empty, or when the chain
// from the latest checkpoint has reached the checkpoint interval.
func Commit(doc, previous *models.DucFile, opts CommitOptions) (string, error) {
	if doc.VersionGraph == nil {
		doc.VersionGraph = &models.VersionGraph{
			Checkpoints: []models.Checkpoint{},
			Deltas:      []models.Delta{},
		}
	}
	g := doc.VersionGraph

	interval := opts.CheckpointInterval
	if interval <= 0 {
		interval = DefaultCheckpointInterval
	}

	parent := g.LatestVersionID
	checkpoint := opts.ForceCheckpoint || previous == nil || parent == ""
	if !checkpoint {
		chain, err := history.ResolveChain(g, parent, 0)
		if err != nil {
			return "", fmt.Errorf("commit: %w", err)
		}
		checkpoint = len(chain.Deltas)+1 >= interval
	}

	if checkpoint {
		c, err := history.NewCheckpoint(doc, parent, opts.VersionMeta)
		if err != nil {
			return "", err
		}
		if err := history.AppendCheckpoint(g, c); err != nil {
			return "", err
		}
		return c.ID, nil
	}

	d, err := history.NewDelta(previous, doc, parent, opts.VersionMeta)
	if err != nil {
		return "", err
	}
	if err := history.AppendDelta(g, d); err != nil {
		return "", err
	}
	return d.ID, nil
}
