package history

import (
	"fmt"
	"time"

	"github.com/ducflair/duc-sub001/pkg/models"
)

// PruneOptions select which history survives a prune.
type PruneOptions struct {
	// Level overrides the graph's pruning level. Balanced is used when
	// neither is set.
	Level *models.PruningLevel
	// Cutoff overrides the retention window derived from the level.
	Cutoff time.Time
	// Now is the reference time of the retention window.
	Now time.Time
	// KeepOnlyPreserved drops every node that is not on the path to the
	// latest or user checkpoint version, regardless of age.
	KeepOnlyPreserved bool
	MaxHops           int
}

// PruneResult lists what a prune removed.
type PruneResult struct {
	RemovedCheckpoints []string
	RemovedDeltas      []string
	FreedBytes         int64
}

// Removed is the number of nodes dropped.
func (r PruneResult) Removed() int {
	return len(r.RemovedCheckpoints) + len(r.RemovedDeltas)
}

func (opts PruneOptions) cutoff(g *models.VersionGraph, now time.Time) (time.Time, error) {
	if !opts.Cutoff.IsZero() {
		return opts.Cutoff, nil
	}
	level := models.PruningLevelBalanced
	switch {
	case opts.Level != nil:
		level = *opts.Level
	case g.Metadata.PruningLevel != nil:
		level = *g.Metadata.PruningLevel
	}
	window, err := level.RetentionWindow()
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-window), nil
}

// Prune drops history nodes older than the retention cutoff. The latest
// and user checkpoint versions are always kept, as is the chain of every
// kept delta back to its checkpoint, so every kept version stays
// reconstructable. Recent deltas whose chain is already broken are dropped.
func Prune(g *models.VersionGraph, opts PruneOptions) (PruneResult, error) {
	var result PruneResult
	if g == nil {
		return result, nil
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff, err := opts.cutoff(g, now)
	if err != nil {
		return result, err
	}

	keep := make(map[string]struct{})
	retain := func(id string) error {
		chain, err := ResolveChain(g, id, opts.MaxHops)
		if err != nil {
			return err
		}
		for _, vid := range chain.VersionIDs() {
			keep[vid] = struct{}{}
		}
		return nil
	}

	for _, id := range []string{g.LatestVersionID, g.UserCheckpointVersionID} {
		if id == "" {
			continue
		}
		if err := retain(id); err != nil {
			return result, fmt.Errorf("preserved version: %w", err)
		}
	}
	if !opts.KeepOnlyPreserved {
		cutoffMillis := cutoff.UnixMilli()
		for _, c := range g.Checkpoints {
			if c.Timestamp >= cutoffMillis {
				keep[c.ID] = struct{}{}
			}
		}
		for _, d := range g.Deltas {
			if d.Timestamp >= cutoffMillis {
				// A recent delta that cannot be reconstructed is dropped.
				_ = retain(d.ID)
			}
		}
	}

	checkpoints := make([]models.Checkpoint, 0, len(g.Checkpoints))
	for _, c := range g.Checkpoints {
		if _, ok := keep[c.ID]; ok {
			checkpoints = append(checkpoints, c)
			continue
		}
		result.RemovedCheckpoints = append(result.RemovedCheckpoints, c.ID)
		result.FreedBytes += c.SizeBytes
	}
	deltas := make([]models.Delta, 0, len(g.Deltas))
	for _, d := range g.Deltas {
		if _, ok := keep[d.ID]; ok {
			deltas = append(deltas, d)
			continue
		}
		result.RemovedDeltas = append(result.RemovedDeltas, d.ID)
		result.FreedBytes += d.SizeBytes
	}

	g.Checkpoints = checkpoints
	g.Deltas = deltas
	g.Metadata.TotalSize = g.ComputeTotalSize()
	g.Metadata.LastPruned = now.UnixMilli()
	return result, nil
}
