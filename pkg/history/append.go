package history

import (
	"fmt"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// AppendCheckpoint adds c to g and makes it the latest version. A
// checkpoint may be a root; a non-empty parent must exist.
func AppendCheckpoint(g *models.VersionGraph, c models.Checkpoint) error {
	if err := checkAppend(g, c.VersionBase, false); err != nil {
		return err
	}
	g.Checkpoints = append(g.Checkpoints, c)
	g.LatestVersionID = c.ID
	g.Metadata.TotalSize += c.SizeBytes
	return nil
}

// AppendDelta adds d to g and makes it the latest version. The parent must
// exist.
func AppendDelta(g *models.VersionGraph, d models.Delta) error {
	if err := checkAppend(g, d.VersionBase, true); err != nil {
		return err
	}
	g.Deltas = append(g.Deltas, d)
	g.LatestVersionID = d.ID
	g.Metadata.TotalSize += d.SizeBytes
	return nil
}

// SetUserCheckpoint marks an existing version as the user's checkpoint.
func SetUserCheckpoint(g *models.VersionGraph, versionID string) error {
	if _, ok := g.Nodes()[versionID]; !ok {
		return historyError(versionID, constants.ErrVersionNotFound, "", nil)
	}
	g.UserCheckpointVersionID = versionID
	return nil
}

func checkAppend(g *models.VersionGraph, v models.VersionBase, parentRequired bool) error {
	if g == nil {
		return fmt.Errorf("append %q: nil version graph", v.ID)
	}
	if v.ID == "" {
		return fmt.Errorf("append: version id must not be empty")
	}
	nodes := g.Nodes()
	if _, exists := nodes[v.ID]; exists {
		return historyError(v.ID, constants.ErrDuplicateVersion, "", nil)
	}
	if v.ParentID == "" {
		if parentRequired {
			return historyError(v.ID, constants.ErrBrokenHistoryChain, "delta has no parent", nil)
		}
		return nil
	}
	if _, ok := nodes[v.ParentID]; !ok {
		return historyError(v.ID, constants.ErrBrokenHistoryChain, fmt.Sprintf("parent %q does not exist", v.ParentID), nil)
	}
	return nil
}
