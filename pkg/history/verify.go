package history

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ducflair/duc-sub001/pkg/models"
)

// Verify checks the structural invariants of g and reports every problem.
// Checkpoints with a missing parent are accepted; pruning leaves them behind.
func Verify(g *models.VersionGraph, opts ...Option) error {
	if g == nil {
		return nil
	}
	o := newOptions(opts)
	var result *multierror.Error

	seen := make(map[string]struct{}, g.Len())
	check := func(kind string, v models.VersionBase) {
		if v.ID == "" {
			result = multierror.Append(result, fmt.Errorf("%s with empty id", kind))
			return
		}
		if _, dup := seen[v.ID]; dup {
			result = multierror.Append(result, fmt.Errorf("duplicate version id %q", v.ID))
		}
		seen[v.ID] = struct{}{}
	}
	for _, c := range g.Checkpoints {
		check("checkpoint", c.VersionBase)
		if c.SizeBytes != int64(len(c.Data)) {
			result = multierror.Append(result, fmt.Errorf("checkpoint %q size %d does not match data length %d", c.ID, c.SizeBytes, len(c.Data)))
		}
	}
	for _, d := range g.Deltas {
		check("delta", d.VersionBase)
	}

	if total := g.ComputeTotalSize(); total != g.Metadata.TotalSize {
		result = multierror.Append(result, fmt.Errorf("total size is %d, metadata records %d", total, g.Metadata.TotalSize))
	}
	if g.LatestVersionID != "" {
		if _, ok := seen[g.LatestVersionID]; !ok {
			result = multierror.Append(result, fmt.Errorf("latest version %q does not exist", g.LatestVersionID))
		}
	}
	if g.UserCheckpointVersionID != "" {
		if _, ok := seen[g.UserCheckpointVersionID]; !ok {
			result = multierror.Append(result, fmt.Errorf("user checkpoint %q does not exist", g.UserCheckpointVersionID))
		}
	}

	for _, d := range g.Deltas {
		if _, err := ResolveChain(g, d.ID, o.maxHops); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
