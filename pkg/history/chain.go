package history

import (
	"fmt"
	"slices"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// Chain is the sequence of nodes that materializes one version: a
// checkpoint followed by deltas in root-to-target order.
type Chain struct {
	Checkpoint *models.Checkpoint
	Deltas     []*models.Delta
	// TotalSize is the sum of the node sizes in the chain.
	TotalSize int64
}

// ResolveChain walks ParentID links from versionID back to the nearest
// checkpoint. The walk fails on a missing parent, on a revisited node, and
// after maxHops deltas.
func ResolveChain(g *models.VersionGraph, versionID string, maxHops int) (*Chain, error) {
	if g == nil {
		return nil, historyError(versionID, constants.ErrVersionNotFound, "document has no history", nil)
	}
	if maxHops <= 0 {
		maxHops = constants.DefaultMaxDeltaHops
	}

	nodes := g.Nodes()
	if _, ok := nodes[versionID]; !ok {
		return nil, historyError(versionID, constants.ErrVersionNotFound, "", nil)
	}

	var (
		chain   = &Chain{}
		visited = make(map[string]struct{})
		current = versionID
	)
	for {
		if _, seen := visited[current]; seen {
			return nil, historyError(versionID, constants.ErrCyclicHistory, fmt.Sprintf("revisited %q", current), nil)
		}
		visited[current] = struct{}{}

		node, ok := nodes[current]
		if !ok {
			return nil, historyError(versionID, constants.ErrBrokenHistoryChain, fmt.Sprintf("parent %q does not exist", current), nil)
		}
		chain.TotalSize += node.SizeBytes()
		if node.Checkpoint != nil {
			chain.Checkpoint = node.Checkpoint
			break
		}

		if len(chain.Deltas) >= maxHops {
			return nil, historyError(versionID, constants.ErrBrokenHistoryChain, fmt.Sprintf("no checkpoint within %d deltas", maxHops), nil)
		}
		chain.Deltas = append(chain.Deltas, node.Delta)
		if node.Delta.ParentID == "" {
			return nil, historyError(versionID, constants.ErrBrokenHistoryChain, fmt.Sprintf("delta %q has no parent", node.Delta.ID), nil)
		}
		current = node.Delta.ParentID
	}

	slices.Reverse(chain.Deltas)
	return chain, nil
}

// Validate checks that every delta names its predecessor as parent.
func (c *Chain) Validate() error {
	if c.Checkpoint == nil {
		return fmt.Errorf("chain missing checkpoint")
	}

	expected := c.Checkpoint.ID
	for i, d := range c.Deltas {
		if d.ParentID != expected {
			return fmt.Errorf("delta %d has mismatched parent: expected %q, got %q", i, expected, d.ParentID)
		}
		expected = d.ID
	}
	return nil
}

// Target is the version the chain materializes.
func (c *Chain) Target() string {
	if len(c.Deltas) > 0 {
		return c.Deltas[len(c.Deltas)-1].ID
	}
	return c.Checkpoint.ID
}

// VersionIDs lists the ids of the chain from the checkpoint to the target.
func (c *Chain) VersionIDs() []string {
	ids := make([]string, 0, len(c.Deltas)+1)
	ids = append(ids, c.Checkpoint.ID)
	for _, d := range c.Deltas {
		ids = append(ids, d.ID)
	}
	return ids
}
