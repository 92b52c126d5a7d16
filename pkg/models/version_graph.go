package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// VersionBase is shared by every history node. ParentID is empty for a
// root node. Timestamp is in unix milliseconds.
type VersionBase struct {
	ID           string `json:"id"`
	ParentID     string `json:"parentId,omitempty"`
	Timestamp    int64  `json:"timestamp"`
	Description  string `json:"description,omitempty"`
	IsManualSave bool   `json:"isManualSave"`
	UserID       string `json:"userId,omitempty"`
}

func (v VersionBase) Time() time.Time {
	return time.UnixMilli(v.Timestamp)
}

// Checkpoint is a fully materialized snapshot. Data holds an encoded
// document.
type Checkpoint struct {
	VersionBase
	Data      []byte `json:"data"`
	SizeBytes int64  `json:"sizeBytes"`
}

// PatchOperation is one RFC 6902 operation.
type PatchOperation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	From  string          `json:"from,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Delta transforms its parent version into itself. Patch is applied in
// order against the JSON projection of the parent document.
type Delta struct {
	VersionBase
	Patch     []PatchOperation `json:"patch"`
	SizeBytes int64            `json:"sizeBytes"`
}

// PruningLevel selects the retention window of history pruning.
type PruningLevel uint8

const (
	PruningLevelConservative PruningLevel = 10
	PruningLevelBalanced     PruningLevel = 20
	PruningLevelAggressive   PruningLevel = 30
)

const day = 24 * time.Hour

// RetentionWindow is how far back history is kept at this level.
func (p PruningLevel) RetentionWindow() (time.Duration, error) {
	switch p {
	case PruningLevelConservative:
		return 90 * day, nil
	case PruningLevelBalanced:
		return 30 * day, nil
	case PruningLevelAggressive:
		return 7 * day, nil
	default:
		return 0, fmt.Errorf("unknown pruning level %d", uint8(p))
	}
}

func (p PruningLevel) String() string {
	switch p {
	case PruningLevelConservative:
		return "conservative"
	case PruningLevelBalanced:
		return "balanced"
	case PruningLevelAggressive:
		return "aggressive"
	default:
		return fmt.Sprintf("level(%d)", uint8(p))
	}
}

// ParsePruningLevel accepts the names returned by String.
func ParsePruningLevel(s string) (PruningLevel, error) {
	for _, p := range []PruningLevel{PruningLevelConservative, PruningLevelBalanced, PruningLevelAggressive} {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown pruning level %q", s)
}

// VersionGraphMetadata carries pruning settings and the cached sum of node
// sizes.
type VersionGraphMetadata struct {
	PruningLevel *PruningLevel `json:"pruningLevel,omitempty"`
	LastPruned   int64         `json:"lastPruned"`
	TotalSize    int64         `json:"totalSize"`
}

// VersionGraph is the history of a document. Nodes are append-only;
// LatestVersionID and UserCheckpointVersionID reference existing nodes.
type VersionGraph struct {
	UserCheckpointVersionID string               `json:"userCheckpointVersionId,omitempty"`
	LatestVersionID         string               `json:"latestVersionId,omitempty"`
	Checkpoints             []Checkpoint         `json:"checkpoints"`
	Deltas                  []Delta              `json:"deltas"`
	Metadata                VersionGraphMetadata `json:"metadata"`
}

// Node is a resolved history node: exactly one of Checkpoint and Delta is set.
type Node struct {
	Checkpoint *Checkpoint
	Delta      *Delta
}

func (n Node) Base() VersionBase {
	if n.Checkpoint != nil {
		return n.Checkpoint.VersionBase
	}
	return n.Delta.VersionBase
}

func (n Node) SizeBytes() int64 {
	if n.Checkpoint != nil {
		return n.Checkpoint.SizeBytes
	}
	return n.Delta.SizeBytes
}

// Nodes indexes every checkpoint and delta by id. Pointers reference the
// graph slices and stay valid until the graph is modified.
func (g *VersionGraph) Nodes() map[string]Node {
	nodes := make(map[string]Node, len(g.Checkpoints)+len(g.Deltas))
	for i := range g.Checkpoints {
		nodes[g.Checkpoints[i].ID] = Node{Checkpoint: &g.Checkpoints[i]}
	}
	for i := range g.Deltas {
		nodes[g.Deltas[i].ID] = Node{Delta: &g.Deltas[i]}
	}
	return nodes
}

// Len is the number of history nodes.
func (g *VersionGraph) Len() int {
	return len(g.Checkpoints) + len(g.Deltas)
}

// ComputeTotalSize sums node sizes without consulting the metadata cache.
func (g *VersionGraph) ComputeTotalSize() int64 {
	var total int64
	for _, c := range g.Checkpoints {
		total += c.SizeBytes
	}
	for _, d := range g.Deltas {
		total += d.SizeBytes
	}
	return total
}
