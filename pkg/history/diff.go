package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wI2L/jsondiff"

	"github.com/ducflair/duc-sub001/duccbor"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// VersionMeta describes a version being recorded. A zero ID is replaced by a
// random UUID and a zero Timestamp by the current time.
type VersionMeta struct {
	ID           string
	Description  string
	IsManualSave bool
	UserID       string
	Timestamp    time.Time
}

func (m VersionMeta) base(parentID string) models.VersionBase {
	id := m.ID
	if id == "" {
		id = uuid.NewString()
	}
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return models.VersionBase{
		ID:           id,
		ParentID:     parentID,
		Timestamp:    ts.UnixMilli(),
		Description:  m.Description,
		IsManualSave: m.IsManualSave,
		UserID:       m.UserID,
	}
}

// NewCheckpoint snapshots doc. The snapshot carries no history of its own.
func NewCheckpoint(doc *models.DucFile, parentID string, meta VersionMeta) (models.Checkpoint, error) {
	snapshot := *doc
	snapshot.VersionGraph = nil
	data, err := duccbor.Encode(&snapshot)
	if err != nil {
		return models.Checkpoint{}, fmt.Errorf("encode checkpoint: %w", err)
	}
	return models.Checkpoint{
		VersionBase: meta.base(parentID),
		Data:        data,
		SizeBytes:   int64(len(data)),
	}, nil
}

// NewDelta records the change from one document to another.
func NewDelta(from, to *models.DucFile, parentID string, meta VersionMeta) (models.Delta, error) {
	ops, err := Diff(from, to)
	if err != nil {
		return models.Delta{}, err
	}
	raw, err := json.Marshal(ops)
	if err != nil {
		return models.Delta{}, err
	}
	return models.Delta{
		VersionBase: meta.base(parentID),
		Patch:       ops,
		SizeBytes:   int64(len(raw)),
	}, nil
}

// Diff returns the operations that turn the JSON projection of from into
// that of to. History graphs are excluded from both sides.
func Diff(from, to *models.DucFile) ([]models.PatchOperation, error) {
	source, err := projection(from)
	if err != nil {
		return nil, fmt.Errorf("project source: %w", err)
	}
	target, err := projection(to)
	if err != nil {
		return nil, fmt.Errorf("project target: %w", err)
	}
	patch, err := jsondiff.CompareJSON(source, target)
	if err != nil {
		return nil, fmt.Errorf("compare documents: %w", err)
	}
	if len(patch) == 0 {
		return []models.PatchOperation{}, nil
	}
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	var ops []models.PatchOperation
	if err := json.Unmarshal(raw, &ops); err != nil {
		return nil, err
	}
	return ops, nil
}

func projection(doc *models.DucFile) ([]byte, error) {
	view := *doc
	view.VersionGraph = nil
	view.Normalize()
	return json.Marshal(&view)
}
