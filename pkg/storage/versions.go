package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// Metadata keys maintained by the version store.
const (
	KeyLatestVersion  = "latest_version_id"
	KeyUserCheckpoint = "user_checkpoint_version_id"
	KeyPruningLevel   = "pruning_level"
	KeyLastPruned     = "last_pruned"
)

const (
	kindCheckpoint = "checkpoint"
	kindDelta      = "delta"
)

// AppendCheckpoint stores c and makes it the latest version.
func (s *Store) AppendCheckpoint(ctx context.Context, c models.Checkpoint) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkAppend(ctx, tx, c.VersionBase, false); err != nil {
			return err
		}
		if err := insertCheckpoint(ctx, tx, c); err != nil {
			return err
		}
		return setMetadata(ctx, tx, KeyLatestVersion, c.ID)
	})
}

// AppendDelta stores d and makes it the latest version. The parent must
// already be stored.
func (s *Store) AppendDelta(ctx context.Context, d models.Delta) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkAppend(ctx, tx, d.VersionBase, true); err != nil {
			return err
		}
		if err := insertDelta(ctx, tx, d); err != nil {
			return err
		}
		return setMetadata(ctx, tx, KeyLatestVersion, d.ID)
	})
}

// SetUserCheckpoint records versionID as the user's checkpoint.
func (s *Store) SetUserCheckpoint(ctx context.Context, versionID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := versionExists(ctx, tx, versionID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user checkpoint %q: %w", versionID, constants.ErrVersionNotFound)
		}
		return setMetadata(ctx, tx, KeyUserCheckpoint, versionID)
	})
}

// SaveGraphMetadata persists the pruning settings of a graph.
func (s *Store) SaveGraphMetadata(ctx context.Context, md models.VersionGraphMetadata) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveGraphMetadata(ctx, tx, md)
	})
}

// ReplaceGraph overwrites the stored history with g, typically after a
// prune.
func (s *Store) ReplaceGraph(ctx context.Context, g *models.VersionGraph) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM duc_versions`); err != nil {
			return fmt.Errorf("clear versions: %w", err)
		}
		for _, c := range g.Checkpoints {
			if err := insertCheckpoint(ctx, tx, c); err != nil {
				return err
			}
		}
		for _, d := range g.Deltas {
			if err := insertDelta(ctx, tx, d); err != nil {
				return err
			}
		}
		for key, value := range map[string]string{
			KeyLatestVersion:  g.LatestVersionID,
			KeyUserCheckpoint: g.UserCheckpointVersionID,
		} {
			var err error
			if value == "" {
				err = deleteMetadata(ctx, tx, key)
			} else {
				err = setMetadata(ctx, tx, key, value)
			}
			if err != nil {
				return err
			}
		}
		return saveGraphMetadata(ctx, tx, g.Metadata)
	})
}

// LoadGraph rebuilds the stored history. Nodes keep their insertion order
// and TotalSize is recomputed from the stored sizes.
func (s *Store) LoadGraph(ctx context.Context) (*models.VersionGraph, error) {
	g := &models.VersionGraph{
		Checkpoints: []models.Checkpoint{},
		Deltas:      []models.Delta{},
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, parent_id, timestamp, description, is_manual_save, user_id, data, patch, size_bytes
		FROM duc_versions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load versions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			base   models.VersionBase
			kind   string
			parent sql.NullString
			data   []byte
			patch  sql.NullString
			size   int64
		)
		if err := rows.Scan(&base.ID, &kind, &parent, &base.Timestamp, &base.Description,
			&base.IsManualSave, &base.UserID, &data, &patch, &size); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		base.ParentID = parent.String

		switch kind {
		case kindCheckpoint:
			g.Checkpoints = append(g.Checkpoints, models.Checkpoint{VersionBase: base, Data: data, SizeBytes: size})
		case kindDelta:
			var ops []models.PatchOperation
			if err := json.Unmarshal([]byte(patch.String), &ops); err != nil {
				return nil, fmt.Errorf("delta %q patch: %w", base.ID, err)
			}
			g.Deltas = append(g.Deltas, models.Delta{VersionBase: base, Patch: ops, SizeBytes: size})
		default:
			return nil, fmt.Errorf("version %q has unknown kind %q", base.ID, kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := s.loadGraphMetadata(ctx, g); err != nil {
		return nil, err
	}
	g.Metadata.TotalSize = g.ComputeTotalSize()
	return g, nil
}

func (s *Store) loadGraphMetadata(ctx context.Context, g *models.VersionGraph) error {
	var err error
	if g.LatestVersionID, _, err = getMetadata(ctx, s.db, KeyLatestVersion); err != nil {
		return err
	}
	if g.UserCheckpointVersionID, _, err = getMetadata(ctx, s.db, KeyUserCheckpoint); err != nil {
		return err
	}

	level, ok, err := getMetadata(ctx, s.db, KeyPruningLevel)
	if err != nil {
		return err
	}
	if ok {
		n, err := strconv.ParseUint(level, 10, 8)
		if err != nil {
			return fmt.Errorf("stored pruning level %q: %w", level, err)
		}
		p := models.PruningLevel(n)
		g.Metadata.PruningLevel = &p
	}

	lastPruned, ok, err := getMetadata(ctx, s.db, KeyLastPruned)
	if err != nil {
		return err
	}
	if ok {
		if g.Metadata.LastPruned, err = strconv.ParseInt(lastPruned, 10, 64); err != nil {
			return fmt.Errorf("stored last pruned time %q: %w", lastPruned, err)
		}
	}
	return nil
}

func saveGraphMetadata(ctx context.Context, tx *sql.Tx, md models.VersionGraphMetadata) error {
	if md.PruningLevel != nil {
		if err := setMetadata(ctx, tx, KeyPruningLevel, strconv.Itoa(int(*md.PruningLevel))); err != nil {
			return err
		}
	} else if err := deleteMetadata(ctx, tx, KeyPruningLevel); err != nil {
		return err
	}
	return setMetadata(ctx, tx, KeyLastPruned, strconv.FormatInt(md.LastPruned, 10))
}

func checkAppend(ctx context.Context, tx *sql.Tx, v models.VersionBase, parentRequired bool) error {
	if v.ID == "" {
		return fmt.Errorf("append: version id must not be empty")
	}
	exists, err := versionExists(ctx, tx, v.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("append %q: %w", v.ID, constants.ErrDuplicateVersion)
	}
	if v.ParentID == "" {
		if parentRequired {
			return fmt.Errorf("append %q: delta has no parent: %w", v.ID, constants.ErrBrokenHistoryChain)
		}
		return nil
	}
	exists, err = versionExists(ctx, tx, v.ParentID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("append %q: parent %q does not exist: %w", v.ID, v.ParentID, constants.ErrBrokenHistoryChain)
	}
	return nil
}

func versionExists(ctx context.Context, tx *sql.Tx, id string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM duc_versions WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up version %q: %w", id, err)
	}
	return true, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func insertCheckpoint(ctx context.Context, tx *sql.Tx, c models.Checkpoint) error {
	data := c.Data
	if data == nil {
		data = []byte{}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO duc_versions (id, kind, parent_id, timestamp, description, is_manual_save, user_id, data, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, kindCheckpoint, nullable(c.ParentID), c.Timestamp, c.Description, c.IsManualSave, c.UserID, data, c.SizeBytes)
	if err != nil {
		return fmt.Errorf("insert checkpoint %q: %w", c.ID, err)
	}
	return nil
}

func insertDelta(ctx context.Context, tx *sql.Tx, d models.Delta) error {
	ops := d.Patch
	if ops == nil {
		ops = []models.PatchOperation{}
	}
	patch, err := json.Marshal(ops)
	if err != nil {
		return fmt.Errorf("encode delta %q patch: %w", d.ID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO duc_versions (id, kind, parent_id, timestamp, description, is_manual_save, user_id, patch, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, kindDelta, nullable(d.ParentID), d.Timestamp, d.Description, d.IsManualSave, d.UserID, string(patch), d.SizeBytes)
	if err != nil {
		return fmt.Errorf("insert delta %q: %w", d.ID, err)
	}
	return nil
}
