package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

func TestResolveChain(t *testing.T) {
	g := &models.VersionGraph{
		Checkpoints: []models.Checkpoint{checkpoint("cp", "", 3*time.Hour, 100)},
		Deltas: []models.Delta{
			delta("d2", "d1", time.Hour, 7),
			delta("d1", "cp", 2*time.Hour, 5),
		},
	}

	chain, err := ResolveChain(g, "d2", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"cp", "d1", "d2"}, chain.VersionIDs())
	assert.Equal(t, "d2", chain.Target())
	assert.Equal(t, int64(112), chain.TotalSize)
	assert.NoError(t, chain.Validate())

	chain, err = ResolveChain(g, "cp", 0)
	require.NoError(t, err)
	assert.Empty(t, chain.Deltas)
	assert.Equal(t, "cp", chain.Target())
}

func TestResolveChainErrors(t *testing.T) {
	cp := checkpoint("cp", "", time.Hour, 1)

	tests := []struct {
		name    string
		graph   *models.VersionGraph
		target  string
		maxHops int
		kind    error
	}{
		{
			name:   "unknown version",
			graph:  &models.VersionGraph{Checkpoints: []models.Checkpoint{cp}},
			target: "missing",
			kind:   constants.ErrVersionNotFound,
		},
		{
			name:   "nil graph",
			target: "cp",
			kind:   constants.ErrVersionNotFound,
		},
		{
			name: "missing parent",
			graph: &models.VersionGraph{
				Checkpoints: []models.Checkpoint{cp},
				Deltas:      []models.Delta{delta("d1", "gone", 0, 1)},
			},
			target: "d1",
			kind:   constants.ErrBrokenHistoryChain,
		},
		{
			name:   "delta without parent",
			graph:  &models.VersionGraph{Deltas: []models.Delta{delta("d1", "", 0, 1)}},
			target: "d1",
			kind:   constants.ErrBrokenHistoryChain,
		},
		{
			name:   "self parent",
			graph:  &models.VersionGraph{Deltas: []models.Delta{delta("d1", "d1", 0, 1)}},
			target: "d1",
			kind:   constants.ErrCyclicHistory,
		},
		{
			name: "two node cycle",
			graph: &models.VersionGraph{Deltas: []models.Delta{
				delta("d1", "d2", 0, 1),
				delta("d2", "d1", 0, 1),
			}},
			target: "d2",
			kind:   constants.ErrCyclicHistory,
		},
		{
			name: "hop cap",
			graph: &models.VersionGraph{
				Checkpoints: []models.Checkpoint{cp},
				Deltas: []models.Delta{
					delta("d1", "cp", 0, 1),
					delta("d2", "d1", 0, 1),
					delta("d3", "d2", 0, 1),
				},
			},
			target:  "d3",
			maxHops: 2,
			kind:    constants.ErrBrokenHistoryChain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveChain(tt.graph, tt.target, tt.maxHops)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var herr *HistoryError
			require.True(t, errors.As(err, &herr))
			assert.Equal(t, tt.target, herr.VersionID)
		})
	}
}

func TestChainValidate(t *testing.T) {
	cp := checkpoint("cp", "", 0, 1)
	d1 := delta("d1", "cp", 0, 1)
	d2 := delta("d2", "other", 0, 1)

	chain := &Chain{Checkpoint: &cp, Deltas: []*models.Delta{&d1, &d2}}
	err := chain.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected "d1", got "other"`)

	assert.Error(t, (&Chain{}).Validate())
}
