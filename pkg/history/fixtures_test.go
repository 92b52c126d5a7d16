package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ducflair/duc-sub001/pkg/models"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func rect(id string, x, y float64) *models.RectangleElement {
	return &models.RectangleElement{ElementBase: models.ElementBase{
		ID: id, X: x, Y: y, Width: 10, Height: 10, Opacity: 1, IsVisible: true,
	}}
}

func docWith(elements ...models.Element) *models.DucFile {
	doc := models.NewDucFile()
	doc.Source = "history-test"
	doc.Elements = models.ElementList(elements)
	return doc
}

func meta(id string, age time.Duration) VersionMeta {
	return VersionMeta{ID: id, Timestamp: epoch.Add(-age)}
}

// recordedHistory builds cp -> d1 -> d2 from three document states and
// returns the graph together with the states keyed by version id.
func recordedHistory(t *testing.T) (*models.VersionGraph, map[string]*models.DucFile) {
	t.Helper()

	v0 := docWith(rect("a", 0, 0))
	v1 := docWith(rect("a", 5, 0))
	v1.Dictionary["title"] = "moved"
	v2 := docWith(rect("a", 5, 0), rect("b", 20, 20))
	v2.Dictionary["title"] = "moved"

	g := &models.VersionGraph{}
	cp, err := NewCheckpoint(v0, "", meta("cp", 3*time.Hour))
	require.NoError(t, err)
	require.NoError(t, AppendCheckpoint(g, cp))

	d1, err := NewDelta(v0, v1, "cp", meta("d1", 2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, AppendDelta(g, d1))

	d2, err := NewDelta(v1, v2, "d1", meta("d2", time.Hour))
	require.NoError(t, err)
	require.NoError(t, AppendDelta(g, d2))

	return g, map[string]*models.DucFile{"cp": v0, "d1": v1, "d2": v2}
}

func checkpoint(id, parent string, age time.Duration, size int64) models.Checkpoint {
	return models.Checkpoint{
		VersionBase: models.VersionBase{ID: id, ParentID: parent, Timestamp: epoch.Add(-age).UnixMilli()},
		Data:        make([]byte, size),
		SizeBytes:   size,
	}
}

func delta(id, parent string, age time.Duration, size int64) models.Delta {
	return models.Delta{
		VersionBase: models.VersionBase{ID: id, ParentID: parent, Timestamp: epoch.Add(-age).UnixMilli()},
		SizeBytes:   size,
	}
}

func requireSameProjection(t *testing.T, expected, actual *models.DucFile) {
	t.Helper()
	want, err := projection(expected)
	require.NoError(t, err)
	got, err := projection(actual)
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(got))
}
