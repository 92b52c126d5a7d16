package duccbor

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/ducflair/duc-sub001/pkg/models"
)

func stroke(color string, width float64) models.ElementStroke {
	return models.ElementStroke{
		Content: models.ElementContent{Preference: models.ContentPreferenceSolid, Src: color, Visible: true, Opacity: 0.5},
		Width:   width,
		Style:   models.StrokeStyle{Cap: 1, Join: 2, Dash: []float64{4, 2}, MiterLimit: 10},
	}
}

// unknownPayload builds a variant table of a kind this build does not know,
// with a readable base table and an extra slot.
func unknownPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := cbor.Marshal(map[uint64]any{
		1: map[uint64]any{1: "future_1", 2: float64(5)},
		9: "opaque",
	})
	require.NoError(t, err)
	return payload
}

func sampleDocument(t *testing.T) *models.DucFile {
	t.Helper()

	doc := models.NewDucFile()
	doc.Source = "duccbor-test"
	doc.AppState = models.NewAppState()
	doc.AppState.SelectedElementIDs = []string{"rect_1"}
	doc.AppState.CurrentItemStroke = &models.ElementStroke{Width: 2}

	arrow := &models.ArrowElement{Elbowed: true}
	arrow.ElementBase = models.ElementBase{ID: "arrow_1", X: 1, Y: 2, Opacity: 1}
	arrow.Points = []models.Point{{X: 0, Y: 0}, {X: 50, Y: 25}}
	arrow.StartBinding = &models.PointBinding{ElementID: "rect_1", Focus: 0.25, Gap: 4, FixedPoint: &models.Point{X: 0.5, Y: 1}}
	arrow.EndBinding = &models.PointBinding{ElementID: "ellipse_1", Head: "triangle"}

	doc.Elements = models.ElementList{
		&models.RectangleElement{ElementBase: models.ElementBase{
			ID: "rect_1", X: 10, Y: 20, Width: 100, Height: 50, Angle: 0.5, ZIndex: 3,
			Opacity: 0.75, IsVisible: true, GroupIDs: []string{"g1"}, LayerID: "l1",
			Stroke:        []models.ElementStroke{stroke("#000000", 1.5)},
			Background:    []models.ElementBackground{{Content: models.ElementContent{Src: "#ff0000", Visible: true, Opacity: 1}}},
			BoundElements: []models.BoundElement{{ID: "arrow_1", Type: "arrow"}},
			Version:       4, VersionNonce: -7, Updated: 1700000000000,
			CustomData: []byte{0x01, 0x02, 0xff},
		}},
		&models.EllipseElement{ElementBase: models.ElementBase{ID: "ellipse_1", Width: 30, Height: 30, Opacity: 1}, Ratio: 1, EndAngle: 6.28, ShowAuxCrosshair: true},
		&models.PolygonElement{ElementBase: models.ElementBase{ID: "poly_1", Opacity: 1}, Sides: 6},
		&models.TextElement{ElementBase: models.ElementBase{ID: "text_1", Opacity: 1}, Text: "hello", OriginalText: "hello", FontFamily: "Roboto", FontSize: 16, LineHeight: 1.25, TextAlign: models.TextAlignCenter, VerticalAlign: models.VerticalAlignMiddle, ContainerID: "rect_1"},
		&models.LinearElement{ElementBase: models.ElementBase{ID: "line_1", Opacity: 1}, Points: []models.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}, LastCommittedPoint: &models.Point{X: 10, Y: 10}, Wipeout: true},
		arrow,
		&models.FreeDrawElement{ElementBase: models.ElementBase{ID: "draw_1", Opacity: 1}, Points: []models.Point{{X: 1, Y: 1}, {X: 2, Y: 3}}, Pressures: []float32{0.5, 0.75}, SimulatePressure: true, Thinning: 0.6, Smoothing: 0.5, Streamline: 0.4},
		&models.ImageElement{ElementBase: models.ElementBase{ID: "image_1", Opacity: 1}, FileID: "file_png", Status: models.ImageStatusSaved, ScaleX: 1, ScaleY: -1, Crop: &models.ImageCrop{Width: 10, Height: 10, NaturalWidth: 20, NaturalHeight: 20}},
		&models.FrameElement{ElementBase: models.ElementBase{ID: "frame_1", Opacity: 1}, Clip: true, LabelVisible: true},
		&models.BlockInstanceElement{ElementBase: models.ElementBase{ID: "inst_1", Opacity: 1}, BlockID: "block_1", AttributeValues: []models.StringValueEntry{{Key: "title", Value: "Door"}}, Duplication: &models.DuplicationArray{Rows: 2, Cols: 3, RowSpacing: 10, ColSpacing: 12.5}},
		&models.EmbeddableElement{ElementBase: models.ElementBase{ID: "embed_1", Link: "https://example.com", Opacity: 1}},
		&models.RectangleElement{ElementBase: models.ElementBase{ID: "rect_deleted", IsDeleted: true}},
		&models.UnknownElement{ElementBase: models.ElementBase{ID: "future_1", X: 5}, Discriminant: 200, Payload: unknownPayload(t)},
	}

	retrieved := int64(1700000005000)
	doc.AddFile(&models.BinaryFileData{ID: "file_png", MimeType: "image/png", Created: 1700000000000, LastRetrieved: &retrieved, Data: []byte{0x89, 'P', 'N', 'G'}, Status: models.BinaryFileStatusSaved, SavedToFileSystem: true})
	doc.AddFile(&models.BinaryFileData{ID: "file_empty", MimeType: "application/octet-stream", Created: 1, Data: []byte{}})
	doc.AddFile(&models.BinaryFileData{ID: "file_remote", MimeType: "image/jpeg", Created: 2, HasSyncedToServer: true})

	doc.RendererState = &models.RendererState{DeletedElementIDs: []string{"rect_deleted"}}
	doc.Blocks = []models.DucBlock{{
		ID: "block_1", Label: "Door", Version: 2,
		Elements:             models.ElementList{&models.RectangleElement{ElementBase: models.ElementBase{ID: "block_rect", Width: 1, Height: 2}}},
		AttributeDefinitions: []models.AttributeDefinition{{Tag: "title", Prompt: "Title?", DefaultValue: "Door", IsConstant: false}},
	}}
	doc.Groups = []models.DucGroup{{ID: "g1", StackBase: models.StackBase{Label: "Group", IsVisible: true, Opacity: 1}}}
	doc.Layers = []models.DucLayer{{ID: "l1", ReadOnly: true, StackBase: models.StackBase{Label: "Layer", IsPlot: true}, Overrides: &models.LayerOverrides{Stroke: &models.ElementStroke{Width: 3}}}}
	doc.Regions = []models.DucRegion{{ID: "r1", StackBase: models.StackBase{Label: "Region"}, BooleanOperation: models.BooleanOperationSubtract}}
	doc.Dictionary = map[string]string{"b": "2", "a": "1"}

	level := models.PruningLevelBalanced
	doc.VersionGraph = &models.VersionGraph{
		UserCheckpointVersionID: "c1",
		LatestVersionID:         "d1",
		Checkpoints:             []models.Checkpoint{{VersionBase: models.VersionBase{ID: "c1", Timestamp: 10, IsManualSave: true, UserID: "u1"}, Data: []byte("snapshot"), SizeBytes: 8}},
		Deltas: []models.Delta{{
			VersionBase: models.VersionBase{ID: "d1", ParentID: "c1", Timestamp: 20, Description: "move"},
			Patch: []models.PatchOperation{
				{Op: "replace", Path: "/elements/0/x", Value: json.RawMessage(`12`)},
				{Op: "remove", Path: "/dictionary/a"},
			},
			SizeBytes: 64,
		}},
		Metadata: models.VersionGraphMetadata{PruningLevel: &level, LastPruned: 5, TotalSize: 72},
	}
	return doc
}

// requireSameFiles compares file maps entry by entry in order.
func requireSameFiles(t *testing.T, expected, actual *models.FileMap) {
	t.Helper()
	require.Equal(t, models.FileIDs(expected), models.FileIDs(actual))
	for pair := expected.Oldest(); pair != nil; pair = pair.Next() {
		got, ok := actual.Get(pair.Key)
		require.True(t, ok, pair.Key)
		require.Equal(t, pair.Value, got, pair.Key)
	}
}

// requireSameDocument compares every field of two documents.
func requireSameDocument(t *testing.T, expected, actual *models.DucFile) {
	t.Helper()
	require.Equal(t, expected.Type, actual.Type)
	require.Equal(t, expected.Version, actual.Version)
	require.Equal(t, expected.Source, actual.Source)
	require.Equal(t, expected.Elements, actual.Elements)
	require.Equal(t, expected.AppState, actual.AppState)
	requireSameFiles(t, expected.Files, actual.Files)
	require.Equal(t, expected.RendererState, actual.RendererState)
	require.Equal(t, expected.Blocks, actual.Blocks)
	require.Equal(t, expected.Groups, actual.Groups)
	require.Equal(t, expected.Layers, actual.Layers)
	require.Equal(t, expected.Regions, actual.Regions)
	require.Equal(t, expected.Dictionary, actual.Dictionary)
	require.Equal(t, expected.VersionGraph, actual.VersionGraph)
}
