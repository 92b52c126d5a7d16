package models

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDucFile(t *testing.T) {
	doc := NewDucFile()
	assert.Equal(t, "duc", doc.Type)
	assert.NotEmpty(t, doc.Version)
	assert.NotNil(t, doc.Elements)
	assert.NotNil(t, doc.Files)
	assert.NotNil(t, doc.Dictionary)
	assert.NoError(t, doc.Validate())

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.JSONEq(t, `[]`, string(fields["elements"]))
	assert.JSONEq(t, `{}`, string(fields["files"]))
	assert.JSONEq(t, `{}`, string(fields["dictionary"]))
}

func TestDucFileFiles(t *testing.T) {
	doc := NewDucFile()
	doc.AddFile(&BinaryFileData{ID: "b", MimeType: "image/png", Data: []byte{1}})
	doc.AddFile(&BinaryFileData{ID: "a", MimeType: "image/jpeg"})
	doc.AddFile(&BinaryFileData{ID: "b", MimeType: "image/webp"})

	assert.Equal(t, []string{"b", "a"}, FileIDs(doc.Files))
	f, ok := doc.File("b")
	require.True(t, ok)
	assert.Equal(t, "image/webp", f.MimeType)

	_, ok = doc.File("missing")
	assert.False(t, ok)

	data, err := json.Marshal(doc.Files)
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(data), `"b":`), strings.Index(string(data), `"a":`))
	assert.NotContains(t, string(data), "pending")
}

func TestFileMetadata(t *testing.T) {
	retrieved := int64(99)
	f := &BinaryFileData{ID: "f", MimeType: "image/png", Created: 10, LastRetrieved: &retrieved, Data: []byte("abcd"), Pending: true}
	assert.Equal(t, FileMetadata{ID: "f", MimeType: "image/png", Created: 10, LastRetrieved: &retrieved, Size: 4, HasData: true}, f.Metadata())

	f.Data = nil
	assert.False(t, f.Metadata().HasData)
}

func TestDucFileValidate(t *testing.T) {
	doc := NewDucFile()
	doc.Groups = []DucGroup{{ID: "g1"}}
	doc.Layers = []DucLayer{{ID: "l1"}}
	doc.Blocks = []DucBlock{{ID: "blk"}}
	doc.Elements = ElementList{
		&FrameElement{ElementBase: ElementBase{ID: "frame", Opacity: 1}},
		&RectangleElement{ElementBase: ElementBase{ID: "ok", Opacity: 1, GroupIDs: []string{"g1"}, LayerID: "l1", FrameID: "frame"}},
		&BlockInstanceElement{ElementBase: ElementBase{ID: "inst", Opacity: 1}, BlockID: "blk"},
	}
	require.NoError(t, doc.Validate())

	doc.Elements = append(doc.Elements,
		&RectangleElement{ElementBase: ElementBase{ID: "ok", Opacity: 1}},
		&RectangleElement{ElementBase: ElementBase{ID: "nan", X: math.NaN()}},
		&RectangleElement{ElementBase: ElementBase{ID: "faint", Opacity: 1.5}},
		&RectangleElement{ElementBase: ElementBase{ID: "orphan", GroupIDs: []string{"g9"}, LayerID: "l9", FrameID: "f9"}},
		&BlockInstanceElement{ElementBase: ElementBase{ID: "dangling"}, BlockID: "nope"},
	)

	err := doc.Validate()
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 7)
	assert.ErrorContains(t, err, `duplicate element id "ok"`)
	assert.ErrorContains(t, err, `"nan" has non-finite geometry`)
	assert.ErrorContains(t, err, `"faint" opacity 1.5`)
	assert.ErrorContains(t, err, `unknown group "g9"`)
	assert.ErrorContains(t, err, `unknown layer "l9"`)
	assert.ErrorContains(t, err, `unknown frame "f9"`)
	assert.ErrorContains(t, err, `unknown block "nope"`)
}

func TestDucFileJSONRoundTrip(t *testing.T) {
	doc := NewDucFile()
	doc.Source = "test"
	doc.AppState = NewAppState()
	doc.Elements = ElementList{
		&RectangleElement{ElementBase: ElementBase{ID: "rect_1", X: 10, Y: 20, Width: 100, Height: 50, Opacity: 1}},
	}
	doc.AddFile(&BinaryFileData{ID: "img", MimeType: "image/png", Data: []byte{0x89, 0x50}})
	doc.Dictionary["author"] = "someone"

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded DucFile
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc.Elements, decoded.Elements)
	assert.Equal(t, doc.AppState, decoded.AppState)
	assert.Equal(t, doc.Dictionary, decoded.Dictionary)
	f, ok := decoded.File("img")
	require.True(t, ok)
	assert.Equal(t, []byte{0x89, 0x50}, f.Data)
}

func TestPruningLevel(t *testing.T) {
	for _, tc := range []struct {
		level PruningLevel
		name  string
		days  int
	}{
		{PruningLevelConservative, "conservative", 90},
		{PruningLevelBalanced, "balanced", 30},
		{PruningLevelAggressive, "aggressive", 7},
	} {
		t.Run(tc.name, func(t *testing.T) {
			window, err := tc.level.RetentionWindow()
			require.NoError(t, err)
			assert.Equal(t, float64(tc.days*24), window.Hours())

			parsed, err := ParsePruningLevel(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.level, parsed)
		})
	}

	_, err := PruningLevel(1).RetentionWindow()
	assert.Error(t, err)
	_, err = ParsePruningLevel("never")
	assert.Error(t, err)
}

func TestVersionGraphNodes(t *testing.T) {
	g := &VersionGraph{
		Checkpoints: []Checkpoint{{VersionBase: VersionBase{ID: "c1"}, SizeBytes: 100}},
		Deltas: []Delta{
			{VersionBase: VersionBase{ID: "d1", ParentID: "c1"}, SizeBytes: 10},
			{VersionBase: VersionBase{ID: "d2", ParentID: "d1"}, SizeBytes: 5},
		},
		Metadata: VersionGraphMetadata{TotalSize: 1},
	}

	nodes := g.Nodes()
	require.Len(t, nodes, 3)
	assert.NotNil(t, nodes["c1"].Checkpoint)
	assert.Equal(t, "d1", nodes["d2"].Base().ParentID)
	assert.Equal(t, int64(5), nodes["d2"].SizeBytes())
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, int64(115), g.ComputeTotalSize())
}
