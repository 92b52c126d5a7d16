package duccbor

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/ducflair/duc-sub001/pkg/models"
)

// Wire tables. Every table is a CBOR map keyed by small unsigned integers.
// Slot numbers are part of the format and must never be reused.

// rootSlotFiles is the root slot holding the file entry list.
const rootSlotFiles = 6

// File entry slots. The scanner reads file entries without the codec, so
// these are shared with it.
const (
	fileSlotID                = 1
	fileSlotMimeType          = 2
	fileSlotCreated           = 3
	fileSlotLastRetrieved     = 4
	fileSlotData              = 5
	fileSlotStatus            = 6
	fileSlotSavedToFileSystem = 7
	fileSlotHasSyncedToServer = 8
)

type wireRoot struct {
	Type          string             `cbor:"1,keyasint,omitempty"`
	Version       *string            `cbor:"2,keyasint"`
	Source        string             `cbor:"3,keyasint,omitempty"`
	Elements      []cbor.RawMessage  `cbor:"4,keyasint,omitempty"`
	AppState      *wireAppState      `cbor:"5,keyasint,omitempty"`
	Files         fileEntries        `cbor:"6,keyasint,omitempty"`
	RendererState *wireRendererState `cbor:"7,keyasint,omitempty"`
	Blocks        []cbor.RawMessage  `cbor:"8,keyasint,omitempty"`
	Groups        []cbor.RawMessage  `cbor:"9,keyasint,omitempty"`
	Layers        []cbor.RawMessage  `cbor:"10,keyasint,omitempty"`
	Regions       []cbor.RawMessage  `cbor:"11,keyasint,omitempty"`
	Dictionary    []cbor.RawMessage  `cbor:"12,keyasint,omitempty"`
	VersionGraph  *wireVersionGraph  `cbor:"13,keyasint,omitempty"`
}

// fileEntries carries pre-encoded file entries when encoding. When decoding
// the slot is left in the input buffer and read by the scanner, so payload
// bytes are never copied by the table decoder.
type fileEntries []cbor.RawMessage

func (*fileEntries) UnmarshalCBOR([]byte) error {
	return nil
}

// wireElement is the tagged element table. Kind is read at full width so a
// discriminant outside this build's range still decodes as unknown.
type wireElement struct {
	Kind    uint64          `cbor:"1,keyasint"`
	Payload cbor.RawMessage `cbor:"2,keyasint"`
}

type wireContent struct {
	Preference uint8   `cbor:"1,keyasint,omitempty"`
	Src        string  `cbor:"2,keyasint,omitempty"`
	Visible    bool    `cbor:"3,keyasint,omitempty"`
	Opacity    float32 `cbor:"4,keyasint,omitempty"`
}

type wireStrokeStyle struct {
	Preference uint8     `cbor:"1,keyasint,omitempty"`
	Cap        uint8     `cbor:"2,keyasint,omitempty"`
	Join       uint8     `cbor:"3,keyasint,omitempty"`
	Dash       []float64 `cbor:"4,keyasint,omitempty"`
	MiterLimit float32   `cbor:"5,keyasint,omitempty"`
}

type wireStroke struct {
	Content   wireContent     `cbor:"1,keyasint"`
	Width     float64         `cbor:"2,keyasint,omitempty"`
	Style     wireStrokeStyle `cbor:"3,keyasint"`
	Placement uint8           `cbor:"4,keyasint,omitempty"`
}

type wireBackground struct {
	Content wireContent `cbor:"1,keyasint"`
}

type wireBoundElement struct {
	ID   string `cbor:"1,keyasint,omitempty"`
	Type string `cbor:"2,keyasint,omitempty"`
}

type wireElementBase struct {
	ID            string             `cbor:"1,keyasint,omitempty"`
	X             float64            `cbor:"2,keyasint,omitempty"`
	Y             float64            `cbor:"3,keyasint,omitempty"`
	Width         float64            `cbor:"4,keyasint,omitempty"`
	Height        float64            `cbor:"5,keyasint,omitempty"`
	Angle         float64            `cbor:"6,keyasint,omitempty"`
	ZIndex        int32              `cbor:"7,keyasint,omitempty"`
	Opacity       float64            `cbor:"8,keyasint,omitempty"`
	IsVisible     bool               `cbor:"9,keyasint,omitempty"`
	Locked        bool               `cbor:"10,keyasint,omitempty"`
	GroupIDs      []string           `cbor:"11,keyasint,omitempty"`
	RegionIDs     []string           `cbor:"12,keyasint,omitempty"`
	LayerID       string             `cbor:"13,keyasint,omitempty"`
	FrameID       string             `cbor:"14,keyasint,omitempty"`
	Label         string             `cbor:"15,keyasint,omitempty"`
	Description   string             `cbor:"16,keyasint,omitempty"`
	Link          string             `cbor:"17,keyasint,omitempty"`
	Seed          int32              `cbor:"18,keyasint,omitempty"`
	Stroke        []wireStroke       `cbor:"19,keyasint,omitempty"`
	Background    []wireBackground   `cbor:"20,keyasint,omitempty"`
	BoundElements []wireBoundElement `cbor:"21,keyasint,omitempty"`
	Version       int32              `cbor:"22,keyasint,omitempty"`
	VersionNonce  int32              `cbor:"23,keyasint,omitempty"`
	Updated       int64              `cbor:"24,keyasint,omitempty"`
	IsDeleted     bool               `cbor:"25,keyasint,omitempty"`
	CustomData    []byte             `cbor:"26,keyasint,omitempty"`
}

// baseSlotLast is the highest base slot this build writes. Higher slots of
// an unknown element's base belong to a newer writer.
const baseSlotLast = 26

// Variant payloads keep the base table in slot 1. An element of an unknown
// kind is still enumerable as long as it follows this layout.

type wireBaseOnly struct {
	Base wireElementBase `cbor:"1,keyasint"`
}

type wireEllipse struct {
	Base             wireElementBase `cbor:"1,keyasint"`
	Ratio            float64         `cbor:"2,keyasint,omitempty"`
	StartAngle       float64         `cbor:"3,keyasint,omitempty"`
	EndAngle         float64         `cbor:"4,keyasint,omitempty"`
	ShowAuxCrosshair bool            `cbor:"5,keyasint,omitempty"`
}

type wirePolygon struct {
	Base  wireElementBase `cbor:"1,keyasint"`
	Sides int32           `cbor:"2,keyasint,omitempty"`
}

type wireText struct {
	Base          wireElementBase `cbor:"1,keyasint"`
	Text          string          `cbor:"2,keyasint,omitempty"`
	OriginalText  string          `cbor:"3,keyasint,omitempty"`
	FontFamily    string          `cbor:"4,keyasint,omitempty"`
	FontSize      float64         `cbor:"5,keyasint,omitempty"`
	LineHeight    float32         `cbor:"6,keyasint,omitempty"`
	TextAlign     uint8           `cbor:"7,keyasint,omitempty"`
	VerticalAlign uint8           `cbor:"8,keyasint,omitempty"`
	AutoResize    bool            `cbor:"9,keyasint,omitempty"`
	ContainerID   string          `cbor:"10,keyasint,omitempty"`
}

type wirePointBinding struct {
	ElementID  string        `cbor:"1,keyasint,omitempty"`
	Focus      float64       `cbor:"2,keyasint,omitempty"`
	Gap        float64       `cbor:"3,keyasint,omitempty"`
	FixedPoint *models.Point `cbor:"4,keyasint,omitempty"`
	Head       string        `cbor:"5,keyasint,omitempty"`
}

// wireLinear serves lines and arrows; Elbowed is only set for arrows.
type wireLinear struct {
	Base               wireElementBase   `cbor:"1,keyasint"`
	Points             []models.Point    `cbor:"2,keyasint,omitempty"`
	StartBinding       *wirePointBinding `cbor:"3,keyasint,omitempty"`
	EndBinding         *wirePointBinding `cbor:"4,keyasint,omitempty"`
	LastCommittedPoint *models.Point     `cbor:"5,keyasint,omitempty"`
	Wipeout            bool              `cbor:"6,keyasint,omitempty"`
	Elbowed            bool              `cbor:"7,keyasint,omitempty"`
}

type wireFreeDraw struct {
	Base               wireElementBase `cbor:"1,keyasint"`
	Points             []models.Point  `cbor:"2,keyasint,omitempty"`
	Pressures          []float32       `cbor:"3,keyasint,omitempty"`
	SimulatePressure   bool            `cbor:"4,keyasint,omitempty"`
	Thinning           float64         `cbor:"5,keyasint,omitempty"`
	Smoothing          float64         `cbor:"6,keyasint,omitempty"`
	Streamline         float64         `cbor:"7,keyasint,omitempty"`
	LastCommittedPoint *models.Point   `cbor:"8,keyasint,omitempty"`
}

type wireImageCrop struct {
	X             float64 `cbor:"1,keyasint,omitempty"`
	Y             float64 `cbor:"2,keyasint,omitempty"`
	Width         float64 `cbor:"3,keyasint,omitempty"`
	Height        float64 `cbor:"4,keyasint,omitempty"`
	NaturalWidth  float64 `cbor:"5,keyasint,omitempty"`
	NaturalHeight float64 `cbor:"6,keyasint,omitempty"`
}

type wireImage struct {
	Base   wireElementBase `cbor:"1,keyasint"`
	FileID string          `cbor:"2,keyasint,omitempty"`
	Status uint8           `cbor:"3,keyasint,omitempty"`
	ScaleX float64         `cbor:"4,keyasint,omitempty"`
	ScaleY float64         `cbor:"5,keyasint,omitempty"`
	Crop   *wireImageCrop  `cbor:"6,keyasint,omitempty"`
}

type wireFrame struct {
	Base         wireElementBase `cbor:"1,keyasint"`
	Clip         bool            `cbor:"2,keyasint,omitempty"`
	LabelVisible bool            `cbor:"3,keyasint,omitempty"`
}

type wireStringEntry struct {
	Key   string `cbor:"1,keyasint"`
	Value string `cbor:"2,keyasint"`
}

type wireDuplication struct {
	Rows       int32   `cbor:"1,keyasint,omitempty"`
	Cols       int32   `cbor:"2,keyasint,omitempty"`
	RowSpacing float64 `cbor:"3,keyasint,omitempty"`
	ColSpacing float64 `cbor:"4,keyasint,omitempty"`
}

type wireBlockInstance struct {
	Base             wireElementBase   `cbor:"1,keyasint"`
	BlockID          string            `cbor:"2,keyasint,omitempty"`
	ElementOverrides []wireStringEntry `cbor:"3,keyasint,omitempty"`
	AttributeValues  []wireStringEntry `cbor:"4,keyasint,omitempty"`
	Duplication      *wireDuplication  `cbor:"5,keyasint,omitempty"`
}

type wireStackBase struct {
	Label       string  `cbor:"1,keyasint,omitempty"`
	Description string  `cbor:"2,keyasint,omitempty"`
	IsCollapsed bool    `cbor:"3,keyasint,omitempty"`
	IsPlot      bool    `cbor:"4,keyasint,omitempty"`
	IsVisible   bool    `cbor:"5,keyasint,omitempty"`
	Locked      bool    `cbor:"6,keyasint,omitempty"`
	Opacity     float64 `cbor:"7,keyasint,omitempty"`
}

type wireGroup struct {
	ID    string        `cbor:"1,keyasint,omitempty"`
	Stack wireStackBase `cbor:"2,keyasint"`
}

type wireLayerOverrides struct {
	Stroke     *wireStroke     `cbor:"1,keyasint,omitempty"`
	Background *wireBackground `cbor:"2,keyasint,omitempty"`
}

type wireLayer struct {
	ID        string              `cbor:"1,keyasint,omitempty"`
	Stack     wireStackBase       `cbor:"2,keyasint"`
	ReadOnly  bool                `cbor:"3,keyasint,omitempty"`
	Overrides *wireLayerOverrides `cbor:"4,keyasint,omitempty"`
}

type wireRegion struct {
	ID               string        `cbor:"1,keyasint,omitempty"`
	Stack            wireStackBase `cbor:"2,keyasint"`
	BooleanOperation uint8         `cbor:"3,keyasint,omitempty"`
}

type wireAttributeDefinition struct {
	Tag          string `cbor:"1,keyasint,omitempty"`
	Prompt       string `cbor:"2,keyasint,omitempty"`
	DefaultValue string `cbor:"3,keyasint,omitempty"`
	IsConstant   bool   `cbor:"4,keyasint,omitempty"`
}

type wireBlock struct {
	ID                   string                    `cbor:"1,keyasint,omitempty"`
	Label                string                    `cbor:"2,keyasint,omitempty"`
	Description          string                    `cbor:"3,keyasint,omitempty"`
	Version              int32                     `cbor:"4,keyasint,omitempty"`
	Elements             []cbor.RawMessage         `cbor:"5,keyasint,omitempty"`
	AttributeDefinitions []wireAttributeDefinition `cbor:"6,keyasint,omitempty"`
}

type wireAppState struct {
	ActiveTool             string          `cbor:"1,keyasint,omitempty"`
	ScrollX                float64         `cbor:"2,keyasint,omitempty"`
	ScrollY                float64         `cbor:"3,keyasint,omitempty"`
	Zoom                   float64         `cbor:"4,keyasint,omitempty"`
	ViewBackgroundColor    string          `cbor:"5,keyasint,omitempty"`
	Name                   string          `cbor:"6,keyasint,omitempty"`
	SelectedElementIDs     []string        `cbor:"7,keyasint,omitempty"`
	SelectedGroupIDs       []string        `cbor:"8,keyasint,omitempty"`
	EditingGroupID         string          `cbor:"9,keyasint,omitempty"`
	GridSize               int32           `cbor:"10,keyasint,omitempty"`
	GridStep               int32           `cbor:"11,keyasint,omitempty"`
	GridModeEnabled        bool            `cbor:"12,keyasint,omitempty"`
	ObjectsSnapModeEnabled bool            `cbor:"13,keyasint,omitempty"`
	PenMode                bool            `cbor:"14,keyasint,omitempty"`
	ViewModeEnabled        bool            `cbor:"15,keyasint,omitempty"`
	ZenModeEnabled         bool            `cbor:"16,keyasint,omitempty"`
	CurrentItemStroke      *wireStroke     `cbor:"17,keyasint,omitempty"`
	CurrentItemBackground  *wireBackground `cbor:"18,keyasint,omitempty"`
	CurrentItemOpacity     float64         `cbor:"19,keyasint,omitempty"`
	CurrentItemFontFamily  string          `cbor:"20,keyasint,omitempty"`
	CurrentItemFontSize    float64         `cbor:"21,keyasint,omitempty"`
	CurrentItemRoundness   float64         `cbor:"22,keyasint,omitempty"`
	Scope                  string          `cbor:"23,keyasint,omitempty"`
	MainScope              string          `cbor:"24,keyasint,omitempty"`
}

type wireRendererState struct {
	DeletedElementIDs []string `cbor:"1,keyasint,omitempty"`
}

// wireFile is only used for encoding; file entries are decoded by the
// scanner.
type wireFile struct {
	ID                string `cbor:"1,keyasint"`
	MimeType          string `cbor:"2,keyasint,omitempty"`
	Created           int64  `cbor:"3,keyasint,omitempty"`
	LastRetrieved     *int64 `cbor:"4,keyasint,omitempty"`
	Data              []byte `cbor:"5,keyasint"`
	Status            uint8  `cbor:"6,keyasint,omitempty"`
	SavedToFileSystem bool   `cbor:"7,keyasint,omitempty"`
	HasSyncedToServer bool   `cbor:"8,keyasint,omitempty"`
}

type wireVersionBase struct {
	ID           string `cbor:"1,keyasint,omitempty"`
	ParentID     string `cbor:"2,keyasint,omitempty"`
	Timestamp    int64  `cbor:"3,keyasint,omitempty"`
	Description  string `cbor:"4,keyasint,omitempty"`
	IsManualSave bool   `cbor:"5,keyasint,omitempty"`
	UserID       string `cbor:"6,keyasint,omitempty"`
}

type wireCheckpoint struct {
	Base      wireVersionBase `cbor:"1,keyasint"`
	Data      []byte          `cbor:"2,keyasint,omitempty"`
	SizeBytes int64           `cbor:"3,keyasint,omitempty"`
}

type wirePatchOperation struct {
	Op    string `cbor:"1,keyasint,omitempty"`
	Path  string `cbor:"2,keyasint,omitempty"`
	From  string `cbor:"3,keyasint,omitempty"`
	Value []byte `cbor:"4,keyasint,omitempty"`
}

type wireDelta struct {
	Base      wireVersionBase      `cbor:"1,keyasint"`
	Patch     []wirePatchOperation `cbor:"2,keyasint,omitempty"`
	SizeBytes int64                `cbor:"3,keyasint,omitempty"`
}

type wireGraphMetadata struct {
	PruningLevel *uint8 `cbor:"1,keyasint,omitempty"`
	LastPruned   int64  `cbor:"2,keyasint,omitempty"`
	TotalSize    int64  `cbor:"3,keyasint,omitempty"`
}

type wireVersionGraph struct {
	UserCheckpointVersionID string            `cbor:"1,keyasint,omitempty"`
	LatestVersionID         string            `cbor:"2,keyasint,omitempty"`
	Checkpoints             []wireCheckpoint  `cbor:"3,keyasint,omitempty"`
	Deltas                  []wireDelta       `cbor:"4,keyasint,omitempty"`
	Metadata                wireGraphMetadata `cbor:"5,keyasint"`
}
