package models

import (
	"fmt"
)

// ElementKind is the wire discriminant of an element variant.
type ElementKind uint8

const (
	ElementKindUnknown       ElementKind = 0
	ElementKindRectangle     ElementKind = 1
	ElementKindEllipse       ElementKind = 2
	ElementKindPolygon       ElementKind = 3
	ElementKindText          ElementKind = 4
	ElementKindLine          ElementKind = 5
	ElementKindArrow         ElementKind = 6
	ElementKindFreeDraw      ElementKind = 7
	ElementKindImage         ElementKind = 8
	ElementKindFrame         ElementKind = 9
	ElementKindBlockInstance ElementKind = 10
	ElementKindEmbeddable    ElementKind = 11
)

var elementKindNames = map[ElementKind]string{
	ElementKindUnknown:       "unknown",
	ElementKindRectangle:     "rectangle",
	ElementKindEllipse:       "ellipse",
	ElementKindPolygon:       "polygon",
	ElementKindText:          "text",
	ElementKindLine:          "line",
	ElementKindArrow:         "arrow",
	ElementKindFreeDraw:      "freedraw",
	ElementKindImage:         "image",
	ElementKindFrame:         "frame",
	ElementKindBlockInstance: "blockinstance",
	ElementKindEmbeddable:    "embeddable",
}

func (k ElementKind) String() string {
	if name, ok := elementKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseElementKind maps a JSON type name back to its kind.
func ParseElementKind(name string) (ElementKind, bool) {
	for k, n := range elementKindNames {
		if n == name {
			return k, true
		}
	}
	return ElementKindUnknown, false
}

// Element is the closed set of drawable variants. Every variant embeds
// ElementBase and reports its discriminant through Kind.
type Element interface {
	Kind() ElementKind
	Base() *ElementBase
	isElement()
}

// NewElement returns a zero variant for kind, or nil for kinds this build
// does not know.
func NewElement(kind ElementKind) Element {
	switch kind {
	case ElementKindRectangle:
		return &RectangleElement{}
	case ElementKindEllipse:
		return &EllipseElement{}
	case ElementKindPolygon:
		return &PolygonElement{}
	case ElementKindText:
		return &TextElement{}
	case ElementKindLine:
		return &LinearElement{}
	case ElementKindArrow:
		return &ArrowElement{}
	case ElementKindFreeDraw:
		return &FreeDrawElement{}
	case ElementKindImage:
		return &ImageElement{}
	case ElementKindFrame:
		return &FrameElement{}
	case ElementKindBlockInstance:
		return &BlockInstanceElement{}
	case ElementKindEmbeddable:
		return &EmbeddableElement{}
	default:
		return nil
	}
}

// ElementBase holds the fields shared by every variant.
//
// ID is the identity of the element and is never rewritten once assigned.
// IsDeleted marks a tombstone: the element is still encoded but consumers
// exclude it from active enumeration.
type ElementBase struct {
	ID            string              `json:"id"`
	X             float64             `json:"x"`
	Y             float64             `json:"y"`
	Width         float64             `json:"width"`
	Height        float64             `json:"height"`
	Angle         float64             `json:"angle"`
	ZIndex        int32               `json:"zIndex"`
	Opacity       float64             `json:"opacity"`
	IsVisible     bool                `json:"isVisible"`
	Locked        bool                `json:"locked"`
	GroupIDs      []string            `json:"groupIds,omitempty"`
	RegionIDs     []string            `json:"regionIds,omitempty"`
	LayerID       string              `json:"layerId,omitempty"`
	FrameID       string              `json:"frameId,omitempty"`
	Label         string              `json:"label,omitempty"`
	Description   string              `json:"description,omitempty"`
	Link          string              `json:"link,omitempty"`
	Seed          int32               `json:"seed"`
	Stroke        []ElementStroke     `json:"stroke,omitempty"`
	Background    []ElementBackground `json:"background,omitempty"`
	BoundElements []BoundElement      `json:"boundElements,omitempty"`
	Version       int32               `json:"version"`
	VersionNonce  int32               `json:"versionNonce"`
	Updated       int64               `json:"updated"`
	IsDeleted     bool                `json:"isDeleted"`
	CustomData    []byte              `json:"customData,omitempty"`
}

func (b *ElementBase) Base() *ElementBase { return b }

// ToScene maps a point relative to the element origin to scene
// coordinates, applying the element rotation.
func (b *ElementBase) ToScene(p Point) Point {
	center := Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
	return rotate(Point{X: b.X + p.X, Y: b.Y + p.Y}, center, b.Angle)
}

// Corners returns the four corners of the element box after rotation
// around its center.
func (b *ElementBase) Corners() [4]Point {
	center := Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
	return [4]Point{
		rotate(Point{X: b.X, Y: b.Y}, center, b.Angle),
		rotate(Point{X: b.X + b.Width, Y: b.Y}, center, b.Angle),
		rotate(Point{X: b.X + b.Width, Y: b.Y + b.Height}, center, b.Angle),
		rotate(Point{X: b.X, Y: b.Y + b.Height}, center, b.Angle),
	}
}

// InGroup reports whether the element lists groupID among its groups.
func (b *ElementBase) InGroup(groupID string) bool {
	for _, id := range b.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

// BoundElement is a back-reference to an element bound to this one.
type BoundElement struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// ContentPreference selects how an element content is painted.
type ContentPreference uint8

const (
	ContentPreferenceSolid ContentPreference = iota
	ContentPreferenceFill
	ContentPreferenceHatch
	ContentPreferenceImage
)

// ElementContent is the paint shared by strokes and backgrounds. Src is a
// color for solid content and a file id for image content.
type ElementContent struct {
	Preference ContentPreference `json:"preference"`
	Src        string            `json:"src"`
	Visible    bool              `json:"visible"`
	Opacity    float32           `json:"opacity"`
}

type StrokePlacement uint8

const (
	StrokePlacementCenter StrokePlacement = iota
	StrokePlacementInside
	StrokePlacementOutside
)

type StrokeStyle struct {
	Preference uint8     `json:"preference"`
	Cap        uint8     `json:"cap"`
	Join       uint8     `json:"join"`
	Dash       []float64 `json:"dash,omitempty"`
	MiterLimit float32   `json:"miterLimit"`
}

type ElementStroke struct {
	Content   ElementContent  `json:"content"`
	Width     float64         `json:"width"`
	Style     StrokeStyle     `json:"style"`
	Placement StrokePlacement `json:"placement"`
}

type ElementBackground struct {
	Content ElementContent `json:"content"`
}

type RectangleElement struct {
	ElementBase
}

func (*RectangleElement) Kind() ElementKind { return ElementKindRectangle }
func (*RectangleElement) isElement()        {}

type EllipseElement struct {
	ElementBase
	Ratio            float64 `json:"ratio"`
	StartAngle       float64 `json:"startAngle"`
	EndAngle         float64 `json:"endAngle"`
	ShowAuxCrosshair bool    `json:"showAuxCrosshair"`
}

func (*EllipseElement) Kind() ElementKind { return ElementKindEllipse }
func (*EllipseElement) isElement()        {}

type PolygonElement struct {
	ElementBase
	Sides int32 `json:"sides"`
}

func (*PolygonElement) Kind() ElementKind { return ElementKindPolygon }
func (*PolygonElement) isElement()        {}

type TextAlign uint8

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

type VerticalAlign uint8

const (
	VerticalAlignTop VerticalAlign = iota
	VerticalAlignMiddle
	VerticalAlignBottom
)

type TextElement struct {
	ElementBase
	Text          string        `json:"text"`
	OriginalText  string        `json:"originalText"`
	FontFamily    string        `json:"fontFamily"`
	FontSize      float64       `json:"fontSize"`
	LineHeight    float32       `json:"lineHeight"`
	TextAlign     TextAlign     `json:"textAlign"`
	VerticalAlign VerticalAlign `json:"verticalAlign"`
	AutoResize    bool          `json:"autoResize"`
	ContainerID   string        `json:"containerId,omitempty"`
}

func (*TextElement) Kind() ElementKind { return ElementKindText }
func (*TextElement) isElement()        {}

// PointBinding attaches an end of a linear element to another element.
type PointBinding struct {
	ElementID  string  `json:"elementId"`
	Focus      float64 `json:"focus"`
	Gap        float64 `json:"gap"`
	FixedPoint *Point  `json:"fixedPoint,omitempty"`
	Head       string  `json:"head,omitempty"`
}

// LinearElement is a polyline. Points are relative to the element origin.
type LinearElement struct {
	ElementBase
	Points             []Point       `json:"points,omitempty"`
	StartBinding       *PointBinding `json:"startBinding,omitempty"`
	EndBinding         *PointBinding `json:"endBinding,omitempty"`
	LastCommittedPoint *Point        `json:"lastCommittedPoint,omitempty"`
	Wipeout            bool          `json:"wipeout"`
}

func (*LinearElement) Kind() ElementKind { return ElementKindLine }
func (*LinearElement) isElement()        {}

type ArrowElement struct {
	LinearElement
	Elbowed bool `json:"elbowed"`
}

func (*ArrowElement) Kind() ElementKind { return ElementKindArrow }
func (*ArrowElement) isElement()        {}

type FreeDrawElement struct {
	ElementBase
	Points             []Point   `json:"points,omitempty"`
	Pressures          []float32 `json:"pressures,omitempty"`
	SimulatePressure   bool      `json:"simulatePressure"`
	Thinning           float64   `json:"thinning"`
	Smoothing          float64   `json:"smoothing"`
	Streamline         float64   `json:"streamline"`
	LastCommittedPoint *Point    `json:"lastCommittedPoint,omitempty"`
}

func (*FreeDrawElement) Kind() ElementKind { return ElementKindFreeDraw }
func (*FreeDrawElement) isElement()        {}

type ImageStatus uint8

const (
	ImageStatusPending ImageStatus = iota
	ImageStatusSaved
	ImageStatusError
)

type ImageCrop struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	NaturalWidth  float64 `json:"naturalWidth"`
	NaturalHeight float64 `json:"naturalHeight"`
}

// ImageElement displays a binary file referenced by FileID.
type ImageElement struct {
	ElementBase
	FileID string      `json:"fileId,omitempty"`
	Status ImageStatus `json:"status"`
	ScaleX float64     `json:"scaleX"`
	ScaleY float64     `json:"scaleY"`
	Crop   *ImageCrop  `json:"crop,omitempty"`
}

func (*ImageElement) Kind() ElementKind { return ElementKindImage }
func (*ImageElement) isElement()        {}

type FrameElement struct {
	ElementBase
	Clip         bool `json:"clip"`
	LabelVisible bool `json:"labelVisible"`
}

func (*FrameElement) Kind() ElementKind { return ElementKindFrame }
func (*FrameElement) isElement()        {}

// StringValueEntry is an ordered key/value pair.
type StringValueEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type DuplicationArray struct {
	Rows       int32   `json:"rows"`
	Cols       int32   `json:"cols"`
	RowSpacing float64 `json:"rowSpacing"`
	ColSpacing float64 `json:"colSpacing"`
}

// BlockInstanceElement places a DucBlock. AttributeValues are instance
// values keyed by the attribute definition tag.
type BlockInstanceElement struct {
	ElementBase
	BlockID          string             `json:"blockId"`
	ElementOverrides []StringValueEntry `json:"elementOverrides,omitempty"`
	AttributeValues  []StringValueEntry `json:"attributeValues,omitempty"`
	Duplication      *DuplicationArray  `json:"duplication,omitempty"`
}

func (*BlockInstanceElement) Kind() ElementKind { return ElementKindBlockInstance }
func (*BlockInstanceElement) isElement()        {}

type EmbeddableElement struct {
	ElementBase
}

func (*EmbeddableElement) Kind() ElementKind { return ElementKindEmbeddable }
func (*EmbeddableElement) isElement()        {}

// UnknownElement keeps a variant written by a newer format version. Payload
// holds the exact wire bytes. ElementBase is decoded best effort so the
// element can still be enumerated; edits to it are merged into the base
// table of Payload on encode, every other slot is written back unchanged.
type UnknownElement struct {
	ElementBase
	Discriminant uint64 `json:"discriminant"`
	Payload      []byte `json:"payload"`
}

func (*UnknownElement) Kind() ElementKind { return ElementKindUnknown }
func (*UnknownElement) isElement()        {}
