package models

// StackBase holds the presentation fields shared by groups, layers and
// regions.
type StackBase struct {
	Label       string  `json:"label"`
	Description string  `json:"description,omitempty"`
	IsCollapsed bool    `json:"isCollapsed"`
	IsPlot      bool    `json:"isPlot"`
	IsVisible   bool    `json:"isVisible"`
	Locked      bool    `json:"locked"`
	Opacity     float64 `json:"opacity"`
}

// DucGroup is a named collection. Members are the elements listing the
// group id in their GroupIDs; the group itself stores no children.
type DucGroup struct {
	ID string `json:"id"`
	StackBase
}

// LayerOverrides replace the style of every element on the layer.
type LayerOverrides struct {
	Stroke     *ElementStroke     `json:"stroke,omitempty"`
	Background *ElementBackground `json:"background,omitempty"`
}

type DucLayer struct {
	ID       string `json:"id"`
	ReadOnly bool   `json:"readonly"`
	StackBase
	Overrides *LayerOverrides `json:"overrides,omitempty"`
}

type BooleanOperation uint8

const (
	BooleanOperationUnion BooleanOperation = iota
	BooleanOperationSubtract
	BooleanOperationIntersect
	BooleanOperationExclude
)

type DucRegion struct {
	ID string `json:"id"`
	StackBase
	BooleanOperation BooleanOperation `json:"booleanOperation"`
}
