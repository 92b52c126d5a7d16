package models

// AppState is the editing context of a document. The codec replaces it
// wholesale and never merges fields into an existing value.
type AppState struct {
	ActiveTool             string             `json:"activeTool,omitempty"`
	ScrollX                float64            `json:"scrollX"`
	ScrollY                float64            `json:"scrollY"`
	Zoom                   float64            `json:"zoom"`
	ViewBackgroundColor    string             `json:"viewBackgroundColor,omitempty"`
	Name                   string             `json:"name,omitempty"`
	SelectedElementIDs     []string           `json:"selectedElementIds,omitempty"`
	SelectedGroupIDs       []string           `json:"selectedGroupIds,omitempty"`
	EditingGroupID         string             `json:"editingGroupId,omitempty"`
	GridSize               int32              `json:"gridSize"`
	GridStep               int32              `json:"gridStep"`
	GridModeEnabled        bool               `json:"gridModeEnabled"`
	ObjectsSnapModeEnabled bool               `json:"objectsSnapModeEnabled"`
	PenMode                bool               `json:"penMode"`
	ViewModeEnabled        bool               `json:"viewModeEnabled"`
	ZenModeEnabled         bool               `json:"zenModeEnabled"`
	CurrentItemStroke      *ElementStroke     `json:"currentItemStroke,omitempty"`
	CurrentItemBackground  *ElementBackground `json:"currentItemBackground,omitempty"`
	CurrentItemOpacity     float64            `json:"currentItemOpacity"`
	CurrentItemFontFamily  string             `json:"currentItemFontFamily,omitempty"`
	CurrentItemFontSize    float64            `json:"currentItemFontSize"`
	CurrentItemRoundness   float64            `json:"currentItemRoundness"`
	Scope                  string             `json:"scope,omitempty"`
	MainScope              string             `json:"mainScope,omitempty"`
}

// NewAppState returns the defaults a fresh editor session starts with.
func NewAppState() *AppState {
	return &AppState{
		ActiveTool:          "selection",
		Zoom:                1,
		ViewBackgroundColor: "#ffffff",
		GridSize:            20,
		GridStep:            5,
		CurrentItemOpacity:  1,
		CurrentItemFontSize: 20,
		Scope:               "mm",
		MainScope:           "mm",
	}
}

// RendererState is the renderer-owned part of a document. DeletedElementIDs
// is a tombstone index kept alongside the IsDeleted flags.
type RendererState struct {
	DeletedElementIDs []string `json:"deletedElementIds,omitempty"`
}
