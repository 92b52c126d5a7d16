package models

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ducflair/duc-sub001/pkg/constants"
)

// DucFile is the root aggregate of a drawing. It is read or rebuilt as a
// whole; there is no partial mutation contract.
type DucFile struct {
	Type          string            `json:"type"`
	Version       string            `json:"version"`
	Source        string            `json:"source"`
	Elements      ElementList       `json:"elements"`
	AppState      *AppState         `json:"appState,omitempty"`
	Files         *FileMap          `json:"files"`
	RendererState *RendererState    `json:"rendererState,omitempty"`
	Blocks        []DucBlock        `json:"blocks"`
	Groups        []DucGroup        `json:"groups"`
	Layers        []DucLayer        `json:"layers"`
	Regions       []DucRegion       `json:"regions"`
	Dictionary    map[string]string `json:"dictionary"`
	VersionGraph  *VersionGraph     `json:"versionGraph,omitempty"`
}

// NewDucFile returns an empty document with every collection initialised.
func NewDucFile() *DucFile {
	d := &DucFile{
		Type:    constants.DataType,
		Version: constants.FormatVersion,
	}
	d.Normalize()
	return d
}

// Normalize replaces nil collections with empty ones so that the JSON
// projection always carries arrays and objects that patches can address.
func (d *DucFile) Normalize() {
	if d.Elements == nil {
		d.Elements = ElementList{}
	}
	if d.Files == nil {
		d.Files = NewFileMap()
	}
	if d.Blocks == nil {
		d.Blocks = []DucBlock{}
	}
	if d.Groups == nil {
		d.Groups = []DucGroup{}
	}
	if d.Layers == nil {
		d.Layers = []DucLayer{}
	}
	if d.Regions == nil {
		d.Regions = []DucRegion{}
	}
	if d.Dictionary == nil {
		d.Dictionary = map[string]string{}
	}
}

// ActiveElements returns the elements that are not tombstoned.
func (d *DucFile) ActiveElements() ElementList {
	return d.Elements.Active()
}

// ElementIndex resolves element ids to elements.
func (d *DucFile) ElementIndex() map[string]Element {
	return d.Elements.Index()
}

// ElementsInGroup returns the members of a group by scanning GroupIDs.
func (d *DucFile) ElementsInGroup(groupID string) ElementList {
	return d.Elements.InGroup(groupID)
}

// File returns the attachment stored under id.
func (d *DucFile) File(id string) (*BinaryFileData, bool) {
	if d.Files == nil {
		return nil, false
	}
	return d.Files.Get(id)
}

// AddFile stores f under its id, replacing an earlier entry in place.
func (d *DucFile) AddFile(f *BinaryFileData) {
	if d.Files == nil {
		d.Files = NewFileMap()
	}
	d.Files.Set(f.ID, f)
}

// Validate reports structural problems of the document: duplicate or empty
// element ids, non-finite geometry, opacity outside [0,1], and group,
// layer, frame or block references that do not resolve.
func (d *DucFile) Validate() error {
	var result *multierror.Error

	groups := make(map[string]struct{}, len(d.Groups))
	for _, g := range d.Groups {
		groups[g.ID] = struct{}{}
	}
	layers := make(map[string]struct{}, len(d.Layers))
	for _, l := range d.Layers {
		layers[l.ID] = struct{}{}
	}
	blocks := make(map[string]struct{}, len(d.Blocks))
	for _, b := range d.Blocks {
		blocks[b.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(d.Elements))
	for i, e := range d.Elements {
		if e == nil {
			result = multierror.Append(result, fmt.Errorf("element %d is nil", i))
			continue
		}
		b := e.Base()
		if b.ID == "" {
			result = multierror.Append(result, fmt.Errorf("element %d has no id", i))
		} else if _, dup := seen[b.ID]; dup {
			result = multierror.Append(result, fmt.Errorf("duplicate element id %q", b.ID))
		}
		seen[b.ID] = struct{}{}
	}

	for _, e := range d.Elements {
		if e == nil {
			continue
		}
		b := e.Base()
		if !isFinite(b.X, b.Y, b.Width, b.Height, b.Angle) {
			result = multierror.Append(result, fmt.Errorf("element %q has non-finite geometry", b.ID))
		}
		if b.Opacity < 0 || b.Opacity > 1 {
			result = multierror.Append(result, fmt.Errorf("element %q opacity %v outside [0,1]", b.ID, b.Opacity))
		}
		for _, gid := range b.GroupIDs {
			if _, ok := groups[gid]; !ok {
				result = multierror.Append(result, fmt.Errorf("element %q references unknown group %q", b.ID, gid))
			}
		}
		if b.LayerID != "" {
			if _, ok := layers[b.LayerID]; !ok {
				result = multierror.Append(result, fmt.Errorf("element %q references unknown layer %q", b.ID, b.LayerID))
			}
		}
		if b.FrameID != "" {
			if _, ok := seen[b.FrameID]; !ok {
				result = multierror.Append(result, fmt.Errorf("element %q references unknown frame %q", b.ID, b.FrameID))
			}
		}
		if inst, ok := e.(*BlockInstanceElement); ok {
			if _, ok := blocks[inst.BlockID]; !ok {
				result = multierror.Append(result, fmt.Errorf("element %q references unknown block %q", b.ID, inst.BlockID))
			}
		}
	}

	return result.ErrorOrNil()
}
