package duccbor

import (
	"encoding/json"

	"github.com/ducflair/duc-sub001/pkg/models"
)

// Conversions between the wire tables and the document model. The
// functions are total: every model value has a wire form and back.

func contentToWire(c models.ElementContent) wireContent {
	return wireContent{
		Preference: uint8(c.Preference),
		Src:        c.Src,
		Visible:    c.Visible,
		Opacity:    c.Opacity,
	}
}

func contentFromWire(w wireContent) models.ElementContent {
	return models.ElementContent{
		Preference: models.ContentPreference(w.Preference),
		Src:        w.Src,
		Visible:    w.Visible,
		Opacity:    w.Opacity,
	}
}

func strokeToWire(s models.ElementStroke) wireStroke {
	return wireStroke{
		Content: contentToWire(s.Content),
		Width:   s.Width,
		Style: wireStrokeStyle{
			Preference: s.Style.Preference,
			Cap:        s.Style.Cap,
			Join:       s.Style.Join,
			Dash:       s.Style.Dash,
			MiterLimit: s.Style.MiterLimit,
		},
		Placement: uint8(s.Placement),
	}
}

func strokeFromWire(w wireStroke) models.ElementStroke {
	return models.ElementStroke{
		Content: contentFromWire(w.Content),
		Width:   w.Width,
		Style: models.StrokeStyle{
			Preference: w.Style.Preference,
			Cap:        w.Style.Cap,
			Join:       w.Style.Join,
			Dash:       w.Style.Dash,
			MiterLimit: w.Style.MiterLimit,
		},
		Placement: models.StrokePlacement(w.Placement),
	}
}

func strokesToWire(in []models.ElementStroke) []wireStroke {
	if in == nil {
		return nil
	}
	out := make([]wireStroke, len(in))
	for i, s := range in {
		out[i] = strokeToWire(s)
	}
	return out
}

func strokesFromWire(in []wireStroke) []models.ElementStroke {
	if in == nil {
		return nil
	}
	out := make([]models.ElementStroke, len(in))
	for i, s := range in {
		out[i] = strokeFromWire(s)
	}
	return out
}

func backgroundsToWire(in []models.ElementBackground) []wireBackground {
	if in == nil {
		return nil
	}
	out := make([]wireBackground, len(in))
	for i, b := range in {
		out[i] = wireBackground{Content: contentToWire(b.Content)}
	}
	return out
}

func backgroundsFromWire(in []wireBackground) []models.ElementBackground {
	if in == nil {
		return nil
	}
	out := make([]models.ElementBackground, len(in))
	for i, b := range in {
		out[i] = models.ElementBackground{Content: contentFromWire(b.Content)}
	}
	return out
}

func optionalStrokeToWire(s *models.ElementStroke) *wireStroke {
	if s == nil {
		return nil
	}
	w := strokeToWire(*s)
	return &w
}

func optionalStrokeFromWire(w *wireStroke) *models.ElementStroke {
	if w == nil {
		return nil
	}
	s := strokeFromWire(*w)
	return &s
}

func optionalBackgroundToWire(b *models.ElementBackground) *wireBackground {
	if b == nil {
		return nil
	}
	return &wireBackground{Content: contentToWire(b.Content)}
}

func optionalBackgroundFromWire(w *wireBackground) *models.ElementBackground {
	if w == nil {
		return nil
	}
	return &models.ElementBackground{Content: contentFromWire(w.Content)}
}

func baseToWire(b *models.ElementBase) wireElementBase {
	w := wireElementBase{
		ID:           b.ID,
		X:            b.X,
		Y:            b.Y,
		Width:        b.Width,
		Height:       b.Height,
		Angle:        b.Angle,
		ZIndex:       b.ZIndex,
		Opacity:      b.Opacity,
		IsVisible:    b.IsVisible,
		Locked:       b.Locked,
		GroupIDs:     b.GroupIDs,
		RegionIDs:    b.RegionIDs,
		LayerID:      b.LayerID,
		FrameID:      b.FrameID,
		Label:        b.Label,
		Description:  b.Description,
		Link:         b.Link,
		Seed:         b.Seed,
		Stroke:       strokesToWire(b.Stroke),
		Background:   backgroundsToWire(b.Background),
		Version:      b.Version,
		VersionNonce: b.VersionNonce,
		Updated:      b.Updated,
		IsDeleted:    b.IsDeleted,
		CustomData:   b.CustomData,
	}
	if b.BoundElements != nil {
		w.BoundElements = make([]wireBoundElement, len(b.BoundElements))
		for i, be := range b.BoundElements {
			w.BoundElements[i] = wireBoundElement{ID: be.ID, Type: be.Type}
		}
	}
	return w
}

func baseFromWire(w wireElementBase) models.ElementBase {
	b := models.ElementBase{
		ID:           w.ID,
		X:            w.X,
		Y:            w.Y,
		Width:        w.Width,
		Height:       w.Height,
		Angle:        w.Angle,
		ZIndex:       w.ZIndex,
		Opacity:      w.Opacity,
		IsVisible:    w.IsVisible,
		Locked:       w.Locked,
		GroupIDs:     w.GroupIDs,
		RegionIDs:    w.RegionIDs,
		LayerID:      w.LayerID,
		FrameID:      w.FrameID,
		Label:        w.Label,
		Description:  w.Description,
		Link:         w.Link,
		Seed:         w.Seed,
		Stroke:       strokesFromWire(w.Stroke),
		Background:   backgroundsFromWire(w.Background),
		Version:      w.Version,
		VersionNonce: w.VersionNonce,
		Updated:      w.Updated,
		IsDeleted:    w.IsDeleted,
		CustomData:   w.CustomData,
	}
	if w.BoundElements != nil {
		b.BoundElements = make([]models.BoundElement, len(w.BoundElements))
		for i, be := range w.BoundElements {
			b.BoundElements[i] = models.BoundElement{ID: be.ID, Type: be.Type}
		}
	}
	return b
}

func bindingToWire(b *models.PointBinding) *wirePointBinding {
	if b == nil {
		return nil
	}
	return &wirePointBinding{
		ElementID:  b.ElementID,
		Focus:      b.Focus,
		Gap:        b.Gap,
		FixedPoint: b.FixedPoint,
		Head:       b.Head,
	}
}

func bindingFromWire(w *wirePointBinding) *models.PointBinding {
	if w == nil {
		return nil
	}
	return &models.PointBinding{
		ElementID:  w.ElementID,
		Focus:      w.Focus,
		Gap:        w.Gap,
		FixedPoint: w.FixedPoint,
		Head:       w.Head,
	}
}

func linearToWire(l *models.LinearElement) wireLinear {
	return wireLinear{
		Base:               baseToWire(&l.ElementBase),
		Points:             l.Points,
		StartBinding:       bindingToWire(l.StartBinding),
		EndBinding:         bindingToWire(l.EndBinding),
		LastCommittedPoint: l.LastCommittedPoint,
		Wipeout:            l.Wipeout,
	}
}

func linearFromWire(w wireLinear) models.LinearElement {
	return models.LinearElement{
		ElementBase:        baseFromWire(w.Base),
		Points:             w.Points,
		StartBinding:       bindingFromWire(w.StartBinding),
		EndBinding:         bindingFromWire(w.EndBinding),
		LastCommittedPoint: w.LastCommittedPoint,
		Wipeout:            w.Wipeout,
	}
}

func stringEntriesToWire(in []models.StringValueEntry) []wireStringEntry {
	if in == nil {
		return nil
	}
	out := make([]wireStringEntry, len(in))
	for i, e := range in {
		out[i] = wireStringEntry{Key: e.Key, Value: e.Value}
	}
	return out
}

func stringEntriesFromWire(in []wireStringEntry) []models.StringValueEntry {
	if in == nil {
		return nil
	}
	out := make([]models.StringValueEntry, len(in))
	for i, e := range in {
		out[i] = models.StringValueEntry{Key: e.Key, Value: e.Value}
	}
	return out
}

func stackToWire(s models.StackBase) wireStackBase {
	return wireStackBase(s)
}

func stackFromWire(w wireStackBase) models.StackBase {
	return models.StackBase(w)
}

func appStateToWire(a *models.AppState) *wireAppState {
	if a == nil {
		return nil
	}
	return &wireAppState{
		ActiveTool:             a.ActiveTool,
		ScrollX:                a.ScrollX,
		ScrollY:                a.ScrollY,
		Zoom:                   a.Zoom,
		ViewBackgroundColor:    a.ViewBackgroundColor,
		Name:                   a.Name,
		SelectedElementIDs:     a.SelectedElementIDs,
		SelectedGroupIDs:       a.SelectedGroupIDs,
		EditingGroupID:         a.EditingGroupID,
		GridSize:               a.GridSize,
		GridStep:               a.GridStep,
		GridModeEnabled:        a.GridModeEnabled,
		ObjectsSnapModeEnabled: a.ObjectsSnapModeEnabled,
		PenMode:                a.PenMode,
		ViewModeEnabled:        a.ViewModeEnabled,
		ZenModeEnabled:         a.ZenModeEnabled,
		CurrentItemStroke:      optionalStrokeToWire(a.CurrentItemStroke),
		CurrentItemBackground:  optionalBackgroundToWire(a.CurrentItemBackground),
		CurrentItemOpacity:     a.CurrentItemOpacity,
		CurrentItemFontFamily:  a.CurrentItemFontFamily,
		CurrentItemFontSize:    a.CurrentItemFontSize,
		CurrentItemRoundness:   a.CurrentItemRoundness,
		Scope:                  a.Scope,
		MainScope:              a.MainScope,
	}
}

func appStateFromWire(w *wireAppState) *models.AppState {
	if w == nil {
		return nil
	}
	return &models.AppState{
		ActiveTool:             w.ActiveTool,
		ScrollX:                w.ScrollX,
		ScrollY:                w.ScrollY,
		Zoom:                   w.Zoom,
		ViewBackgroundColor:    w.ViewBackgroundColor,
		Name:                   w.Name,
		SelectedElementIDs:     w.SelectedElementIDs,
		SelectedGroupIDs:       w.SelectedGroupIDs,
		EditingGroupID:         w.EditingGroupID,
		GridSize:               w.GridSize,
		GridStep:               w.GridStep,
		GridModeEnabled:        w.GridModeEnabled,
		ObjectsSnapModeEnabled: w.ObjectsSnapModeEnabled,
		PenMode:                w.PenMode,
		ViewModeEnabled:        w.ViewModeEnabled,
		ZenModeEnabled:         w.ZenModeEnabled,
		CurrentItemStroke:      optionalStrokeFromWire(w.CurrentItemStroke),
		CurrentItemBackground:  optionalBackgroundFromWire(w.CurrentItemBackground),
		CurrentItemOpacity:     w.CurrentItemOpacity,
		CurrentItemFontFamily:  w.CurrentItemFontFamily,
		CurrentItemFontSize:    w.CurrentItemFontSize,
		CurrentItemRoundness:   w.CurrentItemRoundness,
		Scope:                  w.Scope,
		MainScope:              w.MainScope,
	}
}

func groupsToWire(in []models.DucGroup) []wireGroup {
	out := make([]wireGroup, len(in))
	for i, g := range in {
		out[i] = wireGroup{ID: g.ID, Stack: stackToWire(g.StackBase)}
	}
	return out
}

func groupsFromWire(in []wireGroup) []models.DucGroup {
	out := make([]models.DucGroup, len(in))
	for i, g := range in {
		out[i] = models.DucGroup{ID: g.ID, StackBase: stackFromWire(g.Stack)}
	}
	return out
}

func layersToWire(in []models.DucLayer) []wireLayer {
	out := make([]wireLayer, len(in))
	for i, l := range in {
		out[i] = wireLayer{ID: l.ID, Stack: stackToWire(l.StackBase), ReadOnly: l.ReadOnly}
		if l.Overrides != nil {
			out[i].Overrides = &wireLayerOverrides{
				Stroke:     optionalStrokeToWire(l.Overrides.Stroke),
				Background: optionalBackgroundToWire(l.Overrides.Background),
			}
		}
	}
	return out
}

func layersFromWire(in []wireLayer) []models.DucLayer {
	out := make([]models.DucLayer, len(in))
	for i, l := range in {
		out[i] = models.DucLayer{ID: l.ID, StackBase: stackFromWire(l.Stack), ReadOnly: l.ReadOnly}
		if l.Overrides != nil {
			out[i].Overrides = &models.LayerOverrides{
				Stroke:     optionalStrokeFromWire(l.Overrides.Stroke),
				Background: optionalBackgroundFromWire(l.Overrides.Background),
			}
		}
	}
	return out
}

func regionsToWire(in []models.DucRegion) []wireRegion {
	out := make([]wireRegion, len(in))
	for i, r := range in {
		out[i] = wireRegion{ID: r.ID, Stack: stackToWire(r.StackBase), BooleanOperation: uint8(r.BooleanOperation)}
	}
	return out
}

func regionsFromWire(in []wireRegion) []models.DucRegion {
	out := make([]models.DucRegion, len(in))
	for i, r := range in {
		out[i] = models.DucRegion{ID: r.ID, StackBase: stackFromWire(r.Stack), BooleanOperation: models.BooleanOperation(r.BooleanOperation)}
	}
	return out
}

func fileToWire(f *models.BinaryFileData) wireFile {
	return wireFile{
		ID:                f.ID,
		MimeType:          f.MimeType,
		Created:           f.Created,
		LastRetrieved:     f.LastRetrieved,
		Data:              f.Data,
		Status:            uint8(f.Status),
		SavedToFileSystem: f.SavedToFileSystem,
		HasSyncedToServer: f.HasSyncedToServer,
	}
}

func versionBaseToWire(v models.VersionBase) wireVersionBase {
	return wireVersionBase(v)
}

func versionBaseFromWire(w wireVersionBase) models.VersionBase {
	return models.VersionBase(w)
}

func versionGraphToWire(g *models.VersionGraph) *wireVersionGraph {
	if g == nil {
		return nil
	}
	w := &wireVersionGraph{
		UserCheckpointVersionID: g.UserCheckpointVersionID,
		LatestVersionID:         g.LatestVersionID,
		Metadata: wireGraphMetadata{
			LastPruned: g.Metadata.LastPruned,
			TotalSize:  g.Metadata.TotalSize,
		},
	}
	if g.Metadata.PruningLevel != nil {
		level := uint8(*g.Metadata.PruningLevel)
		w.Metadata.PruningLevel = &level
	}
	if g.Checkpoints != nil {
		w.Checkpoints = make([]wireCheckpoint, len(g.Checkpoints))
		for i, c := range g.Checkpoints {
			w.Checkpoints[i] = wireCheckpoint{Base: versionBaseToWire(c.VersionBase), Data: c.Data, SizeBytes: c.SizeBytes}
		}
	}
	if g.Deltas != nil {
		w.Deltas = make([]wireDelta, len(g.Deltas))
		for i, d := range g.Deltas {
			wd := wireDelta{Base: versionBaseToWire(d.VersionBase), SizeBytes: d.SizeBytes}
			if d.Patch != nil {
				wd.Patch = make([]wirePatchOperation, len(d.Patch))
				for j, op := range d.Patch {
					wd.Patch[j] = wirePatchOperation{Op: op.Op, Path: op.Path, From: op.From, Value: op.Value}
				}
			}
			w.Deltas[i] = wd
		}
	}
	return w
}

func versionGraphFromWire(w *wireVersionGraph) *models.VersionGraph {
	if w == nil {
		return nil
	}
	g := &models.VersionGraph{
		UserCheckpointVersionID: w.UserCheckpointVersionID,
		LatestVersionID:         w.LatestVersionID,
		Metadata: models.VersionGraphMetadata{
			LastPruned: w.Metadata.LastPruned,
			TotalSize:  w.Metadata.TotalSize,
		},
	}
	if w.Metadata.PruningLevel != nil {
		level := models.PruningLevel(*w.Metadata.PruningLevel)
		g.Metadata.PruningLevel = &level
	}
	if w.Checkpoints != nil {
		g.Checkpoints = make([]models.Checkpoint, len(w.Checkpoints))
		for i, c := range w.Checkpoints {
			g.Checkpoints[i] = models.Checkpoint{VersionBase: versionBaseFromWire(c.Base), Data: c.Data, SizeBytes: c.SizeBytes}
		}
	}
	if w.Deltas != nil {
		g.Deltas = make([]models.Delta, len(w.Deltas))
		for i, d := range w.Deltas {
			md := models.Delta{VersionBase: versionBaseFromWire(d.Base), SizeBytes: d.SizeBytes}
			if d.Patch != nil {
				md.Patch = make([]models.PatchOperation, len(d.Patch))
				for j, op := range d.Patch {
					md.Patch[j] = models.PatchOperation{Op: op.Op, Path: op.Path, From: op.From}
					if op.Value != nil {
						md.Patch[j].Value = json.RawMessage(op.Value)
					}
				}
			}
			g.Deltas[i] = md
		}
	}
	return g
}
