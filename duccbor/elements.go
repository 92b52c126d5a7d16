package duccbor

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/ducflair/duc-sub001/pkg/models"
)

// encodeElement writes the variant payload first and then the element
// table that embeds it.
func (e *Encoder) encodeElement(el models.Element) (cbor.RawMessage, error) {
	if el == nil {
		return nil, fmt.Errorf("nil element")
	}

	var (
		kind    = el.Kind()
		payload any
	)
	switch v := el.(type) {
	case *models.RectangleElement:
		payload = wireBaseOnly{Base: baseToWire(&v.ElementBase)}
	case *models.EmbeddableElement:
		payload = wireBaseOnly{Base: baseToWire(&v.ElementBase)}
	case *models.EllipseElement:
		payload = wireEllipse{
			Base:             baseToWire(&v.ElementBase),
			Ratio:            v.Ratio,
			StartAngle:       v.StartAngle,
			EndAngle:         v.EndAngle,
			ShowAuxCrosshair: v.ShowAuxCrosshair,
		}
	case *models.PolygonElement:
		payload = wirePolygon{Base: baseToWire(&v.ElementBase), Sides: v.Sides}
	case *models.TextElement:
		payload = wireText{
			Base:          baseToWire(&v.ElementBase),
			Text:          v.Text,
			OriginalText:  v.OriginalText,
			FontFamily:    v.FontFamily,
			FontSize:      v.FontSize,
			LineHeight:    v.LineHeight,
			TextAlign:     uint8(v.TextAlign),
			VerticalAlign: uint8(v.VerticalAlign),
			AutoResize:    v.AutoResize,
			ContainerID:   v.ContainerID,
		}
	case *models.LinearElement:
		payload = linearToWire(v)
	case *models.ArrowElement:
		w := linearToWire(&v.LinearElement)
		w.Elbowed = v.Elbowed
		payload = w
	case *models.FreeDrawElement:
		payload = wireFreeDraw{
			Base:               baseToWire(&v.ElementBase),
			Points:             v.Points,
			Pressures:          v.Pressures,
			SimulatePressure:   v.SimulatePressure,
			Thinning:           v.Thinning,
			Smoothing:          v.Smoothing,
			Streamline:         v.Streamline,
			LastCommittedPoint: v.LastCommittedPoint,
		}
	case *models.ImageElement:
		w := wireImage{
			Base:   baseToWire(&v.ElementBase),
			FileID: v.FileID,
			Status: uint8(v.Status),
			ScaleX: v.ScaleX,
			ScaleY: v.ScaleY,
		}
		if v.Crop != nil {
			crop := wireImageCrop(*v.Crop)
			w.Crop = &crop
		}
		payload = w
	case *models.FrameElement:
		payload = wireFrame{Base: baseToWire(&v.ElementBase), Clip: v.Clip, LabelVisible: v.LabelVisible}
	case *models.BlockInstanceElement:
		w := wireBlockInstance{
			Base:             baseToWire(&v.ElementBase),
			BlockID:          v.BlockID,
			ElementOverrides: stringEntriesToWire(v.ElementOverrides),
			AttributeValues:  stringEntriesToWire(v.AttributeValues),
		}
		if v.Duplication != nil {
			dup := wireDuplication(*v.Duplication)
			w.Duplication = &dup
		}
		payload = w
	case *models.UnknownElement:
		payload, err := e.unknownPayload(v)
		if err != nil {
			return nil, fmt.Errorf("unknown element %q: %w", v.ID, err)
		}
		return e.em.Marshal(wireElement{Kind: v.Discriminant, Payload: payload})
	default:
		return nil, fmt.Errorf("unsupported element type %T", el)
	}

	raw, err := e.em.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload %q: %w", kind, el.Base().ID, err)
	}
	return e.em.Marshal(wireElement{Kind: uint64(kind), Payload: raw})
}

// unknownPayload returns the payload of an unknown element. When the base
// read from the payload still matches ElementBase the payload is returned
// as is. Otherwise the known base slots are rewritten from ElementBase and
// every other slot, in the variant table and in the base table, keeps its
// original bytes.
func (e *Encoder) unknownPayload(v *models.UnknownElement) (cbor.RawMessage, error) {
	if len(v.Payload) == 0 {
		return nil, fmt.Errorf("no payload")
	}

	var read wireBaseOnly
	var before models.ElementBase
	if err := cbor.Unmarshal(v.Payload, &read); err == nil {
		before = baseFromWire(read.Base)
	}
	was, err := e.em.Marshal(baseToWire(&before))
	if err != nil {
		return nil, err
	}
	now, err := e.em.Marshal(baseToWire(&v.ElementBase))
	if err != nil {
		return nil, err
	}
	if bytes.Equal(was, now) {
		return cbor.RawMessage(v.Payload), nil
	}

	var slots map[uint64]cbor.RawMessage
	if err := cbor.Unmarshal(v.Payload, &slots); err != nil {
		return nil, fmt.Errorf("base was edited but the payload is not a table: %w", err)
	}
	base := make(map[uint64]cbor.RawMessage)
	if raw, ok := slots[1]; ok {
		if err := cbor.Unmarshal(raw, &base); err != nil {
			return nil, fmt.Errorf("base was edited but the payload base is not a table: %w", err)
		}
	}
	for slot := range base {
		if slot <= baseSlotLast {
			delete(base, slot)
		}
	}
	var edited map[uint64]cbor.RawMessage
	if err := cbor.Unmarshal(now, &edited); err != nil {
		return nil, err
	}
	for slot, raw := range edited {
		base[slot] = raw
	}

	if slots[1], err = e.sorted.Marshal(base); err != nil {
		return nil, err
	}
	return e.sorted.Marshal(slots)
}

func (e *Encoder) encodeElements(list models.ElementList) ([]cbor.RawMessage, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]cbor.RawMessage, len(list))
	for i, el := range list {
		raw, err := e.encodeElement(el)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = raw
	}
	return out, nil
}

// decodeElement maps an element table back to its variant. Unknown kinds
// are kept as UnknownElement with the payload bytes untouched.
func (d *Decoder) decodeElement(raw cbor.RawMessage) (models.Element, error) {
	var w wireElement
	if err := d.dm.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	if len(w.Payload) == 0 {
		return nil, fmt.Errorf("element has no payload")
	}

	kind := models.ElementKindUnknown
	if w.Kind <= math.MaxUint8 {
		kind = models.ElementKind(w.Kind)
	}
	switch kind {
	case models.ElementKindRectangle:
		var p wireBaseOnly
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		return &models.RectangleElement{ElementBase: baseFromWire(p.Base)}, nil
	case models.ElementKindEmbeddable:
		var p wireBaseOnly
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		return &models.EmbeddableElement{ElementBase: baseFromWire(p.Base)}, nil
	case models.ElementKindEllipse:
		var p wireEllipse
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		return &models.EllipseElement{
			ElementBase:      baseFromWire(p.Base),
			Ratio:            p.Ratio,
			StartAngle:       p.StartAngle,
			EndAngle:         p.EndAngle,
			ShowAuxCrosshair: p.ShowAuxCrosshair,
		}, nil
	case models.ElementKindPolygon:
		var p wirePolygon
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		return &models.PolygonElement{ElementBase: baseFromWire(p.Base), Sides: p.Sides}, nil
	case models.ElementKindText:
		var p wireText
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		return &models.TextElement{
			ElementBase:   baseFromWire(p.Base),
			Text:          p.Text,
			OriginalText:  p.OriginalText,
			FontFamily:    p.FontFamily,
			FontSize:      p.FontSize,
			LineHeight:    p.LineHeight,
			TextAlign:     models.TextAlign(p.TextAlign),
			VerticalAlign: models.VerticalAlign(p.VerticalAlign),
			AutoResize:    p.AutoResize,
			ContainerID:   p.ContainerID,
		}, nil
	case models.ElementKindLine:
		var p wireLinear
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		line := linearFromWire(p)
		return &line, nil
	case models.ElementKindArrow:
		var p wireLinear
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		return &models.ArrowElement{LinearElement: linearFromWire(p), Elbowed: p.Elbowed}, nil
	case models.ElementKindFreeDraw:
		var p wireFreeDraw
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		return &models.FreeDrawElement{
			ElementBase:        baseFromWire(p.Base),
			Points:             p.Points,
			Pressures:          p.Pressures,
			SimulatePressure:   p.SimulatePressure,
			Thinning:           p.Thinning,
			Smoothing:          p.Smoothing,
			Streamline:         p.Streamline,
			LastCommittedPoint: p.LastCommittedPoint,
		}, nil
	case models.ElementKindImage:
		var p wireImage
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		img := &models.ImageElement{
			ElementBase: baseFromWire(p.Base),
			FileID:      p.FileID,
			Status:      models.ImageStatus(p.Status),
			ScaleX:      p.ScaleX,
			ScaleY:      p.ScaleY,
		}
		if p.Crop != nil {
			crop := models.ImageCrop(*p.Crop)
			img.Crop = &crop
		}
		return img, nil
	case models.ElementKindFrame:
		var p wireFrame
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		return &models.FrameElement{ElementBase: baseFromWire(p.Base), Clip: p.Clip, LabelVisible: p.LabelVisible}, nil
	case models.ElementKindBlockInstance:
		var p wireBlockInstance
		if err := d.dm.Unmarshal(w.Payload, &p); err != nil {
			return nil, err
		}
		inst := &models.BlockInstanceElement{
			ElementBase:      baseFromWire(p.Base),
			BlockID:          p.BlockID,
			ElementOverrides: stringEntriesFromWire(p.ElementOverrides),
			AttributeValues:  stringEntriesFromWire(p.AttributeValues),
		}
		if p.Duplication != nil {
			dup := models.DuplicationArray(*p.Duplication)
			inst.Duplication = &dup
		}
		return inst, nil
	default:
		return d.unknownElement(w), nil
	}
}

func (d *Decoder) unknownElement(w wireElement) *models.UnknownElement {
	unknown := &models.UnknownElement{
		Discriminant: w.Kind,
		Payload:      append([]byte(nil), w.Payload...),
	}
	var p wireBaseOnly
	if err := d.dm.Unmarshal(w.Payload, &p); err == nil {
		unknown.ElementBase = baseFromWire(p.Base)
	} else {
		d.log.Debug().Uint64("kind", w.Kind).Err(err).Msg("unknown element kind has no readable base")
	}
	return unknown
}

// decodeElements applies the entry policy: an element table that does not
// decode is logged and skipped, the rest of the list is kept.
func (d *Decoder) decodeElements(raws []cbor.RawMessage, scope string) models.ElementList {
	out := make(models.ElementList, 0, len(raws))
	for i, raw := range raws {
		el, err := d.decodeElement(raw)
		if err != nil {
			d.log.Warn().Str("scope", scope).Int("index", i).Err(err).Msg("skipping malformed element")
			continue
		}
		out = append(out, el)
	}
	return out
}
