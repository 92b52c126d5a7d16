// Package validate checks documents against output constraints.
package validate

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

// PDFEnvelope is the coordinate range addressable on a PDF page.
var PDFEnvelope = models.Bounds{MinX: -14400, MinY: -14400, MaxX: 14400, MaxY: 14400}

// BoundsError reports an element whose bounding box leaves the envelope.
type BoundsError struct {
	ElementID string
	MinX      float64
	MinY      float64
	MaxX      float64
	MaxY      float64
	Envelope  models.Bounds
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("element %q spans (%g, %g)-(%g, %g), envelope is (%g, %g)-(%g, %g)",
		e.ElementID, e.MinX, e.MinY, e.MaxX, e.MaxY,
		e.Envelope.MinX, e.Envelope.MinY, e.Envelope.MaxX, e.Envelope.MaxY)
}

func (e *BoundsError) Unwrap() error {
	return constants.ErrBoundsViolation
}

// ElementBounds is the axis-aligned box of e in scene coordinates, with
// rotation applied and linear or freedraw points included.
func ElementBounds(e models.Element) models.Bounds {
	base := e.Base()
	b := models.EmptyBounds()
	for _, c := range base.Corners() {
		b = b.Extend(c)
	}
	for _, p := range points(e) {
		b = b.Extend(base.ToScene(p))
	}
	return b
}

func points(e models.Element) []models.Point {
	switch v := e.(type) {
	case *models.LinearElement:
		return v.Points
	case *models.ArrowElement:
		return v.Points
	case *models.FreeDrawElement:
		return v.Points
	}
	return nil
}

// Extent is the union of the bounds of every active element. It is empty
// for a document without active elements.
func Extent(doc *models.DucFile) models.Bounds {
	out := models.EmptyBounds()
	for _, e := range doc.ActiveElements() {
		b := ElementBounds(e)
		out = out.Extend(models.Point{X: b.MinX, Y: b.MinY})
		out = out.Extend(models.Point{X: b.MaxX, Y: b.MaxY})
	}
	return out
}

// DocumentBounds reports every active element that does not lie entirely
// inside envelope. Elements with non-finite geometry are always reported.
func DocumentBounds(doc *models.DucFile, envelope models.Bounds) error {
	var result *multierror.Error
	for _, e := range doc.ActiveElements() {
		b := ElementBounds(e)
		if b.Within(envelope) {
			continue
		}
		result = multierror.Append(result, &BoundsError{
			ElementID: e.Base().ID,
			MinX:      b.MinX,
			MinY:      b.MinY,
			MaxX:      b.MaxX,
			MaxY:      b.MaxY,
			Envelope:  envelope,
		})
	}
	return result.ErrorOrNil()
}

// Violations unpacks the bounds errors aggregated by DocumentBounds.
func Violations(err error) []*BoundsError {
	merr, ok := err.(*multierror.Error)
	if !ok {
		return nil
	}
	out := make([]*BoundsError, 0, len(merr.Errors))
	for _, e := range merr.Errors {
		if be, ok := e.(*BoundsError); ok {
			out = append(out, be)
		}
	}
	return out
}
