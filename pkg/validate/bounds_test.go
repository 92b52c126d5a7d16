package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducflair/duc-sub001/pkg/constants"
	"github.com/ducflair/duc-sub001/pkg/models"
)

func rect(id string, x, y, w, h float64) *models.RectangleElement {
	return &models.RectangleElement{ElementBase: models.ElementBase{ID: id, X: x, Y: y, Width: w, Height: h, Opacity: 1}}
}

func TestElementBounds(t *testing.T) {
	t.Run("axis aligned", func(t *testing.T) {
		b := ElementBounds(rect("r", 10, 20, 30, 40))
		assert.Equal(t, models.Bounds{MinX: 10, MinY: 20, MaxX: 40, MaxY: 60}, b)
	})

	t.Run("quarter turn", func(t *testing.T) {
		r := rect("r", 0, 0, 40, 20)
		r.Angle = math.Pi / 2
		b := ElementBounds(r)
		assert.InDelta(t, 10, b.MinX, 1e-9)
		assert.InDelta(t, -10, b.MinY, 1e-9)
		assert.InDelta(t, 30, b.MaxX, 1e-9)
		assert.InDelta(t, 30, b.MaxY, 1e-9)
	})

	t.Run("arrow points", func(t *testing.T) {
		a := &models.ArrowElement{}
		a.ElementBase = models.ElementBase{ID: "a", X: 100, Y: 100}
		a.Points = []models.Point{{X: 0, Y: 0}, {X: -50, Y: 200}}
		b := ElementBounds(a)
		assert.Equal(t, models.Bounds{MinX: 50, MinY: 100, MaxX: 100, MaxY: 300}, b)
	})

	t.Run("freedraw points", func(t *testing.T) {
		f := &models.FreeDrawElement{ElementBase: models.ElementBase{ID: "f", Width: 1, Height: 1}}
		f.Points = []models.Point{{X: 5, Y: -5}}
		b := ElementBounds(f)
		assert.Equal(t, models.Bounds{MinX: 0, MinY: -5, MaxX: 5, MaxY: 1}, b)
	})
}

func TestDocumentBounds(t *testing.T) {
	doc := models.NewDucFile()
	deleted := rect("deleted", 1e6, 1e6, 1, 1)
	deleted.IsDeleted = true
	doc.Elements = models.ElementList{
		rect("inside", -100, -100, 200, 200),
		rect("edge", 14300, 0, 100, 100),
		rect("right", 14350, 0, 100, 10),
		rect("above", 0, -20000, 10, 10),
		deleted,
	}

	err := DocumentBounds(doc, PDFEnvelope)
	require.Error(t, err)
	assert.True(t, errors.Is(err, constants.ErrBoundsViolation))

	violations := Violations(err)
	require.Len(t, violations, 2)
	assert.Equal(t, "right", violations[0].ElementID)
	assert.Equal(t, 14350.0, violations[0].MinX)
	assert.Equal(t, 14450.0, violations[0].MaxX)
	assert.Equal(t, PDFEnvelope, violations[0].Envelope)
	assert.Equal(t, "above", violations[1].ElementID)
	assert.Equal(t, -20000.0, violations[1].MinY)
	assert.Contains(t, err.Error(), `element "right" spans (14350, 0)-(14450, 10)`)
}

func TestDocumentBoundsPasses(t *testing.T) {
	doc := models.NewDucFile()
	assert.NoError(t, DocumentBounds(doc, PDFEnvelope))

	doc.Elements = models.ElementList{rect("a", 0, 0, 10, 10)}
	assert.NoError(t, DocumentBounds(doc, PDFEnvelope))
	assert.Nil(t, Violations(nil))
}

func TestDocumentBoundsNonFinite(t *testing.T) {
	doc := models.NewDucFile()
	doc.Elements = models.ElementList{rect("nan", math.NaN(), 0, 1, 1)}

	violations := Violations(DocumentBounds(doc, PDFEnvelope))
	require.Len(t, violations, 1)
	assert.Equal(t, "nan", violations[0].ElementID)
}

func TestExtent(t *testing.T) {
	doc := models.NewDucFile()
	assert.True(t, Extent(doc).IsEmpty())

	doc.Elements = models.ElementList{rect("a", 0, 0, 10, 10), rect("b", -5, 20, 5, 5)}
	assert.Equal(t, models.Bounds{MinX: -5, MinY: 0, MaxX: 10, MaxY: 25}, Extent(doc))
}
