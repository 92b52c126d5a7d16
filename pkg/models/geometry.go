package models

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
)

// Point is a 2D coordinate. On the wire it is the compact array [x, y].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) GetCoordinates() [2]float64 {
	return [2]float64{p.X, p.Y}
}

func (p Point) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(p.GetCoordinates())
}

func (p *Point) UnmarshalCBOR(data []byte) error {
	var content []float64
	if err := cbor.Unmarshal(data, &content); err != nil {
		return err
	}
	if len(content) != 2 {
		return fmt.Errorf("unexpected point length: got %d, want 2", len(content))
	}
	p.X = content[0]
	p.Y = content[1]
	return nil
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// EmptyBounds returns a box that any Extend call replaces.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

func (b Bounds) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Extend grows the box to include p.
func (b Bounds) Extend(p Point) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, p.X),
		MinY: math.Min(b.MinY, p.Y),
		MaxX: math.Max(b.MaxX, p.X),
		MaxY: math.Max(b.MaxY, p.Y),
	}
}

// Within reports whether b lies entirely inside outer.
func (b Bounds) Within(outer Bounds) bool {
	return b.MinX >= outer.MinX && b.MinY >= outer.MinY &&
		b.MaxX <= outer.MaxX && b.MaxY <= outer.MaxY
}

// rotate turns p around center by angle radians.
func rotate(p, center Point, angle float64) Point {
	if angle == 0 {
		return p
	}
	sin, cos := math.Sincos(angle)
	dx, dy := p.X-center.X, p.Y-center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

func isFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
