package geom

// Position is a board coordinate in nanometers, the engine's one internal unit.
type Position struct {
	X, Y int64
}

// Add returns the vector sum of two positions.
func (p Position) Add(q Position) Position { return Position{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector difference p - q.
func (p Position) Sub(q Position) Position { return Position{p.X - q.X, p.Y - q.Y} }

// Angle is a rotation in tenths of a degree, matching the file format's units.
type Angle int32

// Degrees returns the angle as a float64 in degrees.
func (a Angle) Degrees() float64 { return float64(a) / 10.0 }

// Size is a width/height pair in nanometers.
type Size struct {
	W, H int64
}

// BoundingBox is an axis-aligned rectangle in board units.
type BoundingBox struct {
	Min, Max Position
}

// NewBoundingBox returns an empty (inverted) bounding box ready for Expand.
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Position{X: 1<<62 - 1, Y: 1<<62 - 1},
		Max: Position{X: -(1<<62 - 1), Y: -(1<<62 - 1)},
	}
}

// IsEmpty reports whether the box has never been expanded.
func (b BoundingBox) IsEmpty() bool { return b.Min.X > b.Max.X }

// Expand grows the box to include p.
func (b BoundingBox) Expand(p Position) BoundingBox {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	return b
}

// Inflate grows the box by d on every side.
func (b BoundingBox) Inflate(d int64) BoundingBox {
	return BoundingBox{
		Min: Position{b.Min.X - d, b.Min.Y - d},
		Max: Position{b.Max.X + d, b.Max.Y + d},
	}
}

// Intersects reports whether two boxes overlap (touching counts as overlap).
func (b BoundingBox) Intersects(other BoundingBox) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

// Contains reports whether p lies within the box, inclusive of the edge.
func (b BoundingBox) Contains(p Position) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Width returns the box's horizontal extent.
func (b BoundingBox) Width() int64 { return b.Max.X - b.Min.X }

// Height returns the box's vertical extent.
func (b BoundingBox) Height() int64 { return b.Max.Y - b.Min.Y }

// Polygon is a simple outer contour plus zero or more holes, each a closed
// point list (first point not repeated at the end).
type Polygon struct {
	Outer []Position
	Holes [][]Position
}
