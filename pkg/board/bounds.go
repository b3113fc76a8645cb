package board

import "math"

// BoundingBox computes the bounding box of the entire board: tracks, vias,
// footprint pads, and graphics. Grounded on the teacher's per-kind-expand
// walk, adapted to integer board units and the new arena-indexed types.
func (b *Board) BoundingBox() BoundingBox {
	bbox := NewBoundingBox()

	for _, t := range b.Tracks {
		bbox = bbox.Expand(t.Start)
		bbox = bbox.Expand(t.End)
	}

	for _, v := range b.Vias {
		r := v.Size / 2
		bbox = bbox.Expand(Position{v.Position.X - r, v.Position.Y - r})
		bbox = bbox.Expand(Position{v.Position.X + r, v.Position.Y + r})
	}

	for i := range b.Footprints {
		bbox = expandBox(bbox, b.FootprintBoundingBox(FootprintRef(i)))
	}

	for _, g := range b.Graphics {
		switch g.Kind {
		case ShapeSegment:
			bbox = bbox.Expand(g.Start)
			bbox = bbox.Expand(g.End)
		case ShapeCircle:
			bbox = bbox.Expand(Position{g.Center.X - g.Radius, g.Center.Y - g.Radius})
			bbox = bbox.Expand(Position{g.Center.X + g.Radius, g.Center.Y + g.Radius})
		case ShapeArc:
			bbox = bbox.Expand(g.Start)
			bbox = bbox.Expand(g.End)
			bbox = bbox.Expand(g.Center)
		case ShapeBezier:
			for _, p := range g.Controls {
				bbox = bbox.Expand(p)
			}
		case ShapePolygon:
			for _, p := range g.Poly.Outer {
				bbox = bbox.Expand(p)
			}
		}
	}

	for _, tx := range b.Texts {
		bbox = expandBox(bbox, tx.Bounds)
	}

	return bbox
}

func expandBox(b, other BoundingBox) BoundingBox {
	if other.IsEmpty() {
		return b
	}
	b = b.Expand(other.Min)
	b = b.Expand(other.Max)
	return b
}

// FootprintBoundingBox returns the bounding box of a footprint's pads,
// transformed by the footprint's own position and rotation.
func (b *Board) FootprintBoundingBox(ref FootprintRef) BoundingBox {
	fp := b.Footprint(ref)
	bbox := NewBoundingBox()

	for _, padRef := range fp.Pads {
		pad := b.Pad(padRef)
		abs := TransformPosition(*fp, pad.Position)
		hw, hh := pad.Size.W/2, pad.Size.H/2
		bbox = bbox.Expand(Position{abs.X - hw, abs.Y - hh})
		bbox = bbox.Expand(Position{abs.X + hw, abs.Y + hh})
	}

	if len(fp.Pads) == 0 {
		bbox = bbox.Expand(fp.Position)
	}

	return bbox
}

// TransformPosition maps a pad-local position into board coordinates given
// its owning footprint's position and rotation.
func TransformPosition(fp Footprint, rel Position) Position {
	x, y := float64(rel.X), float64(rel.Y)

	if fp.Angle != 0 {
		rad := -fp.Angle.Degrees() * math.Pi / 180.0
		cos, sin := math.Cos(rad), math.Sin(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	return Position{
		X: int64(x) + fp.Position.X,
		Y: int64(y) + fp.Position.Y,
	}
}
