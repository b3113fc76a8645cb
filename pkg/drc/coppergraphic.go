package drc

import (
	"fmt"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/rules"
)

// testCopperGraphic implements spec.md §4.9: every copper-layer graphic or
// visible text item is tessellated into segments and tested against every
// track and pad on a matching layer, rect-collide prefiltered.
func testCopperGraphic(b *board.Board, resolver *rules.Resolver, reporter *marker.Reporter) {
	for _, g := range b.Graphics {
		if !isCopperLayer(b, g.Layer) {
			continue
		}
		segs := graphicSegments(g)
		testShapeAgainstBoard(b, resolver, segs, g.Width, g.Layer, g.Owner, marker.TrackNearCopper, marker.PadNearCopper, reporter)
		testShapeAgainstVias(b, resolver, segs, g.Width, g.Layer, reporter)
	}

	for _, t := range b.Texts {
		if !t.Visible || !isCopperLayer(b, t.Layer) {
			continue
		}
		segs := pairwise(t.Segments)
		testShapeAgainstBoard(b, resolver, segs, t.PenWidth, t.Layer, t.Owner, marker.TrackNearCopper, marker.PadNearCopper, reporter)
		testShapeAgainstVias(b, resolver, segs, t.PenWidth, t.Layer, reporter)
	}
}

type segment struct{ A, B board.Position }

func graphicSegments(g board.Graphic) []segment {
	switch g.Kind {
	case board.ShapeSegment:
		return []segment{{g.Start, g.End}}
	case board.ShapeArc:
		pts := geom.ArcToPolyline(g.Center, g.Start, g.ArcAngle)
		return pairwise(append(pts, g.End))
	case board.ShapeCircle:
		pts := geom.ArcToPolyline(g.Center, g.End, geom.Angle(3600))
		return pairwise(pts)
	case board.ShapeBezier:
		pts := geom.BezierToPolyline(g.Controls, g.Width)
		return pairwise(pts)
	case board.ShapePolygon:
		return pairwise(closedRing(g.Poly.Outer))
	}
	return nil
}

func pairwise(pts []board.Position) []segment {
	var out []segment
	for i := 0; i+1 < len(pts); i++ {
		out = append(out, segment{pts[i], pts[i+1]})
	}
	return out
}

func closedRing(pts []board.Position) []board.Position {
	if len(pts) == 0 {
		return nil
	}
	return append(append([]board.Position(nil), pts...), pts[0])
}

func isCopperLayer(b *board.Board, id board.LayerID) bool {
	for _, l := range b.Layers {
		if l.ID == id {
			return l.Kind == board.LayerKindCopper
		}
	}
	return false
}

func testShapeAgainstBoard(b *board.Board, resolver *rules.Resolver, segs []segment, width int64, layer board.LayerID, owner board.FootprintRef, trackKind, padKind marker.Kind, reporter *marker.Reporter) {
	netTie := owner != board.NoRef && int(owner) < len(b.Footprints) && b.Footprints[owner].NetTie

	for _, s := range segs {
		for _, t := range b.Tracks {
			if t.Layer != layer {
				continue
			}
			objA := objectFor(resolver.Settings, layerName(b, layer), 0, false)
			objB := objectFor(resolver.Settings, layerName(b, t.Layer), t.NetCode, false)
			required, _ := resolver.Resolve(objA, objB)
			if !geom.RectCollide(segBounds(s, width), t.Start, t.End, required+t.Width/2) {
				continue
			}
			d, _ := geom.SegmentSegmentClearance(s.A, s.B, width, t.Start, t.End, t.Width, required)
			if d < required {
				reporter.Report(marker.Marker{
					Kind: trackKind,
					Position: marker.Locate(t.Start, t.End, func(p board.Position) int64 {
						dd, _ := geom.SegmentSegmentClearance(p, p, 0, s.A, s.B, width, required)
						return dd * dd
					}),
					Message:  fmt.Sprintf("copper item too close: required %d, actual %d", required, d),
					Required: required, Actual: d,
				})
			}
		}

		for pi, p := range b.Pads {
			if !p.Layers.Has(layer) {
				continue
			}
			if netTie && p.Footprint == owner {
				continue
			}
			objA := objectFor(resolver.Settings, layerName(b, layer), 0, false)
			objB := objectFor(resolver.Settings, "", p.NetCode, false)
			required, _ := resolver.Resolve(objA, objB)
			if !geom.RectCollide(segBounds(s, width), p.Position, p.Position, required+p.OuterRadius()) {
				continue
			}
			d, _ := geom.SegmentSegmentClearance(s.A, s.B, width, p.Position, p.Position, p.OuterRadius()*2, required)
			if d < required {
				reporter.Report(marker.Marker{
					Kind: padKind, Position: p.Position,
					Items:   []marker.Item{{Description: padDesc(b, board.PadRef(pi))}},
					Message: fmt.Sprintf("copper item too close to pad: required %d, actual %d", required, d),
					Required: required, Actual: d,
				})
			}
		}
	}
}

// testShapeAgainstVias fills in the VIA_NEAR_COPPER half of the sweep: a
// via participates whenever layer falls within its LayerTop..LayerBot span,
// since (unlike a Track) a Via has no single Layer field to compare against.
func testShapeAgainstVias(b *board.Board, resolver *rules.Resolver, segs []segment, width int64, layer board.LayerID, reporter *marker.Reporter) {
	for _, s := range segs {
		for _, v := range b.Vias {
			if !viaLayerSpan(v).Has(layer) {
				continue
			}
			objA := objectFor(resolver.Settings, layerName(b, layer), 0, false)
			objB := objectFor(resolver.Settings, "", v.NetCode, false)
			required, _ := resolver.Resolve(objA, objB)
			if !geom.RectCollide(segBounds(s, width), v.Position, v.Position, required+v.Size/2) {
				continue
			}
			d, _ := geom.SegmentSegmentClearance(s.A, s.B, width, v.Position, v.Position, v.Size, required)
			if d < required {
				reporter.Report(marker.Marker{
					Kind: marker.ViaNearCopper,
					Position: marker.Locate(s.A, s.B, func(p board.Position) int64 {
						dd, _ := geom.SegmentSegmentClearance(p, p, 0, v.Position, v.Position, v.Size, required)
						return dd * dd
					}),
					Message:  fmt.Sprintf("copper item too close to via: required %d, actual %d", required, d),
					Required: required, Actual: d,
				})
			}
		}
	}
}

func segBounds(s segment, width int64) board.BoundingBox {
	bb := geom.NewBoundingBox()
	bb = bb.Expand(s.A)
	bb = bb.Expand(s.B)
	return bb.Inflate(width / 2)
}
