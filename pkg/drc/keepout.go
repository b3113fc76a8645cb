package drc

import (
	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
)

// testKeepouts implements spec.md §4.10: for each keepout zone, any object
// whose geometry intersects the zone outline and whose kind is forbidden
// by the zone's keepout sub-flags is reported.
func testKeepouts(b *board.Board, reporter *marker.Reporter) {
	for _, z := range b.Zones {
		if !z.Keepout {
			continue
		}

		if z.KeepoutFlags.Has(board.KeepoutTracks) {
			for _, t := range b.Tracks {
				if t.Layer == z.Layer && segmentIntersectsPolygon(z.Outline, t.Start, t.End) {
					reporter.Report(marker.Marker{Kind: marker.KeepoutTrack, Position: midpointPos(t.Start, t.End), Message: "track inside keepout zone"})
				}
			}
		}
		if z.KeepoutFlags.Has(board.KeepoutVias) {
			for _, v := range b.Vias {
				if geom.PolylinePointContains(z.Outline, v.Position) {
					reporter.Report(marker.Marker{Kind: marker.KeepoutVia, Position: v.Position, Message: "via inside keepout zone"})
				}
			}
		}
		if z.KeepoutFlags.Has(board.KeepoutPads) {
			for pi, p := range b.Pads {
				if p.Layers.Has(z.Layer) && geom.PolylinePointContains(z.Outline, p.Position) {
					reporter.Report(marker.Marker{
						Kind: marker.KeepoutPad, Position: p.Position,
						Items:   []marker.Item{{Description: padDesc(b, board.PadRef(pi))}},
						Message: "pad inside keepout zone",
					})
				}
			}
		}
		if z.KeepoutFlags.Has(board.KeepoutFootprints) {
			for _, fp := range b.Footprints {
				if geom.PolylinePointContains(z.Outline, fp.Position) {
					reporter.Report(marker.Marker{Kind: marker.KeepoutFootprint, Position: fp.Position, Message: "footprint " + fp.Reference + " placed inside keepout zone"})
				}
			}
		}
	}
}

// segmentIntersectsPolygon reports whether either endpoint of the segment
// lies inside the polygon, or the polygon's boundary crosses the segment —
// the closed-polygon squared-distance helper returns zero in both cases.
func segmentIntersectsPolygon(poly board.Polygon, a, b board.Position) bool {
	return geom.PolygonSquaredDistance(poly, a, b) == 0
}
