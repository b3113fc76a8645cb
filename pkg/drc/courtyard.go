package drc

import (
	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
)

// testCourtyards implements spec.md §4.11: every footprint must have a
// closed, simple courtyard outline; courtyards must not overlap each
// other; and plated/non-plated holes must not fall inside a courtyard
// that isn't their own.
func testCourtyards(b *board.Board, reporter *marker.Reporter) {
	for fi, fp := range b.Footprints {
		if len(fp.Courtyard.Outer) == 0 {
			reporter.Report(marker.Marker{
				Kind: marker.MissingCourtyard, Position: fp.Position,
				Message: "footprint " + fp.Reference + " has no courtyard outline",
			})
			continue
		}
		if !isSimpleClosedPolygon(fp.Courtyard.Outer) {
			reporter.Report(marker.Marker{
				Kind: marker.MalformedCourtyard, Position: fp.Position,
				Message: "footprint " + fp.Reference + " courtyard is not a closed simple polygon",
			})
		}
		_ = fi
	}

	for i := 0; i < len(b.Footprints); i++ {
		a := b.Footprints[i]
		if len(a.Courtyard.Outer) == 0 {
			continue
		}
		for j := i + 1; j < len(b.Footprints); j++ {
			c := b.Footprints[j]
			if len(c.Courtyard.Outer) == 0 {
				continue
			}
			if courtyardsOverlap(a.Courtyard, c.Courtyard) {
				reporter.Report(marker.Marker{
					Kind: marker.OverlappingFootprints, Position: midpointPos(a.Position, c.Position),
					Message: "footprints " + a.Reference + " and " + c.Reference + " courtyards overlap",
				})
			}
		}
	}

	for fi, fp := range b.Footprints {
		for _, p := range fp.Pads {
			pad := b.Pads[p]
			holeInOtherCourtyards(b, fi, pad, reporter)
		}
	}
}

func isSimpleClosedPolygon(ring []board.Position) bool {
	if len(ring) < 3 {
		return false
	}
	for i := 0; i < len(ring); i++ {
		a1, a2 := ring[i], ring[(i+1)%len(ring)]
		for j := i + 2; j < len(ring); j++ {
			if i == 0 && j == len(ring)-1 {
				continue
			}
			b1, b2 := ring[j], ring[(j+1)%len(ring)]
			if d, _ := geom.SegmentSegmentClearance(a1, a2, 0, b1, b2, 0, 1); d == 0 {
				return false
			}
		}
	}
	return true
}

func courtyardsOverlap(a, c board.Polygon) bool {
	for _, v := range a.Outer {
		if geom.PolylinePointContains(c, v) {
			return true
		}
	}
	for _, v := range c.Outer {
		if geom.PolylinePointContains(a, v) {
			return true
		}
	}
	return false
}

func holeInOtherCourtyards(b *board.Board, owner int, pad board.Pad, reporter *marker.Reporter) {
	if pad.DrillShape == board.DrillNone {
		return
	}
	kind := marker.NPTHInCourtyard
	if pad.NetCode > 0 {
		kind = marker.PTHInCourtyard
	}
	for fi, fp := range b.Footprints {
		if fi == owner || len(fp.Courtyard.Outer) == 0 {
			continue
		}
		if geom.PolylinePointContains(fp.Courtyard, pad.Position) {
			reporter.Report(marker.Marker{
				Kind: kind, Position: pad.Position,
				Message: "drilled hole inside footprint " + fp.Reference + "'s courtyard",
			})
		}
	}
}
