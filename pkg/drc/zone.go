package drc

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/rules"
)

// testZoneToZone implements spec.md §4.8: for every unordered pair of
// zones on the same layer/priority/keepout-type with different (or no
// shared) net, test for outline intersection and too-close segments,
// deduplicating conflict points so the same vertex doesn't yield
// duplicate markers.
func testZoneToZone(b *board.Board, resolver *rules.Resolver, reporter *marker.Reporter) {
	for i := 0; i < len(b.Zones); i++ {
		z1 := b.Zones[i]
		for j := i + 1; j < len(b.Zones); j++ {
			z2 := b.Zones[j]
			if z1.Layer != z2.Layer || z1.Priority != z2.Priority || z1.Keepout != z2.Keepout {
				continue
			}
			if z1.NetCode > 0 && z1.NetCode == z2.NetCode {
				continue
			}

			objA := objectFor(resolver.Settings, layerName(b, z1.Layer), z1.NetCode, false)
			objB := objectFor(resolver.Settings, layerName(b, z2.Layer), z2.NetCode, false)
			required, _ := resolver.Resolve(objA, objB)
			if z1.Keepout && required < 1 {
				required = 1
			}

			testZonePair(b, z1.Smoothed, z2.Smoothed, required, reporter)
		}
	}
}

func testZonePair(b *board.Board, a, z board.Polygon, required int64, reporter *marker.Reporter) {
	for _, v := range a.Outer {
		if geom.PolylinePointContains(z, v) {
			reporter.Report(marker.Marker{Kind: marker.ZonesIntersect, Position: v, Message: "zone vertex inside another zone"})
		}
	}
	for _, v := range z.Outer {
		if geom.PolylinePointContains(a, v) {
			reporter.Report(marker.Marker{Kind: marker.ZonesIntersect, Position: v, Message: "zone vertex inside another zone"})
		}
	}

	conflicts := make(map[board.Position]int64)
	walkSegments(a.Outer, func(a1, a2 board.Position) {
		walkSegments(z.Outer, func(b1, b2 board.Position) {
			d, pt := geom.SegmentSegmentClearance(a1, a2, 0, b1, b2, 0, required)
			if d >= required {
				return
			}
			if existing, ok := conflicts[pt]; !ok || d < existing {
				conflicts[pt] = d
			}
		})
	})

	points := make([]board.Position, 0, len(conflicts))
	for pt := range conflicts {
		points = append(points, pt)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].X < points[j].X || (points[i].X == points[j].X && points[i].Y < points[j].Y)
	})
	for _, pt := range points {
		d := conflicts[pt]
		kind := marker.ZonesTooClose
		if d <= 0 {
			kind = marker.ZonesIntersect
		}
		reporter.Report(marker.Marker{
			Kind:     kind,
			Position: pt,
			Message:  fmt.Sprintf("zones too close: required %d, actual %d", required, d),
			Required: required,
			Actual:   d,
		})
	}
}

func walkSegments(ring []board.Position, fn func(a, b board.Position)) {
	for i := 0; i < len(ring); i++ {
		fn(ring[i], ring[(i+1)%len(ring)])
	}
}

// testZoneEmptyNet implements spec.md §4.14's zone-empty-net check: any
// non-keepout copper zone whose net code is invalid or has no pads.
func testZoneEmptyNet(b *board.Board, reporter *marker.Reporter) {
	for _, z := range b.Zones {
		if z.Keepout || !isCopperLayer(b, z.Layer) {
			continue
		}
		if z.NetCode < 0 || b.PadCountForNet(z.NetCode) == 0 {
			reporter.Report(marker.Marker{
				Kind:     marker.ZoneHasEmptyNet,
				Message:  "copper zone has no pads on its net",
				Position: zoneRepresentativePoint(z),
			})
		}
	}
}

func zoneRepresentativePoint(z board.Zone) board.Position {
	if len(z.Outline.Outer) == 0 {
		return board.Position{}
	}
	return z.Outline.Outer[0]
}
