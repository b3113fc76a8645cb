package drc

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/rules"
)

// largestClearance returns the maximum clearance over every rule and
// netclass plus the board default (spec.md §4.2 step 2), sizing the
// pad-clearance sweep window.
func largestClearance(settings board.DesignSettings, parsedRules []rules.Rule) int64 {
	max := settings.CopperToCopperClearance
	if settings.CopperToEdgeClearance > max {
		max = settings.CopperToEdgeClearance
	}
	for _, nc := range settings.Netclasses {
		if nc.Clearance > max {
			max = nc.Clearance
		}
	}
	for _, r := range parsedRules {
		if r.HasClearance && r.MinClearance > max {
			max = r.MinClearance
		}
	}
	return max
}

// testPadClearance implements the X-sorted sweep of spec.md §4.5: pads are
// ordered by X, and each pad is compared only against later pads within the
// sweep window, bounding the work done on boards with spatial locality
// while producing exactly the same violating-pair set as a naive O(n²)
// check (the window only prunes pairs already known to be out of range).
func testPadClearance(b *board.Board, settings board.DesignSettings, resolver *rules.Resolver, outline board.Polygon, outlineValid bool, reporter *marker.Reporter) {
	order := sortedPadIndices(b)
	if len(order) == 0 {
		return
	}

	maxRadius := int64(0)
	for _, p := range b.Pads {
		if r := p.OuterRadius(); r > maxRadius {
			maxRadius = r
		}
	}
	window := maxRadius + largestClearance(resolver.Settings, resolver.Rules) + maxRadius

	for i, pi := range order {
		p := b.Pads[pi]
		for _, pj := range order[i+1:] {
			q := b.Pads[pj]
			if q.Position.X > p.Position.X+window {
				break
			}
			testPadPair(b, settings, resolver, p, pi, q, pj, reporter)
		}
	}

	if outlineValid && !settings.IsIgnored(string(marker.PadNearEdge)) {
		for _, pi := range order {
			testPadAgainstEdge(b, settings, resolver, b.Pads[pi], outline, reporter)
		}
	}
}

func sortedPadIndices(b *board.Board) []int {
	order := make([]int, len(b.Pads))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return b.Pads[order[i]].Position.X < b.Pads[order[j]].Position.X })
	return order
}

func testPadPair(b *board.Board, settings board.DesignSettings, resolver *rules.Resolver, p board.Pad, pi board.PadRef, q board.Pad, qi board.PadRef, reporter *marker.Reporter) {
	if !p.Layers.Intersects(q.Layers) && !p.IsThroughHole() && !q.IsThroughHole() {
		return
	}

	objA := objectFor(settings, "", p.NetCode, false)
	objB := objectFor(settings, "", q.NetCode, false)
	required, _ := resolver.Resolve(objA, objB)

	// A through-hole implies a copper annular ring on every layer, so it
	// can conflict with an opposing pad even off the pad's own layer set.
	if p.IsThroughHole() && !p.Layers.Intersects(q.Layers) {
		testHoleAgainstPad(b, p, pi, q, qi, required, reporter)
		return
	}
	if q.IsThroughHole() && !q.Layers.Intersects(p.Layers) {
		testHoleAgainstPad(b, q, qi, p, pi, required, reporter)
		return
	}

	if p.NetCode > 0 && p.NetCode == q.NetCode {
		return
	}
	if p.Footprint == q.Footprint && p.Number == q.Number {
		return
	}

	d, _ := geom.SegmentSegmentClearance(p.Position, p.Position, p.OuterRadius()*2, q.Position, q.Position, q.OuterRadius()*2, required)
	if d < required {
		reporter.Report(marker.Marker{
			Kind:     marker.PadNearPad,
			Items:    []marker.Item{{Description: padDesc(b, pi)}, {Description: padDesc(b, qi)}},
			Message:  fmt.Sprintf("pads too close: required %d, actual %d", required, d),
			Position: midpointPos(p.Position, q.Position),
			Required: required,
			Actual:   d,
		})
	}
}

// testHoleAgainstPad tests a synthetic round pad shaped like driller's
// drill hole against the opposing pad's outline (spec.md §4.5 step 3).
func testHoleAgainstPad(b *board.Board, driller board.Pad, drillerRef board.PadRef, other board.Pad, otherRef board.PadRef, required int64, reporter *marker.Reporter) {
	holeRadius := driller.Drill.W
	d, _ := geom.SegmentSegmentClearance(driller.Position, driller.Position, holeRadius, other.Position, other.Position, other.OuterRadius()*2, required)
	if d < required {
		reporter.Report(marker.Marker{
			Kind:     marker.HoleNearPad,
			Items:    []marker.Item{{Description: padDesc(b, drillerRef)}, {Description: padDesc(b, otherRef)}},
			Message:  fmt.Sprintf("drilled hole too close to pad: required %d, actual %d", required, d),
			Position: midpointPos(driller.Position, other.Position),
			Required: required,
			Actual:   d,
		})
	}
}

func testPadAgainstEdge(b *board.Board, settings board.DesignSettings, resolver *rules.Resolver, p board.Pad, outline board.Polygon, reporter *marker.Reporter) {
	objA := objectFor(settings, "", p.NetCode, false)
	objEdge := objectFor(settings, "", 0, true)
	required, _ := resolver.Resolve(objA, objEdge)
	if settings.CopperToEdgeClearance > required {
		required = settings.CopperToEdgeClearance
	}

	for i := 0; i < len(outline.Outer); i++ {
		a := outline.Outer[i]
		bPt := outline.Outer[(i+1)%len(outline.Outer)]
		d, _ := geom.SegmentSegmentClearance(p.Position, p.Position, p.OuterRadius()*2, a, bPt, 0, required)
		if d < required {
			reporter.Report(marker.Marker{
				Kind:     marker.PadNearEdge,
				Message:  fmt.Sprintf("pad too close to board edge: required %d, actual %d", required, d),
				Position: p.Position,
				Required: required,
				Actual:   d,
			})
			return
		}
	}
}

func padDesc(b *board.Board, ref board.PadRef) string {
	p := b.Pads[ref]
	if p.Footprint == board.NoRef || int(p.Footprint) >= len(b.Footprints) {
		return fmt.Sprintf("pad %s", p.Number)
	}
	return fmt.Sprintf("pad %s of %s", p.Number, b.Footprints[p.Footprint].Reference)
}

func midpointPos(a, b board.Position) board.Position {
	return board.Position{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// testDrills implements spec.md §4.6: drill-vs-outer-size and
// drill-vs-minimum checks for every drilled pad/via, plus a pairwise
// hole-to-hole center-distance check reusing the same X-sorted order.
func testDrills(b *board.Board, settings board.DesignSettings, reporter *marker.Reporter) {
	type hole struct {
		pos   board.Position
		drill int64
		label string
	}
	var holes []hole

	for i, p := range b.Pads {
		if p.DrillShape == board.DrillNone {
			continue
		}
		outer := p.Size.W
		if p.Size.H < outer {
			outer = p.Size.H
		}
		if p.Drill.W > outer-2*settings.MinViaAnnularRing {
			reporter.Report(marker.Marker{
				Kind:     marker.TooSmallPadDrill,
				Message:  fmt.Sprintf("pad drill %d leaves insufficient annular ring", p.Drill.W),
				Position: p.Position,
			})
		}
		if p.Drill.W < settings.MinPadDrill {
			reporter.Report(marker.Marker{
				Kind:     marker.TooSmallPadDrill,
				Message:  fmt.Sprintf("pad drill %d below board minimum %d", p.Drill.W, settings.MinPadDrill),
				Position: p.Position,
			})
		}
		holes = append(holes, hole{p.Position, p.Drill.W, padDesc(b, board.PadRef(i))})
	}

	for _, v := range b.Vias {
		minDrill := settings.MinViaDrill
		kind := marker.TooSmallViaDrill
		if v.Kind == board.ViaMicro {
			minDrill = settings.MinMicroViaDrill
			kind = marker.TooSmallMicroviaDrill
		}
		if v.Drill > v.Size-2*settings.MinViaAnnularRing || v.Drill < minDrill {
			reporter.Report(marker.Marker{
				Kind:     kind,
				Message:  fmt.Sprintf("via drill %d invalid for size %d", v.Drill, v.Size),
				Position: v.Position,
			})
		}
		holes = append(holes, hole{v.Position, v.Drill, "via"})
	}

	sort.Slice(holes, func(i, j int) bool { return holes[i].pos.X < holes[j].pos.X })
	for i := range holes {
		for j := i + 1; j < len(holes); j++ {
			if holes[j].pos.X > holes[i].pos.X+settings.MinHoleToHole {
				break
			}
			dx, dy := holes[j].pos.X-holes[i].pos.X, holes[j].pos.Y-holes[i].pos.Y
			d := geom.Isqrt(dx*dx + dy*dy)
			if d < settings.MinHoleToHole {
				reporter.Report(marker.Marker{
					Kind:     marker.DrilledHolesTooClose,
					Message:  fmt.Sprintf("%s and %s holes too close: required %d, actual %d", holes[i].label, holes[j].label, settings.MinHoleToHole, d),
					Position: midpointPos(holes[i].pos, holes[j].pos),
					Required: settings.MinHoleToHole,
					Actual:   d,
				})
			}
		}
	}
}
