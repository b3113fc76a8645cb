package drc

import (
	"fmt"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/netgraph"
	"github.com/OpenTraceLab/pcbdrc/pkg/rules"
)

// testTracks implements spec.md §4.7: edge clearance, pairwise track/pad
// clearance, the optional track-vs-zone clearance, and dangling-endpoint
// reporting, yielding to the host's progress callback every 500 iterations.
// Vias share every sweep here (spec.md §4.7's "for each track, including
// vias"); since a Via spans a layer range rather than a single Layer, its
// own pass lives in testViaClearance below rather than in this loop.
func testTracks(b *board.Board, settings board.DesignSettings, resolver *rules.Resolver, outline board.Polygon, outlineValid bool, zones []board.Zone, opts Options, graph *netgraph.Graph, reporter *marker.Reporter) {
	for i := range b.Tracks {
		if i%500 == 0 && opts.Progress != nil {
			if !opts.Progress(i, len(b.Tracks)) && !opts.ContinueOnAbort {
				return
			}
		}

		t := b.Tracks[i]
		if outlineValid {
			testTrackAgainstEdge(b, settings, resolver, t, outline, reporter)
		}

		for j := i + 1; j < len(b.Tracks); j++ {
			u := b.Tracks[j]
			if t.Layer != u.Layer {
				continue
			}
			if t.NetCode > 0 && t.NetCode == u.NetCode {
				continue
			}
			objA := objectFor(settings, layerName(b, t.Layer), t.NetCode, false)
			objB := objectFor(settings, layerName(b, u.Layer), u.NetCode, false)
			required, _ := resolver.Resolve(objA, objB)

			d, _ := geom.SegmentSegmentClearance(t.Start, t.End, t.Width, u.Start, u.End, u.Width, required)
			if d < required {
				reporter.Report(marker.Marker{
					Kind:     marker.TrackNearTrack,
					Message:  fmt.Sprintf("tracks too close: required %d, actual %d", required, d),
					Position: locateTrackConflict(t, u.Start, u.End, u.Width, required),
					Required: required,
					Actual:   d,
				})
			}
		}

		for pi, p := range b.Pads {
			if !p.Layers.Has(t.Layer) {
				continue
			}
			if t.NetCode > 0 && t.NetCode == p.NetCode {
				continue
			}
			objA := objectFor(settings, layerName(b, t.Layer), t.NetCode, false)
			objB := objectFor(settings, "", p.NetCode, false)
			required, _ := resolver.Resolve(objA, objB)

			d, _ := geom.SegmentSegmentClearance(t.Start, t.End, t.Width, p.Position, p.Position, p.OuterRadius()*2, required)
			if d < required {
				reporter.Report(marker.Marker{
					Kind:     marker.TrackNearPad,
					Items:    []marker.Item{{Description: padDesc(b, board.PadRef(pi))}},
					Message:  fmt.Sprintf("track too close to pad: required %d, actual %d", required, d),
					Position: p.Position,
					Required: required,
					Actual:   d,
				})
			}
		}

		if opts.DoZonesTest {
			testTrackAgainstZones(b, resolver, t.Start, t.End, t.Width, t.Layer, t.NetCode, marker.TrackNearCopper, reporter, zones)
		}
	}

	testViaClearance(b, settings, resolver, outline, outlineValid, zones, opts, reporter)
	testDanglingEndpoints(b, graph, reporter)
}

func testTrackAgainstEdge(b *board.Board, settings board.DesignSettings, resolver *rules.Resolver, t board.Track, outline board.Polygon, reporter *marker.Reporter) {
	objA := objectFor(settings, layerName(b, t.Layer), t.NetCode, false)
	objEdge := objectFor(settings, "", 0, true)
	required, _ := resolver.Resolve(objA, objEdge)
	if settings.CopperToEdgeClearance > required {
		required = settings.CopperToEdgeClearance
	}

	for i := 0; i < len(outline.Outer); i++ {
		a := outline.Outer[i]
		bPt := outline.Outer[(i+1)%len(outline.Outer)]
		d, _ := geom.SegmentSegmentClearance(t.Start, t.End, t.Width, a, bPt, 0, required)
		if d < required {
			reporter.Report(marker.Marker{
				Kind:     marker.TrackNearEdge,
				Message:  fmt.Sprintf("too close to board edge: required %d, actual %d", required, d),
				Position: locateTrackConflict(t, a, bPt, 0, required),
				Required: required,
				Actual:   d,
			})
			return
		}
	}
}

// testViaClearance runs the same edge/track/via/pad/zone sweeps for vias,
// kept separate from testTracks' loop because a Via spans a layer range
// (LayerTop..LayerBot) rather than carrying the single Layer a Track does.
func testViaClearance(b *board.Board, settings board.DesignSettings, resolver *rules.Resolver, outline board.Polygon, outlineValid bool, zones []board.Zone, opts Options, reporter *marker.Reporter) {
	for vi, v := range b.Vias {
		span := viaLayerSpan(v)

		if outlineValid {
			testViaAgainstEdge(settings, resolver, v, outline, reporter)
		}

		for _, t := range b.Tracks {
			if !span.Has(t.Layer) {
				continue
			}
			if v.NetCode > 0 && v.NetCode == t.NetCode {
				continue
			}
			objA := objectFor(settings, "", v.NetCode, false)
			objB := objectFor(settings, layerName(b, t.Layer), t.NetCode, false)
			required, _ := resolver.Resolve(objA, objB)

			d, _ := geom.SegmentSegmentClearance(v.Position, v.Position, v.Size, t.Start, t.End, t.Width, required)
			if d < required {
				reporter.Report(marker.Marker{
					Kind:     marker.TrackNearTrack,
					Message:  fmt.Sprintf("via too close to track: required %d, actual %d", required, d),
					Position: locateTrackConflict(t, v.Position, v.Position, v.Size, required),
					Required: required,
					Actual:   d,
				})
			}
		}

		for vj := vi + 1; vj < len(b.Vias); vj++ {
			u := b.Vias[vj]
			if !span.Intersects(viaLayerSpan(u)) {
				continue
			}
			if v.NetCode > 0 && v.NetCode == u.NetCode {
				continue
			}
			objA := objectFor(settings, "", v.NetCode, false)
			objB := objectFor(settings, "", u.NetCode, false)
			required, _ := resolver.Resolve(objA, objB)

			d, _ := geom.SegmentSegmentClearance(v.Position, v.Position, v.Size, u.Position, u.Position, u.Size, required)
			if d < required {
				reporter.Report(marker.Marker{
					Kind:     marker.TrackNearTrack,
					Message:  fmt.Sprintf("vias too close: required %d, actual %d", required, d),
					Position: midpointPos(v.Position, u.Position),
					Required: required,
					Actual:   d,
				})
			}
		}

		for pi, p := range b.Pads {
			if !span.Intersects(p.Layers) {
				continue
			}
			if v.NetCode > 0 && v.NetCode == p.NetCode {
				continue
			}
			objA := objectFor(settings, "", v.NetCode, false)
			objB := objectFor(settings, "", p.NetCode, false)
			required, _ := resolver.Resolve(objA, objB)

			d, _ := geom.SegmentSegmentClearance(v.Position, v.Position, v.Size, p.Position, p.Position, p.OuterRadius()*2, required)
			if d < required {
				reporter.Report(marker.Marker{
					Kind:     marker.TrackNearPad,
					Items:    []marker.Item{{Description: padDesc(b, board.PadRef(pi))}},
					Message:  fmt.Sprintf("via too close to pad: required %d, actual %d", required, d),
					Position: p.Position,
					Required: required,
					Actual:   d,
				})
			}
		}

		if opts.DoZonesTest {
			for _, l := range b.Layers {
				if l.Kind == board.LayerKindCopper && span.Has(l.ID) {
					testTrackAgainstZones(b, resolver, v.Position, v.Position, v.Size, l.ID, v.NetCode, marker.ViaNearCopper, reporter, zones)
				}
			}
		}
	}
}

func testViaAgainstEdge(settings board.DesignSettings, resolver *rules.Resolver, v board.Via, outline board.Polygon, reporter *marker.Reporter) {
	objA := objectFor(settings, "", v.NetCode, false)
	objEdge := objectFor(settings, "", 0, true)
	required, _ := resolver.Resolve(objA, objEdge)
	if settings.CopperToEdgeClearance > required {
		required = settings.CopperToEdgeClearance
	}

	for i := 0; i < len(outline.Outer); i++ {
		a := outline.Outer[i]
		bPt := outline.Outer[(i+1)%len(outline.Outer)]
		d, _ := geom.SegmentSegmentClearance(v.Position, v.Position, v.Size, a, bPt, 0, required)
		if d < required {
			reporter.Report(marker.Marker{
				Kind:     marker.ViaNearEdge,
				Message:  fmt.Sprintf("via too close to board edge: required %d, actual %d", required, d),
				Position: v.Position,
				Required: required,
				Actual:   d,
			})
			return
		}
	}
}

// testTrackAgainstZones implements spec.md §4.7 bullet 4: when doZonesTest
// is set, a track or via segment is also tested against the smoothed
// outline of every non-keepout zone sharing its copper layer and not
// sharing its net. The zones' FilledPolygons are not consulted.
func testTrackAgainstZones(b *board.Board, resolver *rules.Resolver, start, end board.Position, width int64, layer board.LayerID, netCode int, kind marker.Kind, reporter *marker.Reporter, zones []board.Zone) {
	for _, z := range zones {
		if z.Keepout || z.Layer != layer {
			continue
		}
		if z.NetCode > 0 && z.NetCode == netCode {
			continue
		}

		objA := objectFor(resolver.Settings, layerName(b, layer), netCode, false)
		objB := objectFor(resolver.Settings, layerName(b, z.Layer), z.NetCode, false)
		required, _ := resolver.Resolve(objA, objB)

		walkSegments(z.Smoothed.Outer, func(a, bPt board.Position) {
			d, _ := geom.SegmentSegmentClearance(start, end, width, a, bPt, 0, required)
			if d < required {
				reporter.Report(marker.Marker{
					Kind:     kind,
					Message:  fmt.Sprintf("too close to filled zone: required %d, actual %d", required, d),
					Position: marker.Locate(start, end, func(p board.Position) int64 {
						dd, _ := geom.SegmentSegmentClearance(p, p, 0, a, bPt, 0, required)
						return dd * dd
					}),
					Required: required,
					Actual:   d,
				})
			}
		})
	}
}

// viaLayerSpan returns the set of copper layers a via's plating connects,
// normalizing LayerTop/LayerBot order (a blind or buried via may record
// them either way depending on which face the host listed first).
func viaLayerSpan(v board.Via) board.LayerSet {
	top, bot := v.LayerTop, v.LayerBot
	if bot < top {
		top, bot = bot, top
	}
	var s board.LayerSet
	for l := top; l <= bot; l++ {
		s = s.With(l)
	}
	return s
}

// locateTrackConflict runs the binary-search marker locator along [t.Start,
// t.End] against the squared distance to the opposing segment, grounded on
// GetLocation's track-vs-track overload — the reported point is guaranteed
// within marker.EPSILON of the true nearest point (spec.md §8's S5).
func locateTrackConflict(t board.Track, oppA, oppB board.Position, oppWidth, required int64) board.Position {
	return marker.Locate(t.Start, t.End, func(p board.Position) int64 {
		d, _ := geom.SegmentSegmentClearance(p, p, 0, oppA, oppB, oppWidth, required)
		return d * d
	})
}

func testDanglingEndpoints(b *board.Board, graph *netgraph.Graph, reporter *marker.Reporter) {
	for i, term := range graph.Terminals {
		if !graph.IsDangling(i) {
			continue
		}
		switch term.Kind {
		case netgraph.TerminalTrackStart, netgraph.TerminalTrackEnd:
			reporter.Report(marker.Marker{
				Kind:     marker.DanglingTrack,
				Message:  "track endpoint not connected to its declared net",
				Position: term.Position,
			})
		case netgraph.TerminalVia:
			reporter.Report(marker.Marker{
				Kind:     marker.DanglingVia,
				Message:  "via not connected to its declared net",
				Position: term.Position,
			})
		}
	}
}
