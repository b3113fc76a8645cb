package drc

import (
	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
)

// testOutline runs the outline tester (spec.md §4.3): on failure to close,
// it reports INVALID_OUTLINE at the leftmost-topmost break in the edge
// chain (an endpoint shared by an odd number of edge-cut items), or at the
// leftmost-topmost edge-cut coordinate when no endpoint is unpaired.
func testOutline(b *board.Board, reporter *marker.Reporter) (board.Polygon, bool) {
	poly, ok := buildOutline(b)
	if ok {
		return poly, true
	}

	pos, found := leftmostTopmostEdgeCutPoint(b)
	if !found {
		return board.Polygon{}, false
	}
	reporter.Report(marker.Marker{
		Kind:     marker.InvalidOutline,
		Message:  "board outline does not close into a simple polygon",
		Position: pos,
	})
	return board.Polygon{}, false
}

func leftmostTopmostEdgeCutPoint(b *board.Board) (board.Position, bool) {
	edgeCutID, found := edgeCutsLayer(b)
	if !found {
		return board.Position{}, false
	}
	var best board.Position
	set := false
	consider := func(p board.Position) {
		if !set || p.X < best.X || (p.X == best.X && p.Y < best.Y) {
			best, set = p, true
		}
	}
	uses := make(map[board.Position]int)
	for _, g := range b.Graphics {
		if g.Layer == edgeCutID {
			uses[g.Start]++
			uses[g.End]++
		}
	}
	for _, breaksOnly := range []bool{true, false} {
		for _, g := range b.Graphics {
			if g.Layer != edgeCutID {
				continue
			}
			for _, p := range []board.Position{g.Start, g.End} {
				if !breaksOnly || uses[p]%2 == 1 {
					consider(p)
				}
			}
		}
		if set {
			break
		}
	}
	return best, set
}

// outlineEdge is one segment of the assembled board outline. Arcs are not
// flattened: an arc contributes the straight chord from its start to its
// end, and a circle a zero-length edge at its center.
type outlineEdge struct {
	A, B board.Position
}

// buildOutline assembles the board outline polygon from every Edge.Cuts
// graphic item (spec.md §4.3). It reports ok=false when the edges don't
// close into a simple loop — callers disable edge-clearance sub-tests in
// that case rather than operating on a polygon that doesn't mean anything.
func buildOutline(b *board.Board) (board.Polygon, bool) {
	edgeCutID, found := edgeCutsLayer(b)
	if !found {
		return board.Polygon{}, false
	}

	var edges []outlineEdge
	for _, g := range b.Graphics {
		if g.Layer != edgeCutID {
			continue
		}
		switch g.Kind {
		case board.ShapeSegment:
			edges = append(edges, outlineEdge{g.Start, g.End})
		case board.ShapeCircle:
			// A circle closes on its own; treat it as a complete outline by
			// itself only if it's the sole edge-cut item.
			edges = append(edges, outlineEdge{g.Center, g.Center})
		case board.ShapeArc:
			edges = append(edges, outlineEdge{g.Start, g.End})
		}
	}
	if len(edges) == 0 {
		return board.Polygon{}, false
	}

	chain, closed := chainEdges(edges)
	if !closed {
		return board.Polygon{}, false
	}

	return board.Polygon{Outer: chain}, true
}

// chainEdges walks edges end-to-start, greedily matching the next edge
// whose start point coincides with the current chain's end. Returns the
// ordered vertex list and whether the chain closes back on its start.
func chainEdges(edges []outlineEdge) ([]board.Position, bool) {
	remaining := append([]outlineEdge(nil), edges...)
	chain := []board.Position{remaining[0].A}
	cursor := remaining[0].B
	start := remaining[0].A
	remaining = remaining[1:]

	for len(remaining) > 0 {
		progressed := false
		for i, e := range remaining {
			switch {
			case e.A == cursor:
				chain = append(chain, cursor)
				cursor = e.B
			case e.B == cursor:
				chain = append(chain, cursor)
				cursor = e.A
			default:
				continue
			}
			remaining = append(remaining[:i], remaining[i+1:]...)
			progressed = true
			break
		}
		if !progressed {
			return chain, false
		}
	}

	return chain, cursor == start
}

// edgeCutsLayer finds the board's Edge.Cuts layer, if present.
func edgeCutsLayer(b *board.Board) (board.LayerID, bool) {
	for _, l := range b.Layers {
		if l.Kind == board.LayerKindEdgeCut {
			return l.ID, true
		}
	}
	return 0, false
}
