package geom_test

import (
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
	"github.com/stretchr/testify/assert"
)

func TestSegmentSegmentClearanceParallel(t *testing.T) {
	// Two horizontal segments, one directly above the other, 1,000,000 nm
	// apart center-to-center, each 200,000 nm wide: actual gap = 800,000.
	a1 := geom.Position{X: 0, Y: 0}
	a2 := geom.Position{X: 1_000_000, Y: 0}
	b1 := geom.Position{X: 0, Y: 1_000_000}
	b2 := geom.Position{X: 1_000_000, Y: 1_000_000}

	d, _ := geom.SegmentSegmentClearance(a1, a2, 200_000, b1, b2, 200_000, 2_000_000)
	assert.Equal(t, int64(800_000), d)
}

func TestSegmentSegmentClearanceShortCircuits(t *testing.T) {
	a1 := geom.Position{X: 0, Y: 0}
	a2 := geom.Position{X: 100, Y: 0}
	b1 := geom.Position{X: 0, Y: 10_000_000}
	b2 := geom.Position{X: 100, Y: 10_000_000}

	d, _ := geom.SegmentSegmentClearance(a1, a2, 0, b1, b2, 0, 250_000)
	assert.Equal(t, int64(250_000), d, "gap far exceeds max, must short-circuit to max")
}

func TestSegmentSegmentClearanceTouching(t *testing.T) {
	a1 := geom.Position{X: 0, Y: 0}
	a2 := geom.Position{X: 1_000_000, Y: 0}
	b1 := geom.Position{X: 500_000, Y: 0}
	b2 := geom.Position{X: 1_500_000, Y: 0}

	d, _ := geom.SegmentSegmentClearance(a1, a2, 0, b1, b2, 0, 1_000_000)
	assert.Equal(t, int64(0), d, "overlapping segments have zero clearance")
}

func TestPolylinePointContainsSquare(t *testing.T) {
	square := geom.Polygon{Outer: []geom.Position{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}}

	assert.True(t, geom.PolylinePointContains(square, geom.Position{X: 5, Y: 5}))
	assert.False(t, geom.PolylinePointContains(square, geom.Position{X: 20, Y: 5}))
}

func TestPolylinePointContainsHole(t *testing.T) {
	poly := geom.Polygon{
		Outer: []geom.Position{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
		Holes: [][]geom.Position{
			{{X: 40, Y: 40}, {X: 60, Y: 40}, {X: 60, Y: 60}, {X: 40, Y: 60}},
		},
	}

	assert.True(t, geom.PolylinePointContains(poly, geom.Position{X: 10, Y: 10}), "inside outer, outside hole")
	assert.False(t, geom.PolylinePointContains(poly, geom.Position{X: 50, Y: 50}), "inside hole")
}

func TestPolygonSquaredDistanceZeroWhenCrossing(t *testing.T) {
	square := geom.Polygon{Outer: []geom.Position{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}}

	d := geom.PolygonSquaredDistance(square, geom.Position{X: -50, Y: 50}, geom.Position{X: 50, Y: 50})
	assert.Equal(t, int64(0), d)
}

func TestPolygonSquaredDistanceOutside(t *testing.T) {
	square := geom.Polygon{Outer: []geom.Position{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100},
	}}

	d := geom.PolygonSquaredDistance(square, geom.Position{X: 200, Y: 50}, geom.Position{X: 300, Y: 50})
	assert.Equal(t, int64(100*100), d)
}

func TestArcToPolylineEndpointsMatchSweep(t *testing.T) {
	center := geom.Position{X: 0, Y: 0}
	start := geom.Position{X: 1_000_000, Y: 0}

	pts := geom.ArcToPolyline(center, start, geom.Angle(900)) // 90 degrees
	if assert.NotEmpty(t, pts) {
		first := pts[0]
		assert.InDelta(t, float64(start.X), float64(first.X), 1000)
		assert.InDelta(t, float64(start.Y), float64(first.Y), 1000)

		last := pts[len(pts)-1]
		assert.InDelta(t, 0, float64(last.X), 1000)
		assert.InDelta(t, 1_000_000, float64(last.Y), 1000)
	}
}

func TestArcToPolylineZeroRadius(t *testing.T) {
	pts := geom.ArcToPolyline(geom.Position{}, geom.Position{}, geom.Angle(900))
	assert.Equal(t, []geom.Position{{}}, pts)
}

func TestBezierToPolylineStraightLineIsTwoPoints(t *testing.T) {
	controls := []geom.Position{{X: 0, Y: 0}, {X: 500_000, Y: 0}, {X: 1_000_000, Y: 0}}
	pts := geom.BezierToPolyline(controls, 200_000)
	assert.Len(t, pts, 2)
	assert.Equal(t, controls[0], pts[0])
	assert.Equal(t, controls[len(controls)-1], pts[len(pts)-1])
}

func TestBezierToPolylineCurveSubdivides(t *testing.T) {
	controls := []geom.Position{
		{X: 0, Y: 0}, {X: 0, Y: 1_000_000}, {X: 1_000_000, Y: 1_000_000}, {X: 1_000_000, Y: 0},
	}
	pts := geom.BezierToPolyline(controls, 100_000)
	assert.Greater(t, len(pts), 2, "a sharp curve should tessellate into more than its endpoints")
}

func TestRectCollide(t *testing.T) {
	rect := geom.BoundingBox{Min: geom.Position{X: 0, Y: 0}, Max: geom.Position{X: 100, Y: 100}}

	assert.True(t, geom.RectCollide(rect, geom.Position{X: 50, Y: 50}, geom.Position{X: 200, Y: 200}, 0))
	assert.False(t, geom.RectCollide(rect, geom.Position{X: 500, Y: 500}, geom.Position{X: 600, Y: 600}, 0))
	assert.True(t, geom.RectCollide(rect, geom.Position{X: 500, Y: 500}, geom.Position{X: 600, Y: 600}, 1000))
}

func TestTextToSegmentsBoundsCenteredOnPosition(t *testing.T) {
	pos := geom.Position{X: 1_000_000, Y: 2_000_000}
	segs, bounds := geom.TextToSegments("ABC", pos, 0)

	assert.Len(t, segs, 8, "four-corner box traced as four edges")
	assert.True(t, bounds.Contains(pos))
	assert.False(t, bounds.IsEmpty())
}
