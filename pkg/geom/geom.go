// Package geom is the DRC engine's geometry kernel: pure functions over
// shape primitives, with no board or rule-resolution state of their own.
// Distances are compared as squared 64-bit quantities wherever possible;
// sqrt is invoked only at the point a caller needs an actual length.
package geom

import "math"

// Isqrt returns the integer square root of n (0 for n <= 0), via Newton's
// method, mirroring the rounding the board package uses for pad radii.
func Isqrt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// closestPointsOnSegments returns the points on segment [p1,q1] and segment
// [p2,q2] closest to each other, following the standard clamped-parametric
// algorithm for segment-segment closest points (Ericson, "Real-Time
// Collision Detection" §5.1.9), evaluated in float64 for robustness.
func closestPointsOnSegments(p1, q1, p2, q2 Position) (c1, c2 Position) {
	d1x, d1y := float64(q1.X-p1.X), float64(q1.Y-p1.Y)
	d2x, d2y := float64(q2.X-p2.X), float64(q2.Y-p2.Y)
	rx, ry := float64(p1.X-p2.X), float64(p1.Y-p2.Y)

	a := d1x*d1x + d1y*d1y
	e := d2x*d2x + d2y*d2y
	f := d2x*rx + d2y*ry

	const eps = 1e-9
	var s, t float64

	if a <= eps && e <= eps {
		s, t = 0, 0
	} else if a <= eps {
		s = 0
		t = clamp01(f / e)
	} else {
		c := d1x*rx + d1y*ry
		if e <= eps {
			t = 0
			s = clamp01(-c / a)
		} else {
			b := d1x*d2x + d1y*d2y
			denom := a*e - b*b
			if denom > eps {
				s = clamp01((b*f - c*e) / denom)
			} else {
				s = 0
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp01(-c / a)
			} else if t > 1 {
				t = 1
				s = clamp01((b - c) / a)
			}
		}
	}

	c1 = Position{X: p1.X + int64(d1x*s), Y: p1.Y + int64(d1y*s)}
	c2 = Position{X: p2.X + int64(d2x*t), Y: p2.Y + int64(d2y*t)}
	return c1, c2
}

func distSquared(a, b Position) int64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dx*dx + dy*dy
}

// segmentSegmentDistanceSquared is the exact, widthless squared distance
// between two line segments (used internally for polygon-edge checks,
// where no stroke width applies).
func segmentSegmentDistanceSquared(p1, q1, p2, q2 Position) int64 {
	c1, c2 := closestPointsOnSegments(p1, q1, p2, q2)
	return distSquared(c1, c2)
}

// boundsOf returns the axis-aligned bounding box of a single segment.
func boundsOf(a, b Position) BoundingBox {
	return NewBoundingBox().Expand(a).Expand(b)
}

// lowerBoundDistance returns a valid lower bound on the distance between two
// bounding boxes (zero if they overlap), used to decide whether the full
// closest-point computation can be skipped.
func lowerBoundDistance(a, b BoundingBox) int64 {
	dx := max(a.Min.X-b.Max.X, b.Min.X-a.Max.X, 0)
	dy := max(a.Min.Y-b.Max.Y, b.Min.Y-a.Max.Y, 0)
	return Isqrt(dx*dx + dy*dy)
}

// SegmentSegmentClearance returns the edge-to-edge distance between two
// widened segments (stroke width widthA/widthB straddling the centerline),
// short-circuiting to max once the gap is provably at least max — callers
// pass max = the clearance they require, so a short-circuited result still
// correctly signals "no violation" without computing the exact distance.
func SegmentSegmentClearance(a1, a2 Position, widthA int64, b1, b2 Position, widthB int64, max int64) (int64, Position) {
	halfSum := widthA/2 + widthB/2

	boundsA := boundsOf(a1, a2).Inflate(widthA / 2)
	boundsB := boundsOf(b1, b2).Inflate(widthB / 2)
	if lowerBoundDistance(boundsA, boundsB) >= max {
		mid := Position{X: (a1.X + a2.X + b1.X + b2.X) / 4, Y: (a1.Y + a2.Y + b1.Y + b2.Y) / 4}
		return max, mid
	}

	c1, c2 := closestPointsOnSegments(a1, a2, b1, b2)
	centerDist := Isqrt(distSquared(c1, c2))

	d := centerDist - halfSum
	if d < 0 {
		d = 0
	}
	if d > max {
		d = max
	}
	closest := Position{X: (c1.X + c2.X) / 2, Y: (c1.Y + c2.Y) / 2}
	return d, closest
}

// PolylinePointContains reports whether p lies within poly using the
// even-odd rule; the outer contour and every hole are each counted, so a
// point inside a hole is reported as outside.
func PolylinePointContains(poly Polygon, p Position) bool {
	inside := ringContains(poly.Outer, p)
	for _, hole := range poly.Holes {
		if ringContains(hole, p) {
			inside = !inside
		}
	}
	return inside
}

func ringContains(ring []Position, p Position) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[j], ring[i]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := float64(b.X-a.X)*float64(p.Y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
			if float64(p.X) < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// PolygonSquaredDistance returns the squared distance from the nearest
// point of poly (boundary, or zero if the segment crosses into the filled
// area) to the segment [a,b].
func PolygonSquaredDistance(poly Polygon, a, b Position) int64 {
	if PolylinePointContains(poly, a) || PolylinePointContains(poly, b) {
		return 0
	}

	best := int64(math.MaxInt64)
	walkEdges(poly.Outer, func(e1, e2 Position) {
		if d := segmentSegmentDistanceSquared(a, b, e1, e2); d < best {
			best = d
		}
	})
	for _, hole := range poly.Holes {
		walkEdges(hole, func(e1, e2 Position) {
			if d := segmentSegmentDistanceSquared(a, b, e1, e2); d < best {
				best = d
			}
		})
	}
	if best == math.MaxInt64 {
		return 0
	}
	return best
}

func walkEdges(ring []Position, f func(a, b Position)) {
	n := len(ring)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		f(ring[i], ring[(i+1)%n])
	}
}

// arcSagittaTolerance bounds the chord deviation from the true arc as a
// fraction of the radius (spec's "1/1000 of radius").
const arcSagittaTolerance = 1.0 / 1000.0

// ArcToPolyline tessellates the arc from start around center, sweeping by
// angle (tenths of a degree, signed for direction), into a polyline whose
// maximum chord sagitta is bounded by arcSagittaTolerance of the radius.
func ArcToPolyline(center, start Position, angle Angle) []Position {
	radius := Isqrt(distSquared(center, start))
	if radius == 0 {
		return []Position{start}
	}

	sweep := angle.Degrees() * math.Pi / 180.0
	if sweep == 0 {
		return []Position{start}
	}

	// For a chord subtending angle theta, sagitta = r*(1 - cos(theta/2)).
	// Solve for theta at the tolerance bound.
	maxStep := 2 * math.Acos(1-arcSagittaTolerance)
	n := int(math.Ceil(math.Abs(sweep) / maxStep))
	if n < 1 {
		n = 1
	}

	startAngle := math.Atan2(float64(start.Y-center.Y), float64(start.X-center.X))
	dt := sweep / float64(n)

	pts := make([]Position, 0, n+1)
	for i := 0; i <= n; i++ {
		a := startAngle + dt*float64(i)
		pts = append(pts, Position{
			X: center.X + int64(float64(radius)*math.Cos(a)),
			Y: center.Y + int64(float64(radius)*math.Sin(a)),
		})
	}
	return pts
}

// BezierToPolyline flattens a cubic (4 control points) or quadratic (3
// control points) Bezier curve into a polyline, subdividing until each
// segment's deviation from the true curve is within the same sagitta
// tolerance fraction used for arcs, applied to the stroke width instead of a
// radius (a zero width falls back to 1 nm), so wider strokes tessellate
// more coarsely.
func BezierToPolyline(controls []Position, width int64) []Position {
	if len(controls) < 3 {
		return controls
	}

	tolerance := float64(width) * arcSagittaTolerance
	if tolerance <= 0 {
		tolerance = 1
	}

	var out []Position
	flattenBezier(controls, tolerance, 0, &out)
	out = append(out, controls[len(controls)-1])
	return out
}

func flattenBezier(controls []Position, tolerance float64, depth int, out *[]Position) {
	*out = append(*out, controls[0])
	if depth > 24 || flatEnough(controls, tolerance) {
		return
	}
	left, right := subdivide(controls)
	flattenBezier(left, tolerance, depth+1, out)
	flattenBezier(right, tolerance, depth+1, out)
}

// flatEnough measures the maximum distance of the interior control points
// from the chord connecting the curve's endpoints.
func flatEnough(controls []Position, tolerance float64) bool {
	a, b := controls[0], controls[len(controls)-1]
	abx, aby := float64(b.X-a.X), float64(b.Y-a.Y)
	chordLenSq := abx*abx + aby*aby
	for _, c := range controls[1 : len(controls)-1] {
		cax, cay := float64(c.X-a.X), float64(c.Y-a.Y)
		cross := abx*cay - aby*cax
		var dist float64
		if chordLenSq > 1e-9 {
			dist = math.Abs(cross) / math.Sqrt(chordLenSq)
		} else {
			dist = math.Hypot(cax, cay)
		}
		if dist > tolerance {
			return false
		}
	}
	return true
}

func subdivide(controls []Position) ([]Position, []Position) {
	pts := make([]Position, len(controls))
	copy(pts, controls)

	left := make([]Position, 0, len(controls))
	right := make([]Position, 0, len(controls))
	left = append(left, pts[0])

	for len(pts) > 1 {
		right = append([]Position{pts[len(pts)-1]}, right...)
		next := make([]Position, len(pts)-1)
		for i := range next {
			next[i] = Position{
				X: (pts[i].X + pts[i+1].X) / 2,
				Y: (pts[i].Y + pts[i+1].Y) / 2,
			}
		}
		pts = next
		left = append(left, pts[0])
	}
	right = append([]Position{pts[0]}, right...)
	return left, right
}

// RectCollide is a fast pre-filter: does the segment [a,b], widened by
// expand, possibly overlap rect? False negatives are not permitted; false
// positives are, since callers follow up with an exact test.
func RectCollide(rect BoundingBox, a, b Position, expand int64) bool {
	inflated := rect.Inflate(expand)
	return inflated.Intersects(boundsOf(a, b))
}

// glyphAdvanceNM and glyphHeightNM approximate a monospace stroke font; the
// engine tessellates text into a deterministic stroke polyline rather than
// resolving real glyph outlines, which is a font-rendering concern outside
// the clearance kernel's scope.
const (
	glyphHeightNM  = int64(1_270_000) // 1.27mm default KiCad text height
	glyphAdvanceNM = glyphHeightNM * 6 / 10
)

// TextToSegments tessellates a text item into a deterministic stroke
// outline: the four edges of one rectangle covering the whole string, each
// edge given as its two endpoints, together with the rotated bounding box.
// Individual glyph strokes are not traced; the rectangle is sufficient for
// clearance testers that need *some* stroke geometry to measure against.
func TextToSegments(content string, pos Position, angle Angle) ([]Position, BoundingBox) {
	width := int64(len(content)) * glyphAdvanceNM
	height := glyphHeightNM

	half := Position{X: width / 2, Y: height / 2}
	corners := []Position{
		{X: -half.X, Y: -half.Y},
		{X: half.X, Y: -half.Y},
		{X: half.X, Y: half.Y},
		{X: -half.X, Y: half.Y},
	}

	rad := angle.Degrees() * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)

	bounds := NewBoundingBox()
	abs := make([]Position, len(corners))
	for i, c := range corners {
		x, y := float64(c.X), float64(c.Y)
		rx, ry := x*cos-y*sin, x*sin+y*cos
		p := Position{X: pos.X + int64(rx), Y: pos.Y + int64(ry)}
		abs[i] = p
		bounds = bounds.Expand(p)
	}

	segs := make([]Position, 0, 8)
	for i := 0; i < len(abs); i++ {
		segs = append(segs, abs[i], abs[(i+1)%len(abs)])
	}

	return segs, bounds
}
