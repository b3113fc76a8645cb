package marker

import (
	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
)

// EPSILON is the binary-search stop distance, 5 mil in nanometers
// (5 * 25,400 nm/mil), matching drc.cpp's `const int EPSILON = Mils2iu(5)`.
const EPSILON int64 = 5 * 25_400

// SquaredDistanceFunc measures the squared distance from a point to
// whatever conflicting shape Locate is searching against (a zone outline,
// a conflicting segment, ...).
type SquaredDistanceFunc func(board.Position) int64

// Locate performs a binary search along the track [start, end] for the
// point minimizing the squared distance to a conflicting shape, stopping
// once the search window is within EPSILON — grounded on drc.cpp's
// GetLocation(TRACK*, ...) overloads.
func Locate(start, end board.Position, distSq SquaredDistanceFunc) board.Position {
	mid := midpoint(start, end)
	if distSq(mid) == 0 {
		return mid
	}

	p1, p2 := start, end
	for lineLength(p1, p2) > EPSILON {
		m := midpoint(p1, p2)
		if distSq(p1) < distSq(p2) {
			p2 = m
		} else {
			p1 = m
		}
	}
	return p1
}

func midpoint(a, b board.Position) board.Position {
	return board.Position{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func lineLength(a, b board.Position) int64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return geom.Isqrt(dx*dx + dy*dy)
}
