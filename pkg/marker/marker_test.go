package marker_test

import (
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/stretchr/testify/assert"
)

func TestReporterDropsIgnoredKind(t *testing.T) {
	settings := board.DesignSettings{Ignored: map[string]bool{"PAD_NEAR_PAD": true}}
	r := marker.NewReporter(settings, nil)

	r.Report(marker.Marker{Kind: marker.PadNearPad})
	r.Report(marker.Marker{Kind: marker.TrackNearTrack})

	assert.Len(t, r.Markers(), 1)
	assert.Equal(t, marker.TrackNearTrack, r.Markers()[0].Kind)
}

func TestReporterInvokesSink(t *testing.T) {
	var seen []marker.Kind
	r := marker.NewReporter(board.DesignSettings{}, func(m marker.Marker) {
		seen = append(seen, m.Kind)
	})

	r.Report(marker.Marker{Kind: marker.DanglingTrack})
	assert.Equal(t, []marker.Kind{marker.DanglingTrack}, seen)
}

func TestReporterAssignsID(t *testing.T) {
	r := marker.NewReporter(board.DesignSettings{}, nil)
	r.Report(marker.Marker{Kind: marker.ZonesTooClose})
	assert.NotEmpty(t, r.Markers()[0].ID.String())
}

func TestCount(t *testing.T) {
	r := marker.NewReporter(board.DesignSettings{}, nil)
	r.Report(marker.Marker{Kind: marker.PadNearPad})
	r.Report(marker.Marker{Kind: marker.PadNearPad})
	r.Report(marker.Marker{Kind: marker.TrackNearTrack})

	assert.Equal(t, 2, r.Count(marker.PadNearPad))
	assert.Equal(t, 1, r.Count(marker.TrackNearTrack))
}

func TestLocateReturnsMidpointWhenAlreadyInConflict(t *testing.T) {
	start := board.Position{X: 0, Y: 0}
	end := board.Position{X: 1_000_000, Y: 0}

	pos := marker.Locate(start, end, func(board.Position) int64 { return 0 })
	assert.Equal(t, board.Position{X: 500_000, Y: 0}, pos)
}

func TestLocateConvergesTowardCloserShape(t *testing.T) {
	start := board.Position{X: 0, Y: 0}
	end := board.Position{X: 1_000_000, Y: 0}
	target := board.Position{X: 900_000, Y: 0}

	distSq := func(p board.Position) int64 {
		dx := p.X - target.X
		return dx * dx
	}

	pos := marker.Locate(start, end, distSq)
	assert.InDelta(t, float64(target.X), float64(pos.X), float64(marker.EPSILON))
}
