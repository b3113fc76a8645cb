package drc_test

import (
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/drc"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/rules"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func baseSettings() board.DesignSettings {
	return board.DesignSettings{
		CopperToCopperClearance: 200_000,
		CopperToEdgeClearance:   200_000,
	}
}

func runAll(t *testing.T, b *board.Board, settings board.DesignSettings, opts drc.Options) ([]marker.Marker, drc.RunResult) {
	t.Helper()
	reporter := marker.NewReporter(settings, nil)
	resolver := rules.NewResolver(settings, nil, nil)
	result := drc.Run(b, settings, resolver, opts, reporter)
	return reporter.Markers(), result
}

// S1: two pads on the same layer and net-less, closer than the board
// default clearance, must report exactly one PAD_NEAR_PAD.
func TestScenarioPadNearPad(t *testing.T) {
	b := &board.Board{
		Layers: []board.Layer{{ID: 0, Name: "F.Cu", Kind: board.LayerKindCopper}},
		Pads: []board.Pad{
			{Footprint: board.NoRef, Number: "1", Position: board.Position{X: 0, Y: 0}, Layers: board.NewLayerSet(0), Size: board.Size{W: 100_000, H: 100_000}},
			{Footprint: board.NoRef, Number: "2", Position: board.Position{X: 150_000, Y: 0}, Layers: board.NewLayerSet(0), Size: board.Size{W: 100_000, H: 100_000}},
		},
	}
	markers, result := runAll(t, b, baseSettings(), drc.Options{})

	assert.False(t, result.Aborted)
	count := 0
	for _, m := range markers {
		if m.Kind == marker.PadNearPad {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// S2: an Edge.Cuts outline that doesn't close reports INVALID_OUTLINE at
// the leftmost-topmost discontinuity rather than silently disabling edge
// tests.
func TestScenarioInvalidOutlineReportsLeftmostTopmost(t *testing.T) {
	b := &board.Board{
		Layers: []board.Layer{{ID: 0, Name: "Edge.Cuts", Kind: board.LayerKindEdgeCut}},
		Graphics: []board.Graphic{
			{Kind: board.ShapeSegment, Layer: 0, Start: board.Position{X: 0, Y: 0}, End: board.Position{X: 10_000_000, Y: 0}},
			{Kind: board.ShapeSegment, Layer: 0, Start: board.Position{X: 10_000_000, Y: 0}, End: board.Position{X: 10_000_000, Y: 10_000_000}},
			// missing closing edges back to (0,0): chain doesn't close
		},
	}
	markers, result := runAll(t, b, baseSettings(), drc.Options{})

	assert.False(t, result.Aborted)
	var found *marker.Marker
	for i, m := range markers {
		if m.Kind == marker.InvalidOutline {
			found = &markers[i]
		}
	}
	if assert.NotNil(t, found) {
		assert.Equal(t, board.Position{X: 0, Y: 0}, found.Position)
	}
}

// S4: a duplicate board reference reports DUPLICATE_FOOTPRINT, a netlist
// component absent from the board reports MISSING_FOOTPRINT, and a
// perfectly matched component produces no EXTRA_FOOTPRINT.
func TestScenarioFootprintNetlistMismatch(t *testing.T) {
	b := &board.Board{
		Footprints: []board.Footprint{
			{Reference: "U1"},
			{Reference: "U1"},
			{Reference: "R1"},
		},
	}
	nl := netlistWith("U1", "R1")

	markers, result := runAll(t, b, baseSettings(), drc.Options{CheckFootprintNetlist: true, Netlist: nl})

	assert.False(t, result.Aborted)
	assert.Equal(t, 1, countKind(markers, marker.DuplicateFootprint))
	assert.Equal(t, 0, countKind(markers, marker.MissingFootprint))
	assert.Equal(t, 0, countKind(markers, marker.ExtraFootprint))
}

// S6: an unjoined track endpoint reports DANGLING_TRACK and the net's gap
// reports UNCONNECTED_ITEMS exactly once, with no duplicate.
func TestScenarioDanglingAndUnconnected(t *testing.T) {
	b := &board.Board{
		Layers: []board.Layer{{ID: 0, Name: "F.Cu", Kind: board.LayerKindCopper}},
		Pads: []board.Pad{
			{NetCode: 1, Position: board.Position{X: 0, Y: 0}, Layers: board.NewLayerSet(0), Size: board.Size{W: 50_000, H: 50_000}},
			{NetCode: 1, Position: board.Position{X: 5_000_000, Y: 0}, Layers: board.NewLayerSet(0), Size: board.Size{W: 50_000, H: 50_000}},
		},
		Tracks: []board.Track{
			{NetCode: 1, Layer: 0, Start: board.Position{X: 0, Y: 0}, End: board.Position{X: 4_000_000, Y: 0}, Width: 200_000},
		},
	}
	markers, result := runAll(t, b, baseSettings(), drc.Options{})

	assert.False(t, result.Aborted)
	assert.Equal(t, 1, countKind(markers, marker.DanglingTrack))
	assert.Equal(t, 1, countKind(markers, marker.UnconnectedItems))
}

// Run is pure over its inputs: two runs against the same board produce the
// same marker set (IDs aside), independent of map-iteration order anywhere
// in the engine.
func TestRunIsDeterministic(t *testing.T) {
	boardFor := func() *board.Board {
		return &board.Board{
			Layers: []board.Layer{{ID: 0, Name: "F.Cu", Kind: board.LayerKindCopper}},
			Pads: []board.Pad{
				{Number: "1", Position: board.Position{X: 0, Y: 0}, Layers: board.NewLayerSet(0), Size: board.Size{W: 100_000, H: 100_000}},
				{Number: "2", Position: board.Position{X: 150_000, Y: 0}, Layers: board.NewLayerSet(0), Size: board.Size{W: 100_000, H: 100_000}},
			},
		}
	}
	settings := baseSettings()

	first, _ := runAll(t, boardFor(), settings, drc.Options{})
	second, _ := runAll(t, boardFor(), settings, drc.Options{})

	ignoreID := cmpopts.IgnoreFields(marker.Marker{}, "ID")
	if diff := cmp.Diff(first, second, ignoreID); diff != "" {
		t.Errorf("repeated run diverged (-first +second):\n%s", diff)
	}
}

// S5: a track routed past a copper graphic item that's too close reports
// TRACK_NEAR_COPPER with a marker position within EPSILON of the true
// nearest point on the conflicting item, exercising marker.Locate's
// binary-search property end to end.
func TestScenarioTrackNearCopperLocatesTruePosition(t *testing.T) {
	b := &board.Board{
		Layers: []board.Layer{{ID: 0, Name: "F.Cu", Kind: board.LayerKindCopper}},
		Tracks: []board.Track{
			{Layer: 0, Start: board.Position{X: 0, Y: 0}, End: board.Position{X: 10_000_000, Y: 0}, Width: 200_000},
		},
		Graphics: []board.Graphic{
			{Kind: board.ShapeSegment, Layer: 0, Start: board.Position{X: 5_000_000, Y: 100_000}, End: board.Position{X: 5_000_000, Y: 5_000_000}},
		},
	}
	markers, result := runAll(t, b, baseSettings(), drc.Options{})

	assert.False(t, result.Aborted)
	var found *marker.Marker
	for i, m := range markers {
		if m.Kind == marker.TrackNearCopper {
			found = &markers[i]
		}
	}
	if assert.NotNil(t, found) {
		// the true nearest point on the track to the graphic is (5_000_000, 0)
		dx := found.Position.X - 5_000_000
		dy := found.Position.Y - 0
		distSq := dx*dx + dy*dy
		assert.LessOrEqual(t, distSq, marker.EPSILON*marker.EPSILON)
	}
}

func countKind(markers []marker.Marker, kind marker.Kind) int {
	n := 0
	for _, m := range markers {
		if m.Kind == kind {
			n++
		}
	}
	return n
}
