package drc_test

import (
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/drc"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/stretchr/testify/assert"
)

func square(x0, y0, x1, y1 int64) board.Polygon {
	return board.Polygon{Outer: []board.Position{
		{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
	}}
}

// S3: two same-layer, different-net zones whose outlines pass closer than
// the resolved clearance report ZONES_TOO_CLOSE.
func TestScenarioZonesTooClose(t *testing.T) {
	zoneA := square(0, 0, 5_000_000, 5_000_000)
	zoneB := square(5_050_000, 0, 10_000_000, 5_000_000)

	b := &board.Board{
		Layers: []board.Layer{{ID: 0, Name: "F.Cu", Kind: board.LayerKindCopper}},
		Zones: []board.Zone{
			{Outline: zoneA, Smoothed: zoneA, Layer: 0, NetCode: 1},
			{Outline: zoneB, Smoothed: zoneB, Layer: 0, NetCode: 2},
		},
	}
	settings := baseSettings()
	settings.CopperToCopperClearance = 200_000

	markers, result := runAll(t, b, settings, drc.Options{})

	assert.False(t, result.Aborted)
	assert.Greater(t, countKind(markers, marker.ZonesTooClose), 0)
}

func TestScenarioZonesSkippedWhenSkipZonesSet(t *testing.T) {
	zoneA := square(0, 0, 5_000_000, 5_000_000)
	zoneB := square(5_050_000, 0, 10_000_000, 5_000_000)

	b := &board.Board{
		Layers: []board.Layer{{ID: 0, Name: "F.Cu", Kind: board.LayerKindCopper}},
		Zones: []board.Zone{
			{Outline: zoneA, Smoothed: zoneA, Layer: 0, NetCode: 1},
			{Outline: zoneB, Smoothed: zoneB, Layer: 0, NetCode: 2},
		},
	}
	settings := baseSettings()
	settings.CopperToCopperClearance = 200_000

	markers, _ := runAll(t, b, settings, drc.Options{SkipZones: true})

	assert.Equal(t, 0, countKind(markers, marker.ZonesTooClose))
}

func TestZoneEmptyNetReportedWhenNoPadsOnNet(t *testing.T) {
	zone := square(0, 0, 1_000_000, 1_000_000)
	b := &board.Board{
		Layers: []board.Layer{{ID: 0, Name: "F.Cu", Kind: board.LayerKindCopper}},
		Zones:  []board.Zone{{Outline: zone, Smoothed: zone, Layer: 0, NetCode: 1}},
	}
	markers, _ := runAll(t, b, baseSettings(), drc.Options{})

	assert.Equal(t, 1, countKind(markers, marker.ZoneHasEmptyNet))
}

func TestZoneEmptyNetSkippedOnNonCopperLayer(t *testing.T) {
	zone := square(0, 0, 1_000_000, 1_000_000)
	b := &board.Board{
		Layers: []board.Layer{{ID: 0, Name: "Dwgs.User", Kind: board.LayerKindTechnical}},
		Zones:  []board.Zone{{Outline: zone, Smoothed: zone, Layer: 0, NetCode: 1}},
	}
	markers, _ := runAll(t, b, baseSettings(), drc.Options{})

	assert.Equal(t, 0, countKind(markers, marker.ZoneHasEmptyNet))
}
