package drc_test

import (
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/drc"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/netlist"
	"github.com/stretchr/testify/assert"
)

func netlistWith(refs ...string) netlist.Netlist {
	nl := netlist.Netlist{}
	for _, r := range refs {
		nl.Components = append(nl.Components, netlist.Component{Reference: r})
	}
	return nl
}

func TestFootprintsAgainstNetlistReportsExtra(t *testing.T) {
	b := &board.Board{Footprints: []board.Footprint{{Reference: "U1"}, {Reference: "U2"}}}
	nl := netlistWith("U1")

	reporter := marker.NewReporter(board.DesignSettings{}, nil)
	drc.TestFootprintsAgainstNetlist(b, nl, reporter)

	assert.Equal(t, 1, countKind(reporter.Markers(), marker.ExtraFootprint))
	assert.Equal(t, 0, countKind(reporter.Markers(), marker.MissingFootprint))
}

func TestFootprintsAgainstNetlistReportsMissing(t *testing.T) {
	b := &board.Board{Footprints: []board.Footprint{{Reference: "U1"}}}
	nl := netlistWith("U1", "U2")

	reporter := marker.NewReporter(board.DesignSettings{}, nil)
	drc.TestFootprintsAgainstNetlist(b, nl, reporter)

	assert.Equal(t, 1, countKind(reporter.Markers(), marker.MissingFootprint))
}

func TestFootprintsAgainstNetlistDuplicateIsCaseInsensitive(t *testing.T) {
	b := &board.Board{Footprints: []board.Footprint{{Reference: "U1"}, {Reference: "u1"}}}
	nl := netlistWith("U1")

	reporter := marker.NewReporter(board.DesignSettings{}, nil)
	drc.TestFootprintsAgainstNetlist(b, nl, reporter)

	assert.Equal(t, 1, countKind(reporter.Markers(), marker.DuplicateFootprint))
}

func TestFootprintsAgainstNetlistMatchedProducesNothing(t *testing.T) {
	b := &board.Board{Footprints: []board.Footprint{{Reference: "U1"}}}
	nl := netlistWith("U1")

	reporter := marker.NewReporter(board.DesignSettings{}, nil)
	drc.TestFootprintsAgainstNetlist(b, nl, reporter)

	assert.Empty(t, reporter.Markers())
}
