// Package drc is the orchestrator and tester-pass collection spec.md §4
// describes: given a board, design settings, and a rule resolver, it runs
// a fixed sequence of independent testers and reports every violation
// through a marker.Reporter.
package drc

import (
	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/netgraph"
	"github.com/OpenTraceLab/pcbdrc/pkg/netlist"
	"github.com/OpenTraceLab/pcbdrc/pkg/rules"
	"github.com/sirupsen/logrus"
)

// Options mirrors spec.md §4.2's Run options: whether to skip the
// zone-to-zone tester, whether to run the optional track-vs-zone and
// footprint-vs-netlist checks, and a progress callback for long-running
// testers. Marker kinds are dropped only through the settings' ignore set.
type Options struct {
	SkipZones             bool
	DoZonesTest           bool
	CheckFootprintNetlist bool
	Netlist               netlist.Netlist
	Progress              func(done, total int) (continue_ bool)
	ContinueOnAbort       bool
}

// RunResult reports how a run concluded.
type RunResult struct {
	Aborted   bool
	AbortKind marker.Kind
}

// Run executes every tester in the fixed order spec.md §4.2 lists,
// aborting early if the netclass tester fails (downstream results would be
// meaningless), and returns once every tester has reported its markers.
func Run(b *board.Board, settings board.DesignSettings, resolver *rules.Resolver, opts Options, reporter *marker.Reporter) RunResult {
	log := logrus.WithField("component", "drc")

	outline, outlineValid := testOutline(b, reporter)
	if !outlineValid {
		log.Warn("board outline is invalid; edge-clearance tests disabled")
	}

	if !testNetclasses(settings, reporter) {
		log.Error("netclass configuration invalid; aborting run")
		return RunResult{Aborted: true, AbortKind: marker.NetclassBadClearance}
	}

	graph := netgraph.Build(b)

	testPadClearance(b, settings, resolver, outline, outlineValid, reporter)
	testDrills(b, settings, reporter)
	testTracks(b, settings, resolver, outline, outlineValid, b.Zones, opts, graph, reporter)

	if !opts.SkipZones {
		testZoneToZone(b, resolver, reporter)
	}
	testZoneEmptyNet(b, reporter)

	testUnconnected(graph, reporter)
	testKeepouts(b, reporter)
	testCopperGraphic(b, resolver, reporter)
	testCourtyards(b, reporter)

	if opts.CheckFootprintNetlist {
		TestFootprintsAgainstNetlist(b, opts.Netlist, reporter)
	}

	testDisabledLayer(b, settings, reporter)
	testUnresolvedVariable(b, reporter)

	return RunResult{}
}

// objectFor builds a rules.Object for the given net/layer pair, looking up
// the netclass name so the resolver's selector matching can key off it.
func objectFor(settings board.DesignSettings, layerName string, netCode int, isEdge bool) rules.Object {
	name := ""
	if nc, ok := settings.NetclassFor(netCode); ok {
		name = nc.Name
	}
	return rules.Object{LayerName: layerName, NetclassName: name, NetCode: netCode, IsBoardEdge: isEdge}
}

func layerName(b *board.Board, id board.LayerID) string {
	for _, l := range b.Layers {
		if l.ID == id {
			return l.Name
		}
	}
	return ""
}
