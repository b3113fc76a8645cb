package drc

import (
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/netgraph"
)

// testUnconnected implements spec.md §4.12: one UNCONNECTED_ITEMS marker
// per ratsnest edge, attributing both endpoints.
func testUnconnected(graph *netgraph.Graph, reporter *marker.Reporter) {
	for _, edge := range graph.UnconnectedEdges() {
		reporter.Report(marker.Marker{
			Kind:     marker.UnconnectedItems,
			Position: midpointPos(edge.A.Position, edge.B.Position),
			Message:  "net has unconnected terminals",
			Actual:   netgraph.EdgeLength(edge),
		})
	}
}
