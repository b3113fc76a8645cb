package drc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
	"github.com/OpenTraceLab/pcbdrc/pkg/netlist"
)

// TestFootprintsAgainstNetlist implements spec.md §4.13: compares the
// board's footprints against a netlist fetched from the external
// schematic collaborator. It is a public entry point in its own right
// (spec.md §6's external interface list), not just a Run sub-step.
//
// Reference designators are compared case-insensitively, matching
// CmpNoCase: "U1" and "u1" are the same component. Markers of each kind
// are emitted in sorted order of the upper-cased reference.
func TestFootprintsAgainstNetlist(b *board.Board, nl netlist.Netlist, reporter *marker.Reporter) {
	seen := make(map[string]int)
	display := make(map[string]string)
	for _, fp := range b.Footprints {
		key := strings.ToUpper(fp.Reference)
		seen[key]++
		if _, ok := display[key]; !ok {
			display[key] = fp.Reference
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if count := seen[key]; count > 1 {
			reporter.Report(marker.Marker{
				Kind:    marker.DuplicateFootprint,
				Message: "duplicate reference designator " + display[key] + " appears on " + strconv.Itoa(count) + " footprints",
			})
		}
	}

	schematic := nl.ByReference()
	schematicKeys := make(map[string]string, len(schematic))
	for ref := range schematic {
		schematicKeys[strings.ToUpper(ref)] = ref
	}

	schematicOrder := make([]string, 0, len(schematicKeys))
	for key := range schematicKeys {
		schematicOrder = append(schematicOrder, key)
	}
	sort.Strings(schematicOrder)

	for _, key := range schematicOrder {
		if _, ok := seen[key]; !ok {
			reporter.Report(marker.Marker{Kind: marker.MissingFootprint, Message: "netlist component " + schematicKeys[key] + " has no matching footprint"})
		}
	}
	for _, key := range keys {
		if _, ok := schematicKeys[key]; !ok {
			reporter.Report(marker.Marker{Kind: marker.ExtraFootprint, Message: "board footprint " + display[key] + " absent from netlist"})
		}
	}
}
