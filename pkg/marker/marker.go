// Package marker is the violation model and append-only sink the DRC engine
// reports through (spec.md §4.16): the engine never mutates the board, it
// only ever appends markers to a commit supplied by the host.
package marker

import (
	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/google/uuid"
)

// Kind is one of the stable error-kind identifiers spec.md §6 lists, used
// both in ignore lists and in marker messages.
type Kind string

const (
	InvalidOutline        Kind = "INVALID_OUTLINE"
	TrackNearEdge          Kind = "TRACK_NEAR_EDGE"
	ViaNearEdge            Kind = "VIA_NEAR_EDGE"
	PadNearEdge            Kind = "PAD_NEAR_EDGE"
	PadNearPad             Kind = "PAD_NEAR_PAD"
	HoleNearPad            Kind = "HOLE_NEAR_PAD"
	DrilledHolesTooClose   Kind = "DRILLED_HOLES_TOO_CLOSE"
	TooSmallPadDrill       Kind = "TOO_SMALL_PAD_DRILL"
	TooSmallViaDrill       Kind = "TOO_SMALL_VIA_DRILL"
	TooSmallMicroviaDrill  Kind = "TOO_SMALL_MICROVIA_DRILL"
	TrackNearTrack         Kind = "TRACK_NEAR_TRACK"
	TrackNearPad           Kind = "TRACK_NEAR_PAD"
	ZonesIntersect         Kind = "ZONES_INTERSECT"
	ZonesTooClose          Kind = "ZONES_TOO_CLOSE"
	ZoneHasEmptyNet        Kind = "ZONE_HAS_EMPTY_NET"
	UnconnectedItems       Kind = "UNCONNECTED_ITEMS"
	DanglingTrack          Kind = "DANGLING_TRACK"
	DanglingVia            Kind = "DANGLING_VIA"
	TrackNearCopper        Kind = "TRACK_NEAR_COPPER"
	ViaNearCopper          Kind = "VIA_NEAR_COPPER"
	PadNearCopper          Kind = "PAD_NEAR_COPPER"
	KeepoutTrack           Kind = "KEEPOUT_TRACK"
	KeepoutVia             Kind = "KEEPOUT_VIA"
	KeepoutPad             Kind = "KEEPOUT_PAD"
	KeepoutFootprint       Kind = "KEEPOUT_FOOTPRINT"
	OverlappingFootprints  Kind = "OVERLAPPING_FOOTPRINTS"
	MissingCourtyard       Kind = "MISSING_COURTYARD"
	MalformedCourtyard     Kind = "MALFORMED_COURTYARD"
	PTHInCourtyard         Kind = "PTH_IN_COURTYARD"
	NPTHInCourtyard        Kind = "NPTH_IN_COURTYARD"
	DuplicateFootprint     Kind = "DUPLICATE_FOOTPRINT"
	MissingFootprint       Kind = "MISSING_FOOTPRINT"
	ExtraFootprint         Kind = "EXTRA_FOOTPRINT"
	DisabledLayerItem      Kind = "DISABLED_LAYER_ITEM"
	UnresolvedVariable     Kind = "UNRESOLVED_VARIABLE"
	NetclassBadTrackWidth  Kind = "NETCLASS_TRACK_WIDTH"
	NetclassBadViaSize     Kind = "NETCLASS_VIA_SIZE"
	NetclassBadViaDrill    Kind = "NETCLASS_VIA_DRILL"
	NetclassBadMicroDrill  Kind = "NETCLASS_MICROVIA_DRILL"
	NetclassBadClearance   Kind = "NETCLASS_CLEARANCE"
)

// Item is one object reference a marker points at, identified loosely
// enough to cover every arena (pad, track, via, zone, graphic, footprint).
type Item struct {
	Description string // human-readable, e.g. "pad 3 of U1" or "track on F.Cu"
}

// Marker is a single reported violation.
type Marker struct {
	ID       uuid.UUID
	Kind     Kind
	Items    []Item
	Message  string
	Position board.Position
	Required int64 // required clearance, 0 if not a clearance violation
	Actual   int64 // actual measured value, 0 if not a clearance violation
}

// Reporter is the callback sink testers emit markers through. The engine
// never mutates the board directly (spec.md §1 Non-goals); a Reporter is
// the only write path out of a tester.
type Reporter struct {
	ignored map[Kind]bool
	sink    func(Marker)
	markers []Marker
}

// NewReporter builds a reporter that records markers in-memory and forwards
// each one (after the ignore filter) to sink, if non-nil.
func NewReporter(settings board.DesignSettings, sink func(Marker)) *Reporter {
	ignored := make(map[Kind]bool, len(settings.Ignored))
	for name, v := range settings.Ignored {
		if v {
			ignored[Kind(name)] = true
		}
	}
	return &Reporter{ignored: ignored, sink: sink}
}

// Report appends m to the collected marker set unless its kind is ignored,
// mirroring the teacher's addMarkerToPcb ignore-at-sink pattern: a tester
// never needs to consult the ignore set itself.
func (r *Reporter) Report(m Marker) {
	if r.ignored[m.Kind] {
		return
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.markers = append(r.markers, m)
	if r.sink != nil {
		r.sink(m)
	}
}

// Markers returns every marker collected so far, in emission order.
func (r *Reporter) Markers() []Marker {
	return r.markers
}

// Count returns how many markers of the given kind have been collected.
func (r *Reporter) Count(kind Kind) int {
	n := 0
	for _, m := range r.markers {
		if m.Kind == kind {
			n++
		}
	}
	return n
}
