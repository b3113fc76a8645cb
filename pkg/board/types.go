// Package board is the read-only board data model a DRC run operates on: a
// flat arena of tracks, pads, footprints, zones and graphics, addressed by
// stable integer indices rather than pointers so that cyclic references
// (pad -> footprint -> pads) don't require an owning-pointer story.
package board

import (
	"fmt"

	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
)

// Position, Angle, Size, BoundingBox and Polygon are the geometry kernel's
// primitives (spec.md §2's "leaves first" architecture: geometry kernel
// below board model); the board package uses them directly rather than
// keeping a parallel copy.
type (
	Position    = geom.Position
	Angle       = geom.Angle
	Size        = geom.Size
	BoundingBox = geom.BoundingBox
	Polygon     = geom.Polygon
)

// NewBoundingBox returns an empty (inverted) bounding box ready for Expand.
func NewBoundingBox() BoundingBox { return geom.NewBoundingBox() }

// LayerID identifies a board layer by ordinal.
type LayerID int

// Well-known layer kinds, mirroring the copper/technical split spec.md §3 names.
const (
	LayerKindCopper = "copper"
	LayerKindEdgeCut = "edge_cut"
	LayerKindTechnical = "technical"
)

// Layer is one named layer of the stackup.
type Layer struct {
	ID   LayerID
	Name string
	Kind string // LayerKindCopper, LayerKindEdgeCut, LayerKindTechnical
}

// LayerSet is a bitset over layer IDs. Layer IDs below 64 are supported
// directly; boards in this domain never approach that many layers.
type LayerSet uint64

// NewLayerSet builds a LayerSet from the given layer IDs.
func NewLayerSet(ids ...LayerID) LayerSet {
	var s LayerSet
	for _, id := range ids {
		s = s.With(id)
	}
	return s
}

// With returns the set with id added.
func (s LayerSet) With(id LayerID) LayerSet {
	if id < 0 || id >= 64 {
		return s
	}
	return s | (1 << uint(id))
}

// Has reports whether id is a member.
func (s LayerSet) Has(id LayerID) bool {
	if id < 0 || id >= 64 {
		return false
	}
	return s&(1<<uint(id)) != 0
}

// Intersects reports whether the two sets share any layer.
func (s LayerSet) Intersects(other LayerSet) bool {
	return s&other != 0
}

// Empty reports whether the set has no members.
func (s LayerSet) Empty() bool { return s == 0 }

// Net is an electrical equivalence class. Code 0 means unconnected;
// negative codes mark invalid/orphaned nets per spec.md §3.
type Net struct {
	Code int
	Name string
}

// PadShape enumerates the pad outline kinds spec.md §3 lists.
type PadShape int

const (
	PadRound PadShape = iota
	PadRectangle
	PadOval
	PadRoundedRect
	PadTrapezoid
	PadCustomPolygon
)

func (s PadShape) String() string {
	switch s {
	case PadRound:
		return "round"
	case PadRectangle:
		return "rectangle"
	case PadOval:
		return "oval"
	case PadRoundedRect:
		return "rounded-rect"
	case PadTrapezoid:
		return "trapezoid"
	case PadCustomPolygon:
		return "custom polygon"
	default:
		return fmt.Sprintf("PadShape(%d)", int(s))
	}
}

// DrillShape enumerates the hole shapes a pad or via may carry.
type DrillShape int

const (
	DrillNone DrillShape = iota
	DrillRound
	DrillOblong
)

// TrackKind distinguishes a plain wire segment from a via.
type TrackKind int

const (
	TrackWire TrackKind = iota
	TrackVia
)

// ViaKind enumerates via drill topologies.
type ViaKind int

const (
	ViaThrough ViaKind = iota
	ViaBlind
	ViaMicro
)

// KeepoutFlags is a bitmask of object kinds a keepout zone forbids.
type KeepoutFlags int

const (
	KeepoutTracks KeepoutFlags = 1 << iota
	KeepoutVias
	KeepoutPads
	KeepoutCopperPour
	KeepoutFootprints
)

func (f KeepoutFlags) Has(bit KeepoutFlags) bool { return f&bit != 0 }

// UUID is an opaque object identity carried through from the source file,
// independent of the object's arena index (which is only stable within a run).
type UUID string
