package board

import "github.com/OpenTraceLab/pcbdrc/pkg/geom"

// Stable index references into a Board's arenas (spec.md §9: "arena + stable
// indices" in place of owning pointers, so pads and footprints can refer to
// each other without a pointer cycle).
type (
	PadRef       int
	FootprintRef int
	TrackRef     int
	ViaRef       int
	ZoneRef      int
	GraphicRef   int
	TextRef      int
)

// NoRef is the sentinel (-1) meaning "no reference" for optional ref fields
// (e.g. a pad not yet assigned to a footprint during incremental construction).
const NoRef = -1

// ShapeKind tags the outline kind of a Graphic item, replacing the source's
// dynamic_cast dispatch over a BOARD_ITEM/DRAWSEGMENT class hierarchy
// (spec.md §9) with a plain enum switch.
type ShapeKind int

const (
	ShapeSegment ShapeKind = iota
	ShapeArc
	ShapeCircle
	ShapeBezier
	ShapePolygon
)

// Footprint is a placed component: a reference designator, a position, and
// the pads/graphics/courtyard that belong to it.
type Footprint struct {
	Reference string
	Value     string
	Position  Position
	Angle     Angle
	Layer     LayerID
	Pads      []PadRef
	Graphics  []GraphicRef
	Texts     []TextRef
	Courtyard Polygon // empty Outer means "no courtyard defined"
	NetTie    bool
}

// Pad is a footprint terminal.
type Pad struct {
	Footprint  FootprintRef
	Number     string
	Position   Position
	Angle      Angle
	Layers     LayerSet
	Shape      PadShape
	Size       Size
	DrillShape DrillShape
	Drill      Size // W used alone for round drills
	NetCode    int
}

// IsThroughHole reports whether the pad has a drill present on every copper
// layer it's defined on (spec.md §4.5's "drilled hole on every copper layer").
func (p Pad) IsThroughHole() bool {
	return p.DrillShape != DrillNone && p.Drill.W > 0
}

// OuterRadius returns the bounding-circle radius of the pad's outline,
// used by the pad-clearance sweep to size its window (spec.md §4.5 step 2).
func (p Pad) OuterRadius() int64 {
	w, h := p.Size.W, p.Size.H
	// bounding circle of a w x h rectangle centered at the pad position
	return geom.Isqrt(w*w+h*h) / 2
}

// Track is a copper wire segment or, when Kind == TrackVia, a via shaft
// (vias also appear in the dedicated Vias arena with their own fields;
// Track here models the two-terminal wire spec.md §3 describes).
type Track struct {
	Start, End Position
	Width      int64
	Layer      LayerID
	NetCode    int
	Kind       TrackKind
	Locked     bool
}

// Via is a plated interlayer connection.
type Via struct {
	Position   Position
	Size       int64
	Drill      int64
	LayerTop   LayerID
	LayerBot   LayerID
	Kind       ViaKind
	NetCode    int
	Locked     bool
}

// Zone is a filled copper region or a keepout area.
type Zone struct {
	Outline        Polygon
	Smoothed       Polygon // corner-smoothed cache, precomputed once per run
	Layer          LayerID
	NetCode        int
	Priority       int
	Keepout        bool
	KeepoutFlags   KeepoutFlags
	FilledPolygons []Polygon // pre-filled cache, never recomputed by the engine
}

// Graphic is a tagged-variant shape item on any layer (spec.md §9's
// "Shape = Segment | Arc | Circle | Curve | Polygon" replacing dynamic_cast).
type Graphic struct {
	Kind   ShapeKind
	Layer  LayerID
	Width  int64
	Owner  FootprintRef // NoRef if board-level (not attributed to a footprint)

	// Segment / Arc
	Start, End, Center Position
	// Arc sweep, in tenths of a degree
	ArcAngle Angle
	// Circle
	Radius int64
	// Bezier
	Controls []Position
	// Polygon
	Poly Polygon
}

// Text is a text item with its tessellated outline already computed
// (spec.md §3's "polyline segment list produced by text-shape tessellation").
type Text struct {
	Owner      FootprintRef
	Layer      LayerID
	Content    string
	Position   Position
	Angle      Angle
	PenWidth   int64
	Visible    bool
	Bounds     BoundingBox
	Segments   []Position // tessellated stroke polyline, consumed pairwise
}

// Netclass groups nets sharing physical design constraints.
type Netclass struct {
	Name             string
	Clearance        int64
	TrackWidth       int64
	ViaSize          int64
	ViaDrill         int64
	MicroViaSize     int64
	MicroViaDrill    int64
	Members          map[int]bool // net codes
}

// DesignSettings is the per-board configuration aggregate spec.md §3
// describes and spec.md §9 calls for as an explicit DrcContext field rather
// than a process-wide singleton.
type DesignSettings struct {
	CopperToCopperClearance int64
	CopperToEdgeClearance   int64
	MinTrackWidth           int64
	MinViaAnnularRing       int64
	MinViaDrill             int64
	MinMicroViaDrill        int64
	MinPadDrill             int64
	MinHoleToHole           int64

	Netclasses []Netclass
	Ignored    map[string]bool // error-kind name -> ignored

	EnabledLayers LayerSet
}

// IsIgnored reports whether markers of the given kind should be dropped.
func (d DesignSettings) IsIgnored(kind string) bool {
	return d.Ignored != nil && d.Ignored[kind]
}

// NetclassFor returns the netclass governing netCode, or ok=false if none
// of the configured netclasses claim it.
func (d DesignSettings) NetclassFor(netCode int) (Netclass, bool) {
	for _, nc := range d.Netclasses {
		if nc.Members[netCode] {
			return nc, true
		}
	}
	return Netclass{}, false
}

// Board is the flat, read-only object arena a DRC run operates on.
type Board struct {
	Layers     []Layer
	Nets       []Net
	Footprints []Footprint
	Pads       []Pad
	Tracks     []Track
	Vias       []Via
	Zones      []Zone
	Graphics   []Graphic
	Texts      []Text
}

// LayerByName returns a layer's ID by name, or ok=false.
func (b *Board) LayerByName(name string) (LayerID, bool) {
	for _, l := range b.Layers {
		if l.Name == name {
			return l.ID, true
		}
	}
	return 0, false
}

// NetByCode returns the Net with the given code, or ok=false.
func (b *Board) NetByCode(code int) (Net, bool) {
	for _, n := range b.Nets {
		if n.Code == code {
			return n, true
		}
	}
	return Net{}, false
}

// PadCountForNet returns how many pads carry the given positive net code.
func (b *Board) PadCountForNet(code int) int {
	n := 0
	for _, p := range b.Pads {
		if p.NetCode == code {
			n++
		}
	}
	return n
}

// Footprint dereferences a FootprintRef.
func (b *Board) Footprint(r FootprintRef) *Footprint { return &b.Footprints[r] }

// Pad dereferences a PadRef.
func (b *Board) Pad(r PadRef) *Pad { return &b.Pads[r] }
