package board

import (
	"fmt"

	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
	"github.com/OpenTraceLab/pcbdrc/pkg/sexp/kicadsexp"
)

// strokeWidth reads the width out of either a modern (stroke (width W)) node
// or the older bare (width W) sibling, in nanometers.
func strokeWidth(node kicadsexp.Sexp) int64 {
	if strokeNode, found := findNode(node, "stroke"); found {
		if widthNode, found := findNode(strokeNode, "width"); found {
			if mm, err := getFloat(widthNode, 1); err == nil {
				return nmFromMM(mm)
			}
		}
	}
	if widthNode, found := findNode(node, "width"); found {
		if mm, err := getFloat(widthNode, 1); err == nil {
			return nmFromMM(mm)
		}
	}
	return 0
}

// parseGraphicCommon parses the shared shell of gr_line/gr_arc/gr_circle/
// gr_poly (and their footprint fp_* counterparts, after the "fp_"/"gr_"
// prefix has been trimmed by the caller).
func parseGraphicCommon(kind string, node kicadsexp.Sexp, lookup layerLookup) (Graphic, error) {
	layerName, _ := layerNameOf(node)
	g := Graphic{
		Layer: resolveLayer(layerName, lookup),
		Width: strokeWidth(node),
		Owner: NoRef,
	}

	switch kind {
	case "line":
		start, err := positionAt(node, "start")
		if err != nil {
			return Graphic{}, err
		}
		end, err := positionAt(node, "end")
		if err != nil {
			return Graphic{}, err
		}
		g.Kind = ShapeSegment
		g.Start, g.End = start, end

	case "arc":
		start, err := positionAt(node, "start")
		if err != nil {
			return Graphic{}, err
		}
		mid, err := positionAt(node, "mid")
		if err != nil {
			end, err2 := positionAt(node, "end")
			if err2 != nil {
				return Graphic{}, err
			}
			ang, _ := getAngle(node, 0)
			g.Kind = ShapeArc
			g.Start, g.End, g.ArcAngle = start, end, ang
			g.Center = arcCenterFromAngle(start, end, ang)
			return g, nil
		}
		end, err := positionAt(node, "end")
		if err != nil {
			return Graphic{}, err
		}
		g.Kind = ShapeArc
		g.Start, g.Center, g.End = start, mid, end

	case "circle":
		center, err := positionAt(node, "center")
		if err != nil {
			return Graphic{}, err
		}
		end, err := positionAt(node, "end")
		if err != nil {
			return Graphic{}, err
		}
		g.Kind = ShapeCircle
		g.Center, g.End = center, end
		g.Radius = distance(center, end)

	case "poly":
		ptsNode, found := findNode(node, "pts")
		if !found {
			return Graphic{}, fmt.Errorf("poly missing 'pts'")
		}
		var outer []Position
		for _, xyNode := range findAllNodes(ptsNode, "xy") {
			x, err := getNM(xyNode, 1)
			if err != nil {
				continue
			}
			y, err := getNM(xyNode, 2)
			if err != nil {
				continue
			}
			outer = append(outer, Position{X: x, Y: y})
		}
		g.Kind = ShapePolygon
		g.Poly = Polygon{Outer: outer}

	default:
		return Graphic{}, fmt.Errorf("unsupported graphic kind %q", kind)
	}

	return g, nil
}

func distance(a, b Position) int64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return geom.Isqrt(dx*dx + dy*dy)
}

// arcCenterFromAngle approximates a center for the legacy (start)(end)(angle)
// arc encoding by returning the midpoint of the start-end chord. The angle
// is not used, so the result is the true center only for a half-circle arc;
// testers only use this as a tessellation seed, not for exact clearance
// math on legacy files.
func arcCenterFromAngle(start, end Position, angle Angle) Position {
	return Position{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
}

// parseGraphics parses the board-level gr_line/gr_arc/gr_circle/gr_poly/gr_text
// items (owner == NoRef, since they aren't attributed to a footprint).
func parseGraphics(root kicadsexp.Sexp, b *Board, lookup layerLookup, owner FootprintRef) error {
	for _, kind := range []string{"line", "arc", "circle", "poly"} {
		for _, node := range findAllNodes(root, "gr_"+kind) {
			g, err := parseGraphicCommon(kind, node, lookup)
			if err != nil {
				continue
			}
			g.Owner = owner
			b.Graphics = append(b.Graphics, g)
		}
	}

	for _, node := range findAllNodes(root, "gr_text") {
		text, err := parseText(node, lookup, owner)
		if err != nil {
			continue
		}
		b.Texts = append(b.Texts, text)
	}

	return nil
}

func parseText(node kicadsexp.Sexp, lookup layerLookup, owner FootprintRef) (Text, error) {
	content, err := getQuotedString(node, 1)
	if err != nil {
		return Text{}, fmt.Errorf("text content: %w", err)
	}

	atNode, found := findNode(node, "at")
	if !found {
		return Text{}, fmt.Errorf("text missing 'at'")
	}
	x, err := getNM(atNode, 1)
	if err != nil {
		return Text{}, err
	}
	y, err := getNM(atNode, 2)
	if err != nil {
		return Text{}, err
	}
	var angle Angle
	if deg, err := getFloat(atNode, 3); err == nil {
		angle = Angle(deg * 10.0)
	}

	layerName, _ := layerNameOf(node)

	text := Text{
		Owner:    owner,
		Layer:    resolveLayer(layerName, lookup),
		Content:  content,
		Position: Position{X: x, Y: y},
		Angle:    angle,
		Visible:  !hasSymbol(node, "hide"),
	}

	if effectsNode, found := findNode(node, "effects"); found {
		if fontNode, found := findNode(effectsNode, "font"); found {
			if thicknessNode, found := findNode(fontNode, "thickness"); found {
				if mm, err := getFloat(thicknessNode, 1); err == nil {
					text.PenWidth = nmFromMM(mm)
				}
			}
		}
	}

	text.Segments, text.Bounds = tessellateText(text)

	return text, nil
}

// tessellateText produces a deterministic stroke polyline and bounding box
// for a text item (spec.md §4.1's text_to_segments), delegating to the
// geometry kernel so board and rule-resolution code share one tessellation.
func tessellateText(t Text) ([]Position, BoundingBox) {
	return geom.TextToSegments(t.Content, t.Position, t.Angle)
}

// parseZones reads (zone ...) forms, including keepout sub-flags.
func parseZones(root kicadsexp.Sexp, b *Board, lookup layerLookup) error {
	for _, node := range findAllNodes(root, "zone") {
		zone, err := parseZone(node, lookup)
		if err != nil {
			continue
		}
		b.Zones = append(b.Zones, zone)
	}
	return nil
}

func parseZone(node kicadsexp.Sexp, lookup layerLookup) (Zone, error) {
	zone := Zone{NetCode: -1}

	if netNode, found := findNode(node, "net"); found {
		if code, err := getInt(netNode, 1); err == nil {
			zone.NetCode = code
		}
	}

	if layerNode, found := findNode(node, "layer"); found {
		name, _ := getQuotedString(layerNode, 1)
		zone.Layer = resolveLayer(name, lookup)
	} else if layersNode, found := findNode(node, "layers"); found {
		items := getListItems(layersNode)
		if len(items) > 0 {
			if sym, ok := items[0].(kicadsexp.Symbol); ok {
				zone.Layer = resolveLayer(sym.Value, lookup)
			}
		}
	}

	if prioNode, found := findNode(node, "priority"); found {
		if p, err := getInt(prioNode, 1); err == nil {
			zone.Priority = p
		}
	}

	if keepoutNode, found := findNode(node, "keepout"); found {
		zone.Keepout = true
		zone.NetCode = 0
		zone.KeepoutFlags = parseKeepoutFlags(keepoutNode)
	}

	polygonNode, found := findNode(node, "polygon")
	if !found {
		return Zone{}, fmt.Errorf("zone missing outline polygon")
	}
	ptsNode, found := findNode(polygonNode, "pts")
	if !found {
		return Zone{}, fmt.Errorf("zone polygon missing points")
	}
	var outer []Position
	for _, xyNode := range findAllNodes(ptsNode, "xy") {
		x, err := getNM(xyNode, 1)
		if err != nil {
			continue
		}
		y, err := getNM(xyNode, 2)
		if err != nil {
			continue
		}
		outer = append(outer, Position{X: x, Y: y})
	}
	zone.Outline = Polygon{Outer: outer}
	zone.Smoothed = zone.Outline

	for _, fillNode := range findAllNodes(node, "filled_polygon") {
		fillPtsNode, found := findNode(fillNode, "pts")
		if !found {
			continue
		}
		var pts []Position
		for _, xyNode := range findAllNodes(fillPtsNode, "xy") {
			x, err := getNM(xyNode, 1)
			if err != nil {
				continue
			}
			y, err := getNM(xyNode, 2)
			if err != nil {
				continue
			}
			pts = append(pts, Position{X: x, Y: y})
		}
		if len(pts) > 0 {
			zone.FilledPolygons = append(zone.FilledPolygons, Polygon{Outer: pts})
		}
	}

	return zone, nil
}

func parseKeepoutFlags(node kicadsexp.Sexp) KeepoutFlags {
	var flags KeepoutFlags
	check := func(key string, bit KeepoutFlags) {
		if n, found := findNode(node, key); found {
			if v, err := getString(n, 1); err == nil && v == "not_allowed" {
				flags |= bit
			}
		}
	}
	check("tracks", KeepoutTracks)
	check("vias", KeepoutVias)
	check("pads", KeepoutPads)
	check("copperpour", KeepoutCopperPour)
	check("footprints", KeepoutFootprints)
	return flags
}
