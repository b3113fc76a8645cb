package board

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/pcbdrc/pkg/sexp/kicadsexp"
)

var padShapeNames = map[string]PadShape{
	"circle":    PadRound,
	"rect":      PadRectangle,
	"oval":      PadOval,
	"roundrect": PadRoundedRect,
	"trapezoid": PadTrapezoid,
	"custom":    PadCustomPolygon,
}

func parsePad(node kicadsexp.Sexp, fpRef FootprintRef) (Pad, error) {
	if node == nil || node.IsLeaf() {
		return Pad{}, fmt.Errorf("expected pad list")
	}

	number, err := getQuotedString(node, 1)
	if err != nil {
		return Pad{}, fmt.Errorf("pad number: %w", err)
	}

	shapeName, err := getString(node, 3)
	if err != nil {
		return Pad{}, fmt.Errorf("pad shape: %w", err)
	}
	shape, ok := padShapeNames[shapeName]
	if !ok {
		shape = PadCustomPolygon
	}

	atNode, found := findNode(node, "at")
	if !found {
		return Pad{}, fmt.Errorf("pad missing 'at'")
	}
	x, err := getNM(atNode, 1)
	if err != nil {
		return Pad{}, fmt.Errorf("pad X: %w", err)
	}
	y, err := getNM(atNode, 2)
	if err != nil {
		return Pad{}, fmt.Errorf("pad Y: %w", err)
	}
	var angle Angle
	if deg, err := getFloat(atNode, 3); err == nil {
		angle = Angle(deg * 10.0)
	}

	sizeNode, found := findNode(node, "size")
	if !found {
		return Pad{}, fmt.Errorf("pad missing 'size'")
	}
	w, err := getFloat(sizeNode, 1)
	if err != nil {
		return Pad{}, fmt.Errorf("pad width: %w", err)
	}
	h, err := getFloat(sizeNode, 2)
	if err != nil {
		return Pad{}, fmt.Errorf("pad height: %w", err)
	}

	pad := Pad{
		Footprint: fpRef,
		Number:    number,
		Position:  Position{X: x, Y: y},
		Angle:     angle,
		Shape:     shape,
		Size:      Size{W: nmFromMM(w), H: nmFromMM(h)},
	}

	if drillNode, found := findNode(node, "drill"); found {
		if hasSymbol(drillNode, "oval") {
			pad.DrillShape = DrillOblong
			dw, _ := getFloat(drillNode, 2)
			dh, _ := getFloat(drillNode, 3)
			pad.Drill = Size{W: nmFromMM(dw), H: nmFromMM(dh)}
		} else if d, err := getFloat(drillNode, 1); err == nil {
			pad.DrillShape = DrillRound
			pad.Drill = Size{W: nmFromMM(d), H: nmFromMM(d)}
		}
	}

	if netNode, found := findNode(node, "net"); found {
		if code, err := getInt(netNode, 1); err == nil {
			pad.NetCode = code
		}
	}

	return pad, nil
}

func parsePadLayers(node kicadsexp.Sexp, lookup layerLookup) LayerSet {
	layersNode, found := findNode(node, "layers")
	if !found {
		return 0
	}
	var set LayerSet
	for _, item := range getListItems(layersNode) {
		sym, ok := item.(kicadsexp.Symbol)
		if !ok {
			continue
		}
		name := sym.Value
		if strings.Contains(name, "*") {
			// Wildcards like "*.Cu" match every copper layer; resolve eagerly
			// since the DRC engine only reasons about concrete layer IDs.
			suffix := strings.TrimPrefix(name, "*")
			for layerName, id := range lookup {
				if strings.HasSuffix(layerName, suffix) {
					set = set.With(id)
				}
			}
			continue
		}
		if id, ok := lookup[name]; ok {
			set = set.With(id)
		}
	}
	return set
}

func parseFootprint(node kicadsexp.Sexp, b *Board, lookup layerLookup) error {
	if node == nil || node.IsLeaf() {
		return fmt.Errorf("expected footprint list")
	}

	fp := Footprint{}

	if layerNode, found := findNode(node, "layer"); found {
		name, _ := getQuotedString(layerNode, 1)
		fp.Layer = resolveLayer(name, lookup)
	}

	atNode, found := findNode(node, "at")
	if !found {
		return fmt.Errorf("footprint missing 'at'")
	}
	x, err := getNM(atNode, 1)
	if err != nil {
		return fmt.Errorf("footprint X: %w", err)
	}
	y, err := getNM(atNode, 2)
	if err != nil {
		return fmt.Errorf("footprint Y: %w", err)
	}
	fp.Position = Position{X: x, Y: y}
	if deg, err := getFloat(atNode, 3); err == nil {
		fp.Angle = Angle(deg * 10.0)
	}

	for _, propNode := range findAllNodes(node, "property") {
		name, err := getQuotedString(propNode, 1)
		if err != nil {
			continue
		}
		value, err := getQuotedString(propNode, 2)
		if err != nil {
			continue
		}
		switch name {
		case "Reference":
			fp.Reference = value
		case "Value":
			fp.Value = value
		}
	}

	fp.NetTie = hasNetTieAttribute(node)

	fpRef := FootprintRef(len(b.Footprints))

	for _, padNode := range findAllNodes(node, "pad") {
		pad, err := parsePad(padNode, fpRef)
		if err != nil {
			continue
		}
		pad.Layers = parsePadLayers(padNode, lookup)
		b.Pads = append(b.Pads, pad)
		fp.Pads = append(fp.Pads, PadRef(len(b.Pads)-1))
	}

	courtyardLayerNames := map[string]bool{"F.CrtYd": true, "B.CrtYd": true}
	for _, kind := range []string{"fp_line", "fp_arc", "fp_circle", "fp_poly"} {
		for _, gNode := range findAllNodes(node, kind) {
			layerName, _ := layerNameOf(gNode)
			g, err := parseFootprintGraphic(kind, gNode, lookup, fpRef)
			if err != nil {
				continue
			}
			if courtyardLayerNames[layerName] && g.Kind == ShapePolygon {
				fp.Courtyard = g.Poly
				continue
			}
			b.Graphics = append(b.Graphics, g)
			fp.Graphics = append(fp.Graphics, GraphicRef(len(b.Graphics)-1))
		}
	}

	b.Footprints = append(b.Footprints, fp)
	return nil
}

func hasNetTieAttribute(node kicadsexp.Sexp) bool {
	if _, found := findNode(node, "net_tie_pad_groups"); found {
		return true
	}
	attrNode, found := findNode(node, "attr")
	if !found {
		return false
	}
	return hasSymbol(attrNode, "net_tie")
}

func layerNameOf(node kicadsexp.Sexp) (string, bool) {
	layerNode, found := findNode(node, "layer")
	if !found {
		return "", false
	}
	name, err := getQuotedString(layerNode, 1)
	if err != nil {
		return "", false
	}
	return name, true
}

// parseFootprintGraphic parses fp_line/fp_arc/fp_circle/fp_poly the same way
// parseGraphic parses their board-level gr_* counterparts.
func parseFootprintGraphic(kind string, node kicadsexp.Sexp, lookup layerLookup, owner FootprintRef) (Graphic, error) {
	g, err := parseGraphicCommon(strings.TrimPrefix(kind, "fp_"), node, lookup)
	if err != nil {
		return Graphic{}, err
	}
	g.Owner = owner
	return g, nil
}

func parseFootprints(root kicadsexp.Sexp, b *Board, lookup layerLookup) error {
	for _, node := range findAllNodes(root, "footprint") {
		if err := parseFootprint(node, b, lookup); err != nil {
			continue
		}
	}
	return nil
}
