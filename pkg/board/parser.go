package board

import (
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/pcbdrc/pkg/sexp/kicadsexp"
)

// MinSupportedVersion is the oldest board-file format version this parser accepts.
const MinSupportedVersion = 20211014

// ParseFile reads and parses a board file from disk.
func ParseFile(filename string) (*Board, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open board file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a board description from r. The grammar is the same
// s-expression board-file format the teacher's parser targeted; this
// version resolves every coordinate to the engine's integer board units
// and builds the arena-indexed object graph spec.md §9 calls for, instead
// of a pointer-linked, float-millimeter tree.
func Parse(r io.Reader) (*Board, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse s-expression: %w", err)
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty board file")
	}

	root := sexps[0]
	name, err := getNodeName(root)
	if err != nil {
		return nil, fmt.Errorf("read root node: %w", err)
	}
	if name != "kicad_pcb" {
		return nil, fmt.Errorf("not a board file: expected 'kicad_pcb', got %q", name)
	}

	if err := checkVersion(root); err != nil {
		return nil, err
	}

	b := &Board{}

	layerIndex, err := parseLayers(root, b)
	if err != nil {
		return nil, fmt.Errorf("parse layers: %w", err)
	}

	if err := parseNets(root, b); err != nil {
		return nil, fmt.Errorf("parse nets: %w", err)
	}

	if err := parseGraphics(root, b, layerIndex, NoRef); err != nil {
		return nil, fmt.Errorf("parse graphics: %w", err)
	}

	if err := parseTracks(root, b, layerIndex); err != nil {
		return nil, fmt.Errorf("parse tracks: %w", err)
	}

	if err := parseVias(root, b, layerIndex); err != nil {
		return nil, fmt.Errorf("parse vias: %w", err)
	}

	if err := parseFootprints(root, b, layerIndex); err != nil {
		return nil, fmt.Errorf("parse footprints: %w", err)
	}

	if err := parseZones(root, b, layerIndex); err != nil {
		return nil, fmt.Errorf("parse zones: %w", err)
	}

	return b, nil
}

func checkVersion(root kicadsexp.Sexp) error {
	versionNode, found := findNode(root, "version")
	if !found {
		return fmt.Errorf("missing required 'version' field")
	}
	ver, err := getInt(versionNode, 1)
	if err != nil {
		return fmt.Errorf("parse version: %w", err)
	}
	if ver < MinSupportedVersion {
		return fmt.Errorf("unsupported board format version %d (minimum %d)", ver, MinSupportedVersion)
	}
	return nil
}

// layerLookup maps a layer name to its resolved LayerID.
type layerLookup map[string]LayerID

func layerKindFor(fileType string, name string) string {
	if name == "Edge.Cuts" {
		return LayerKindEdgeCut
	}
	switch fileType {
	case "signal", "power", "mixed":
		return LayerKindCopper
	default:
		return LayerKindTechnical
	}
}

// parseLayers reads (layers (0 "F.Cu" signal) ...).
func parseLayers(root kicadsexp.Sexp, b *Board) (layerLookup, error) {
	lookup := layerLookup{}

	layersNode, found := findNode(root, "layers")
	if !found {
		return lookup, nil
	}

	for _, item := range getListItems(layersNode) {
		if item == nil || item.IsLeaf() {
			continue
		}
		num, err := getInt(item, 0)
		if err != nil {
			continue
		}
		name, err := getQuotedString(item, 1)
		if err != nil {
			continue
		}
		fileType, _ := getString(item, 2)

		layer := Layer{
			ID:   LayerID(num),
			Name: name,
			Kind: layerKindFor(fileType, name),
		}
		b.Layers = append(b.Layers, layer)
		lookup[name] = layer.ID
	}

	return lookup, nil
}

// parseNets reads top-level (net <code> "<name>") forms.
func parseNets(root kicadsexp.Sexp, b *Board) error {
	for _, node := range findAllNodes(root, "net") {
		code, err := getInt(node, 1)
		if err != nil {
			continue
		}
		name, _ := getQuotedString(node, 2)
		b.Nets = append(b.Nets, Net{Code: code, Name: name})
	}
	return nil
}

func resolveLayer(name string, lookup layerLookup) LayerID {
	if id, ok := lookup[name]; ok {
		return id
	}
	return -1
}

func netCodeAt(node kicadsexp.Sexp) int {
	if netNode, found := findNode(node, "net"); found {
		if code, err := getInt(netNode, 1); err == nil {
			return code
		}
	}
	return 0
}

// parseTracks reads top-level (segment ...) copper wire forms; (arc ...)
// track forms are not read.
func parseTracks(root kicadsexp.Sexp, b *Board, lookup layerLookup) error {
	for _, node := range findAllNodes(root, "segment") {
		start, err := positionAt(node, "start")
		if err != nil {
			continue
		}
		end, err := positionAt(node, "end")
		if err != nil {
			continue
		}
		width, _ := floatNode(node, "width")
		layerName, _ := findNode(node, "layer")
		layer := resolveLayer(nodeFirstString(layerName), lookup)

		b.Tracks = append(b.Tracks, Track{
			Start:   start,
			End:     end,
			Width:   nmFromMM(width),
			Layer:   layer,
			NetCode: netCodeAt(node),
			Kind:    TrackWire,
		})
	}
	return nil
}

// parseVias reads top-level (via ...) forms.
func parseVias(root kicadsexp.Sexp, b *Board, lookup layerLookup) error {
	for _, node := range findAllNodes(root, "via") {
		atNode, found := findNode(node, "at")
		if !found {
			continue
		}
		x, err1 := getNM(atNode, 1)
		y, err2 := getNM(atNode, 2)
		if err1 != nil || err2 != nil {
			continue
		}
		size, _ := floatNode(node, "size")
		drill, _ := floatNode(node, "drill")

		kind := ViaThrough
		if hasSymbol(node, "blind") {
			kind = ViaBlind
		} else if hasSymbol(node, "micro") {
			kind = ViaMicro
		}

		top, bot := LayerID(-1), LayerID(-1)
		if layersNode, found := findNode(node, "layers"); found {
			items := getListItems(layersNode)
			if len(items) >= 1 {
				if sym, ok := items[0].(kicadsexp.Symbol); ok {
					top = resolveLayer(sym.Value, lookup)
				}
			}
			if len(items) >= 2 {
				if sym, ok := items[1].(kicadsexp.Symbol); ok {
					bot = resolveLayer(sym.Value, lookup)
				}
			}
		}

		b.Vias = append(b.Vias, Via{
			Position: Position{X: x, Y: y},
			Size:     nmFromMM(size),
			Drill:    nmFromMM(drill),
			LayerTop: top,
			LayerBot: bot,
			Kind:     kind,
			NetCode:  netCodeAt(node),
		})
	}
	return nil
}

// positionAt reads a (<key> X Y) child node's coordinates in nanometers.
func positionAt(node kicadsexp.Sexp, key string) (Position, error) {
	child, found := findNode(node, key)
	if !found {
		return Position{}, fmt.Errorf("missing %q", key)
	}
	x, err := getNM(child, 1)
	if err != nil {
		return Position{}, err
	}
	y, err := getNM(child, 2)
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

// floatNode reads the first argument of a (<key> value) child node.
func floatNode(node kicadsexp.Sexp, key string) (float64, error) {
	child, found := findNode(node, key)
	if !found {
		return 0, fmt.Errorf("missing %q", key)
	}
	return getFloat(child, 1)
}

func nodeFirstString(node kicadsexp.Sexp) string {
	if node == nil {
		return ""
	}
	s, _ := getString(node, 1)
	return s
}
