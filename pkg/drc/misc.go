package drc

import (
	"strings"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/marker"
)

// testDisabledLayer implements spec.md §4.14's first half: any copper-layer
// object placed on a layer the board settings don't enable is reported.
// A board with an empty enabled-layer set hasn't opted into this check.
func testDisabledLayer(b *board.Board, settings board.DesignSettings, reporter *marker.Reporter) {
	if settings.EnabledLayers.Empty() {
		return
	}

	for ti, t := range b.Tracks {
		if isCopperLayer(b, t.Layer) && !settings.EnabledLayers.Has(t.Layer) {
			reporter.Report(marker.Marker{
				Kind: marker.DisabledLayerItem, Position: t.Start,
				Message: "track on disabled layer " + layerName(b, t.Layer),
			})
		}
		_ = ti
	}
	for pi, p := range b.Pads {
		for _, l := range b.Layers {
			if l.Kind != board.LayerKindCopper || !p.Layers.Has(l.ID) || settings.EnabledLayers.Has(l.ID) {
				continue
			}
			reporter.Report(marker.Marker{
				Kind: marker.DisabledLayerItem, Position: p.Position,
				Items:   []marker.Item{{Description: padDesc(b, board.PadRef(pi))}},
				Message: "pad reaches disabled layer " + layerName(b, l.ID),
			})
		}
	}
	for _, g := range b.Graphics {
		if isCopperLayer(b, g.Layer) && !settings.EnabledLayers.Has(g.Layer) {
			reporter.Report(marker.Marker{
				Kind: marker.DisabledLayerItem, Position: g.Start,
				Message: "graphic item on disabled layer " + layerName(b, g.Layer),
			})
		}
	}
	for _, z := range b.Zones {
		if isCopperLayer(b, z.Layer) && !settings.EnabledLayers.Has(z.Layer) {
			reporter.Report(marker.Marker{
				Kind: marker.DisabledLayerItem, Position: zoneRepresentativePoint(z),
				Message: "zone on disabled layer " + layerName(b, z.Layer),
			})
		}
	}
}

// testUnresolvedVariable implements spec.md §4.14's second half: any text
// item whose content still carries a ${...} placeholder after variable
// substitution is reported, since it means the host never resolved it.
func testUnresolvedVariable(b *board.Board, reporter *marker.Reporter) {
	for _, t := range b.Texts {
		if start := strings.Index(t.Content, "${"); start >= 0 && strings.Contains(t.Content[start:], "}") {
			reporter.Report(marker.Marker{
				Kind: marker.UnresolvedVariable, Position: t.Position,
				Message: "text contains an unresolved variable: " + t.Content,
			})
		}
	}
}
