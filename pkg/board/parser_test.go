package board

import (
	"strings"
	"testing"
)

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"current version", `(kicad_pcb (version 20230314) (generator pcbnew))`, false},
		{"minimum supported version", `(kicad_pcb (version 20211014))`, false},
		{"missing version", `(kicad_pcb (generator pcbnew))`, true},
		{"too old", `(kicad_pcb (version 20171130))`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if tt.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseLayers(t *testing.T) {
	input := `(kicad_pcb (version 20230314)
		(layers (0 "F.Cu" signal) (31 "B.Cu" signal) (44 "Edge.Cuts" user)))`

	b, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(b.Layers) != 3 {
		t.Fatalf("got %d layers, want 3", len(b.Layers))
	}
	id, ok := b.LayerByName("F.Cu")
	if !ok || id != 0 {
		t.Errorf("F.Cu id = %d, ok=%v, want 0, true", id, ok)
	}
	edgeID, ok := b.LayerByName("Edge.Cuts")
	if !ok {
		t.Fatalf("Edge.Cuts not found")
	}
	for _, l := range b.Layers {
		if l.ID == edgeID && l.Kind != LayerKindEdgeCut {
			t.Errorf("Edge.Cuts kind = %q, want %q", l.Kind, LayerKindEdgeCut)
		}
	}
}

func TestParseNets(t *testing.T) {
	input := `(kicad_pcb (version 20230314)
		(layers (0 "F.Cu" signal))
		(net 0 "")
		(net 1 "GND")
		(net 2 "+5V"))`

	b, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(b.Nets) != 3 {
		t.Fatalf("got %d nets, want 3", len(b.Nets))
	}
	net, ok := b.NetByCode(1)
	if !ok || net.Name != "GND" {
		t.Errorf("net 1 = %+v, ok=%v, want GND", net, ok)
	}
}

func TestParseTrackNanometerConversion(t *testing.T) {
	input := `(kicad_pcb (version 20230314)
		(layers (0 "F.Cu" signal))
		(segment (start 1.0 2.0) (end 3.5 2.0) (width 0.25) (layer "F.Cu") (net 1)))`

	b, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(b.Tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(b.Tracks))
	}
	tr := b.Tracks[0]
	if tr.Start.X != 1_000_000 || tr.Start.Y != 2_000_000 {
		t.Errorf("start = %+v, want (1000000, 2000000)", tr.Start)
	}
	if tr.End.X != 3_500_000 {
		t.Errorf("end.X = %d, want 3500000", tr.End.X)
	}
	if tr.Width != 250_000 {
		t.Errorf("width = %d, want 250000", tr.Width)
	}
	if tr.NetCode != 1 {
		t.Errorf("net code = %d, want 1", tr.NetCode)
	}
}

func TestParseFootprintWithPads(t *testing.T) {
	input := `(kicad_pcb (version 20230314)
		(layers (0 "F.Cu" signal) (31 "B.Cu" signal))
		(footprint "Resistor_SMD:R_0603" (layer "F.Cu") (at 10 20 90)
			(property "Reference" "R1")
			(property "Value" "10k")
			(pad "1" smd rect (at -0.8 0 90) (size 1.0 1.2) (layers "F.Cu"))
			(pad "2" smd rect (at 0.8 0 90) (size 1.0 1.2) (layers "F.Cu") (net 1))))`

	b, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(b.Footprints) != 1 {
		t.Fatalf("got %d footprints, want 1", len(b.Footprints))
	}
	fp := b.Footprints[0]
	if fp.Reference != "R1" || fp.Value != "10k" {
		t.Errorf("fp = %+v, want ref R1 value 10k", fp)
	}
	if len(fp.Pads) != 2 {
		t.Fatalf("got %d pads, want 2", len(fp.Pads))
	}
	pad2 := b.Pad(fp.Pads[1])
	if pad2.NetCode != 1 {
		t.Errorf("pad 2 net = %d, want 1", pad2.NetCode)
	}
	if pad2.Shape != PadRectangle {
		t.Errorf("pad 2 shape = %v, want rectangle", pad2.Shape)
	}
}

func TestParseViaThroughDrill(t *testing.T) {
	input := `(kicad_pcb (version 20230314)
		(layers (0 "F.Cu" signal) (31 "B.Cu" signal))
		(via (at 5 5) (size 0.8) (drill 0.4) (layers "F.Cu" "B.Cu") (net 3)))`

	b, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(b.Vias) != 1 {
		t.Fatalf("got %d vias, want 1", len(b.Vias))
	}
	v := b.Vias[0]
	if v.Kind != ViaThrough {
		t.Errorf("via kind = %v, want through", v.Kind)
	}
	if v.Drill != 400_000 {
		t.Errorf("drill = %d, want 400000", v.Drill)
	}
}

func TestParseZoneKeepout(t *testing.T) {
	input := `(kicad_pcb (version 20230314)
		(layers (0 "F.Cu" signal))
		(zone (layer "F.Cu")
			(keepout (tracks not_allowed) (vias not_allowed) (pads allowed))
			(polygon (pts (xy 0 0) (xy 10 0) (xy 10 10) (xy 0 10)))))`

	b, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(b.Zones) != 1 {
		t.Fatalf("got %d zones, want 1", len(b.Zones))
	}
	z := b.Zones[0]
	if !z.Keepout {
		t.Fatalf("expected keepout zone")
	}
	if !z.KeepoutFlags.Has(KeepoutTracks) || !z.KeepoutFlags.Has(KeepoutVias) {
		t.Errorf("keepout flags = %v, want tracks and vias forbidden", z.KeepoutFlags)
	}
	if z.KeepoutFlags.Has(KeepoutPads) {
		t.Errorf("pads should be allowed, not forbidden")
	}
	if len(z.Outline.Outer) != 4 {
		t.Errorf("got %d outline points, want 4", len(z.Outline.Outer))
	}
}

func TestParseRejectsNonBoardFile(t *testing.T) {
	_, err := Parse(strings.NewReader(`(kicad_sch (version 20230314))`))
	if err == nil {
		t.Fatalf("expected error for non-board root node")
	}
}
