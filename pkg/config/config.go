// Package config loads board.DesignSettings from a YAML project file — the
// per-board global clearances, netclass table, and ignore set spec.md §3
// describes abstractly as host-supplied configuration.
package config

import (
	"fmt"
	"os"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"gopkg.in/yaml.v3"
)

// netclassYAML mirrors one entry of the YAML netclasses list.
type netclassYAML struct {
	Name          string  `yaml:"name"`
	Clearance     float64 `yaml:"clearance_mm"`
	TrackWidth    float64 `yaml:"track_width_mm"`
	ViaSize       float64 `yaml:"via_size_mm"`
	ViaDrill      float64 `yaml:"via_drill_mm"`
	MicroViaSize  float64 `yaml:"microvia_size_mm"`
	MicroViaDrill float64 `yaml:"microvia_drill_mm"`
	Nets          []int   `yaml:"nets"`
}

// documentYAML is the on-disk shape of a design-settings file.
type documentYAML struct {
	CopperToCopperClearance float64        `yaml:"copper_to_copper_clearance_mm"`
	CopperToEdgeClearance   float64        `yaml:"copper_to_edge_clearance_mm"`
	MinTrackWidth           float64        `yaml:"min_track_width_mm"`
	MinViaAnnularRing       float64        `yaml:"min_via_annular_ring_mm"`
	MinViaDrill             float64        `yaml:"min_via_drill_mm"`
	MinMicroViaDrill        float64        `yaml:"min_microvia_drill_mm"`
	MinPadDrill             float64        `yaml:"min_pad_drill_mm"`
	MinHoleToHole           float64        `yaml:"min_hole_to_hole_mm"`
	EnabledLayers           []string       `yaml:"enabled_layers"`
	Ignore                  []string       `yaml:"ignore"`
	Netclasses              []netclassYAML `yaml:"netclasses"`
}

// Load reads a YAML design-settings file and builds a board.DesignSettings,
// resolving enabled-layer names against the board's own layer table so the
// returned LayerSet uses the board's actual layer IDs.
func Load(path string, b *board.Board) (board.DesignSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return board.DesignSettings{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var doc documentYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return board.DesignSettings{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	settings := board.DesignSettings{
		CopperToCopperClearance: nmFromMM(doc.CopperToCopperClearance),
		CopperToEdgeClearance:   nmFromMM(doc.CopperToEdgeClearance),
		MinTrackWidth:           nmFromMM(doc.MinTrackWidth),
		MinViaAnnularRing:       nmFromMM(doc.MinViaAnnularRing),
		MinViaDrill:             nmFromMM(doc.MinViaDrill),
		MinMicroViaDrill:        nmFromMM(doc.MinMicroViaDrill),
		MinPadDrill:             nmFromMM(doc.MinPadDrill),
		MinHoleToHole:           nmFromMM(doc.MinHoleToHole),
		Ignored:                 make(map[string]bool, len(doc.Ignore)),
	}

	for _, name := range doc.Ignore {
		settings.Ignored[name] = true
	}

	for _, name := range doc.EnabledLayers {
		if id, ok := b.LayerByName(name); ok {
			settings.EnabledLayers = settings.EnabledLayers.With(id)
		}
	}

	for _, nc := range doc.Netclasses {
		members := make(map[int]bool, len(nc.Nets))
		for _, n := range nc.Nets {
			members[n] = true
		}
		settings.Netclasses = append(settings.Netclasses, board.Netclass{
			Name:          nc.Name,
			Clearance:     nmFromMM(nc.Clearance),
			TrackWidth:    nmFromMM(nc.TrackWidth),
			ViaSize:       nmFromMM(nc.ViaSize),
			ViaDrill:      nmFromMM(nc.ViaDrill),
			MicroViaSize:  nmFromMM(nc.MicroViaSize),
			MicroViaDrill: nmFromMM(nc.MicroViaDrill),
			Members:       members,
		})
	}

	return settings, nil
}

// nmFromMM rounds a millimeter value, as it appears literally in the YAML
// file, to the nearest nanometer, the engine's internal unit.
func nmFromMM(mm float64) int64 {
	if mm >= 0 {
		return int64(mm*1e6 + 0.5)
	}
	return int64(mm*1e6 - 0.5)
}
