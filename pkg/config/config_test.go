package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "design-settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadBasicClearances(t *testing.T) {
	path := writeConfig(t, `
copper_to_copper_clearance_mm: 0.2
copper_to_edge_clearance_mm: 0.3
min_track_width_mm: 0.15
ignore:
  - DISABLED_LAYER_ITEM
`)

	b := &board.Board{}
	settings, err := config.Load(path, b)
	require.NoError(t, err)

	assert.Equal(t, int64(200_000), settings.CopperToCopperClearance)
	assert.Equal(t, int64(300_000), settings.CopperToEdgeClearance)
	assert.True(t, settings.IsIgnored("DISABLED_LAYER_ITEM"))
	assert.False(t, settings.IsIgnored("PAD_NEAR_PAD"))
}

func TestLoadNetclasses(t *testing.T) {
	path := writeConfig(t, `
netclasses:
  - name: Power
    clearance_mm: 0.5
    nets: [1, 2]
  - name: Signal
    clearance_mm: 0.15
    nets: [3]
`)

	b := &board.Board{}
	settings, err := config.Load(path, b)
	require.NoError(t, err)
	require.Len(t, settings.Netclasses, 2)

	nc, ok := settings.NetclassFor(1)
	require.True(t, ok)
	assert.Equal(t, "Power", nc.Name)
	assert.Equal(t, int64(500_000), nc.Clearance)
}

func TestLoadEnabledLayersResolvesAgainstBoard(t *testing.T) {
	path := writeConfig(t, `
enabled_layers: [F.Cu, B.Cu]
`)

	b := &board.Board{Layers: []board.Layer{
		{ID: 0, Name: "F.Cu"},
		{ID: 1, Name: "B.Cu"},
		{ID: 2, Name: "Edge.Cuts"},
	}}
	settings, err := config.Load(path, b)
	require.NoError(t, err)

	assert.True(t, settings.EnabledLayers.Has(0))
	assert.True(t, settings.EnabledLayers.Has(1))
	assert.False(t, settings.EnabledLayers.Has(2))
}

func TestLoadMissingFileErrors(t *testing.T) {
	b := &board.Board{}
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), b)
	assert.Error(t, err)
}
