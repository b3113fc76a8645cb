package netlist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/netlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesComponentsAndPins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.netlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
components:
  - reference: U1
    value: ATmega328
    pins:
      - number: "1"
        name: RESET
        net: /RESET
  - reference: R1
    value: 10k
`), 0o644))

	nl, err := netlist.Load(path)
	require.NoError(t, err)

	require.Len(t, nl.Components, 2)
	assert.Equal(t, "U1", nl.Components[0].Reference)
	net, ok := nl.NetOf("U1", "1")
	assert.True(t, ok)
	assert.Equal(t, "/RESET", net)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := netlist.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
