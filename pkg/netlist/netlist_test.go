package netlist_test

import (
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/netlist"
	"github.com/stretchr/testify/assert"
)

func sampleNetlist() netlist.Netlist {
	return netlist.Netlist{Components: []netlist.Component{
		{Reference: "R1", Value: "10k", Pins: []netlist.Pin{
			{Number: "1", Name: "~", Net: "VCC"},
			{Number: "2", Name: "~", Net: "GND"},
		}},
		{Reference: "R2", Value: "1k"},
	}}
}

func TestByReference(t *testing.T) {
	m := sampleNetlist().ByReference()
	assert.Len(t, m, 2)
	assert.Equal(t, "10k", m["R1"].Value)
}

func TestNetOfFound(t *testing.T) {
	net, ok := sampleNetlist().NetOf("R1", "1")
	assert.True(t, ok)
	assert.Equal(t, "VCC", net)
}

func TestNetOfMissing(t *testing.T) {
	_, ok := sampleNetlist().NetOf("R9", "1")
	assert.False(t, ok)
}
