// Package netlist models the minimal contract the DRC engine needs from an
// external schematic collaborator (spec.md §1: "fetch an authoritative
// netlist from a schematic source" is a host responsibility; this package
// only defines the shape of what comes back).
package netlist

// Pin is one schematic pin of a component.
type Pin struct {
	Number string
	Name   string
	Net    string
}

// Component is one schematic-side entry: a reference designator, a value,
// and its pins. The footprint-vs-netlist tester only needs the reference
// designator and pin list; Value is carried for message text.
type Component struct {
	Reference string
	Value     string
	Pins      []Pin
}

// Netlist is the flat list of schematic components the footprint-vs-netlist
// tester (spec.md §4.13) compares against the board's footprints.
type Netlist struct {
	Components []Component
}

// ByReference indexes components by reference designator. Duplicate
// references collapse to the last occurrence; the footprint-vs-netlist
// tester detects board-side duplicates independently by scanning the board,
// so a duplicate schematic reference is not this package's concern.
func (n Netlist) ByReference() map[string]Component {
	m := make(map[string]Component, len(n.Components))
	for _, c := range n.Components {
		m[c.Reference] = c
	}
	return m
}

// NetOf returns the net name attached to the given pin of the given
// reference designator, or ok=false if either is absent.
func (n Netlist) NetOf(reference, pinNumber string) (string, bool) {
	for _, c := range n.Components {
		if c.Reference != reference {
			continue
		}
		for _, p := range c.Pins {
			if p.Number == pinNumber {
				return p.Net, true
			}
		}
	}
	return "", false
}
