package rules

import (
	"fmt"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
)

// Object is the minimal view of a board entity the resolver needs to match
// selectors and look up netclasses — testers build one per side of a pair
// from whatever concrete item (pad, track, zone...) they're comparing.
type Object struct {
	LayerName    string
	NetclassName string
	NetCode      int
	IsBoardEdge  bool
}

// Resolver holds a parsed rule set plus the board's design settings, and
// answers clearance queries for object pairs (spec.md §4.15).
type Resolver struct {
	Settings  board.DesignSettings
	Selectors []Selector
	Rules     []Rule
}

// NewResolver builds a resolver over an already-loaded rule set.
func NewResolver(settings board.DesignSettings, selectors []Selector, rules []Rule) *Resolver {
	return &Resolver{Settings: settings, Selectors: selectors, Rules: rules}
}

func (r *Resolver) ruleByName(name string) (Rule, bool) {
	for _, rule := range r.Rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return Rule{}, false
}

// Resolve returns the minimum required clearance between a and b and a
// human-readable label naming where it came from, trying (in order) a
// matching user rule, the objects' netclass, the board default, and the
// board-edge clearance.
func (r *Resolver) Resolve(a, b Object) (int64, string) {
	for _, sel := range r.Selectors {
		if !sel.matchesPair(a, b) {
			continue
		}
		rule, ok := r.ruleByName(sel.RuleName)
		if !ok || !rule.HasClearance {
			continue
		}
		return rule.MinClearance, fmt.Sprintf("user rule '%s'", rule.Name)
	}

	if clearance, label, ok := r.netclassClearance(a, b); ok {
		return clearance, label
	}

	if a.IsBoardEdge || b.IsBoardEdge {
		return r.Settings.CopperToEdgeClearance, "board default (edge)"
	}

	return r.Settings.CopperToCopperClearance, "board default"
}

func (r *Resolver) netclassClearance(a, b Object) (int64, string, bool) {
	if a.NetCode > 0 && a.NetCode == b.NetCode {
		if nc, ok := r.Settings.NetclassFor(a.NetCode); ok {
			return nc.Clearance, fmt.Sprintf("netclass '%s'", nc.Name), true
		}
		return 0, "", false
	}

	ncA, okA := r.Settings.NetclassFor(a.NetCode)
	ncB, okB := r.Settings.NetclassFor(b.NetCode)
	switch {
	case okA && okB:
		if ncA.Clearance >= ncB.Clearance {
			return ncA.Clearance, fmt.Sprintf("netclass '%s'", ncA.Name), true
		}
		return ncB.Clearance, fmt.Sprintf("netclass '%s'", ncB.Name), true
	case okA:
		return ncA.Clearance, fmt.Sprintf("netclass '%s'", ncA.Name), true
	case okB:
		return ncB.Clearance, fmt.Sprintf("netclass '%s'", ncB.Name), true
	default:
		return 0, "", false
	}
}
