package rules_test

import (
	"testing"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/rules"
	"github.com/stretchr/testify/assert"
)

func baseSettings() board.DesignSettings {
	return board.DesignSettings{
		CopperToCopperClearance: 200_000,
		CopperToEdgeClearance:   300_000,
		Netclasses: []board.Netclass{
			{Name: "Power", Clearance: 500_000, Members: map[int]bool{1: true}},
			{Name: "Signal", Clearance: 150_000, Members: map[int]bool{2: true}},
		},
	}
}

func TestResolveFallsBackToBoardDefault(t *testing.T) {
	r := rules.NewResolver(baseSettings(), nil, nil)

	clearance, label := r.Resolve(rules.Object{NetCode: 9}, rules.Object{NetCode: 10})
	assert.Equal(t, int64(200_000), clearance)
	assert.Equal(t, "board default", label)
}

func TestResolveUsesEdgeClearance(t *testing.T) {
	r := rules.NewResolver(baseSettings(), nil, nil)

	clearance, label := r.Resolve(rules.Object{IsBoardEdge: true}, rules.Object{NetCode: 5})
	assert.Equal(t, int64(300_000), clearance)
	assert.Equal(t, "board default (edge)", label)
}

func TestResolveUsesSharedNetclass(t *testing.T) {
	r := rules.NewResolver(baseSettings(), nil, nil)

	clearance, label := r.Resolve(rules.Object{NetCode: 1}, rules.Object{NetCode: 1})
	assert.Equal(t, int64(500_000), clearance)
	assert.Equal(t, "netclass 'Power'", label)
}

func TestResolveUsesLargerOfTwoNetclassesWhenNetsDiffer(t *testing.T) {
	r := rules.NewResolver(baseSettings(), nil, nil)

	clearance, label := r.Resolve(rules.Object{NetCode: 1}, rules.Object{NetCode: 2})
	assert.Equal(t, int64(500_000), clearance)
	assert.Equal(t, "netclass 'Power'", label)
}

func TestResolveUserRuleOutranksNetclass(t *testing.T) {
	selectors := []rules.Selector{{MatchNetclass: "Power", RuleName: "strict"}}
	parsed := []rules.Rule{{Name: "strict", HasClearance: true, MinClearance: 900_000}}
	r := rules.NewResolver(baseSettings(), selectors, parsed)

	clearance, label := r.Resolve(rules.Object{NetCode: 1, NetclassName: "Power"}, rules.Object{NetCode: 1, NetclassName: "Power"})
	assert.Equal(t, int64(900_000), clearance)
	assert.Equal(t, "user rule 'strict'", label)
}

func TestResolveFileOrderTiebreak(t *testing.T) {
	selectors := []rules.Selector{
		{MatchLayer: "F.Cu", RuleName: "first"},
		{MatchLayer: "F.Cu", RuleName: "second"},
	}
	parsed := []rules.Rule{
		{Name: "first", HasClearance: true, MinClearance: 111},
		{Name: "second", HasClearance: true, MinClearance: 222},
	}
	r := rules.NewResolver(baseSettings(), selectors, parsed)

	clearance, label := r.Resolve(rules.Object{LayerName: "F.Cu"}, rules.Object{LayerName: "F.Cu"})
	assert.Equal(t, int64(111), clearance)
	assert.Equal(t, "user rule 'first'", label)
}
