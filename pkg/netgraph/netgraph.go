// Package netgraph is the connectivity service spec.md §3/§4.7/§4.12
// describes: given a board, it answers "is this endpoint dangling?",
// "enumerate unconnected ratsnest edges", and "how many pads does net N
// have?" — the testers consume it as a read-only service built once per
// run, never mutated by them.
package netgraph

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/pcbdrc/pkg/board"
	"github.com/OpenTraceLab/pcbdrc/pkg/geom"
)

// TerminalKind tags which board arena a Terminal was derived from.
type TerminalKind int

const (
	TerminalPad TerminalKind = iota
	TerminalTrackStart
	TerminalTrackEnd
	TerminalVia
)

// Terminal is one electrical contact point: a pad, a track endpoint, or a via.
type Terminal struct {
	Kind     TerminalKind
	Pad      board.PadRef
	Track    board.TrackRef
	Via      board.ViaRef
	Position board.Position
	NetCode  int
}

func (t Terminal) posKey() string {
	return fmt.Sprintf("%d:%d", t.Position.X, t.Position.Y)
}

// Graph is a union-find over every terminal on the board, unioned by exact
// position coincidence within the same declared net and along each track
// from its start to its end — the geometric
// equivalent of the source's live connectivity walk (spec.md §3's
// connectivity graph), rebuilt once per run (spec.md §5).
type Graph struct {
	Terminals []Terminal
	parent    []int
	rank      []int
}

// Build enumerates every pad, track endpoint, and via on the board as a
// terminal, unions same-net terminals that share an exact position, and
// joins each track's two endpoints (the track conducts between them),
// mirroring the teacher's pinKey/union-find shape in
// pkg/reveng/netlist.go, repurposed from JTAG pin-toggle discovery to
// static board geometry.
func Build(b *board.Board) *Graph {
	g := &Graph{}

	for i := range b.Pads {
		p := b.Pads[i]
		g.Terminals = append(g.Terminals, Terminal{
			Kind: TerminalPad, Pad: board.PadRef(i),
			Position: p.Position, NetCode: p.NetCode,
		})
	}
	for i := range b.Tracks {
		tr := b.Tracks[i]
		g.Terminals = append(g.Terminals,
			Terminal{Kind: TerminalTrackStart, Track: board.TrackRef(i), Position: tr.Start, NetCode: tr.NetCode},
			Terminal{Kind: TerminalTrackEnd, Track: board.TrackRef(i), Position: tr.End, NetCode: tr.NetCode},
		)
	}
	for i := range b.Vias {
		v := b.Vias[i]
		g.Terminals = append(g.Terminals, Terminal{
			Kind: TerminalVia, Via: board.ViaRef(i),
			Position: v.Position, NetCode: v.NetCode,
		})
	}

	n := len(g.Terminals)
	g.parent = make([]int, n)
	g.rank = make([]int, n)
	for i := range g.parent {
		g.parent[i] = i
	}

	byNetPos := make(map[int]map[string][]int)
	for i, t := range g.Terminals {
		if t.NetCode <= 0 {
			continue
		}
		if byNetPos[t.NetCode] == nil {
			byNetPos[t.NetCode] = make(map[string][]int)
		}
		key := t.posKey()
		byNetPos[t.NetCode][key] = append(byNetPos[t.NetCode][key], i)
	}
	for _, byPos := range byNetPos {
		for _, idxs := range byPos {
			for i := 1; i < len(idxs); i++ {
				g.union(idxs[0], idxs[i])
			}
		}
	}
	for i := range b.Tracks {
		start := len(b.Pads) + 2*i
		g.union(start, start+1)
	}

	return g
}

func (g *Graph) find(i int) int {
	root := i
	for g.parent[root] != root {
		root = g.parent[root]
	}
	for i != root {
		next := g.parent[i]
		g.parent[i] = root
		i = next
	}
	return root
}

func (g *Graph) union(a, b int) {
	ra, rb := g.find(a), g.find(b)
	if ra == rb {
		return
	}
	if g.rank[ra] < g.rank[rb] {
		ra, rb = rb, ra
	}
	g.parent[rb] = ra
	if g.rank[ra] == g.rank[rb] {
		g.rank[ra]++
	}
}

// PadCountForNet returns how many pad terminals belong to the given net code.
func (g *Graph) PadCountForNet(netCode int) int {
	n := 0
	for _, t := range g.Terminals {
		if t.Kind == TerminalPad && t.NetCode == netCode {
			n++
		}
	}
	return n
}

// IsDangling reports whether the track-endpoint or via terminal at index i
// touches no other terminal of its own net at its exact position — spec.md
// GLOSSARY's "topologically attached to the net but geometrically unjoined".
func (g *Graph) IsDangling(i int) bool {
	t := g.Terminals[i]
	if t.Kind == TerminalPad || t.NetCode <= 0 {
		return false
	}
	for j, o := range g.Terminals {
		if j != i && o.NetCode == t.NetCode && o.Position == t.Position {
			return false
		}
	}
	return true
}

// Edge is a ratsnest edge: two terminals that share a net but whose
// components are not electrically joined.
type Edge struct {
	A, B Terminal
}

// UnconnectedEdges groups terminals by net, and for every net whose
// terminals span more than one connected component, returns the minimum-
// spanning-forest of edges across those components (spec.md GLOSSARY's
// "Ratsnest": the minimum-spanning-forest visualization of missing
// connections). Components are represented by their first terminal.
func (g *Graph) UnconnectedEdges() []Edge {
	byNet := make(map[int][]int)
	for i, t := range g.Terminals {
		if t.NetCode > 0 {
			byNet[t.NetCode] = append(byNet[t.NetCode], i)
		}
	}

	nets := make([]int, 0, len(byNet))
	for net := range byNet {
		nets = append(nets, net)
	}
	sort.Ints(nets)

	var edges []Edge
	for _, net := range nets {
		idxs := byNet[net]
		reps := representativesOf(g, idxs)
		if len(reps) < 2 {
			continue
		}
		edges = append(edges, minimumSpanningForest(g.Terminals, reps)...)
	}
	return edges
}

// representativesOf returns one terminal index per distinct connected
// component among idxs, in deterministic (index) order.
func representativesOf(g *Graph, idxs []int) []int {
	seen := make(map[int]bool)
	var reps []int
	for _, i := range idxs {
		root := g.find(i)
		if !seen[root] {
			seen[root] = true
			reps = append(reps, i)
		}
	}
	return reps
}

// minimumSpanningForest runs Kruskal's algorithm over the squared-distance-
// weighted complete graph on reps, using a dedicated union-find scoped to
// just these representative terminals (standard library sort only, per
// DESIGN.md: no pack library packages bare union-find/MST standalone).
func minimumSpanningForest(terminals []Terminal, reps []int) []Edge {
	type candidate struct {
		i, j int
		dsq  int64
	}
	var candidates []candidate
	for i := 0; i < len(reps); i++ {
		for j := i + 1; j < len(reps); j++ {
			a, b := terminals[reps[i]].Position, terminals[reps[j]].Position
			dx, dy := a.X-b.X, a.Y-b.Y
			candidates = append(candidates, candidate{i, j, dx*dx + dy*dy})
		}
	}
	sort.Slice(candidates, func(x, y int) bool { return candidates[x].dsq < candidates[y].dsq })

	parent := make([]int, len(reps))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			x = parent[x]
		}
		return x
	}

	var edges []Edge
	joined := 0
	for _, c := range candidates {
		ri, rj := find(c.i), find(c.j)
		if ri == rj {
			continue
		}
		parent[ri] = rj
		edges = append(edges, Edge{A: terminals[reps[c.i]], B: terminals[reps[c.j]]})
		joined++
		if joined == len(reps)-1 {
			break
		}
	}
	return edges
}

// EdgeLength returns the integer length of a ratsnest edge, used by testers
// that report the edge's span in their marker message.
func EdgeLength(e Edge) int64 {
	dx, dy := e.A.Position.X-e.B.Position.X, e.A.Position.Y-e.B.Position.Y
	return geom.Isqrt(dx*dx + dy*dy)
}
