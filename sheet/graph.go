package sheet

import (
	"sort"

	"github.com/zephyrtronium/cellcalc"
)

// graph records which cells refer to which. Only cells with formulas that
// contain references appear in it.
type graph struct {
	// precedents maps a cell to the cells its formula refers to.
	precedents map[cellcalc.Ref]map[cellcalc.Ref]struct{}
	// dependents maps a cell to the cells whose formulas refer to it.
	dependents map[cellcalc.Ref]map[cellcalc.Ref]struct{}
}

func newGraph() *graph {
	return &graph{
		precedents: make(map[cellcalc.Ref]map[cellcalc.Ref]struct{}),
		dependents: make(map[cellcalc.Ref]map[cellcalc.Ref]struct{}),
	}
}

// set replaces the precedents of a cell. A nil refs removes the cell's
// precedents, but cells that refer to it keep their edges.
func (g *graph) set(from cellcalc.Ref, refs []cellcalc.Ref) {
	for to := range g.precedents[from] {
		deps := g.dependents[to]
		delete(deps, from)
		if len(deps) == 0 {
			delete(g.dependents, to)
		}
	}
	delete(g.precedents, from)
	if len(refs) == 0 {
		return
	}
	p := make(map[cellcalc.Ref]struct{}, len(refs))
	for _, to := range refs {
		p[to] = struct{}{}
		if g.dependents[to] == nil {
			g.dependents[to] = make(map[cellcalc.Ref]struct{})
		}
		g.dependents[to][from] = struct{}{}
	}
	g.precedents[from] = p
}

// directPrecedents returns the cells that ref's formula refers to.
func (g *graph) directPrecedents(ref cellcalc.Ref) []cellcalc.Ref {
	p := g.precedents[ref]
	if len(p) == 0 {
		return nil
	}
	r := make([]cellcalc.Ref, 0, len(p))
	for to := range p {
		r = append(r, to)
	}
	sortRefs(r)
	return r
}

// allDependents returns every cell affected by a change to ref, i.e. the
// transitive closure of its dependents. ref itself is included only if it is
// on a cycle.
func (g *graph) allDependents(ref cellcalc.Ref) []cellcalc.Ref {
	visited := make(map[cellcalc.Ref]struct{})
	var r []cellcalc.Ref
	g.collect(ref, visited, &r)
	sortRefs(r)
	return r
}

func (g *graph) collect(ref cellcalc.Ref, visited map[cellcalc.Ref]struct{}, r *[]cellcalc.Ref) {
	for dep := range g.dependents[ref] {
		if _, ok := visited[dep]; ok {
			continue
		}
		visited[dep] = struct{}{}
		*r = append(*r, dep)
		g.collect(dep, visited, r)
	}
}

// size returns the number of cells with precedents.
func (g *graph) size() int {
	return len(g.precedents)
}

func sortRefs(refs []cellcalc.Ref) {
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
}
