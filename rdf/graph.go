package rdf

import "iter"

// Graph is an in-memory set of triples indexed by subject, predicate and
// object. A Graph is not safe for concurrent mutation; concurrent reads are
// safe once writers have finished.
type Graph struct {
	triples     []Triple
	keys        map[string]struct{}
	bySubject   map[string][]int
	byPredicate map[string][]int
	byObject    map[string][]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		keys:        make(map[string]struct{}),
		bySubject:   make(map[string][]int),
		byPredicate: make(map[string][]int),
		byObject:    make(map[string][]int),
	}
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.triples)
}

// Add inserts t and reports whether it was not already present.
func (g *Graph) Add(t Triple) bool {
	key := tripleKey(t)
	if _, ok := g.keys[key]; ok {
		return false
	}
	g.keys[key] = struct{}{}
	idx := len(g.triples)
	g.triples = append(g.triples, t)
	sk, pk, ok := termKey(t.S), termKey(t.P), termKey(t.O)
	g.bySubject[sk] = append(g.bySubject[sk], idx)
	g.byPredicate[pk] = append(g.byPredicate[pk], idx)
	g.byObject[ok] = append(g.byObject[ok], idx)
	return true
}

// Contains reports whether the exact triple is present.
func (g *Graph) Contains(t Triple) bool {
	if g == nil || t.S == nil || t.O == nil {
		return false
	}
	_, ok := g.keys[tripleKey(t)]
	return ok
}

// Merge adds every triple of other accepted by keep (nil keeps all) and
// returns the number of triples added.
func (g *Graph) Merge(other *Graph, keep func(Triple) bool) int {
	if other == nil {
		return 0
	}
	added := 0
	for _, t := range other.triples {
		if keep != nil && !keep(t) {
			continue
		}
		if g.Add(t) {
			added++
		}
	}
	return added
}

// All iterates every triple in insertion order.
func (g *Graph) All() iter.Seq[Triple] {
	return g.Triples(nil, nil, nil)
}

// Triples iterates the triples matching the pattern; nil positions are
// wildcards. The sequence is lazy and may be ranged over repeatedly.
func (g *Graph) Triples(s, p, o Term) iter.Seq[Triple] {
	return func(yield func(Triple) bool) {
		if g == nil {
			return
		}
		candidates, indexed := g.candidates(s, p, o)
		if !indexed {
			for _, t := range g.triples {
				if !yield(t) {
					return
				}
			}
			return
		}
		for _, idx := range candidates {
			t := g.triples[idx]
			if matches(t, s, p, o) && !yield(t) {
				return
			}
		}
	}
}

// Objects iterates objects of triples with the given subject and predicate.
func (g *Graph) Objects(s, p Term) iter.Seq[Term] {
	return func(yield func(Term) bool) {
		for t := range g.Triples(s, p, nil) {
			if !yield(t.O) {
				return
			}
		}
	}
}

// Subjects iterates subjects of triples with the given predicate and object.
func (g *Graph) Subjects(p, o Term) iter.Seq[Term] {
	return func(yield func(Term) bool) {
		for t := range g.Triples(nil, p, o) {
			if !yield(t.S) {
				return
			}
		}
	}
}

// Object returns the first object for subject and predicate.
func (g *Graph) Object(s, p Term) (Term, bool) {
	for o := range g.Objects(s, p) {
		return o, true
	}
	return nil, false
}

// Subject returns the first subject for predicate and object.
func (g *Graph) Subject(p, o Term) (Term, bool) {
	for s := range g.Subjects(p, o) {
		return s, true
	}
	return nil, false
}

// candidates picks the shortest index list among the bound positions.
func (g *Graph) candidates(s, p, o Term) ([]int, bool) {
	var best []int
	indexed := false
	consider := func(index map[string][]int, term Term) {
		if term == nil {
			return
		}
		list := index[termKey(term)]
		if !indexed || len(list) < len(best) {
			best = list
		}
		indexed = true
	}
	consider(g.bySubject, s)
	consider(g.byPredicate, p)
	consider(g.byObject, o)
	return best, indexed
}

func matches(t Triple, s, p, o Term) bool {
	if s != nil && termKey(s) != termKey(t.S) {
		return false
	}
	if p != nil && termKey(p) != termKey(t.P) {
		return false
	}
	if o != nil && termKey(o) != termKey(t.O) {
		return false
	}
	return true
}
