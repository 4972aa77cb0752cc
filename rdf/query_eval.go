package rdf

import (
	"context"
	"sort"
	"strings"
)

// Evaluate runs the query against g. Initial bindings pre-bind variables;
// keys may be written with or without the leading '?'.
func (q *Query) Evaluate(ctx context.Context, g *Graph, bindings map[string]Term) (*QueryResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	initial := make(Solution, len(bindings))
	for name, term := range bindings {
		if term != nil {
			initial[strings.TrimLeft(name, "?$")] = term
		}
	}
	solutions, err := evalGroup(ctx, g, q.where, []Solution{initial})
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Form: q.Form}
	if q.Form == QueryAsk {
		result.Boolean = len(solutions) > 0
		return result, nil
	}

	if len(q.orderBy) > 0 {
		sort.SliceStable(solutions, func(i, j int) bool {
			return q.less(solutions[i], solutions[j])
		})
	}
	result.Variables = q.Variables
	projected := make([]Solution, 0, len(solutions))
	seen := make(map[string]struct{})
	for _, sol := range solutions {
		row := make(Solution, len(q.Variables))
		for _, name := range q.Variables {
			if term, ok := sol[name]; ok {
				row[name] = term
			}
		}
		if q.Distinct {
			key := solutionKey(row, q.Variables)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		projected = append(projected, row)
	}
	if q.offset > 0 {
		if q.offset >= len(projected) {
			projected = projected[:0]
		} else {
			projected = projected[q.offset:]
		}
	}
	if q.limit >= 0 && q.limit < len(projected) {
		projected = projected[:q.limit]
	}
	result.Solutions = projected
	return result, nil
}

func evalGroup(ctx context.Context, g *Graph, grp *groupPattern, input []Solution) ([]Solution, error) {
	solutions := input
	for _, el := range grp.elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch {
		case el.triple != nil:
			solutions = matchPattern(g, *el.triple, solutions)
		case el.optional != nil:
			var joined []Solution
			for _, sol := range solutions {
				extended, err := evalGroup(ctx, g, el.optional, []Solution{sol})
				if err != nil {
					return nil, err
				}
				if len(extended) == 0 {
					joined = append(joined, sol)
					continue
				}
				joined = append(joined, extended...)
			}
			solutions = joined
		case el.group != nil:
			var err error
			if solutions, err = evalGroup(ctx, g, el.group, solutions); err != nil {
				return nil, err
			}
		}
	}
	if len(grp.filters) == 0 {
		return solutions, nil
	}
	kept := solutions[:0:0]
	for _, sol := range solutions {
		if passes(grp.filters, sol) {
			kept = append(kept, sol)
		}
	}
	return kept, nil
}

func passes(filters []expr, sol Solution) bool {
	for _, f := range filters {
		value, err := f.eval(sol)
		if err != nil {
			return false
		}
		ok, err := effectiveBoolean(value)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func matchPattern(g *Graph, tp triplePattern, input []Solution) []Solution {
	var out []Solution
	for _, sol := range input {
		s, p, o := tp.s.bound(sol), tp.p.bound(sol), tp.o.bound(sol)
		if p != nil && p.Kind() != TermIRI {
			continue
		}
		for t := range g.Triples(s, p, o) {
			next, ok := extend(sol, tp.s, t.S)
			if !ok {
				continue
			}
			if next, ok = extend(next, tp.p, t.P); !ok {
				continue
			}
			if next, ok = extend(next, tp.o, t.O); !ok {
				continue
			}
			out = append(out, next)
		}
	}
	return out
}

// bound returns the concrete term for a pattern position, or nil when the
// position is an unbound variable.
func (pt patternTerm) bound(sol Solution) Term {
	if pt.variable == "" {
		return pt.term
	}
	return sol[pt.variable]
}

// extend binds pt's variable to value, copying sol on first write. It fails
// when the variable is already bound to a different term.
func extend(sol Solution, pt patternTerm, value Term) (Solution, bool) {
	if pt.variable == "" {
		return sol, true
	}
	if existing, ok := sol[pt.variable]; ok {
		return sol, Equal(existing, value)
	}
	next := make(Solution, len(sol)+1)
	for k, v := range sol {
		next[k] = v
	}
	next[pt.variable] = value
	return next, true
}

func (q *Query) less(a, b Solution) bool {
	for _, key := range q.orderBy {
		left, _ := key.expr.eval(a)
		right, _ := key.expr.eval(b)
		c := orderCompare(left, right)
		if c == 0 {
			continue
		}
		if key.desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// orderCompare orders unbound < blank nodes < IRIs < literals.
func orderCompare(a, b Term) int {
	rank := func(t Term) int {
		if t == nil {
			return 0
		}
		switch t.Kind() {
		case TermBlankNode:
			return 1
		case TermIRI:
			return 2
		default:
			return 3
		}
	}
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra - rb
	}
	if a == nil {
		return 0
	}
	la, aok := a.(Literal)
	lb, bok := b.(Literal)
	if aok && bok {
		if x, xok := numericValue(la); xok {
			if y, yok := numericValue(lb); yok {
				switch {
				case x < y:
					return -1
				case x > y:
					return 1
				default:
					return 0
				}
			}
		}
		return strings.Compare(la.Lexical, lb.Lexical)
	}
	return strings.Compare(a.String(), b.String())
}

func solutionKey(sol Solution, vars []string) string {
	var b strings.Builder
	for _, name := range vars {
		if term, ok := sol[name]; ok {
			b.WriteString(termKey(term))
		}
		b.WriteByte(0x1f)
	}
	return b.String()
}
