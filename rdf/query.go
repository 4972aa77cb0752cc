package rdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const formatSPARQL Format = "sparql"

// QueryForm distinguishes the supported query forms.
type QueryForm int

const (
	// QueryAsk yields a boolean.
	QueryAsk QueryForm = iota + 1
	// QuerySelect yields an ordered list of solutions.
	QuerySelect
)

func (f QueryForm) String() string {
	switch f {
	case QueryAsk:
		return "ASK"
	case QuerySelect:
		return "SELECT"
	default:
		return "UNKNOWN"
	}
}

// Solution maps variable names, without the leading '?', to bound terms.
type Solution map[string]Term

// QueryResult holds the answer to an ASK or SELECT query.
type QueryResult struct {
	Form      QueryForm
	Boolean   bool
	Variables []string
	Solutions []Solution
}

// Query is a parsed ASK or SELECT query over the default graph.
type Query struct {
	Form      QueryForm
	Distinct  bool
	Variables []string

	where   *groupPattern
	orderBy []orderKey
	limit   int
	offset  int
}

type patternTerm struct {
	variable string
	term     Term
}

type triplePattern struct {
	s, p, o patternTerm
}

type patternElement struct {
	triple   *triplePattern
	optional *groupPattern
	group    *groupPattern
}

type groupPattern struct {
	elements []patternElement
	filters  []expr
}

type orderKey struct {
	expr expr
	desc bool
}

// ParseQuery parses the supported SPARQL subset. CONSTRUCT and DESCRIBE
// queries fail with ErrUnsupportedQueryForm.
func ParseQuery(text string) (*Query, error) {
	p := &queryParser{
		tokenStream: newTokenStream(text, formatSPARQL),
		prefixes:    make(map[string]string),
		seen:        make(map[string]bool),
	}
	return p.query()
}

// Query parses text and evaluates it against g.
func (g *Graph) Query(ctx context.Context, text string, bindings map[string]Term) (*QueryResult, error) {
	q, err := ParseQuery(text)
	if err != nil {
		return nil, err
	}
	return q.Evaluate(ctx, g, bindings)
}

type queryParser struct {
	*tokenStream
	base     string
	prefixes map[string]string
	vars     []string
	seen     map[string]bool
	hidden   int
}

func (p *queryParser) query() (*Query, error) {
	if err := p.prologue(); err != nil {
		return nil, err
	}
	q := &Query{limit: -1}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	star := false
	switch {
	case isKeyword(tok, "SELECT"):
		q.Form = QuerySelect
		if star, err = p.projection(q); err != nil {
			return nil, err
		}
	case isKeyword(tok, "ASK"):
		q.Form = QueryAsk
	case isKeyword(tok, "CONSTRUCT"), isKeyword(tok, "DESCRIBE"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedQueryForm, strings.ToUpper(tok.text))
	default:
		return nil, p.unexpected(tok, "SELECT or ASK")
	}

	tok, err = p.peek()
	if err != nil {
		return nil, err
	}
	if isKeyword(tok, "WHERE") {
		p.has = false
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	if q.where, err = p.group(); err != nil {
		return nil, err
	}
	if err := p.modifiers(q); err != nil {
		return nil, err
	}
	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokEOF {
		return nil, p.unexpected(tok, "end of query")
	}
	if star {
		for _, name := range p.vars {
			if !strings.HasPrefix(name, "_") {
				q.Variables = append(q.Variables, name)
			}
		}
	}
	return q, nil
}

func (p *queryParser) prologue() error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		switch {
		case isKeyword(tok, "PREFIX"):
			p.has = false
			name, err := p.next()
			if err != nil {
				return err
			}
			if name.kind != tokPName || name.local != "" {
				return p.unexpected(name, "prefix name")
			}
			iri, err := p.next()
			if err != nil {
				return err
			}
			if iri.kind != tokIRI {
				return p.unexpected(iri, "IRI")
			}
			p.prefixes[name.prefix] = resolveIRI(p.base, iri.text)
		case isKeyword(tok, "BASE"):
			p.has = false
			iri, err := p.next()
			if err != nil {
				return err
			}
			if iri.kind != tokIRI {
				return p.unexpected(iri, "IRI")
			}
			p.base = resolveIRI(p.base, iri.text)
		default:
			return nil
		}
	}
}

func (p *queryParser) projection(q *Query) (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}
	if isKeyword(tok, "DISTINCT") || isKeyword(tok, "REDUCED") {
		p.has = false
		q.Distinct = isKeyword(tok, "DISTINCT")
	}
	star, err := p.acceptPunct("*")
	if err != nil || star {
		return star, err
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return false, err
		}
		if tok.kind != tokVar {
			break
		}
		p.has = false
		q.Variables = append(q.Variables, tok.text)
	}
	if len(q.Variables) == 0 {
		return false, p.unexpected(tok, "projection variables")
	}
	return false, nil
}

// group parses the body of a group graph pattern after its opening brace.
func (p *queryParser) group() (*groupPattern, error) {
	grp := &groupPattern{}
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch {
		case isPunct(tok, "}"):
			p.has = false
			return grp, nil
		case isPunct(tok, "."):
			p.has = false
		case isKeyword(tok, "OPTIONAL"):
			p.has = false
			if err := p.expectPunct("{"); err != nil {
				return nil, err
			}
			sub, err := p.group()
			if err != nil {
				return nil, err
			}
			grp.elements = append(grp.elements, patternElement{optional: sub})
		case isKeyword(tok, "FILTER"):
			p.has = false
			constraint, err := p.constraint()
			if err != nil {
				return nil, err
			}
			grp.filters = append(grp.filters, constraint)
		case isPunct(tok, "{"):
			p.has = false
			sub, err := p.group()
			if err != nil {
				return nil, err
			}
			grp.elements = append(grp.elements, patternElement{group: sub})
		case tok.kind == tokEOF:
			return nil, p.unexpected(tok, "'}'")
		default:
			if err := p.triplesSameSubject(grp); err != nil {
				return nil, err
			}
		}
	}
}

func (p *queryParser) triplesSameSubject(grp *groupPattern) error {
	subject, err := p.patternTerm(true)
	if err != nil {
		return err
	}
	for {
		pred, err := p.patternVerb()
		if err != nil {
			return err
		}
		for {
			object, err := p.patternTerm(false)
			if err != nil {
				return err
			}
			grp.elements = append(grp.elements, patternElement{triple: &triplePattern{s: subject, p: pred, o: object}})
			more, err := p.acceptPunct(",")
			if err != nil {
				return err
			}
			if !more {
				break
			}
		}
		more := false
		for {
			ok, err := p.acceptPunct(";")
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			more = true
		}
		if !more {
			return nil
		}
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if isPunct(tok, ".") || isPunct(tok, "}") || isPunct(tok, "{") ||
			isKeyword(tok, "OPTIONAL") || isKeyword(tok, "FILTER") {
			return nil
		}
	}
}

func (p *queryParser) noteVar(name string) patternTerm {
	if !p.seen[name] {
		p.seen[name] = true
		p.vars = append(p.vars, name)
	}
	return patternTerm{variable: name}
}

func (p *queryParser) patternTerm(subject bool) (patternTerm, error) {
	tok, err := p.next()
	if err != nil {
		return patternTerm{}, err
	}
	switch {
	case tok.kind == tokVar:
		return p.noteVar(tok.text), nil
	case tok.kind == tokIRI || tok.kind == tokPName:
		iri, err := p.iri(tok)
		return patternTerm{term: iri}, err
	case tok.kind == tokBlank:
		return p.noteVar("_b" + tok.text), nil
	case isPunct(tok, "["):
		if err := p.expectPunct("]"); err != nil {
			return patternTerm{}, err
		}
		p.hidden++
		return p.noteVar("_g" + strconv.Itoa(p.hidden)), nil
	case subject:
		return patternTerm{}, p.unexpected(tok, "subject")
	case tok.kind == tokString:
		lit, err := literalTail(p.tokenStream, tok.text, p.iri)
		return patternTerm{term: lit}, err
	default:
		if lit, ok := bareLiteral(tok); ok {
			return patternTerm{term: lit}, nil
		}
		return patternTerm{}, p.unexpected(tok, "object")
	}
}

func (p *queryParser) patternVerb() (patternTerm, error) {
	tok, err := p.next()
	if err != nil {
		return patternTerm{}, err
	}
	switch {
	case tok.kind == tokWord && tok.text == "a":
		return patternTerm{term: RDFType}, nil
	case tok.kind == tokVar:
		return p.noteVar(tok.text), nil
	case tok.kind == tokIRI || tok.kind == tokPName:
		iri, err := p.iri(tok)
		return patternTerm{term: iri}, err
	default:
		return patternTerm{}, p.unexpected(tok, "predicate")
	}
}

func (p *queryParser) iri(tok token) (IRI, error) {
	if tok.kind == tokIRI {
		return IRI{Value: resolveIRI(p.base, tok.text)}, nil
	}
	return expandPName(p.tokenStream, p.prefixes, tok)
}

func (p *queryParser) modifiers(q *Query) error {
	tok, err := p.peek()
	if err != nil {
		return err
	}
	if isKeyword(tok, "ORDER") {
		p.has = false
		by, err := p.next()
		if err != nil {
			return err
		}
		if !isKeyword(by, "BY") {
			return p.unexpected(by, "BY")
		}
		if err := p.orderKeys(q); err != nil {
			return err
		}
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		var target *int
		switch {
		case isKeyword(tok, "LIMIT"):
			target = &q.limit
		case isKeyword(tok, "OFFSET"):
			target = &q.offset
		default:
			return nil
		}
		p.has = false
		n, err := p.next()
		if err != nil {
			return err
		}
		if n.kind != tokInteger {
			return p.unexpected(n, "integer")
		}
		value, err := strconv.Atoi(n.text)
		if err != nil || value < 0 {
			return p.lex.errorf(n.pos, "invalid %s %q", strings.ToUpper(tok.text), n.text)
		}
		*target = value
	}
}

func (p *queryParser) orderKeys(q *Query) error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		switch {
		case isKeyword(tok, "ASC"), isKeyword(tok, "DESC"):
			p.has = false
			if err := p.expectPunct("("); err != nil {
				return err
			}
			e, err := p.expression()
			if err != nil {
				return err
			}
			if err := p.expectPunct(")"); err != nil {
				return err
			}
			q.orderBy = append(q.orderBy, orderKey{expr: e, desc: isKeyword(tok, "DESC")})
		case tok.kind == tokVar:
			p.has = false
			q.orderBy = append(q.orderBy, orderKey{expr: varExpr(tok.text)})
		case isPunct(tok, "("):
			p.has = false
			e, err := p.expression()
			if err != nil {
				return err
			}
			if err := p.expectPunct(")"); err != nil {
				return err
			}
			q.orderBy = append(q.orderBy, orderKey{expr: e})
		default:
			if len(q.orderBy) == 0 {
				return p.unexpected(tok, "order condition")
			}
			return nil
		}
	}
}

// constraint parses the argument of FILTER: a bracketed expression or a
// function call.
func (p *queryParser) constraint() (expr, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokWord {
		return p.primary()
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	return e, p.expectPunct(")")
}

func (p *queryParser) expression() (expr, error) {
	left, err := p.andExpression()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.acceptPunct("||")
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.andExpression()
		if err != nil {
			return nil, err
		}
		left = logicalExpr{or: true, left: left, right: right}
	}
}

func (p *queryParser) andExpression() (expr, error) {
	left, err := p.relational()
	if err != nil {
		return nil, err
	}
	for {
		ok, err := p.acceptPunct("&&")
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		left = logicalExpr{left: left, right: right}
	}
}

func (p *queryParser) relational() (expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokPunct {
		return left, nil
	}
	switch tok.text {
	case "=", "!=", "<", ">", "<=", ">=":
		p.has = false
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return compareExpr{op: tok.text, left: left, right: right}, nil
	}
	return left, nil
}

func (p *queryParser) unary() (expr, error) {
	ok, err := p.acceptPunct("!")
	if err != nil {
		return nil, err
	}
	if ok {
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notExpr{x: x}, nil
	}
	return p.primary()
}

func (p *queryParser) primary() (expr, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch {
	case isPunct(tok, "("):
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		return e, p.expectPunct(")")
	case tok.kind == tokVar:
		return varExpr(tok.text), nil
	case tok.kind == tokIRI || tok.kind == tokPName:
		iri, err := p.iri(tok)
		return constExpr{term: iri}, err
	case tok.kind == tokString:
		lit, err := literalTail(p.tokenStream, tok.text, p.iri)
		return constExpr{term: lit}, err
	case tok.kind == tokWord:
		if lit, ok := bareLiteral(tok); ok {
			return constExpr{term: lit}, nil
		}
		return p.call(tok)
	default:
		if lit, ok := bareLiteral(tok); ok {
			return constExpr{term: lit}, nil
		}
		return nil, p.unexpected(tok, "expression")
	}
}

func (p *queryParser) call(name token) (expr, error) {
	fn := strings.ToLower(name.text)
	arity, ok := builtinArity[fn]
	if !ok {
		return nil, p.lex.errorf(name.pos, "unsupported function %s", name.text)
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var args []expr
	closed, err := p.acceptPunct(")")
	if err != nil {
		return nil, err
	}
	for !closed {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		comma, err := p.acceptPunct(",")
		if err != nil {
			return nil, err
		}
		if !comma {
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			closed = true
		}
	}
	if len(args) < arity[0] || len(args) > arity[1] {
		return nil, p.lex.errorf(name.pos, "%s expects %d to %d arguments, got %d", fn, arity[0], arity[1], len(args))
	}
	if fn == "bound" {
		if _, ok := args[0].(varExpr); !ok {
			return nil, p.lex.errorf(name.pos, "bound expects a variable")
		}
	}
	return callExpr{name: fn, args: args}, nil
}
