package rdf

import (
	"fmt"
)

// turtleParser is a recursive-descent parser for Turtle. N3 documents that
// stay within the Turtle subset are parsed by the same code.
type turtleParser struct {
	*tokenStream
	base     string
	prefixes map[string]string
	blanks   *blankScope
	graph    *Graph
}

func parseTurtle(input string, format Format, base string, blanks *blankScope, g *Graph) error {
	p := &turtleParser{
		tokenStream: newTokenStream(input, format),
		base:        base,
		prefixes:    make(map[string]string),
		blanks:      blanks,
		graph:       g,
	}
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.kind == tokEOF {
			return nil
		}
		if err := p.statement(tok); err != nil {
			return err
		}
	}
}

func (p *turtleParser) statement(tok token) error {
	switch {
	case tok.kind == tokAtWord && tok.text == "prefix":
		p.has = false
		if err := p.prefixDecl(); err != nil {
			return err
		}
		return p.expectPunct(".")
	case tok.kind == tokAtWord && tok.text == "base":
		p.has = false
		if err := p.baseDecl(); err != nil {
			return err
		}
		return p.expectPunct(".")
	case isKeyword(tok, "PREFIX"):
		p.has = false
		return p.prefixDecl()
	case isKeyword(tok, "BASE"):
		p.has = false
		return p.baseDecl()
	case tok.kind == tokAtWord:
		return p.lex.errorf(tok.pos, "unknown directive @%s", tok.text)
	}
	if err := p.triples(); err != nil {
		return err
	}
	return p.expectPunct(".")
}

func (p *turtleParser) prefixDecl() error {
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
	return nil
}

func (p *turtleParser) baseDecl() error {
	iri, err := p.next()
	if err != nil {
		return err
	}
	if iri.kind != tokIRI {
		return p.unexpected(iri, "IRI")
	}
	p.base = resolveIRI(p.base, iri.text)
	return nil
}

func (p *turtleParser) triples() error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if isPunct(tok, "[") {
		subject := p.blanks.fresh()
		closed, err := p.acceptPunct("]")
		if err != nil {
			return err
		}
		if closed {
			return p.predicateObjectList(subject)
		}
		if err := p.predicateObjectList(subject); err != nil {
			return err
		}
		if err := p.expectPunct("]"); err != nil {
			return err
		}
		next, err := p.peek()
		if err != nil {
			return err
		}
		if isPunct(next, ".") {
			return nil
		}
		return p.predicateObjectList(subject)
	}
	var subject Term
	switch {
	case tok.kind == tokIRI || tok.kind == tokPName:
		iri, err := p.iri(tok)
		if err != nil {
			return err
		}
		subject = iri
	case tok.kind == tokBlank:
		subject = p.blanks.labeled(tok.text)
	case isPunct(tok, "("):
		subject, err = p.collection()
		if err != nil {
			return err
		}
	default:
		return p.unexpected(tok, "subject")
	}
	return p.predicateObjectList(subject)
}

func (p *turtleParser) predicateObjectList(subject Term) error {
	for {
		pred, err := p.verb()
		if err != nil {
			return err
		}
		if err := p.objectList(subject, pred); err != nil {
			return err
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
		if isPunct(tok, ".") || isPunct(tok, "]") || isPunct(tok, "}") || tok.kind == tokEOF {
			return nil
		}
	}
}

func (p *turtleParser) verb() (IRI, error) {
	tok, err := p.next()
	if err != nil {
		return IRI{}, err
	}
	switch {
	case tok.kind == tokWord && tok.text == "a":
		return RDFType, nil
	case tok.kind == tokIRI || tok.kind == tokPName:
		return p.iri(tok)
	default:
		return IRI{}, p.unexpected(tok, "predicate")
	}
}

func (p *turtleParser) objectList(subject Term, pred IRI) error {
	for {
		obj, err := p.object()
		if err != nil {
			return err
		}
		p.graph.Add(Triple{S: subject, P: pred, O: obj})
		ok, err := p.acceptPunct(",")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}

func (p *turtleParser) object() (Term, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.kind == tokIRI || tok.kind == tokPName:
		return p.iri(tok)
	case tok.kind == tokBlank:
		return p.blanks.labeled(tok.text), nil
	case isPunct(tok, "["):
		node := p.blanks.fresh()
		closed, err := p.acceptPunct("]")
		if err != nil || closed {
			return node, err
		}
		if err := p.predicateObjectList(node); err != nil {
			return nil, err
		}
		return node, p.expectPunct("]")
	case isPunct(tok, "("):
		return p.collection()
	case tok.kind == tokString:
		return literalTail(p.tokenStream, tok.text, p.iri)
	default:
		if lit, ok := bareLiteral(tok); ok {
			return lit, nil
		}
		return nil, p.unexpected(tok, "object")
	}
}

// literalTail reads an optional language tag or datatype after a string.
func literalTail(s *tokenStream, lexical string, resolve func(token) (IRI, error)) (Term, error) {
	tok, err := s.peek()
	if err != nil {
		return nil, err
	}
	switch {
	case tok.kind == tokAtWord:
		s.has = false
		return NewLiteral(lexical, "", tok.text), nil
	case isPunct(tok, "^^"):
		s.has = false
		dt, err := s.next()
		if err != nil {
			return nil, err
		}
		if dt.kind != tokIRI && dt.kind != tokPName {
			return nil, s.unexpected(dt, "datatype IRI")
		}
		iri, err := resolve(dt)
		if err != nil {
			return nil, err
		}
		return NewLiteral(lexical, iri.Value, ""), nil
	default:
		return Literal{Lexical: lexical}, nil
	}
}

// bareLiteral converts numeric and boolean shorthand tokens.
func bareLiteral(tok token) (Literal, bool) {
	switch {
	case tok.kind == tokInteger:
		return Literal{Lexical: tok.text, Datatype: IRI{Value: xsdIntegerIRI}}, true
	case tok.kind == tokDecimal:
		return Literal{Lexical: tok.text, Datatype: IRI{Value: xsdDecimalIRI}}, true
	case tok.kind == tokDouble:
		return Literal{Lexical: tok.text, Datatype: IRI{Value: xsdDoubleIRI}}, true
	case tok.kind == tokWord && (tok.text == "true" || tok.text == "false"):
		return Literal{Lexical: tok.text, Datatype: IRI{Value: xsdBooleanIRI}}, true
	default:
		return Literal{}, false
	}
}

// collection reads the members of "( ... )" after the opening bracket and
// returns the head of the generated rdf:first/rdf:rest list.
func (p *turtleParser) collection() (Term, error) {
	var items []Term
	for {
		closed, err := p.acceptPunct(")")
		if err != nil {
			return nil, err
		}
		if closed {
			break
		}
		item, err := p.object()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return IRI{Value: rdfNilIRI}, nil
	}
	head := p.blanks.fresh()
	node := head
	for i, item := range items {
		p.graph.Add(Triple{S: node, P: IRI{Value: rdfFirstIRI}, O: item})
		if i == len(items)-1 {
			p.graph.Add(Triple{S: node, P: IRI{Value: rdfRestIRI}, O: IRI{Value: rdfNilIRI}})
			break
		}
		next := p.blanks.fresh()
		p.graph.Add(Triple{S: node, P: IRI{Value: rdfRestIRI}, O: next})
		node = next
	}
	return head, nil
}

func (p *turtleParser) iri(tok token) (IRI, error) {
	if tok.kind == tokIRI {
		return IRI{Value: resolveIRI(p.base, tok.text)}, nil
	}
	return expandPName(p.tokenStream, p.prefixes, tok)
}

func expandPName(s *tokenStream, prefixes map[string]string, tok token) (IRI, error) {
	ns, ok := prefixes[tok.prefix]
	if !ok {
		return IRI{}, s.lex.errorWrap(tok.pos, fmt.Errorf("%w %q", ErrUndefinedPrefix, tok.prefix))
	}
	return IRI{Value: ns + tok.local}, nil
}
