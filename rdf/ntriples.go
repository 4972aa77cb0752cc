package rdf

// parseNTriples reads an N-Triples document. Only absolute IRIs, labeled
// blank nodes and quoted literals are accepted.
func parseNTriples(input string, blanks *blankScope, g *Graph) error {
	return parseLines(newTokenStream(input, FormatNTriples), false, blanks, g)
}

// parseNQuads reads N-Quads into g, folding every graph into the default one.
func parseNQuads(input string, format Format, blanks *blankScope, g *Graph) error {
	return parseLines(newTokenStream(input, format), true, blanks, g)
}

func parseLines(s *tokenStream, quads bool, blanks *blankScope, g *Graph) error {
	for {
		tok, err := s.next()
		if err != nil {
			return err
		}
		if tok.kind == tokEOF {
			return nil
		}
		var subject Term
		switch tok.kind {
		case tokIRI:
			subject = IRI{Value: tok.text}
		case tokBlank:
			subject = blanks.labeled(tok.text)
		default:
			return s.unexpected(tok, "subject IRI or blank node")
		}
		pred, err := s.next()
		if err != nil {
			return err
		}
		if pred.kind != tokIRI {
			return s.unexpected(pred, "predicate IRI")
		}
		object, err := ntObject(s, blanks)
		if err != nil {
			return err
		}
		if quads {
			label, err := s.peek()
			if err != nil {
				return err
			}
			if label.kind == tokIRI || label.kind == tokBlank {
				s.has = false
			}
		}
		if err := s.expectPunct("."); err != nil {
			return err
		}
		g.Add(Triple{S: subject, P: IRI{Value: pred.text}, O: object})
	}
}

func ntObject(s *tokenStream, blanks *blankScope) (Term, error) {
	tok, err := s.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokIRI:
		return IRI{Value: tok.text}, nil
	case tokBlank:
		return blanks.labeled(tok.text), nil
	case tokString:
	default:
		return nil, s.unexpected(tok, "object")
	}
	next, err := s.peek()
	if err != nil {
		return nil, err
	}
	switch {
	case next.kind == tokAtWord:
		s.has = false
		return NewLiteral(tok.text, "", next.text), nil
	case isPunct(next, "^^"):
		s.has = false
		dt, err := s.next()
		if err != nil {
			return nil, err
		}
		if dt.kind != tokIRI {
			return nil, s.unexpected(dt, "datatype IRI")
		}
		return NewLiteral(tok.text, dt.text, ""), nil
	default:
		return Literal{Lexical: tok.text}, nil
	}
}
