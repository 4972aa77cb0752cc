package rdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

// xmlScope carries the inherited xml:base and xml:lang of an element.
type xmlScope struct {
	base string
	lang string
}

type rdfxmlParser struct {
	dec    *xml.Decoder
	blanks *blankScope
	graph  *Graph
}

func parseRDFXML(input, base string, blanks *blankScope, g *Graph) error {
	p := &rdfxmlParser{dec: xml.NewDecoder(strings.NewReader(input)), blanks: blanks, graph: g}
	root := xmlScope{base: base}
	for {
		tok, err := p.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return p.wrap(err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if isRDFName(start.Name, "RDF") {
			if err := p.nodeElementList(p.scope(root, start)); err != nil {
				return err
			}
			continue
		}
		if _, err := p.nodeElement(start, root); err != nil {
			return err
		}
	}
}

func (p *rdfxmlParser) wrap(err error) error {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return &ParseError{Format: string(FormatRDFXML), Line: syntax.Line, Err: errors.New(syntax.Msg)}
	}
	return p.errorf("%v", err)
}

func (p *rdfxmlParser) errorf(format string, args ...any) error {
	line, column := p.dec.InputPos()
	return &ParseError{Format: string(FormatRDFXML), Line: line, Column: column, Err: fmt.Errorf(format, args...)}
}

func (p *rdfxmlParser) token() (xml.Token, error) {
	tok, err := p.dec.Token()
	if err == io.EOF {
		return nil, p.errorf("unexpected end of document")
	}
	if err != nil {
		return nil, p.wrap(err)
	}
	return tok, nil
}

func (p *rdfxmlParser) scope(parent xmlScope, el xml.StartElement) xmlScope {
	scope := parent
	for _, attr := range el.Attr {
		if !isXMLAttr(attr.Name) {
			continue
		}
		switch attr.Name.Local {
		case "base":
			scope.base = resolveIRI(parent.base, attr.Value)
		case "lang":
			scope.lang = attr.Value
		}
	}
	return scope
}

func (p *rdfxmlParser) nodeElementList(scope xmlScope) error {
	for {
		tok, err := p.token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if _, err := p.nodeElement(t, scope); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// nodeElement emits the triples of a node element and returns its subject.
func (p *rdfxmlParser) nodeElement(el xml.StartElement, parent xmlScope) (Term, error) {
	scope := p.scope(parent, el)
	subject := p.subjectOf(el, scope)
	if !isRDFName(el.Name, "Description") {
		p.graph.Add(Triple{S: subject, P: RDFType, O: IRI{Value: el.Name.Space + el.Name.Local}})
	}
	p.propertyAttributes(subject, el, scope)
	return subject, p.propertyElements(subject, scope)
}

func (p *rdfxmlParser) propertyElements(subject Term, scope xmlScope) error {
	li := 0
	for {
		tok, err := p.token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.propertyElement(subject, t, scope, &li); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *rdfxmlParser) subjectOf(el xml.StartElement, scope xmlScope) Term {
	if about, ok := syntaxAttr(el.Attr, "about"); ok {
		return IRI{Value: resolveIRI(scope.base, about)}
	}
	if id, ok := syntaxAttr(el.Attr, "ID"); ok {
		return IRI{Value: resolveIRI(scope.base, "#"+id)}
	}
	if nodeID, ok := syntaxAttr(el.Attr, "nodeID"); ok {
		return p.blanks.labeled(nodeID)
	}
	return p.blanks.fresh()
}

// propertyAttributes turns non-syntax attributes into triples and reports
// whether any were present.
func (p *rdfxmlParser) propertyAttributes(subject Term, el xml.StartElement, scope xmlScope) bool {
	found := false
	for _, attr := range el.Attr {
		if attr.Name.Space == "" || isXMLAttr(attr.Name) || isNamespaceDecl(attr.Name) || isSyntaxAttrName(attr.Name) {
			continue
		}
		found = true
		pred := IRI{Value: attr.Name.Space + attr.Name.Local}
		if pred == RDFType {
			p.graph.Add(Triple{S: subject, P: pred, O: IRI{Value: resolveIRI(scope.base, attr.Value)}})
			continue
		}
		p.graph.Add(Triple{S: subject, P: pred, O: NewLiteral(attr.Value, "", scope.lang)})
	}
	return found
}

func (p *rdfxmlParser) propertyElement(subject Term, el xml.StartElement, parent xmlScope, li *int) error {
	scope := p.scope(parent, el)
	pred := IRI{Value: el.Name.Space + el.Name.Local}
	if isRDFName(el.Name, "li") {
		*li++
		pred = IRI{Value: RDFNamespace + "_" + strconv.Itoa(*li)}
	}

	parseType, hasParseType := syntaxAttr(el.Attr, "parseType")
	if hasParseType {
		switch parseType {
		case "Resource":
			node := p.blanks.fresh()
			p.graph.Add(Triple{S: subject, P: pred, O: node})
			return p.propertyElements(node, scope)
		case "Collection":
			return p.collection(subject, pred, scope)
		default:
			content, err := p.innerXML()
			if err != nil {
				return err
			}
			p.graph.Add(Triple{S: subject, P: pred, O: Literal{Lexical: content, Datatype: IRI{Value: rdfXMLLiteralIRI}}})
			return nil
		}
	}

	var object Term
	if resource, ok := syntaxAttr(el.Attr, "resource"); ok {
		object = IRI{Value: resolveIRI(scope.base, resource)}
	} else if nodeID, ok := syntaxAttr(el.Attr, "nodeID"); ok {
		object = p.blanks.labeled(nodeID)
	}
	if object != nil || hasPropertyAttributes(el) {
		if object == nil {
			object = p.blanks.fresh()
		}
		p.propertyAttributes(object, el, scope)
		p.graph.Add(Triple{S: subject, P: pred, O: object})
		return p.skipElement()
	}

	var text strings.Builder
	for {
		tok, err := p.token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			node, err := p.nodeElement(t, scope)
			if err != nil {
				return err
			}
			object = node
		case xml.EndElement:
			if object == nil {
				if datatype, ok := syntaxAttr(el.Attr, "datatype"); ok {
					object = NewLiteral(text.String(), resolveIRI(scope.base, datatype), "")
				} else {
					object = NewLiteral(text.String(), "", scope.lang)
				}
			}
			p.graph.Add(Triple{S: subject, P: pred, O: object})
			return nil
		}
	}
}

func (p *rdfxmlParser) collection(subject Term, pred IRI, scope xmlScope) error {
	var items []Term
	for {
		tok, err := p.token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			item, err := p.nodeElement(t, scope)
			if err != nil {
				return err
			}
			items = append(items, item)
		case xml.EndElement:
			var head Term = IRI{Value: rdfNilIRI}
			for i := len(items) - 1; i >= 0; i-- {
				node := p.blanks.fresh()
				p.graph.Add(Triple{S: node, P: IRI{Value: rdfFirstIRI}, O: items[i]})
				p.graph.Add(Triple{S: node, P: IRI{Value: rdfRestIRI}, O: head})
				head = node
			}
			p.graph.Add(Triple{S: subject, P: pred, O: head})
			return nil
		}
	}
}

// innerXML re-serializes the content of the current element.
func (p *rdfxmlParser) innerXML() (string, error) {
	var out strings.Builder
	enc := xml.NewEncoder(&out)
	depth := 0
	for {
		tok, err := p.token()
		if err != nil {
			return "", err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				if err := enc.Flush(); err != nil {
					return "", err
				}
				return out.String(), nil
			}
			depth--
		}
		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return "", p.errorf("XML literal: %v", err)
		}
	}
}

func (p *rdfxmlParser) skipElement() error {
	depth := 0
	for {
		tok, err := p.token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

func isRDFName(name xml.Name, local string) bool {
	return name.Space == RDFNamespace && name.Local == local
}

func isXMLAttr(name xml.Name) bool {
	return name.Space == xmlNamespace || name.Space == "xml"
}

func isNamespaceDecl(name xml.Name) bool {
	return name.Space == "xmlns" || (name.Space == "" && name.Local == "xmlns")
}

func isSyntaxAttrName(name xml.Name) bool {
	if name.Space != RDFNamespace {
		return false
	}
	switch name.Local {
	case "about", "ID", "nodeID", "resource", "datatype", "parseType", "bagID", "aboutEach", "aboutEachPrefix":
		return true
	}
	return false
}

// syntaxAttr looks up an rdf: attribute; unqualified about and resource are
// accepted as well.
func syntaxAttr(attrs []xml.Attr, local string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Space == RDFNamespace && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	if local == "about" || local == "resource" {
		for _, attr := range attrs {
			if attr.Name.Space == "" && attr.Name.Local == local {
				return attr.Value, true
			}
		}
	}
	return "", false
}

func hasPropertyAttributes(el xml.StartElement) bool {
	for _, attr := range el.Attr {
		if attr.Name.Space == "" || isXMLAttr(attr.Name) || isNamespaceDecl(attr.Name) || isSyntaxAttrName(attr.Name) {
			continue
		}
		return true
	}
	return false
}
