package rdf

import (
	"fmt"
	"strings"
)

// Well-known vocabulary IRIs used by the parsers and the query evaluator.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	rdfTypeIRI       = RDFNamespace + "type"
	rdfFirstIRI      = RDFNamespace + "first"
	rdfRestIRI       = RDFNamespace + "rest"
	rdfNilIRI        = RDFNamespace + "nil"
	rdfLangStringIRI = RDFNamespace + "langString"
	rdfXMLLiteralIRI = RDFNamespace + "XMLLiteral"

	xsdStringIRI  = XSDNamespace + "string"
	xsdBooleanIRI = XSDNamespace + "boolean"
	xsdIntegerIRI = XSDNamespace + "integer"
	xsdDecimalIRI = XSDNamespace + "decimal"
	xsdDoubleIRI  = XSDNamespace + "double"
)

// RDFType is the rdf:type predicate.
var RDFType = IRI{Value: rdfTypeIRI}

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// BlankNode represents an RDF blank node.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal. Simple literals carry neither a
// datatype nor a language; xsd:string is folded into that form.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// NewLiteral builds a literal, normalizing the language tag to lower case
// and dropping the datatype for language-tagged or xsd:string values.
func NewLiteral(lexical, datatype, lang string) Literal {
	if lang != "" {
		return Literal{Lexical: lexical, Lang: strings.ToLower(lang)}
	}
	if datatype == xsdStringIRI || datatype == rdfLangStringIRI {
		datatype = ""
	}
	return Literal{Lexical: lexical, Datatype: IRI{Value: datatype}}
}

// Triple is an RDF triple.
type Triple struct {
	// S is the subject.
	S Term
	// P is the predicate.
	P IRI
	// O is the object.
	O Term
}

// String renders the triple in N-Triples form without the trailing newline.
func (t Triple) String() string {
	return renderTerm(t.S) + " " + renderTerm(t.P) + " " + renderTerm(t.O) + " ."
}

// IsBlank reports whether term is a blank node.
func IsBlank(term Term) bool {
	return term != nil && term.Kind() == TermBlankNode
}

// IsIRI reports whether term is an IRI.
func IsIRI(term Term) bool {
	return term != nil && term.Kind() == TermIRI
}

// Equal reports whether two terms denote the same RDF term.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return termKey(a) == termKey(b)
}

// termKey returns a string that is unique per distinct term.
func termKey(term Term) string {
	switch value := term.(type) {
	case IRI:
		return "I" + value.Value
	case BlankNode:
		return "B" + value.ID
	case Literal:
		return "L" + value.Lexical + "\x00" + value.Lang + "\x00" + value.Datatype.Value
	default:
		return "?" + term.String()
	}
}

func tripleKey(t Triple) string {
	return termKey(t.S) + "\x01" + t.P.Value + "\x01" + termKey(t.O)
}
