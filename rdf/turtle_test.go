package rdf

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func parseString(t *testing.T, input string, format Format, opts ...Option) *Graph {
	t.Helper()
	g, err := Parse(context.Background(), strings.NewReader(input), format, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}

func TestTurtleDirectiveAndPrefixedName(t *testing.T) {
	g := parseString(t, "@prefix ex: <http://example.org/> .\nex:s ex:p \"v\" .\n", FormatTurtle)
	if !g.Contains(Triple{S: exampleIRI("s"), P: exampleIRI("p"), O: Literal{Lexical: "v"}}) {
		t.Fatalf("missing triple, got %d triples", g.Len())
	}
}

func TestTurtleSPARQLStyleDirectives(t *testing.T) {
	input := "BASE <http://example.org/>\nPREFIX ex: <ns/>\n<s> ex:p <o> .\n"
	g := parseString(t, input, FormatTurtle)
	want := Triple{S: exampleIRI("s"), P: IRI{Value: "http://example.org/ns/p"}, O: exampleIRI("o")}
	if !g.Contains(want) {
		t.Fatalf("missing %v", want)
	}
}

func TestTurtleBaseFromOption(t *testing.T) {
	g := parseString(t, "<rel> <http://example.org/p> <../up> .\n", FormatTurtle, OptBaseIRI("http://example.org/dir/doc"))
	want := Triple{S: IRI{Value: "http://example.org/dir/rel"}, P: exampleIRI("p"), O: exampleIRI("up")}
	if !g.Contains(want) {
		t.Fatalf("unexpected base IRI resolution, got %v", collect(g))
	}
}

func TestTurtlePredicateObjectLists(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
ex:s a ex:T ;
    ex:p ex:o1 , ex:o2 ;
    ex:n 42, 1.5, 1e3, true ;
    ex:l "hello"@EN, "7"^^ex:int, """long
string""" .
`
	g := parseString(t, input, FormatTurtle)
	if g.Len() != 10 {
		t.Fatalf("expected 10 triples, got %d: %v", g.Len(), collect(g))
	}
	checks := []Triple{
		{S: exampleIRI("s"), P: RDFType, O: exampleIRI("T")},
		{S: exampleIRI("s"), P: exampleIRI("p"), O: exampleIRI("o2")},
		{S: exampleIRI("s"), P: exampleIRI("n"), O: Literal{Lexical: "42", Datatype: IRI{Value: xsdIntegerIRI}}},
		{S: exampleIRI("s"), P: exampleIRI("n"), O: Literal{Lexical: "1.5", Datatype: IRI{Value: xsdDecimalIRI}}},
		{S: exampleIRI("s"), P: exampleIRI("n"), O: Literal{Lexical: "1e3", Datatype: IRI{Value: xsdDoubleIRI}}},
		{S: exampleIRI("s"), P: exampleIRI("n"), O: Literal{Lexical: "true", Datatype: IRI{Value: xsdBooleanIRI}}},
		{S: exampleIRI("s"), P: exampleIRI("l"), O: Literal{Lexical: "hello", Lang: "en"}},
		{S: exampleIRI("s"), P: exampleIRI("l"), O: Literal{Lexical: "7", Datatype: exampleIRI("int")}},
		{S: exampleIRI("s"), P: exampleIRI("l"), O: Literal{Lexical: "long\nstring"}},
	}
	for _, want := range checks {
		if !g.Contains(want) {
			t.Errorf("missing %v", want)
		}
	}
}

func TestTurtleBlankNodesAndCollections(t *testing.T) {
	input := `@prefix ex: <http://example.org/> .
_:a ex:knows [ ex:name "b" ] .
ex:s ex:list ( ex:x ex:y ) .
ex:s ex:empty () .
`
	g := parseString(t, input, FormatTurtle)
	if g.Len() != 8 {
		t.Fatalf("expected 8 triples, got %d: %v", g.Len(), collect(g))
	}
	head, ok := g.Object(exampleIRI("s"), exampleIRI("list"))
	if !ok || !IsBlank(head) {
		t.Fatalf("expected blank list head, got %v", head)
	}
	first, _ := g.Object(head, IRI{Value: rdfFirstIRI})
	if !Equal(first, exampleIRI("x")) {
		t.Fatalf("unexpected first element %v", first)
	}
	empty, _ := g.Object(exampleIRI("s"), exampleIRI("empty"))
	if !Equal(empty, IRI{Value: rdfNilIRI}) {
		t.Fatalf("expected rdf:nil, got %v", empty)
	}
}

func TestTurtleUnknownPrefix(t *testing.T) {
	_, err := Parse(context.Background(), strings.NewReader("ex:s ex:p ex:o .\n"), FormatTurtle)
	if err == nil {
		t.Fatal("expected unknown prefix error")
	}
	if !errors.Is(err, ErrUndefinedPrefix) || Code(err) != ErrCodeUndefinedPrefix {
		t.Fatalf("unexpected error: %v (code %s)", err, Code(err))
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) || parseErr.Line != 1 || parseErr.Format != "turtle" {
		t.Fatalf("expected positioned turtle error, got %#v", err)
	}
}

func TestTurtleInvalidPredicate(t *testing.T) {
	_, err := Parse(context.Background(), strings.NewReader("_:b1 \"literal\" <http://example.org/o> .\n"), FormatTurtle)
	if err == nil {
		t.Fatal("expected predicate error")
	}
	if Code(err) != ErrCodeParseError {
		t.Fatalf("unexpected code %s", Code(err))
	}
}

func TestParseIntoIsAtomic(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: exampleIRI("keep"), P: exampleIRI("p"), O: exampleIRI("o")})
	input := "@prefix ex: <http://example.org/> .\nex:a ex:p ex:b .\nex:c ex:p .\n"
	if err := ParseInto(context.Background(), g, strings.NewReader(input), FormatTurtle); err == nil {
		t.Fatal("expected parse error")
	}
	if g.Len() != 1 {
		t.Fatalf("graph modified by failed parse: %v", collect(g))
	}
}

func TestParseIntoScopesBlankNodes(t *testing.T) {
	g := NewGraph()
	doc := "_:x <http://example.org/p> \"v\" .\n"
	for i := 0; i < 2; i++ {
		if err := ParseInto(context.Background(), g, strings.NewReader(doc), FormatNTriples); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if g.Len() != 2 {
		t.Fatalf("blank nodes from separate documents were conflated: %v", collect(g))
	}

	fixed := NewGraph()
	for i := 0; i < 2; i++ {
		if err := ParseInto(context.Background(), fixed, strings.NewReader(doc), FormatNTriples, OptBlankScope("doc")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if fixed.Len() != 1 {
		t.Fatalf("expected shared scope to reuse blank node, got %v", collect(fixed))
	}
}

func TestParseLimits(t *testing.T) {
	input := "<http://example.org/s> <http://example.org/p> <http://example.org/o> .\n"
	_, err := Parse(context.Background(), strings.NewReader(input), FormatNTriples, OptMaxBytes(10))
	if Code(err) != ErrCodeDocumentTooLarge {
		t.Fatalf("expected size limit error, got %v", err)
	}
	input += "<http://example.org/s> <http://example.org/p> <http://example.org/o2> .\n"
	_, err = Parse(context.Background(), strings.NewReader(input), FormatNTriples, OptMaxTriples(1))
	if !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected triple limit error, got %v", err)
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	for _, format := range []Format{FormatRDFa, Format("bogus")} {
		_, err := Parse(context.Background(), strings.NewReader("<html/>"), format)
		if Code(err) != ErrCodeUnsupportedFormat {
			t.Errorf("%s: expected unsupported format, got %v", format, err)
		}
	}
}

func TestParseCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, strings.NewReader("<s> <p> <o> ."), FormatNTriples)
	if Code(err) != ErrCodeContextCanceled {
		t.Fatalf("expected canceled error, got %v", err)
	}
}

func collect(g *Graph) []string {
	var out []string
	for tr := range g.All() {
		out = append(out, tr.String())
	}
	return out
}
