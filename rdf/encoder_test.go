package rdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func roundTrip(t *testing.T, g *Graph, format Format, write func(*bytes.Buffer) error) *Graph {
	t.Helper()
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		t.Fatalf("write %s: %v", format, err)
	}
	back, err := Parse(context.Background(), &buf, format, OptBaseIRI("http://example.org/"))
	if err != nil {
		t.Fatalf("reparse %s: %v\n%s", format, err, buf.String())
	}
	return back
}

func assertSameGround(t *testing.T, want, got *Graph) {
	t.Helper()
	if want.Len() != got.Len() {
		t.Fatalf("expected %d triples, got %d", want.Len(), got.Len())
	}
	for tr := range want.All() {
		if IsBlank(tr.S) || IsBlank(tr.O) {
			continue
		}
		if !got.Contains(tr) {
			t.Errorf("missing %s", tr)
		}
	}
}

func TestWriteTurtleRoundTrip(t *testing.T) {
	g := peopleGraph(t)
	prefixes := map[string]string{"ex": "http://example.org/", "xsd": XSDNamespace}
	var out string
	back := roundTrip(t, g, FormatTurtle, func(buf *bytes.Buffer) error {
		err := WriteTurtle(buf, g, prefixes)
		out = buf.String()
		return err
	})
	assertSameGround(t, g, back)
	if !strings.HasPrefix(out, "@prefix ex: <http://example.org/> .\n") {
		t.Fatalf("prefixes should be written first, got:\n%s", out)
	}
	if !strings.Contains(out, "ex:alice a ex:Person ;") {
		t.Fatalf("expected abbreviated subject group, got:\n%s", out)
	}
	if !strings.Contains(out, `"34"^^xsd:integer`) {
		t.Fatalf("expected abbreviated datatype, got:\n%s", out)
	}
}

func TestWriteNTriplesRoundTrip(t *testing.T) {
	g := parseString(t, `@prefix ex: <http://example.org/> .
ex:s ex:p "line\nbreak \"quoted\"" , "tagged"@en-GB ; ex:q [ ex:r ex:o ] .
`, FormatTurtle)
	var out string
	back := roundTrip(t, g, FormatNTriples, func(buf *bytes.Buffer) error {
		err := WriteNTriples(buf, g)
		out = buf.String()
		return err
	})
	assertSameGround(t, g, back)
	if got := strings.Count(out, "\n"); got != g.Len() {
		t.Fatalf("expected one line per triple, got %d lines", got)
	}
}

func TestWriteRDFXMLRoundTrip(t *testing.T) {
	g := peopleGraph(t)
	g.Add(Triple{S: exampleIRI("alice"), P: IRI{Value: "http://other.example/vocab#note"}, O: Literal{Lexical: "<b> & co"}})
	var out string
	back := roundTrip(t, g, FormatRDFXML, func(buf *bytes.Buffer) error {
		err := WriteRDFXML(buf, g, map[string]string{"ex": "http://example.org/"})
		out = buf.String()
		return err
	})
	assertSameGround(t, g, back)
	if !strings.Contains(out, `xmlns:ex="http://example.org/"`) {
		t.Fatalf("expected declared prefix, got:\n%s", out)
	}
	if !strings.Contains(out, `xmlns:ns0="http://other.example/vocab#"`) {
		t.Fatalf("expected generated prefix for unknown namespace, got:\n%s", out)
	}
	if !strings.Contains(out, "&lt;b&gt; &amp; co") {
		t.Fatalf("expected escaped literal, got:\n%s", out)
	}
}

func TestWriteRDFXMLRejectsUnsplittablePredicate(t *testing.T) {
	g := NewGraph()
	g.Add(Triple{S: exampleIRI("s"), P: IRI{Value: "http://example.org/1"}, O: exampleIRI("o")})
	var buf bytes.Buffer
	if err := WriteRDFXML(&buf, g, nil); err == nil {
		t.Fatal("expected error for predicate without an XML local name")
	}
}
