package rdf

import "testing"

func TestTermKindsAndStrings(t *testing.T) {
	iri := IRI{Value: "http://example.org/s"}
	if iri.Kind() != TermIRI {
		t.Fatalf("expected IRI kind")
	}
	if iri.String() != "http://example.org/s" {
		t.Fatalf("unexpected IRI string: %s", iri.String())
	}

	blank := BlankNode{ID: "b1"}
	if blank.Kind() != TermBlankNode {
		t.Fatalf("expected blank node kind")
	}
	if blank.String() != "_:b1" {
		t.Fatalf("unexpected blank node string: %s", blank.String())
	}

	litLang := Literal{Lexical: "hi", Lang: "en"}
	if litLang.String() != "\"hi\"@en" {
		t.Fatalf("unexpected lang literal: %s", litLang.String())
	}

	litDT := Literal{Lexical: "1", Datatype: IRI{Value: "http://example.org/int"}}
	if litDT.String() != "\"1\"^^<http://example.org/int>" {
		t.Fatalf("unexpected datatype literal: %s", litDT.String())
	}
}

func TestNewLiteralNormalizes(t *testing.T) {
	if lit := NewLiteral("x", xsdStringIRI, ""); lit.Datatype.Value != "" {
		t.Fatalf("xsd:string should fold into a simple literal, got %v", lit)
	}
	if lit := NewLiteral("x", xsdIntegerIRI, "EN-gb"); lit.Lang != "en-gb" || lit.Datatype.Value != "" {
		t.Fatalf("unexpected language literal: %#v", lit)
	}
	if !Equal(NewLiteral("x", xsdStringIRI, ""), Literal{Lexical: "x"}) {
		t.Fatal("expected equal literals")
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b Term
		want bool
	}{
		{IRI{Value: "http://example.org/a"}, IRI{Value: "http://example.org/a"}, true},
		{IRI{Value: "http://example.org/a"}, Literal{Lexical: "http://example.org/a"}, false},
		{BlankNode{ID: "x"}, BlankNode{ID: "x"}, true},
		{Literal{Lexical: "a", Lang: "en"}, Literal{Lexical: "a"}, false},
		{nil, nil, true},
		{nil, BlankNode{ID: "x"}, false},
	}
	for _, tc := range cases {
		if got := Equal(tc.a, tc.b); got != tc.want {
			t.Errorf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestTripleString(t *testing.T) {
	tr := Triple{
		S: IRI{Value: "http://example.org/s"},
		P: IRI{Value: "http://example.org/p"},
		O: Literal{Lexical: "line\nbreak"},
	}
	want := `<http://example.org/s> <http://example.org/p> "line\nbreak" .`
	if tr.String() != want {
		t.Fatalf("unexpected triple string:\n got %s\nwant %s", tr.String(), want)
	}
}
