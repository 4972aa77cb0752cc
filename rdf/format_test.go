package rdf

import "testing"

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"turtle":   FormatTurtle,
		" TTL ":    FormatTurtle,
		"n3":       FormatN3,
		"nt":       FormatNTriples,
		"RDF":      FormatRDFXML,
		"json-ld":  FormatJSONLD,
		"rdfa":     FormatRDFa,
		"ntriples": FormatNTriples,
	}
	for input, want := range cases {
		got, ok := ParseFormat(input)
		if !ok || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", input, got, ok, want)
		}
	}
	if _, ok := ParseFormat("yaml"); ok {
		t.Error("expected yaml to be rejected")
	}
}

func TestFormatForMediaType(t *testing.T) {
	cases := []struct {
		contentType string
		want        Format
		ok          bool
	}{
		{"text/turtle", FormatTurtle, true},
		{"text/turtle; charset=UTF-8", FormatTurtle, true},
		{"Application/RDF+XML", FormatRDFXML, true},
		{"application/ld+json", FormatJSONLD, true},
		{"application/json;charset=utf-8", FormatJSONLD, true},
		{"text/nt", FormatNTriples, true},
		{"application/xhtml", FormatRDFa, true},
		{"text/plain", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := FormatForMediaType(tc.contentType)
		if ok != tc.ok || got != tc.want {
			t.Errorf("FormatForMediaType(%q) = %q, %v; want %q, %v", tc.contentType, got, ok, tc.want, tc.ok)
		}
	}
	if got := MediaTypeOf(" Text/Turtle ; charset=utf-8"); got != "text/turtle" {
		t.Errorf("unexpected media type %q", got)
	}
}
