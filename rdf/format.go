package rdf

import "strings"

// Format identifies RDF serialization formats.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatN3       Format = "n3"
	FormatNTriples Format = "ntriples"
	FormatRDFXML   Format = "rdfxml"
	FormatJSONLD   Format = "jsonld"
	FormatRDFa     Format = "rdfa"
)

// mediaTypes maps response media types onto the format used to parse them.
var mediaTypes = map[string]Format{
	"application/rdf+xml":   FormatRDFXML,
	"text/turtle":           FormatTurtle,
	"text/n3":               FormatN3,
	"text/nt":               FormatNTriples,
	"application/n-triples": FormatNTriples,
	"application/json":      FormatJSONLD,
	"application/ld+json":   FormatJSONLD,
	"application/xhtml":     FormatRDFa,
}

// ParseFormat normalizes a format string.
func ParseFormat(value string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "turtle", "ttl":
		return FormatTurtle, true
	case "n3":
		return FormatN3, true
	case "ntriples", "nt":
		return FormatNTriples, true
	case "rdfxml", "rdf", "xml":
		return FormatRDFXML, true
	case "jsonld", "json-ld", "json":
		return FormatJSONLD, true
	case "rdfa":
		return FormatRDFa, true
	default:
		return "", false
	}
}

// MediaTypeOf lower-cases a content-type header value and strips any
// parameters.
func MediaTypeOf(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// FormatForMediaType resolves the serialization of a content-type header
// value. Parameters such as charset are ignored.
func FormatForMediaType(contentType string) (Format, bool) {
	format, ok := mediaTypes[MediaTypeOf(contentType)]
	return format, ok
}
