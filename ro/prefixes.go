package ro

import (
	"fmt"
	"strings"
)

// Prefix binds a short name to a namespace IRI.
type Prefix struct {
	Name      string
	Namespace string
}

// Prefixes lists the namespaces commonly found in Research Object metadata,
// in declaration order.
var Prefixes = []Prefix{
	{"rdf", "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
	{"rdfs", "http://www.w3.org/2000/01/rdf-schema#"},
	{"owl", "http://www.w3.org/2002/07/owl#"},
	{"xml", "http://www.w3.org/XML/1998/namespace"},
	{"xsd", "http://www.w3.org/2001/XMLSchema#"},
	{"rdfg", "http://www.w3.org/2004/03/trix/rdfg-1/"},
	{"ro", NamespaceRO},
	{"roevo", "http://purl.org/wf4ever/roevo#"},
	{"roterms", "http://purl.org/wf4ever/roterms#"},
	{"wfprov", "http://purl.org/wf4ever/wfprov#"},
	{"wfdesc", "http://purl.org/wf4ever/wfdesc#"},
	{"wf4ever", "http://purl.org/wf4ever/wf4ever#"},
	{"ore", NamespaceORE},
	{"ao", NamespaceAO},
	{"dcterms", NamespaceDCTerms},
	{"dc", "http://purl.org/dc/elements/1.1/"},
	{"foaf", "http://xmlns.com/foaf/0.1/"},
	{"minim", "http://purl.org/minim/minim#"},
	{"result", "http://www.w3.org/2001/sw/DataAccess/tests/result-set#"},
	{"roes", "http://w3id.org/ro/earth-science#"},
	{"oa", "http://www.w3.org/ns/oa#"},
	{"pav", "http://purl.org/pav/"},
	{"swrc", "http://swrc.ontoware.org/ontology#"},
	{"cito", "http://purl.org/spar/cito/"},
	{"dbo", "http://dbpedia.org/ontology/"},
	{"ov", "http://open.vocab.org/terms/"},
	{"bibo", "http://purl.org/ontology/bibo/"},
	{"prov", "http://www.w3.org/ns/prov#"},
	{"geo", "http://www.opengis.net/ont/geosparql#"},
	{"sf", "http://www.opengis.net/ont/sf#"},
	{"gml", "http://www.opengis.net/ont/gml#"},
	{"odrs", "http://schema.theodi.org/odrs#"},
	{"cc", "http://creativecommons.org/ns#"},
	{"odrl", "http://www.w3.org/ns/odrl/2/"},
	{"geo-wgs84", "http://www.w3.org/2003/01/geo/wgs84_pos#"},
	{"voag", "http://voag.linkedmodel.org/schema/voag#"},
	{"sch", "https://schema.org/"},
	{"sch1", "http://schema.org/"},
	{"rel0", "http://w3id.org/ro/earth-science#"},
	{"rel1", "https://w3id.org/ro/terms/earth-science#"},
	{"chembox", "http://dbpedia.org/resource/Template:Chembox:"},
}

// PrefixMap returns Prefixes plus extra as a name to namespace map, the
// shape expected by rdf.WriteTurtle. Later entries win.
func PrefixMap(extra ...Prefix) map[string]string {
	m := make(map[string]string, len(Prefixes)+len(extra))
	for _, p := range Prefixes {
		m[p.Name] = p.Namespace
	}
	for _, p := range extra {
		m[p.Name] = p.Namespace
	}
	return m
}

// TurtlePrefixes renders Prefixes and extra as Turtle @prefix directives.
func TurtlePrefixes(extra ...Prefix) string {
	return renderPrefixes("@prefix %s: <%s> .\n", extra)
}

// SPARQLPrefixes renders Prefixes and extra as a SPARQL prologue.
func SPARQLPrefixes(extra ...Prefix) string {
	return renderPrefixes("PREFIX %s: <%s>\n", extra)
}

func renderPrefixes(line string, extra []Prefix) string {
	var b strings.Builder
	for _, p := range Prefixes {
		fmt.Fprintf(&b, line, p.Name, p.Namespace)
	}
	for _, p := range extra {
		fmt.Fprintf(&b, line, p.Name, p.Namespace)
	}
	b.WriteByte('\n')
	return b.String()
}
