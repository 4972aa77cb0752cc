package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// WriteRDFXML serializes g as RDF/XML with one rdf:Description per subject.
// Predicates are written as qualified names using prefixes where a namespace
// matches; other namespaces get generated ns<N> prefixes on the element.
func WriteRDFXML(w io.Writer, g *Graph, prefixes map[string]string) error {
	bw := bufio.NewWriter(w)
	nsToPrefix := make(map[string]string, len(prefixes))
	bw.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	bw.WriteString(`<rdf:RDF xmlns:rdf="` + RDFNamespace + `"`)
	for _, prefix := range sortedPrefixKeys(prefixes) {
		ns := prefixes[prefix]
		if prefix == "" || prefix == "rdf" || prefix == "xml" || !isXMLName(prefix) {
			continue
		}
		if _, dup := nsToPrefix[ns]; dup {
			continue
		}
		nsToPrefix[ns] = prefix
		fmt.Fprintf(bw, "\n    xmlns:%s=\"%s\"", prefix, escapeXML(ns))
	}
	nsToPrefix[RDFNamespace] = "rdf"
	bw.WriteString(">\n")

	var order []string
	bySubject := make(map[string][]Triple)
	for t := range g.All() {
		key := termKey(t.S)
		if _, ok := bySubject[key]; !ok {
			order = append(order, key)
		}
		bySubject[key] = append(bySubject[key], t)
	}
	generated := 0
	for _, key := range order {
		group := bySubject[key]
		subject, err := rdfxmlSubject(group[0].S)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "  <rdf:Description %s>\n", subject)
		for _, t := range group {
			ns, local, ok := splitPredicate(t.P.Value)
			if !ok {
				return fmt.Errorf("rdfxml: predicate %q has no XML qualified name", t.P.Value)
			}
			name, decl := "", ""
			if prefix, ok := nsToPrefix[ns]; ok {
				name = prefix + ":" + local
			} else {
				prefix := fmt.Sprintf("ns%d", generated)
				generated++
				name = prefix + ":" + local
				decl = fmt.Sprintf(` xmlns:%s="%s"`, prefix, escapeXML(ns))
			}
			if err := writeRDFXMLProperty(bw, name, decl, t.O); err != nil {
				return err
			}
		}
		bw.WriteString("  </rdf:Description>\n")
	}
	bw.WriteString("</rdf:RDF>\n")
	return bw.Flush()
}

func writeRDFXMLProperty(bw *bufio.Writer, name, decl string, object Term) error {
	switch o := object.(type) {
	case IRI:
		fmt.Fprintf(bw, "    <%s%s rdf:resource=\"%s\"/>\n", name, decl, escapeXML(o.Value))
	case BlankNode:
		fmt.Fprintf(bw, "    <%s%s rdf:nodeID=\"%s\"/>\n", name, decl, escapeXML(o.ID))
	case Literal:
		attrs := ""
		switch {
		case o.Lang != "":
			attrs = ` xml:lang="` + escapeXML(o.Lang) + `"`
		case o.Datatype.Value != "":
			attrs = ` rdf:datatype="` + escapeXML(o.Datatype.Value) + `"`
		}
		fmt.Fprintf(bw, "    <%s%s%s>%s</%s>\n", name, decl, attrs, escapeXML(o.Lexical), name)
	default:
		return fmt.Errorf("rdfxml: unsupported object %v", object)
	}
	return nil
}

func rdfxmlSubject(term Term) (string, error) {
	switch value := term.(type) {
	case IRI:
		return `rdf:about="` + escapeXML(value.Value) + `"`, nil
	case BlankNode:
		return `rdf:nodeID="` + escapeXML(value.ID) + `"`, nil
	}
	return "", fmt.Errorf("rdfxml: unsupported subject %v", term)
}

// splitPredicate splits iri after its last '#' or '/' so that the local part
// is an XML name.
func splitPredicate(iri string) (ns, local string, ok bool) {
	idx := strings.LastIndexAny(iri, "#/")
	if idx <= 0 || idx+1 >= len(iri) {
		return "", "", false
	}
	ns, local = iri[:idx+1], iri[idx+1:]
	return ns, local, isXMLName(local)
}

func isXMLName(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return s != ""
}

var xmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
)

func escapeXML(value string) string {
	return xmlEscaper.Replace(value)
}
