package rdf

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// WriteNTriples serializes g as N-Triples in insertion order.
func WriteNTriples(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	for t := range g.All() {
		if _, err := bw.WriteString(t.String() + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTurtle serializes g as Turtle, grouping statements by subject and
// abbreviating IRIs with prefixes where the local part allows it.
func WriteTurtle(w io.Writer, g *Graph, prefixes map[string]string) error {
	bw := bufio.NewWriter(w)
	keys := sortedPrefixKeys(prefixes)
	for _, prefix := range keys {
		fmt.Fprintf(bw, "@prefix %s: <%s> .\n", prefix, escapeIRI(prefixes[prefix]))
	}
	if len(keys) > 0 {
		bw.WriteString("\n")
	}

	var order []string
	bySubject := make(map[string][]Triple)
	for t := range g.All() {
		key := termKey(t.S)
		if _, ok := bySubject[key]; !ok {
			order = append(order, key)
		}
		bySubject[key] = append(bySubject[key], t)
	}
	for _, key := range order {
		group := bySubject[key]
		bw.WriteString(renderTermWithPrefixes(group[0].S, prefixes))
		for i, t := range group {
			switch {
			case i == 0:
				bw.WriteString(" ")
			case t.P == group[i-1].P:
				bw.WriteString(" ,\n        ")
				bw.WriteString(renderTermWithPrefixes(t.O, prefixes))
				continue
			default:
				bw.WriteString(" ;\n    ")
			}
			if t.P == RDFType {
				bw.WriteString("a ")
			} else {
				bw.WriteString(renderTermWithPrefixes(t.P, prefixes) + " ")
			}
			bw.WriteString(renderTermWithPrefixes(t.O, prefixes))
		}
		bw.WriteString(" .\n")
	}
	return bw.Flush()
}

func renderTerm(term Term) string {
	return renderTermWithPrefixes(term, nil)
}

func renderTermWithPrefixes(term Term, prefixes map[string]string) string {
	switch value := term.(type) {
	case IRI:
		if qname, ok := abbreviateQName(value.Value, prefixes); ok {
			return qname
		}
		return "<" + escapeIRI(value.Value) + ">"
	case BlankNode:
		return value.String()
	case Literal:
		quoted := `"` + escapeLiteral(value.Lexical) + `"`
		if value.Lang != "" {
			return quoted + "@" + value.Lang
		}
		if value.Datatype.Value != "" {
			return quoted + "^^" + renderTermWithPrefixes(value.Datatype, prefixes)
		}
		return quoted
	case nil:
		return ""
	default:
		return value.String()
	}
}

func sortedPrefixKeys(prefixes map[string]string) []string {
	keys := make([]string, 0, len(prefixes))
	for key := range prefixes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// abbreviateQName picks the longest matching namespace.
func abbreviateQName(iri string, prefixes map[string]string) (string, bool) {
	bestNS, bestPrefix, found := "", "", false
	for prefix, ns := range prefixes {
		if ns == "" || !strings.HasPrefix(iri, ns) || !isQNameLocal(iri[len(ns):]) {
			continue
		}
		if len(ns) > len(bestNS) {
			bestNS, bestPrefix, found = ns, prefix, true
		}
	}
	if !found {
		return "", false
	}
	return bestPrefix + ":" + iri[len(bestNS):], true
}

func isQNameLocal(local string) bool {
	for i, r := range local {
		if i == 0 && (r == '-' || r == '.') {
			return false
		}
		if r == '.' && i == len(local)-1 {
			return false
		}
		if !isNameRune(r) && r != '.' {
			return false
		}
	}
	return true
}

func escapeIRI(value string) string {
	if !strings.ContainsAny(value, "<>\"{}|^`\\ ") {
		return value
	}
	var b strings.Builder
	for _, r := range value {
		if r <= ' ' || strings.ContainsRune("<>\"{}|^`\\", r) {
			fmt.Fprintf(&b, `\u%04X`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func escapeLiteral(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
