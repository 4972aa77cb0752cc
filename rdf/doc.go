// Package rdf provides a compact RDF model, an indexed in-memory graph,
// document parsers and writers, and a small SPARQL evaluator.
//
// It covers what a linked-data client needs and no more:
//   - Model: IRI, BlankNode, Literal and Triple, compared with Equal.
//   - Graph: a triple set with pattern matching through range-over-func
//     iterators (Triples, Objects, Subjects).
//   - Parse: Parse and ParseInto read Turtle, N3 (Turtle subset), N-Triples,
//     RDF/XML and JSON-LD. ParseInto is atomic: on error the target graph is
//     left untouched.
//   - Write: WriteNTriples, WriteTurtle and WriteRDFXML.
//   - Query: ParseQuery and Graph.Query evaluate ASK and SELECT queries with
//     basic graph patterns, OPTIONAL, FILTER, ORDER BY, LIMIT and OFFSET.
//
// Blank nodes are scoped per parsed document, so merging several documents
// into one graph never conflates their blank nodes.
//
// Example:
//
//	g, err := rdf.Parse(ctx, strings.NewReader(input), rdf.FormatTurtle,
//	    rdf.OptBaseIRI("http://example.org/"))
//	if err != nil {
//	    // handle error
//	}
//	res, err := g.Query(ctx, "ASK { ?s a <http://example.org/T> }", nil)
//
// Parse failures are reported as *ParseError; use Code to classify them.
// RDFa is recognised as a format but has no parser and yields
// ErrUnsupportedFormat.
package rdf
