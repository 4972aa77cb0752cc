package rdf

import (
	"encoding/json"
	"fmt"

	ld "github.com/piprate/json-gold/ld"
)

// parseJSONLD expands a JSON-LD document to RDF with json-gold and loads the
// resulting dataset. Named graphs are folded into g.
func parseJSONLD(input, base string, blanks *blankScope, g *Graph) error {
	var doc any
	if err := json.Unmarshal([]byte(input), &doc); err != nil {
		return &ParseError{Format: string(FormatJSONLD), Err: err}
	}
	proc := ld.NewJsonLdProcessor()
	opts := ld.NewJsonLdOptions(base)
	opts.Format = "application/n-quads"
	opts.DocumentLoader = localOnlyLoader{}
	result, err := proc.ToRDF(doc, opts)
	if err != nil {
		return &ParseError{Format: string(FormatJSONLD), Err: err}
	}
	nquads, ok := result.(string)
	if !ok {
		return &ParseError{Format: string(FormatJSONLD), Err: fmt.Errorf("unexpected ToRDF result %T", result)}
	}
	return parseNQuads(nquads, FormatJSONLD, blanks, g)
}

// localOnlyLoader refuses every remote document. Contexts must be inline:
// a remote @context would be fetched outside the caller's session, deadline
// and host checks.
type localOnlyLoader struct{}

func (localOnlyLoader) LoadDocument(iri string) (*ld.RemoteDocument, error) {
	return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, fmt.Sprintf("remote context %s not loaded", iri))
}
