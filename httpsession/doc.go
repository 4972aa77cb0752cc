// Package httpsession is an HTTP client bound to a single endpoint.
//
// A Session enforces endpoint affinity (scheme and host:port), attaches a
// bearer credential to its own endpoint only, follows redirects under a
// bounded policy and negotiates RDF responses into an rdf.Graph. Failures of
// the transport and of the payload are reported as synthetic statuses
// (900, 901, 902) rather than errors, so callers handle them alongside
// ordinary non-2xx responses. Only contract violations, such as a request
// for a foreign host without opting in, are returned as errors.
//
// The package also exports the header tokenizer and Link header parser the
// session uses: SplitValues, SplitHeaderValues and ParseLinks.
package httpsession
