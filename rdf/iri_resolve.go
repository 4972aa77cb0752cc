package rdf

import (
	"net/url"
	"strings"
)

// resolveIRI resolves ref against base according to RFC 3986. Absolute
// references, and any reference when base is empty, are returned unchanged.
func resolveIRI(base, ref string) string {
	if base == "" {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return joinIRI(base, ref)
	}
	if refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return joinIRI(base, ref)
	}
	return baseURL.ResolveReference(refURL).String()
}

// joinIRI appends ref to the directory of base for inputs net/url rejects.
func joinIRI(base, ref string) string {
	if strings.HasSuffix(base, "/") {
		return base + ref
	}
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		return base[:idx+1] + ref
	}
	return base + "/" + ref
}
