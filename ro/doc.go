// Package ro is a client for Research Objects held by a ROSRS service.
//
// A RemoteMetadata assembles the RO manifest and the annotation bodies it
// references into RDF graphs, answers queries over them, and drives the
// aggregation protocol: creating proxies, uploading content, aggregating
// external references and deaggregating.
//
//	s, err := httpsession.New("http://sandbox.example.org/ROs/", httpsession.WithAccessToken(token))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	r, err := ro.New(s, "myro")
//	if err != nil {
//		return err
//	}
//	res, err := r.QueryAnnotations(ctx, ro.SPARQLPrefixes()+"ASK { ?s dcterms:title ?t }", nil)
package ro
