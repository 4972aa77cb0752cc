package httpsession

import (
	"bytes"
	"context"

	"github.com/geoknoesis/rosrs-go/rdf"
	"go.uber.org/zap"
)

// AcceptRDF is the accept header sent by the RDF negotiating requests.
const AcceptRDF = "application/rdf+xml, text/turtle"

// DoRDF issues req asking for RDF and parses a 2xx body into graph, or into
// a fresh graph when graph is nil. A body in a non-RDF media type yields
// StatusNonRDFContent; a body that fails to parse yields
// StatusRDFParseFailure with the raw body kept and graph untouched.
func (s *Session) DoRDF(ctx context.Context, req *Request, graph *rdf.Graph) (*Response, error) {
	r := *req
	r.Accept = AcceptRDF
	return s.do(ctx, &r, func(resp *Response) {
		s.negotiate(ctx, resp, graph)
	})
}

func (s *Session) negotiate(ctx context.Context, resp *Response, graph *rdf.Graph) {
	if !resp.IsSuccess() {
		return
	}
	format, ok := rdf.FormatForMediaType(resp.Header["content-type"])
	if !ok {
		resp.Status = StatusNonRDFContent
		resp.Reason = "Non-RDF content-type returned"
		return
	}
	if graph == nil {
		graph = rdf.NewGraph()
	}
	if err := rdf.ParseInto(ctx, graph, bytes.NewReader(resp.Body), format, rdf.OptBaseIRI(resp.URI)); err != nil {
		s.logger.Info("RDF parse failure",
			zap.String("uri", resp.URI),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		resp.Status = StatusRDFParseFailure
		resp.Reason = "RDF parse failure: " + string(format)
		return
	}
	resp.Graph = graph
}

// DoRDFFollowRedirects combines DoRDF with the redirect policy of
// DoFollowRedirects. Every hop parses into the same graph.
func (s *Session) DoRDFFollowRedirects(ctx context.Context, req *Request, graph *rdf.Graph) (*Response, error) {
	return followRedirects(ctx, req, func(ctx context.Context, r *Request) (*Response, error) {
		return s.DoRDF(ctx, r, graph)
	})
}
