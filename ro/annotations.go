package ro

import (
	"context"
	"iter"
	"slices"

	"github.com/geoknoesis/rosrs-go/httpsession"
	"github.com/geoknoesis/rosrs-go/rdf"
	"go.uber.org/zap"
)

// LoadAnnotations returns the union of every annotation body the manifest
// references, assembled on the first call only. Triples with a blank-node
// subject are left out. A body that cannot be fetched or parsed is logged,
// recorded in AnnotationFailures and skipped.
func (r *RemoteMetadata) LoadAnnotations(ctx context.Context) (*rdf.Graph, error) {
	if r.annotations != nil {
		return r.annotations, nil
	}
	manifest, err := r.LoadManifest(ctx)
	if err != nil {
		return nil, err
	}

	merged := rdf.NewGraph()
	var failures []AnnotationFailure
	seen := make(map[string]struct{})
	for t := range manifest.Triples(nil, AnnotatesAggregatedResource, nil) {
		for body := range manifest.Objects(t.S, AnnotationBody) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !rdf.IsIRI(body) {
				failures = append(failures, r.annotationFailure(t.S, body.String(), 0, "annotation body is not an IRI"))
				continue
			}
			uri := r.ComponentURI(body.(rdf.IRI).Value)
			if _, dup := seen[uri]; dup {
				continue
			}
			seen[uri] = struct{}{}
			if f, ok := r.readAnnotationBody(ctx, t.S, uri, merged); !ok {
				failures = append(failures, f)
			}
		}
	}
	r.logger.Debug("annotations loaded",
		zap.String("ro", r.uri),
		zap.Int("bodies", len(seen)),
		zap.Int("failed", len(failures)),
		zap.Int("triples", merged.Len()),
	)
	r.annotations = merged
	r.failures = failures
	return merged, nil
}

func (r *RemoteMetadata) readAnnotationBody(ctx context.Context, ann rdf.Term, uri string, merged *rdf.Graph) (AnnotationFailure, bool) {
	scratch := rdf.NewGraph()
	resp, err := r.session.DoRDFFollowRedirects(ctx, &httpsession.Request{URI: uri, AllowForeignHost: true}, scratch)
	if err != nil {
		return r.annotationFailure(ann, uri, 0, err.Error()), false
	}
	if !resp.IsSuccess() {
		return r.annotationFailure(ann, uri, resp.Status, resp.Reason), false
	}
	merged.Merge(scratch, func(t rdf.Triple) bool {
		return !rdf.IsBlank(t.S)
	})
	return AnnotationFailure{}, true
}

func (r *RemoteMetadata) annotationFailure(ann rdf.Term, body string, status int, reason string) AnnotationFailure {
	r.logger.Warn("annotation body skipped",
		zap.Stringer("annotation", ann),
		zap.String("body", body),
		zap.Int("status", status),
		zap.String("reason", reason),
	)
	return AnnotationFailure{Annotation: ann.String(), Body: body, Status: status, Reason: reason}
}

// AnnotationFailures returns the bodies LoadAnnotations had to skip.
func (r *RemoteMetadata) AnnotationFailures() []AnnotationFailure {
	return slices.Clone(r.failures)
}

// Annotations iterates annotation triples matching subject and predicate;
// nil matches anything. The sequence can be ranged over more than once.
func (r *RemoteMetadata) Annotations(ctx context.Context, subject, predicate rdf.Term) (iter.Seq[rdf.Triple], error) {
	g, err := r.LoadAnnotations(ctx)
	if err != nil {
		return nil, err
	}
	return func(yield func(rdf.Triple) bool) {
		for t := range g.Triples(subject, predicate, nil) {
			if rdf.IsBlank(t.S) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}, nil
}

// ROAnnotations iterates annotations about the RO itself.
func (r *RemoteMetadata) ROAnnotations(ctx context.Context) (iter.Seq[rdf.Triple], error) {
	return r.Annotations(ctx, rdf.IRI{Value: r.uri}, nil)
}

// ComponentAnnotations iterates annotations about the component at path.
func (r *RemoteMetadata) ComponentAnnotations(ctx context.Context, path string) (iter.Seq[rdf.Triple], error) {
	return r.Annotations(ctx, rdf.IRI{Value: r.ComponentURI(path)}, nil)
}

// AllAnnotations iterates every annotation triple.
func (r *RemoteMetadata) AllAnnotations(ctx context.Context) (iter.Seq[rdf.Triple], error) {
	return r.Annotations(ctx, nil, nil)
}

// AnnotationValues iterates the values of predicate for the component at path.
func (r *RemoteMetadata) AnnotationValues(ctx context.Context, path string, predicate rdf.Term) (iter.Seq[rdf.Term], error) {
	triples, err := r.Annotations(ctx, rdf.IRI{Value: r.ComponentURI(path)}, predicate)
	if err != nil {
		return nil, err
	}
	return func(yield func(rdf.Term) bool) {
		for t := range triples {
			if !yield(t.O) {
				return
			}
		}
	}, nil
}

// QueryAnnotations evaluates an ASK or SELECT query over the annotation
// graph. Other query forms fail with rdf.ErrUnsupportedQueryForm before any
// request is made.
func (r *RemoteMetadata) QueryAnnotations(ctx context.Context, query string, bindings map[string]rdf.Term) (*rdf.QueryResult, error) {
	q, err := rdf.ParseQuery(query)
	if err != nil {
		return nil, err
	}
	g, err := r.LoadAnnotations(ctx)
	if err != nil {
		return nil, err
	}
	return q.Evaluate(ctx, g, bindings)
}
