package ro

import (
	"context"
	"iter"
	"strings"
	"time"

	"github.com/geoknoesis/rosrs-go/httpsession"
	"github.com/geoknoesis/rosrs-go/rdf"
	"go.uber.org/zap"
)

// Default location of the manifest beneath the RO URI.
const (
	DefaultManifestDir  = ".ro"
	DefaultManifestFile = "manifest.rdf"
)

// RemoteMetadata gives access to one Research Object held by a ROSRS
// service. The manifest and annotation graphs are loaded on first use and
// cached for the lifetime of the value; concurrent first loads must be
// serialised by the caller.
type RemoteMetadata struct {
	session *httpsession.Session
	logger  *zap.Logger

	ref          string
	uri          string
	manifestDir  string
	manifestFile string
	inMemory     bool

	manifest        *rdf.Graph
	manifestExpires time.Time
	annotations     *rdf.Graph
	failures        []AnnotationFailure
}

// Option configures a RemoteMetadata.
type Option func(*RemoteMetadata)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *RemoteMetadata) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithInMemoryManifest skips the manifest fetch and starts from a graph that
// only types the RO as ro:ResearchObject. Used for offline testing.
func WithInMemoryManifest() Option {
	return func(r *RemoteMetadata) {
		r.inMemory = true
	}
}

// WithManifestLocation overrides the manifest directory and file name.
func WithManifestLocation(dir, file string) Option {
	return func(r *RemoteMetadata) {
		if dir != "" {
			r.manifestDir = strings.Trim(dir, "/")
		}
		if file != "" {
			r.manifestFile = file
		}
	}
}

// New opens the RO at roRef, resolved against the session base URI. No
// request is made until the manifest is needed.
func New(session *httpsession.Session, roRef string, opts ...Option) (*RemoteMetadata, error) {
	uri, err := session.ResolveURI(roRef)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(uri, "/") {
		uri += "/"
	}
	r := &RemoteMetadata{
		session:      session,
		logger:       zap.NewNop(),
		ref:          roRef,
		uri:          uri,
		manifestDir:  DefaultManifestDir,
		manifestFile: DefaultManifestFile,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// LoadManifest returns the manifest graph, fetching it on the first call
// only. A failed fetch is not cached. Once loaded, the RO URI is taken from
// the manifest's own ro:ResearchObject assertion.
func (r *RemoteMetadata) LoadManifest(ctx context.Context) (*rdf.Graph, error) {
	if r.manifest != nil {
		return r.manifest, nil
	}
	g := rdf.NewGraph()
	if r.inMemory {
		g.Add(rdf.Triple{S: rdf.IRI{Value: r.uri}, P: rdf.RDFType, O: ResearchObject})
	} else {
		uri := r.ManifestURI()
		resp, err := r.session.DoRDFFollowRedirects(ctx, &httpsession.Request{URI: uri}, g)
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			r.logger.Warn("manifest unavailable",
				zap.String("uri", uri),
				zap.Int("status", resp.Status),
				zap.String("reason", resp.Reason),
			)
			return nil, newError("load manifest", resp, uri, ErrManifest)
		}
		r.manifestExpires = resp.Expires
		r.logger.Debug("manifest loaded", zap.String("uri", uri), zap.Int("triples", g.Len()))
	}
	if subject, ok := g.Subject(rdf.RDFType, ResearchObject); ok && rdf.IsIRI(subject) {
		r.uri = subject.(rdf.IRI).Value
	}
	r.manifest = g
	return g, nil
}

// ManifestExpires returns the freshness deadline the service advertised for
// the manifest, or the zero time when there was none.
func (r *RemoteMetadata) ManifestExpires() time.Time {
	return r.manifestExpires
}

// AggregatedResources iterates the resources the manifest says the RO
// aggregates.
func (r *RemoteMetadata) AggregatedResources(ctx context.Context) (iter.Seq[rdf.Term], error) {
	g, err := r.LoadManifest(ctx)
	if err != nil {
		return nil, err
	}
	return g.Objects(rdf.IRI{Value: r.uri}, Aggregates), nil
}

// IsAggregated reports whether the manifest lists uri, resolved against the
// RO URI, as aggregated. The manifest is fetched only if it was never loaded.
func (r *RemoteMetadata) IsAggregated(ctx context.Context, uri string) (bool, error) {
	g, err := r.LoadManifest(ctx)
	if err != nil {
		return false, err
	}
	return g.Contains(rdf.Triple{
		S: rdf.IRI{Value: r.uri},
		P: Aggregates,
		O: rdf.IRI{Value: r.ComponentURI(uri)},
	}), nil
}

// ManifestContains reports whether the manifest holds t.
func (r *RemoteMetadata) ManifestContains(ctx context.Context, t rdf.Triple) (bool, error) {
	g, err := r.LoadManifest(ctx)
	if err != nil {
		return false, err
	}
	return g.Contains(t), nil
}

// ResourceValue returns the manifest value of predicate for resource, or nil.
func (r *RemoteMetadata) ResourceValue(ctx context.Context, resource, predicate rdf.Term) (rdf.Term, error) {
	g, err := r.LoadManifest(ctx)
	if err != nil {
		return nil, err
	}
	value, _ := g.Object(resource, predicate)
	return value, nil
}

// ResourceType returns the rdf:type of resource recorded in the manifest.
func (r *RemoteMetadata) ResourceType(ctx context.Context, resource rdf.Term) (rdf.Term, error) {
	return r.ResourceValue(ctx, resource, rdf.RDFType)
}

// Metadata summarises the RO as described by its manifest.
type Metadata struct {
	URI         string
	Identifier  string
	Title       string
	Creator     string
	Created     string
	Description string
}

// Metadata reads the Dublin Core description of the RO from the manifest.
func (r *RemoteMetadata) Metadata(ctx context.Context) (*Metadata, error) {
	g, err := r.LoadManifest(ctx)
	if err != nil {
		return nil, err
	}
	self := rdf.IRI{Value: r.uri}
	value := func(p rdf.IRI) string {
		term, ok := g.Object(self, p)
		if !ok {
			return ""
		}
		return termText(term)
	}
	return &Metadata{
		URI:         r.uri,
		Identifier:  value(DCTermsIdentifier),
		Title:       value(DCTermsTitle),
		Creator:     value(DCTermsCreator),
		Created:     value(DCTermsCreated),
		Description: value(DCTermsDescription),
	}, nil
}

func termText(term rdf.Term) string {
	switch t := term.(type) {
	case rdf.Literal:
		return t.Lexical
	case rdf.IRI:
		return t.Value
	}
	return term.String()
}
