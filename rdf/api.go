package rdf

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxBytes bounds the size of a single parsed document.
const DefaultMaxBytes = 32 << 20

// Option configures parser behavior.
type Option func(*Options)

// Options configures parser behavior.
type Options struct {
	// Base IRI against which relative references are resolved
	Base string

	// Security limits for untrusted input
	MaxBytes   int64
	MaxTriples int

	// Prefix for blank node identifiers; a fresh random one is used when empty
	BlankScope string
}

func defaultOptions() Options {
	return Options{MaxBytes: DefaultMaxBytes}
}

// OptBaseIRI sets the base IRI for relative references.
func OptBaseIRI(base string) Option {
	return func(opts *Options) {
		opts.Base = base
	}
}

// OptMaxBytes sets the maximum document size. Negative disables the limit.
func OptMaxBytes(maxBytes int64) Option {
	return func(opts *Options) {
		opts.MaxBytes = maxBytes
	}
}

// OptMaxTriples sets the maximum number of triples a document may produce.
func OptMaxTriples(maxTriples int) Option {
	return func(opts *Options) {
		opts.MaxTriples = maxTriples
	}
}

// OptBlankScope fixes the blank node prefix. Documents parsed with distinct
// scopes never share blank nodes when merged into one graph.
func OptBlankScope(scope string) Option {
	return func(opts *Options) {
		opts.BlankScope = scope
	}
}

// Parse reads a document in the given format into a new graph.
func Parse(ctx context.Context, r io.Reader, format Format, opts ...Option) (*Graph, error) {
	g := NewGraph()
	if err := ParseInto(ctx, g, r, format, opts...); err != nil {
		return nil, err
	}
	return g, nil
}

// ParseInto reads a document and merges its triples into g. The document is
// parsed into a scratch graph first: on error g is left untouched.
func ParseInto(ctx context.Context, g *Graph, r io.Reader, format Format, opts ...Option) error {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	input, err := readDocument(r, options.MaxBytes)
	if err != nil {
		return wrapParseError(format, err)
	}

	scratch := NewGraph()
	blanks := newBlankScope(options.BlankScope)
	switch format {
	case FormatTurtle, FormatN3:
		err = parseTurtle(input, format, options.Base, blanks, scratch)
	case FormatNTriples:
		err = parseNTriples(input, blanks, scratch)
	case FormatRDFXML:
		err = parseRDFXML(input, options.Base, blanks, scratch)
	case FormatJSONLD:
		err = parseJSONLD(input, options.Base, blanks, scratch)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return wrapParseError(format, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if options.MaxTriples > 0 && scratch.Len() > options.MaxTriples {
		return wrapParseError(format, fmt.Errorf("%w: %d triples", ErrDocumentTooLarge, scratch.Len()))
	}
	g.Merge(scratch, nil)
	return nil
}

func readDocument(r io.Reader, maxBytes int64) (string, error) {
	if maxBytes < 0 {
		data, err := io.ReadAll(r)
		return string(data), err
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > maxBytes {
		return "", ErrDocumentTooLarge
	}
	return string(data), nil
}

// blankScope maps document blank node labels onto graph-unique identifiers.
type blankScope struct {
	prefix string
	count  int
}

func newBlankScope(prefix string) *blankScope {
	if prefix == "" {
		prefix = "u" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return &blankScope{prefix: prefix}
}

func (b *blankScope) labeled(label string) BlankNode {
	return BlankNode{ID: b.prefix + "l" + label}
}

func (b *blankScope) fresh() BlankNode {
	b.count++
	return BlankNode{ID: b.prefix + "g" + strconv.Itoa(b.count)}
}
