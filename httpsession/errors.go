package httpsession

import (
	"errors"
	"strconv"
)

// Synthetic statuses reported in Response.Status. They never come from a
// server.
const (
	StatusTransportFailure = 900
	StatusNonRDFContent    = 901
	StatusRDFParseFailure  = 902
)

var (
	// ErrSchemeMismatch is returned for a request whose URI scheme differs
	// from the session base and which did not opt in to foreign hosts.
	ErrSchemeMismatch = errors.New("httpsession: URI scheme mismatch")
	// ErrHostMismatch is returned for a request whose host:port differs from
	// the session base and which did not opt in to foreign hosts.
	ErrHostMismatch = errors.New("httpsession: URI host:port mismatch")
	// ErrSessionClosed is returned by requests issued after Close.
	ErrSessionClosed = errors.New("httpsession: session closed")
	// ErrInvalidURI is returned for base or request URIs that cannot be parsed.
	ErrInvalidURI = errors.New("httpsession: invalid URI")
)

// Error describes a request refused before any I/O took place.
type Error struct {
	URI   string // session base URI
	Value string // offending scheme, host or reference
	Err   error
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.URI != "" {
		msg += " for " + e.URI
	}
	if e.Value != "" {
		msg += ": " + strconv.Quote(e.Value)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }
