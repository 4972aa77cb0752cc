package ro

import (
	"errors"
	"fmt"
	"strings"

	"github.com/geoknoesis/rosrs-go/httpsession"
)

var (
	// ErrAggregation reports a failed step of the aggregation protocol.
	ErrAggregation = errors.New("ro: aggregation failed")
	// ErrProtocol reports a service response that breaks the protocol, such
	// as a created proxy without an ore:proxyFor link.
	ErrProtocol = errors.New("ro: protocol violation")
	// ErrManifest reports a manifest that could not be retrieved.
	ErrManifest = errors.New("ro: manifest unavailable")
)

// Error describes a failed exchange with the service.
type Error struct {
	Op       string // e.g. "create proxy"
	Status   int
	Reason   string
	Resource string // path or URI the operation was about
	Err      error
}

func (e *Error) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Err.Error())
	if e.Op != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Op)
	}
	if e.Status != 0 {
		fmt.Fprintf(&msg, ": %03d %s", e.Status, e.Reason)
	}
	if e.Resource != "" {
		fmt.Fprintf(&msg, " (%s)", e.Resource)
	}
	return msg.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op string, resp *httpsession.Response, resource string, err error) *Error {
	return &Error{Op: op, Status: resp.Status, Reason: resp.Reason, Resource: resource, Err: err}
}

// AnnotationFailure records an annotation body that could not be merged.
type AnnotationFailure struct {
	Annotation string
	Body       string
	Status     int
	Reason     string
}

func (f AnnotationFailure) String() string {
	return fmt.Sprintf("%s: %03d %s", f.Body, f.Status, f.Reason)
}
