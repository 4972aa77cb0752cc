package ro

import (
	"errors"
	"testing"

	"github.com/geoknoesis/rosrs-go/httpsession"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := newError("create proxy", &httpsession.Response{Status: 409, Reason: "Conflict"}, "data/a.txt", ErrAggregation)
	assert.Equal(t, "ro: aggregation failed: create proxy: 409 Conflict (data/a.txt)", err.Error())
	assert.True(t, errors.Is(err, ErrAggregation))
	assert.False(t, errors.Is(err, ErrProtocol))

	bare := &Error{Err: ErrManifest}
	assert.Equal(t, "ro: manifest unavailable", bare.Error())
}

func TestAnnotationFailureString(t *testing.T) {
	f := AnnotationFailure{Body: "http://example.org/ann.ttl", Status: 902, Reason: "RDF parse failure: turtle"}
	assert.Equal(t, "http://example.org/ann.ttl: 902 RDF parse failure: turtle", f.String())
}
