package httpsession

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLinks(t *testing.T) {
	headers := []HeaderField{
		{Name: "content-type", Value: "text/turtle"},
		{Name: "link", Value: `<http://example.org/a>; rel="self", <http://example.org/b>;rel=next`},
		{Name: "Link", Value: `<http://example.org/c> ; rel = "self"`},
		{Name: "link", Value: `garbage; rel=broken, <http://example.org/d>; title="x,y"; rel="http://purl.org/ao/body"`},
	}
	links := ParseLinks(headers)
	assert.Equal(t, map[string]string{
		"self":                    "http://example.org/c",
		"next":                    "http://example.org/b",
		"http://purl.org/ao/body": "http://example.org/d",
	}, links)
}

func TestParseLinksEmpty(t *testing.T) {
	assert.Empty(t, ParseLinks(nil))
	assert.Empty(t, ParseLinks([]HeaderField{{Name: "link", Value: "<http://example.org/a>"}}))
}

func TestResponseLinks(t *testing.T) {
	resp := &Response{HeaderList: []HeaderField{
		{Name: "link", Value: `<http://example.org/ro/a>; rel="http://www.openarchives.org/ore/terms/proxyFor"`},
	}}
	assert.Equal(t, "http://example.org/ro/a", resp.Links()["http://www.openarchives.org/ore/terms/proxyFor"])
}
