package httpsession

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/geoknoesis/rosrs-go/rdf"
	"github.com/pquerna/cachecontrol"
)

// Request describes one request issued through a Session. URI is resolved
// against the session base URI.
type Request struct {
	URI         string
	Method      string // defaults to GET
	Body        []byte
	ContentType string
	Accept      string
	Header      map[string]string

	// AllowForeignHost permits a URI outside the session endpoint. Such
	// requests travel on a throwaway connection without the credential.
	AllowForeignHost bool
}

// Response is the outcome of a request. Status values of 900 and above are
// synthesized by the client; see StatusTransportFailure and friends.
type Response struct {
	Status int
	Reason string

	// Header holds lower-cased names; for repeated fields the last value wins.
	Header map[string]string
	// HeaderList keeps every received field in order.
	HeaderList []HeaderField

	// Body is nil unless the status is 2xx.
	Body []byte
	// Graph is set by the RDF negotiating requests on success.
	Graph *rdf.Graph

	// URI is the absolute URI that produced this response.
	URI string
	// Expires is the freshness lifetime advertised by the server, if any.
	Expires time.Time
}

// Get returns the last value of the named header.
func (r *Response) Get(name string) string {
	return r.Header[strings.ToLower(name)]
}

// Links parses the link headers of the response.
func (r *Response) Links() map[string]string {
	return ParseLinks(r.HeaderList)
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsSynthetic reports a status invented by the client.
func (r *Response) IsSynthetic() bool {
	return r.Status >= StatusTransportFailure
}

func (r *Response) String() string {
	return strconv.Itoa(r.Status) + " " + r.Reason
}

func transportFailure(uri string, err error) *Response {
	return &Response{
		Status: StatusTransportFailure,
		Reason: err.Error(),
		Header: map[string]string{},
		URI:    uri,
	}
}

func newResponse(req *http.Request, resp *http.Response, body []byte) *Response {
	out := &Response{
		Status: resp.StatusCode,
		Reason: reasonPhrase(resp),
		Header: make(map[string]string, len(resp.Header)),
		URI:    req.URL.String(),
	}
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, value := range resp.Header[name] {
			out.HeaderList = append(out.HeaderList, HeaderField{Name: lower, Value: value})
			out.Header[lower] = value
		}
	}
	if out.IsSuccess() {
		out.Body = body
		reasons, expires, err := cachecontrol.CachableResponse(req, resp, cachecontrol.Options{PrivateCache: true})
		if err == nil && len(reasons) == 0 {
			out.Expires = expires
		}
	}
	return out
}

func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return http.StatusText(resp.StatusCode)
	}
	return reason
}
