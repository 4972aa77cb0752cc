package ro

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const proxyForRel = `<data/new.txt>; rel="http://www.openarchives.org/ore/terms/proxyFor"`

// aggregationService emulates the proxy and content endpoints of ro1.
type aggregationService struct {
	mu      sync.Mutex
	content map[string]string
	types   map[string]string
	proxies []string
}

func (a *aggregationService) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /ROs/ro1/{$}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ProxyContentType, r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		a.mu.Lock()
		a.proxies = append(a.proxies, string(body))
		a.mu.Unlock()
		switch r.Header.Get("Slug") {
		case "":
			if !strings.Contains(string(body), "nolocation") {
				w.Header().Set("Location", "/ROs/ro1/.ro/proxies/ext")
			}
		case "data/new.txt":
			w.Header().Set("Location", "/ROs/ro1/.ro/proxies/new")
			w.Header().Set("Link", proxyForRel)
		case "data/nolink.txt":
			w.Header().Set("Location", "/ROs/ro1/.ro/proxies/nolink")
		case "data/nolocation.txt":
			w.Header().Set("Link", `<data/nolocation.txt>; rel="http://www.openarchives.org/ore/terms/proxyFor"`)
		case "data/locked.txt":
			w.Header().Set("Location", "/ROs/ro1/.ro/proxies/locked")
			w.Header().Set("Link", `<data/locked.txt>; rel="http://www.openarchives.org/ore/terms/proxyFor"`)
		default:
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("PUT /ROs/ro1/data/{name}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("name") == "locked.txt" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		body, _ := io.ReadAll(r.Body)
		a.mu.Lock()
		defer a.mu.Unlock()
		_, existed := a.content[r.URL.Path]
		a.content[r.URL.Path] = string(body)
		a.types[r.URL.Path] = r.Header.Get("Content-Type")
		if existed {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.Handle("GET /ROs/ro1/.ro/manifest.rdf", serveText("text/turtle", manifestTemplate))
	mux.HandleFunc("DELETE /ROs/ro1/.ro/proxies/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /ROs/ro1/data/other.txt", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ROs/ro1/.ro/proxies/p2", http.StatusSeeOther)
	})
	mux.HandleFunc("DELETE /ROs/ro1/data/busy.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	mux.HandleFunc("DELETE /ROs/ro1/data/{name}", http.NotFound)
	mux.HandleFunc("GET /ROs/ro1/data/{name}", http.NotFound)
	mux.HandleFunc("GET /ROs/ro1/data/a.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("content"))
	})
	mux.HandleFunc("GET /ROs/ro1/secret", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	return mux
}

func newAggregationFixture(t *testing.T) (*RemoteMetadata, *aggregationService, *hitCounter, string) {
	t.Helper()
	svc := &aggregationService{content: map[string]string{}, types: map[string]string{}}
	hits := &hitCounter{}
	srv := httptest.NewServer(hits.wrap(svc.handler(t)))
	t.Cleanup(srv.Close)
	s := newTestSession(t, srv.URL+"/ROs/")
	r, err := New(s, "ro1")
	require.NoError(t, err)
	return r, svc, hits, srv.URL + "/ROs/ro1/"
}

func TestAggregateInternal(t *testing.T) {
	r, svc, _, roURI := newAggregationFixture(t)

	proxy, resource, err := r.AggregateInternal(context.Background(), "data/new.txt", "text/plain", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, roURI+".ro/proxies/new", proxy)
	assert.Equal(t, roURI+"data/new.txt", resource)
	assert.Equal(t, "hello", svc.content["/ROs/ro1/data/new.txt"])
	assert.Equal(t, "text/plain", svc.types["/ROs/ro1/data/new.txt"])
	require.Len(t, svc.proxies, 1)
	assert.Equal(t, proxyDocument, svc.proxies[0])
}

func TestAggregateInternalDefaultContentType(t *testing.T) {
	r, svc, _, _ := newAggregationFixture(t)

	_, _, err := r.AggregateInternal(context.Background(), "data/new.txt", "", []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", svc.types["/ROs/ro1/data/new.txt"])
}

func TestAggregateInternalFailures(t *testing.T) {
	cases := []struct {
		path   string
		target error
		status int
		puts   int
	}{
		{"data/conflict.txt", ErrAggregation, http.StatusConflict, 0},
		{"data/nolink.txt", ErrProtocol, http.StatusCreated, 0},
		{"data/nolocation.txt", ErrProtocol, http.StatusCreated, 0},
		{"data/locked.txt", ErrAggregation, http.StatusForbidden, 1},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			r, _, hits, _ := newAggregationFixture(t)

			_, _, err := r.AggregateInternal(context.Background(), tc.path, "text/plain", []byte("x"))
			require.ErrorIs(t, err, tc.target)
			var roErr *Error
			require.ErrorAs(t, err, &roErr)
			assert.Equal(t, tc.status, roErr.Status)
			assert.Equal(t, tc.puts, hits.count("PUT /ROs/ro1/"+tc.path))
		})
	}
}

func TestUpdateInternal(t *testing.T) {
	r, svc, _, roURI := newAggregationFixture(t)
	ctx := context.Background()
	_, resource, err := r.AggregateInternal(ctx, "data/new.txt", "text/plain", []byte("v1"))
	require.NoError(t, err)

	resp, err := r.UpdateInternal(ctx, resource, "text/csv", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "v2", svc.content["/ROs/ro1/data/new.txt"])
	assert.Equal(t, "text/csv", svc.types["/ROs/ro1/data/new.txt"])

	_, err = r.UpdateInternal(ctx, roURI+"data/fresh.txt", "", []byte("v1"))
	require.ErrorIs(t, err, ErrAggregation, "201 on update means the resource was not aggregated")
}

func TestAggregateExternal(t *testing.T) {
	r, svc, _, roURI := newAggregationFixture(t)

	proxy, resource, err := r.AggregateExternal(context.Background(), "http://external.example/x?a=1&b=2")
	require.NoError(t, err)
	assert.Equal(t, roURI+".ro/proxies/ext", proxy)
	assert.Equal(t, "http://external.example/x?a=1&b=2", resource)
	require.Len(t, svc.proxies, 1)
	assert.Contains(t, svc.proxies[0], `<ore:proxyFor rdf:resource="http://external.example/x?a=1&amp;b=2" />`)

	_, _, err = r.AggregateExternal(context.Background(), "http://external.example/nolocation")
	require.ErrorIs(t, err, ErrProtocol)
	var roErr *Error
	require.ErrorAs(t, err, &roErr)
	assert.Equal(t, http.StatusCreated, roErr.Status)
}

func TestDeaggregate(t *testing.T) {
	cases := []struct {
		name    string
		target  string
		status  int
		deleted string
	}{
		{"proxy from manifest", "data/a.txt", http.StatusNoContent, ".ro/proxies/p1"},
		{"redirect to proxy", "data/other.txt", http.StatusNoContent, ".ro/proxies/p2"},
		{"already removed", "data/gone.txt", http.StatusNotFound, "data/gone.txt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _, hits, roURI := newAggregationFixture(t)

			resp, err := r.Deaggregate(context.Background(), tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.Status)
			assert.Equal(t, roURI+tc.deleted, resp.URI)
			assert.Zero(t, hits.count("DELETE /ROs/ro1/data/a.txt"))
		})
	}
}

func TestDeaggregateFailure(t *testing.T) {
	r, _, _, _ := newAggregationFixture(t)

	_, err := r.Deaggregate(context.Background(), "data/busy.txt")
	require.ErrorIs(t, err, ErrAggregation)
	var roErr *Error
	require.ErrorAs(t, err, &roErr)
	assert.Equal(t, http.StatusInternalServerError, roErr.Status)
}

func TestHead(t *testing.T) {
	r, _, _, roURI := newAggregationFixture(t)
	ctx := context.Background()

	resp, err := r.Head(ctx, roURI+"data/a.txt")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "text/plain", resp.Get("content-type"))

	resp, err = r.Head(ctx, roURI+"data/nothing.txt")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	_, err = r.Head(ctx, roURI+"secret")
	require.ErrorIs(t, err, ErrProtocol)
}
