package httpsession

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redirectServer answers each path from routes with a redirect to the mapped
// location, or with 200 for unmapped paths. Visited paths are recorded.
type redirectServer struct {
	routes map[string]redirect
	mu     sync.Mutex
	hits   []string
}

type redirect struct {
	status   int
	location string
}

func (rs *redirectServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rs.mu.Lock()
	rs.hits = append(rs.hits, r.Method+" "+r.URL.Path)
	rs.mu.Unlock()
	route, ok := rs.routes[r.URL.Path]
	if !ok {
		_, _ = w.Write([]byte("final " + r.URL.Path))
		return
	}
	if route.location != "" {
		w.Header().Set("Location", route.location)
	}
	w.WriteHeader(route.status)
}

func (rs *redirectServer) visited() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.hits...)
}

func TestDoFollowRedirects(t *testing.T) {
	cases := []struct {
		name     string
		routes   map[string]redirect
		status   int
		finalURI string
		visited  []string
	}{
		{
			name:     "no redirect",
			status:   http.StatusOK,
			finalURI: "/a",
			visited:  []string{"GET /a"},
		},
		{
			name: "see other then temporary",
			routes: map[string]redirect{
				"/a": {http.StatusSeeOther, "/b"},
				"/b": {http.StatusTemporaryRedirect, "c"},
			},
			status:   http.StatusOK,
			finalURI: "/c",
			visited:  []string{"GET /a", "GET /b", "GET /c"},
		},
		{
			name: "second see other is not followed",
			routes: map[string]redirect{
				"/a": {http.StatusSeeOther, "/b"},
				"/b": {http.StatusSeeOther, "/c"},
			},
			status:   http.StatusSeeOther,
			finalURI: "/b",
			visited:  []string{"GET /a", "GET /b"},
		},
		{
			name: "at most two hops",
			routes: map[string]redirect{
				"/a": {http.StatusFound, "/b"},
				"/b": {http.StatusFound, "/c"},
				"/c": {http.StatusFound, "/d"},
			},
			status:   http.StatusFound,
			finalURI: "/c",
			visited:  []string{"GET /a", "GET /b", "GET /c"},
		},
		{
			name:     "permanent redirect is returned",
			routes:   map[string]redirect{"/a": {http.StatusMovedPermanently, "/b"}},
			status:   http.StatusMovedPermanently,
			finalURI: "/a",
			visited:  []string{"GET /a"},
		},
		{
			name:     "missing location",
			routes:   map[string]redirect{"/a": {http.StatusSeeOther, ""}},
			status:   http.StatusSeeOther,
			finalURI: "/a",
			visited:  []string{"GET /a"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs := &redirectServer{routes: tc.routes}
			srv := httptest.NewServer(rs)
			defer srv.Close()
			s := newTestSession(t, srv.URL+"/")

			resp, err := s.DoFollowRedirects(context.Background(), &Request{URI: "a"})
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.Status)
			assert.Equal(t, srv.URL+tc.finalURI, resp.URI)
			assert.Equal(t, tc.visited, rs.visited())
		})
	}
}

func TestDoFollowRedirectsRepeatsRequest(t *testing.T) {
	var (
		mu      sync.Mutex
		accepts []string
	)
	rs := &redirectServer{routes: map[string]redirect{"/ro/": {http.StatusSeeOther, "/ro/.ro/manifest.rdf"}}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		accepts = append(accepts, r.Header.Get("Accept"))
		mu.Unlock()
		rs.ServeHTTP(w, r)
	}))
	defer srv.Close()
	s := newTestSession(t, srv.URL+"/")

	resp, err := s.DoFollowRedirects(context.Background(), &Request{URI: "ro/", Method: http.MethodHead, Accept: "text/turtle"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, []string{"HEAD /ro/", "HEAD /ro/.ro/manifest.rdf"}, rs.visited())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"text/turtle", "text/turtle"}, accepts)
}

func TestDoFollowRedirectsForeignLocation(t *testing.T) {
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("elsewhere"))
	}))
	defer foreign.Close()
	rs := &redirectServer{routes: map[string]redirect{"/a": {http.StatusTemporaryRedirect, foreign.URL + "/b"}}}
	srv := httptest.NewServer(rs)
	defer srv.Close()
	s := newTestSession(t, srv.URL+"/")

	_, err := s.DoFollowRedirects(context.Background(), &Request{URI: "a"})
	require.ErrorIs(t, err, ErrHostMismatch)

	resp, err := s.DoFollowRedirects(context.Background(), &Request{URI: "a", AllowForeignHost: true})
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", string(resp.Body))
	assert.Equal(t, foreign.URL+"/b", resp.URI)
}
