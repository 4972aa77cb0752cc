package httpsession

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Session issues requests against a single endpoint identified by scheme
// and host:port. Requests for other endpoints are refused unless they opt in
// with Request.AllowForeignHost. A Session is meant for one caller at a
// time.
type Session struct {
	base    *url.URL
	baseURI string
	token   string

	logger     *zap.Logger
	timeout    time.Duration
	userAgent  string
	registerer prometheus.Registerer
	metrics    *sessionMetrics

	transport        http.RoundTripper
	foreignTransport func() http.RoundTripper
	client           *http.Client
	closed           bool
}

// New returns a Session for the endpoint of baseURI.
func New(baseURI string, opts ...Option) (*Session, error) {
	base, err := url.Parse(baseURI)
	if err != nil || !base.IsAbs() || base.Host == "" {
		return nil, &Error{Value: baseURI, Err: ErrInvalidURI}
	}
	s := &Session{
		base:    base,
		baseURI: baseURI,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.transport == nil {
		s.transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	if s.foreignTransport == nil {
		s.foreignTransport = func() http.RoundTripper {
			t := http.DefaultTransport.(*http.Transport).Clone()
			t.DisableKeepAlives = true
			return t
		}
	}
	s.client = s.newClient(s.transport)
	if s.metrics, err = newSessionMetrics(s.registerer); err != nil {
		return nil, fmt.Errorf("httpsession: register metrics: %w", err)
	}
	return s, nil
}

func (s *Session) newClient(rt http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: rt,
		Timeout:   s.timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// BaseURI returns the URI the session was created with.
func (s *Session) BaseURI() string {
	return s.baseURI
}

// ResolveURI resolves ref against the session base URI.
func (s *Session) ResolveURI(ref string) (string, error) {
	u, err := s.resolve(ref)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *Session) resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, &Error{URI: s.baseURI, Value: ref, Err: ErrInvalidURI}
	}
	return s.base.ResolveReference(u), nil
}

// Close drops the credential and releases the persistent connection. It is
// safe to call more than once; later requests fail with ErrSessionClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.token = ""
	closeIdle(s.transport)
	return nil
}

func closeIdle(rt http.RoundTripper) {
	if c, ok := rt.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}

// Do issues one request without following redirects. Endpoint violations
// are returned as errors before any I/O; transport failures are reported as
// a StatusTransportFailure response. Bodies of non-2xx responses are
// dropped.
func (s *Session) Do(ctx context.Context, req *Request) (*Response, error) {
	return s.do(ctx, req, nil)
}

// do runs one request. inspect, when set, may rewrite a received response
// before it is counted and logged, so synthetic statuses are recorded under
// their own code.
func (s *Session) do(ctx context.Context, req *Request, inspect func(*Response)) (*Response, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	target, err := s.resolve(req.URI)
	if err != nil {
		return nil, err
	}
	foreign := target.Scheme != s.base.Scheme || !strings.EqualFold(target.Host, s.base.Host)
	if foreign && !req.AllowForeignHost {
		if target.Scheme != s.base.Scheme {
			return nil, &Error{URI: s.baseURI, Value: target.Scheme, Err: ErrSchemeMismatch}
		}
		return nil, &Error{URI: s.baseURI, Value: target.Host, Err: ErrHostMismatch}
	}

	client, token := s.client, s.token
	if foreign {
		rt := s.foreignTransport()
		defer closeIdle(rt)
		client, token = s.newClient(rt), ""
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	uri := target.String()
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		return transportFailure(uri, err), nil
	}
	for name, value := range req.Header {
		httpReq.Header.Set(name, value)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if req.Accept != "" {
		httpReq.Header.Set("Accept", req.Accept)
	}
	if s.userAgent != "" {
		httpReq.Header.Set("User-Agent", s.userAgent)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	s.logger.Debug("request",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Bool("foreign", foreign),
		zap.Strings("headers", headerNames(httpReq.Header)),
		zap.Int("body_bytes", len(req.Body)),
	)
	start := time.Now()
	resp, err := s.roundTrip(client, httpReq)
	if err != nil {
		s.logger.Warn("request failed", zap.String("method", method), zap.String("uri", uri), zap.Error(err))
		s.metrics.observe(method, StatusTransportFailure, time.Since(start))
		return transportFailure(uri, err), nil
	}
	if inspect != nil {
		inspect(resp)
	}
	s.metrics.observe(method, resp.Status, time.Since(start))
	s.logger.Debug("response",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", resp.Status),
		zap.String("reason", resp.Reason),
	)
	return resp, nil
}

func (s *Session) roundTrip(client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return newResponse(req, resp, body), nil
}

// headerNames lists request header names without their values so that
// credentials never reach the log.
func headerNames(h http.Header) []string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, strings.ToLower(name))
	}
	return names
}
