package httpsession

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option modifies the Session configuration.
type Option func(*Session)

// WithAccessToken sets the bearer token sent to the session endpoint.
func WithAccessToken(token string) Option {
	return func(s *Session) {
		s.token = token
	}
}

// WithLogger specifies the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.timeout = timeout
	}
}

// WithTransport specifies the round tripper carrying the persistent
// connection to the session endpoint.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *Session) {
		s.transport = rt
	}
}

// WithForeignTransport specifies the factory for the throwaway round
// trippers used by foreign-host requests.
func WithForeignTransport(factory func() http.RoundTripper) Option {
	return func(s *Session) {
		s.foreignTransport = factory
	}
}

// WithUserAgent sets the user-agent header on every request.
func WithUserAgent(userAgent string) Option {
	return func(s *Session) {
		s.userAgent = userAgent
	}
}

// WithMetrics registers request metrics with the given registerer.
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(s *Session) {
		s.registerer = registerer
	}
}
