package ro

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/geoknoesis/rosrs-go/httpsession"
	"github.com/geoknoesis/rosrs-go/rdf"
	"go.uber.org/zap"
)

// ProxyContentType is the media type of proxy creation requests.
const ProxyContentType = "application/vnd.wf4ever.proxy"

const defaultContentType = "application/octet-stream"

const proxyDocument = `<rdf:RDF
  xmlns:ore="http://www.openarchives.org/ore/terms/"
  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" >
  <ore:Proxy>
  </ore:Proxy>
</rdf:RDF>
`

const externalProxyDocument = `<rdf:RDF
  xmlns:ore="http://www.openarchives.org/ore/terms/"
  xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" >
  <ore:Proxy>
    <ore:proxyFor rdf:resource="%s" />
  </ore:Proxy>
</rdf:RDF>
`

// AggregateInternal adds a resource whose content is stored by the service.
// It creates a proxy named by path, then uploads body to the resource the
// proxy stands for. It returns the proxy and resource URIs.
func (r *RemoteMetadata) AggregateInternal(ctx context.Context, path, contentType string, body []byte) (proxyURI, resourceURI string, err error) {
	resp, err := r.session.Do(ctx, &httpsession.Request{
		URI:         r.uri,
		Method:      http.MethodPost,
		ContentType: ProxyContentType,
		Header:      map[string]string{"slug": path},
		Body:        []byte(proxyDocument),
	})
	if err != nil {
		return "", "", err
	}
	if resp.Status != http.StatusCreated {
		return "", "", newError("create proxy", resp, path, ErrAggregation)
	}
	if proxyURI, err = proxyLocation(resp, path); err != nil {
		return "", "", err
	}
	target, ok := resp.Links()[ProxyFor.Value]
	if !ok {
		return "", "", newError("create proxy: no ore:proxyFor link", resp, proxyURI, ErrProtocol)
	}
	resourceURI = resolve(resp.URI, target)
	r.logger.Info("proxy created",
		zap.String("path", path),
		zap.String("proxy", proxyURI),
		zap.String("resource", resourceURI),
	)

	if contentType == "" {
		contentType = defaultContentType
	}
	resp, err = r.session.Do(ctx, &httpsession.Request{
		URI:         resourceURI,
		Method:      http.MethodPut,
		ContentType: contentType,
		Body:        body,
	})
	if err != nil {
		return "", "", err
	}
	if resp.Status != http.StatusOK && resp.Status != http.StatusCreated {
		return "", "", newError("upload content", resp, path, ErrAggregation)
	}
	r.logger.Info("resource content stored", zap.String("resource", resourceURI), zap.Int("bytes", len(body)))
	return proxyURI, resourceURI, nil
}

// proxyLocation returns the proxy URI a 201 reply names in its location
// header.
func proxyLocation(resp *httpsession.Response, ref string) (string, error) {
	location := resp.Get("location")
	if location == "" {
		return "", newError("create proxy: no location", resp, ref, ErrProtocol)
	}
	return resolve(resp.URI, location), nil
}

// UpdateInternal replaces the content of an aggregated internal resource.
func (r *RemoteMetadata) UpdateInternal(ctx context.Context, resourceURI, contentType string, body []byte) (*httpsession.Response, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	resp, err := r.session.Do(ctx, &httpsession.Request{
		URI:         resourceURI,
		Method:      http.MethodPut,
		ContentType: contentType,
		Body:        body,
	})
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, newError("update content", resp, resourceURI, ErrAggregation)
	}
	r.logger.Info("resource content updated", zap.String("resource", resp.URI), zap.Int("bytes", len(body)))
	return resp, nil
}

// AggregateExternal adds resourceURI to the RO by reference. It returns the
// proxy URI and the resource URI.
func (r *RemoteMetadata) AggregateExternal(ctx context.Context, resourceURI string) (proxyURI, resURI string, err error) {
	var escaped bytes.Buffer
	if err := xml.EscapeText(&escaped, []byte(resourceURI)); err != nil {
		return "", "", err
	}
	resp, err := r.session.Do(ctx, &httpsession.Request{
		URI:         r.uri,
		Method:      http.MethodPost,
		ContentType: ProxyContentType,
		Body:        fmt.Appendf(nil, externalProxyDocument, escaped.String()),
	})
	if err != nil {
		return "", "", err
	}
	if resp.Status != http.StatusCreated {
		return "", "", newError("create proxy", resp, resourceURI, ErrAggregation)
	}
	if proxyURI, err = proxyLocation(resp, resourceURI); err != nil {
		return "", "", err
	}
	r.logger.Info("external resource aggregated", zap.String("resource", resourceURI), zap.String("proxy", proxyURI))
	return proxyURI, resourceURI, nil
}

// Deaggregate removes resourceURI from the RO. When the manifest names a
// proxy for the resource the proxy is deleted; otherwise the resource URI
// itself is deleted and the service redirect to its proxy is followed.
// Internal content goes with it. A 404 is accepted as already removed.
func (r *RemoteMetadata) Deaggregate(ctx context.Context, resourceURI string) (*httpsession.Response, error) {
	resourceURI = r.ComponentURI(resourceURI)
	req := &httpsession.Request{URI: resourceURI, Method: http.MethodDelete}
	do := r.session.DoFollowRedirects
	if proxy, ok := r.proxyFor(ctx, resourceURI); ok {
		req.URI = proxy
		do = r.session.Do
	}
	resp, err := do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusNoContent && resp.Status != http.StatusNotFound {
		return nil, newError("delete proxy", resp, resourceURI, ErrAggregation)
	}
	r.logger.Info("resource deaggregated",
		zap.String("resource", resourceURI),
		zap.String("deleted", resp.URI),
		zap.Int("status", resp.Status),
	)
	return resp, nil
}

func (r *RemoteMetadata) proxyFor(ctx context.Context, resourceURI string) (string, bool) {
	g, err := r.LoadManifest(ctx)
	if err != nil {
		r.logger.Debug("no manifest for proxy lookup", zap.String("resource", resourceURI), zap.Error(err))
		return "", false
	}
	proxy, ok := g.Subject(ProxyFor, rdf.IRI{Value: resourceURI})
	if !ok || !rdf.IsIRI(proxy) {
		return "", false
	}
	return proxy.(rdf.IRI).Value, true
}

// Head retrieves the headers of resourceURI. A 404 is returned as a
// response, not an error.
func (r *RemoteMetadata) Head(ctx context.Context, resourceURI string) (*httpsession.Response, error) {
	resp, err := r.session.Do(ctx, &httpsession.Request{URI: resourceURI, Method: http.MethodHead})
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK && resp.Status != http.StatusNotFound {
		return nil, newError("head", resp, resourceURI, ErrProtocol)
	}
	return resp, nil
}
