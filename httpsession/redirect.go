package httpsession

import (
	"context"
	"net/url"
)

type doFunc func(context.Context, *Request) (*Response, error)

// DoFollowRedirects issues req and follows a 302, 303 or 307 response by
// re-issuing the identical request at the location given. A further 302 or
// 307 is followed once more; anything after that is returned as received.
// Response.URI records the URI of the final hop.
func (s *Session) DoFollowRedirects(ctx context.Context, req *Request) (*Response, error) {
	return followRedirects(ctx, req, s.Do)
}

func followRedirects(ctx context.Context, req *Request, do doFunc) (*Response, error) {
	resp, err := do(ctx, req)
	if err != nil {
		return nil, err
	}
	switch resp.Status {
	case 302, 303, 307:
	default:
		return resp, nil
	}
	if resp, err = redirectHop(ctx, req, resp, do); err != nil {
		return nil, err
	}
	switch resp.Status {
	case 302, 307:
		return redirectHop(ctx, req, resp, do)
	default:
		return resp, nil
	}
}

// redirectHop re-issues req at prev's location. A redirect without a
// location is returned unchanged.
func redirectHop(ctx context.Context, req *Request, prev *Response, do doFunc) (*Response, error) {
	location := prev.Header["location"]
	if location == "" {
		return prev, nil
	}
	next := *req
	next.URI = resolveReference(prev.URI, location)
	return do(ctx, &next)
}

func resolveReference(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
