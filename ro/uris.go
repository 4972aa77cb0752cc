package ro

import (
	"net/url"
	"strings"
)

// URI returns the canonical RO URI. After LoadManifest it is the subject
// the manifest types as ro:ResearchObject.
func (r *RemoteMetadata) URI() string {
	return r.uri
}

// Ref returns the reference the RO was opened with.
func (r *RemoteMetadata) Ref() string {
	return r.ref
}

// ManifestURI returns the location of the manifest beneath the RO.
func (r *RemoteMetadata) ManifestURI() string {
	return r.ComponentURI(r.manifestDir + "/" + r.manifestFile)
}

// ComponentURI resolves path against the RO URI.
func (r *RemoteMetadata) ComponentURI(path string) string {
	return resolve(r.uri, path)
}

// ComponentURIRelative returns uri relative to the RO URI, or uri itself when
// it lies outside the RO. The result keeps the encoding uri was given in.
func (r *RemoteMetadata) ComponentURIRelative(uri string) string {
	base, err := url.Parse(r.uri)
	if err != nil || r.uri == "" {
		return uri
	}
	rest, ok := resolveRaw(base, uri)
	if !ok {
		return uri
	}
	if prefix := base.EscapedPath(); strings.HasPrefix(rest, prefix) {
		return strings.TrimPrefix(rest, prefix)
	}
	return uri
}

// IsMetadataRef reports whether uri refers into the RO metadata directory.
func (r *RemoteMetadata) IsMetadataRef(uri string) bool {
	return strings.HasPrefix(r.ComponentURIRelative(uri), r.manifestDir+"/")
}

// IsInternal reports whether uri has the RO URI as a prefix, meaning its
// content is stored by the service.
func (r *RemoteMetadata) IsInternal(uri string) bool {
	return strings.HasPrefix(uri, r.uri)
}

// IsExternal reports whether uri can be aggregated as a plain reference.
func (r *RemoteMetadata) IsExternal(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(u).String()
}

// resolveRaw resolves ref against base and returns the path, query and
// fragment of the result as written in ref. It reports false when ref names
// another scheme or host. Scheme and host compare case-insensitively.
func resolveRaw(base *url.URL, ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	switch {
	case u.Scheme != "" || u.Host != "":
		scheme := u.Scheme
		if scheme == "" {
			scheme = base.Scheme
		}
		if !strings.EqualFold(scheme, base.Scheme) || !strings.EqualFold(u.Host, base.Host) {
			return "", false
		}
		_, authority, _ := strings.Cut(ref, "//")
		i := strings.IndexAny(authority, "/?#")
		if i < 0 {
			return "", true
		}
		return removeDotSegments(authority[i:]), true
	case strings.HasPrefix(ref, "/"):
		return removeDotSegments(ref), true
	default:
		dir := base.EscapedPath()
		dir = dir[:strings.LastIndex(dir, "/")+1]
		return removeDotSegments(dir + ref), true
	}
}

// removeDotSegments collapses "." and ".." path segments, leaving any query
// or fragment alone.
func removeDotSegments(p string) string {
	tail := ""
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p, tail = p[:i], p[i:]
	}
	segs := strings.Split(p, "/")
	out := make([]string, 0, len(segs))
	for i, seg := range segs {
		last := i == len(segs)-1
		switch seg {
		case ".":
			if last {
				out = append(out, "")
			}
		case "..":
			if len(out) > 1 {
				out = out[:len(out)-1]
			}
			if last {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}
	return strings.Join(out, "/") + tail
}
