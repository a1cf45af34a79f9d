package urlutil

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// specialSchemes have hierarchical paths where "\" is a path separator, as
// defined by the WHATWG URL standard. Values are default ports.
var specialSchemes = map[string]string{
	"ftp":   "21",
	"file":  "",
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
}

// uniqueSegment returns the first of prefix0, prefix1, ... that doesn't occur
// anywhere in s.
func uniqueSegment(prefix, s string) string {
	for id := 0; ; id++ {
		segment := prefix + strconv.Itoa(id)
		if !strings.Contains(s, segment) {
			return segment
		}
	}
}

// safeBase builds a placeholder base URL to resolve the relative paths found
// in s against. The base path repeats a segment that doesn't occur in s once
// per "..", so the resolved URL keeps enough depth to compute ".." hops back.
//
// If the segment could collide with the input, relative paths would come out
// wrong. With a plain "a" segment:
//
//	url:      "../../a/"
//	base:     "http://host/a/a/"
//	resolved: "http://host/a/"
//	relative: "a/" instead of "../../a/"
func safeBase(s string) string {
	dotParts := strings.Count(s, "..")
	segment := uniqueSegment("p", s)

	var b strings.Builder
	b.WriteString(safeSchemeAndHost + "/")
	for i := 0; i < dotParts; i++ {
		b.WriteString(segment + "/")
	}
	return b.String()
}

// withSafeBase resolves input against a safe base, applies fn to it and
// converts the result back to the shape of the input.
func withSafeBase(input string, fn func(url.URL) url.URL) (string, error) {
	typ := TypeOf(input)
	base := safeBase(input)
	u, err := resolve(input, base)
	if err != nil {
		return "", err
	}

	v := fn(u)
	result := v.String()

	switch typ {
	case Absolute:
		return result, nil
	case SchemeRelative:
		return strings.TrimPrefix(result, safeScheme), nil
	case PathAbsolute:
		return strings.TrimPrefix(result, safeSchemeAndHost), nil
	default:
		// fn is only expected to change the path, query and fragment.
		return relativeTo(base, result)
	}
}

// withBase resolves ref against base and returns the resulting URL string.
// Empty base requires ref to be absolute.
func withBase(ref, base string) (string, error) {
	u, err := resolve(ref, base)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// withBase2 resolves ref against mid resolved against base.
func withBase2(ref, mid, base string) (string, error) {
	b, err := withBase(mid, base)
	if err != nil {
		return "", err
	}
	return withBase(ref, b)
}

// resolve parses ref relative to base. An empty base requires ref to be
// absolute. Dot segments are removed from the result.
func resolve(ref, base string) (url.URL, error) {
	var b *url.URL
	if base != "" {
		parsed, err := url.Parse(base)
		if err != nil {
			return url.URL{}, fmt.Errorf("invalid base URL %q: %w", base, err)
		}
		if !parsed.IsAbs() {
			return url.URL{}, fmt.Errorf("%w: %q", ErrNotAbsolute, base)
		}
		b = parsed
	}

	scheme := ""
	if TypeOf(ref) == Absolute {
		scheme = ref[:strings.IndexByte(ref, ':')]
	} else if b != nil {
		scheme = b.Scheme
	}
	if isSpecial(scheme) {
		ref = fixBackslashes(ref)
	}

	r, err := url.Parse(ref)
	if err != nil {
		return url.URL{}, fmt.Errorf("invalid URL %q: %w", ref, err)
	}
	if b == nil {
		if !r.IsAbs() {
			return url.URL{}, fmt.Errorf("%w: %q", ErrNotAbsolute, ref)
		}
		b = r
	}
	resolved := b.ResolveReference(r)
	if ref == "" {
		// An empty reference is the base document itself, without fragment.
		resolved.Fragment, resolved.RawFragment = "", ""
	}
	return canonical(*resolved), nil
}

// requireHierarchical returns ErrOpaque for absolute URLs that have no path
// hierarchy to resolve against, such as "data:" and "mailto:" URLs.
func requireHierarchical(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", s, err)
	}
	if u.Opaque != "" && !isSpecial(u.Scheme) {
		return fmt.Errorf("%w: %q", ErrOpaque, s)
	}
	return nil
}

func isSpecial(scheme string) bool {
	_, ok := specialSchemes[strings.ToLower(scheme)]
	return ok
}

// fixBackslashes turns "\" into "/" before the query and fragment.
func fixBackslashes(s string) string {
	end := strings.IndexAny(s, "?#")
	if end == -1 {
		end = len(s)
	}
	return strings.ReplaceAll(s[:end], `\`, "/") + s[end:]
}

// canonical brings the URL closer to the serialization a browser would
// produce: lower case scheme and host, no default port, "/" for an empty
// hierarchical path.
func canonical(u url.URL) url.URL {
	u.Scheme = strings.ToLower(u.Scheme)
	defaultPort, special := specialSchemes[u.Scheme]
	if !special {
		return u
	}

	host, port := u.Hostname(), u.Port()
	host = strings.ToLower(host)
	if strings.Contains(host, ":") {
		host = "[" + host + "]" // IPv6 literal.
	}
	if port != "" && port != defaultPort {
		host += ":" + port
	}
	u.Host = host

	if u.Opaque == "" && u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}
	return u
}
