// Package urlutil implements the URL arithmetic source map tooling needs to
// resolve "sources" entries: joining a path onto a root, making a URL relative
// to another one and computing the final URL of a source.
//
// Inputs may be any of four shapes (see Type). Plain paths are resolved by
// pretending they live under a placeholder http://host/ base, which gets an
// extra unique segment for every ".." found in the inputs, so that resolution
// never collapses a ".." hop we later need to reproduce.
//
// All functions are pure and safe for concurrent use.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Type classifies a URL string by its leading characters.
type Type int

const (
	// Absolute URLs start with a scheme, e.g. "https://example.com/a.js".
	Absolute Type = iota
	// SchemeRelative URLs start with "//", e.g. "//cdn.example.com/a.js".
	SchemeRelative
	// PathAbsolute URLs start with a single "/", e.g. "/src/a.js".
	PathAbsolute
	// PathRelative is anything else, e.g. "../src/a.js".
	PathRelative
)

func (t Type) String() string {
	switch t {
	case Absolute:
		return "absolute"
	case SchemeRelative:
		return "scheme-relative"
	case PathAbsolute:
		return "path-absolute"
	case PathRelative:
		return "path-relative"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

var (
	// ErrNotAbsolute is returned when a URL that must carry a scheme doesn't.
	ErrNotAbsolute = errors.New("not an absolute URL")
	// ErrOpaque is returned by Join when the root is an absolute URL that
	// can't serve as a base, e.g. "data:text/plain,hi".
	ErrOpaque = errors.New("URL can't be used as a base")
)

const (
	safeScheme        = "http:"
	safeSchemeAndHost = safeScheme + "//host"
)

// TypeOf returns the shape of the URL string.
func TypeOf(s string) Type {
	if strings.HasPrefix(s, "/") {
		if strings.HasPrefix(s, "//") {
			return SchemeRelative
		}
		return PathAbsolute
	}
	if hasScheme(s) {
		return Absolute
	}
	return PathRelative
}

// hasScheme reports whether s starts with /^[A-Za-z0-9+\-.]+:/.
func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '+', c == '-', c == '.':
		case c == ':':
			return i > 0
		default:
			return false
		}
	}
	return false
}

// Normalize converts backslashes and removes "." and ".." segments. The shape
// of the input is preserved.
func Normalize(s string) (string, error) {
	return withSafeBase(s, func(u url.URL) url.URL { return u })
}

// ensureDirectory makes sure the URL path ends with a "/".
func ensureDirectory(s string) (string, error) {
	return withSafeBase(s, func(u url.URL) url.URL {
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
			if u.RawPath != "" {
				u.RawPath += "/"
			}
		}
		return u
	})
}

// trimFilename strips the last path segment, if any, as well as the query and
// the fragment.
func trimFilename(s string) (string, error) {
	return withSafeBase(s, func(u url.URL) url.URL {
		return canonical(*u.ResolveReference(&url.URL{Path: "."}))
	})
}

// Join joins a path or URL onto root. The root is always treated as a
// directory. The result is normalized.
func Join(root, path string) (string, error) {
	pathType := TypeOf(path)
	rootType := TypeOf(root)
	if rootType == Absolute && pathType != Absolute {
		if err := requireHierarchical(root); err != nil {
			return "", err
		}
	}

	root, err := ensureDirectory(root)
	if err != nil {
		return "", err
	}

	switch {
	case pathType == Absolute:
		return withBase(path, "")
	case rootType == Absolute:
		return withBase(path, root)
	case pathType == SchemeRelative:
		return Normalize(path)
	case rootType == SchemeRelative:
		joined, err := withBase2(path, root, safeSchemeAndHost)
		if err != nil {
			return "", err
		}
		return strings.TrimPrefix(joined, safeScheme), nil
	case pathType == PathAbsolute:
		return Normalize(path)
	case rootType == PathAbsolute:
		joined, err := withBase2(path, root, safeSchemeAndHost)
		if err != nil {
			return "", err
		}
		return strings.TrimPrefix(joined, safeSchemeAndHost), nil
	}

	base := safeBase(path + root)
	joined, err := withBase2(path, root, base)
	if err != nil {
		return "", err
	}
	return relativeTo(base, joined)
}

// Relative makes target relative to root. If that is impossible, because the
// two have different shapes, schemes or authorities, or target can't serve
// as a base (e.g. data: URLs), the normalized target is returned instead.
func Relative(root, target string) string {
	if rel, ok := relativeIfPossible(root, target); ok {
		return rel
	}
	normalized, err := Normalize(target)
	if err != nil {
		log.Debugf("Failed to normalize %q, leaving it as is: %v", target, err)
		return target
	}
	return normalized
}

func relativeIfPossible(root, target string) (string, bool) {
	if TypeOf(root) != TypeOf(target) {
		return "", false
	}

	base := safeBase(root + target)
	r, err := resolve(root, base)
	if err != nil {
		log.Debugf("Can't make %q relative to %q: %v", target, root, err)
		return "", false
	}
	t, err := resolve(target, base)
	if err != nil {
		log.Debugf("Can't make %q relative to %q: %v", target, root, err)
		return "", false
	}
	if t.Opaque != "" {
		// URLs like data: and blob: can't have anything relative to them.
		return "", false
	}
	if t.Scheme != r.Scheme ||
		t.User.Username() != r.User.Username() ||
		password(t.User) != password(r.User) ||
		t.Hostname() != r.Hostname() ||
		t.Port() != r.Port() {
		return "", false
	}

	return computeRelativeURL(r, t), true
}

// ComputeSourceURL computes the URL of a source given the source root, the
// source's URL and the URL of the source map. Empty sourceRoot and
// sourceMapURL are ignored.
//
// Source map consumers have traditionally concatenated sourceRoot and the
// source with a "/" in between, so "/some-path.js" under the "some-dir" root
// must become "some-dir/some-path.js". To keep that behavior the leading "/"
// of a path-absolute source is dropped when a source root is present.
func ComputeSourceURL(sourceRoot, sourceURL, sourceMapURL string) (string, error) {
	if sourceRoot != "" && TypeOf(sourceURL) == PathAbsolute {
		sourceURL = sourceURL[1:]
	}

	result, err := Normalize(sourceURL)
	if err != nil {
		return "", err
	}
	if sourceRoot != "" {
		if result, err = Join(sourceRoot, result); err != nil {
			return "", err
		}
	}
	if sourceMapURL != "" {
		dir, err := trimFilename(sourceMapURL)
		if err != nil {
			return "", err
		}
		if result, err = Join(dir, result); err != nil {
			return "", err
		}
	}
	return result, nil
}

// computeRelativeURL builds a URL relative to root from target's path, query
// and fragment. The two are assumed to share scheme and authority.
func computeRelativeURL(root, target url.URL) string {
	targetParts := strings.Split(target.EscapedPath(), "/")
	rootParts := strings.Split(root.EscapedPath(), "/")

	// With a trailing "/" the root's last segment is empty, and we'd otherwise
	// be relative to the wrong location.
	if n := len(rootParts); n > 0 && rootParts[n-1] == "" {
		rootParts = rootParts[:n-1]
	}

	for len(targetParts) > 0 && len(rootParts) > 0 && targetParts[0] == rootParts[0] {
		targetParts = targetParts[1:]
		rootParts = rootParts[1:]
	}

	parts := make([]string, 0, len(rootParts)+len(targetParts))
	for range rootParts {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts...)

	return strings.Join(parts, "/") + search(target) + hash(target)
}

// relativeTo is computeRelativeURL for two absolute URL strings.
func relativeTo(root, target string) (string, error) {
	r, err := resolve(root, "")
	if err != nil {
		return "", err
	}
	t, err := resolve(target, "")
	if err != nil {
		return "", err
	}
	return computeRelativeURL(r, t), nil
}

func search(u url.URL) string {
	if u.RawQuery == "" {
		return ""
	}
	return "?" + u.RawQuery
}

func hash(u url.URL) string {
	if u.Fragment == "" {
		return ""
	}
	return "#" + u.EscapedFragment()
}

func password(u *url.Userinfo) string {
	p, _ := u.Password()
	return p
}
